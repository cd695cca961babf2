package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/sentiread"
)

// Discoverer finds article URLs for a publisher or section.
type Discoverer struct {
	Sitemaps sentiread.SitemapService

	// Fetcher and Links scan the page itself when sitemaps yield nothing.
	// Both are optional.
	Fetcher sentiread.Fetcher
	Links   sentiread.LinkExtractor

	RetryDelays []time.Duration
}

// DiscoverURLs returns article URLs from the site's sitemaps, falling back
// to the links on siteURL.
func (d *Discoverer) DiscoverURLs(ctx context.Context, siteURL string, filter *sentiread.URLFilter) ([]string, error) {
	if err := validateURL(siteURL); err != nil {
		return nil, err
	}

	if d.Sitemaps != nil {
		urls, err := d.Sitemaps.DiscoverURLs(ctx, siteURL, filter)
		if err != nil {
			return nil, fmt.Errorf("sitemap discovery: %w", err)
		}
		if len(urls) > 0 {
			return urls, nil
		}
	}

	if d.Fetcher == nil || d.Links == nil {
		return []string{}, nil
	}

	delays := d.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, siteURL, d.Fetcher.Fetch, nil, delays)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	urls, err := d.Links.ArticleLinks(html, siteURL, filter)
	if err != nil {
		return nil, err
	}
	if urls == nil {
		urls = []string{}
	}
	return urls, nil
}
