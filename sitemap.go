package sentiread

import (
	"context"
	"regexp"
	"slices"
)

// SitemapService discovers article URLs from a publisher's sitemaps.
type SitemapService interface {
	// DiscoverURLs finds article URLs listed in a site's sitemaps.
	// It first checks robots.txt for sitemap directives, then falls back
	// to /sitemap.xml and /news-sitemap.xml. Sitemap indexes are resolved
	// recursively and Google News sitemaps are read like plain urlsets.
	//
	// If filter is nil, all URLs are returned.
	DiscoverURLs(ctx context.Context, siteURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns. When set, a URL must match at least one.
	Include []*regexp.Regexp

	// Exclude patterns, applied after Include.
	Exclude []*regexp.Regexp

	// Limit caps the number of URLs returned. Zero means no limit.
	Limit int
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, func(re *regexp.Regexp) bool {
		return re.MatchString(url)
	}) {
		return false
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

// LinkExtractor finds article links on a listing page such as a section
// front. It is the discovery fallback for sites without usable sitemaps.
type LinkExtractor interface {
	ArticleLinks(html, pageURL string, filter *URLFilter) ([]string, error)
}
