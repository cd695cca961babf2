package crawl_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/crawl"
	"github.com/fwojciec/sentiread/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverer_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("uses sitemaps when they list articles", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{
			Sitemaps: &mock.SitemapService{DiscoverURLsFn: func(context.Context, string, *sentiread.URLFilter) ([]string, error) {
				return []string{"https://example.com/a"}, nil
			}},
			Links: &mock.LinkExtractor{ArticleLinksFn: func(string, string, *sentiread.URLFilter) ([]string, error) {
				t.Fatal("link scan must not run")
				return nil, nil
			}},
		}

		urls, err := d.DiscoverURLs(context.Background(), "https://example.com", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a"}, urls)
	})

	t.Run("falls back to the listing page", func(t *testing.T) {
		t.Parallel()

		filter := &sentiread.URLFilter{Limit: 5}
		var gotHTML string
		var gotFilter *sentiread.URLFilter
		d := &crawl.Discoverer{
			Sitemaps: &mock.SitemapService{DiscoverURLsFn: func(context.Context, string, *sentiread.URLFilter) ([]string, error) {
				return []string{}, nil
			}},
			Fetcher: staticFetcher(nil),
			Links: &mock.LinkExtractor{ArticleLinksFn: func(html, _ string, f *sentiread.URLFilter) ([]string, error) {
				gotHTML, gotFilter = html, f
				return []string{"https://example.com/markets/story-one-two-three"}, nil
			}},
			RetryDelays: fastDelays,
		}

		urls, err := d.DiscoverURLs(context.Background(), "https://example.com/markets", filter)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/markets/story-one-two-three"}, urls)
		assert.Contains(t, gotHTML, "https://example.com/markets")
		assert.Same(t, filter, gotFilter)
	})

	t.Run("returns an empty list without a fallback", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{Sitemaps: &mock.SitemapService{DiscoverURLsFn: func(context.Context, string, *sentiread.URLFilter) ([]string, error) {
			return nil, nil
		}}}

		urls, err := d.DiscoverURLs(context.Background(), "https://example.com", nil)

		require.NoError(t, err)
		assert.NotNil(t, urls)
		assert.Empty(t, urls)
	})

	t.Run("wraps sitemap errors", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{Sitemaps: &mock.SitemapService{DiscoverURLsFn: func(context.Context, string, *sentiread.URLFilter) ([]string, error) {
			return nil, sentiread.Errorf(sentiread.ENETWORK, "down")
		}}}

		_, err := d.DiscoverURLs(context.Background(), "https://example.com", nil)

		assert.Equal(t, sentiread.ENETWORK, sentiread.ErrorCode(err))
	})

	t.Run("rejects invalid site URLs", func(t *testing.T) {
		t.Parallel()

		_, err := (&crawl.Discoverer{}).DiscoverURLs(context.Background(), "example.com", nil)

		assert.Equal(t, sentiread.EINVALID, sentiread.ErrorCode(err))
	})
}
