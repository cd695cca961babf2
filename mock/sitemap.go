package mock

import (
	"context"

	"github.com/fwojciec/sentiread"
)

var _ sentiread.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of sentiread.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, siteURL string, filter *sentiread.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *sentiread.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, siteURL, filter)
}
