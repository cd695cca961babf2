package mock

import "github.com/fwojciec/sentiread"

var _ sentiread.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sentiread.LinkExtractor.
type LinkExtractor struct {
	ArticleLinksFn func(html, pageURL string, filter *sentiread.URLFilter) ([]string, error)
}

func (l *LinkExtractor) ArticleLinks(html, pageURL string, filter *sentiread.URLFilter) ([]string, error) {
	return l.ArticleLinksFn(html, pageURL, filter)
}
