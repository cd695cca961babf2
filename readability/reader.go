// Package readability isolates article text with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/sentiread"
	"github.com/go-shiori/go-readability"
)

// Ensure Reader implements sentiread.ArticleReader at compile time.
var _ sentiread.ArticleReader = (*Reader)(nil)

// Reader wraps go-readability, a port of Mozilla's Readability.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read processes raw HTML and returns the main content.
func (r *Reader) Read(rawHTML string) (*sentiread.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sentiread.Errorf(sentiread.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, sentiread.Errorf(sentiread.ECONTENT, "readability: %v", err)
	}

	return &sentiread.Article{
		Title:       article.Title,
		Byline:      article.Byline,
		ContentHTML: article.Content,
		Text:        article.TextContent,
	}, nil
}
