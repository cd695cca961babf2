// Package trafilatura isolates article text with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/sentiread"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Reader implements sentiread.ArticleReader at compile time.
var _ sentiread.ArticleReader = (*Reader)(nil)

// Reader wraps go-trafilatura. Its fallback mode also runs readability and
// dom-distiller and keeps the best candidate.
type Reader struct {
	opts trafilatura.Options
}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{opts: trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}}
}

// Read processes raw HTML and returns the main content.
func (r *Reader) Read(rawHTML string) (*sentiread.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sentiread.Errorf(sentiread.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), r.opts)
	if err != nil {
		return nil, sentiread.Errorf(sentiread.ECONTENT, "trafilatura: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		contentHTML = buf.String()
	}

	return &sentiread.Article{
		Title:       result.Metadata.Title,
		Byline:      result.Metadata.Author,
		ContentHTML: contentHTML,
		Text:        result.ContentText,
	}, nil
}
