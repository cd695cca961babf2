// Package htmltomarkdown renders article HTML as Markdown text.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/sentiread"
)

// Ensure Converter implements sentiread.Converter at compile time.
var _ sentiread.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv      *converter.Converter
	keepLinks bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithLinks keeps link targets and images in the output. By default links
// are reduced to their text and images are dropped, which is what the
// sentiment prompt wants.
func WithLinks() Option {
	return func(c *Converter) {
		c.keepLinks = true
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	imageRe     = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	blankRunsRe = regexp.MustCompile(`\n{3,}`)
)

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", sentiread.Errorf(sentiread.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", sentiread.Errorf(sentiread.EPARSING, "convert HTML: %v", err)
	}
	if !c.keepLinks {
		md = imageRe.ReplaceAllString(md, "")
		md = linkRe.ReplaceAllString(md, "$1")
		md = blankRunsRe.ReplaceAllString(md, "\n\n")
	}
	return strings.TrimSpace(md), nil
}
