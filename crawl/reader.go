package crawl

import (
	"context"
	"strings"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/htmltext"
)

// MaxFallbackLength caps text produced by a readability fallback.
const MaxFallbackLength = 12000

// Ensure ReaderExtractor implements sentiread.ContentExtractor at compile time.
var _ sentiread.ContentExtractor = (*ReaderExtractor)(nil)

// ReaderExtractor adapts an ArticleReader to the extraction chain.
// Plain text from the reader is preferred. Without it the content HTML is
// converted to Markdown, or stripped when Converter is nil.
type ReaderExtractor struct {
	Name      string
	Reader    sentiread.ArticleReader
	Converter sentiread.Converter
}

// Extract returns the reader's article or nil when it produced nothing
// that passes content validation.
func (e *ReaderExtractor) Extract(_ context.Context, html, _ string) *sentiread.ExtractionResult {
	article, err := e.Reader.Read(html)
	if err != nil || article == nil {
		return nil
	}

	content := paragraphs(article.Text)
	if content == "" && strings.TrimSpace(article.ContentHTML) != "" {
		if e.Converter != nil {
			if md, err := e.Converter.Convert(article.ContentHTML); err == nil {
				content = strings.TrimSpace(md)
			}
		}
		if content == "" {
			content = htmltext.CleanHTMLContent(article.ContentHTML)
		}
	}

	content = htmltext.Truncate(content, MaxFallbackLength)
	if !htmltext.ValidateContent(content) {
		return nil
	}
	return &sentiread.ExtractionResult{
		Content: content,
		Title:   htmltext.CollapseWhitespace(article.Title),
		Author:  htmltext.CleanAuthor(article.Byline),
		Metadata: map[string]any{
			"extractionMethod": e.Name,
		},
	}
}

// paragraphs normalizes reader text into blank-line separated paragraphs.
func paragraphs(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if line = htmltext.CollapseWhitespace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return htmltext.JoinParagraphs(kept)
}
