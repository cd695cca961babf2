// Package htmlquery extracts articles from Next.js pages by querying the
// embedded __NEXT_DATA__ payload with XPath.
package htmlquery

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/goquery"
	"github.com/fwojciec/sentiread/htmltext"
)

// MethodNextData is recorded for results read from __NEXT_DATA__.
const MethodNextData = "nextjs-data"

var _ goquery.Strategy = NextDataStrategy{}

// NextData returns the decoded __NEXT_DATA__ payload of a Next.js page.
func NextData(html string) (map[string]any, error) {
	doc, err := htmlquery.Parse(strings.NewReader(html))
	if err != nil {
		return nil, sentiread.Errorf(sentiread.EPARSING, "failed to parse HTML: %v", err)
	}
	node, err := htmlquery.Query(doc, `//script[@id="__NEXT_DATA__"]`)
	if err != nil {
		return nil, sentiread.Errorf(sentiread.EINTERNAL, "invalid xpath: %v", err)
	}
	if node == nil {
		return nil, sentiread.Errorf(sentiread.ENOTFOUND, "page has no __NEXT_DATA__ script")
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(htmlquery.InnerText(node)), &data); err != nil {
		return nil, sentiread.Errorf(sentiread.EPARSING, "invalid __NEXT_DATA__ JSON: %v", err)
	}
	return data, nil
}

// Lookup walks v along path. String elements index objects and int
// elements index arrays. It returns nil when any step is missing.
func Lookup(v any, path ...any) any {
	for _, step := range path {
		switch k := step.(type) {
		case string:
			m, ok := v.(map[string]any)
			if !ok {
				return nil
			}
			v = m[k]
		case int:
			a, ok := v.([]any)
			if !ok || k < 0 || k >= len(a) {
				return nil
			}
			v = a[k]
		default:
			return nil
		}
	}
	return v
}

// NextDataStrategy reads an article object from the page's __NEXT_DATA__.
type NextDataStrategy struct {
	// Path locates the article object inside the payload.
	Path []any
}

func (s NextDataStrategy) Method() string { return MethodNextData }

// Extract returns the article at Path. Its HTML content is reduced to
// plain text.
func (s NextDataStrategy) Extract(_ context.Context, html, _ string) (*sentiread.ExtractionResult, error) {
	data, err := NextData(html)
	if err != nil {
		return nil, err
	}
	article, ok := Lookup(data, s.Path...).(map[string]any)
	if !ok {
		return nil, nil
	}

	content := htmltext.CleanHTMLContent(str(article, "content"))
	if !htmltext.ValidateContent(content) {
		return nil, nil
	}

	excerpt := str(article, "excerpt")
	if excerpt == "" {
		excerpt = str(article, "short_excerpt")
	}
	categories := article["categories"]
	if categories == nil {
		categories = []any{}
	}
	md := map[string]any{
		"extractionMethod": MethodNextData,
		"excerpt":          excerpt,
		"pubDate":          str(article, "pubDate"),
		"categories":       categories,
	}
	if minutes, ok := article["minutes_read"]; ok && minutes != nil {
		md["readTime"] = minutes
	}

	return &sentiread.ExtractionResult{
		Content:       content,
		Title:         str(article, "title"),
		Author:        str(article, "author_name"),
		PublishedDate: htmltext.NormalizeISO(str(article, "pubDate")),
		Metadata:      md,
	}, nil
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}
