package goquery

import (
	"context"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/htmltext"
)

// NewHindustanTimesExtractor creates the extractor for hindustantimes.com.
func NewHindustanTimesExtractor(opts ...Option) *SiteExtractor {
	return NewSiteExtractor(SiteConfig{
		Name:    "HindustanTimesExtractor",
		Domains: []string{"hindustantimes.com"},
		Strategies: []Strategy{
			JSONLDStrategy{Types: []string{"NewsArticle"}, BodyOnly: true},
			SelectorStrategy{
				Noise: []string{
					"script", "style", "noscript",
					".nav", ".navigation", ".menu", ".breadcrumb",
					".related", ".trending", ".popular",
					".tags", ".tag-list",
					".share", ".sharing", ".social",
					".subscribe", ".newsletter",
				},
				Candidates: []string{
					".storyDetails",
					".story-details",
					".article-content",
					".story-content",
					".detail-story",
					`div[data-vars-pagetype="story"]`,
					".main-content article",
					"main article",
				},
				MinParagraph:  50,
				MinParagraphs: 2,
				Exclude:       []string{"subscribe", "newsletter", "read more", "also read", "follow us"},
			},
			StrategyFunc{Name: "article-text", Fn: articleText},
		},
		TitleSelectors: []string{
			"h1.hdg1",
			"h1.main-heading",
			"h1.story-title",
			"h1.headline",
		},
		AuthorSelectors: []string{
			".author-name",
			".byline",
			".author-info .name",
			".story-byline",
			".writer-name",
		},
		AuthorPatterns: []*regexp.Regexp{
			regexp.MustCompile(`_sf_async_config\.authors\s*=\s*["']([^"']+)["']`),
			regexp.MustCompile(`"author_name"\s*:\s*"([^"]+)"`),
		},
		TitleSuffixes: []string{"| Hindustan Times", "- Hindustan Times"},
		Metadata: func(doc *goquery.Document) map[string]any {
			md := map[string]any{}
			if section := metaContent(doc, `meta[property="article:section"]`); section != "" {
				md["category"] = section
			}
			return md
		},
	}, opts...)
}

// articleText takes the whole <article> text when it is long enough to be
// an article rather than a teaser.
func articleText(_ context.Context, html, _ string) (*sentiread.ExtractionResult, error) {
	doc := parse(html)
	if doc == nil {
		return nil, nil
	}
	doc.Find("script, style, noscript").Remove()
	text := htmltext.CollapseWhitespace(doc.Find("article").First().Text())
	if htmltext.Len(text) <= 500 {
		return nil, nil
	}
	return &sentiread.ExtractionResult{Content: text}, nil
}
