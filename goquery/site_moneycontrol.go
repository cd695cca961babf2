package goquery

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// NewMoneyControlExtractor creates the extractor for moneycontrol.com.
//
// MoneyControl's JSON-LD is frequently malformed and its article markup is
// deeply nested, so a container-scoped regex scan runs before the DOM pass.
func NewMoneyControlExtractor(opts ...Option) *SiteExtractor {
	exclude := []string{"advertisement", "disclaimer"}
	return NewSiteExtractor(SiteConfig{
		Name:    "MoneyControlExtractor",
		Domains: []string{"moneycontrol.com"},
		Strategies: []Strategy{
			JSONLDStrategy{},
			RegexStrategy{
				Containers: []*regexp.Regexp{
					ContainerPattern("article_body"),
					ContainerPattern("content_wrapper"),
					ContainerPattern("news_body"),
				},
				Exclude: exclude,
			},
			SelectorStrategy{
				Noise: []string{
					"script", "style", "noscript",
					".advertisement", ".ad-container", ".google-ad",
					".social-share", ".related-articles", ".newsletter-signup",
					".breadcrumb", ".tags", ".disclaimer", ".author-bio",
					".mc-tooltip", ".mc-widget",
				},
				Candidates: []string{
					".article_body",
					".content_wrapper",
					".news_body",
					".story-element",
					"article .content",
					".articleContent",
					"#article-content",
				},
				Exclude: exclude,
			},
		},
		TitleSelectors: []string{
			"h1.article_title",
			"h1.news_title",
			".headline h1",
			"h1",
			".article-title",
		},
		AuthorSelectors: []string{
			".author-name",
			".byline .author",
			".article-author",
			".author",
			".byline",
			".post-author",
			`span[itemprop="author"]`,
		},
		AuthorPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?s)"author"\s*:\s*\{[^}]*"@type"\s*:\s*"Person"[^}]*"name"\s*:\s*"([A-Za-z .]+)"`),
			regexp.MustCompile(`(?s)"author"\s*:\s*\{[^}]*"name"\s*:\s*"([A-Za-z .]+)"`),
		},
		TitleSuffixes: []string{"| Moneycontrol", "- Moneycontrol"},
		Metadata: func(doc *goquery.Document) map[string]any {
			md := map[string]any{}
			if section := metaContent(doc, `meta[property="article:section"]`); section != "" {
				md["category"] = section
			}
			return md
		},
	}, opts...)
}
