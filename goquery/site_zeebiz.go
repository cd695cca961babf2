package goquery

import "regexp"

// NewZeeBizExtractor creates the extractor for zeebiz.com.
func NewZeeBizExtractor(opts ...Option) *SiteExtractor {
	exclude := []string{"taboola"}
	return NewSiteExtractor(SiteConfig{
		Name:    "ZeeBizExtractor",
		Domains: []string{"zeebiz.com"},
		Strategies: []Strategy{
			JSONLDStrategy{},
			SelectorStrategy{
				Noise: []string{
					".f-nav", ".socialicon",
					".taboola-below-article-thumbnails", `[data-module="taboola"]`,
					".gpt-ad", `[class*="gpt-"]`,
					".breadcrumb", ".advertisement", ".ad-container",
					".related-articles", ".share-buttons", ".newsletter-signup",
					"script", "style", "noscript",
				},
				Candidates: []string{
					".article-para",
					".story-content",
					".news-content",
					"article .content",
					".articleContent",
				},
				Exclude: exclude,
			},
			RegexStrategy{
				Containers: []*regexp.Regexp{ContainerPattern("article-para")},
				Exclude:    exclude,
			},
		},
		TitleSelectors: []string{
			"h1.articleheading",
			".articleheading",
			"h1",
			".article-title",
			".news-title",
		},
		AuthorSelectors: []string{
			".writer-name span",
			".writerbox .writer-name span",
			".writer-name",
			".author-name",
			".byline",
			".article-author",
		},
		TitleSuffixes: []string{"| Zee Business", "- Zee Business", "- ZeeBiz", "| ZeeBiz"},
	}, opts...)
}
