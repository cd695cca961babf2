package goquery

import "github.com/PuerkitoBio/goquery"

// NewEvoIndiaExtractor creates the extractor for evoindia.com. Its AMP
// pages are lighter than the canonical ones and are tried first.
func NewEvoIndiaExtractor(opts ...Option) *SiteExtractor {
	o := resolve(opts)
	exclude := []string{"facebook", "twitter", "instagram", "newsletter"}
	return NewSiteExtractor(SiteConfig{
		Name:    "EvoIndiaExtractor",
		Domains: []string{"evoindia.com"},
		Strategies: []Strategy{
			&AMPStrategy{Fetcher: o.fetcher, Exclude: exclude},
			JSONLDStrategy{},
			SelectorStrategy{
				Noise: []string{"script", "style", "noscript", ".advertisement", ".social-share", ".related-stories"},
				Candidates: []string{
					".details-content-story .story",
					".story-wrap .story",
					".content .story",
					".article-content",
					".story-content",
					"article .content",
				},
				Exclude: exclude,
			},
			RegexStrategy{Exclude: exclude},
		},
		TitleSelectors: []string{
			"h1.article-title",
			"h1.title",
			".article-title",
			"h1",
		},
		AuthorSelectors: []string{
			".about-author .title",
			".about-author a",
			".author-name",
			".byline",
		},
		TitleSuffixes: []string{"| evo India", "| evoIndia"},
		Metadata: func(doc *goquery.Document) map[string]any {
			md := map[string]any{}
			if category := evoCategory(doc); category != "" {
				md["category"] = category
			}
			return md
		},
	}, opts...)
}

func evoCategory(doc *goquery.Document) string {
	for _, sel := range []string{".category-name.detail", ".category-name", ".article-section", `meta[property="article:section"]`} {
		if v := selectionValue(doc.Find(sel).First()); v != "" {
			return v
		}
	}
	return ""
}
