package goquery

// NewCarDekhoExtractor creates the extractor for cardekho.com. Its pages
// mix the article with spec tables and listings, so after noise removal
// only long paragraphs anywhere in the body are kept.
func NewCarDekhoExtractor(opts ...Option) *SiteExtractor {
	return NewSiteExtractor(SiteConfig{
		Name:    "CarDekhoExtractor",
		Domains: []string{"cardekho.com"},
		Strategies: []Strategy{
			SelectorStrategy{
				Noise: []string{
					".article-right", ".article-left-datatbl",
					".commentbox", ".gsc-comments-container",
					".tags", ".share-it", ".related-articles", ".trending-cars",
					"#rhs-ad-container", "#sticky-ad-container",
					".similar-cars-container", ".latest-news-container", ".author-bio",
					"script", "style", "noscript", "iframe",
					".ad-container", ".ad-wrapper", ".ad-slot",
				},
				Candidates:   []string{"body"},
				MinParagraph: 100,
				Exclude: []string{
					"read more", "also read", "image source",
					"disclaimer", "copyright", "privacy policy",
				},
				Name: "CarDekhoExtractor",
			},
		},
		TitleSelectors: []string{
			"h1.article-title",
			"h1.article-heading",
		},
		AuthorSelectors: []string{
			"a.author",
			`meta[name="twitter:creator"]`,
			".author-info-block .name a",
			".author-info-block .name",
			`span[itemprop="author"]`,
			".author-name",
			".byline",
		},
		TitleSuffixes: []string{"| CarDekho", "- CarDekho", "| CarDekho.com"},
	}, opts...)
}
