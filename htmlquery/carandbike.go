package htmlquery

import "github.com/fwojciec/sentiread/goquery"

// carAndBikeArticle is where carandbike.com's story pages keep the article.
var carAndBikeArticle = []any{"props", "pageProps", "section", 1, "data", 0, "data", 0, "data", 0}

// NewCarAndBikeExtractor creates the extractor for carandbike.com, a
// Next.js site whose article body ships in __NEXT_DATA__.
func NewCarAndBikeExtractor(opts ...goquery.Option) *goquery.SiteExtractor {
	return goquery.NewSiteExtractor(goquery.SiteConfig{
		Name:    "CarAndBikeExtractor",
		Domains: []string{"carandbike.com"},
		Strategies: []goquery.Strategy{
			NextDataStrategy{Path: carAndBikeArticle},
			goquery.JSONLDStrategy{},
		},
		AuthorSelectors: []string{".author-name", ".byline"},
		TitleSuffixes:   []string{"| carandbike", "- carandbike"},
	}, opts...)
}
