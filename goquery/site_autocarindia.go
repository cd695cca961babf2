package goquery

import "regexp"

// NewAutocarIndiaExtractor creates the extractor for autocarindia.com.
//
// Only some sections publish AMP pages; when the page does not link one,
// those sections' AMP URLs are derived from the canonical path.
func NewAutocarIndiaExtractor(opts ...Option) *SiteExtractor {
	o := resolve(opts)
	exclude := []string{"facebook", "twitter", "instagram", "newsletter"}
	return NewSiteExtractor(SiteConfig{
		Name:    "AutocarIndiaExtractor",
		Domains: []string{"autocarindia.com"},
		Strategies: []Strategy{
			&AMPStrategy{
				Fetcher: o.fetcher,
				Rewrites: []PathRewrite{
					{From: "/auto-features/", To: "/auto-features-amp/"},
					{From: "/advice/", To: "/advice-amp/"},
				},
				Exclude:      exclude,
				TitlePattern: regexp.MustCompile(`(?is)<h6[^>]*class="[^"]*heding[^"]*"[^>]*>(.*?)</h6>`),
			},
			JSONLDStrategy{},
			SelectorStrategy{
				Noise: []string{"script", "style", "noscript", "nav", "header", "footer"},
				Candidates: []string{
					".article-content",
					".story-content",
					".news-content",
					".post-content",
					`[class*="article"][class*="body"]`,
					`[class*="story"][class*="text"]`,
					".content p",
					"article p",
				},
				Exclude: exclude,
			},
			RegexStrategy{Exclude: exclude},
		},
		TitleSelectors: []string{
			"h1",
			".article-title",
			".story-title",
			".news-title",
			`[class*="headline"]`,
		},
		AuthorSelectors: []string{
			`[class*="author"]`,
			`[class*="byline"]`,
			".writer",
			".journalist",
		},
		TitleSuffixes: []string{"| Autocar India"},
	}, opts...)
}
