package sentiread

import "context"

// SearchQuery is a natural-language search for candidate articles.
type SearchQuery struct {
	Query      string `json:"query"`
	NumResults int    `json:"numResults,omitempty"`

	// IncludeDomains restricts results to these hostnames when set.
	IncludeDomains []string `json:"includeDomains,omitempty"`

	// ExcludeDomains drops results from these hostnames.
	ExcludeDomains []string `json:"excludeDomains,omitempty"`

	// Type selects the engine's search mode ("neural", "keyword").
	// Empty lets the engine decide.
	Type string `json:"searchType,omitempty"`
}

// SearchHit is one candidate article URL.
type SearchHit struct {
	URL           string   `json:"url"`
	Title         string   `json:"title,omitempty"`
	Author        string   `json:"author,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Summary       string   `json:"summary,omitempty"`
	Highlights    []string `json:"highlights,omitempty"`
	Score         float64  `json:"score,omitempty"`

	// QualityScore is a 0..1 heuristic of how article-like the hit is.
	QualityScore float64 `json:"qualityScore"`
}

// Searcher finds candidate article URLs for a query.
type Searcher interface {
	Search(ctx context.Context, q SearchQuery) ([]SearchHit, error)
}
