package sentiread

import (
	"context"
	"time"
)

// Statuses reported per URL or article.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// FetchResult is the outcome of fetching and extracting one URL.
type FetchResult struct {
	URL       string `json:"url"`
	Content   string `json:"content,omitempty"`
	Title     string `json:"articleTitle,omitempty"`
	Author    string `json:"author,omitempty"`
	Status    string `json:"status"`

	// Method names the extraction step that produced Content.
	Method string `json:"extractionMethod,omitempty"`

	Error     string `json:"error,omitempty"`
	ErrorType string `json:"errorType,omitempty"`

	Cached   bool          `json:"cached"`
	CacheAge time.Duration `json:"cacheAge,omitempty"`

	ContentHash string `json:"contentHash,omitempty"`

	// ContentChanged is nil when the URL had never been fetched before.
	ContentChanged *bool `json:"contentChanged,omitempty"`
}

// BatchStats summarizes a batch run.
type BatchStats struct {
	Total       int `json:"total"`
	Successful  int `json:"successful"`
	Failed      int `json:"failed"`
	Cached      int `json:"cached"`
	Concurrency int `json:"concurrency"`
}

// BatchResult holds per-URL results in input order plus summary stats.
type BatchResult struct {
	Results []FetchResult `json:"results"`
	Stats   BatchStats    `json:"stats"`
}

// ContentService fetches and extracts article text.
type ContentService interface {
	// FetchAndExtract processes a single URL. Failures are reported in the
	// result rather than returned.
	FetchAndExtract(ctx context.Context, url string) FetchResult

	// ProcessBatch processes urls under a concurrency bound. It returns an
	// error only for structurally invalid input.
	ProcessBatch(ctx context.Context, urls []string, concurrency int) (*BatchResult, error)
}
