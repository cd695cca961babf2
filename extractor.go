package sentiread

import "context"

// ExtractionResult holds the article data produced by an Extractor.
// Empty strings mean the field could not be determined.
type ExtractionResult struct {
	// Content is the plain article text. When non-empty it has already
	// passed content validation; callers never receive unvalidated text.
	Content string `json:"content"`

	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`

	// PublishedDate is an ISO-8601 UTC timestamp such as
	// 2023-06-01T09:00:00.000Z.
	PublishedDate string `json:"publishedDate,omitempty"`

	// Metadata carries strategy-specific details. Every successful
	// extraction sets "extractionMethod".
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ContentExtractor extracts an article from a page of any origin.
type ContentExtractor interface {
	// Extract returns the article or nil when nothing usable was found.
	Extract(ctx context.Context, html, url string) *ExtractionResult
}

// Extractor converts raw HTML from one publisher into article data.
//
// Extractors are constructed once at startup and hold no per-call state,
// so a single instance is safe for concurrent use.
type Extractor interface {
	// Name returns the unique identifier of the extractor.
	Name() string

	// Domains returns the hostname substrings this extractor claims.
	Domains() []string

	// CanHandle reports whether the extractor claims the URL's hostname.
	// It returns false for malformed URLs.
	CanHandle(url string) bool

	// Extract returns the article or nil when every strategy missed.
	// It never panics; strategy failures are logged and skipped.
	Extract(ctx context.Context, html, url string) *ExtractionResult

	// ExtractMetadata returns page-level metadata without extracting the body.
	ExtractMetadata(html, url string) map[string]any
}

// ExtractorInfo describes a registered extractor for diagnostics.
type ExtractorInfo struct {
	Name    string   `json:"name"`
	Domains []string `json:"domains"`
}

// ExtractorRegistry dispatches pages to site-specific extractors.
//
// Iteration order is registration order and the first extractor whose
// CanHandle returns true wins.
type ExtractorRegistry interface {
	// Register appends an extractor. It panics if the extractor is nil,
	// unnamed, claims no domains, or reuses a registered name.
	Register(e Extractor)

	// FindExtractor returns the first matching extractor or nil.
	FindExtractor(url string) Extractor

	// ExtractContent runs the matching extractor. It returns nil when no
	// extractor matches or the matching extractor found nothing, signaling
	// that generic extraction should be used.
	ExtractContent(ctx context.Context, html, url string) *ExtractionResult

	// SupportedDomains returns the sorted, de-duplicated claimed domains.
	SupportedDomains() []string

	// ExtractorInfo returns a description of each extractor in order.
	ExtractorInfo() []ExtractorInfo
}

// Byline holds page-level title and author found by generic heuristics.
type Byline struct {
	Title  string
	Author string
}

// BylineExtractor finds a page's title and author without site knowledge.
type BylineExtractor interface {
	ExtractByline(html string) Byline
}
