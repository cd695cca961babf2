package sentiread

import "time"

// CacheEntry is a cached extraction keyed by the raw URL string.
type CacheEntry struct {
	URL         string
	Content     string
	Title       string
	Author      string
	ContentHash string

	// Timestamp is set when the content was (re)fetched.
	Timestamp time.Time

	// LastAccessed is updated by every cache hit.
	LastAccessed time.Time

	// TTL is assigned from the URL's domain class at write time.
	TTL time.Duration

	HitCount   int
	FetchCount int
}

// Valid reports whether the entry is still fresh at now.
func (e *CacheEntry) Valid(now time.Time) bool {
	return now.Sub(e.Timestamp) < e.TTL
}

// CachedPage is the extracted page data stored in the cache.
type CachedPage struct {
	Content string
	Title   string
	Author  string
}

// CacheStats summarizes cache state.
type CacheStats struct {
	Size   int `json:"size"`
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// Cache stores extraction results for recently fetched URLs.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns a copy of the fresh entry for url. Expired entries are
	// reported as misses but kept until cleanup.
	Get(url string) (*CacheEntry, bool)

	// Put stores page as the current version of url. The returned changed
	// flag is nil when no previous entry existed, otherwise it reports
	// whether the content hash differs from the previous version.
	Put(url string, page CachedPage) (entry *CacheEntry, changed *bool)

	// MaybeCleanup drops expired entries and enforces the size bound when
	// the cleanup interval has elapsed. It reports whether cleanup ran.
	MaybeCleanup() bool

	// Stats returns the current cache statistics.
	Stats() CacheStats
}
