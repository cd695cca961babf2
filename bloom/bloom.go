// Package bloom deduplicates discovered article URLs with a Bloom filter.
//
// Sitemaps of large publishers list tens of thousands of URLs, most of them
// repeated across daily and section sitemaps. A Bloom filter keeps memory
// flat at the cost of occasionally dropping a URL it has never seen.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Default sizing used by discovery.
const (
	DefaultCapacity = 50000
	DefaultFPRate   = 0.0001
)

// Seen tracks URLs that have already been emitted. It is not safe for
// concurrent use.
type Seen struct {
	f *bloom.BloomFilter
}

// NewSeen creates a filter sized for n URLs at the given false positive rate.
func NewSeen(n uint, fpRate float64) *Seen {
	return &Seen{f: bloom.NewWithEstimates(n, fpRate)}
}

// First records url and reports whether it had not been seen before.
// A false result may be a false positive.
func (s *Seen) First(url string) bool {
	return !s.f.TestOrAddString(url)
}

// Contains reports whether url might have been recorded.
func (s *Seen) Contains(url string) bool {
	return s.f.TestString(url)
}

// Count returns the approximate number of recorded URLs.
func (s *Seen) Count() uint {
	return uint(s.f.ApproximatedSize())
}
