package goquery

import (
	"context"
	"slices"

	"github.com/fwojciec/sentiread"
)

var _ sentiread.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches pages to site extractors in registration order.
// The first extractor whose CanHandle matches wins.
//
// Registration happens at startup. A registry that is no longer being
// registered to is safe for concurrent use.
type Registry struct {
	extractors []sentiread.Extractor
}

// NewRegistry creates a registry holding extractors, in order.
func NewRegistry(extractors ...sentiread.Extractor) *Registry {
	r := &Registry{}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register appends e. Invalid extractors are programming errors and panic.
func (r *Registry) Register(e sentiread.Extractor) {
	if e == nil {
		panic("goquery: Register extractor is nil")
	}
	name := e.Name()
	if name == "" {
		panic("goquery: Register extractor has no name")
	}
	if len(e.Domains()) == 0 {
		panic("goquery: Register extractor " + name + " claims no domains")
	}
	for _, have := range r.extractors {
		if have.Name() == name {
			panic("goquery: Register called twice for extractor " + name)
		}
	}
	r.extractors = append(r.extractors, e)
}

// FindExtractor returns the first extractor that handles rawURL, or nil.
func (r *Registry) FindExtractor(rawURL string) sentiread.Extractor {
	for _, e := range r.extractors {
		if e.CanHandle(rawURL) {
			return e
		}
	}
	return nil
}

// ExtractContent runs the matching extractor. A nil result tells the
// caller to fall back to generic extraction.
func (r *Registry) ExtractContent(ctx context.Context, html, rawURL string) *sentiread.ExtractionResult {
	e := r.FindExtractor(rawURL)
	if e == nil {
		return nil
	}
	return e.Extract(ctx, html, rawURL)
}

// SupportedDomains returns every claimed domain, sorted and de-duplicated.
func (r *Registry) SupportedDomains() []string {
	var domains []string
	for _, e := range r.extractors {
		domains = append(domains, e.Domains()...)
	}
	slices.Sort(domains)
	return slices.Compact(domains)
}

// ExtractorInfo describes each extractor in registration order.
func (r *Registry) ExtractorInfo() []sentiread.ExtractorInfo {
	info := make([]sentiread.ExtractorInfo, 0, len(r.extractors))
	for _, e := range r.extractors {
		info = append(info, sentiread.ExtractorInfo{Name: e.Name(), Domains: e.Domains()})
	}
	return info
}
