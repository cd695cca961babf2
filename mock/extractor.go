package mock

import (
	"context"

	"github.com/fwojciec/sentiread"
)

var (
	_ sentiread.Extractor         = (*Extractor)(nil)
	_ sentiread.ContentExtractor  = (*ContentExtractor)(nil)
	_ sentiread.BylineExtractor   = (*BylineExtractor)(nil)
	_ sentiread.ExtractorRegistry = (*ExtractorRegistry)(nil)
)

// Extractor is a mock implementation of sentiread.Extractor.
type Extractor struct {
	NameFn            func() string
	DomainsFn         func() []string
	CanHandleFn       func(url string) bool
	ExtractFn         func(ctx context.Context, html, url string) *sentiread.ExtractionResult
	ExtractMetadataFn func(html, url string) map[string]any
}

func (e *Extractor) Name() string {
	return e.NameFn()
}

func (e *Extractor) Domains() []string {
	return e.DomainsFn()
}

func (e *Extractor) CanHandle(url string) bool {
	return e.CanHandleFn(url)
}

func (e *Extractor) Extract(ctx context.Context, html, url string) *sentiread.ExtractionResult {
	return e.ExtractFn(ctx, html, url)
}

func (e *Extractor) ExtractMetadata(html, url string) map[string]any {
	return e.ExtractMetadataFn(html, url)
}

// ContentExtractor is a mock implementation of sentiread.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(ctx context.Context, html, url string) *sentiread.ExtractionResult
}

func (e *ContentExtractor) Extract(ctx context.Context, html, url string) *sentiread.ExtractionResult {
	return e.ExtractFn(ctx, html, url)
}

// BylineExtractor is a mock implementation of sentiread.BylineExtractor.
type BylineExtractor struct {
	ExtractBylineFn func(html string) sentiread.Byline
}

func (e *BylineExtractor) ExtractByline(html string) sentiread.Byline {
	return e.ExtractBylineFn(html)
}

// ExtractorRegistry is a mock implementation of sentiread.ExtractorRegistry.
type ExtractorRegistry struct {
	RegisterFn         func(e sentiread.Extractor)
	FindExtractorFn    func(url string) sentiread.Extractor
	ExtractContentFn   func(ctx context.Context, html, url string) *sentiread.ExtractionResult
	SupportedDomainsFn func() []string
	ExtractorInfoFn    func() []sentiread.ExtractorInfo
}

func (r *ExtractorRegistry) Register(e sentiread.Extractor) {
	r.RegisterFn(e)
}

func (r *ExtractorRegistry) FindExtractor(url string) sentiread.Extractor {
	return r.FindExtractorFn(url)
}

func (r *ExtractorRegistry) ExtractContent(ctx context.Context, html, url string) *sentiread.ExtractionResult {
	return r.ExtractContentFn(ctx, html, url)
}

func (r *ExtractorRegistry) SupportedDomains() []string {
	return r.SupportedDomainsFn()
}

func (r *ExtractorRegistry) ExtractorInfo() []sentiread.ExtractorInfo {
	return r.ExtractorInfoFn()
}
