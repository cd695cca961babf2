package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sentiread"
)

// Ensure LoggingRegistry implements sentiread.ExtractorRegistry.
var _ sentiread.ExtractorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps an ExtractorRegistry and logs which extractor
// handled each page.
type LoggingRegistry struct {
	next   sentiread.ExtractorRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next sentiread.ExtractorRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(e sentiread.Extractor) {
	r.next.Register(e)
}

// FindExtractor delegates to the wrapped registry.
func (r *LoggingRegistry) FindExtractor(url string) sentiread.Extractor {
	return r.next.FindExtractor(url)
}

// ExtractContent logs the matched extractor, the winning method and the
// content length.
func (r *LoggingRegistry) ExtractContent(ctx context.Context, html, url string) (result *sentiread.ExtractionResult) {
	defer func(begin time.Time) {
		extractor := "(none)"
		if e := r.next.FindExtractor(url); e != nil {
			extractor = e.Name()
		}
		method, chars := "", 0
		if result != nil {
			method, _ = result.Metadata["extractionMethod"].(string)
			chars = len([]rune(result.Content))
		}
		r.logger.Debug("site extraction",
			"url", url,
			"extractor", extractor,
			"method", method,
			"chars", chars,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return r.next.ExtractContent(ctx, html, url)
}

// SupportedDomains delegates to the wrapped registry.
func (r *LoggingRegistry) SupportedDomains() []string {
	return r.next.SupportedDomains()
}

// ExtractorInfo delegates to the wrapped registry.
func (r *LoggingRegistry) ExtractorInfo() []sentiread.ExtractorInfo {
	return r.next.ExtractorInfo()
}
