package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sentiread"
)

// Ensure LoggingAnalyzer implements sentiread.SentimentAnalyzer.
var _ sentiread.SentimentAnalyzer = (*LoggingAnalyzer)(nil)

// LoggingAnalyzer wraps a SentimentAnalyzer with logging.
type LoggingAnalyzer struct {
	next   sentiread.SentimentAnalyzer
	logger *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer.
func NewLoggingAnalyzer(next sentiread.SentimentAnalyzer, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, logger: logger}
}

// Analyze delegates to the wrapped analyzer and logs the label.
func (a *LoggingAnalyzer) Analyze(ctx context.Context, req sentiread.SentimentRequest) (s *sentiread.Sentiment, err error) {
	defer func(begin time.Time) {
		label := ""
		if s != nil {
			label = s.Sentiment
		}
		a.logger.Info("sentiment",
			"url", req.URL,
			"chars", len([]rune(req.Content)),
			"sentiment", label,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Analyze(ctx, req)
}

// Ensure LoggingSearcher implements sentiread.Searcher.
var _ sentiread.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with logging.
type LoggingSearcher struct {
	next   sentiread.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next sentiread.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the hit count.
func (s *LoggingSearcher) Search(ctx context.Context, q sentiread.SearchQuery) (hits []sentiread.SearchHit, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", q.Query,
			"hits", len(hits),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, q)
}

// Ensure LoggingReportGenerator implements sentiread.ReportGenerator.
var _ sentiread.ReportGenerator = (*LoggingReportGenerator)(nil)

// LoggingReportGenerator wraps a ReportGenerator with logging.
type LoggingReportGenerator struct {
	next   sentiread.ReportGenerator
	logger *slog.Logger
}

// NewLoggingReportGenerator creates a new LoggingReportGenerator.
func NewLoggingReportGenerator(next sentiread.ReportGenerator, logger *slog.Logger) *LoggingReportGenerator {
	return &LoggingReportGenerator{next: next, logger: logger}
}

// GenerateReport delegates to the wrapped generator and logs the overall
// sentiment.
func (g *LoggingReportGenerator) GenerateReport(ctx context.Context, results []sentiread.AnalysisResult) (r *sentiread.Report, err error) {
	defer func(begin time.Time) {
		overall := ""
		if r != nil {
			overall = r.OverallSentiment
		}
		g.logger.Info("report",
			"results", len(results),
			"overall", overall,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.GenerateReport(ctx, results)
}
