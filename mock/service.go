package mock

import (
	"context"

	"github.com/fwojciec/sentiread"
)

var (
	_ sentiread.ContentService    = (*ContentService)(nil)
	_ sentiread.SentimentAnalyzer = (*SentimentAnalyzer)(nil)
	_ sentiread.AnalyticsSink     = (*AnalyticsSink)(nil)
	_ sentiread.AnalyticsService  = (*AnalyticsService)(nil)
	_ sentiread.Searcher          = (*Searcher)(nil)
	_ sentiread.ReportGenerator   = (*ReportGenerator)(nil)
)

// ContentService is a mock implementation of sentiread.ContentService.
type ContentService struct {
	FetchAndExtractFn func(ctx context.Context, url string) sentiread.FetchResult
	ProcessBatchFn    func(ctx context.Context, urls []string, concurrency int) (*sentiread.BatchResult, error)
}

func (s *ContentService) FetchAndExtract(ctx context.Context, url string) sentiread.FetchResult {
	return s.FetchAndExtractFn(ctx, url)
}

func (s *ContentService) ProcessBatch(ctx context.Context, urls []string, concurrency int) (*sentiread.BatchResult, error) {
	return s.ProcessBatchFn(ctx, urls, concurrency)
}

// SentimentAnalyzer is a mock implementation of sentiread.SentimentAnalyzer.
type SentimentAnalyzer struct {
	AnalyzeFn func(ctx context.Context, req sentiread.SentimentRequest) (*sentiread.Sentiment, error)
}

func (a *SentimentAnalyzer) Analyze(ctx context.Context, req sentiread.SentimentRequest) (*sentiread.Sentiment, error) {
	return a.AnalyzeFn(ctx, req)
}

// AnalyticsSink is a mock implementation of sentiread.AnalyticsSink.
type AnalyticsSink struct {
	RecordFn func(ctx context.Context, rec *sentiread.AnalyticsRecord) error
}

func (s *AnalyticsSink) Record(ctx context.Context, rec *sentiread.AnalyticsRecord) error {
	return s.RecordFn(ctx, rec)
}

// AnalyticsService is a mock implementation of sentiread.AnalyticsService.
type AnalyticsService struct {
	SummaryFn func(ctx context.Context, limit int) (*sentiread.AnalyticsSummary, error)
	TrendsFn  func(ctx context.Context, days int) (*sentiread.SentimentTrends, error)
	ThemesFn  func(ctx context.Context, limit int) (*sentiread.ThemeSummary, error)
}

func (s *AnalyticsService) Summary(ctx context.Context, limit int) (*sentiread.AnalyticsSummary, error) {
	return s.SummaryFn(ctx, limit)
}

func (s *AnalyticsService) Trends(ctx context.Context, days int) (*sentiread.SentimentTrends, error) {
	return s.TrendsFn(ctx, days)
}

func (s *AnalyticsService) Themes(ctx context.Context, limit int) (*sentiread.ThemeSummary, error) {
	return s.ThemesFn(ctx, limit)
}

// ReportGenerator is a mock implementation of sentiread.ReportGenerator.
type ReportGenerator struct {
	GenerateReportFn func(ctx context.Context, results []sentiread.AnalysisResult) (*sentiread.Report, error)
}

func (g *ReportGenerator) GenerateReport(ctx context.Context, results []sentiread.AnalysisResult) (*sentiread.Report, error) {
	return g.GenerateReportFn(ctx, results)
}

// Searcher is a mock implementation of sentiread.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, q sentiread.SearchQuery) ([]sentiread.SearchHit, error)
}

func (s *Searcher) Search(ctx context.Context, q sentiread.SearchQuery) ([]sentiread.SearchHit, error) {
	return s.SearchFn(ctx, q)
}

var _ sentiread.AnalysisService = (*AnalysisService)(nil)

// AnalysisService is a mock implementation of sentiread.AnalysisService.
type AnalysisService struct {
	AnalyzeFn      func(ctx context.Context, req sentiread.SentimentRequest) sentiread.AnalysisResult
	AnalyzeBatchFn func(ctx context.Context, reqs []sentiread.SentimentRequest, concurrency int) (*sentiread.AnalysisBatch, error)
}

func (s *AnalysisService) Analyze(ctx context.Context, req sentiread.SentimentRequest) sentiread.AnalysisResult {
	return s.AnalyzeFn(ctx, req)
}

func (s *AnalysisService) AnalyzeBatch(ctx context.Context, reqs []sentiread.SentimentRequest, concurrency int) (*sentiread.AnalysisBatch, error) {
	return s.AnalyzeBatchFn(ctx, reqs, concurrency)
}
