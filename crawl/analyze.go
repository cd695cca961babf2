package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/htmltext"
)

// Analysis batch defaults.
const (
	DefaultAnalysisConcurrency = 3
	MaxAnalysisConcurrency     = 5
	DefaultAnalysisChunkDelay  = 500 * time.Millisecond

	// MaxAnalysisContent is how much article text is sent to the model.
	MaxAnalysisContent = 8000
)

// Ensure Analyzer implements sentiread.AnalysisService at compile time.
var _ sentiread.AnalysisService = (*Analyzer)(nil)

// Analyzer runs sentiment analysis over articles and records each success
// in the analytics sink.
type Analyzer struct {
	Sentiment sentiread.SentimentAnalyzer

	// Sink is optional. Its failures are logged and never fail an article.
	Sink sentiread.AnalyticsSink

	// RateLimiter is optional. Requests are keyed by the article's host, so
	// a GlobalLimiter enforces an account-wide quota.
	RateLimiter sentiread.DomainLimiter

	// ChunkDelay separates batch chunks. Zero means
	// DefaultAnalysisChunkDelay and a negative value disables the delay.
	ChunkDelay time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

func (a *Analyzer) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Analyze judges one article.
func (a *Analyzer) Analyze(ctx context.Context, req sentiread.SentimentRequest) (result sentiread.AnalysisResult) {
	result = sentiread.AnalysisResult{URL: req.URL, Title: req.Title, Author: req.Author}
	defer func() {
		if r := recover(); r != nil {
			a.logger().Error("analyze panic", "url", req.URL, "panic", fmt.Sprint(r))
			result = analysisError(result, sentiread.Errorf(sentiread.EINTERNAL, "unexpected failure: %v", r))
		}
	}()

	if strings.TrimSpace(req.Content) == "" {
		return analysisError(result, sentiread.Errorf(sentiread.EINVALID, "content is required"))
	}
	req.Content = htmltext.Truncate(req.Content, MaxAnalysisContent)

	if a.RateLimiter != nil {
		if err := a.RateLimiter.Wait(ctx, Host(req.URL)); err != nil {
			return analysisError(result, err)
		}
	}

	s, err := a.Sentiment.Analyze(ctx, req)
	if err != nil {
		return analysisError(result, err)
	}
	result.Sentiment = s
	result.Status = sentiread.StatusSuccess

	a.record(ctx, req, s)
	return result
}

func (a *Analyzer) record(ctx context.Context, req sentiread.SentimentRequest, s *sentiread.Sentiment) {
	if a.Sink == nil {
		return
	}
	rec := &sentiread.AnalyticsRecord{
		URL:       req.URL,
		Domain:    strings.TrimPrefix(Host(req.URL), "www."),
		Author:    req.Author,
		Sentiment: s.Sentiment,
		Themes:    s.Themes,
		Timestamp: a.now(),
	}
	if err := a.Sink.Record(context.WithoutCancel(ctx), rec); err != nil {
		a.logger().Warn("analytics record failed", "url", req.URL, "err", err)
	}
}

func analysisError(r sentiread.AnalysisResult, err error) sentiread.AnalysisResult {
	fr := errorResult(r.URL, err)
	r.Status = fr.Status
	r.Error = fr.Error
	r.ErrorType = fr.ErrorType
	return r
}

// AnalyzeBatch analyzes reqs in sequential chunks of size concurrency, each
// chunk concurrently. Results are in input order.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, reqs []sentiread.SentimentRequest, concurrency int) (*sentiread.AnalysisBatch, error) {
	if len(reqs) == 0 {
		return nil, sentiread.Errorf(sentiread.EINVALID, "articles must be a non-empty list")
	}
	n := ClampConcurrency(concurrency, DefaultAnalysisConcurrency, MaxAnalysisConcurrency)

	results := make([]sentiread.AnalysisResult, len(reqs))
	RunChunks(ctx, n, len(reqs), chunkDelay(a.ChunkDelay, DefaultAnalysisChunkDelay), func(i int) {
		results[i] = a.Analyze(ctx, reqs[i])
	})

	stats := sentiread.AnalysisStats{Total: len(reqs), Concurrency: n}
	for _, r := range results {
		if r.Status == sentiread.StatusSuccess {
			stats.Successful++
		} else {
			stats.Failed++
		}
	}
	a.logger().Info("analysis batch complete", "total", stats.Total, "successful", stats.Successful, "failed", stats.Failed)

	return &sentiread.AnalysisBatch{Results: results, Stats: stats}, nil
}
