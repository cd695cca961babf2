// Package crawl orchestrates article fetching: cache lookup, retrying
// fetches, site-specific and generic extraction, and bounded-concurrency
// batches. It also runs sentiment analysis batches and URL discovery.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/sentiread"
)

// Batch defaults.
const (
	DefaultConcurrency = 5
	MaxConcurrency     = 10
	DefaultChunkDelay  = 100 * time.Millisecond

	// MinContentLength is the shortest extracted text reported as success.
	MinContentLength = 100
)

// Ensure Orchestrator implements sentiread.ContentService at compile time.
var _ sentiread.ContentService = (*Orchestrator)(nil)

// Orchestrator fetches pages and extracts their article text.
//
// Extraction tries the registry's site extractor, then Generic, then each
// of Fallbacks in order. Fields a step leaves empty are filled from Byline.
type Orchestrator struct {
	Fetcher   sentiread.Fetcher
	Registry  sentiread.ExtractorRegistry
	Generic   sentiread.ContentExtractor
	Fallbacks []sentiread.ContentExtractor
	Byline    sentiread.BylineExtractor

	// Cache is optional.
	Cache sentiread.Cache

	// RateLimiter is optional and keyed by hostname.
	RateLimiter sentiread.DomainLimiter

	// RetryDelays defaults to DefaultRetryDelays when nil. An empty
	// non-nil slice disables retries.
	RetryDelays []time.Duration

	// ChunkDelay separates batch chunks. Zero means DefaultChunkDelay and
	// a negative value disables the delay.
	ChunkDelay time.Duration

	// Progress, if set, is called as each URL of a batch completes.
	Progress ProgressFunc

	Logger *slog.Logger
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Result    *sentiread.FetchResult
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress. Calls are
// serialized.
type ProgressFunc func(event ProgressEvent)

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// FetchAndExtract processes a single URL. Failures, including panics, are
// reported in the result with a classified ErrorType.
func (o *Orchestrator) FetchAndExtract(ctx context.Context, rawURL string) (result sentiread.FetchResult) {
	defer func() {
		if r := recover(); r != nil {
			o.logger().Error("fetch and extract panic", "url", rawURL, "panic", fmt.Sprint(r))
			result = errorResult(rawURL, sentiread.Errorf(sentiread.EINTERNAL, "unexpected failure: %v", r))
		}
	}()

	if err := validateURL(rawURL); err != nil {
		return errorResult(rawURL, err)
	}

	if o.Cache != nil {
		if entry, ok := o.Cache.Get(rawURL); ok {
			return sentiread.FetchResult{
				URL:         rawURL,
				Content:     entry.Content,
				Title:       entry.Title,
				Author:      entry.Author,
				Status:      sentiread.StatusSuccess,
				Cached:      true,
				CacheAge:    time.Since(entry.Timestamp),
				ContentHash: entry.ContentHash,
			}
		}
	}

	if o.RateLimiter != nil {
		if err := o.RateLimiter.Wait(ctx, Host(rawURL)); err != nil {
			if ierr := sentiread.Interrupted(ctx, "fetch "+rawURL); ierr != nil {
				return errorResult(rawURL, ierr)
			}
			return errorResult(rawURL, err)
		}
	}

	delays := o.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, rawURL, o.Fetcher.Fetch, o.logRetry, delays)
	if err != nil {
		return errorResult(rawURL, err)
	}

	res, method, limited := o.extract(ctx, html, rawURL)
	if res == nil || utf8.RuneCountInString(strings.TrimSpace(res.Content)) < MinContentLength {
		if limited != "" {
			return errorResult(rawURL, sentiread.Errorf(sentiread.ECONTENT, "could not extract meaningful content from %s: %s", rawURL, limited))
		}
		return errorResult(rawURL, sentiread.Errorf(sentiread.ECONTENT, "could not extract meaningful content from %s", rawURL))
	}

	result = sentiread.FetchResult{
		URL:     rawURL,
		Content: res.Content,
		Title:   res.Title,
		Author:  res.Author,
		Status:  sentiread.StatusSuccess,
		Method:  method,
	}
	if o.Cache != nil {
		entry, changed := o.Cache.Put(rawURL, sentiread.CachedPage{
			Content: res.Content,
			Title:   res.Title,
			Author:  res.Author,
		})
		result.ContentHash = entry.ContentHash
		result.ContentChanged = changed
	}
	return result
}

func (o *Orchestrator) logRetry(format string, args ...any) {
	o.logger().Debug(fmt.Sprintf(format, args...))
}

// extract walks the extraction chain and returns the first result with
// content, named by the step that produced it. When the site extractor
// answered without content, limited carries its explanation.
func (o *Orchestrator) extract(ctx context.Context, html, rawURL string) (res *sentiread.ExtractionResult, method, limited string) {
	if o.Registry != nil {
		if r := o.Registry.ExtractContent(ctx, html, rawURL); r != nil {
			if r.Content != "" {
				res, method = r, methodOf(r, "site")
			} else {
				limited = limitedReason(r)
			}
		}
	}
	if res == nil && o.Generic != nil {
		if r := o.Generic.Extract(ctx, html, rawURL); r != nil && r.Content != "" {
			res, method = r, methodOf(r, "generic")
		}
	}
	for _, fb := range o.Fallbacks {
		if res != nil {
			break
		}
		if r := fb.Extract(ctx, html, rawURL); r != nil && r.Content != "" {
			res, method = r, methodOf(r, "fallback")
		}
	}
	if res == nil {
		return nil, "", limited
	}

	if (res.Title == "" || res.Author == "") && o.Byline != nil {
		b := o.Byline.ExtractByline(html)
		if res.Title == "" {
			res.Title = b.Title
		}
		if res.Author == "" {
			res.Author = b.Author
		}
	}
	o.logger().Debug("extracted", "url", rawURL, "method", method, "chars", utf8.RuneCountInString(res.Content))
	return res, method, limited
}

// limitedReason describes an empty site result from its "error" and
// "recommendation" metadata, e.g. a page that needs JavaScript.
func limitedReason(r *sentiread.ExtractionResult) string {
	msg, _ := r.Metadata["error"].(string)
	if msg == "" {
		return ""
	}
	reason := fmt.Sprintf("%s [%s]", msg, methodOf(r, "site"))
	if rec, _ := r.Metadata["recommendation"].(string); rec != "" {
		reason += ". " + rec
	}
	return reason
}

func methodOf(r *sentiread.ExtractionResult, fallback string) string {
	if m, ok := r.Metadata["extractionMethod"].(string); ok && m != "" {
		return m
	}
	return fallback
}

func validateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return sentiread.Errorf(sentiread.EINVALID, "URL is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return sentiread.Errorf(sentiread.EINVALID, "invalid URL %q", rawURL)
	}
	return nil
}

func errorResult(rawURL string, err error) sentiread.FetchResult {
	msg := err.Error()
	var e *sentiread.Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	return sentiread.FetchResult{
		URL:       rawURL,
		Status:    sentiread.StatusError,
		Error:     msg,
		ErrorType: sentiread.ErrorCode(err),
	}
}

// ClampConcurrency returns n bounded to 1..limit, or def when n is not
// positive.
func ClampConcurrency(n, def, limit int) int {
	if n <= 0 {
		return def
	}
	return min(n, limit)
}

// ProcessBatch processes urls in sequential chunks of size concurrency,
// each chunk concurrently. Results are in input order.
func (o *Orchestrator) ProcessBatch(ctx context.Context, urls []string, concurrency int) (*sentiread.BatchResult, error) {
	if len(urls) == 0 {
		return nil, sentiread.Errorf(sentiread.EINVALID, "urls must be a non-empty list")
	}
	n := ClampConcurrency(concurrency, DefaultConcurrency, MaxConcurrency)

	if o.Cache != nil && o.Cache.MaybeCleanup() {
		o.logger().Debug("cache cleanup", "size", o.Cache.Stats().Size)
	}

	results := make([]sentiread.FetchResult, len(urls))
	report := o.reporter(len(urls))
	report(ProgressEvent{Type: ProgressStarted})

	RunChunks(ctx, n, len(urls), chunkDelay(o.ChunkDelay, DefaultChunkDelay), func(i int) {
		results[i] = o.FetchAndExtract(ctx, urls[i])
		typ := ProgressCompleted
		if results[i].Status != sentiread.StatusSuccess {
			typ = ProgressFailed
		}
		report(ProgressEvent{Type: typ, URL: urls[i], Result: &results[i]})
	})

	stats := sentiread.BatchStats{Total: len(urls), Concurrency: n}
	for _, r := range results {
		if r.Status == sentiread.StatusSuccess {
			stats.Successful++
		} else {
			stats.Failed++
		}
		if r.Cached {
			stats.Cached++
		}
	}
	report(ProgressEvent{Type: ProgressFinished})
	o.logger().Info("batch complete", "total", stats.Total, "successful", stats.Successful, "failed", stats.Failed, "cached", stats.Cached)

	return &sentiread.BatchResult{Results: results, Stats: stats}, nil
}

// reporter serializes progress callbacks and fills in counts.
func (o *Orchestrator) reporter(total int) func(ProgressEvent) {
	var mu sync.Mutex
	completed := 0
	return func(ev ProgressEvent) {
		if o.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if ev.Type == ProgressCompleted || ev.Type == ProgressFailed {
			completed++
		}
		ev.Completed = completed
		ev.Total = total
		o.Progress(ev)
	}
}
