package main

import (
	"context"
	"log/slog"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/crawl"
	"github.com/fwojciec/sentiread/goquery"
	"github.com/fwojciec/sentiread/htmlquery"
	"github.com/fwojciec/sentiread/htmltomarkdown"
	"github.com/fwojciec/sentiread/inmem"
	"github.com/fwojciec/sentiread/readability"
	"github.com/fwojciec/sentiread/trafilatura"
)

// fetchRPS is the per-publisher request rate.
const fetchRPS = 1.0

// NewRegistry returns a registry holding every site-specific extractor.
// fetcher retrieves AMP pages for extractors that fall back to them.
func NewRegistry(fetcher sentiread.Fetcher, logger *slog.Logger) *goquery.Registry {
	opts := []goquery.Option{goquery.WithFetcher(fetcher), goquery.WithLogger(logger)}
	registry := goquery.NewRegistry()
	registerSiteExtractors(registry, opts...)
	return registry
}

// registerSiteExtractors registers all publisher extractors with the registry.
func registerSiteExtractors(registry sentiread.ExtractorRegistry, opts ...goquery.Option) {
	registry.Register(goquery.NewMoneyControlExtractor(opts...))
	registry.Register(goquery.NewZeeBizExtractor(opts...))
	registry.Register(goquery.NewHindustanTimesExtractor(opts...))
	registry.Register(goquery.NewMSNExtractor(opts...))
	registry.Register(goquery.NewAutocarIndiaExtractor(opts...))
	registry.Register(goquery.NewCarDekhoExtractor(opts...))
	registry.Register(goquery.NewEvoIndiaExtractor(opts...))
	registry.Register(htmlquery.NewCarAndBikeExtractor(opts...))
}

// NewOrchestrator wires the extraction chain: site extractors, the generic
// heuristics, then trafilatura and readability.
func NewOrchestrator(fetcher sentiread.Fetcher, registry sentiread.ExtractorRegistry, logger *slog.Logger) *crawl.Orchestrator {
	generic := goquery.NewGenericExtractor(goquery.WithLogger(logger))
	converter := htmltomarkdown.NewConverter()
	return &crawl.Orchestrator{
		Fetcher:  fetcher,
		Registry: registry,
		Generic:  generic,
		Fallbacks: []sentiread.ContentExtractor{
			&crawl.ReaderExtractor{Name: "trafilatura", Reader: trafilatura.NewReader(), Converter: converter},
			&crawl.ReaderExtractor{Name: "readability", Reader: readability.NewReader(), Converter: converter},
		},
		Byline:      generic,
		Cache:       inmem.NewCache(),
		RateLimiter: crawl.NewDomainLimiter(fetchRPS),
		Logger:      logger,
	}
}

// staticFetcher serves the same HTML for every URL.
type staticFetcher string

func (f staticFetcher) Fetch(context.Context, string) (string, error) { return string(f), nil }

func (f staticFetcher) Close() error { return nil }

var _ sentiread.Fetcher = staticFetcher("")
