// Package goquery implements article extraction with goquery: the
// site-specific extractors, the heuristic generic extractor and the
// extractor registry.
package goquery

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/htmltext"
)

// Ensure SiteExtractor implements sentiread.Extractor at compile time.
var _ sentiread.Extractor = (*SiteExtractor)(nil)

// Option configures the dependencies of an extractor.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	fetcher sentiread.Fetcher
}

// WithLogger sets the logger used for strategy diagnostics.
// Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFetcher sets the fetcher used to retrieve AMP versions of pages.
// Without a fetcher AMP strategies are skipped.
func WithFetcher(f sentiread.Fetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

func resolve(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Strategy is one step of an extractor's fallback chain.
//
// Extract returns nil, nil on a miss. A returned error is also a miss; the
// chain logs it and moves on.
type Strategy interface {
	Method() string
	Extract(ctx context.Context, html, pageURL string) (*sentiread.ExtractionResult, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc struct {
	Name string
	Fn   func(ctx context.Context, html, pageURL string) (*sentiread.ExtractionResult, error)
}

func (s StrategyFunc) Method() string { return s.Name }

func (s StrategyFunc) Extract(ctx context.Context, html, pageURL string) (*sentiread.ExtractionResult, error) {
	return s.Fn(ctx, html, pageURL)
}

// SiteConfig describes a publisher-specific extractor.
type SiteConfig struct {
	Name    string
	Domains []string

	// Strategies are tried in order until one succeeds.
	Strategies []Strategy

	// TitleSelectors and AuthorSelectors fill fields a strategy left empty.
	// Meta tags and <title> are consulted after them.
	TitleSelectors  []string
	AuthorSelectors []string

	// AuthorPatterns are matched against raw HTML after the selectors.
	// The first capture group holds the name.
	AuthorPatterns []*regexp.Regexp

	// TitleSuffixes are publisher branding stripped from titles.
	TitleSuffixes []string

	// TitleFilter rejects fallback title candidates. Nil accepts all.
	TitleFilter func(title string) bool

	// Metadata adds publisher-specific fields to ExtractMetadata.
	Metadata func(doc *goquery.Document) map[string]any
}

// SiteExtractor runs a publisher's strategy chain and completes the winning
// result with title, author and date fallbacks.
type SiteExtractor struct {
	cfg    SiteConfig
	logger *slog.Logger
}

// NewSiteExtractor creates an extractor from cfg.
func NewSiteExtractor(cfg SiteConfig, opts ...Option) *SiteExtractor {
	o := resolve(opts)
	return &SiteExtractor{cfg: cfg, logger: o.logger}
}

// Name returns the extractor's identifier.
func (e *SiteExtractor) Name() string {
	return e.cfg.Name
}

// Domains returns the hostname substrings the extractor claims.
func (e *SiteExtractor) Domains() []string {
	return append([]string(nil), e.cfg.Domains...)
}

// CanHandle reports whether the URL's lowercased hostname contains one of
// the extractor's domains.
func (e *SiteExtractor) CanHandle(rawURL string) bool {
	return MatchDomain(rawURL, e.cfg.Domains)
}

// MatchDomain reports whether rawURL's hostname contains any of domains.
// Malformed URLs never match.
func MatchDomain(rawURL string, domains []string) bool {
	if len(domains) == 0 {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, d := range domains {
		if d != "" && strings.Contains(host, strings.ToLower(d)) {
			return true
		}
	}
	return false
}

// Extract runs the strategy chain and returns the first successful result.
func (e *SiteExtractor) Extract(ctx context.Context, html, pageURL string) (result *sentiread.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("extractor panic", "extractor", e.cfg.Name, "url", pageURL, "panic", fmt.Sprint(r))
			result = nil
		}
	}()

	if strings.TrimSpace(html) == "" {
		return nil
	}

	for _, s := range e.cfg.Strategies {
		if ctx.Err() != nil {
			return nil
		}
		res := e.run(ctx, s, html, pageURL)
		if res == nil {
			continue
		}
		return e.complete(res, s.Method(), html)
	}
	return nil
}

// run executes one strategy, treating errors, panics and invalid content
// as a miss.
func (e *SiteExtractor) run(ctx context.Context, s Strategy, html, pageURL string) (res *sentiread.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("strategy panic", "extractor", e.cfg.Name, "method", s.Method(), "url", pageURL, "panic", fmt.Sprint(r))
			res = nil
		}
	}()

	res, err := s.Extract(ctx, html, pageURL)
	if err != nil {
		e.logger.Debug("strategy miss", "extractor", e.cfg.Name, "method", s.Method(), "url", pageURL, "err", err)
		return nil
	}
	if res == nil {
		return nil
	}
	// An empty body is a limited result, e.g. a page that needs client-side
	// rendering. Anything else must pass the shared quality gate.
	if res.Content != "" && !htmltext.ValidateContent(res.Content) {
		e.logger.Debug("strategy content rejected", "extractor", e.cfg.Name, "method", s.Method(), "url", pageURL)
		return nil
	}
	return res
}

func (e *SiteExtractor) complete(res *sentiread.ExtractionResult, method, html string) *sentiread.ExtractionResult {
	var doc *goquery.Document
	document := func() *goquery.Document {
		if doc == nil {
			doc = parse(html)
		}
		return doc
	}

	if res.Title == "" {
		res.Title = e.findTitle(document(), html)
	}
	res.Title = htmltext.StripTitleSuffix(htmltext.CleanHTMLContent(res.Title), e.cfg.TitleSuffixes...)

	if res.Author != "" {
		res.Author = htmltext.CleanAuthor(res.Author)
	}
	if res.Author == "" {
		res.Author = e.findAuthor(document(), html)
	}

	if res.PublishedDate != "" {
		res.PublishedDate = htmltext.NormalizeISO(res.PublishedDate)
	}
	if res.PublishedDate == "" {
		res.PublishedDate = htmltext.ExtractPublishedDate(html)
	}

	if res.Metadata == nil {
		res.Metadata = map[string]any{}
	}
	if _, ok := res.Metadata["extractionMethod"]; !ok {
		res.Metadata["extractionMethod"] = method
	}
	res.Metadata["extractor"] = e.cfg.Name
	return res
}

func (e *SiteExtractor) findTitle(doc *goquery.Document, html string) string {
	title := e.titleCandidate(doc, html)
	if title != "" && e.cfg.TitleFilter != nil && !e.cfg.TitleFilter(title) {
		return ""
	}
	return title
}

func (e *SiteExtractor) titleCandidate(doc *goquery.Document, html string) string {
	if doc != nil {
		if title := firstText(doc, e.cfg.TitleSelectors, 5); title != "" {
			return title
		}
		if title := metaContent(doc, `meta[property="og:title"]`, `meta[name="twitter:title"]`); title != "" {
			return title
		}
		if title := htmltext.CollapseWhitespace(doc.Find("title").First().Text()); title != "" {
			return title
		}
	}
	if m := titleTagRe.FindStringSubmatch(html); m != nil {
		return htmltext.CleanHTMLContent(m[1])
	}
	return ""
}

func (e *SiteExtractor) findAuthor(doc *goquery.Document, html string) string {
	if doc != nil {
		for _, sel := range e.cfg.AuthorSelectors {
			if author := htmltext.CleanAuthor(selectionValue(doc.Find(sel).First())); author != "" {
				return author
			}
		}
		if author := htmltext.CleanAuthor(metaContent(doc, authorMeta...)); author != "" {
			return author
		}
	}
	for _, re := range e.cfg.AuthorPatterns {
		if m := re.FindStringSubmatch(html); m != nil {
			if author := htmltext.CleanAuthor(m[1]); author != "" {
				return author
			}
		}
	}
	return ""
}

// ExtractMetadata returns the page's title, author, published date and any
// publisher-specific fields without extracting the body.
func (e *SiteExtractor) ExtractMetadata(html, pageURL string) map[string]any {
	doc := parse(html)
	md := map[string]any{
		"extractor": e.cfg.Name,
		"url":       pageURL,
	}
	if title := htmltext.StripTitleSuffix(e.findTitle(doc, html), e.cfg.TitleSuffixes...); title != "" {
		md["title"] = title
	}
	if author := e.findAuthor(doc, html); author != "" {
		md["author"] = author
	}
	if date := htmltext.ExtractPublishedDate(html); date != "" {
		md["publishedDate"] = date
	}
	if doc != nil && e.cfg.Metadata != nil {
		for k, v := range e.cfg.Metadata(doc) {
			md[k] = v
		}
	}
	return md
}

var titleTagRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

var authorMeta = []string{
	`meta[name="author"]`,
	`meta[property="article:author"]`,
	`meta[name="article:author"]`,
	`meta[property="og:article:author"]`,
}

// parse returns nil when the HTML cannot be parsed.
func parse(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return doc
}

// metaContent returns the first non-empty content attribute among selectors.
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = htmltext.CollapseWhitespace(v); v != "" && !strings.HasPrefix(v, "http") {
				return v
			}
		}
	}
	return ""
}

// firstText returns the text of the first selector match longer than minLen.
func firstText(doc *goquery.Document, selectors []string, minLen int) string {
	for _, sel := range selectors {
		if text := selectionValue(doc.Find(sel).First()); htmltext.Len(text) > minLen {
			return text
		}
	}
	return ""
}

// selectionValue prefers a content attribute so meta tags can be used as
// selectors alongside elements.
func selectionValue(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	if v, ok := s.Attr("content"); ok {
		return htmltext.CollapseWhitespace(v)
	}
	return htmltext.CollapseWhitespace(s.Text())
}
