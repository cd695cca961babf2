package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/bloom"
)

// Exa defaults.
const (
	DefaultExaEndpoint = "https://api.exa.ai/search"
	DefaultNumResults  = 100
	MaxNumResults      = 100

	// MinQualityScore is the score a hit must exceed to be returned.
	MinQualityScore = 0.3
)

// Ensure ExaSearcher implements sentiread.Searcher at compile time.
var _ sentiread.Searcher = (*ExaSearcher)(nil)

// ExaSearcher finds news articles through the Exa search API.
type ExaSearcher struct {
	client   *http.Client
	endpoint string
	apiKey   string
	now      func() time.Time
}

// ExaOption configures an ExaSearcher.
type ExaOption func(*ExaSearcher)

// WithExaEndpoint overrides the search endpoint.
func WithExaEndpoint(endpoint string) ExaOption {
	return func(s *ExaSearcher) {
		s.endpoint = endpoint
	}
}

// WithExaClient sets the HTTP client.
func WithExaClient(c *http.Client) ExaOption {
	return func(s *ExaSearcher) {
		s.client = c
	}
}

// WithExaClock sets the clock used to resolve relative dates in queries.
func WithExaClock(now func() time.Time) ExaOption {
	return func(s *ExaSearcher) {
		s.now = now
	}
}

// NewExaSearcher creates a searcher authenticated with apiKey.
func NewExaSearcher(apiKey string, opts ...ExaOption) *ExaSearcher {
	s := &ExaSearcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: DefaultExaEndpoint,
		apiKey:   apiKey,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type exaRequest struct {
	Query              string       `json:"query"`
	NumResults         int          `json:"numResults"`
	Type               string       `json:"type,omitempty"`
	IncludeDomains     []string     `json:"includeDomains,omitempty"`
	ExcludeDomains     []string     `json:"excludeDomains,omitempty"`
	StartPublishedDate string       `json:"startPublishedDate,omitempty"`
	EndPublishedDate   string       `json:"endPublishedDate,omitempty"`
	Contents           *exaContents `json:"contents,omitempty"`
}

type exaContents struct {
	Text       exaText `json:"text"`
	Highlights bool    `json:"highlights"`
	Summary    bool    `json:"summary"`
}

type exaText struct {
	MaxCharacters int `json:"maxCharacters"`
}

type exaResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	PublishedDate string   `json:"publishedDate"`
	Score         float64  `json:"score"`
	Summary       string   `json:"summary"`
	Text          string   `json:"text"`
	Highlights    []string `json:"highlights"`
}

// Search runs q and returns hits above MinQualityScore, best first.
func (s *ExaSearcher) Search(ctx context.Context, q sentiread.SearchQuery) ([]sentiread.SearchHit, error) {
	if strings.TrimSpace(q.Query) == "" {
		return nil, sentiread.Errorf(sentiread.EINVALID, "search query is required")
	}
	if s.apiKey == "" {
		return nil, sentiread.Errorf(sentiread.EINVALID, "Exa API key not configured")
	}

	n := q.NumResults
	if n <= 0 {
		n = DefaultNumResults
	}
	start, end := DateConstraints(q.Query, s.now())
	body := exaRequest{
		Query:              OptimizeQuery(q.Query),
		NumResults:         min(n, MaxNumResults),
		IncludeDomains:     q.IncludeDomains,
		ExcludeDomains:     q.ExcludeDomains,
		StartPublishedDate: start,
		EndPublishedDate:   end,
		Contents: &exaContents{
			Text:       exaText{MaxCharacters: 1000},
			Highlights: true,
			Summary:    true,
		},
	}
	if q.Type != "" && q.Type != "auto" {
		body.Type = q.Type
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		if err := sentiread.Interrupted(ctx, "search"); err != nil {
			return nil, err
		}
		return nil, sentiread.Errorf(sentiread.ENETWORK, "search request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, sentiread.Errorf(sentiread.EFORBIDDEN, "search rate limit exceeded")
		}
		return nil, sentiread.Errorf(sentiread.ENETWORK, "search failed: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, sentiread.Errorf(sentiread.EPARSING, "decoding search response: %v", err)
	}

	now := s.now()
	seen := bloom.NewSeen(uint(len(out.Results))+1, bloom.DefaultFPRate)
	hits := make([]sentiread.SearchHit, 0, len(out.Results))
	for _, r := range out.Results {
		if !seen.First(r.URL) {
			continue
		}
		quality := QualityScore(r.URL, r.Title, r.Summary, r.Text, r.PublishedDate, len(r.Highlights), now)
		if quality <= MinQualityScore {
			continue
		}
		hits = append(hits, sentiread.SearchHit{
			URL:           r.URL,
			Title:         r.Title,
			Author:        r.Author,
			PublishedDate: r.PublishedDate,
			Summary:       r.Summary,
			Highlights:    r.Highlights,
			Score:         r.Score,
			QualityScore:  quality,
		})
	}
	slices.SortStableFunc(hits, func(a, b sentiread.SearchHit) int {
		ra, rb := rank(a), rank(b)
		switch {
		case ra > rb:
			return -1
		case ra < rb:
			return 1
		}
		return 0
	})
	return hits, nil
}

func rank(h sentiread.SearchHit) float64 {
	score := h.Score
	if score == 0 {
		score = 1
	}
	return h.QualityScore * score
}

var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
}

// OptimizeQuery drops filler words from longer queries and steers short
// ones towards news coverage.
func OptimizeQuery(query string) string {
	q := strings.TrimSpace(query)
	words := strings.Split(q, " ")
	if len(words) > 3 {
		first := strings.ToLower(words[0])
		kept := words[:0:0]
		for _, w := range words {
			lw := strings.ToLower(w)
			if !stopWords[lw] || lw == first {
				kept = append(kept, w)
			}
		}
		q = strings.Join(kept, " ")
	}

	lq := strings.ToLower(q)
	if !strings.Contains(lq, "news") && !strings.Contains(lq, "article") && !strings.Contains(lq, "report") && len(q) < 50 {
		q += " news articles analysis"
	}
	if len(q) < 10 {
		q = "latest news about " + q
	}
	return q
}

var (
	relativeDates = []struct {
		re   *regexp.Regexp
		days int
	}{
		{regexp.MustCompile(`(?i)\btoday(?:'s)?\b`), 0},
		{regexp.MustCompile(`(?i)\byesterday(?:'s)?\b`), 1},
		{regexp.MustCompile(`(?i)\b(?:this|past|last) week\b`), 7},
		{regexp.MustCompile(`(?i)\b(?:this|past|last) month\b`), 30},
		{regexp.MustCompile(`(?i)\b(?:past|last) (\d+) days?\b`), -1},
		{regexp.MustCompile(`(?i)\b(?:recent|recently|latest)\b`), 7},
	}
	isoDateRe   = regexp.MustCompile(`\b(\d{4}[-/]\d{1,2}[-/]\d{1,2})\b`)
	monthYearRe = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(?:and\s+(\w+)\s+)?(\d{4})\b`)
)

// DateConstraints derives a published-date window (YYYY-MM-DD) from phrases
// like "past 3 days", "2024-01-15" or "june and july 2025". Either bound
// may be empty.
func DateConstraints(query string, now time.Time) (start, end string) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, p := range relativeDates {
		m := p.re.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		days := p.days
		if days < 0 {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			days = n
		}
		start = today.AddDate(0, 0, -days).Format(time.DateOnly)
		break
	}

	if m := isoDateRe.FindStringSubmatch(query); m != nil {
		start = strings.ReplaceAll(m[1], "/", "-")
	}

	if m := monthYearRe.FindStringSubmatch(query); m != nil {
		year, _ := strconv.Atoi(m[3])
		first := monthIndex(m[1])
		start = time.Date(year, first, 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
		if second := monthIndex(m[2]); second != 0 {
			end = time.Date(year, second+1, 0, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
		}
	}
	return start, end
}

var months = []string{"january", "february", "march", "april", "may", "june", "july", "august", "september", "october", "november", "december"}

// monthIndex returns the month named s, or 0.
func monthIndex(s string) time.Month {
	if i := slices.Index(months, strings.ToLower(s)); i >= 0 {
		return time.Month(i + 1)
	}
	return 0
}

var trustedNewsDomains = []string{"reuters.com", "ap.org", "bbc.com", "cnn.com", "nytimes.com", "washingtonpost.com", "wsj.com"}

// QualityScore rates how article-like a hit is, clamped to 0..1.
func QualityScore(rawURL, title, summary, text, publishedDate string, highlights int, now time.Time) float64 {
	score := 0.5
	if n := len([]rune(title)); n > 10 && n < 200 {
		score += 0.2
	}
	if len([]rune(summary)) > 50 {
		score += 0.2
	}
	if len([]rune(text)) > 100 {
		score += 0.1
	}
	if highlights > 0 {
		score += 0.2
	}
	if pub, err := time.Parse(time.RFC3339, publishedDate); err == nil {
		switch age := now.Sub(pub); {
		case age < 30*24*time.Hour:
			score += 0.1
		case age < 365*24*time.Hour:
			score += 0.05
		}
	}

	u := strings.ToLower(rawURL)
	if strings.Contains(u, "spam") || strings.Contains(u, "popup") || strings.Contains(u, "/ads/") || strings.Contains(u, "adserver") {
		score -= 0.3
	}
	for _, d := range trustedNewsDomains {
		if strings.Contains(u, d) {
			score += 0.2
			break
		}
	}
	return max(0, min(1, score))
}
