package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/fwojciec/sentiread"
	"github.com/google/uuid"
)

// Defaults applied to non-positive arguments.
const (
	// DefaultSummaryLimit is the number of top domains and authors returned
	// by Summary.
	DefaultSummaryLimit = 10
	DefaultTrendDays    = 30
	DefaultThemeLimit   = 15
)

// MaxTrendDays bounds the window Trends reports on.
const MaxTrendDays = 365

// Compile-time interface verification.
var (
	_ sentiread.AnalyticsSink    = (*AnalyticsService)(nil)
	_ sentiread.AnalyticsService = (*AnalyticsService)(nil)
)

// AnalyticsService implements sentiread.AnalyticsSink and
// sentiread.AnalyticsService using SQLite.
type AnalyticsService struct {
	db *DB

	// Now stamps records without a timestamp and anchors the Trends window.
	Now func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(db *DB) *AnalyticsService {
	return &AnalyticsService{db: db, Now: time.Now}
}

// Record stores one analysis. A missing ID is generated and a zero
// timestamp is set to now.
func (s *AnalyticsService) Record(ctx context.Context, rec *sentiread.AnalyticsRecord) error {
	if rec == nil || rec.URL == "" {
		return sentiread.Errorf(sentiread.EINVALID, "analytics record requires a URL")
	}
	switch rec.Sentiment {
	case sentiread.SentimentPositive, sentiread.SentimentNegative, sentiread.SentimentNeutral:
	default:
		return sentiread.Errorf(sentiread.EINVALID, "unknown sentiment %q", rec.Sentiment)
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.Now()
	}
	rec.Timestamp = rec.Timestamp.UTC()
	if rec.Domain == "" {
		rec.Domain = "unknown"
	}
	rec.Author = NormalizeAuthor(rec.Author)
	rec.Themes = normalizeThemes(rec.Themes)

	themes, err := json.Marshal(rec.Themes)
	if err != nil {
		return fmt.Errorf("encode themes: %w", err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO analyses (id, url, domain, author, sentiment, themes, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.URL, rec.Domain, rec.Author, rec.Sentiment, string(themes),
		rec.Timestamp.Format(time.RFC3339)); err != nil {
		return err
	}
	for _, theme := range rec.Themes {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO analysis_themes (analysis_id, theme) VALUES (?, ?)`,
			rec.ID, theme); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Summary returns overall sentiment counts plus the limit most analyzed
// domains and authors.
func (s *AnalyticsService) Summary(ctx context.Context, limit int) (*sentiread.AnalyticsSummary, error) {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}

	summary := &sentiread.AnalyticsSummary{
		TopDomains: []sentiread.GroupStats{},
		TopAuthors: []sentiread.GroupStats{},
	}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(sentiment = 'positive'), 0),
			COALESCE(SUM(sentiment = 'negative'), 0),
			COALESCE(SUM(sentiment = 'neutral'), 0)
		FROM analyses
	`).Scan(&summary.Total, &summary.Sentiments.Positive, &summary.Sentiments.Negative, &summary.Sentiments.Neutral)
	if err != nil {
		return nil, err
	}

	if summary.TopDomains, err = s.topGroups(ctx, "domain", limit); err != nil {
		return nil, err
	}
	if summary.TopAuthors, err = s.topGroups(ctx, "author", limit); err != nil {
		return nil, err
	}
	return summary, nil
}

// topGroups aggregates by column, which must be a trusted identifier.
func (s *AnalyticsService) topGroups(ctx context.Context, column string, limit int) ([]sentiread.GroupStats, error) {
	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*),
			SUM(sentiment = 'positive'),
			SUM(sentiment = 'negative'),
			SUM(sentiment = 'neutral')
		FROM analyses
		WHERE %[1]s != ''
		GROUP BY %[1]s
		ORDER BY COUNT(*) DESC, MAX(analyzed_at) DESC, %[1]s
		LIMIT ?
	`, column)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []sentiread.GroupStats{}
	for rows.Next() {
		var g sentiread.GroupStats
		if err := rows.Scan(&g.Name, &g.Total, &g.Sentiments.Positive, &g.Sentiments.Negative, &g.Sentiments.Neutral); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Trends returns per-day sentiment counts for the last days UTC days,
// today included.
func (s *AnalyticsService) Trends(ctx context.Context, days int) (*sentiread.SentimentTrends, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	days = min(days, MaxTrendDays)
	since := s.Now().UTC().AddDate(0, 0, -(days - 1)).Format(time.DateOnly)

	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(analyzed_at, 1, 10) AS day, COUNT(*),
			SUM(sentiment = 'positive'),
			SUM(sentiment = 'negative'),
			SUM(sentiment = 'neutral')
		FROM analyses
		WHERE analyzed_at >= ?
		GROUP BY day
		ORDER BY day DESC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trends := &sentiread.SentimentTrends{Days: days, Trends: []sentiread.DailyTrend{}}
	for rows.Next() {
		var d sentiread.DailyTrend
		if err := rows.Scan(&d.Date, &d.Total, &d.Sentiments.Positive, &d.Sentiments.Negative, &d.Sentiments.Neutral); err != nil {
			return nil, err
		}
		d.Percentages = d.Sentiments.Percent()
		d.Score = d.Sentiments.Score()
		trends.Trends = append(trends.Trends, d)

		trends.Total += d.Total
		trends.Sentiments.Positive += d.Sentiments.Positive
		trends.Sentiments.Negative += d.Sentiments.Negative
		trends.Sentiments.Neutral += d.Sentiments.Neutral
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	trends.Percentages = trends.Sentiments.Percent()
	return trends, nil
}

// Themes returns the limit most frequent themes. Ties prefer the more
// positive theme, then the alphabetically first.
func (s *AnalyticsService) Themes(ctx context.Context, limit int) (*sentiread.ThemeSummary, error) {
	if limit <= 0 {
		limit = DefaultThemeLimit
	}

	var mentions int
	summary := &sentiread.ThemeSummary{Themes: []sentiread.ThemeStats{}}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT theme) FROM analysis_themes`,
	).Scan(&mentions, &summary.TotalThemes); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.theme, COUNT(*),
			SUM(a.sentiment = 'positive'),
			SUM(a.sentiment = 'negative'),
			SUM(a.sentiment = 'neutral'),
			MAX(a.analyzed_at)
		FROM analysis_themes t
		JOIN analyses a ON a.id = t.analysis_id
		GROUP BY t.theme
		ORDER BY COUNT(*) DESC,
			(SUM(a.sentiment = 'positive') - SUM(a.sentiment = 'negative')) * 1.0 / COUNT(*) DESC,
			t.theme
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			th       sentiread.ThemeStats
			lastSeen string
		)
		if err := rows.Scan(&th.Theme, &th.Frequency, &th.Sentiments.Positive, &th.Sentiments.Negative, &th.Sentiments.Neutral, &lastSeen); err != nil {
			return nil, err
		}
		if th.LastSeen, err = time.Parse(time.RFC3339, lastSeen); err != nil {
			return nil, fmt.Errorf("parse analyzed_at %q: %w", lastSeen, err)
		}
		th.Percentage = math.Round(float64(th.Frequency)*1000/float64(mentions)) / 10
		th.Score = th.Sentiments.Score()
		th.Category = sentiread.LeaningOf(th.Score)
		switch th.Category {
		case sentiread.SentimentPositive:
			summary.Categories.Positive++
		case sentiread.SentimentNegative:
			summary.Categories.Negative++
		default:
			summary.Categories.Neutral++
		}
		summary.Themes = append(summary.Themes, th)
	}
	return summary, rows.Err()
}

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeAuthor collapses whitespace and title-cases each word so the
// same byline groups together across publishers.
func NormalizeAuthor(author string) string {
	author = spaceRe.ReplaceAllString(strings.TrimSpace(author), " ")
	if author == "" {
		return ""
	}
	words := strings.Split(strings.ToLower(author), " ")
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func normalizeThemes(themes []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, t := range themes {
		t = strings.ToLower(spaceRe.ReplaceAllString(strings.TrimSpace(t), " "))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
