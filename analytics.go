package sentiread

import (
	"context"
	"math"
	"time"
)

// AnalyticsRecord is one completed sentiment analysis.
type AnalyticsRecord struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Domain    string    `json:"domain"`
	Author    string    `json:"author,omitempty"`
	Sentiment string    `json:"sentiment"`
	Themes    []string  `json:"themes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalyticsSink accepts records for aggregation. Callers treat it as
// fire-and-forget: a failed Record never fails the analysis that produced it.
type AnalyticsSink interface {
	Record(ctx context.Context, rec *AnalyticsRecord) error
}

// SentimentCounts tallies records by sentiment label.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// GroupStats aggregates records for one domain or author.
type GroupStats struct {
	Name       string          `json:"name"`
	Total      int             `json:"total"`
	Sentiments SentimentCounts `json:"sentiments"`
}

// AnalyticsSummary is an overview of recorded analyses.
type AnalyticsSummary struct {
	Total      int             `json:"total"`
	Sentiments SentimentCounts `json:"sentiments"`
	TopDomains []GroupStats    `json:"topDomains"`
	TopAuthors []GroupStats    `json:"topAuthors"`
}

// Percentages is a sentiment distribution in percent, rounded to one
// decimal place.
type Percentages struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// Percent converts c to a distribution. All zeros when c is empty.
func (c SentimentCounts) Percent() Percentages {
	total := c.Positive + c.Negative + c.Neutral
	if total == 0 {
		return Percentages{}
	}
	return Percentages{
		Positive: percent(c.Positive, total),
		Negative: percent(c.Negative, total),
		Neutral:  percent(c.Neutral, total),
	}
}

func percent(n, total int) float64 {
	return math.Round(float64(n)*1000/float64(total)) / 10
}

// Score averages c with positive as 1, negative as -1 and neutral as 0,
// rounded to two decimal places.
func (c SentimentCounts) Score() float64 {
	total := c.Positive + c.Negative + c.Neutral
	if total == 0 {
		return 0
	}
	return math.Round(float64(c.Positive-c.Negative)*100/float64(total)) / 100
}

// LeaningOf returns the label a score leans toward: scores within 0.1 of
// zero are neutral.
func LeaningOf(score float64) string {
	switch {
	case score >= 0.1:
		return SentimentPositive
	case score <= -0.1:
		return SentimentNegative
	}
	return SentimentNeutral
}

// DailyTrend aggregates the analyses of one UTC day. Score averages
// positive as 1, negative as -1 and neutral as 0.
type DailyTrend struct {
	Date        string          `json:"date"`
	Total       int             `json:"total"`
	Sentiments  SentimentCounts `json:"sentiments"`
	Percentages Percentages     `json:"percentages"`
	Score       float64         `json:"avgSentiment"`
}

// SentimentTrends is the per-day breakdown of the last Days days, newest
// day first. Days without analyses are omitted.
type SentimentTrends struct {
	Days        int             `json:"days"`
	Trends      []DailyTrend    `json:"trends"`
	Total       int             `json:"total"`
	Sentiments  SentimentCounts `json:"sentiments"`
	Percentages Percentages     `json:"percentages"`
}

// ThemeStats aggregates the analyses that mention one theme. Score is
// scaled like DailyTrend.Score and Category is the label it leans toward.
type ThemeStats struct {
	Theme      string          `json:"theme"`
	Frequency  int             `json:"frequency"`
	Percentage float64         `json:"percentage"`
	Sentiments SentimentCounts `json:"sentiments"`
	Score      float64         `json:"avgSentiment"`
	Category   string          `json:"category"`
	LastSeen   time.Time       `json:"lastSeen"`
}

// ThemeSummary lists the most frequent themes.
type ThemeSummary struct {
	Themes []ThemeStats `json:"themes"`

	// TotalThemes counts distinct themes, not only those listed.
	TotalThemes int `json:"totalThemes"`

	// Categories counts listed themes by Category.
	Categories SentimentCounts `json:"categories"`
}

// AnalyticsService reads aggregated analytics.
type AnalyticsService interface {
	// Summary returns totals and the top limit domains and authors.
	Summary(ctx context.Context, limit int) (*AnalyticsSummary, error)

	// Trends returns daily sentiment counts for the last days days.
	Trends(ctx context.Context, days int) (*SentimentTrends, error)

	// Themes returns the limit most frequent themes.
	Themes(ctx context.Context, limit int) (*ThemeSummary, error)
}
