package sentiread

import "context"

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// SentimentRequest is an article submitted for analysis.
type SentimentRequest struct {
	URL     string `json:"url"`
	Content string `json:"content"`
	Title   string `json:"title,omitempty"`
	Author  string `json:"author,omitempty"`
}

// Sentiment is a structured sentiment judgement.
type Sentiment struct {
	Sentiment          string   `json:"sentiment"`
	Confidence         float64  `json:"confidence"`
	Tone               string   `json:"tone,omitempty"`
	KeyMessages        []string `json:"keyMessages,omitempty"`
	Reasoning          string   `json:"reasoning,omitempty"`
	Themes             []string `json:"themes,omitempty"`
	EmotionalIntensity string   `json:"emotionalIntensity,omitempty"`
}

// SentimentAnalyzer judges the sentiment of article text.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, req SentimentRequest) (*Sentiment, error)
}

// AnalysisResult is the outcome of analyzing one article in a batch.
type AnalysisResult struct {
	URL       string     `json:"url"`
	Title     string     `json:"title,omitempty"`
	Author    string     `json:"author,omitempty"`
	Sentiment *Sentiment `json:"sentiment,omitempty"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	ErrorType string     `json:"errorType,omitempty"`
}

// AnalysisStats summarizes an analysis batch.
type AnalysisStats struct {
	Total       int `json:"total"`
	Successful  int `json:"successful"`
	Failed      int `json:"failed"`
	Concurrency int `json:"concurrency"`
}

// AnalysisBatch holds per-article results in input order plus stats.
type AnalysisBatch struct {
	Results []AnalysisResult `json:"results"`
	Stats   AnalysisStats    `json:"stats"`
}

// AnalysisService analyzes articles and records the outcomes.
type AnalysisService interface {
	// Analyze judges one article. Failures are reported in the result.
	Analyze(ctx context.Context, req SentimentRequest) AnalysisResult

	// AnalyzeBatch analyzes reqs under a concurrency bound. It returns an
	// error only for structurally invalid input.
	AnalyzeBatch(ctx context.Context, reqs []SentimentRequest, concurrency int) (*AnalysisBatch, error)
}

// Report is an overall reading of a set of analyzed articles.
// Distribution and Analyzed are computed from the input, the rest comes
// from the model.
type Report struct {
	OverallSentiment string      `json:"overallSentiment"`
	Distribution     Percentages `json:"sentimentDistribution"`
	DominantTone     string      `json:"dominantTone,omitempty"`
	CoreThemes       []string    `json:"coreThemes,omitempty"`
	KeyInsights      []string    `json:"keyInsights,omitempty"`
	WindDirection    string      `json:"windDirection,omitempty"`
	Summary          string      `json:"summary,omitempty"`
	Confidence       float64     `json:"confidence"`

	// Analyzed counts the successful results the report covers.
	Analyzed int `json:"analyzed"`

	// Fallback is set when the model's answer was unusable and the report
	// was read from the counts alone.
	Fallback bool `json:"fallback,omitempty"`
}

// ReportGenerator summarizes analysis results into a Report. Results
// without a sentiment are ignored; none left is EINVALID.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, results []AnalysisResult) (*Report, error)
}
