package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/fwojciec/sentiread"
	"google.golang.org/genai"
)

// MaxReportResults is the number of analyses included in a report prompt.
const MaxReportResults = 50

// OverallMixed is the overall sentiment of a report whose articles split
// evenly between positive and negative.
const OverallMixed = "mixed"

var _ sentiread.ReportGenerator = (*ReportGenerator)(nil)

// ReportGenerator implements sentiread.ReportGenerator using Google Gemini.
type ReportGenerator struct {
	client *genai.Client
	model  string
}

// NewReportGenerator creates a new ReportGenerator.
func NewReportGenerator(client *genai.Client, opts ...Option) *ReportGenerator {
	return &ReportGenerator{client: client, model: resolve(opts).model}
}

// GenerateReport asks the model for an overall reading of the successful
// results. A response that cannot be parsed yields FallbackReport.
func (g *ReportGenerator) GenerateReport(ctx context.Context, results []sentiread.AnalysisResult) (*sentiread.Report, error) {
	analyzed := Analyzed(results)
	if len(analyzed) == 0 {
		return nil, sentiread.Errorf(sentiread.EINVALID, "at least one successful analysis is required")
	}
	if g.client == nil {
		return nil, sentiread.Errorf(sentiread.EINTERNAL, "gemini client not configured")
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(BuildReportPrompt(analyzed), "user")},
		BuildReportConfig(),
	)
	if err != nil {
		if err := sentiread.Interrupted(ctx, "report generation"); err != nil {
			return nil, err
		}
		return nil, sentiread.Errorf(sentiread.ENETWORK, "report generation failed: %v", err)
	}
	if result == nil {
		return nil, sentiread.Errorf(sentiread.EINTERNAL, "gemini returned nil result")
	}

	report, err := ParseReport(result.Text())
	if err != nil {
		return FallbackReport(analyzed), nil
	}
	counts := countSentiments(analyzed)
	report.Distribution = counts.Percent()
	report.Analyzed = len(analyzed)
	return report, nil
}

// Analyzed returns the results that carry a sentiment, in order.
func Analyzed(results []sentiread.AnalysisResult) []sentiread.AnalysisResult {
	var out []sentiread.AnalysisResult
	for _, r := range results {
		if r.Sentiment != nil && r.Status != sentiread.StatusError {
			out = append(out, r)
		}
	}
	return out
}

// BuildReportConfig returns the GenerateContentConfig for report requests.
func BuildReportConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You summarize sentiment analyses of news coverage. Respond with a single JSON object and nothing else.",
			}},
		},
		Temperature:      &temp,
		MaxOutputTokens:  1500,
		ResponseMIMEType: "application/json",
	}
}

type reportItem struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Sentiment   string   `json:"sentiment"`
	Confidence  float64  `json:"confidence"`
	Tone        string   `json:"tone,omitempty"`
	Themes      []string `json:"themes,omitempty"`
	KeyMessages []string `json:"keyMessages,omitempty"`
}

// BuildReportPrompt describes the expected JSON shape followed by at most
// MaxReportResults analyses.
func BuildReportPrompt(results []sentiread.AnalysisResult) string {
	results = results[:min(len(results), MaxReportResults)]
	items := make([]reportItem, 0, len(results))
	for _, r := range results {
		items = append(items, reportItem{
			URL:         r.URL,
			Title:       r.Title,
			Sentiment:   r.Sentiment.Sentiment,
			Confidence:  r.Sentiment.Confidence,
			Tone:        r.Sentiment.Tone,
			Themes:      r.Sentiment.Themes,
			KeyMessages: r.Sentiment.KeyMessages,
		})
	}
	data, _ := json.MarshalIndent(items, "", "  ")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on the following sentiment analyses from %d URLs, create a comprehensive summary report. ", len(items))
	sb.WriteString(`Respond with ONLY a valid JSON object in this exact format:

{
  "overallSentiment": "positive/negative/neutral/mixed",
  "dominantTone": "professional/excited/cautious/etc",
  "coreThemes": ["theme1", "theme2", "theme3"],
  "keyInsights": ["insight 1", "insight 2", "insight 3"],
  "windDirection": "how the overall narrative is trending, the key insight about momentum",
  "summary": "2-3 sentence executive summary of the collective story these URLs tell",
  "confidence": 0.85
}

Analysis data: `)
	sb.Write(data)
	return sb.String()
}

// ParseReport decodes a model response. Markdown code fences around the
// JSON are tolerated.
func ParseReport(text string) (*sentiread.Report, error) {
	clean := stripFences(text)
	if clean == "" {
		return nil, sentiread.Errorf(sentiread.EPARSING, "model returned an empty response")
	}

	var r sentiread.Report
	if err := json.Unmarshal([]byte(clean), &r); err != nil {
		return nil, sentiread.Errorf(sentiread.EPARSING, "model returned invalid JSON: %v", err)
	}

	overall := strings.ToLower(strings.TrimSpace(r.OverallSentiment))
	if overall == OverallMixed {
		r.OverallSentiment = OverallMixed
	} else {
		label, ok := normalizeLabel(overall)
		if !ok {
			return nil, sentiread.Errorf(sentiread.EPARSING, "model returned unknown overall sentiment %q", r.OverallSentiment)
		}
		r.OverallSentiment = label
	}
	r.Confidence = min(max(r.Confidence, 0), 1)
	r.Fallback = false
	return &r, nil
}

// FallbackReport reads the overall sentiment from the counts alone. It
// carries no narrative and zero confidence.
func FallbackReport(results []sentiread.AnalysisResult) *sentiread.Report {
	counts := countSentiments(results)
	overall := OverallMixed
	switch {
	case counts.Positive > counts.Negative:
		overall = sentiread.SentimentPositive
	case counts.Negative > counts.Positive:
		overall = sentiread.SentimentNegative
	}
	return &sentiread.Report{
		OverallSentiment: overall,
		Distribution:     counts.Percent(),
		CoreThemes:       topThemes(results, 5),
		Analyzed:         len(results),
		Fallback:         true,
	}
}

func countSentiments(results []sentiread.AnalysisResult) sentiread.SentimentCounts {
	var c sentiread.SentimentCounts
	for _, r := range results {
		switch r.Sentiment.Sentiment {
		case sentiread.SentimentPositive:
			c.Positive++
		case sentiread.SentimentNegative:
			c.Negative++
		default:
			c.Neutral++
		}
	}
	return c
}

// topThemes returns the n most mentioned themes, first mention breaking
// ties.
func topThemes(results []sentiread.AnalysisResult, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, r := range results {
		for _, t := range r.Sentiment.Themes {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if counts[t] == 0 {
				order = append(order, t)
			}
			counts[t]++
		}
	}
	slices.SortStableFunc(order, func(a, b string) int { return counts[b] - counts[a] })
	return order[:min(len(order), n)]
}
