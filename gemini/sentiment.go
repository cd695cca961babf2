// Package gemini implements sentiment analysis with Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/sentiread"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// MaxPromptContent is the amount of article text included in the prompt.
const MaxPromptContent = 4000

// Ensure SentimentAnalyzer implements sentiread.SentimentAnalyzer at compile time.
var _ sentiread.SentimentAnalyzer = (*SentimentAnalyzer)(nil)

// SentimentAnalyzer implements sentiread.SentimentAnalyzer using Google Gemini.
type SentimentAnalyzer struct {
	client *genai.Client
	model  string
}

type options struct {
	model string
}

// Option configures a SentimentAnalyzer or ReportGenerator.
type Option func(*options)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

func resolve(opts []Option) options {
	o := options{model: DefaultModel}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewSentimentAnalyzer creates a new SentimentAnalyzer.
func NewSentimentAnalyzer(client *genai.Client, opts ...Option) *SentimentAnalyzer {
	return &SentimentAnalyzer{client: client, model: resolve(opts).model}
}

// Analyze asks the model for a structured judgement of req's content.
func (a *SentimentAnalyzer) Analyze(ctx context.Context, req sentiread.SentimentRequest) (*sentiread.Sentiment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, sentiread.Errorf(sentiread.EINVALID, "content is required")
	}
	if a.client == nil {
		return nil, sentiread.Errorf(sentiread.EINTERNAL, "gemini client not configured")
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{genai.NewContentFromText(BuildPrompt(req), "user")},
		BuildConfig(),
	)
	if err != nil {
		if err := sentiread.Interrupted(ctx, "sentiment analysis"); err != nil {
			return nil, err
		}
		return nil, sentiread.Errorf(sentiread.ENETWORK, "sentiment analysis failed: %v", err)
	}
	if result == nil {
		return nil, sentiread.Errorf(sentiread.EINTERNAL, "gemini returned nil result")
	}

	return ParseSentiment(result.Text())
}

// BuildConfig returns the GenerateContentConfig for sentiment requests.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You analyze the sentiment of news articles. Respond with a single JSON object and nothing else.",
			}},
		},
		Temperature:      &temp,
		MaxOutputTokens:  1000,
		ResponseMIMEType: "application/json",
	}
}

// BuildPrompt builds the user prompt describing the expected JSON shape,
// followed by the article.
func BuildPrompt(req sentiread.SentimentRequest) string {
	var sb strings.Builder
	sb.WriteString(`Analyze the following web content for sentiment analysis. Respond with ONLY a valid JSON object in this exact format:

{
  "sentiment": "positive/negative/neutral",
  "confidence": 0.85,
  "tone": "professional/excited/cautious/critical/optimistic/pessimistic/etc",
  "keyMessages": ["message 1", "message 2", "message 3"],
  "reasoning": "explanation of why this sentiment was determined",
  "themes": ["theme1", "theme2", "theme3"],
  "emotionalIntensity": "low/medium/high"
}

`)
	fmt.Fprintf(&sb, "URL: %s\n", req.URL)
	if req.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", req.Title)
	}
	if req.Author != "" {
		fmt.Fprintf(&sb, "Author: %s\n", req.Author)
	}
	content, _ := json.Marshal(truncate(req.Content, MaxPromptContent))
	fmt.Fprintf(&sb, "Content: %s", content)
	return sb.String()
}

func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// ParseSentiment decodes a model response. Markdown code fences around the
// JSON are tolerated.
func ParseSentiment(text string) (*sentiread.Sentiment, error) {
	clean := stripFences(text)
	if clean == "" {
		return nil, sentiread.Errorf(sentiread.EPARSING, "model returned an empty response")
	}

	var s sentiread.Sentiment
	if err := json.Unmarshal([]byte(clean), &s); err != nil {
		return nil, sentiread.Errorf(sentiread.EPARSING, "model returned invalid JSON: %v", err)
	}

	label, ok := normalizeLabel(s.Sentiment)
	if !ok {
		return nil, sentiread.Errorf(sentiread.EPARSING, "model returned unknown sentiment %q", s.Sentiment)
	}
	s.Sentiment = label
	s.Confidence = min(max(s.Confidence, 0), 1)
	s.EmotionalIntensity = strings.ToLower(strings.TrimSpace(s.EmotionalIntensity))
	return &s, nil
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func normalizeLabel(label string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case sentiread.SentimentPositive:
		return sentiread.SentimentPositive, true
	case sentiread.SentimentNegative:
		return sentiread.SentimentNegative, true
	case sentiread.SentimentNeutral, "mixed":
		return sentiread.SentimentNeutral, true
	}
	return "", false
}
