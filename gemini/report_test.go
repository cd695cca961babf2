package gemini_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzed(url, label string, themes ...string) sentiread.AnalysisResult {
	return sentiread.AnalysisResult{
		URL:       url,
		Status:    sentiread.StatusSuccess,
		Sentiment: &sentiread.Sentiment{Sentiment: label, Confidence: 0.8, Themes: themes},
	}
}

func TestReportGenerator_GenerateReport(t *testing.T) {
	t.Parallel()

	results := []sentiread.AnalysisResult{
		analyzed("https://a.com/1", sentiread.SentimentPositive, "ev sales"),
		analyzed("https://a.com/2", sentiread.SentimentPositive, "exports"),
		analyzed("https://a.com/3", sentiread.SentimentNegative, "recalls"),
		{URL: "https://a.com/4", Status: sentiread.StatusError, Error: "blocked", ErrorType: sentiread.EBOTDETECTED},
	}

	t.Run("parses the model report", func(t *testing.T) {
		t.Parallel()

		var body string
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			body = string(b)
			respondWith("```json\n" + `{"overallSentiment":"Positive","dominantTone":"optimistic","coreThemes":["ev sales"],"windDirection":"improving","confidence":1.4,"analyzed":99}` + "\n```")(w, r)
		})

		got, err := gemini.NewReportGenerator(client).GenerateReport(context.Background(), results)

		require.NoError(t, err)
		assert.Equal(t, sentiread.SentimentPositive, got.OverallSentiment)
		assert.Equal(t, "optimistic", got.DominantTone)
		assert.Equal(t, "improving", got.WindDirection)
		assert.InDelta(t, 1.0, got.Confidence, 1e-9)
		assert.Equal(t, 3, got.Analyzed)
		assert.Equal(t, sentiread.Percentages{Positive: 66.7, Negative: 33.3}, got.Distribution)
		assert.False(t, got.Fallback)
		assert.Contains(t, body, "from 3 URLs")
		assert.NotContains(t, body, "https://a.com/4")
	})

	t.Run("falls back to counts on an unusable answer", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, respondWith("The coverage is broadly upbeat."))

		got, err := gemini.NewReportGenerator(client).GenerateReport(context.Background(), results)

		require.NoError(t, err)
		assert.True(t, got.Fallback)
		assert.Equal(t, sentiread.SentimentPositive, got.OverallSentiment)
		assert.Equal(t, []string{"ev sales", "exports", "recalls"}, got.CoreThemes)
		assert.Zero(t, got.Confidence)
	})

	t.Run("API failures are network errors", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`, http.StatusServiceUnavailable)
		})

		_, err := gemini.NewReportGenerator(client).GenerateReport(context.Background(), results)

		assert.Equal(t, sentiread.ENETWORK, sentiread.ErrorCode(err))
	})

	t.Run("requires a successful analysis", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewReportGenerator(nil).GenerateReport(context.Background(), results[3:])

		assert.Equal(t, sentiread.EINVALID, sentiread.ErrorCode(err))
	})
}

func TestParseReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
		code string
	}{
		{"mixed is kept", `{"overallSentiment":"MIXED"}`, gemini.OverallMixed, ""},
		{"label is normalized", `{"overallSentiment":" negative "}`, sentiread.SentimentNegative, ""},
		{"unknown label", `{"overallSentiment":"stormy"}`, "", sentiread.EPARSING},
		{"not JSON", "positive overall", "", sentiread.EPARSING},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := gemini.ParseReport(tt.text)

			if tt.code != "" {
				assert.Equal(t, tt.code, sentiread.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.OverallSentiment)
		})
	}
}

func TestFallbackReport(t *testing.T) {
	t.Parallel()

	got := gemini.FallbackReport([]sentiread.AnalysisResult{
		analyzed("https://a.com/1", sentiread.SentimentPositive, "Rates", "jobs"),
		analyzed("https://a.com/2", sentiread.SentimentNegative, "rates"),
	})

	assert.Equal(t, gemini.OverallMixed, got.OverallSentiment)
	assert.Equal(t, sentiread.Percentages{Positive: 50, Negative: 50}, got.Distribution)
	assert.Equal(t, []string{"rates", "jobs"}, got.CoreThemes)
	assert.Equal(t, 2, got.Analyzed)
}

func TestBuildReportPrompt_CapsResults(t *testing.T) {
	t.Parallel()

	var results []sentiread.AnalysisResult
	for range gemini.MaxReportResults + 5 {
		results = append(results, analyzed("https://a.com/x", sentiread.SentimentNeutral))
	}

	prompt := gemini.BuildReportPrompt(results)

	assert.Contains(t, prompt, "from 50 URLs")
}
