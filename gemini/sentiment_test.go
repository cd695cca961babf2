package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// newClient returns a genai client whose requests are served by handler.
func newClient(t *testing.T, handler http.HandlerFunc) *genai.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  srv.Client(),
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	require.NoError(t, err)
	return client
}

func respondWith(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
			}},
		})
	}
}

func TestSentimentAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("parses the model response", func(t *testing.T) {
		t.Parallel()

		var body string
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			body = string(b)
			assert.Contains(t, r.URL.Path, "gemini-2.5-flash")
			respondWith("```json\n{\"sentiment\":\"Positive\",\"confidence\":0.82,\"themes\":[\"deliveries\"]}\n```")(w, r)
		})
		a := gemini.NewSentimentAnalyzer(client)

		got, err := a.Analyze(context.Background(), sentiread.SentimentRequest{
			URL:     "https://example.com/a",
			Content: "Record deliveries lifted the shares.",
		})

		require.NoError(t, err)
		assert.Equal(t, sentiread.SentimentPositive, got.Sentiment)
		assert.InDelta(t, 0.82, got.Confidence, 1e-9)
		assert.Equal(t, []string{"deliveries"}, got.Themes)
		assert.Contains(t, body, "Record deliveries lifted the shares.")
	})

	t.Run("invalid JSON is a parsing error", func(t *testing.T) {
		t.Parallel()

		a := gemini.NewSentimentAnalyzer(newClient(t, respondWith("I think it is positive")))

		_, err := a.Analyze(context.Background(), sentiread.SentimentRequest{URL: "https://example.com/a", Content: "text"})

		assert.Equal(t, sentiread.EPARSING, sentiread.ErrorCode(err))
	})

	t.Run("API failures are network errors", func(t *testing.T) {
		t.Parallel()

		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`, http.StatusServiceUnavailable)
		})
		a := gemini.NewSentimentAnalyzer(client, gemini.WithModel("gemini-2.5-flash-lite"))

		_, err := a.Analyze(context.Background(), sentiread.SentimentRequest{URL: "https://example.com/a", Content: "text"})

		assert.Equal(t, sentiread.ENETWORK, sentiread.ErrorCode(err))
	})

	t.Run("requires content", func(t *testing.T) {
		t.Parallel()

		a := gemini.NewSentimentAnalyzer(nil)

		_, err := a.Analyze(context.Background(), sentiread.SentimentRequest{URL: "https://example.com/a"})

		assert.Equal(t, sentiread.EINVALID, sentiread.ErrorCode(err))
		assert.Equal(t, "content is required", sentiread.ErrorMessage(err))
	})
}

func TestParseSentiment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
		code string
	}{
		{"plain JSON", `{"sentiment":"negative","confidence":0.7}`, sentiread.SentimentNegative, ""},
		{"bare fence", "```\n{\"sentiment\":\"neutral\"}\n```", sentiread.SentimentNeutral, ""},
		{"mixed maps to neutral", `{"sentiment":" Mixed "}`, sentiread.SentimentNeutral, ""},
		{"unknown label", `{"sentiment":"angry"}`, "", sentiread.EPARSING},
		{"empty", "  ", "", sentiread.EPARSING},
		{"truncated", `{"sentiment":"positive"`, "", sentiread.EPARSING},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := gemini.ParseSentiment(tt.text)

			if tt.code != "" {
				assert.Equal(t, tt.code, sentiread.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Sentiment)
		})
	}
}

func TestParseSentiment_ClampsConfidence(t *testing.T) {
	t.Parallel()

	got, err := gemini.ParseSentiment(`{"sentiment":"positive","confidence":1.7,"emotionalIntensity":"High"}`)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.Confidence, 1e-9)
	assert.Equal(t, "high", got.EmotionalIntensity)
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildPrompt(sentiread.SentimentRequest{
		URL:     "https://example.com/a",
		Title:   "Shares jump",
		Content: strings.Repeat("é", 5000),
	})

	assert.Contains(t, prompt, "URL: https://example.com/a")
	assert.Contains(t, prompt, "Title: Shares jump")
	assert.NotContains(t, prompt, "Author:")
	assert.Equal(t, gemini.MaxPromptContent, strings.Count(prompt, "é"))
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.3, *config.Temperature, 1e-6)
	assert.Equal(t, "application/json", config.ResponseMIMEType)
}
