package gin_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/sentiread"
	sentigin "github.com/fwojciec/sentiread/gin"
	"github.com/fwojciec/sentiread/mock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newServer() *sentigin.Server {
	return sentigin.NewServer(sentigin.NewSessions("analyst", "s3cret"), nil)
}

func do(t *testing.T, h http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// login returns the session cookie for the configured user.
func login(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/login", map[string]string{"username": "analyst", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == sentigin.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestServer_Auth(t *testing.T) {
	t.Parallel()

	t.Run("login sets an HttpOnly lax cookie", func(t *testing.T) {
		t.Parallel()

		h := newServer().Handler()
		cookie := login(t, h)

		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, int(sentigin.SessionTTL.Seconds()), cookie.MaxAge)
		assert.Equal(t, "/", cookie.Path)
	})

	t.Run("rejects bad credentials", func(t *testing.T) {
		t.Parallel()

		w := do(t, newServer().Handler(), http.MethodPost, "/api/login", map[string]string{"username": "analyst", "password": "nope"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("requires both fields", func(t *testing.T) {
		t.Parallel()

		w := do(t, newServer().Handler(), http.MethodPost, "/api/login", map[string]string{"username": "analyst"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, decode(t, w)["error"])
	})

	t.Run("user reports the session owner", func(t *testing.T) {
		t.Parallel()

		h := newServer().Handler()
		cookie := login(t, h)

		w := do(t, h, http.MethodGet, "/api/user", nil, cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "analyst", decode(t, w)["username"])
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		t.Parallel()

		h := newServer().Handler()
		cookie := login(t, h)

		w := do(t, h, http.MethodPost, "/api/logout", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)

		w = do(t, h, http.MethodGet, "/api/user", nil, cookie)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("protected routes need a session", func(t *testing.T) {
		t.Parallel()

		h := newServer().Handler()
		for _, path := range []string{"/api/extractors", "/api/analytics/overview"} {
			w := do(t, h, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
		w := do(t, h, http.MethodPost, "/api/fetch-content", map[string]string{"url": "https://example.com"},
			&http.Cookie{Name: sentigin.CookieName, Value: "forged"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong method is rejected", func(t *testing.T) {
		t.Parallel()

		w := do(t, newServer().Handler(), http.MethodGet, "/api/fetch-content", nil)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "method not allowed", decode(t, w)["error"])
	})
}

func TestSessions_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := sentigin.NewSessions("analyst", "s3cret")
	s.Now = func() time.Time { return now }

	token, ok := s.Login("analyst", "s3cret")
	require.True(t, ok)

	now = now.Add(sentigin.SessionTTL - time.Second)
	_, ok = s.User(token)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = s.User(token)
	assert.False(t, ok)
}

func TestSessions_EmptyCredentialsNeverMatch(t *testing.T) {
	t.Parallel()

	_, ok := sentigin.NewSessions("", "").Login("", "")

	assert.False(t, ok)
}

func TestServer_FetchContent(t *testing.T) {
	t.Parallel()

	t.Run("returns the extracted article", func(t *testing.T) {
		t.Parallel()

		var gotCtxErr error
		srv := newServer()
		srv.Content = &mock.ContentService{FetchAndExtractFn: func(ctx context.Context, url string) sentiread.FetchResult {
			gotCtxErr = ctx.Err()
			return sentiread.FetchResult{URL: url, Content: "Body", Title: "Title", Status: sentiread.StatusSuccess}
		}}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/fetch-content", map[string]string{"url": "https://example.com/a"}, login(t, h))

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Body", body["content"])
		assert.Equal(t, "Title", body["articleTitle"])
		assert.NoError(t, gotCtxErr)
	})

	t.Run("requires a url", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Content = &mock.ContentService{}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/fetch-content", map[string]string{}, login(t, h))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "url is required", decode(t, w)["error"])
	})

	t.Run("reports item failures in a 200 body", func(t *testing.T) {
		t.Parallel()

		for _, code := range []string{sentiread.EBOTDETECTED, sentiread.EFORBIDDEN, sentiread.ENOTFOUND, sentiread.ENETWORK, sentiread.ECONTENT} {
			srv := newServer()
			srv.Content = &mock.ContentService{FetchAndExtractFn: func(_ context.Context, url string) sentiread.FetchResult {
				return sentiread.FetchResult{URL: url, Status: sentiread.StatusError, Error: "fetch failed", ErrorType: code}
			}}
			h := srv.Handler()

			w := do(t, h, http.MethodPost, "/api/fetch-content", map[string]string{"url": "https://example.com/a"}, login(t, h))

			assert.Equal(t, http.StatusOK, w.Code, code)
			body := decode(t, w)
			assert.Equal(t, sentiread.StatusError, body["status"], code)
			assert.Equal(t, "fetch failed", body["error"], code)
			assert.Equal(t, code, body["errorType"], code)
			assert.Equal(t, "https://example.com/a", body["url"], code)
		}
	})

	t.Run("invalid urls answer 400", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Content = &mock.ContentService{FetchAndExtractFn: func(_ context.Context, url string) sentiread.FetchResult {
			return sentiread.FetchResult{URL: url, Status: sentiread.StatusError, Error: "invalid URL format", ErrorType: sentiread.EINVALID}
		}}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/fetch-content", map[string]string{"url": "not a url"}, login(t, h))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "invalid URL format", body["error"])
		assert.Equal(t, sentiread.EINVALID, body["errorType"])
	})

	t.Run("hides internal failures", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Content = &mock.ContentService{FetchAndExtractFn: func(_ context.Context, url string) sentiread.FetchResult {
			return sentiread.FetchResult{URL: url, Status: sentiread.StatusError, Error: "nil map in extractor", ErrorType: sentiread.EINTERNAL}
		}}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/fetch-content", map[string]string{"url": "https://example.com/a"}, login(t, h))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, map[string]any{"error": "internal error"}, decode(t, w))
	})

	t.Run("recovers panics", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Content = &mock.ContentService{FetchAndExtractFn: func(context.Context, string) sentiread.FetchResult {
			panic("boom")
		}}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/fetch-content", map[string]string{"url": "https://example.com/a"}, login(t, h))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal error", decode(t, w)["error"])
	})

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Content = &mock.ContentService{}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/fetch-content", "{not json", login(t, h))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_FetchContentBatch(t *testing.T) {
	t.Parallel()

	t.Run("returns per-item results with 200", func(t *testing.T) {
		t.Parallel()

		var gotConcurrency int
		srv := newServer()
		srv.Content = &mock.ContentService{ProcessBatchFn: func(_ context.Context, urls []string, n int) (*sentiread.BatchResult, error) {
			gotConcurrency = n
			return &sentiread.BatchResult{
				Results: []sentiread.FetchResult{
					{URL: urls[0], Status: sentiread.StatusSuccess, Content: "ok"},
					{URL: urls[1], Status: sentiread.StatusError, ErrorType: sentiread.ENETWORK, Error: "down"},
				},
				Stats: sentiread.BatchStats{Total: 2, Successful: 1, Failed: 1, Concurrency: n},
			}, nil
		}}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/fetch-content-batch",
			map[string]any{"urls": []string{"https://a.com/1", "https://b.com/2"}, "concurrency": 2}, login(t, h))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, gotConcurrency)
		var batch sentiread.BatchResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
		assert.Equal(t, sentiread.ENETWORK, batch.Results[1].ErrorType)
		assert.Equal(t, 1, batch.Stats.Failed)
	})

	t.Run("rejects empty and oversized lists", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Content = &mock.ContentService{}
		h := srv.Handler()
		cookie := login(t, h)

		w := do(t, h, http.MethodPost, "/api/fetch-content-batch", map[string]any{"urls": []string{}}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		urls := strings.Split(strings.Repeat("https://a.com/x,", sentigin.MaxBatchURLs+1), ",")
		w = do(t, h, http.MethodPost, "/api/fetch-content-batch", map[string]any{"urls": urls[:sentigin.MaxBatchURLs+1]}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_AnalyzeSentiment(t *testing.T) {
	t.Parallel()

	t.Run("analyzes one article", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Analysis = &mock.AnalysisService{AnalyzeFn: func(_ context.Context, req sentiread.SentimentRequest) sentiread.AnalysisResult {
			return sentiread.AnalysisResult{URL: req.URL, Status: sentiread.StatusSuccess, Sentiment: &sentiread.Sentiment{Sentiment: sentiread.SentimentPositive}}
		}}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/analyze-sentiment", map[string]string{"url": "https://a.com/1", "content": "Great quarter."}, login(t, h))

		require.Equal(t, http.StatusOK, w.Code)
		var res sentiread.AnalysisResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, sentiread.SentimentPositive, res.Sentiment.Sentiment)
	})

	t.Run("reports analysis failures in a 200 body", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Analysis = &mock.AnalysisService{AnalyzeFn: func(_ context.Context, req sentiread.SentimentRequest) sentiread.AnalysisResult {
			return sentiread.AnalysisResult{URL: req.URL, Status: sentiread.StatusError, Error: "model returned invalid JSON", ErrorType: sentiread.EPARSING}
		}}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/analyze-sentiment", map[string]string{"url": "https://a.com/1", "content": "Great quarter."}, login(t, h))

		require.Equal(t, http.StatusOK, w.Code)
		var res sentiread.AnalysisResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, sentiread.StatusError, res.Status)
		assert.Equal(t, sentiread.EPARSING, res.ErrorType)
		assert.Nil(t, res.Sentiment)
	})

	t.Run("requires content", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Analysis = &mock.AnalysisService{}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/analyze-sentiment", map[string]string{"url": "https://a.com/1"}, login(t, h))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "content is required", decode(t, w)["error"])
	})

	t.Run("batch validates each article", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Analysis = &mock.AnalysisService{}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/analyze-sentiment-batch", map[string]any{
			"articles": []map[string]string{{"url": "https://a.com/1", "content": "x"}, {"url": "https://a.com/2"}},
		}, login(t, h))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("batch returns results", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Analysis = &mock.AnalysisService{AnalyzeBatchFn: func(_ context.Context, reqs []sentiread.SentimentRequest, n int) (*sentiread.AnalysisBatch, error) {
			return &sentiread.AnalysisBatch{
				Results: []sentiread.AnalysisResult{{URL: reqs[0].URL, Status: sentiread.StatusSuccess}},
				Stats:   sentiread.AnalysisStats{Total: 1, Successful: 1, Concurrency: n},
			}, nil
		}}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/analyze-sentiment-batch", map[string]any{
			"articles":    []map[string]string{{"url": "https://a.com/1", "content": "x"}},
			"concurrency": 4,
		}, login(t, h))

		require.Equal(t, http.StatusOK, w.Code)
		var batch sentiread.AnalysisBatch
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
		assert.Equal(t, 4, batch.Stats.Concurrency)
	})
}

func TestServer_Search(t *testing.T) {
	t.Parallel()

	t.Run("returns hits", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Searcher = &mock.Searcher{SearchFn: func(_ context.Context, q sentiread.SearchQuery) ([]sentiread.SearchHit, error) {
			assert.Equal(t, "tesla deliveries", q.Query)
			assert.Equal(t, 5, q.NumResults)
			return []sentiread.SearchHit{{URL: "https://a.com/1", QualityScore: 0.9}}, nil
		}}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/search", map[string]any{"query": " tesla deliveries ", "numResults": 5}, login(t, h))

		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 1, decode(t, w)["total"])
	})

	t.Run("unconfigured search", func(t *testing.T) {
		t.Parallel()

		h := newServer().Handler()

		w := do(t, h, http.MethodPost, "/api/search", map[string]any{"query": "x"}, login(t, h))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestServer_AnalyticsOverview(t *testing.T) {
	t.Parallel()

	var gotLimit int
	srv := newServer()
	srv.Analytics = &mock.AnalyticsService{SummaryFn: func(_ context.Context, limit int) (*sentiread.AnalyticsSummary, error) {
		gotLimit = limit
		return &sentiread.AnalyticsSummary{Total: 3}, nil
	}}
	h := srv.Handler()
	cookie := login(t, h)

	w := do(t, h, http.MethodGet, "/api/analytics/overview?limit=5", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, gotLimit)
	assert.EqualValues(t, 3, decode(t, w)["total"])

	w = do(t, h, http.MethodGet, "/api/analytics/overview?limit=many", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_AnalyticsTrends(t *testing.T) {
	t.Parallel()

	t.Run("passes the window", func(t *testing.T) {
		t.Parallel()

		var gotDays int
		srv := newServer()
		srv.Analytics = &mock.AnalyticsService{TrendsFn: func(_ context.Context, days int) (*sentiread.SentimentTrends, error) {
			gotDays = days
			return &sentiread.SentimentTrends{Days: days, Trends: []sentiread.DailyTrend{{Date: "2024-05-10", Total: 2}}, Total: 2}, nil
		}}
		h := srv.Handler()

		w := do(t, h, http.MethodGet, "/api/analytics/trends?days=7", nil, login(t, h))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 7, gotDays)
		body := decode(t, w)
		assert.EqualValues(t, 2, body["total"])
		assert.Len(t, body["trends"], 1)
	})

	t.Run("rejects a bad window", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Analytics = &mock.AnalyticsService{}
		h := srv.Handler()

		w := do(t, h, http.MethodGet, "/api/analytics/trends?days=week", nil, login(t, h))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "days must be a non-negative integer", decode(t, w)["error"])
	})
}

func TestServer_AnalyticsThemes(t *testing.T) {
	t.Parallel()

	var gotLimit int
	srv := newServer()
	srv.Analytics = &mock.AnalyticsService{ThemesFn: func(_ context.Context, limit int) (*sentiread.ThemeSummary, error) {
		gotLimit = limit
		return &sentiread.ThemeSummary{
			Themes:      []sentiread.ThemeStats{{Theme: "ev sales", Frequency: 3, Category: sentiread.SentimentPositive}},
			TotalThemes: 4,
		}, nil
	}}
	h := srv.Handler()

	w := do(t, h, http.MethodGet, "/api/analytics/themes", nil, login(t, h))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, gotLimit)
	body := decode(t, w)
	assert.EqualValues(t, 4, body["totalThemes"])
	themes := body["themes"].([]any)
	require.Len(t, themes, 1)
	assert.Equal(t, "ev sales", themes[0].(map[string]any)["theme"])
}

func TestServer_GenerateReport(t *testing.T) {
	t.Parallel()

	t.Run("returns the report", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Reports = &mock.ReportGenerator{GenerateReportFn: func(_ context.Context, results []sentiread.AnalysisResult) (*sentiread.Report, error) {
			require.Len(t, results, 1)
			assert.Equal(t, sentiread.SentimentPositive, results[0].Sentiment.Sentiment)
			return &sentiread.Report{OverallSentiment: sentiread.SentimentPositive, Summary: "Upbeat.", Analyzed: 1}, nil
		}}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/generate-report", map[string]any{"results": []any{
			map[string]any{"url": "https://a.com/1", "status": "success", "sentiment": map[string]any{"sentiment": "positive", "confidence": 0.9}},
		}}, login(t, h))

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, sentiread.SentimentPositive, body["overallSentiment"])
		assert.Equal(t, "Upbeat.", body["summary"])
	})

	t.Run("requires results", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Reports = &mock.ReportGenerator{}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/generate-report", map[string]any{"results": []any{}}, login(t, h))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "results are required", decode(t, w)["error"])
	})

	t.Run("no successful analyses", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		srv.Reports = &mock.ReportGenerator{GenerateReportFn: func(context.Context, []sentiread.AnalysisResult) (*sentiread.Report, error) {
			return nil, sentiread.Errorf(sentiread.EINVALID, "at least one successful analysis is required")
		}}
		h := srv.Handler()

		w := do(t, h, http.MethodPost, "/api/generate-report", map[string]any{"results": []any{
			map[string]any{"url": "https://a.com/1", "status": "error"},
		}}, login(t, h))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "at least one successful analysis is required", decode(t, w)["error"])
	})

	t.Run("unconfigured", func(t *testing.T) {
		t.Parallel()

		h := newServer().Handler()

		w := do(t, h, http.MethodPost, "/api/generate-report", map[string]any{"results": []any{}}, login(t, h))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestServer_Extractors(t *testing.T) {
	t.Parallel()

	srv := newServer()
	srv.Registry = &mock.ExtractorRegistry{
		ExtractorInfoFn:    func() []sentiread.ExtractorInfo { return []sentiread.ExtractorInfo{{Name: "msn", Domains: []string{"msn.com"}}} },
		SupportedDomainsFn: func() []string { return []string{"msn.com"} },
	}
	h := srv.Handler()

	w := do(t, h, http.MethodGet, "/api/extractors", nil, login(t, h))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"msn.com"}, decode(t, w)["domains"])
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, sentigin.StatusCode(sentiread.EINVALID))
	assert.Equal(t, http.StatusNotFound, sentigin.StatusCode(sentiread.ENOTFOUND))
	assert.Equal(t, http.StatusUnprocessableEntity, sentigin.StatusCode(sentiread.ECONTENT))
	assert.Equal(t, http.StatusBadGateway, sentigin.StatusCode(sentiread.ENETWORK))
	assert.Equal(t, http.StatusInternalServerError, sentigin.StatusCode(sentiread.EINTERNAL))
}
