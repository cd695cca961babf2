package gin

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/fwojciec/sentiread"
	"github.com/gin-gonic/gin"
)

// MaxBatchURLs bounds the size of a single fetch or analysis batch.
const MaxBatchURLs = 50

type fetchRequest struct {
	URL string `json:"url"`
}

type fetchBatchRequest struct {
	URLs        []string `json:"urls"`
	Concurrency int      `json:"concurrency"`
}

type analyzeBatchRequest struct {
	Articles    []sentiread.SentimentRequest `json:"articles"`
	Concurrency int                          `json:"concurrency"`
}

// detach keeps long-running work alive after the client disconnects so
// finished fetches still reach the cache and analytics.
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// bind decodes the JSON body into v, answering 400 on failure.
func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func unavailable(c *gin.Context, what string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": what + " is not configured"})
}

func (s *Server) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// StatusCode maps an error code to the HTTP status of a response that
// carries no per-item result, such as search.
func StatusCode(code string) int {
	switch code {
	case sentiread.EINVALID:
		return http.StatusBadRequest
	case sentiread.ENOTFOUND:
		return http.StatusNotFound
	case sentiread.EFORBIDDEN, sentiread.EBOTDETECTED:
		return http.StatusForbidden
	case sentiread.ECONTENT, sentiread.EPARSING:
		return http.StatusUnprocessableEntity
	case sentiread.ENETWORK:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// itemFailure answers a failed single-item operation. Internal failures
// never expose their message.
func (s *Server) itemFailure(c *gin.Context, url, code, msg string) {
	status := StatusCode(code)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", c.Request.URL.Path, "url", url, "err", msg)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": msg, "errorType": code, "url": url})
}

// itemResult answers a single-item operation. Per-item failures travel in
// the 200 body like batch items do; invalid input answers 400 and internal
// failures answer 500.
func (s *Server) itemResult(c *gin.Context, res any, url, status, code, msg string) {
	if status != sentiread.StatusSuccess {
		switch {
		case code == sentiread.EINVALID:
			c.JSON(http.StatusBadRequest, gin.H{"error": msg, "errorType": code, "url": url})
			return
		case StatusCode(code) == http.StatusInternalServerError:
			s.itemFailure(c, url, code, msg)
			return
		}
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleFetchContent(c *gin.Context) {
	if s.Content == nil {
		unavailable(c, "content service")
		return
	}
	var req fetchRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		badRequest(c, "url is required")
		return
	}

	res := s.Content.FetchAndExtract(detach(c), strings.TrimSpace(req.URL))
	s.itemResult(c, res, res.URL, res.Status, res.ErrorType, res.Error)
}

func (s *Server) handleFetchContentBatch(c *gin.Context) {
	if s.Content == nil {
		unavailable(c, "content service")
		return
	}
	var req fetchBatchRequest
	if !bind(c, &req) {
		return
	}
	if len(req.URLs) == 0 {
		badRequest(c, "urls must be a non-empty list")
		return
	}
	if len(req.URLs) > MaxBatchURLs {
		badRequest(c, "at most "+strconv.Itoa(MaxBatchURLs)+" urls per batch")
		return
	}

	batch, err := s.Content.ProcessBatch(detach(c), req.URLs, req.Concurrency)
	if err != nil {
		if sentiread.ErrorCode(err) == sentiread.EINVALID {
			badRequest(c, sentiread.ErrorMessage(err))
			return
		}
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

func (s *Server) handleAnalyzeSentiment(c *gin.Context) {
	if s.Analysis == nil {
		unavailable(c, "sentiment analysis")
		return
	}
	var req sentiread.SentimentRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		badRequest(c, "content is required")
		return
	}

	res := s.Analysis.Analyze(detach(c), req)
	s.itemResult(c, res, res.URL, res.Status, res.ErrorType, res.Error)
}

func (s *Server) handleAnalyzeSentimentBatch(c *gin.Context) {
	if s.Analysis == nil {
		unavailable(c, "sentiment analysis")
		return
	}
	var req analyzeBatchRequest
	if !bind(c, &req) {
		return
	}
	if len(req.Articles) == 0 {
		badRequest(c, "articles must be a non-empty list")
		return
	}
	if len(req.Articles) > MaxBatchURLs {
		badRequest(c, "at most "+strconv.Itoa(MaxBatchURLs)+" articles per batch")
		return
	}
	for _, a := range req.Articles {
		if strings.TrimSpace(a.URL) == "" || strings.TrimSpace(a.Content) == "" {
			badRequest(c, `each article must have "content" and "url" fields`)
			return
		}
	}

	batch, err := s.Analysis.AnalyzeBatch(detach(c), req.Articles, req.Concurrency)
	if err != nil {
		if sentiread.ErrorCode(err) == sentiread.EINVALID {
			badRequest(c, sentiread.ErrorMessage(err))
			return
		}
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

func (s *Server) handleSearch(c *gin.Context) {
	if s.Searcher == nil {
		unavailable(c, "search")
		return
	}
	var q sentiread.SearchQuery
	if !bind(c, &q) {
		return
	}
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		badRequest(c, "query is required")
		return
	}

	hits, err := s.Searcher.Search(c.Request.Context(), q)
	if err != nil {
		code := sentiread.ErrorCode(err)
		s.itemFailure(c, "", code, sentiread.ErrorMessage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": hits, "total": len(hits)})
}

// queryInt reads a non-negative integer query parameter, zero when absent.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		badRequest(c, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func (s *Server) handleAnalyticsOverview(c *gin.Context) {
	if s.Analytics == nil {
		unavailable(c, "analytics")
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	summary, err := s.Analytics.Summary(c.Request.Context(), limit)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleAnalyticsTrends(c *gin.Context) {
	if s.Analytics == nil {
		unavailable(c, "analytics")
		return
	}
	days, ok := queryInt(c, "days")
	if !ok {
		return
	}

	trends, err := s.Analytics.Trends(c.Request.Context(), days)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, trends)
}

func (s *Server) handleAnalyticsThemes(c *gin.Context) {
	if s.Analytics == nil {
		unavailable(c, "analytics")
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	themes, err := s.Analytics.Themes(c.Request.Context(), limit)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, themes)
}

type reportRequest struct {
	Results []sentiread.AnalysisResult `json:"results"`
}

func (s *Server) handleGenerateReport(c *gin.Context) {
	if s.Reports == nil {
		unavailable(c, "report generation")
		return
	}
	var req reportRequest
	if !bind(c, &req) {
		return
	}
	if len(req.Results) == 0 {
		badRequest(c, "results are required")
		return
	}

	report, err := s.Reports.GenerateReport(c.Request.Context(), req.Results)
	if err != nil {
		s.itemFailure(c, "", sentiread.ErrorCode(err), sentiread.ErrorMessage(err))
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleExtractors(c *gin.Context) {
	if s.Registry == nil {
		unavailable(c, "extractor registry")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"extractors": s.Registry.ExtractorInfo(),
		"domains":    s.Registry.SupportedDomains(),
	})
}
