// Package gin implements the sentiread HTTP API with gin.
package gin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/sentiread"
	"github.com/gin-gonic/gin"
)

// Server timeouts. WriteTimeout covers a full batch of fetches.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 5 * time.Minute
	DefaultShutdownTimeout = 10 * time.Second
)

// Server serves the JSON API. Services left nil answer 503.
type Server struct {
	Content   sentiread.ContentService
	Analysis  sentiread.AnalysisService
	Searcher  sentiread.Searcher
	Analytics sentiread.AnalyticsService
	Reports   sentiread.ReportGenerator
	Registry  sentiread.ExtractorRegistry

	// Sessions authenticates API calls. Required.
	Sessions *Sessions

	Logger *slog.Logger

	router *gin.Engine
}

// NewServer creates a Server using sessions for authentication.
func NewServer(sessions *Sessions, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{Sessions: sessions, Logger: logger}
}

// Handler returns the routed gin engine. Routes are built on first use, so
// services must be set before the first call.
func (s *Server) Handler() http.Handler {
	if s.router == nil {
		s.router = s.routes()
	}
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(recovery(s.Logger), requestLogger(s.Logger))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	api := r.Group("/api")
	api.POST("/login", s.handleLogin)
	api.POST("/logout", s.handleLogout)
	api.GET("/user", s.handleUser)

	auth := api.Group("", s.requireAuth)
	auth.POST("/fetch-content", s.handleFetchContent)
	auth.POST("/fetch-content-batch", s.handleFetchContentBatch)
	auth.POST("/analyze-sentiment", s.handleAnalyzeSentiment)
	auth.POST("/analyze-sentiment-batch", s.handleAnalyzeSentimentBatch)
	auth.POST("/search", s.handleSearch)
	auth.GET("/analytics/overview", s.handleAnalyticsOverview)
	auth.GET("/analytics/trends", s.handleAnalyticsTrends)
	auth.GET("/analytics/themes", s.handleAnalyticsThemes)
	auth.POST("/generate-report", s.handleGenerateReport)
	auth.GET("/extractors", s.handleExtractors)
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadTimeout,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("http server started", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.Logger.Info("http server stopped")
	return nil
}
