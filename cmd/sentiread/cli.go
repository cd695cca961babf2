package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/crawl"
	"github.com/fwojciec/sentiread/gin"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Content    sentiread.ContentService
	Registry   sentiread.ExtractorRegistry
	Discoverer *crawl.Discoverer
	Analysis   sentiread.AnalysisService
	Searcher   sentiread.Searcher
	Analytics  sentiread.AnalyticsService
	Reports    sentiread.ReportGenerator
	Server     *gin.Server

	// NewExtractor builds a content service that reads html instead of
	// fetching. Used by the extract command.
	NewExtractor func(html string) sentiread.ContentService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool   `short:"v" help:"Enable debug logging"`
	DB        string `name:"db" env:"SENTIREAD_DB" help:"Analytics database path"`
	GeminiKey string `name:"gemini-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	ExaKey    string `name:"exa-key" env:"EXA_API_KEY" help:"Exa API key"`

	Fetch      FetchCmd      `cmd:"" help:"Fetch URLs and extract article text"`
	Extract    ExtractCmd    `cmd:"" help:"Extract an article from a saved HTML file"`
	Extractors ExtractorsCmd `cmd:"" help:"List site-specific extractors"`
	Discover   DiscoverCmd   `cmd:"" help:"Discover article URLs from sitemaps or a listing page"`
	Search     SearchCmd     `cmd:"" help:"Search for news articles"`
	Analyze    AnalyzeCmd    `cmd:"" help:"Fetch articles and analyze their sentiment"`
	Stats      StatsCmd      `cmd:"" help:"Show recorded sentiment analytics"`
	Serve      ServeCmd      `cmd:"" help:"Run the HTTP API"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URLs        []string `arg:"" name:"url" help:"Article URLs"`
	Concurrency int      `short:"c" default:"5" help:"Concurrent fetch limit (max 10)"`
	JSON        bool     `help:"Print results as JSON"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	File string `arg:"" type:"existingfile" help:"Saved HTML file"`
	URL  string `required:"" help:"Original URL of the page; selects the site extractor"`
	JSON bool   `help:"Print the result as JSON"`
}

// ExtractorsCmd is the "extractors" subcommand.
type ExtractorsCmd struct{}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	Site    string   `arg:"" help:"Site or section URL"`
	Include []string `short:"i" help:"Keep URLs matching regex (repeatable)"`
	Exclude []string `short:"x" help:"Drop URLs matching regex (repeatable)"`
	Limit   int      `short:"n" help:"Maximum number of URLs"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query      []string `arg:"" help:"Search query"`
	NumResults int      `short:"n" default:"20" help:"Number of results (max 100)"`
	Domains    []string `short:"d" name:"domain" help:"Restrict to domain (repeatable)"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	URLs        []string `arg:"" name:"url" help:"Article URLs"`
	Concurrency int      `short:"c" default:"3" help:"Concurrent analysis limit (max 5)"`
	JSON        bool     `help:"Print results as JSON"`
	Report      bool     `help:"Summarize the analyses in an overall report"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct {
	Limit  int `short:"n" default:"10" help:"Number of top domains and authors"`
	Days   int `short:"d" default:"7" help:"Days of daily trends (max 365)"`
	Themes int `default:"10" help:"Number of top themes"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr     string `env:"SENTIREAD_ADDR" default:":8080" help:"Listen address"`
	Username string `env:"SENTIREAD_USERNAME" help:"Login username"`
	Password string `env:"SENTIREAD_PASSWORD" help:"Login password"`
	Secure   bool   `help:"Mark the session cookie Secure (serve behind TLS)"`
}
