package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/crawl"
	"github.com/fwojciec/sentiread/gemini"
	"github.com/fwojciec/sentiread/gin"
	"github.com/fwojciec/sentiread/goquery"
	sentireadhttp "github.com/fwojciec/sentiread/http"
	sentislog "github.com/fwojciec/sentiread/slog"
	"github.com/fwojciec/sentiread/sqlite"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db and SENTIREAD_DB
	// override it.
	DBPath string

	// SQLite database used by the analytics service.
	DB *sqlite.DB

	// Overrides for end-to-end testing. Nil means the real implementation.
	Fetcher   sentiread.Fetcher
	Sentiment sentiread.SentimentAnalyzer
	Reports   sentiread.ReportGenerator
	Searcher  sentiread.Searcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sentiread"),
		kong.Description("Fetch news articles, extract their text and analyze sentiment."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sentiread --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	if cli.DB != "" {
		m.DBPath = cli.DB
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		f := sentireadhttp.NewFetcher()
		defer f.Close()
		fetcher = f
	}
	fetcher = sentislog.NewLoggingFetcher(fetcher, logger)

	registry := NewRegistry(fetcher, logger)
	deps.Registry = registry

	switch cmd {
	case "fetch", "analyze", "serve":
		deps.Content = NewOrchestrator(fetcher, sentislog.NewLoggingRegistry(registry, logger), logger)
	case "extract":
		deps.NewExtractor = func(html string) sentiread.ContentService {
			o := NewOrchestrator(staticFetcher(html), registry, logger)
			o.Cache = nil
			o.RateLimiter = nil
			o.RetryDelays = []time.Duration{}
			return o
		}
	case "discover":
		deps.Discoverer = &crawl.Discoverer{
			Sitemaps: sentislog.NewLoggingSitemapService(sentireadhttp.NewSitemapService(nil), logger),
			Fetcher:  fetcher,
			Links:    goquery.LinkExtractor{},
		}
	}

	var analytics *sqlite.AnalyticsService
	if cmd == "analyze" || cmd == "stats" || cmd == "serve" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set SENTIREAD_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()
		analytics = sqlite.NewAnalyticsService(m.DB)
		deps.Analytics = analytics
	}

	if cmd == "analyze" || cmd == "serve" {
		sentiment, reports, err := m.geminiServices(ctx, cli.GeminiKey)
		if err != nil && cmd == "analyze" {
			fmt.Fprintln(stderr, "Hint: Set GEMINI_API_KEY. Get an API key at https://aistudio.google.com/apikey")
			return err
		}
		if sentiment != nil {
			deps.Analysis = &crawl.Analyzer{
				Sentiment:   sentislog.NewLoggingAnalyzer(sentiment, logger),
				Sink:        analytics,
				RateLimiter: crawl.NewGlobalLimiter(analysisRPS, 1),
				Logger:      logger,
			}
		} else {
			logger.Warn("sentiment analysis disabled", "reason", err)
		}
		if reports != nil {
			deps.Reports = sentislog.NewLoggingReportGenerator(reports, logger)
		}
	}

	if cmd == "search" || cmd == "serve" {
		searcher := m.Searcher
		if searcher == nil && cli.ExaKey != "" {
			searcher = sentireadhttp.NewExaSearcher(cli.ExaKey)
		}
		if searcher == nil && cmd == "search" {
			return sentiread.Errorf(sentiread.EINVALID, "EXA_API_KEY not set")
		}
		if searcher != nil {
			deps.Searcher = sentislog.NewLoggingSearcher(searcher, logger)
		}
	}

	if cmd == "serve" {
		if cli.Serve.Username == "" || cli.Serve.Password == "" {
			return sentiread.Errorf(sentiread.EINVALID, "SENTIREAD_USERNAME and SENTIREAD_PASSWORD must be set")
		}
		sessions := gin.NewSessions(cli.Serve.Username, cli.Serve.Password)
		sessions.Secure = cli.Serve.Secure
		srv := gin.NewServer(sessions, logger)
		srv.Content = deps.Content
		srv.Analysis = deps.Analysis
		srv.Searcher = deps.Searcher
		srv.Analytics = deps.Analytics
		srv.Reports = deps.Reports
		srv.Registry = registry
		deps.Server = srv
	}

	return kongCtx.Run(deps)
}

// analysisRPS is the account-wide Gemini request rate.
const analysisRPS = 2.0

// geminiServices returns the sentiment analyzer and report generator. Overrides
// win; otherwise both share one client.
func (m *Main) geminiServices(ctx context.Context, apiKey string) (sentiread.SentimentAnalyzer, sentiread.ReportGenerator, error) {
	if m.Sentiment != nil {
		return m.Sentiment, m.Reports, nil
	}
	if apiKey == "" {
		return nil, nil, sentiread.Errorf(sentiread.EINVALID, "GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return gemini.NewSentimentAnalyzer(client), gemini.NewReportGenerator(client), nil
}

func defaultDBPath() string {
	if path := os.Getenv("SENTIREAD_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "sentiread.db"
	}
	dir := filepath.Join(home, ".sentiread")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "analytics.db")
}
