package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/sentiread"
)

// Run executes the analyze command: fetch, extract, then analyze each
// article that was extracted.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	batch, err := deps.Content.ProcessBatch(deps.Ctx, c.URLs, 0)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sentiread.ErrorMessage(err))
		return err
	}

	var reqs []sentiread.SentimentRequest
	for _, res := range batch.Results {
		if res.Status != sentiread.StatusSuccess {
			fmt.Fprintf(deps.Stderr, "skip %s: %s [%s]\n", res.URL, res.Error, res.ErrorType)
			continue
		}
		reqs = append(reqs, sentiread.SentimentRequest{
			URL:     res.URL,
			Content: res.Content,
			Title:   res.Title,
			Author:  res.Author,
		})
	}
	if len(reqs) == 0 {
		return sentiread.Errorf(sentiread.ECONTENT, "no article could be extracted")
	}

	analyses, err := deps.Analysis.AnalyzeBatch(deps.Ctx, reqs, c.Concurrency)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sentiread.ErrorMessage(err))
		return err
	}

	var report *sentiread.Report
	if c.Report {
		if deps.Reports == nil {
			return sentiread.Errorf(sentiread.EINTERNAL, "report generation is not configured")
		}
		if report, err = deps.Reports.GenerateReport(deps.Ctx, analyses.Results); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sentiread.ErrorMessage(err))
			return err
		}
	}

	if c.JSON {
		if report != nil {
			return writeJSON(deps.Stdout, struct {
				*sentiread.AnalysisBatch
				Report *sentiread.Report `json:"report"`
			}{analyses, report})
		}
		return writeJSON(deps.Stdout, analyses)
	}
	for _, r := range analyses.Results {
		if r.Status != sentiread.StatusSuccess {
			fmt.Fprintf(deps.Stdout, "%-8s %s: %s\n", "error", r.URL, r.Error)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%-8s %.2f  %s\n", r.Sentiment.Sentiment, r.Sentiment.Confidence, r.URL)
		if len(r.Sentiment.Themes) > 0 {
			fmt.Fprintf(deps.Stdout, "         themes: %s\n", strings.Join(r.Sentiment.Themes, ", "))
		}
	}
	s := analyses.Stats
	fmt.Fprintf(deps.Stdout, "%d/%d analyzed, %d failed\n", s.Successful, s.Total, s.Failed)
	if report != nil {
		printReport(deps.Stdout, report)
	}
	return nil
}

func printReport(w io.Writer, r *sentiread.Report) {
	d := r.Distribution
	fmt.Fprintf(w, "\nOverall: %s (%.0f%% positive, %.0f%% negative, %.0f%% neutral)\n", r.OverallSentiment, d.Positive, d.Negative, d.Neutral)
	if r.Summary != "" {
		fmt.Fprintf(w, "%s\n", r.Summary)
	}
	if r.WindDirection != "" {
		fmt.Fprintf(w, "Direction: %s\n", r.WindDirection)
	}
	if len(r.CoreThemes) > 0 {
		fmt.Fprintf(w, "Themes: %s\n", strings.Join(r.CoreThemes, ", "))
	}
	for _, insight := range r.KeyInsights {
		fmt.Fprintf(w, "  - %s\n", insight)
	}
}

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	summary, err := deps.Analytics.Summary(deps.Ctx, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sentiread.ErrorMessage(err))
		return err
	}
	if summary.Total == 0 {
		fmt.Fprintln(deps.Stdout, "No analyses recorded yet. Use 'sentiread analyze' to add some.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%d analyses: %s\n", summary.Total, formatCounts(summary.Sentiments))
	printGroups := func(title string, groups []sentiread.GroupStats) {
		if len(groups) == 0 {
			return
		}
		fmt.Fprintf(deps.Stdout, "\n%s:\n", title)
		for _, g := range groups {
			fmt.Fprintf(deps.Stdout, "  %-30s %4d  %s\n", g.Name, g.Total, formatCounts(g.Sentiments))
		}
	}
	printGroups("Top domains", summary.TopDomains)
	printGroups("Top authors", summary.TopAuthors)

	trends, err := deps.Analytics.Trends(deps.Ctx, c.Days)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sentiread.ErrorMessage(err))
		return err
	}
	if len(trends.Trends) > 0 {
		fmt.Fprintf(deps.Stdout, "\nLast %d days:\n", trends.Days)
		for _, d := range trends.Trends {
			fmt.Fprintf(deps.Stdout, "  %s %4d  %s  %+.2f\n", d.Date, d.Total, formatCounts(d.Sentiments), d.Score)
		}
	}

	themes, err := deps.Analytics.Themes(deps.Ctx, c.Themes)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sentiread.ErrorMessage(err))
		return err
	}
	if len(themes.Themes) > 0 {
		fmt.Fprintf(deps.Stdout, "\nTop themes (%d distinct):\n", themes.TotalThemes)
		for _, th := range themes.Themes {
			fmt.Fprintf(deps.Stdout, "  %-30s %4d  %-8s %5.1f%%\n", th.Theme, th.Frequency, th.Category, th.Percentage)
		}
	}
	return nil
}

func formatCounts(c sentiread.SentimentCounts) string {
	return fmt.Sprintf("+%d -%d =%d", c.Positive, c.Negative, c.Neutral)
}
