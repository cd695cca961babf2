package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/crawl"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	if len(c.URLs) == 1 {
		res := deps.Content.FetchAndExtract(deps.Ctx, c.URLs[0])
		if c.JSON {
			return writeJSON(deps.Stdout, res)
		}
		if res.Status != sentiread.StatusSuccess {
			fmt.Fprintf(deps.Stderr, "error: %s [%s]\n", res.Error, res.ErrorType)
			return sentiread.Errorf(res.ErrorType, "%s", res.Error)
		}
		printArticle(deps.Stdout, res)
		return nil
	}

	batch, err := deps.Content.ProcessBatch(deps.Ctx, c.URLs, c.Concurrency)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sentiread.ErrorMessage(err))
		return err
	}
	if c.JSON {
		return writeJSON(deps.Stdout, batch)
	}
	for _, res := range batch.Results {
		printSummaryLine(deps.Stdout, res)
	}
	fmt.Fprintln(deps.Stdout, crawl.FormatStats(batch.Stats))
	return nil
}

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	html, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	res := deps.NewExtractor(string(html)).FetchAndExtract(deps.Ctx, c.URL)
	if c.JSON {
		return writeJSON(deps.Stdout, res)
	}
	if res.Status != sentiread.StatusSuccess {
		fmt.Fprintf(deps.Stderr, "error: %s [%s]\n", res.Error, res.ErrorType)
		return sentiread.Errorf(res.ErrorType, "%s", res.Error)
	}
	printArticle(deps.Stdout, res)
	return nil
}

// Run executes the extractors command.
func (c *ExtractorsCmd) Run(deps *Dependencies) error {
	infos := deps.Registry.ExtractorInfo()
	fmt.Fprintf(deps.Stdout, "%d site extractors (generic extraction handles everything else):\n\n", len(infos))
	for _, info := range infos {
		fmt.Fprintf(deps.Stdout, "  %-16s %s\n", info.Name, strings.Join(info.Domains, ", "))
	}
	return nil
}

func printArticle(w io.Writer, res sentiread.FetchResult) {
	if res.Title != "" {
		fmt.Fprintln(w, res.Title)
	}
	if res.Author != "" {
		fmt.Fprintf(w, "By %s\n", res.Author)
	}
	meta := res.Method
	if res.Cached {
		meta += ", cached " + crawl.FormatAge(res.CacheAge)
	}
	fmt.Fprintf(w, "[%s, %s]\n\n", meta, crawl.FormatBytes(len(res.Content)))
	fmt.Fprintln(w, res.Content)
}

func printSummaryLine(w io.Writer, res sentiread.FetchResult) {
	url := crawl.TruncateURL(res.URL, 60)
	if res.Status != sentiread.StatusSuccess {
		fmt.Fprintf(w, "  fail %s: %s [%s]\n", url, res.Error, res.ErrorType)
		return
	}
	fmt.Fprintf(w, "  ok   %s (%s, %s)\n", url, res.Method, crawl.FormatBytes(len(res.Content)))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
