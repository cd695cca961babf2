package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/sentiread"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	filter, err := c.filter()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	urls, err := deps.Discoverer.DiscoverURLs(deps.Ctx, c.Site, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sentiread.ErrorMessage(err))
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintf(deps.Stderr, "No article URLs found for %s\n", c.Site)
		return nil
	}
	for _, u := range urls {
		fmt.Fprintln(deps.Stdout, u)
	}
	return nil
}

// filter compiles the patterns early so a typo fails before any request.
func (c *DiscoverCmd) filter() (*sentiread.URLFilter, error) {
	if len(c.Include) == 0 && len(c.Exclude) == 0 && c.Limit == 0 {
		return nil, nil
	}
	f := &sentiread.URLFilter{Limit: c.Limit}
	for _, p := range c.Include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range c.Exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	hits, err := deps.Searcher.Search(deps.Ctx, sentiread.SearchQuery{
		Query:          strings.Join(c.Query, " "),
		NumResults:     c.NumResults,
		IncludeDomains: c.Domains,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sentiread.ErrorMessage(err))
		return err
	}
	if len(hits) == 0 {
		fmt.Fprintln(deps.Stderr, "No results.")
		return nil
	}
	for _, h := range hits {
		fmt.Fprintf(deps.Stdout, "%.2f  %s\n      %s\n", h.QualityScore, h.Title, h.URL)
	}
	return nil
}
