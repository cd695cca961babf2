package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/bloom"
)

// Ensure SitemapService implements sentiread.SitemapService.
var _ sentiread.SitemapService = (*SitemapService)(nil)

// fallbackSitemaps are probed in order when robots.txt declares none.
var fallbackSitemaps = []string{"/sitemap.xml", "/news-sitemap.xml", "/sitemap_news.xml"}

// maxSitemapSize caps how much of one sitemap document is read.
const maxSitemapSize = 50 << 20

// SitemapService discovers article URLs from publisher sitemaps via HTTP.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs finds article URLs in a site's sitemaps, in sitemap order.
// Returns an empty slice (not nil) if no sitemaps are found.
//
// When siteURL has a non-root path (e.g., https://example.com/markets/),
// only URLs under that path are returned.
func (s *SitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *sentiread.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(siteURL)
	if err != nil || base.Host == "" {
		return nil, sentiread.Errorf(sentiread.EINVALID, "invalid site URL %q", siteURL)
	}

	pathPrefix := base.Path
	if pathPrefix == "/" {
		pathPrefix = ""
	}
	root := *base
	root.Path, root.RawQuery, root.Fragment = "", "", ""

	sitemapURLs, err := s.findSitemapURLs(ctx, &root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{
		svc:        s,
		visited:    make(map[string]bool),
		seen:       bloom.NewSeen(bloom.DefaultCapacity, bloom.DefaultFPRate),
		pathPrefix: pathPrefix,
		filter:     filter,
		urls:       []string{},
	}
	for _, sm := range sitemapURLs {
		if w.full() {
			break
		}
		if err := w.process(ctx, sm); err != nil {
			return nil, err
		}
	}
	return w.urls, nil
}

// sitemapWalk accumulates URLs across a tree of sitemaps.
type sitemapWalk struct {
	svc        *SitemapService
	visited    map[string]bool
	seen       *bloom.Seen
	pathPrefix string
	filter     *sentiread.URLFilter
	urls       []string
}

func (w *sitemapWalk) full() bool {
	return w.filter != nil && w.filter.Limit > 0 && len(w.urls) >= w.filter.Limit
}

func (w *sitemapWalk) add(u string) {
	if w.full() {
		return
	}
	if w.pathPrefix != "" && !matchesPathPrefix(u, w.pathPrefix) {
		return
	}
	if !w.filter.Match(u) {
		return
	}
	if w.seen.First(u) {
		w.urls = append(w.urls, u)
	}
}

// process fetches one sitemap and follows it if it is an index.
func (w *sitemapWalk) process(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] {
		return nil
	}
	w.visited[sitemapURL] = true

	// A broken sitemap is skipped; publishers routinely list dead ones.
	root, err := w.svc.fetchSitemap(ctx, sitemapURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	}

	// Sitemap indexes nest sitemaps; urlsets, including Google News
	// sitemaps, list pages.
	if root.Tag == "sitemapindex" {
		for _, loc := range locs(root, "sitemap") {
			if w.full() {
				return nil
			}
			if err := w.process(ctx, loc); err != nil {
				return err
			}
		}
		return nil
	}
	for _, loc := range locs(root, "url") {
		w.add(loc)
	}
	return nil
}

// locs returns the <loc> text of each child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// matchesPathPrefix checks if a URL's path starts with prefix, respecting
// path boundaries: /markets matches /markets/ and /markets/stocks but not
// /marketsnow.
func matchesPathPrefix(rawURL, prefix string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(parsed.Path, prefix)
}

// findSitemapURLs reads Sitemap: directives from robots.txt, falling back to
// the first well-known sitemap location that parses.
func (s *SitemapService) findSitemapURLs(ctx context.Context, root *url.URL) ([]string, error) {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := s.parseSitemapsFromRobots(ctx, robotsURL.String())
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	for _, path := range fallbackSitemaps {
		candidate := root.ResolveReference(&url.URL{Path: path}).String()
		if _, err := s.fetchSitemap(ctx, candidate); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		return []string{candidate}, nil
	}
	return nil, nil
}

// parseSitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (s *SitemapService) parseSitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.fetchURL(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) > len("sitemap:") && strings.EqualFold(line[:len("sitemap:")], "sitemap:") {
			if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
				sitemaps = append(sitemaps, u)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

// fetchSitemap fetches and parses one sitemap document.
func (s *SitemapService) fetchSitemap(ctx context.Context, sitemapURL string) (*etree.Element, error) {
	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(io.LimitReader(body, maxSitemapSize)); err != nil {
		return nil, sentiread.Errorf(sentiread.EPARSING, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, sentiread.Errorf(sentiread.EPARSING, "empty sitemap %s", sitemapURL)
	}
	return root, nil
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgents[0])

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, sentiread.Errorf(sentiread.ENETWORK, "fetch %s: %v", targetURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, sentiread.Errorf(sentiread.ENOTFOUND, "HTTP 404 for %s", targetURL)
		}
		return nil, sentiread.Errorf(sentiread.ENETWORK, "HTTP %d for %s", resp.StatusCode, targetURL)
	}
	return resp.Body, nil
}
