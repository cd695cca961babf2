// Package http implements page fetching, sitemap discovery and the Exa
// search client over net/http.
package http

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/fwojciec/sentiread"
)

// Fetcher defaults.
const (
	DefaultFetchTimeout   = 20 * time.Second
	DefaultMaxBodySize    = 10 << 20
	DefaultMaxHeaderBytes = 80 << 10
	DefaultMaxRedirects   = 10
)

// UserAgents is the pool a User-Agent is drawn from for each request.
var UserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// browserHeaders are sent with every request.
var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Accept-Encoding":           "gzip, deflate, br",
	"Cache-Control":             "no-cache",
	"Pragma":                    "no-cache",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Ch-Ua":                 `"Not_A Brand";v="8", "Chromium";v="120", "Google Chrome";v="120"`,
	"Sec-Ch-Ua-Mobile":          "?0",
	"Sec-Ch-Ua-Platform":        `"macOS"`,
}

// referers maps hostname substrings of finance portals to the landing page
// a reader would plausibly arrive from.
var referers = []struct {
	host    string
	referer string
}{
	{"yahoo.com", "https://finance.yahoo.com/"},
	{"moneycontrol.com", "https://www.moneycontrol.com/"},
	{"zeebiz.com", "https://www.zeebiz.com/"},
	{"marketwatch.com", "https://www.marketwatch.com/"},
}

// RefererFor returns the Referer sent for rawURL, or "".
func RefererFor(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	for _, r := range referers {
		if strings.Contains(host, r.host) {
			return r.referer
		}
	}
	return ""
}

// Ensure Fetcher implements sentiread.Fetcher at compile time.
var _ sentiread.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML over plain HTTP with a browser-like fingerprint.
// It makes a single attempt; retries belong to the caller. JavaScript is
// not executed.
type Fetcher struct {
	client         *http.Client
	timeout        time.Duration
	maxBodySize    int64
	maxHeaderBytes int64
	maxRedirects   int
	userAgents     []string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout. Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize sets how many decoded bytes are read. Longer bodies are
// truncated.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithMaxHeaderBytes sets the response header limit. Exceeding it is
// reported as bot detection.
func WithMaxHeaderBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxHeaderBytes = n
	}
}

// WithMaxRedirects sets how many redirects are followed.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.maxRedirects = n
	}
}

// WithUserAgents replaces the User-Agent pool.
func WithUserAgents(uas ...string) Option {
	return func(f *Fetcher) {
		f.userAgents = uas
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:        DefaultFetchTimeout,
		maxBodySize:    DefaultMaxBodySize,
		maxHeaderBytes: DefaultMaxHeaderBytes,
		maxRedirects:   DefaultMaxRedirects,
		userAgents:     UserAgents,
	}
	for _, opt := range opts {
		opt(f)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxResponseHeaderBytes = f.maxHeaderBytes
	transport.DisableCompression = true

	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: transport,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= f.maxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}
	return f
}

var errTooManyRedirects = errors.New("too many redirects")

// Fetch retrieves the HTML at rawURL.
//
// 404 and 403 responses fail with ENOTFOUND and EFORBIDDEN. Other 4xx
// bodies are returned as content. 5xx responses and transport failures
// fail with ENETWORK. Oversized or malformed response headers, the usual
// symptom of an anti-bot wall, fail with EBOTDETECTED.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", sentiread.Errorf(sentiread.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("User-Agent", f.userAgents[rand.IntN(len(f.userAgents))])
	if ref := RefererFor(rawURL); ref != "" {
		req.Header.Set("Referer", ref)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", f.classify(ctx, req.URL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", sentiread.Errorf(sentiread.ENOTFOUND, "page not found: %s", rawURL)
	case resp.StatusCode == http.StatusForbidden:
		return "", sentiread.Errorf(sentiread.EFORBIDDEN, "access forbidden: %s", rawURL)
	case resp.StatusCode >= 500:
		return "", sentiread.Errorf(sentiread.ENETWORK, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := decode(resp)
	if err != nil {
		return "", sentiread.Errorf(sentiread.ENETWORK, "decode %s: %v", rawURL, err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, f.maxBodySize))
	if err != nil {
		if err := sentiread.Interrupted(ctx, "read "+rawURL); err != nil {
			return "", err
		}
		return "", sentiread.Errorf(sentiread.ENETWORK, "read %s: %v", rawURL, err)
	}
	return string(data), nil
}

func (f *Fetcher) classify(ctx context.Context, u *url.URL, err error) error {
	if err := sentiread.Interrupted(ctx, "fetch "+u.String()); err != nil {
		return err
	}
	if errors.Is(err, errTooManyRedirects) {
		return sentiread.Errorf(sentiread.EINVALID, "stopped after %d redirects: %s", f.maxRedirects, u)
	}
	if IsBotBlock(err) {
		return sentiread.Errorf(sentiread.EBOTDETECTED, "site %s is blocking automated access using anti-bot protection", u.Hostname())
	}
	return sentiread.Errorf(sentiread.ENETWORK, "fetch %s: %v", u, err)
}

// IsBotBlock reports whether err is a header overflow or a malformed
// response. net/http exposes neither as a typed error.
func IsBotBlock(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "server response headers exceeded") ||
		strings.Contains(msg, "malformed HTTP") ||
		strings.Contains(msg, "malformed MIME header")
}

// decode wraps the response body according to its Content-Encoding.
func decode(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	case "gzip", "x-gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	case "deflate":
		// Servers disagree on whether deflate means zlib-wrapped or raw.
		br := bufio.NewReader(resp.Body)
		if head, err := br.Peek(2); err == nil && isZlibHeader(head) {
			return zlib.NewReader(br)
		}
		return flate.NewReader(br), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}

func isZlibHeader(b []byte) bool {
	return b[0]&0x0f == 8 && (uint16(b[0])<<8|uint16(b[1]))%31 == 0
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
