package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/sentiread"
	"golang.org/x/time/rate"
)

var (
	_ sentiread.DomainLimiter = (*DomainLimiter)(nil)
	_ sentiread.DomainLimiter = (*GlobalLimiter)(nil)
)

// DomainLimiter provides per-domain rate limiting using token buckets.
// Requests to different publishers proceed concurrently while requests to
// one publisher are spaced out. www.example.com and example.com share a
// bucket.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a new DomainLimiter with the specified requests per second limit.
// Each domain gets its own limiter with a burst of 1 (no bursting allowed).
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	key := strings.TrimPrefix(strings.ToLower(domain), "www.")

	d.mu.Lock()
	limiter, ok := d.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[key] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// GlobalLimiter spaces out all requests regardless of domain. It guards
// APIs with an account-wide quota, such as the sentiment model.
type GlobalLimiter struct {
	limiter *rate.Limiter
}

// NewGlobalLimiter creates a limiter allowing rps requests per second with
// the given burst.
func NewGlobalLimiter(rps float64, burst int) *GlobalLimiter {
	return &GlobalLimiter{limiter: rate.NewLimiter(rate.Limit(rps), max(burst, 1))}
}

// Wait blocks until the shared bucket has a token. The domain is ignored.
func (g *GlobalLimiter) Wait(ctx context.Context, _ string) error {
	return g.limiter.Wait(ctx)
}

// Host returns the lowercased hostname of rawURL, or "" when it has none.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
