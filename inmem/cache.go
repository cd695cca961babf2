// Package inmem provides the in-memory page cache.
package inmem

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sentiread"
)

var _ sentiread.Cache = (*Cache)(nil)

// Cache defaults.
const (
	DefaultMaxEntries      = 2500
	DefaultSurplus         = 250
	DefaultCleanupInterval = 30 * time.Minute
)

// hashSample is how many leading characters feed the content hash.
const hashSample = 1024

// Option configures a Cache.
type Option func(*Cache)

// WithMaxEntries sets the size above which entries are evicted and how far
// below it eviction goes.
func WithMaxEntries(maxEntries, surplus int) Option {
	return func(c *Cache) {
		c.maxEntries = maxEntries
		c.surplus = surplus
	}
}

// WithCleanupInterval sets the minimum time between cleanups.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Cache) {
		c.cleanupInterval = d
	}
}

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithTTL replaces the domain-based TTL policy.
func WithTTL(ttl func(url string) time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// Cache is a bounded, TTL-aware page cache keyed by the raw URL string.
// Entries past their TTL are misses but stay resident until cleanup.
// When the cache grows past its bound the least recently accessed entries
// are evicted. It is safe for concurrent use.
type Cache struct {
	mu          sync.Mutex
	entries     map[string]*entry
	seq         uint64
	hits        int
	misses      int
	lastCleanup time.Time

	maxEntries      int
	surplus         int
	cleanupInterval time.Duration
	now             func() time.Time
	ttl             func(url string) time.Duration
}

type entry struct {
	sentiread.CacheEntry
	seq uint64
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		entries:         make(map[string]*entry),
		maxEntries:      DefaultMaxEntries,
		surplus:         DefaultSurplus,
		cleanupInterval: DefaultCleanupInterval,
		now:             time.Now,
		ttl:             DomainTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lastCleanup = c.now()
	return c
}

// Get returns a copy of the valid entry for rawURL and records the hit.
func (c *Cache) Get(rawURL string) (*sentiread.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e, ok := c.entries[rawURL]
	if !ok || !e.Valid(now) {
		c.misses++
		return nil, false
	}
	c.seq++
	e.seq = c.seq
	e.LastAccessed = now
	e.HitCount++
	c.hits++

	cp := e.CacheEntry
	return &cp, true
}

// Put stores a freshly fetched page. The returned changed flag is nil for
// a URL not previously cached and otherwise reports whether the content
// hash differs from the previous entry.
func (c *Cache) Put(rawURL string, page sentiread.CachedPage) (*sentiread.CacheEntry, *bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	hash := ContentHash(page.Content)
	c.seq++

	e := &entry{
		CacheEntry: sentiread.CacheEntry{
			URL:          rawURL,
			Content:      page.Content,
			Title:        page.Title,
			Author:       page.Author,
			ContentHash:  hash,
			Timestamp:    now,
			LastAccessed: now,
			TTL:          c.ttl(rawURL),
			FetchCount:   1,
		},
		seq: c.seq,
	}

	var changed *bool
	if prev, ok := c.entries[rawURL]; ok {
		diff := prev.ContentHash != hash
		changed = &diff
		e.HitCount = prev.HitCount
		e.FetchCount = prev.FetchCount + 1
	}
	c.entries[rawURL] = e
	c.evict()

	cp := e.CacheEntry
	return &cp, changed
}

// MaybeCleanup removes expired entries and enforces the size bound, at
// most once per cleanup interval. It reports whether a cleanup ran.
func (c *Cache) MaybeCleanup() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastCleanup) < c.cleanupInterval {
		return false
	}
	c.lastCleanup = now
	for k, e := range c.entries {
		if !e.Valid(now) {
			delete(c.entries, k)
		}
	}
	c.evict()
	return true
}

// Stats returns the cache size and hit counters.
func (c *Cache) Stats() sentiread.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sentiread.CacheStats{Size: len(c.entries), Hits: c.hits, Misses: c.misses}
}

// evict drops the least recently accessed entries once the cache exceeds
// maxEntries, leaving maxEntries-surplus. Callers hold mu.
func (c *Cache) evict() {
	if len(c.entries) <= c.maxEntries {
		return
	}
	all := make([]*entry, 0, len(c.entries))
	for _, e := range c.entries {
		all = append(all, e)
	}
	slices.SortFunc(all, func(a, b *entry) int {
		if n := a.LastAccessed.Compare(b.LastAccessed); n != 0 {
			return n
		}
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	keep := max(c.maxEntries-c.surplus, 0)
	for _, e := range all[:len(all)-keep] {
		delete(c.entries, e.URL)
	}
}

// ContentHash fingerprints content from its first 1024 characters and its
// total length. It is a change detector, not an integrity check.
func ContentHash(content string) string {
	sample := content
	n := 0
	for i := range content {
		if n == hashSample {
			sample = content[:i]
			break
		}
		n++
	}
	d := xxhash.New()
	_, _ = d.WriteString(sample)
	_, _ = d.WriteString(strconv.Itoa(utf8.RuneCountInString(content)))
	return strconv.FormatUint(d.Sum64(), 16)
}

// TTLs by domain class.
const (
	NewsTTL    = 2 * time.Hour
	FinanceTTL = time.Hour
	SocialTTL  = 30 * time.Minute
	BlogTTL    = 12 * time.Hour
	DefaultTTL = 6 * time.Hour
)

var domainClasses = []struct {
	ttl   time.Duration
	hosts []string
}{
	{NewsTTL, []string{"news.", "cnn.com", "bbc.com", "reuters.com", "bloomberg.com", "cnbc.com", "ap.com", "nbc.com", "cbs.com", "abc.com"}},
	{FinanceTTL, []string{"finance.yahoo.com", "marketwatch.com", "fool.com", "seeking", "morningstar.com", "barrons.com", "wsj.com"}},
	{SocialTTL, []string{"twitter.com", "x.com", "facebook.com", "linkedin.com", "reddit.com", "medium.com"}},
	{BlogTTL, []string{"wordpress.com", "blogspot.com", "substack.com", "ghost."}},
}

// DomainTTL returns the freshness window for rawURL. Classes are matched
// by hostname substring in the order news, finance, social, blog.
func DomainTTL(rawURL string) time.Duration {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DefaultTTL
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return DefaultTTL
	}
	for _, class := range domainClasses {
		for _, h := range class.hosts {
			if strings.Contains(host, h) {
				return class.ttl
			}
		}
	}
	return DefaultTTL
}
