package mock

import "github.com/fwojciec/sentiread"

var _ sentiread.Cache = (*Cache)(nil)

// Cache is a mock implementation of sentiread.Cache.
type Cache struct {
	GetFn          func(url string) (*sentiread.CacheEntry, bool)
	PutFn          func(url string, page sentiread.CachedPage) (*sentiread.CacheEntry, *bool)
	MaybeCleanupFn func() bool
	StatsFn        func() sentiread.CacheStats
}

func (c *Cache) Get(url string) (*sentiread.CacheEntry, bool) {
	return c.GetFn(url)
}

func (c *Cache) Put(url string, page sentiread.CachedPage) (*sentiread.CacheEntry, *bool) {
	return c.PutFn(url, page)
}

func (c *Cache) MaybeCleanup() bool {
	return c.MaybeCleanupFn()
}

func (c *Cache) Stats() sentiread.CacheStats {
	return c.StatsFn()
}
