package crawl

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunChunks calls fn for every index below total in sequential chunks of
// n, each chunk concurrently, sleeping delay between chunks. A non-positive
// delay disables the sleep. Cancellation cuts a sleep short but every
// index is still visited, so callers always get a full set of results.
func RunChunks(ctx context.Context, n, total int, delay time.Duration, fn func(i int)) {
	n = max(n, 1)
	for start := 0; start < total; start += n {
		if start > 0 {
			sleep(ctx, delay)
		}
		end := min(start+n, total)

		var g errgroup.Group
		g.SetLimit(n)
		for i := start; i < end; i++ {
			g.Go(func() error {
				fn(i)
				return nil
			})
		}
		_ = g.Wait()
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// chunkDelay resolves a configured delay: zero means def and a negative
// value disables the delay.
func chunkDelay(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}
	return d
}
