package crawl_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/sentiread/crawl"
	"github.com/stretchr/testify/assert"
)

func TestRunChunks(t *testing.T) {
	t.Parallel()

	t.Run("visits every index with at most n in flight", func(t *testing.T) {
		t.Parallel()

		var (
			mu      sync.Mutex
			seen    []int
			running atomic.Int32
			peak    atomic.Int32
		)
		crawl.RunChunks(context.Background(), 2, 5, -1, func(i int) {
			cur := running.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)

			mu.Lock()
			seen = append(seen, i)
			mu.Unlock()
		})

		assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, seen)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("finishes a chunk before starting the next", func(t *testing.T) {
		t.Parallel()

		var done [4]atomic.Bool
		crawl.RunChunks(context.Background(), 2, 4, time.Millisecond, func(i int) {
			if i >= 2 {
				assert.True(t, done[0].Load() && done[1].Load(), "index %d started early", i)
			}
			done[i].Store(true)
		})
	})

	t.Run("cancellation skips the delay but not the work", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls atomic.Int32
		start := time.Now()
		crawl.RunChunks(ctx, 1, 3, time.Hour, func(int) { calls.Add(1) })

		assert.Equal(t, int32(3), calls.Load())
		assert.Less(t, time.Since(start), time.Minute)
	})

	t.Run("nothing to do", func(t *testing.T) {
		t.Parallel()

		crawl.RunChunks(context.Background(), 3, 0, time.Hour, func(int) { t.Fatal("unexpected call") })
	})
}
