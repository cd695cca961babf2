package crawl_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastDelays = []time.Duration{time.Millisecond, time.Millisecond}

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("returns on first success", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetch := func(context.Context, string) (string, error) {
			calls.Add(1)
			return "<html></html>", nil
		}

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, fastDelays)

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("retries network errors up to three attempts", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		var logged []string
		fetch := func(context.Context, string) (string, error) {
			calls.Add(1)
			return "", sentiread.Errorf(sentiread.ENETWORK, "connection reset")
		}
		logf := func(format string, _ ...any) { logged = append(logged, format) }

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, logf, fastDelays)

		require.Error(t, err)
		assert.Equal(t, sentiread.ENETWORK, sentiread.ErrorCode(err))
		assert.Equal(t, int32(3), calls.Load())
		assert.Len(t, logged, 2)
	})

	t.Run("succeeds after a transient failure", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetch := func(context.Context, string) (string, error) {
			if calls.Add(1) == 1 {
				return "", sentiread.Errorf(sentiread.ENETWORK, "HTTP 503")
			}
			return "ok", nil
		}

		html, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, fastDelays)

		require.NoError(t, err)
		assert.Equal(t, "ok", html)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("does not retry permanent failures", func(t *testing.T) {
		t.Parallel()

		for _, code := range []string{sentiread.ENOTFOUND, sentiread.EFORBIDDEN, sentiread.EBOTDETECTED, sentiread.EINVALID} {
			t.Run(code, func(t *testing.T) {
				t.Parallel()

				var calls atomic.Int32
				fetch := func(context.Context, string) (string, error) {
					calls.Add(1)
					return "", sentiread.Errorf(code, "nope")
				}

				_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, fastDelays)

				assert.Equal(t, code, sentiread.ErrorCode(err))
				assert.Equal(t, int32(1), calls.Load())
			})
		}
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(context.Context, string) (string, error) {
			cancel()
			return "", sentiread.Errorf(sentiread.ENETWORK, "timeout")
		}

		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com", fetch, nil, []time.Duration{time.Hour, time.Hour})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, sentiread.ENETWORK, sentiread.ErrorCode(err))
	})
}

func TestDefaultRetryDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, crawl.DefaultRetryDelays())
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, crawl.Retryable(sentiread.Errorf(sentiread.ENETWORK, "HTTP 503")))
	assert.False(t, crawl.Retryable(sentiread.Errorf(sentiread.ENOTFOUND, "page not found")))
	assert.False(t, crawl.Retryable(sentiread.Interrupted(ctx, "fetch https://example.com")))
}
