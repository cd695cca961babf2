package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/mock"
	sentislog "github.com/fwojciec/sentiread/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	filter := &sentiread.URLFilter{Limit: 2}
	inner := &mock.SitemapService{
		DiscoverURLsFn: func(_ context.Context, _ string, f *sentiread.URLFilter) ([]string, error) {
			assert.Same(t, filter, f)
			return []string{"https://example.com/a", "https://example.com/b"}, nil
		},
	}

	urls, err := sentislog.NewLoggingSitemapService(inner, logger).DiscoverURLs(context.Background(), "https://example.com", filter)

	require.NoError(t, err)
	assert.Len(t, urls, 2)
	output := buf.String()
	assert.Contains(t, output, `msg="sitemap discovery"`)
	assert.Contains(t, output, "url=https://example.com")
	assert.Contains(t, output, "count=2")
}
