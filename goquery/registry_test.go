package goquery_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/goquery"
	"github.com/fwojciec/sentiread/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newExtractor returns a mock extractor claiming domains whose Extract
// reports its own name as content.
func newExtractor(name string, domains ...string) *mock.Extractor {
	return &mock.Extractor{
		NameFn:    func() string { return name },
		DomainsFn: func() []string { return domains },
		CanHandleFn: func(url string) bool {
			return goquery.MatchDomain(url, domains)
		},
		ExtractFn: func(context.Context, string, string) *sentiread.ExtractionResult {
			return &sentiread.ExtractionResult{Content: name}
		},
	}
}

func TestRegistry_FindExtractor(t *testing.T) {
	t.Parallel()

	a := newExtractor("A", "a.com")
	b := newExtractor("B", "b.com")
	r := goquery.NewRegistry(a, b)

	t.Run("matches by hostname", func(t *testing.T) {
		t.Parallel()

		got := r.FindExtractor("https://www.a.com/story")
		require.NotNil(t, got)
		assert.Equal(t, "A", got.Name())

		got = r.FindExtractor("https://news.b.com/x")
		require.NotNil(t, got)
		assert.Equal(t, "B", got.Name())
	})

	t.Run("returns nil for unclaimed hosts", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, r.FindExtractor("https://c.com/a.com"))
		assert.Nil(t, r.ExtractContent(context.Background(), "<p>x</p>", "https://c.com/"))
	})

	t.Run("first registered extractor wins", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewRegistry(newExtractor("broad", "example.com"), newExtractor("narrow", "news.example.com"))

		got := r.FindExtractor("https://news.example.com/a")

		require.NotNil(t, got)
		assert.Equal(t, "broad", got.Name())
	})
}

func TestRegistry_ExtractContent(t *testing.T) {
	t.Parallel()

	r := goquery.NewRegistry(newExtractor("A", "a.com"), newExtractor("B", "b.com"))

	got := r.ExtractContent(context.Background(), "<p>x</p>", "https://b.com/x")

	require.NotNil(t, got)
	assert.Equal(t, "B", got.Content)
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("panics on invalid extractors", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { goquery.NewRegistry().Register(nil) })
		assert.Panics(t, func() { goquery.NewRegistry().Register(newExtractor("", "a.com")) })
		assert.Panics(t, func() { goquery.NewRegistry().Register(newExtractor("A")) })
		assert.Panics(t, func() { goquery.NewRegistry(newExtractor("A", "a.com"), newExtractor("A", "b.com")) })
	})

	t.Run("reports extractors in registration order", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewRegistry()
		r.Register(newExtractor("Z", "z.com", "zz.com"))
		r.Register(newExtractor("A", "a.com", "z.com"))

		assert.Equal(t, []sentiread.ExtractorInfo{
			{Name: "Z", Domains: []string{"z.com", "zz.com"}},
			{Name: "A", Domains: []string{"a.com", "z.com"}},
		}, r.ExtractorInfo())
		assert.Equal(t, []string{"a.com", "z.com", "zz.com"}, r.SupportedDomains())
	})

	t.Run("registers the site extractors", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewRegistry(
			goquery.NewMoneyControlExtractor(),
			goquery.NewZeeBizExtractor(),
			goquery.NewHindustanTimesExtractor(),
		)

		got := r.FindExtractor("https://www.zeebiz.com/markets/x")

		require.NotNil(t, got)
		assert.Equal(t, "ZeeBizExtractor", got.Name())
	})
}
