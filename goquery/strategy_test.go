package goquery_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sentiread/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLDStrategy(t *testing.T) {
	t.Parallel()

	long := "Electric vehicle registrations doubled year on year in the quarter, driven by cheaper two-wheelers and new state subsidies."
	ld := func(item string) string {
		return `<script type="application/ld+json">` + item + `</script>`
	}

	t.Run("restricts accepted types", func(t *testing.T) {
		t.Parallel()

		html := ld(`{"@type":"Article","articleBody":"` + long + `"}`)

		got, err := goquery.JSONLDStrategy{Types: []string{"NewsArticle"}}.Extract(context.Background(), html, "")

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("falls back to description unless body only", func(t *testing.T) {
		t.Parallel()

		html := ld(`{"@type":"NewsArticle","description":"` + long + `"}`)

		got, err := goquery.JSONLDStrategy{}.Extract(context.Background(), html, "")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, long, got.Content)

		got, err = goquery.JSONLDStrategy{BodyOnly: true}.Extract(context.Background(), html, "")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("strips markup from HTML bodies", func(t *testing.T) {
		t.Parallel()

		html := ld(`{"@type":"NewsArticle","articleBody":"<p>` + long + `</p>"}`)

		got, err := goquery.JSONLDStrategy{}.Extract(context.Background(), html, "")

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, long, got.Content)
	})

	t.Run("keeps comparison signs in plain bodies", func(t *testing.T) {
		t.Parallel()

		body := long + " Margins stayed at 5 < 6 percent for the period."
		html := ld(`{"@type":"NewsArticle","articleBody":"` + body + `"}`)

		got, err := goquery.JSONLDStrategy{}.Extract(context.Background(), html, "")

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, body, got.Content)
	})

	t.Run("skips items that fail validation", func(t *testing.T) {
		t.Parallel()

		html := ld(`{"@type":"NewsArticle","articleBody":"short"}`) + ld(`{"@type":"NewsArticle","headline":"Second","articleBody":"`+long+`","articleSection":"Auto"}`)

		got, err := goquery.JSONLDStrategy{}.Extract(context.Background(), html, "")

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Second", got.Title)
		assert.Equal(t, "Auto", got.Metadata["category"])
		assert.Equal(t, true, got.Metadata["structuredData"])
	})
}

func TestSelectorStrategy(t *testing.T) {
	t.Parallel()

	t.Run("uses element text when a candidate has no paragraphs", func(t *testing.T) {
		t.Parallel()

		text := "The regulator issued fresh guidelines on Friday covering disclosure norms for listed companies and their promoters."
		doc, err := gq.NewDocumentFromReader(strings.NewReader(`<div class="summary">` + text + `</div>`))
		require.NoError(t, err)

		got := goquery.SelectorStrategy{Candidates: []string{".missing", ".summary"}}.ExtractDocument(doc)

		require.NotNil(t, got)
		assert.Equal(t, text, got.Content)
		assert.Equal(t, ".summary", got.Metadata["selector"])
	})

	t.Run("removes noise before evaluating candidates", func(t *testing.T) {
		t.Parallel()

		html := `<div class="body"><div class="ad"><p>Sponsored paragraph promoting a credit card with zero annual fee forever.</p></div>
<p>` + para1 + `</p><p>` + para2 + `</p></div>`

		got, err := goquery.SelectorStrategy{Noise: []string{".ad"}, Candidates: []string{".body"}}.Extract(context.Background(), html, "")

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, para1+"\n\n"+para2, got.Content)
	})
}

func TestRegexStrategy(t *testing.T) {
	t.Parallel()

	html := `<div class="sidebar"><p>Sidebar paragraph about an unrelated topic entirely.</p></div>
<div class="article_body"><p>` + para1 + `</p><p>Advertisement: buy one get one free at every store today</p><p>` + para2 + `</p></div>`

	got, err := goquery.RegexStrategy{
		Containers: []*regexp.Regexp{goquery.ContainerPattern("article_body")},
		Exclude:    []string{"advertisement"},
	}.Extract(context.Background(), html, "")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, para1+"\n\n"+para2, got.Content)
	assert.Equal(t, goquery.MethodRegex, got.Metadata["extractionMethod"])
}

func TestDiscoverAMPURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"rel before href", `<link rel="amphtml" href="https://example.com/amp/a">`, "https://example.com/amp/a"},
		{"href before rel", `<link href="/amp/a" rel="amphtml">`, "https://example.com/amp/a"},
		{"relative path", `<link rel='amphtml' href='amp'>`, "https://example.com/news/amp"},
		{"missing", `<link rel="canonical" href="/news/a">`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, goquery.DiscoverAMPURL(tt.html, "https://example.com/news/a"))
		})
	}
}
