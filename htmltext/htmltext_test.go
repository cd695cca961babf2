package htmltext_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/sentiread/htmltext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanHTMLContent(t *testing.T) {
	t.Parallel()

	t.Run("strips tags and entities and collapses whitespace", func(t *testing.T) {
		t.Parallel()
		got := htmltext.CleanHTMLContent("<p>Hello&nbsp;<b>world</b></p>\n\n   again &#8217; done")
		assert.Equal(t, "Hello world again done", got)
	})

	t.Run("leaves ampersands that are not entities", func(t *testing.T) {
		t.Parallel()
		got := htmltext.CleanHTMLContent("AT&T reported; shares rose")
		assert.Equal(t, "AT&T reported; shares rose", got)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, htmltext.CleanHTMLContent(""))
	})
}

func TestValidateContent(t *testing.T) {
	t.Parallel()

	t.Run("99 characters fail", func(t *testing.T) {
		t.Parallel()
		assert.False(t, htmltext.ValidateContent(strings.Repeat("a", 99)))
	})

	t.Run("100 characters pass", func(t *testing.T) {
		t.Parallel()
		assert.True(t, htmltext.ValidateContent(strings.Repeat("a", 100)))
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		t.Parallel()
		assert.False(t, htmltext.ValidateContent(strings.Repeat("é", 99)))
		assert.True(t, htmltext.ValidateContent(strings.Repeat("é", 100)))
	})

	t.Run("rejects noise signatures", func(t *testing.T) {
		t.Parallel()
		pad := strings.Repeat(" filler text", 20)
		for _, prefix := range []string{
			"Page not found",
			"404 - the page is gone",
			"Access Denied",
			"Search results for tesla",
			"Home About Contact",
			"Privacy Terms",
		} {
			assert.False(t, htmltext.ValidateContent(prefix+pad), prefix)
		}
	})

	t.Run("accepts article text", func(t *testing.T) {
		t.Parallel()
		text := "Shares of the carmaker rose sharply on Monday after the company reported record quarterly deliveries, beating analyst estimates."
		assert.True(t, htmltext.ValidateContent(text))
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"", "short", strings.Repeat("x", 150), "Error" + strings.Repeat(" y", 100)} {
			assert.Equal(t, htmltext.ValidateContent(s), htmltext.ValidateContent(s))
		}
	})
}

func TestParagraphs(t *testing.T) {
	t.Parallel()

	html := `<div><p class="lead">First <a href="#">linked</a> paragraph.</p><pre>code</pre><p></p>
<P>Second
paragraph.</P><param name="x"></div>`

	got := htmltext.Paragraphs(html)

	assert.Equal(t, []string{"First linked paragraph.", "Second paragraph."}, got)
}

func TestMeaningful(t *testing.T) {
	t.Parallel()

	long := "The committee approved the proposal after a lengthy debate."

	assert.True(t, htmltext.Meaningful(long, 30))
	assert.False(t, htmltext.Meaningful("Too short to count.", 30))
	assert.False(t, htmltext.Meaningful("Share this article with your friends on every network", 30))
	assert.False(t, htmltext.Meaningful("Read more about the committee approval process here", 30))
	assert.False(t, htmltext.Meaningful("Follow us on Facebook for the latest committee updates", 30, "facebook"))
}

func TestStripElements(t *testing.T) {
	t.Parallel()

	html := `<header><p>Site header paragraph</p></header><script>var x = "<p>";</script><p>Body</p><nav>menu</nav>`

	got := htmltext.StripElements(html, "script", "header", "nav")

	assert.Equal(t, "<p>Body</p>", got)
}

func TestStripTitleSuffix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Sensex climbs 500 points", htmltext.StripTitleSuffix("Sensex climbs 500 points | Moneycontrol", "| Moneycontrol", "- Moneycontrol"))
	assert.Equal(t, "Sensex climbs", htmltext.StripTitleSuffix("Sensex climbs - moneycontrol", "| Moneycontrol", "- Moneycontrol"))
	assert.Equal(t, "Plain title", htmltext.StripTitleSuffix("  Plain   title ", "| Moneycontrol"))
	assert.Equal(t, "Title", htmltext.StripTitleSuffix("Title", "A much longer suffix"))
}

func TestStripTitleSuffix_CaseFoldingChangesLength(t *testing.T) {
	t.Parallel()

	// The Kelvin sign is three bytes but lowercases to a one byte "k".
	got := htmltext.StripTitleSuffix("Shares rise | \u212Aotak News", "| Kotak News")
	assert.Equal(t, "Shares rise", got)
	assert.True(t, utf8.ValidString(got))

	got = htmltext.StripTitleSuffix("\u212A-pop stars tour India | Moneycontrol", "| Moneycontrol")
	assert.Equal(t, "\u212A-pop stars tour India", got)
	assert.True(t, utf8.ValidString(got))
}

func TestCleanAuthor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Jane Doe", htmltext.CleanAuthor("By: Jane Doe"))
	assert.Equal(t, "Jane Doe", htmltext.CleanAuthor("written by Jane <b>Doe</b>"))
	assert.Equal(t, "Byron Smith", htmltext.CleanAuthor("Byron Smith"))
	assert.Empty(t, htmltext.CleanAuthor("By Al"))
	assert.Empty(t, htmltext.CleanAuthor(strings.Repeat("x", 120)))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "héllo", htmltext.Truncate("héllo world", 5))
	assert.Equal(t, "short", htmltext.Truncate("short", 10))
	assert.Empty(t, htmltext.Truncate("anything", 0))
}

func TestNormalizeDateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"2023-06-01G14:30:00 +0530", "2023-06-01T14:30:00+05:30"},
		{"2024-01-15 10:00:00 IST", "2024-01-15 10:00:00+05:30"},
		{"2024-01-15T10:00:00 GMT", "2024-01-15T10:00:00+00:00"},
		{"2024-01-15T10:00:00 est", "2024-01-15T10:00:00-05:00"},
		{"2024-01-15T10:00:00 PST", "2024-01-15T10:00:00-08:00"},
		{"2024-01-15T10:00:00Z", "2024-01-15T10:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, htmltext.NormalizeDateString(tt.in))
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	t.Run("malformed separator and spaced offset", func(t *testing.T) {
		t.Parallel()
		got, ok := htmltext.ParseDate("2023-06-01G14:30:00 +0530")
		require.True(t, ok)
		assert.Equal(t, "2023-06-01T09:00:00.000Z", htmltext.FormatISO(got))
	})

	t.Run("GMT is not mangled by the separator fix", func(t *testing.T) {
		t.Parallel()
		got, ok := htmltext.ParseDate("Thu, 01 Jun 2023 14:30:00 GMT")
		require.True(t, ok)
		assert.Equal(t, "2023-06-01T14:30:00.000Z", htmltext.FormatISO(got))
	})

	t.Run("date only", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "2024-02-29T00:00:00.000Z", htmltext.NormalizeISO("2024-02-29"))
	})

	t.Run("unparseable", func(t *testing.T) {
		t.Parallel()
		_, ok := htmltext.ParseDate("sometime last week")
		assert.False(t, ok)
		assert.Empty(t, htmltext.NormalizeISO(""))
	})
}

func TestExtractPublishedDate(t *testing.T) {
	t.Parallel()

	t.Run("JSON-LD wins over meta tags", func(t *testing.T) {
		t.Parallel()
		html := `<meta property="article:published_time" content="2020-01-01T00:00:00Z">
<script type="application/ld+json">{"@type":"NewsArticle","datePublished": "2023-06-01T14:30:00+05:30"}</script>`
		assert.Equal(t, "2023-06-01T09:00:00.000Z", htmltext.ExtractPublishedDate(html))
	})

	t.Run("meta published time", func(t *testing.T) {
		t.Parallel()
		html := `<meta property="article:published_time" content="2020-01-01T08:15:00Z">`
		assert.Equal(t, "2020-01-01T08:15:00.000Z", htmltext.ExtractPublishedDate(html))
	})

	t.Run("time element", func(t *testing.T) {
		t.Parallel()
		html := `<span>Updated</span><time class="x" datetime="2022-12-24">Dec 24</time>`
		assert.Equal(t, "2022-12-24T00:00:00.000Z", htmltext.ExtractPublishedDate(html))
	})

	t.Run("skips unparseable candidates", func(t *testing.T) {
		t.Parallel()
		html := `<script>{"datePublished": "not a date"}</script><time datetime="2021-05-04T10:00:00Z"></time>`
		assert.Equal(t, "2021-05-04T10:00:00.000Z", htmltext.ExtractPublishedDate(html))
	})

	t.Run("no date", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, htmltext.ExtractPublishedDate(`<p>nothing here</p>`))
	})
}
