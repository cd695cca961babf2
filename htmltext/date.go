package htmltext

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ISOLayout formats instants as ISO-8601 UTC with millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// datePatterns are tried in order; the first that yields a parseable date wins.
var datePatterns = []*regexp.Regexp{
	// JSON-LD
	regexp.MustCompile(`"datePublished"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"publishedTime"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"dateCreated"\s*:\s*"([^"]+)"`),

	// Meta tags
	regexp.MustCompile(`(?i)<meta[^>]*property=["']article:published_time["'][^>]*content=["']([^"']+)["'][^>]*>`),
	regexp.MustCompile(`(?i)<meta[^>]*name=["']publish-date["'][^>]*content=["']([^"']+)["'][^>]*>`),
	regexp.MustCompile(`(?i)<meta[^>]*name=["']date["'][^>]*content=["']([^"']+)["'][^>]*>`),
	regexp.MustCompile(`(?i)<meta[^>]*name=["']pubdate["'][^>]*content=["']([^"']+)["'][^>]*>`),

	// Elements
	regexp.MustCompile(`(?i)<time[^>]*datetime=["']([^"']+)["'][^>]*>`),
	regexp.MustCompile(`(?i)<time[^>]*pubdate[^>]*datetime=["']([^"']+)["'][^>]*>`),

	// Free text
	regexp.MustCompile(`(?i)Published on:\s*([^<\n]+)`),
	regexp.MustCompile(`(?i)Published:\s*([^<\n]+)`),
	regexp.MustCompile(`(?i)Date:\s*([^<\n]+)`),
	regexp.MustCompile(`(?i)Posted:\s*([^<\n]+)`),
}

var (
	// Some publishers emit "2023-06-01G14:30:00" instead of a T separator.
	dateSeparatorRe = regexp.MustCompile(`(\d)G(\d)`)
	spacedOffsetRe  = regexp.MustCompile(`\s+([+-])(\d{2}):?(\d{2})$`)
	namedZones      = []struct {
		re     *regexp.Regexp
		offset string
	}{
		{regexp.MustCompile(`(?i)\s+(UTC|GMT)$`), "+00:00"},
		{regexp.MustCompile(`(?i)\s+IST$`), "+05:30"},
		{regexp.MustCompile(`(?i)\s+EST$`), "-05:00"},
		{regexp.MustCompile(`(?i)\s+PST$`), "-08:00"},
	}
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// NormalizeDateString repairs malformed date strings seen in the wild:
// a G used as the date/time separator, space-separated numeric offsets,
// and trailing zone abbreviations.
func NormalizeDateString(s string) string {
	s = strings.TrimSpace(s)
	s = dateSeparatorRe.ReplaceAllString(s, "${1}T${2}")
	s = spacedOffsetRe.ReplaceAllString(s, "$1$2:$3")
	for _, z := range namedZones {
		if z.re.MatchString(s) {
			s = z.re.ReplaceAllString(s, z.offset)
			break
		}
	}
	return s
}

// ParseDate normalizes and parses s. Strings without a zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	raw := strings.TrimSpace(s)
	normalized := NormalizeDateString(raw)
	for _, candidate := range []string{normalized, raw} {
		if t, ok := parseDate(candidate); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDate(s string) (t time.Time, ok bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	// dateparse has been known to panic on pathological input.
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// FormatISO formats t as ISO-8601 UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// NormalizeISO parses s and returns it in ISOLayout, or "" if s is not a date.
func NormalizeISO(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return FormatISO(t)
}

// ExtractPublishedDate looks for a publication date in structured data,
// meta tags, <time> elements and "Published:" style text, in that order.
// It returns "" when no candidate parses.
func ExtractPublishedDate(html string) string {
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(html)
		if m == nil || strings.TrimSpace(m[1]) == "" {
			continue
		}
		if iso := NormalizeISO(m[1]); iso != "" {
			return iso
		}
	}
	return ""
}
