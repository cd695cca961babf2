// Package jsonld finds and leniently parses schema.org JSON-LD blocks.
//
// Publishers routinely ship JSON-LD that strict parsers reject: raw control
// characters inside strings, trailing commas, doubled commas. Parse first
// tries the block verbatim and only falls back to Clean when that fails.
package jsonld

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
)

// Item is one JSON-LD object.
type Item map[string]any

var (
	scriptRe        = regexp.MustCompile(`(?is)<script[^>]*type\s*=\s*["']application/ld\+json["'][^>]*>(.*?)</script>`)
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	doubleCommaRe   = regexp.MustCompile(`,(\s*,)+`)
)

// Scripts returns the bodies of every ld+json script block in html.
func Scripts(html string) []string {
	var out []string
	for _, m := range scriptRe.FindAllStringSubmatch(html, -1) {
		if body := strings.TrimSpace(m[1]); body != "" {
			out = append(out, body)
		}
	}
	return out
}

// Clean repairs common JSON-LD defects. Control characters are replaced with
// spaces, doubled commas are collapsed and trailing commas before a closing
// brace or bracket are dropped.
func Clean(raw string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, raw)
	s = strings.TrimPrefix(strings.TrimSpace(s), "<!--")
	s = strings.TrimSuffix(s, "-->")
	s = doubleCommaRe.ReplaceAllString(s, ",")
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// Parse decodes one JSON-LD block into a flat list of items. Top-level
// arrays and @graph containers are expanded.
func Parse(raw string) ([]Item, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		if err := json.Unmarshal([]byte(Clean(raw)), &v); err != nil {
			return nil, err
		}
	}
	var items []Item
	flatten(v, &items)
	return items, nil
}

func flatten(v any, items *[]Item) {
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			flatten(e, items)
		}
	case map[string]any:
		if graph, ok := t["@graph"].([]any); ok {
			flatten(graph, items)
			if len(t) == 1 || (len(t) == 2 && t["@context"] != nil) {
				return
			}
		}
		*items = append(*items, Item(t))
	}
}

// ParseAll parses every ld+json block in html. Blocks that cannot be
// parsed even after cleaning are skipped.
func ParseAll(html string) []Item {
	var items []Item
	for _, script := range Scripts(html) {
		parsed, err := Parse(script)
		if err != nil {
			continue
		}
		items = append(items, parsed...)
	}
	return items
}

// Types returns the item's @type values.
func (it Item) Types() []string {
	switch t := it["@type"].(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// HasType reports whether any @type equals one of types.
func (it Item) HasType(types ...string) bool {
	for _, have := range it.Types() {
		for _, want := range types {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// IsArticle reports whether the item is an Article or NewsArticle.
func (it Item) IsArticle() bool {
	return it.HasType("Article", "NewsArticle")
}

// String returns the first non-empty string value among keys.
func (it Item) String(keys ...string) string {
	for _, k := range keys {
		if s, ok := it[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// Author returns the first usable author name. The author field may be a
// string, an object with a name, or an array of either.
func (it Item) Author() string {
	return authorName(it["author"])
}

func authorName(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if name, ok := t["name"].(string); ok {
			return strings.TrimSpace(name)
		}
	case []any:
		for _, e := range t {
			if name := authorName(e); name != "" {
				return name
			}
		}
	}
	return ""
}

// Keywords returns the item's keywords whether given as a list or a
// comma-separated string.
func (it Item) Keywords() []string {
	switch t := it["keywords"].(type) {
	case string:
		var out []string
		for _, k := range strings.Split(t, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
		return out
	case []any:
		var out []string
		for _, e := range t {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}
