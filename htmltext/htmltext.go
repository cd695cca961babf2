// Package htmltext provides the text helpers shared by every extractor:
// tag stripping, content-quality validation, boilerplate filtering and
// published-date normalization.
//
// Everything here works on raw strings so it remains usable when a page
// cannot be parsed into a DOM.
package htmltext

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinContentLength is the shortest article text that passes validation.
const MinContentLength = 100

// noisePrefixLength is how much of the content the noise signatures inspect.
const noisePrefixLength = 200

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	entityRe     = regexp.MustCompile(`&(?:#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[a-zA-Z][a-zA-Z0-9]{1,31});`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	paragraphRe  = regexp.MustCompile(`(?is)<p(?:\s[^>]*)?>(.*?)</p>`)
	ctaPrefixRe  = regexp.MustCompile(`(?i)^(share|follow|subscribe|download|read more|click here)`)
	authorPrefix = regexp.MustCompile(`(?i)^(by|author|written by|published by|posted by)\b\s*:?\s*`)
)

// noiseSignatures match error pages, access-denied banners and nav-only text.
var noiseSignatures = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(search results|no results found|page not found)`),
	regexp.MustCompile(`(?i)^(404|error|access denied)`),
	regexp.MustCompile(`(?i)^(home\s+about\s+contact|privacy\s+terms)`),
}

// CleanHTMLContent strips tags, replaces entities with spaces and collapses
// whitespace.
func CleanHTMLContent(html string) string {
	if html == "" {
		return ""
	}
	s := tagRe.ReplaceAllString(html, "")
	s = entityRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CollapseWhitespace replaces runs of whitespace with one space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ValidateContent is the content-quality gate applied to every extraction.
// It rejects text shorter than MinContentLength characters and text whose
// opening matches a known noise signature.
func ValidateContent(content string) bool {
	if utf8.RuneCountInString(content) < MinContentLength {
		return false
	}
	prefix := Truncate(content, noisePrefixLength)
	for _, re := range noiseSignatures {
		if re.MatchString(prefix) {
			return false
		}
	}
	return true
}

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Len returns the number of characters in s.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Paragraphs returns the cleaned text of every <p> element found by a regex
// scan of raw HTML. Empty paragraphs are dropped.
func Paragraphs(html string) []string {
	var out []string
	for _, m := range paragraphRe.FindAllStringSubmatch(html, -1) {
		text := CleanHTMLContent(tagRe.ReplaceAllString(m[1], " "))
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

// Meaningful reports whether a paragraph reads as article text. It must be
// longer than minLen characters, must not open with a share or subscribe
// call to action, and must not contain any of the excluded words.
func Meaningful(p string, minLen int, exclude ...string) bool {
	if Len(p) <= minLen {
		return false
	}
	lower := strings.ToLower(p)
	if ctaPrefixRe.MatchString(lower) {
		return false
	}
	for _, word := range exclude {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}

// FilterParagraphs keeps the paragraphs accepted by Meaningful.
func FilterParagraphs(ps []string, minLen int, exclude ...string) []string {
	var out []string
	for _, p := range ps {
		if Meaningful(p, minLen, exclude...) {
			out = append(out, p)
		}
	}
	return out
}

// JoinParagraphs joins paragraphs with blank lines.
func JoinParagraphs(ps []string) string {
	return strings.Join(ps, "\n\n")
}

// StripElements removes the given elements and everything inside them.
func StripElements(html string, tags ...string) string {
	for _, tag := range tags {
		re := regexp.MustCompile(`(?is)<` + regexp.QuoteMeta(tag) + `\b[^>]*>.*?</` + regexp.QuoteMeta(tag) + `\s*>`)
		html = re.ReplaceAllString(html, "")
	}
	return html
}

// StripTitleSuffix removes the first matching publisher suffix such as
// " | Moneycontrol" from a title. Matching ignores case.
func StripTitleSuffix(title string, suffixes ...string) string {
	title = CollapseWhitespace(title)
	for _, suffix := range suffixes {
		s := strings.TrimSpace(suffix)
		if s == "" {
			continue
		}
		if i := tailStart(title, utf8.RuneCountInString(s)); i >= 0 && strings.EqualFold(title[i:], s) {
			return strings.TrimSpace(title[:i])
		}
	}
	return title
}

// tailStart returns the byte offset of the last n runes of s, or -1 when s
// is shorter.
func tailStart(s string, n int) int {
	i := len(s)
	for ; n > 0; n-- {
		if i == 0 {
			return -1
		}
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return i
}

// CleanAuthor strips byline prefixes like "By" and returns "" unless the
// remaining name is between 3 and 99 characters long.
func CleanAuthor(s string) string {
	s = CollapseWhitespace(CleanHTMLContent(s))
	s = strings.TrimSpace(authorPrefix.ReplaceAllString(s, ""))
	if n := Len(s); n <= 2 || n >= 100 {
		return ""
	}
	return s
}
