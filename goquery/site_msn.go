package goquery

import (
	"context"
	"regexp"
	"strings"

	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/htmltext"
	"github.com/fwojciec/sentiread/jsonld"
)

// Extraction methods specific to msn.com.
const (
	MethodMSNPrerendered = "msn-prerendered"
	MethodMSNText        = "msn-text-extraction"
	MethodMSNLimited     = "msn-javascript-required"
)

// NewMSNExtractor creates the extractor for msn.com. MSN renders articles
// client-side, so the initial HTML rarely carries more than structured data
// and descriptions. When nothing usable is present the extractor returns a
// limited result with empty content instead of nil.
func NewMSNExtractor(opts ...Option) *SiteExtractor {
	return NewSiteExtractor(SiteConfig{
		Name:    "MSNExtractor",
		Domains: []string{"msn.com"},
		Strategies: []Strategy{
			StrategyFunc{Name: MethodMSNPrerendered, Fn: msnPrerendered},
			StrategyFunc{Name: MethodMSNText, Fn: msnTextBlocks},
			StrategyFunc{Name: MethodMSNLimited, Fn: msnLimited},
		},
		AuthorSelectors: []string{`meta[name="twitter:creator"]`},
		TitleFilter: func(title string) bool {
			return !strings.Contains(strings.ToLower(title), "msn")
		},
	}, opts...)
}

var (
	msnDescriptionRe   = regexp.MustCompile(`(?i)<meta[^>]*name=["']description["'][^>]*content=["']([^"']+)["'][^>]*>`)
	msnOGDescriptionRe = regexp.MustCompile(`(?i)<meta[^>]*property=["']og:description["'][^>]*content=["']([^"']+)["'][^>]*>`)
	msnTextBlockRe     = regexp.MustCompile(`>([^<]{50,})<`)
	msnCommentRe       = regexp.MustCompile(`(?s)<!--.*?-->`)
	msnCodeRe          = regexp.MustCompile(`^(function|var|const|let|if|for|while|return|\{|\}|;)`)
	msnStyleRe         = regexp.MustCompile(`^(font-|color:|background:|margin:|padding:)`)
	msnTitleRes        = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<meta[^>]*property=["']og:title["'][^>]*content=["']([^"']+)["'][^>]*>`),
		regexp.MustCompile(`(?i)<meta[^>]*name=["']twitter:title["'][^>]*content=["']([^"']+)["'][^>]*>`),
		regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`),
		titleTagRe,
	}
)

func msnPrerendered(_ context.Context, html, _ string) (*sentiread.ExtractionResult, error) {
	content := ""
	for _, item := range jsonld.ParseAll(html) {
		if !item.IsArticle() {
			continue
		}
		if body := structuredBody(item.String("articleBody", "description")); htmltext.ValidateContent(body) {
			content = body
			break
		}
	}
	if content == "" {
		for _, re := range []*regexp.Regexp{msnDescriptionRe, msnOGDescriptionRe} {
			if m := re.FindStringSubmatch(html); m != nil && htmltext.Len(m[1]) > 100 {
				content = htmltext.CollapseWhitespace(m[1])
				break
			}
		}
	}
	if content == "" {
		return nil, nil
	}
	return &sentiread.ExtractionResult{
		Content: content,
		Title:   msnTitle(html),
		Metadata: map[string]any{
			"extractionMethod": MethodMSNPrerendered,
			"note":             "Extracted from pre-rendered content in initial HTML",
		},
	}, nil
}

func msnTextBlocks(_ context.Context, html, _ string) (*sentiread.ExtractionResult, error) {
	clean := msnCommentRe.ReplaceAllString(htmltext.StripElements(html, "script", "style", "noscript"), "")
	var blocks []string
	for _, m := range msnTextBlockRe.FindAllStringSubmatch(clean, -1) {
		text := htmltext.CleanHTMLContent(m[1])
		lower := strings.ToLower(text)
		if htmltext.Len(text) <= 50 ||
			msnCodeRe.MatchString(text) ||
			msnStyleRe.MatchString(text) ||
			strings.Contains(lower, "javascript") ||
			strings.Contains(lower, "stylesheet") {
			continue
		}
		blocks = append(blocks, text)
	}
	content := htmltext.JoinParagraphs(blocks)
	if htmltext.Len(content) <= 200 || !htmltext.ValidateContent(content) {
		return nil, nil
	}
	return &sentiread.ExtractionResult{
		Content: content,
		Title:   msnTitle(html),
		Metadata: map[string]any{
			"extractionMethod": MethodMSNText,
			"note":             "Extracted available text from initial HTML",
		},
	}, nil
}

// msnLimited always succeeds with an empty body so callers can tell a
// client-rendered page from a failed extraction.
func msnLimited(_ context.Context, html, pageURL string) (*sentiread.ExtractionResult, error) {
	return &sentiread.ExtractionResult{
		Title: msnTitle(html),
		Metadata: map[string]any{
			"extractionMethod": MethodMSNLimited,
			"error":            "MSN.com requires JavaScript execution for content loading",
			"recommendation":   "Use a browser automation tool for full content extraction",
			"url":              pageURL,
		},
	}, nil
}

// msnTitle skips candidates that are just MSN branding.
func msnTitle(html string) string {
	for _, re := range msnTitleRes {
		m := re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		title := htmltext.CleanHTMLContent(m[1])
		if htmltext.Len(title) > 5 && !strings.Contains(strings.ToLower(title), "msn") {
			return title
		}
	}
	return ""
}
