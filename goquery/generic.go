package goquery

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/htmltext"
	"github.com/fwojciec/sentiread/jsonld"
	"golang.org/x/net/html"
)

var (
	_ sentiread.Extractor       = (*GenericExtractor)(nil)
	_ sentiread.BylineExtractor = (*GenericExtractor)(nil)
)

// Limits applied to generic extraction output.
const (
	GenericMinLength = 300
	GenericMaxLength = 12000
)

// MethodGeneric is recorded for results of the generic extractor.
const MethodGeneric = "generic"

// GenericExtractor extracts article text from pages no site extractor
// claims. It ranks a fixed list of selector groups by the amount of
// meaningful text they yield.
type GenericExtractor struct {
	logger *slog.Logger
}

// NewGenericExtractor creates a generic extractor.
func NewGenericExtractor(opts ...Option) *GenericExtractor {
	o := resolve(opts)
	return &GenericExtractor{logger: o.logger}
}

func (e *GenericExtractor) Name() string { return MethodGeneric }

// Domains returns nil. The generic extractor claims no site.
func (e *GenericExtractor) Domains() []string { return nil }

// CanHandle reports whether rawURL is an absolute http(s) URL.
func (e *GenericExtractor) CanHandle(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var genericNoise = strings.Join([]string{
	"script", "style", "nav", "header", "footer", "aside", "form", "noscript",
	"iframe", "svg", "canvas", "audio", "video",
	".advertisement", ".ads", ".social-share", ".comments", ".sidebar",
	".nav", ".navigation", ".menu", ".breadcrumb", ".breadcrumbs",
	".related", ".trending", ".popular", ".most-read",
	".tags", ".tag-list", ".category", ".categories",
	".share", ".sharing", ".social", ".subscribe",
	".widget", ".widgets", ".ad", ".banner", ".promo", ".promotion", ".newsletter",
	".search", ".search-box", ".search-form", ".login", ".signup", ".register",
}, ", ")

// genericGroups are evaluated in priority order. The empty group stands for
// the page's structured data.
var genericGroups = []string{
	"article .content, article .article-content, article .post-content",
	"article .entry-content, article .story-content, article .text",
	".article-body, .story-body, .post-body, .entry-body",
	".article-text, .story-text, .post-text, .content-text",
	`article, main, [role="main"]`,
	".content, .main-content, #main-content",
	".post, .entry, .story, .article",
	".story-content, .article-content, .post-content",
	".entry-content, .content-area, .text-content",
	`[class*="story"], [class*="article"], [class*="content"]`,
	"",
}

// Class and id tokens that mark an element as page chrome.
var skipTokens = []string{
	"nav", "menu", "sidebar", "widget", "ad", "ads", "promo", "related",
	"trending", "popular", "subscribe", "newsletter", "comment", "social",
	"share", "tag",
}

var (
	tokenSplitRe = regexp.MustCompile(`[\s_-]+`)
	promoRe      = regexp.MustCompile(`(?i)subscribe|newsletter|click here|read more`)
	labelRe      = regexp.MustCompile(`(?i)^\s*(tags?|categories?|share|follow)\s*:?`)
	bodyLabelRe  = regexp.MustCompile(`(?i)^(tags?|categories?|share|follow|related|trending)`)
	bodyPromoRe  = regexp.MustCompile(`(?i)cookie|subscribe|newsletter`)

	cleanupLineRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\s*(advertisement|sponsored|promoted content|subscribe|newsletter)`),
		regexp.MustCompile(`(?i)^\s*(tags?|categories?):`),
		regexp.MustCompile(`(?i)^\s*(share|follow us|connect with us)`),
	}
	ctaTailRe = regexp.MustCompile(`(?i)\b(click here|read more|continue reading|view gallery|see also)\b.*$`)

	strongNoiseRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(search results|no results found|page not found)`),
		regexp.MustCompile(`(?i)^(404|error|access denied)`),
		regexp.MustCompile(`(?i)^\s*(menu|navigation)\s*$`),
		regexp.MustCompile(`(?i)^(home\s+about\s+contact|privacy\s+terms)`),
		regexp.MustCompile(`^[A-Z\s]{40,}$`),
	}
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	fragmentSplitRe = regexp.MustCompile(`[.!?\n]+`)
)

// Extract returns the page's article text, or nil when the page does not
// look like an article.
func (e *GenericExtractor) Extract(ctx context.Context, html, pageURL string) (result *sentiread.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("extractor panic", "extractor", MethodGeneric, "url", pageURL, "panic", fmt.Sprint(r))
			result = nil
		}
	}()

	if ctx.Err() != nil || strings.TrimSpace(html) == "" {
		return nil
	}
	doc := parse(html)
	if doc == nil {
		return nil
	}

	content, err := genericContent(doc, html)
	if err != nil {
		e.logger.Debug("generic extraction rejected", "url", pageURL, "err", err)
		return nil
	}

	byline := e.ExtractByline(html)
	return &sentiread.ExtractionResult{
		Content:       content,
		Title:         byline.Title,
		Author:        byline.Author,
		PublishedDate: htmltext.ExtractPublishedDate(html),
		Metadata: map[string]any{
			"extractionMethod": MethodGeneric,
			"extractor":        MethodGeneric,
		},
	}
}

func genericContent(doc *goquery.Document, html string) (string, error) {
	removeNoise(doc)

	var best string
	for _, group := range genericGroups {
		var blocks []string
		if group == "" {
			blocks = structuredBlocks(html)
		} else {
			doc.Find(group).Each(func(_ int, el *goquery.Selection) {
				if isChrome(el) {
					return
				}
				blocks = append(blocks, elementBlocks(el)...)
			})
		}
		text := htmltext.JoinParagraphs(blocks)
		if n := htmltext.Len(text); n > htmltext.Len(best) && n > GenericMinLength {
			best = text
		}
		if htmltext.Len(best) > 1000 {
			break
		}
	}

	content := best
	if htmltext.Len(content) < 500 {
		var good []string
		doc.Find("body p").Each(func(_ int, p *goquery.Selection) {
			text := htmltext.CollapseWhitespace(p.Text())
			if htmltext.Len(text) > 100 && !bodyPromoRe.MatchString(text) && !bodyLabelRe.MatchString(text) {
				good = append(good, text)
			}
		})
		if len(good) > 3 {
			content = htmltext.JoinParagraphs(good)
		}
	}
	if htmltext.Len(content) < 500 {
		content = htmltext.JoinParagraphs(blockLines(doc.Find("body")))
	}

	content = cleanup(content)
	if err := checkShape(content); err != nil {
		return "", err
	}

	if htmltext.Len(content) > GenericMaxLength {
		return htmltext.Truncate(content, GenericMaxLength) + "...", nil
	}
	if htmltext.Len(content) < GenericMinLength {
		return "", sentiread.Errorf(sentiread.ECONTENT, "insufficient article content extracted")
	}
	return content, nil
}

func removeNoise(doc *goquery.Document) {
	doc.Find(genericNoise).Remove()
	doc.Find("[class], [id]").Each(func(_ int, el *goquery.Selection) {
		for _, tok := range attrTokens(el) {
			if tok == "ad" || tok == "ads" || strings.HasPrefix(tok, "advert") ||
				strings.Contains(tok, "popup") || strings.Contains(tok, "modal") ||
				strings.Contains(tok, "overlay") || strings.Contains(tok, "cookie") {
				el.Remove()
				return
			}
		}
	})
}

// attrTokens splits an element's class and id into lowercase words, so
// "sidebar-widget" yields "sidebar" and "widget".
func attrTokens(el *goquery.Selection) []string {
	class, _ := el.Attr("class")
	id, _ := el.Attr("id")
	var out []string
	for _, tok := range tokenSplitRe.Split(strings.ToLower(class+" "+id), -1) {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// isChrome reports whether any class or id token names navigation, ads or
// similar page furniture. Words are matched by prefix, so "navbar" and
// "comments" count, except "ad" which must match exactly.
func isChrome(el *goquery.Selection) bool {
	for _, tok := range attrTokens(el) {
		for _, skip := range skipTokens {
			if tok == skip || (len(skip) > 2 && strings.HasPrefix(tok, skip)) {
				return true
			}
		}
	}
	return false
}

// elementBlocks returns headings followed by meaningful paragraphs when the
// element has more than two of them, otherwise its text split at block
// boundaries.
func elementBlocks(el *goquery.Selection) []string {
	var paragraphs []string
	el.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := htmltext.CollapseWhitespace(p.Text())
		if htmltext.Len(text) > 50 && !promoRe.MatchString(text) && !labelRe.MatchString(text) {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 2 {
		var headings []string
		el.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, h *goquery.Selection) {
			if text := htmltext.CollapseWhitespace(h.Text()); text != "" {
				headings = append(headings, text)
			}
		})
		return append(headings, paragraphs...)
	}
	lines := blockLines(el)
	lower := strings.ToLower(strings.Join(lines, " "))
	if htmltext.Len(lower) > 200 && !strings.Contains(lower, "subscribe") && !strings.Contains(lower, "newsletter") {
		return lines
	}
	return nil
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// blockLines returns the text of sel with one line per block-level
// element, so list items and table cells stay separate fragments.
func blockLines(sel *goquery.Selection) []string {
	var (
		lines []string
		sb    strings.Builder
	)
	flush := func() {
		if line := htmltext.CollapseWhitespace(sb.String()); line != "" {
			lines = append(lines, line)
		}
		sb.Reset()
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode, html.DocumentNode:
		default:
			return
		}
		block := n.Type == html.ElementNode && blockTags[n.Data]
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	flush()
	return lines
}

func structuredBlocks(html string) []string {
	var out []string
	for _, item := range jsonld.ParseAll(html) {
		if body := item.String("articleBody"); body != "" {
			out = append(out, structuredBody(body))
		} else if desc := item.String("description"); htmltext.Len(desc) > 200 {
			out = append(out, structuredBody(desc))
		}
	}
	return out
}

// cleanup drops promotional and label lines and cuts call-to-action tails.
// Paragraph breaks are kept.
func cleanup(content string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		line = htmltext.CollapseWhitespace(line)
		if line == "" || matchesAny(cleanupLineRes, line) {
			continue
		}
		if line = strings.TrimSpace(ctaTailRe.ReplaceAllString(line, "")); line != "" {
			kept = append(kept, line)
		}
	}
	return htmltext.JoinParagraphs(kept)
}

// checkShape rejects text that reads like navigation rather than prose.
func checkShape(content string) error {
	if matchesAny(strongNoiseRes, htmltext.Truncate(content, 300)) {
		return sentiread.Errorf(sentiread.ECONTENT, "content matches a noise pattern")
	}

	var sentences int
	for _, s := range sentenceSplitRe.Split(content, -1) {
		if htmltext.Len(strings.TrimSpace(s)) > 15 {
			sentences++
		}
	}
	avg := 0
	if sentences > 0 {
		avg = htmltext.Len(content) / sentences
	}
	if avg < 10 && sentences < 2 {
		return sentiread.Errorf(sentiread.ECONTENT, "content has no sentences")
	}

	var fragments, short int
	for _, f := range fragmentSplitRe.Split(content, -1) {
		n := htmltext.Len(strings.TrimSpace(f))
		if n <= 5 {
			continue
		}
		fragments++
		if n < 30 {
			short++
		}
	}
	if fragments > 10 && float64(short)/float64(fragments) > 0.7 {
		return sentiread.Errorf(sentiread.ECONTENT, "content is mostly short phrases")
	}
	return nil
}

func matchesAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

var (
	genericTitleSelectors  = []string{"h1.title", "h1.article-title", "h1.entry-title", `h1[itemprop="headline"]`, "h1"}
	genericAuthorSelectors = []string{
		".author", ".by-author", ".byline", ".article-author",
		`[itemprop="author"]`, `[rel="author"]`,
		".author-name", ".writer", ".post-author",
		".article-byline", ".story-byline",
		".meta .author", ".post-meta .author",
		"p.byline", "span.byline", "div.byline",
	}
	bylineTailRe = regexp.MustCompile(`\s+[|-]\s.*$`)
	roleSuffixRe = regexp.MustCompile(`(?i),?\s*(editor|reporter|correspondent|staff writer)$`)
)

// ExtractByline returns the page title and author using page-agnostic
// heuristics.
func (e *GenericExtractor) ExtractByline(html string) sentiread.Byline {
	doc := parse(html)
	if doc == nil {
		return sentiread.Byline{}
	}
	return sentiread.Byline{Title: genericTitle(doc), Author: genericAuthor(doc, html)}
}

func genericTitle(doc *goquery.Document) string {
	title := htmltext.CollapseWhitespace(doc.Find("title").First().Text())
	if h1 := firstText(doc, genericTitleSelectors, 10); h1 != "" {
		title = h1
	}
	return title
}

func genericAuthor(doc *goquery.Document, html string) string {
	author := ""
	for _, sel := range authorMeta {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && htmltext.Len(strings.TrimSpace(v)) > 2 {
			author = v
			break
		}
	}
	if author == "" {
		for _, item := range jsonld.ParseAll(html) {
			if author = item.Author(); author != "" {
				break
			}
		}
	}
	if author == "" {
		for _, sel := range genericAuthorSelectors {
			el := doc.Find(sel).First()
			if el.Length() == 0 {
				continue
			}
			text := htmltext.CleanAuthor(el.Text())
			text = strings.TrimSpace(bylineTailRe.ReplaceAllString(text, ""))
			if n := htmltext.Len(text); n > 2 && n < 100 {
				author = text
				break
			}
		}
	}
	author = htmltext.CollapseWhitespace(author)
	return strings.TrimSpace(roleSuffixRe.ReplaceAllString(author, ""))
}

// ExtractMetadata returns the page's title, author and published date.
func (e *GenericExtractor) ExtractMetadata(html, pageURL string) map[string]any {
	byline := e.ExtractByline(html)
	md := map[string]any{"extractor": MethodGeneric, "url": pageURL}
	if byline.Title != "" {
		md["title"] = byline.Title
	}
	if byline.Author != "" {
		md["author"] = byline.Author
	}
	if date := htmltext.ExtractPublishedDate(html); date != "" {
		md["publishedDate"] = date
	}
	return md
}
