package goquery

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sentiread"
	"github.com/fwojciec/sentiread/htmltext"
	"github.com/fwojciec/sentiread/jsonld"
)

// Extraction methods recorded in result metadata.
const (
	MethodJSONLD   = "json-ld"
	MethodAMP      = "amp-version"
	MethodAMPJSON  = "amp-json-ld"
	MethodSelector = "dom-selectors"
	MethodRegex    = "regex-fallback"
)

// defaultMinParagraph is the paragraph length site strategies require.
const defaultMinParagraph = 30

// JSONLDStrategy reads the article body from schema.org structured data.
type JSONLDStrategy struct {
	// Types restricts accepted @type values. Defaults to Article and NewsArticle.
	Types []string

	// BodyOnly disables the description fallback.
	BodyOnly bool
}

func (s JSONLDStrategy) Method() string { return MethodJSONLD }

// Extract returns the first accepted item whose body passes validation.
func (s JSONLDStrategy) Extract(_ context.Context, html, _ string) (*sentiread.ExtractionResult, error) {
	types := s.Types
	if len(types) == 0 {
		types = []string{"Article", "NewsArticle"}
	}
	for _, item := range jsonld.ParseAll(html) {
		if !item.HasType(types...) {
			continue
		}
		body := structuredBody(item.String("articleBody"))
		if body == "" && !s.BodyOnly {
			body = structuredBody(item.String("description"))
		}
		if !htmltext.ValidateContent(body) {
			continue
		}
		md := map[string]any{
			"extractionMethod": MethodJSONLD,
			"structuredData":   true,
		}
		if kw := item.Keywords(); len(kw) > 0 {
			md["keywords"] = kw
		}
		if section := item.String("articleSection"); section != "" {
			md["category"] = section
		}
		return &sentiread.ExtractionResult{
			Content:       body,
			Title:         item.String("headline", "name"),
			Author:        item.Author(),
			PublishedDate: htmltext.NormalizeISO(item.String("datePublished", "dateCreated")),
			Metadata:      md,
		}, nil
	}
	return nil, nil
}

// structuredBody normalizes whitespace, and strips markup only when the
// body actually carries tags.
func structuredBody(s string) string {
	if strings.Contains(s, "<") && tagLikeRe.MatchString(s) {
		return htmltext.CleanHTMLContent(s)
	}
	return htmltext.CollapseWhitespace(s)
}

var tagLikeRe = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// SelectorStrategy extracts paragraphs from publisher-specific containers.
type SelectorStrategy struct {
	// Noise elements are removed before any candidate is evaluated.
	Noise []string

	// Candidates are tried in order. Each match contributes its <p>
	// descendants, or its own text when it has none.
	Candidates []string

	// MinParagraph is the length a paragraph must exceed. Defaults to 30.
	MinParagraph int

	// MinParagraphs is the count of kept paragraphs a candidate must exceed.
	MinParagraphs int

	// Exclude rejects paragraphs containing any of these lowercase words.
	Exclude []string

	// Name overrides the recorded extraction method.
	Name string
}

func (s SelectorStrategy) Method() string {
	if s.Name != "" {
		return s.Name
	}
	return MethodSelector
}

// Extract returns the first candidate whose joined paragraphs validate.
func (s SelectorStrategy) Extract(_ context.Context, html, _ string) (*sentiread.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sentiread.Errorf(sentiread.EINVALID, "failed to parse HTML: %v", err)
	}
	return s.ExtractDocument(doc), nil
}

// ExtractDocument runs the strategy against an already parsed document.
// The document is modified.
func (s SelectorStrategy) ExtractDocument(doc *goquery.Document) *sentiread.ExtractionResult {
	for _, sel := range s.Noise {
		doc.Find(sel).Remove()
	}

	minLen := s.MinParagraph
	if minLen == 0 {
		minLen = defaultMinParagraph
	}

	for _, candidate := range s.Candidates {
		matches := doc.Find(candidate)
		if matches.Length() == 0 {
			continue
		}
		kept := htmltext.FilterParagraphs(collectParagraphs(matches), minLen, s.Exclude...)
		if len(kept) <= s.MinParagraphs {
			continue
		}
		content := htmltext.JoinParagraphs(kept)
		if !htmltext.ValidateContent(content) {
			continue
		}
		return &sentiread.ExtractionResult{
			Content: content,
			Metadata: map[string]any{
				"extractionMethod": s.Method(),
				"selector":         candidate,
				"paragraphCount":   len(kept),
			},
		}
	}
	return nil
}

// collectParagraphs returns de-duplicated paragraph texts from matches.
func collectParagraphs(matches *goquery.Selection) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(text string) {
		text = htmltext.CollapseWhitespace(text)
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		out = append(out, text)
	}
	matches.Each(func(_ int, el *goquery.Selection) {
		ps := el.Find("p")
		if ps.Length() == 0 {
			add(el.Text())
			return
		}
		ps.Each(func(_ int, p *goquery.Selection) {
			add(p.Text())
		})
	})
	return out
}

// RegexStrategy scans raw HTML for <p> elements. It is the last resort for
// markup that defeats the DOM strategies.
type RegexStrategy struct {
	// Containers narrow the scan to the first capture group of the first
	// matching pattern. An empty list scans the whole page.
	Containers []*regexp.Regexp

	// Strip lists elements removed before scanning. Defaults to script and style.
	Strip []string

	// MinParagraph is the length a paragraph must exceed. Defaults to 30.
	MinParagraph int

	// Exclude rejects paragraphs containing any of these lowercase words.
	Exclude []string
}

func (s RegexStrategy) Method() string { return MethodRegex }

// Extract returns the filtered paragraphs of the first usable container.
func (s RegexStrategy) Extract(_ context.Context, html, _ string) (*sentiread.ExtractionResult, error) {
	strip := s.Strip
	if len(strip) == 0 {
		strip = []string{"script", "style"}
	}
	clean := htmltext.StripElements(html, strip...)

	scopes := []string{clean}
	if len(s.Containers) > 0 {
		scopes = scopes[:0]
		for _, re := range s.Containers {
			if m := re.FindStringSubmatch(clean); m != nil {
				scopes = append(scopes, m[1])
			}
		}
	}

	minLen := s.MinParagraph
	if minLen == 0 {
		minLen = defaultMinParagraph
	}
	for _, scope := range scopes {
		kept := htmltext.FilterParagraphs(htmltext.Paragraphs(scope), minLen, s.Exclude...)
		if len(kept) == 0 {
			continue
		}
		content := htmltext.JoinParagraphs(kept)
		if !htmltext.ValidateContent(content) {
			continue
		}
		return &sentiread.ExtractionResult{
			Content: content,
			Metadata: map[string]any{
				"extractionMethod": MethodRegex,
				"paragraphCount":   len(kept),
			},
		}, nil
	}
	return nil, nil
}

// ContainerPattern returns a regex capturing the inner HTML of the first
// div whose class list contains class.
func ContainerPattern(class string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<div[^>]*class=["'][^"']*\b` + regexp.QuoteMeta(class) + `\b[^"']*["'][^>]*>(.*?)</div>`)
}

// PathRewrite maps a canonical path segment to its AMP counterpart.
type PathRewrite struct {
	From string
	To   string
}

// AMPStrategy fetches the page's AMP version and extracts from it.
type AMPStrategy struct {
	// Fetcher retrieves the AMP page. The strategy misses when nil.
	Fetcher sentiread.Fetcher

	// Rewrites derive an AMP URL when the page does not link one.
	Rewrites []PathRewrite

	// Strip lists elements removed before the paragraph scan.
	Strip []string

	// MinParagraph is the length a paragraph must exceed. Defaults to 30.
	MinParagraph int

	// Exclude rejects paragraphs containing any of these lowercase words.
	Exclude []string

	// TitlePattern captures an AMP-specific headline element.
	TitlePattern *regexp.Regexp
}

func (s *AMPStrategy) Method() string { return MethodAMP }

// Extract tries structured data, then a paragraph scan, on the AMP page.
func (s *AMPStrategy) Extract(ctx context.Context, html, pageURL string) (*sentiread.ExtractionResult, error) {
	if s.Fetcher == nil {
		return nil, nil
	}
	ampURL := DiscoverAMPURL(html, pageURL)
	if ampURL == "" {
		ampURL = rewriteAMPURL(pageURL, s.Rewrites)
	}
	if ampURL == "" || ampURL == pageURL {
		return nil, nil
	}

	ampHTML, err := s.Fetcher.Fetch(ctx, ampURL)
	if err != nil {
		return nil, err
	}

	if res, _ := (JSONLDStrategy{}).Extract(ctx, ampHTML, ampURL); res != nil {
		res.Metadata["extractionMethod"] = MethodAMPJSON
		res.Metadata["ampUrl"] = ampURL
		return res, nil
	}

	strip := s.Strip
	if len(strip) == 0 {
		strip = []string{"script", "style", "nav", "header", "footer"}
	}
	res, _ := RegexStrategy{Strip: strip, MinParagraph: s.MinParagraph, Exclude: s.Exclude}.Extract(ctx, ampHTML, ampURL)
	if res == nil {
		return nil, nil
	}
	res.Metadata["extractionMethod"] = MethodAMP
	res.Metadata["ampUrl"] = ampURL

	if s.TitlePattern != nil {
		if m := s.TitlePattern.FindStringSubmatch(ampHTML); m != nil {
			res.Title = htmltext.CleanHTMLContent(m[1])
		}
	}
	if res.Title == "" {
		if m := titleTagRe.FindStringSubmatch(ampHTML); m != nil {
			res.Title = htmltext.CleanHTMLContent(m[1])
		}
	}
	res.PublishedDate = htmltext.ExtractPublishedDate(ampHTML)
	return res, nil
}

var (
	ampLinkRe     = regexp.MustCompile(`(?i)<link[^>]*rel=["']amphtml["'][^>]*href=["']([^"']+)["']`)
	ampLinkHrefRe = regexp.MustCompile(`(?i)<link[^>]*href=["']([^"']+)["'][^>]*rel=["']amphtml["']`)
)

// DiscoverAMPURL returns the absolute URL of the page's <link rel="amphtml">,
// or "" when there is none.
func DiscoverAMPURL(html, pageURL string) string {
	var href string
	if m := ampLinkRe.FindStringSubmatch(html); m != nil {
		href = m[1]
	} else if m := ampLinkHrefRe.FindStringSubmatch(html); m != nil {
		href = m[1]
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func rewriteAMPURL(pageURL string, rewrites []PathRewrite) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	for _, r := range rewrites {
		if strings.Contains(u.Path, r.From) {
			u.Path = strings.Replace(u.Path, r.From, r.To, 1)
			return u.String()
		}
	}
	return ""
}
