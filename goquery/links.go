package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sentiread"
)

// headlineSelectors locate story links on section and home pages. They are
// tried before the catch-all scan so headline links keep their order.
var headlineSelectors = []string{
	"article a[href]",
	"h1 a[href]", "h2 a[href]", "h3 a[href]",
	".story a[href]", ".news-item a[href]", ".headline a[href]",
}

// slugRe matches path segments that read like an article slug.
var slugRe = regexp.MustCompile(`[a-z0-9]+(-[a-z0-9]+){3,}|\d{5,}`)

// Ensure LinkExtractor implements sentiread.LinkExtractor at compile time.
var _ sentiread.LinkExtractor = LinkExtractor{}

// LinkExtractor exposes ArticleLinks as a sentiread.LinkExtractor.
type LinkExtractor struct{}

// ArticleLinks calls the package-level ArticleLinks.
func (LinkExtractor) ArticleLinks(html, pageURL string, filter *sentiread.URLFilter) ([]string, error) {
	return ArticleLinks(html, pageURL, filter)
}

// ArticleLinks returns the same-host article links on a listing page in
// document order. Headline links come first. Other anchors are included
// only when their path carries an article-like slug or numeric id.
func ArticleLinks(html, pageURL string, filter *sentiread.URLFilter) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return nil, sentiread.Errorf(sentiread.EINVALID, "invalid page URL: %q", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sentiread.Errorf(sentiread.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []string
	add := func(sel *goquery.Selection, requireSlug bool) {
		if filter != nil && filter.Limit > 0 && len(links) >= filter.Limit {
			return
		}
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		u, err := url.Parse(resolved)
		if err != nil || !sameSite(base, u) {
			return
		}
		if requireSlug && !slugRe.MatchString(strings.ToLower(u.Path)) {
			return
		}
		if !filter.Match(resolved) {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	}

	for _, sel := range headlineSelectors {
		doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
			add(a, false)
		})
	}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		add(a, true)
	})
	return links, nil
}

// resolveURL resolves href against base with the fragment stripped.
// Links back to the page itself resolve to "".
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	self := *base
	self.Fragment = ""
	if resolved.String() == self.String() {
		return ""
	}
	return resolved.String()
}

// sameSite treats "www." and the bare host as the same site, since
// publishers link between them freely.
func sameSite(base, u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.") ==
		strings.TrimPrefix(strings.ToLower(base.Hostname()), "www.")
}

func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}
