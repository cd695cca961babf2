package sentiread

// Article is the main content of a page isolated by a readability algorithm.
type Article struct {
	// Title is the page title found in metadata.
	Title string

	// Byline is the author credit when the algorithm found one.
	Byline string

	// ContentHTML is the main content as HTML with boilerplate removed.
	ContentHTML string

	// Text is the main content as plain text. It may be empty when the
	// algorithm only produced HTML.
	Text string
}

// ArticleReader isolates the main content of an arbitrary page.
type ArticleReader interface {
	Read(html string) (*Article, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}
