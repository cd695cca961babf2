package mock

import "github.com/fwojciec/sentiread"

var (
	_ sentiread.ArticleReader = (*ArticleReader)(nil)
	_ sentiread.Converter     = (*Converter)(nil)
)

// ArticleReader is a mock implementation of sentiread.ArticleReader.
type ArticleReader struct {
	ReadFn func(html string) (*sentiread.Article, error)
}

func (r *ArticleReader) Read(html string) (*sentiread.Article, error) {
	return r.ReadFn(html)
}

// Converter is a mock implementation of sentiread.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
