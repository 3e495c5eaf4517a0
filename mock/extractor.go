package mock

import "github.com/fwojciec/crawler"

var _ crawler.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of crawler.Extractor.
type Extractor struct {
	ExtractFn func(pageURL, html string) (*crawler.ExtractResult, error)
}

func (e *Extractor) Extract(pageURL, html string) (*crawler.ExtractResult, error) {
	return e.ExtractFn(pageURL, html)
}
