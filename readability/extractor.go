// Package readability implements content extraction with go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/crawler"
	"github.com/go-shiori/go-readability"
)

var _ crawler.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. pageURL resolves
// relative links in the content and may be empty.
func (e *Extractor) Extract(pageURL, rawHTML string) (*crawler.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, crawler.Errorf(crawler.EINVALID, "empty HTML input")
	}

	var u *url.URL
	if pageURL != "" {
		var err error
		if u, err = url.Parse(pageURL); err != nil {
			return nil, crawler.Errorf(crawler.EINVALID, "invalid page URL %q", pageURL)
		}
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, err
	}

	return &crawler.ExtractResult{
		Title:       article.Title,
		Description: article.Excerpt,
		ContentHTML: article.Content,
		Text:        article.TextContent,
	}, nil
}
