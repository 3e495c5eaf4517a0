package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/crawler"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ crawler.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main content of a page.
type Extractor struct {
	// IncludeComments keeps user comment sections in the content.
	IncludeComments bool
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. pageURL is used
// for metadata such as the site name and may be empty.
func (e *Extractor) Extract(pageURL, rawHTML string) (*crawler.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, crawler.Errorf(crawler.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: !e.IncludeComments,
	}
	if pageURL != "" {
		u, err := url.Parse(pageURL)
		if err != nil {
			return nil, crawler.Errorf(crawler.EINVALID, "invalid page URL %q", pageURL)
		}
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &crawler.ExtractResult{
		Title:       result.Metadata.Title,
		Description: result.Metadata.Description,
		Language:    result.Metadata.Language,
		ContentHTML: contentHTML,
		Text:        result.ContentText,
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
