package htmltomarkdown

import (
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/crawler"
)

var _ crawler.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Links and images with
// relative URLs are made absolute using the origin of pageURL.
func (c *Converter) Convert(html, pageURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", crawler.Errorf(crawler.EINVALID, "empty HTML input")
	}

	if pageURL == "" {
		return c.conv.ConvertString(html)
	}

	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "", crawler.Errorf(crawler.EINVALID, "invalid page URL %q", pageURL)
	}
	return c.conv.ConvertString(html, converter.WithDomain(u.Scheme+"://"+u.Host))
}
