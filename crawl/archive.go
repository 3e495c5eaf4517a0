package crawl

import (
	"context"
	"fmt"
	"mime"

	"github.com/fwojciec/crawler"
)

var _ crawler.Handler = (*ArchiveHandler)(nil)

// ArchiveHandler stores the main content of every HTML page as Markdown.
// It discovers no URLs.
type ArchiveHandler struct {
	Extractor crawler.Extractor
	Converter crawler.Converter
	Pages     crawler.PageWriter
}

// Handle extracts, converts and saves the page. Responses that declare a
// non-HTML content type are ignored.
func (h *ArchiveHandler) Handle(ctx context.Context, c *crawler.Context) ([]string, error) {
	if !isHTML(c.Response) {
		return nil, nil
	}

	extracted, err := h.Extractor.Extract(c.URL, c.Body)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	markdown, err := h.Converter.Convert(extracted.ContentHTML, c.URL)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	page := &crawler.Page{
		URL:     c.URL,
		Title:   extracted.Title,
		Content: markdown,
	}
	if err := h.Pages.CreatePage(ctx, page); err != nil {
		return nil, fmt.Errorf("save page: %w", err)
	}
	return nil, nil
}

func isHTML(resp *crawler.Response) bool {
	if resp == nil || resp.Header == nil {
		return true
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
