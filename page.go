package crawler

import (
	"context"
	"time"
)

// Page represents an archived crawled page.
type Page struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Fingerprint string    `json:"fingerprint"`
	Title       string    `json:"title"`
	Content     string    `json:"content"` // Markdown
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	return nil
}

// PageWriter stores archived pages.
type PageWriter interface {
	// CreatePage stores a new page. Fields left empty, such as the ID or
	// fetch time, are assigned by the implementation.
	CreatePage(ctx context.Context, page *Page) error
}

// PageService represents a service for archiving and querying pages.
type PageService interface {
	PageWriter

	// FindPages retrieves pages matching the filter, most recent first.
	FindPages(ctx context.Context, filter PageFilter) ([]*Page, error)
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	URL         *string `json:"url"`
	Fingerprint *string `json:"fingerprint"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
