package sqlite

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/crawler"
	"github.com/google/uuid"
)

var _ crawler.PageService = (*PageService)(nil)

// PageService implements crawler.PageService using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// CreatePage archives a page, assigning its ID, fingerprint, content hash
// and fetch time.
func (s *PageService) CreatePage(ctx context.Context, page *crawler.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}

	fingerprint, err := crawler.Fingerprint(page.URL)
	if err != nil {
		return err
	}

	page.ID = uuid.New().String()
	page.Fingerprint = fingerprint
	page.ContentHash = hashContent(page.Content)
	page.FetchedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pages (id, url, fingerprint, title, content, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, page.ID, page.URL, page.Fingerprint, page.Title, page.Content, page.ContentHash,
		page.FetchedAt.Format(timeFormat))

	return err
}

// FindPages retrieves pages matching the filter, most recent first.
func (s *PageService) FindPages(ctx context.Context, filter crawler.PageFilter) ([]*crawler.Page, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, fingerprint, title, content, content_hash, fetched_at FROM pages WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Fingerprint != nil {
		query.WriteString(" AND fingerprint = ?")
		args = append(args, *filter.Fingerprint)
	}

	query.WriteString(" ORDER BY fetched_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*crawler.Page
	for rows.Next() {
		var page crawler.Page
		var fetchedAt string

		if err := rows.Scan(&page.ID, &page.URL, &page.Fingerprint, &page.Title,
			&page.Content, &page.ContentHash, &fetchedAt); err != nil {
			return nil, err
		}

		page.FetchedAt, err = parseTimestamp(fetchedAt, "fetched_at")
		if err != nil {
			return nil, err
		}

		pages = append(pages, &page)
	}

	return pages, rows.Err()
}
