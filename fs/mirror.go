// Package fs provides file-based storage for archived pages.
package fs

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/crawler"
)

var _ crawler.PageWriter = (*Mirror)(nil)

// Mirror writes archived pages as markdown files laid out by host and path.
// Each file is written to a temporary name and renamed into place, so a
// reader never sees a partial page.
type Mirror struct {
	baseDir string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewMirror creates a Mirror rooted at baseDir.
func NewMirror(baseDir string) *Mirror {
	return &Mirror{
		baseDir: baseDir,
		Now:     time.Now,
	}
}

// CreatePage writes page to baseDir/<host>/<path>.md, replacing any earlier
// copy of the same URL. FetchedAt is set if empty.
func (m *Mirror) CreatePage(_ context.Context, page *crawler.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}
	if page.FetchedAt.IsZero() {
		page.FetchedAt = m.Now().UTC()
	}

	fullPath := filepath.Join(m.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".page-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(FormatPage(page)); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fullPath)
}

// URLToPath converts a page URL to a relative file path under its host.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", crawler.Errorf(crawler.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", crawler.Errorf(crawler.EINVALID, "URL %q has no host", rawURL)
	}
	host := strings.ReplaceAll(u.Host, ":", "_")

	// Root or trailing slash → index.md
	p := path.Clean("/" + u.Path)
	if p == "/" {
		return filepath.Join(host, "index.md"), nil
	}
	p = strings.TrimPrefix(p, "/")
	if strings.HasSuffix(u.Path, "/") {
		return filepath.Join(host, filepath.FromSlash(p), "index.md"), nil
	}
	return filepath.Join(host, filepath.FromSlash(p)+".md"), nil
}

// FormatPage formats a page with YAML frontmatter.
func FormatPage(page *crawler.Page) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	b.WriteString("\ncrawled: ")
	b.WriteString(page.FetchedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(page.Content)
	return b.String()
}
