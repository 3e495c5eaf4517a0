package crawler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Directives holds the Disallow path prefixes parsed from a robots.txt file.
// User-agent grouping, Allow and Crawl-delay are not interpreted.
type Directives struct {
	Disallow []string
}

// Allows reports whether path is not matched by any Disallow prefix.
// Only the path portion of a URL should be passed; an empty path is "/".
func (d Directives) Allows(path string) bool {
	if path == "" {
		path = "/"
	}
	for _, prefix := range d.Disallow {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// RobotsService resolves robots directives for an apex domain.
type RobotsService interface {
	Directives(ctx context.Context, domain string) (Directives, error)
}

// ParseDirectives reads a robots.txt body and collects its Disallow values in order.
// An empty Disallow value disallows nothing and is skipped.
func ParseDirectives(r io.Reader) (Directives, error) {
	var d Directives
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx != -1 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)

		// Case-insensitive check for Disallow: directive
		if !strings.HasPrefix(strings.ToLower(line), "disallow:") {
			continue
		}
		path := strings.TrimSpace(line[9:]) // len("disallow:") == 9
		if path != "" {
			d.Disallow = append(d.Disallow, path)
		}
	}
	if err := scanner.Err(); err != nil {
		return Directives{}, fmt.Errorf("reading robots.txt: %w", err)
	}
	return d, nil
}
