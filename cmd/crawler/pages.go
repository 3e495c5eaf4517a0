package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/crawler"
)

// Run executes the pages command.
func (c *PagesCmd) Run(deps *Dependencies) error {
	filter := crawler.PageFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	pages, err := deps.Pages.FindPages(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", crawler.ErrorMessage(err))
		return err
	}

	if len(pages) == 0 {
		fmt.Fprintln(deps.Stdout, "No pages found. Use 'crawler crawl --archive' to store some.")
		return nil
	}

	for _, p := range pages {
		title := p.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", p.FetchedAt.Format(time.DateTime), p.URL, title)
		if c.Full {
			fmt.Fprintln(deps.Stdout)
			fmt.Fprintln(deps.Stdout, strings.TrimSpace(p.Content))
			fmt.Fprintln(deps.Stdout)
		}
	}

	return nil
}
