package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/crawler"
	"github.com/fwojciec/crawler/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	DB      *sqlite.DB
	Pages   crawler.PageService
	Fetcher crawler.Fetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"CRAWLER_DB" default:"${default_db}" help:"SQLite database path"`
	Verbose bool   `short:"v" help:"Log every fetch, dequeue and handler call"`

	Crawl       CrawlCmd       `cmd:"" help:"Crawl from seed URLs"`
	Pages       PagesCmd       `cmd:"" help:"List archived pages"`
	Fingerprint FingerprintCmd `cmd:"" help:"Print the dedup fingerprint of URLs"`
	Apex        ApexCmd        `cmd:"" help:"Print the apex domain of hostnames"`
}

// needsDB reports whether the selected command reads or writes the database.
func (c *CLI) needsDB(command string) bool {
	switch strings.Fields(command)[0] {
	case "pages":
		return true
	case "crawl":
		return c.Crawl.Archive || c.Crawl.Persist
	}
	return false
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Seeds []string `arg:"" optional:"" help:"Seed URLs"`

	Interval        time.Duration `default:"1s" help:"Time between fetch admissions"`
	Concurrency     int           `short:"c" default:"5" help:"Maximum concurrent fetches"`
	RobotsCacheTime time.Duration `name:"robots-cache-time" default:"60m" help:"How long robots.txt is cached per domain"`
	UserAgent       string        `name:"user-agent" env:"CRAWLER_USER_AGENT" help:"User-Agent header"`
	KeepAlive       bool          `name:"keep-alive" default:"true" negatable:"" help:"Reuse connections between requests"`
	Timeout         time.Duration `default:"10s" help:"Per-request timeout"`
	MaxBodySize     int64         `name:"max-body-size" default:"10485760" help:"Largest response body accepted, in bytes"`
	Retries         int           `default:"0" help:"Retries for failed page fetches (max 3)"`
	Rate            float64       `default:"0" help:"Requests per second per apex domain (0 disables)"`

	Hostnames []string `name:"hostname" short:"H" help:"Follow links only to these hostnames or apex domains (default: the seeds' apex domains)"`
	Exclude   []string `short:"x" help:"Never follow links to these hostnames or apex domains"`
	NoFollow  bool     `name:"no-follow" help:"Fetch the seeds only"`
	MaxPages  int      `name:"max-pages" default:"0" help:"Stop after this many pages (0 means no limit)"`

	Archive   bool   `short:"a" help:"Store extracted page content in the database"`
	Out       string `short:"o" type:"path" help:"Also write extracted page content as markdown files under this directory"`
	Extractor string `enum:"trafilatura,readability" default:"trafilatura" help:"Main content extractor for archived pages (trafilatura, readability)"`
	Persist   bool   `help:"Keep the URL frontier in the database so an interrupted crawl can resume"`
}

// PagesCmd is the "pages" subcommand.
type PagesCmd struct {
	URL   string `help:"Show only pages with this exact URL"`
	Limit int    `short:"n" default:"20" help:"Maximum pages to list"`
	Full  bool   `help:"Show full page content"`
}

// FingerprintCmd is the "fingerprint" subcommand.
type FingerprintCmd struct {
	URLs []string `arg:"" name:"url" help:"URLs to fingerprint"`
}

// ApexCmd is the "apex" subcommand.
type ApexCmd struct {
	Hostnames []string `arg:"" name:"hostname" help:"Hostnames to reduce"`
}
