package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"

	"github.com/fwojciec/crawler"
	"github.com/fwojciec/crawler/crawl"
	"github.com/fwojciec/crawler/fs"
	"github.com/fwojciec/crawler/goquery"
	"github.com/fwojciec/crawler/htmltomarkdown"
	crawlerhttp "github.com/fwojciec/crawler/http"
	"github.com/fwojciec/crawler/readability"
	crawlerslog "github.com/fwojciec/crawler/slog"
	"github.com/fwojciec/crawler/sqlite"
	"github.com/fwojciec/crawler/trafilatura"
	"golang.org/x/sync/errgroup"
)

// Sizing for the in-memory dedup filter.
const (
	expectedURLs      = 100_000
	falsePositiveRate = 0.001
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	if err := c.validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", crawler.ErrorMessage(err))
		return err
	}

	queue, err := c.queue(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", crawler.ErrorMessage(err))
		return err
	}

	fetcher := deps.Fetcher
	if fetcher == nil {
		f := crawlerhttp.NewFetcher(
			crawlerhttp.WithTimeout(c.Timeout),
			crawlerhttp.WithKeepAlive(c.KeepAlive),
			crawlerhttp.WithUserAgent(c.userAgent()),
			crawlerhttp.WithMaxBodySize(c.MaxBodySize),
		)
		defer f.Close()
		fetcher = f
	}
	if c.verbose(deps) {
		fetcher = crawlerslog.NewLoggingFetcher(fetcher, deps.Logger)
		queue = crawlerslog.NewLoggingQueue(queue, deps.Logger)
	}

	engine, err := crawl.NewEngine(fetcher, crawl.Config{
		Interval:                c.Interval,
		ConcurrentRequestsLimit: c.Concurrency,
		RobotsCacheTime:         c.RobotsCacheTime,
		Queue:                   queue,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", crawler.ErrorMessage(err))
		return err
	}
	engine.Handlers = c.handlers(deps)
	if c.Retries > 0 {
		engine.RetryDelays = crawl.DefaultRetryDelays()[:c.Retries]
	}
	if c.Rate > 0 {
		engine.RateLimiter = crawl.NewDomainLimiter(c.Rate, 1)
	}

	var stats crawl.Stats
	logEvent := crawlerslog.EventLogger(deps.Logger)
	var stopOnce sync.Once
	engine.Events = func(e crawl.Event) {
		stats.Record(e)
		logEvent(e)
		if c.MaxPages > 0 && stats.Fetched() >= c.MaxPages {
			stopOnce.Do(engine.Stop)
		}
	}

	// A signal stops admissions; in-flight fetches are allowed to finish.
	ctx, cancel := context.WithCancel(deps.Ctx)
	defer cancel()
	engine.Start(context.WithoutCancel(ctx))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		engine.Wait()
		cancel()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		engine.Stop()
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Crawled %s\n", stats.String())
	return nil
}

func (c *CrawlCmd) validate() error {
	if c.Retries < 0 || c.Retries > len(crawl.DefaultRetryDelays()) {
		return crawler.Errorf(crawler.EINVALID, "retries must be between 0 and %d", len(crawl.DefaultRetryDelays()))
	}
	if c.MaxBodySize <= 0 {
		return crawler.Errorf(crawler.EINVALID, "max body size must be positive")
	}
	for _, s := range c.Seeds {
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return crawler.Errorf(crawler.EINVALID, "invalid seed URL %q", s)
		}
	}
	if len(c.Seeds) == 0 && !c.Persist {
		return crawler.Errorf(crawler.EINVALID, "at least one seed URL is required")
	}
	return nil
}

// queue builds the frontier: the database queue when persisting, otherwise
// an in-memory FIFO queue deduplicated by fingerprint.
func (c *CrawlCmd) queue(deps *Dependencies) (crawl.InsertableQueue, error) {
	var queue crawl.InsertableQueue
	if c.Persist {
		q := sqlite.NewQueue(deps.DB)
		n, err := q.Requeue(deps.Ctx)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			fmt.Fprintf(deps.Stdout, "Resuming %d interrupted URLs\n", n)
		}
		queue = q
	} else {
		queue = crawl.NewDedupQueue(crawl.NewFIFOQueue(), expectedURLs, falsePositiveRate)
	}

	if _, err := queue.Insert(deps.Ctx, c.Seeds...); err != nil {
		return nil, err
	}
	return queue, nil
}

func (c *CrawlCmd) handlers(deps *Dependencies) []crawler.Handler {
	var handlers []crawler.Handler
	if !c.NoFollow {
		handlers = append(handlers, c.wrap(deps, "links", &goquery.LinkHandler{
			Hostnames:         c.allowedHostnames(),
			ExcludedHostnames: c.Exclude,
		}))
	}
	var writers pageWriters
	if c.Archive {
		writers = append(writers, deps.Pages)
	}
	if c.Out != "" {
		writers = append(writers, fs.NewMirror(c.Out))
	}
	if len(writers) > 0 {
		handlers = append(handlers, c.wrap(deps, "archive", &crawl.ArchiveHandler{
			Extractor: c.extractor(),
			Converter: htmltomarkdown.NewConverter(),
			Pages:     writers,
		}))
	}
	return handlers
}

func (c *CrawlCmd) extractor() crawler.Extractor {
	if c.Extractor == "readability" {
		return readability.NewExtractor()
	}
	return trafilatura.NewExtractor()
}

// pageWriters saves each page to every writer in turn.
type pageWriters []crawler.PageWriter

func (w pageWriters) CreatePage(ctx context.Context, page *crawler.Page) error {
	for _, pw := range w {
		p := *page
		if err := pw.CreatePage(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}

func (c *CrawlCmd) wrap(deps *Dependencies, name string, h crawler.Handler) crawler.Handler {
	if c.verbose(deps) {
		return crawlerslog.NewLoggingHandler(name, h, deps.Logger)
	}
	return h
}

// allowedHostnames defaults to the apex domains of the seeds. Without
// seeds links are not restricted.
func (c *CrawlCmd) allowedHostnames() []string {
	if len(c.Hostnames) > 0 {
		return c.Hostnames
	}
	var hosts []string
	for _, s := range c.Seeds {
		u, err := url.Parse(s)
		if err != nil {
			continue
		}
		apex := crawler.ApexDomain(u.Hostname())
		if !slices.Contains(hosts, apex) {
			hosts = append(hosts, apex)
		}
	}
	return hosts
}

func (c *CrawlCmd) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return crawlerhttp.DefaultUserAgent
}

func (c *CrawlCmd) verbose(deps *Dependencies) bool {
	return deps.Logger.Enabled(deps.Ctx, slog.LevelDebug)
}
