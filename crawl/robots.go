package crawl

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/fwojciec/crawler"
	"golang.org/x/sync/singleflight"
)

var _ crawler.RobotsService = (*RobotsCache)(nil)

// RobotsCache resolves robots.txt directives per apex domain and keeps them
// for a fixed time-to-live. Expiry is checked lazily on access. Concurrent
// misses for the same domain share a single fetch.
type RobotsCache struct {
	fetcher crawler.Fetcher
	ttl     time.Duration

	// Scheme used to build robots.txt URLs. Defaults to "https", with a
	// second attempt over http when the https request gets no response.
	Scheme string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]robotsEntry
	group   singleflight.Group
}

type robotsEntry struct {
	directives crawler.Directives
	fetchedAt  time.Time
}

// NewRobotsCache creates a RobotsCache that fetches through fetcher and
// treats entries older than ttl as absent.
func NewRobotsCache(fetcher crawler.Fetcher, ttl time.Duration) *RobotsCache {
	return &RobotsCache{
		fetcher: fetcher,
		ttl:     ttl,
		Scheme:  "https",
		Now:     time.Now,
		entries: make(map[string]robotsEntry),
	}
}

// TTL returns how long fetched directives stay fresh.
func (c *RobotsCache) TTL() time.Duration {
	return c.ttl
}

// Directives returns the directives for domain, fetching robots.txt if the
// cached entry is missing or stale. A failed fetch yields empty directives,
// which are cached like any other result so that an unreachable robots.txt
// is retried once per TTL window. Only a canceled context is an error.
func (c *RobotsCache) Directives(ctx context.Context, domain string) (crawler.Directives, error) {
	if d, ok := c.lookup(domain); ok {
		return d, nil
	}

	v, err, _ := c.group.Do(domain, func() (any, error) {
		// A flight that finished just before this one may have refreshed the entry.
		if d, ok := c.lookup(domain); ok {
			return d, nil
		}
		d := c.fetch(ctx, domain)
		if err := ctx.Err(); err != nil {
			return crawler.Directives{}, err
		}
		c.store(domain, d)
		return d, nil
	})
	if err != nil {
		return crawler.Directives{}, err
	}
	d, _ := v.(crawler.Directives)
	return d, nil
}

// Len returns the number of cached domains, fresh or stale.
func (c *RobotsCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *RobotsCache) lookup(domain string) (crawler.Directives, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[domain]
	if !ok {
		return crawler.Directives{}, false
	}
	if c.Now().Sub(entry.fetchedAt) >= c.ttl {
		return crawler.Directives{}, false
	}
	return entry.directives, true
}

func (c *RobotsCache) store(domain string, d crawler.Directives) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[domain] = robotsEntry{directives: d, fetchedAt: c.Now()}
}

// fetch downloads and parses robots.txt. A site unreachable over https is
// tried again over http; any failure after that means no restrictions.
func (c *RobotsCache) fetch(ctx context.Context, domain string) crawler.Directives {
	scheme := c.Scheme
	if scheme == "" {
		scheme = "https"
	}

	resp, err := c.fetcher.Fetch(ctx, scheme+"://"+domain+"/robots.txt")
	if err != nil && scheme == "https" && ctx.Err() == nil && crawler.ErrorStatus(err) == 0 {
		resp, err = c.fetcher.Fetch(ctx, "http://"+domain+"/robots.txt")
	}
	if err != nil || resp == nil {
		return crawler.Directives{}
	}

	d, err := crawler.ParseDirectives(bytes.NewReader(resp.Body))
	if err != nil {
		return crawler.Directives{}
	}
	return d
}
