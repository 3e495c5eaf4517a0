package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/crawler"
	"github.com/fwojciec/crawler/bloom"
)

// Compile-time interface verification.
var (
	_ crawler.URLQueue    = (*DedupQueue)(nil)
	_ crawler.URLInserter = (*DedupQueue)(nil)
)

// InsertableQueue is a queue that also accepts new URLs.
type InsertableQueue interface {
	crawler.URLQueue
	crawler.URLInserter
}

// DedupQueue wraps a queue and drops inserted URLs whose fingerprint has
// already been seen. URLs differing only by query string are duplicates.
// Deduplication uses a Bloom filter, so a small fraction of new URLs may be
// dropped as false positives; no duplicate is ever let through.
// It is safe for concurrent use by multiple goroutines.
type DedupQueue struct {
	mu   sync.Mutex
	seen *bloom.Filter
	next InsertableQueue
}

// NewDedupQueue wraps next with a Bloom filter sized for n expected URLs
// at the given false positive rate.
func NewDedupQueue(next InsertableQueue, n uint, fpRate float64) *DedupQueue {
	return &DedupQueue{
		seen: bloom.NewFilter(n, fpRate),
		next: next,
	}
}

// NextURL delegates to the wrapped queue.
func (q *DedupQueue) NextURL(ctx context.Context) (string, error) {
	return q.next.NextURL(ctx)
}

// Insert forwards URLs not seen before to the wrapped queue and returns
// how many were accepted. Unparseable URLs are dropped.
func (q *DedupQueue) Insert(ctx context.Context, urls ...string) (int, error) {
	q.mu.Lock()
	var fresh []string
	for _, url := range urls {
		fp, err := crawler.Fingerprint(url)
		if err != nil {
			continue
		}
		if q.seen.TestAndAdd(fp) {
			continue
		}
		fresh = append(fresh, url)
	}
	q.mu.Unlock()

	if len(fresh) == 0 {
		return 0, nil
	}
	return q.next.Insert(ctx, fresh...)
}

// Seen returns true if a URL with the same fingerprint was inserted before.
func (q *DedupQueue) Seen(url string) bool {
	fp, err := crawler.Fingerprint(url)
	if err != nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.seen.Test(fp)
}
