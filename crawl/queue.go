package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/crawler"
)

// Compile-time interface verification.
var (
	_ crawler.URLQueue    = (*FIFOQueue)(nil)
	_ crawler.URLInserter = (*FIFOQueue)(nil)
)

// FIFOQueue serves URLs in insertion order.
// It is safe for concurrent use by multiple goroutines.
type FIFOQueue struct {
	mu   sync.Mutex
	urls []string
}

// NewFIFOQueue creates a queue seeded with urls.
func NewFIFOQueue(urls ...string) *FIFOQueue {
	return &FIFOQueue{urls: append([]string(nil), urls...)}
}

// NextURL removes and returns the oldest URL.
// Returns ErrExhausted when the queue is empty.
func (q *FIFOQueue) NextURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.urls) == 0 {
		return "", crawler.ErrExhausted
	}
	url := q.urls[0]
	q.urls[0] = ""
	q.urls = q.urls[1:]
	return url, nil
}

// Insert appends urls to the tail of the queue. Empty strings are ignored.
func (q *FIFOQueue) Insert(_ context.Context, urls ...string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, url := range urls {
		if url == "" {
			continue
		}
		q.urls = append(q.urls, url)
		n++
	}
	return n, nil
}

// Len returns the number of queued URLs.
func (q *FIFOQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.urls)
}
