package crawler

import "context"

// URLQueue supplies the next URL to crawl.
// Implementations may be FIFO, persistent, priority ordered or deduplicating.
type URLQueue interface {
	// NextURL returns the next URL to crawl.
	// Returns an error matching ErrExhausted when the queue is permanently
	// out of URLs; any other error is treated as transient.
	NextURL(ctx context.Context) (string, error)
}

// URLInserter is implemented by queues that accept newly discovered URLs.
// Handler output is fed back through it.
type URLInserter interface {
	// Insert adds urls to the queue and returns how many were accepted.
	Insert(ctx context.Context, urls ...string) (int, error)
}

// URLCompleter is implemented by queues that track finished URLs, such as a
// persistent frontier that resumes interrupted crawls. The engine calls
// Complete once a dequeued URL has been fetched, skipped or has failed.
type URLCompleter interface {
	Complete(ctx context.Context, url string) error
}
