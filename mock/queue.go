package mock

import (
	"context"

	"github.com/fwojciec/crawler"
)

var _ crawler.URLQueue = (*URLQueue)(nil)

// URLQueue is a mock implementation of crawler.URLQueue.
type URLQueue struct {
	NextURLFn func(ctx context.Context) (string, error)
}

func (q *URLQueue) NextURL(ctx context.Context) (string, error) {
	return q.NextURLFn(ctx)
}

var (
	_ crawler.URLQueue    = (*InsertableQueue)(nil)
	_ crawler.URLInserter = (*InsertableQueue)(nil)
)

// InsertableQueue is a mock queue that also implements crawler.URLInserter.
type InsertableQueue struct {
	NextURLFn func(ctx context.Context) (string, error)
	InsertFn  func(ctx context.Context, urls ...string) (int, error)
}

func (q *InsertableQueue) NextURL(ctx context.Context) (string, error) {
	return q.NextURLFn(ctx)
}

func (q *InsertableQueue) Insert(ctx context.Context, urls ...string) (int, error) {
	return q.InsertFn(ctx, urls...)
}

var (
	_ crawler.URLQueue     = (*CompletingQueue)(nil)
	_ crawler.URLCompleter = (*CompletingQueue)(nil)
)

// CompletingQueue is a mock queue that also implements crawler.URLCompleter.
type CompletingQueue struct {
	NextURLFn  func(ctx context.Context) (string, error)
	CompleteFn func(ctx context.Context, url string) error
}

func (q *CompletingQueue) NextURL(ctx context.Context) (string, error) {
	return q.NextURLFn(ctx)
}

func (q *CompletingQueue) Complete(ctx context.Context, url string) error {
	return q.CompleteFn(ctx, url)
}
