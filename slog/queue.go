package slog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/crawler"
	"github.com/fwojciec/crawler/crawl"
)

var (
	_ crawler.URLQueue     = (*LoggingQueue)(nil)
	_ crawler.URLInserter  = (*LoggingQueue)(nil)
	_ crawler.URLCompleter = (*LoggingQueue)(nil)
)

// LoggingQueue wraps a queue with debug logging. Exhaustion is not logged
// as an error.
type LoggingQueue struct {
	next   crawl.InsertableQueue
	logger *slog.Logger
}

// NewLoggingQueue creates a new LoggingQueue.
func NewLoggingQueue(next crawl.InsertableQueue, logger *slog.Logger) *LoggingQueue {
	return &LoggingQueue{next: next, logger: logger}
}

// NextURL delegates to the wrapped queue.
func (q *LoggingQueue) NextURL(ctx context.Context) (url string, err error) {
	defer func(begin time.Time) {
		if errors.Is(err, crawler.ErrExhausted) {
			q.logger.Debug("queue exhausted")
			return
		}
		q.logger.Debug("dequeue",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return q.next.NextURL(ctx)
}

// Insert delegates to the wrapped queue.
func (q *LoggingQueue) Insert(ctx context.Context, urls ...string) (n int, err error) {
	defer func(begin time.Time) {
		q.logger.Debug("enqueue",
			"offered", len(urls),
			"added", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return q.next.Insert(ctx, urls...)
}

// Complete forwards to the wrapped queue if it tracks finished URLs.
func (q *LoggingQueue) Complete(ctx context.Context, url string) (err error) {
	completer, ok := q.next.(crawler.URLCompleter)
	if !ok {
		return nil
	}
	defer func(begin time.Time) {
		q.logger.Debug("complete",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return completer.Complete(ctx, url)
}
