package slog

import (
	"log/slog"

	"github.com/fwojciec/crawler/crawl"
)

// EventLogger returns a crawl.EventFunc that logs cycle outcomes. Failures
// and retries are logged at warn level, everything else at info.
func EventLogger(logger *slog.Logger) crawl.EventFunc {
	return func(e crawl.Event) {
		attrs := []any{"cycle", e.CycleID}
		if e.URL != "" {
			attrs = append(attrs, "url", e.URL)
		}

		switch e.Type {
		case crawl.EventFetched:
			logger.Info("page fetched", append(attrs, "status", e.Status, "links", e.Links)...)
		case crawl.EventSkipped:
			logger.Info("disallowed by robots.txt", attrs...)
		case crawl.EventExhausted:
			logger.Info("queue exhausted", attrs...)
		case crawl.EventRetry:
			logger.Warn("retrying fetch", append(attrs, "attempt", e.Attempt, "err", e.Error)...)
		case crawl.EventFailed:
			logger.Warn("cycle failed", append(attrs, "err", e.Error)...)
		}
	}
}
