package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/crawler"
)

var _ crawler.Handler = (*LoggingHandler)(nil)

// LoggingHandler wraps a Handler with debug logging under a name.
type LoggingHandler struct {
	name   string
	next   crawler.Handler
	logger *slog.Logger
}

// NewLoggingHandler creates a new LoggingHandler.
func NewLoggingHandler(name string, next crawler.Handler, logger *slog.Logger) *LoggingHandler {
	return &LoggingHandler{name: name, next: next, logger: logger}
}

// Handle delegates to the wrapped handler.
func (h *LoggingHandler) Handle(ctx context.Context, c *crawler.Context) (links []string, err error) {
	defer func(begin time.Time) {
		h.logger.Debug("handle",
			"handler", h.name,
			"url", c.URL,
			"links", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return h.next.Handle(ctx, c)
}
