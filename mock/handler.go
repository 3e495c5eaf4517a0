package mock

import (
	"context"

	"github.com/fwojciec/crawler"
)

var _ crawler.Handler = (*Handler)(nil)

// Handler is a mock implementation of crawler.Handler.
type Handler struct {
	HandleFn func(ctx context.Context, c *crawler.Context) ([]string, error)
}

func (h *Handler) Handle(ctx context.Context, c *crawler.Context) ([]string, error) {
	return h.HandleFn(ctx, c)
}

var _ crawler.RobotsService = (*RobotsService)(nil)

// RobotsService is a mock implementation of crawler.RobotsService.
type RobotsService struct {
	DirectivesFn func(ctx context.Context, domain string) (crawler.Directives, error)
}

func (s *RobotsService) Directives(ctx context.Context, domain string) (crawler.Directives, error) {
	return s.DirectivesFn(ctx, domain)
}
