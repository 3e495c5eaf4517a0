package mock

import (
	"context"

	"github.com/fwojciec/crawler"
)

var _ crawler.PageService = (*PageService)(nil)

// PageService is a mock implementation of crawler.PageService.
type PageService struct {
	CreatePageFn func(ctx context.Context, page *crawler.Page) error
	FindPagesFn  func(ctx context.Context, filter crawler.PageFilter) ([]*crawler.Page, error)
}

func (s *PageService) CreatePage(ctx context.Context, page *crawler.Page) error {
	return s.CreatePageFn(ctx, page)
}

func (s *PageService) FindPages(ctx context.Context, filter crawler.PageFilter) ([]*crawler.Page, error) {
	return s.FindPagesFn(ctx, filter)
}
