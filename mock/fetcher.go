package mock

import (
	"context"

	"github.com/fwojciec/crawler"
)

var _ crawler.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of crawler.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*crawler.Response, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*crawler.Response, error) {
	return f.FetchFn(ctx, url)
}

var _ crawler.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of crawler.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
