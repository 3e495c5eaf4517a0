package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/crawler"
	"golang.org/x/time/rate"
)

var _ crawler.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces page requests per apex domain using token buckets.
// It applies on top of the engine's admission interval.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each domain with the given burst. A burst below 1 is treated as 1.
func NewDomainLimiter(rps float64, burst int) *DomainLimiter {
	if burst < 1 {
		burst = 1
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), d.burst)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// Len returns the number of domains with a limiter.
func (d *DomainLimiter) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.limiters)
}
