package crawler

import (
	"context"
	"net/http"
)

// Response is the result of fetching a URL.
type Response struct {
	// URL is the final URL after redirects.
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fetcher retrieves resources over the network.
type Fetcher interface {
	// Fetch performs a GET request for url.
	// Non-2xx responses are reported as EFETCH errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Response, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
