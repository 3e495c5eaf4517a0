// Package http provides an HTTP implementation of crawler.Fetcher.
package http

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/crawler"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultFetchTimeout is the default timeout for HTTP requests.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultUserAgent identifies the crawler to servers.
	DefaultUserAgent = "crawler/1.0 (+https://github.com/fwojciec/crawler)"

	// DefaultMaxBodySize caps the bytes read from a single response.
	DefaultMaxBodySize = 10 << 20
)

var _ crawler.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with plain HTTP GET requests. Text responses are
// decoded to UTF-8 using the charset from the Content-Type header or the
// document itself.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	keepAlive   bool
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithKeepAlive toggles connection reuse between requests. Enabled by default.
func WithKeepAlive(enabled bool) Option {
	return func(f *Fetcher) {
		f.keepAlive = enabled
	}
}

// WithMaxBodySize sets the largest response body accepted, in bytes.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		keepAlive:   true,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = !f.keepAlive

	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: transport,
	}

	return f
}

// Fetch retrieves url. Responses outside the 2xx range are EFETCH errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*crawler.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, crawler.Errorf(crawler.EINVALID, "invalid request for %s: %v", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, crawler.StatusErrorf(resp.StatusCode, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, crawler.Errorf(crawler.EFETCH, "body of %s exceeds %d bytes", url, f.maxBodySize)
	}

	body, err = decode(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	return &crawler.Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// decode converts text bodies to UTF-8. Other media types pass through.
func decode(body []byte, contentType string) ([]byte, error) {
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && !strings.HasPrefix(mediaType, "text/") && !strings.Contains(mediaType, "html") {
			return body, nil
		}
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return body, nil
	}
	return io.ReadAll(r)
}
