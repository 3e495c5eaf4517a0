package crawl_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/crawler"
	"github.com/fwojciec/crawler/crawl"
	"github.com/fwojciec/crawler/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock for RobotsCache.Now.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func robotsFetcher(body string, calls *atomic.Int64) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*crawler.Response, error) {
			calls.Add(1)
			return &crawler.Response{URL: url, StatusCode: 200, Body: []byte(body)}, nil
		},
	}
}

func TestRobotsCache_Directives(t *testing.T) {
	t.Parallel()

	t.Run("fetches robots.txt from the domain root", func(t *testing.T) {
		t.Parallel()

		var requested string
		cache := crawl.NewRobotsCache(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*crawler.Response, error) {
				requested = url
				return &crawler.Response{URL: url, StatusCode: 200, Body: []byte("User-agent: *\nDisallow: /private\n")}, nil
			},
		}, time.Hour)

		d, err := cache.Directives(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/robots.txt", requested)
		assert.Equal(t, []string{"/private"}, d.Disallow)
		assert.False(t, d.Allows("/private/page"))
		assert.True(t, d.Allows("/public"))
	})

	t.Run("uses the configured scheme", func(t *testing.T) {
		t.Parallel()

		var requested string
		cache := crawl.NewRobotsCache(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*crawler.Response, error) {
				requested = url
				return &crawler.Response{URL: url, StatusCode: 200}, nil
			},
		}, time.Hour)
		cache.Scheme = "http"

		_, err := cache.Directives(context.Background(), "127.0.0.1:8080")

		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:8080/robots.txt", requested)
	})

	t.Run("serves fresh entries from the cache", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		clock := newFakeClock()
		cache := crawl.NewRobotsCache(robotsFetcher("Disallow: /a", &calls), time.Hour)
		cache.Now = clock.Now

		_, err := cache.Directives(context.Background(), "example.com")
		require.NoError(t, err)
		clock.Advance(59 * time.Minute)
		d, err := cache.Directives(context.Background(), "example.com")
		require.NoError(t, err)

		assert.Equal(t, int64(1), calls.Load())
		assert.Equal(t, []string{"/a"}, d.Disallow)
	})

	t.Run("refetches once the entry is as old as the TTL", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		clock := newFakeClock()
		cache := crawl.NewRobotsCache(robotsFetcher("Disallow: /a", &calls), time.Hour)
		cache.Now = clock.Now

		_, err := cache.Directives(context.Background(), "example.com")
		require.NoError(t, err)
		clock.Advance(time.Hour)
		_, err = cache.Directives(context.Background(), "example.com")
		require.NoError(t, err)

		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("keeps domains separate", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		cache := crawl.NewRobotsCache(robotsFetcher("", &calls), time.Hour)

		_, _ = cache.Directives(context.Background(), "example.com")
		_, _ = cache.Directives(context.Background(), "example.org")

		assert.Equal(t, int64(2), calls.Load())
		assert.Equal(t, 2, cache.Len())
	})

	t.Run("treats a failed fetch as no restrictions and caches it", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		clock := newFakeClock()
		cache := crawl.NewRobotsCache(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*crawler.Response, error) {
				calls.Add(1)
				return nil, crawler.StatusErrorf(404, "HTTP 404 for %s", url)
			},
		}, time.Hour)
		cache.Now = clock.Now

		d, err := cache.Directives(context.Background(), "example.com")
		require.NoError(t, err)
		assert.Empty(t, d.Disallow)
		assert.True(t, d.Allows("/anything"))

		clock.Advance(30 * time.Minute)
		_, err = cache.Directives(context.Background(), "example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(1), calls.Load())

		clock.Advance(30 * time.Minute)
		_, err = cache.Directives(context.Background(), "example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("falls back to http when https is unreachable", func(t *testing.T) {
		t.Parallel()

		var requested []string
		cache := crawl.NewRobotsCache(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*crawler.Response, error) {
				requested = append(requested, url)
				if strings.HasPrefix(url, "https://") {
					return nil, errors.New("connection refused")
				}
				return &crawler.Response{URL: url, StatusCode: 200, Body: []byte("Disallow: /admin")}, nil
			},
		}, time.Hour)

		d, err := cache.Directives(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/robots.txt", "http://example.com/robots.txt"}, requested)
		assert.Equal(t, []string{"/admin"}, d.Disallow)
	})

	t.Run("does not fall back when the server answered", func(t *testing.T) {
		t.Parallel()

		var requested []string
		cache := crawl.NewRobotsCache(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*crawler.Response, error) {
				requested = append(requested, url)
				return nil, crawler.StatusErrorf(404, "HTTP 404 for %s", url)
			},
		}, time.Hour)

		_, err := cache.Directives(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/robots.txt"}, requested)
	})

	t.Run("returns the context error without caching", func(t *testing.T) {
		t.Parallel()

		cache := crawl.NewRobotsCache(&mock.Fetcher{
			FetchFn: func(ctx context.Context, _ string) (*crawler.Response, error) {
				return nil, ctx.Err()
			},
		}, time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := cache.Directives(ctx, "example.com")

		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("coalesces concurrent misses for one domain", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		release := make(chan struct{})
		cache := crawl.NewRobotsCache(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*crawler.Response, error) {
				calls.Add(1)
				<-release
				return &crawler.Response{URL: url, StatusCode: 200, Body: []byte("Disallow: /x")}, nil
			},
		}, time.Hour)

		const n = 10
		var wg sync.WaitGroup
		results := make([]crawler.Directives, n)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], _ = cache.Directives(context.Background(), "example.com")
			}()
		}
		time.Sleep(100 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int64(1), calls.Load())
		for _, d := range results {
			assert.Equal(t, []string{"/x"}, d.Disallow)
		}
	})
}

func TestRobotsCache_TTL(t *testing.T) {
	t.Parallel()

	cache := crawl.NewRobotsCache(&mock.Fetcher{}, 30*time.Minute)

	assert.Equal(t, 30*time.Minute, cache.TTL())
}
