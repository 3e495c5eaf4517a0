package crawl

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/crawler"
)

// RetryFunc is called before each retry with the attempt about to be made
// (2 for the first retry) and the error of the previous attempt.
type RetryFunc func(attempt int, err error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url, retrying after each delay in delays when the
// fetch fails. With no delays it makes a single attempt. Client errors
// (4xx other than 408 and 429) are permanent and returned at once.
// onRetry, if provided, is called for each retry attempt.
func FetchWithRetry(ctx context.Context, fetcher crawler.Fetcher, url string, delays []time.Duration, onRetry RetryFunc) (*crawler.Response, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := fetcher.Fetch(ctx, url)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || permanent(err) {
			break
		}

		// Check context before sleeping
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

// permanent reports whether a fetch error will not go away on retry.
func permanent(err error) bool {
	status := crawler.ErrorStatus(err)
	if status == http.StatusRequestTimeout || status == http.StatusTooManyRequests {
		return false
	}
	return status >= 400 && status < 500
}
