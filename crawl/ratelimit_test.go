package crawl_test

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/fwojciec/crawler/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	// waitAt records the virtual time at which each Wait returns.
	waitAt := func(t *testing.T, l *crawl.DomainLimiter, domains ...string) []time.Duration {
		t.Helper()
		start := time.Now()
		var at []time.Duration
		for _, d := range domains {
			require.NoError(t, l.Wait(context.Background(), d))
			at = append(at, time.Since(start))
		}
		return at
	}

	t.Run("spaces requests to one domain", func(t *testing.T) {
		t.Parallel()

		synctest.Test(t, func(t *testing.T) {
			l := crawl.NewDomainLimiter(10, 1)

			at := waitAt(t, l, "example.com", "example.com", "example.com")

			assert.InDeltaSlice(t, []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}, at, float64(time.Millisecond))
		})
	})

	t.Run("burst admits back-to-back requests", func(t *testing.T) {
		t.Parallel()

		synctest.Test(t, func(t *testing.T) {
			l := crawl.NewDomainLimiter(1, 3)

			at := waitAt(t, l, "example.com", "example.com", "example.com", "example.com")

			assert.InDeltaSlice(t, []time.Duration{0, 0, 0, time.Second}, at, float64(time.Millisecond))
		})
	})

	t.Run("keeps domains independent", func(t *testing.T) {
		t.Parallel()

		synctest.Test(t, func(t *testing.T) {
			l := crawl.NewDomainLimiter(1, 1)

			at := waitAt(t, l, "example.com", "example.org", "example.net")

			assert.InDeltaSlice(t, []time.Duration{0, 0, 0}, at, float64(time.Millisecond))
			assert.Equal(t, 3, l.Len())
		})
	})

	t.Run("treats a burst below one as one", func(t *testing.T) {
		t.Parallel()

		synctest.Test(t, func(t *testing.T) {
			l := crawl.NewDomainLimiter(2, 0)

			at := waitAt(t, l, "example.com", "example.com")

			assert.InDeltaSlice(t, []time.Duration{0, 500 * time.Millisecond}, at, float64(time.Millisecond))
		})
	})

	t.Run("returns when the context is canceled", func(t *testing.T) {
		t.Parallel()

		synctest.Test(t, func(t *testing.T) {
			l := crawl.NewDomainLimiter(0.001, 1)
			require.NoError(t, l.Wait(context.Background(), "example.com"))

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			err := l.Wait(ctx, "example.com")

			assert.Error(t, err)
		})
	})
}
