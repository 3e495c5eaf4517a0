package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/crawler"
	"github.com/fwojciec/crawler/mock"
	crawlerslog "github.com/fwojciec/crawler/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingHandler_Handle(t *testing.T) {
	t.Parallel()

	t.Run("logs handler name and link count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Handler{
			HandleFn: func(context.Context, *crawler.Context) ([]string, error) {
				return []string{"https://example.com/a", "https://example.com/b"}, nil
			},
		}
		h := crawlerslog.NewLoggingHandler("links", inner, newTestLogger(&buf))

		links, err := h.Handle(context.Background(), &crawler.Context{URL: "https://example.com/"})

		require.NoError(t, err)
		assert.Len(t, links, 2)
		output := buf.String()
		assert.Contains(t, output, "handler=links")
		assert.Contains(t, output, "url=https://example.com/")
		assert.Contains(t, output, "links=2")
	})

	t.Run("logs handler errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Handler{
			HandleFn: func(context.Context, *crawler.Context) ([]string, error) {
				return nil, errors.New("bad markup")
			},
		}
		h := crawlerslog.NewLoggingHandler("archive", inner, newTestLogger(&buf))

		_, err := h.Handle(context.Background(), &crawler.Context{URL: "https://example.com/"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"bad markup\"")
	})
}
