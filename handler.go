package crawler

import "context"

// Context carries one crawl cycle's page through the handler pipeline.
// The same Context is passed to every handler so that expensive derived
// state, such as a parsed DOM, is computed once per page.
type Context struct {
	URL      string
	Response *Response
	Body     string

	// DOM caches a parsed document. The first handler that parses Body
	// stores its document here; later handlers reuse it.
	DOM any
}

// Handler processes a fetched page.
type Handler interface {
	// Handle inspects the page and returns URLs discovered on it, if any.
	Handle(ctx context.Context, c *Context) ([]string, error)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, c *Context) ([]string, error)

// Handle calls f(ctx, c).
func (f HandlerFunc) Handle(ctx context.Context, c *Context) ([]string, error) {
	return f(ctx, c)
}
