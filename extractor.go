package crawler

// ExtractResult holds the main content and metadata of a page.
type ExtractResult struct {
	Title       string
	Description string
	Language    string

	// ContentHTML is the main content as clean HTML, with navigation,
	// footers and other boilerplate removed.
	ContentHTML string

	// Text is the plain text of the main content.
	Text string
}

// Extractor extracts the main content of an HTML page.
type Extractor interface {
	// Extract processes the raw HTML fetched from pageURL.
	Extract(pageURL, html string) (*ExtractResult, error)
}
