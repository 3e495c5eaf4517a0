package crawler

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML into Markdown. Relative links are
	// resolved against pageURL when it is not empty.
	Convert(html, pageURL string) (string, error)
}
