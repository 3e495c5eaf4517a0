package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/crawler"
	"github.com/fwojciec/crawler/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and description from metadata", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html lang="en">
<head>
<title>Autumn Recipes | Example Kitchen</title>
<meta property="og:title" content="Autumn Recipes">
<meta name="description" content="Five dishes for cold evenings.">
</head>
<body>
<nav>Home | Recipes | About</nav>
<main>
<h1>Autumn Recipes</h1>
<p>Roast the squash until the edges caramelise, then fold it into the risotto.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract("https://kitchen.example.com/autumn", html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Equal(t, "Five dishes for cold evenings.", result.Description)
	})

	t.Run("extracts main content as HTML and text", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>News</title></head>
<body>
<nav><a href="/">Home</a><a href="/world">World</a></nav>
<article>
<h1>Harbour reopens</h1>
<p>The harbour reopened on Monday after a week of repairs to the northern pier.</p>
<p>Ferries resume their normal timetable from Wednesday.</p>
</article>
<aside>Most read</aside>
<footer>Copyright 2024</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract("", html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "repairs to the northern pier")
		assert.Contains(t, result.Text, "Ferries resume their normal timetable")
	})

	t.Run("removes navigation boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/about">About</a></li>
</ul>
</nav>
<main>
<h1>Main Content</h1>
<p>This paragraph contains the actual content we want.</p>
</main>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract("https://example.com/", html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "actual content we want")
		assert.NotContains(t, result.ContentHTML, "main-nav")
	})

	t.Run("removes footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<h1>Article Title</h1>
<p>Article body with substantive content for readers.</p>
</article>
<footer>
<p>Copyright 2024 Example Corp</p>
<nav>Privacy | Terms | Contact</nav>
</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract("https://example.com/article", html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "substantive content")
		assert.NotContains(t, result.ContentHTML, "Copyright 2024 Example Corp")
	})

	t.Run("returns EINVALID for empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("https://example.com/", "  ")

		require.Error(t, err)
		assert.Equal(t, crawler.EINVALID, crawler.ErrorCode(err))
	})

	t.Run("returns EINVALID for an unparsable page URL", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("http://[::1", "<p>content</p>")

		assert.Equal(t, crawler.EINVALID, crawler.ErrorCode(err))
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Simple content</p></body></html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract("", html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Simple content")
	})
}
