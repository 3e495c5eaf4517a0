package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/crawler"
	"github.com/fwojciec/crawler/sqlite"
	"github.com/stretchr/testify/require"
)

func openBenchDB(b *testing.B) *sqlite.DB {
	b.Helper()
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	b.Cleanup(func() { db.Close() })
	return db
}

// BenchmarkPageInserts simulates archiving pages during a crawl.
func BenchmarkPageInserts(b *testing.B) {
	svc := sqlite.NewPageService(openBenchDB(b))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		page := &crawler.Page{
			URL:     fmt.Sprintf("https://example.com/page%d", i),
			Title:   fmt.Sprintf("Page %d", i),
			Content: fmt.Sprintf("# Page %d\n\nLorem ipsum dolor sit amet, consectetur adipiscing elit.", i),
		}
		if err := svc.CreatePage(ctx, page); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkQueueRoundTrip inserts a page worth of links and claims one URL,
// the per-cycle workload of a recursive crawl.
func BenchmarkQueueRoundTrip(b *testing.B) {
	const linksPerPage = 20

	q := sqlite.NewQueue(openBenchDB(b))
	ctx := context.Background()
	links := make([]string, linksPerPage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := range links {
			links[j] = fmt.Sprintf("https://example.com/%d/%d", i, j)
		}
		if _, err := q.Insert(ctx, links...); err != nil {
			b.Fatal(err)
		}
		if _, err := q.NextURL(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
