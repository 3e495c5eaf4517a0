package crawl

import (
	"fmt"
	"sync/atomic"
)

// Stats tallies cycle outcomes. Record can be used directly as an EventFunc.
type Stats struct {
	fetched atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
	bytes   atomic.Int64
	links   atomic.Int64
}

// Record counts event.
func (s *Stats) Record(event Event) {
	switch event.Type {
	case EventFetched:
		s.fetched.Add(1)
		s.bytes.Add(int64(event.Bytes))
		s.links.Add(int64(event.Links))
	case EventSkipped:
		s.skipped.Add(1)
	case EventFailed:
		s.failed.Add(1)
	}
}

// Fetched returns the number of pages fetched and handled.
func (s *Stats) Fetched() int { return int(s.fetched.Load()) }

// Skipped returns the number of URLs disallowed by robots.txt.
func (s *Stats) Skipped() int { return int(s.skipped.Load()) }

// Failed returns the number of failed cycles.
func (s *Stats) Failed() int { return int(s.failed.Load()) }

// Bytes returns the total body size of fetched pages.
func (s *Stats) Bytes() int { return int(s.bytes.Load()) }

// Links returns the number of links discovered by handlers.
func (s *Stats) Links() int { return int(s.links.Load()) }

// String summarises the counts for display.
func (s *Stats) String() string {
	return fmt.Sprintf("%d fetched (%s), %d skipped, %d failed, %d links",
		s.Fetched(), FormatBytes(s.Bytes()), s.Skipped(), s.Failed(), s.Links())
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
