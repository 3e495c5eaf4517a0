package crawl

import (
	"time"

	"github.com/fwojciec/crawler"
)

// Engine defaults.
const (
	DefaultInterval                = 1000 * time.Millisecond
	DefaultConcurrentRequestsLimit = 5
	DefaultRobotsCacheTime         = 60 * time.Minute
)

// Config holds the options of an Engine. Zero values are replaced with
// defaults; negative values are rejected.
type Config struct {
	// Interval is the time between admission ticks.
	Interval time.Duration

	// ConcurrentRequestsLimit caps the number of cycles in flight.
	ConcurrentRequestsLimit int

	// RobotsCacheTime is how long parsed robots.txt directives stay fresh.
	RobotsCacheTime time.Duration

	// Queue supplies URLs. Defaults to an empty FIFOQueue.
	Queue crawler.URLQueue

	// ContinueOnExhausted keeps the engine ticking after the queue reports
	// ErrExhausted. By default the engine stops once the queue is exhausted
	// while no other cycle is in flight.
	ContinueOnExhausted bool
}

// Validate returns an EINVALID error if any option is out of range.
func (c Config) Validate() error {
	if c.Interval < 0 {
		return crawler.Errorf(crawler.EINVALID, "interval must not be negative: %s", c.Interval)
	}
	if c.ConcurrentRequestsLimit < 0 {
		return crawler.Errorf(crawler.EINVALID, "concurrent requests limit must not be negative: %d", c.ConcurrentRequestsLimit)
	}
	if c.RobotsCacheTime < 0 {
		return crawler.Errorf(crawler.EINVALID, "robots cache time must not be negative: %s", c.RobotsCacheTime)
	}
	return nil
}

// withDefaults returns a copy of c with zero values replaced by defaults.
func (c Config) withDefaults() Config {
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.ConcurrentRequestsLimit == 0 {
		c.ConcurrentRequestsLimit = DefaultConcurrentRequestsLimit
	}
	if c.RobotsCacheTime == 0 {
		c.RobotsCacheTime = DefaultRobotsCacheTime
	}
	if c.Queue == nil {
		c.Queue = NewFIFOQueue()
	}
	return c
}
