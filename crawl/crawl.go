// Package crawl provides the crawl engine: a ticking scheduler that admits
// fetch cycles under a concurrency ceiling, checks robots.txt for every URL,
// and runs fetched pages through a pipeline of handlers.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/crawler"
	"github.com/google/uuid"
)

// Engine schedules crawl cycles. Every Interval it admits at most one new
// cycle, provided fewer than ConcurrentRequestsLimit cycles are in flight.
// A tick that finds every slot taken is remembered and served as soon as a
// cycle completes, so a saturated engine starts cycles back to back.
//
// Each cycle dequeues a URL, consults robots.txt for the URL's apex domain,
// fetches the page and hands it to Handlers in order. URLs returned by
// handlers are inserted into the queue when it implements crawler.URLInserter.
type Engine struct {
	// Fetcher retrieves pages.
	Fetcher crawler.Fetcher

	// Robots resolves directives per apex domain. NewEngine sets it to a
	// RobotsCache sharing Fetcher.
	Robots crawler.RobotsService

	// Handlers process every successfully fetched page, in order.
	Handlers []crawler.Handler

	// RateLimiter, if set, is waited on per apex domain before a page fetch.
	RateLimiter crawler.DomainLimiter

	// RetryDelays are the pauses between page fetch attempts. None means a
	// single attempt.
	RetryDelays []time.Duration

	// Events receives cycle outcomes. It is called from cycle goroutines
	// and must be safe for concurrent use.
	Events EventFunc

	cfg Config

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	active atomic.Int64
	freed  chan struct{}
	// inserts counts handler insertions into the queue.
	inserts atomic.Int64
	cycles sync.WaitGroup
}

// EventType identifies the outcome of a cycle, or a step within one.
type EventType int

const (
	// EventFetched reports a page fetched and handled.
	EventFetched EventType = iota
	// EventSkipped reports a URL disallowed by robots.txt.
	EventSkipped
	// EventFailed reports a queue, fetch or handler failure.
	EventFailed
	// EventExhausted reports that the queue ran out of URLs.
	EventExhausted
	// EventRetry reports a failed page fetch about to be retried. The cycle
	// is still in flight.
	EventRetry
)

// String returns the lowercase name of the event type.
func (t EventType) String() string {
	switch t {
	case EventFetched:
		return "fetched"
	case EventSkipped:
		return "skipped"
	case EventFailed:
		return "failed"
	case EventExhausted:
		return "exhausted"
	case EventRetry:
		return "retry"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event reports the outcome of one cycle.
type Event struct {
	Type    EventType
	CycleID string
	URL     string
	Status  int
	Bytes   int
	Links   int
	Attempt int
	Error   error
}

// EventFunc is a callback for cycle outcomes.
type EventFunc func(event Event)

// NewEngine creates an Engine fetching through fetcher.
// Returns an EINVALID error if cfg is invalid.
func NewEngine(fetcher crawler.Fetcher, cfg Config) (*Engine, error) {
	if fetcher == nil {
		return nil, crawler.Errorf(crawler.EINVALID, "fetcher required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	return &Engine{
		Fetcher: fetcher,
		Robots:  NewRobotsCache(fetcher, cfg.RobotsCacheTime),
		cfg:     cfg,
		freed:   make(chan struct{}, 1),
	}, nil
}

// URLQueue returns the queue the engine reads from.
func (e *Engine) URLQueue() crawler.URLQueue { return e.cfg.Queue }

// Interval returns the time between admission ticks.
func (e *Engine) Interval() time.Duration { return e.cfg.Interval }

// ConcurrentRequestsLimit returns the maximum number of cycles in flight.
func (e *Engine) ConcurrentRequestsLimit() int { return e.cfg.ConcurrentRequestsLimit }

// RobotsCacheTime returns how long robots.txt directives are cached.
func (e *Engine) RobotsCacheTime() time.Duration { return e.cfg.RobotsCacheTime }

// ActiveCycles returns the number of cycles currently in flight.
func (e *Engine) ActiveCycles() int { return int(e.active.Load()) }

// Running reports whether the engine is admitting new cycles.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Start begins ticking. The first admission attempt happens immediately.
// Returns false without side effects if the engine is already running.
//
// ctx is passed to every cycle; canceling it stops the engine and aborts
// in-flight fetches. Use Stop for a graceful shutdown.
func (e *Engine) Start(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return false
	}
	e.running = true
	e.stop = make(chan struct{})
	e.done = make(chan struct{})

	go e.loop(ctx, e.stop, e.done)
	return true
}

// Stop cancels future ticks. Cycles already in flight run to completion and
// release their slots normally. Stop returns once no further cycle can be
// admitted; it is a no-op on a stopped engine.
func (e *Engine) Stop() {
	e.mu.Lock()
	stop := e.stop
	e.mu.Unlock()

	e.stopRun(stop)
}

// stopRun stops the run identified by its stop channel. Runs started after
// it are left alone.
func (e *Engine) stopRun(stop chan struct{}) {
	e.mu.Lock()
	if !e.running || e.stop != stop {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(stop)
	done := e.done
	e.mu.Unlock()

	<-done
}

// Wait blocks until the engine has stopped and every in-flight cycle has
// finished. It returns immediately if the engine was never started.
func (e *Engine) Wait() {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()

	if done == nil {
		return
	}
	<-done
	e.cycles.Wait()
}

// loop owns admission. Only loop increments the active counter, so the gate
// check and the increment cannot race with another tick.
func (e *Engine) loop(ctx context.Context, stop chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	missed := !e.tick(ctx, stop)
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			e.halt(stop)
			return
		case <-ticker.C:
			missed = !e.tick(ctx, stop)
		case <-e.freed:
			if missed {
				missed = !e.tick(ctx, stop)
			}
		}
	}
}

// halt marks the engine stopped after its context was canceled, unless
// Stop already did so.
func (e *Engine) halt(stop chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running && e.stop == stop {
		e.running = false
		close(stop)
	}
}

// tick admits one cycle of the run identified by stop if a slot is free and
// reports whether it did.
func (e *Engine) tick(ctx context.Context, stop chan struct{}) bool {
	if e.active.Load() >= int64(e.cfg.ConcurrentRequestsLimit) {
		return false
	}
	e.active.Add(1)
	e.cycles.Add(1)
	go e.cycle(ctx, stop)
	return true
}

// release frees a slot and wakes the loop in case a tick was missed.
func (e *Engine) release() {
	e.active.Add(-1)
	select {
	case e.freed <- struct{}{}:
	default:
	}
}

// cycle runs dequeue, robots check, fetch and the handler pipeline for one URL.
// Whatever the outcome, the slot is released exactly once. An exhausted queue
// can only stop the run the cycle belongs to.
func (e *Engine) cycle(ctx context.Context, stop chan struct{}) {
	defer e.cycles.Done()
	defer e.release()

	id := uuid.NewString()
	gen := e.inserts.Load()

	rawURL, err := e.cfg.Queue.NextURL(ctx)
	if err != nil {
		if errors.Is(err, crawler.ErrExhausted) {
			e.emit(Event{Type: EventExhausted, CycleID: id, Error: err})
			// Other cycles in flight may still feed the queue; the first
			// exhausted cycle that runs alone, with nothing inserted since
			// it dequeued, stops the engine.
			if !e.cfg.ContinueOnExhausted && e.active.Load() <= 1 && e.inserts.Load() == gen {
				e.stopRun(stop)
			}
			return
		}
		e.emit(Event{Type: EventFailed, CycleID: id, Error: fmt.Errorf("next url: %w", err)})
		return
	}
	defer e.complete(ctx, id, rawURL)

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		e.emit(Event{Type: EventFailed, CycleID: id, URL: rawURL,
			Error: crawler.Errorf(crawler.EINVALID, "invalid URL %q", rawURL)})
		return
	}
	domain := crawler.ApexDomain(u.Hostname())

	directives, err := e.Robots.Directives(ctx, domain)
	if err != nil {
		e.emit(Event{Type: EventFailed, CycleID: id, URL: rawURL, Error: fmt.Errorf("robots: %w", err)})
		return
	}
	if !directives.Allows(u.EscapedPath()) {
		e.emit(Event{Type: EventSkipped, CycleID: id, URL: rawURL})
		return
	}

	if e.RateLimiter != nil {
		if err := e.RateLimiter.Wait(ctx, domain); err != nil {
			e.emit(Event{Type: EventFailed, CycleID: id, URL: rawURL, Error: fmt.Errorf("rate limit: %w", err)})
			return
		}
	}

	resp, err := FetchWithRetry(ctx, e.Fetcher, rawURL, e.RetryDelays, func(attempt int, err error) {
		e.emit(Event{Type: EventRetry, CycleID: id, URL: rawURL, Attempt: attempt, Error: err})
	})
	if err != nil {
		e.emit(Event{Type: EventFailed, CycleID: id, URL: rawURL, Error: err})
		return
	}

	links, err := e.handle(ctx, rawURL, resp)
	if err != nil {
		e.emit(Event{Type: EventFailed, CycleID: id, URL: rawURL, Status: resp.StatusCode, Error: err})
		return
	}

	e.emit(Event{Type: EventFetched, CycleID: id, URL: rawURL, Status: resp.StatusCode,
		Bytes: len(resp.Body), Links: len(links)})
}

// handle runs the handler pipeline on a shared context and feeds the
// discovered URLs back into the queue. The first handler error stops the
// pipeline.
func (e *Engine) handle(ctx context.Context, rawURL string, resp *crawler.Response) ([]string, error) {
	c := &crawler.Context{
		URL:      rawURL,
		Response: resp,
		Body:     string(resp.Body),
	}

	var links []string
	for i, h := range e.Handlers {
		out, err := h.Handle(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("handler %d: %w", i, err)
		}
		links = append(links, out...)
	}

	if inserter, ok := e.cfg.Queue.(crawler.URLInserter); ok && len(links) > 0 {
		if _, err := inserter.Insert(ctx, links...); err != nil {
			return nil, fmt.Errorf("insert discovered urls: %w", err)
		}
		e.inserts.Add(1)
	}
	return links, nil
}

// complete marks rawURL finished in queues that track completion. A canceled
// context leaves the URL unfinished so that a resumed crawl picks it up.
func (e *Engine) complete(ctx context.Context, id, rawURL string) {
	completer, ok := e.cfg.Queue.(crawler.URLCompleter)
	if !ok || ctx.Err() != nil {
		return
	}
	if err := completer.Complete(ctx, rawURL); err != nil {
		e.emit(Event{Type: EventFailed, CycleID: id, URL: rawURL, Error: fmt.Errorf("complete: %w", err)})
	}
}

func (e *Engine) emit(event Event) {
	if e.Events != nil {
		e.Events(event)
	}
}
