// Package stats provides a lightweight tracker that keeps aggregated
// scheduler counters (entries scheduled, executed, ticks flushed, …) for one
// scheduler. The tracker instance travels in the flush context – every
// callable that receives the context can read or update the counters via the
// Delta helper without requiring a global registry.

package stats

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the scheduler.
// The fields are signed and therefore can be either positive (increment) or
// negative (decrement).
type Delta struct {
	Scheduled int
	Deduped   int
	Cancelled int
	Executed  int
	Ticks     int
	Autorun   int
	Sweeps    int
	Failures  int
}

// Snapshot is a point-in-time value copy of the tracker, safe to retain,
// compare and pass across goroutines.
type Snapshot struct {
	SchedulerID string
	StartedAt   time.Time

	Scheduled int
	Deduped   int
	Cancelled int
	Executed  int
	Ticks     int
	Autorun   int
	Sweeps    int
	Failures  int
}

// Stats keeps aggregated counters for one scheduler and every tick it runs.
// It is safe for concurrent use.
type Stats struct {
	// Identification – informative only, filled when the scheduler starts.
	SchedulerID string
	StartedAt   time.Time

	// Counters – modified via Update(), read via Snapshot().
	Scheduled int // entries accepted into a queue
	Deduped   int // Schedule calls absorbed by an already-pending identity
	Cancelled int // entries withdrawn before execution
	Executed  int // entries run by the flush engine
	Ticks     int // run-loop instances flushed
	Autorun   int // instances created outside an explicit tick
	Sweeps    int // flush passes restarted for earlier-queue work
	Failures  int // flushes that stopped before draining every queue

	mu       sync.Mutex
	onChange func(Snapshot)
}

// Update applies the supplied delta to the tracker. It is safe to call from
// multiple goroutines. If an onChange callback has been registered it will
// be invoked with a snapshot of the updated tracker outside the critical
// section so that the callback can perform slow operations (e.g. JSON
// encoding, I/O) without blocking the flush engine.
func (s *Stats) Update(d Delta) {
	if s == nil {
		return
	}

	s.mu.Lock()

	s.Scheduled += d.Scheduled
	s.Deduped += d.Deduped
	s.Cancelled += d.Cancelled
	s.Executed += d.Executed
	s.Ticks += d.Ticks
	s.Autorun += d.Autorun
	s.Sweeps += d.Sweeps
	s.Failures += d.Failures

	// Snapshot for the callback while we still hold the lock to avoid
	// seeing partially updated counters.
	snapshot := s.snapshot()
	cb := s.onChange

	s.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// snapshot copies the counters; the caller must hold the lock.
func (s *Stats) snapshot() Snapshot {
	return Snapshot{
		SchedulerID: s.SchedulerID,
		StartedAt:   s.StartedAt,
		Scheduled:   s.Scheduled,
		Deduped:     s.Deduped,
		Cancelled:   s.Cancelled,
		Executed:    s.Executed,
		Ticks:       s.Ticks,
		Autorun:     s.Autorun,
		Sweeps:      s.Sweeps,
		Failures:    s.Failures,
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (s *Stats) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// OnChange registers a callback that is invoked after every successful
// Update. Passing nil disables the callback. Only one callback can be
// active; subsequent calls overwrite the previous value.
func (s *Stats) OnChange(cb func(Snapshot)) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.onChange = cb
	s.mu.Unlock()
}

// ----------------------------------------------------------------------------
// Context helpers
// ----------------------------------------------------------------------------

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithTracker embeds the tracker in a derived context.
func WithTracker(ctx context.Context, tracker *Stats) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if tracker == nil {
		return ctx
	}
	return context.WithValue(ctx, trackerKey, tracker)
}

// FromContext extracts the tracker embedded in ctx, or nil.
func FromContext(ctx context.Context) *Stats {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(trackerKey).(*Stats); ok {
		return v
	}
	return nil
}
