package runloop

import (
	"context"
	"strconv"

	"github.com/viant/runloop/service/event"
	"github.com/viant/runloop/stats"
	"github.com/viant/runloop/tracing"
)

// flush drains every queue of the instance in registry order and retires it.
//
// Entries execute one at a time, always taking the earliest live entry of
// the earliest non-empty queue. Because callables may push into any queue of
// the same instance mid-flush, work scheduled into the queue being drained
// still runs in the same pass, and work landing in an earlier queue restarts
// the sweep from that queue. The restart loop is bounded by MaxSweeps.
func (s *Scheduler) flush(ctx context.Context, inst *instance) error {
	ctx = stats.WithTracker(ctx, s.tracker)
	ctx, span := tracing.StartSpan(ctx, "runloop.flush")
	span.WithAttributes(map[string]string{"instance": strconv.FormatUint(inst.id, 10)})
	defer span.OnDone()

	s.mu.Lock()
	inst.flushing = true
	s.mu.Unlock()

	var err error
	executed, sweeps := 0, 0
	last := -1
	for {
		s.mu.Lock()
		qi := inst.firstPending()
		if qi < 0 {
			s.mu.Unlock()
			break
		}
		if last >= 0 && qi < last {
			sweeps++
			if sweeps > s.config.MaxSweeps {
				remaining := inst.remaining()
				s.mu.Unlock()
				err = &StabilizationError{InstanceID: inst.id, Sweeps: sweeps, Remaining: remaining}
				break
			}
		}
		last = qi
		e := inst.pop(qi)
		s.mu.Unlock()
		if callErr := e.fn(ctx); callErr != nil {
			err = &FlushError{Queue: e.queue, InstanceID: inst.id, Err: callErr}
			break
		}
		executed++
	}

	remaining := s.retire(inst)
	span.SetStatus(err)

	delta := stats.Delta{Executed: executed, Ticks: 1, Sweeps: sweeps}
	if err != nil {
		delta.Failures = 1
	}
	s.tracker.Update(delta)

	diag := event.Diagnostic{Executed: executed, Remaining: remaining, Sweeps: sweeps}
	kind := event.KindFinish
	if err != nil {
		kind = event.KindAbort
		diag.Error = err.Error()
	}
	s.publish(kind, inst.id, "", diag)
	return err
}

// retire makes the instance no-longer-current, restores the saved instance
// (if any) and releases settled waiters once the scheduler has truly
// quiesced. It returns the number of entries left unrun.
func (s *Scheduler) retire(inst *instance) int {
	s.mu.Lock()
	inst.flushing = false
	remaining := inst.remaining()
	if s.current == inst {
		if n := len(s.stack); n > 0 {
			s.current, s.stack = s.stack[n-1], s.stack[:n-1]
		} else {
			s.current = nil
		}
	}
	var waiters []chan struct{}
	if s.current == nil && s.armed == nil {
		waiters, s.waiters = s.waiters, nil
	}
	s.mu.Unlock()
	for _, waiter := range waiters {
		close(waiter)
	}
	return remaining
}
