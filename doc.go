// Package runloop provides a cooperative task-batching scheduler: a host
// application defers units of work into named, ordered queues, and the
// scheduler guarantees those queues flush exactly once per logical tick in a
// deterministic order.
//
// Ticks are started explicitly with Run/Join or implicitly ("autorun") when
// work is scheduled outside any tick; autorun instances flush on the next
// turn of the configured next-turn scheduler. Pluggable service layers
// follow the engine:
//
//   - nextturn – microtask-like, timer-fallback and manual turn scheduling
//   - event    – diagnostics stream (autorun creation, tick begin/finish)
//   - stats    – aggregated scheduler counters
//   - policy   – optional scheduling rules (autorun assertion, queue lists)
//
// End-users typically interact with the scheduler directly:
//
//	s, _ := runloop.New(runloop.WithQueues("actions", "render"))
//	_ = s.Run(ctx, func(ctx context.Context) error {
//	    s.Schedule("render", paint)
//	    s.Schedule("actions", update)
//	    return nil // update runs before paint, then Run returns
//	})
//	<-s.Settled()
//
// For more details see the README and individual sub-packages.
package runloop
