package runloop

import "context"

var settledClosed = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Settled returns a channel closed once no run-loop instance exists and no
// autorun trigger is armed. A scheduler that is already quiet returns an
// already-closed channel. All outstanding channels close together, and only
// on a tick boundary where the scheduler has truly quiesced – work scheduled
// while an instance is still flushing lands in that instance and keeps the
// waiters pending.
func (s *Scheduler) Settled() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil && s.armed == nil {
		return settledClosed
	}
	waiter := make(chan struct{})
	s.waiters = append(s.waiters, waiter)
	return waiter
}

// WaitSettled blocks until the scheduler quiesces or ctx is done.
func (s *Scheduler) WaitSettled(ctx context.Context) error {
	if ctx == nil {
		ctx = s.baseCtx
	}
	select {
	case <-s.Settled():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
