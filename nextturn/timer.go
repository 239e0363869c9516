package nextturn

import "time"

// Timer defers callbacks through the timer domain. It is the macrotask-like
// fallback: callbacks run after any pending microtask work and compete with
// other timers for ordering, so "runs before subsequent timer-based work" is
// best-effort only.
type Timer struct {
	// Delay before the callback fires. Zero means the earliest timer turn.
	Delay time.Duration
}

// NewTimer returns a timer-backed scheduler with zero delay.
func NewTimer() *Timer {
	return &Timer{}
}

// Next schedules fn through time.AfterFunc.
func (t *Timer) Next(fn func()) Cancel {
	timer := time.AfterFunc(t.Delay, fn)
	return timer.Stop
}
