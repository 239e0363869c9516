package nextturn

// Cancel withdraws a scheduled callback. It returns true when the callback
// was still pending and will no longer run, false when it already ran, was
// already cancelled, or is currently running.
type Cancel func() bool

// Scheduler arranges for a callback to run on an upcoming turn. The callback
// runs at most once, on a goroutine chosen by the implementation.
type Scheduler interface {
	Next(fn func()) Cancel
}
