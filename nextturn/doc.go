// Package nextturn abstracts the host primitive used to defer a callback to
// an upcoming turn of control. The run-loop core depends only on the
// Scheduler interface; three implementations are provided:
//
//   - Microtask – runs callbacks as soon as the Go runtime allows, in
//     submission order. This is the default and the closest analogue of a
//     microtask turn.
//   - Timer – defers callbacks through the timer domain; a coarser fallback
//     for hosts that need timer-relative ordering.
//   - Manual – queues callbacks until a test advances it explicitly, enabling
//     deterministic, synchronous unit testing.
package nextturn
