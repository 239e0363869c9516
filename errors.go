package runloop

import "fmt"

// UnknownQueueError reports a scheduling target absent from the queue
// registry.
type UnknownQueueError struct {
	Queue string
}

func (e *UnknownQueueError) Error() string {
	return fmt.Sprintf("unknown queue %q", e.Queue)
}

// FlushError carries the failure of a scheduled callable together with the
// queue name and instance id needed to diagnose where the flush stopped.
type FlushError struct {
	Queue      string
	InstanceID uint64
	Err        error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("flush of queue %q aborted (instance %d): %v", e.Queue, e.InstanceID, e.Err)
}

func (e *FlushError) Unwrap() error { return e.Err }

// StabilizationError reports a flush whose sweep-restart bound was exceeded.
// The instance was abandoned with Remaining entries unrun.
type StabilizationError struct {
	InstanceID uint64
	Sweeps     int
	Remaining  int
}

func (e *StabilizationError) Error() string {
	return fmt.Sprintf("flush did not stabilize after %d sweep restarts (instance %d, %d entries unrun)", e.Sweeps, e.InstanceID, e.Remaining)
}

// AutorunRejectedError reports a Schedule call made outside an explicit tick
// while the active policy forbids implicit ticks.
type AutorunRejectedError struct {
	Queue string
}

func (e *AutorunRejectedError) Error() string {
	return fmt.Sprintf("scheduling to queue %q outside an explicit tick is not permitted", e.Queue)
}

// QueueDeniedError reports a queue filtered out by the active policy.
type QueueDeniedError struct {
	Queue string
}

func (e *QueueDeniedError) Error() string {
	return fmt.Sprintf("queue %q is not allowed by policy", e.Queue)
}
