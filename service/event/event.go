package event

import (
	"time"

	"github.com/viant/runloop/internal/clock"
)

// Kind identifies a scheduler diagnostic event.
type Kind string

const (
	// KindAutorun marks a run-loop instance created implicitly, because work
	// was scheduled outside any explicit tick. Hosts that consider implicit
	// ticks a bug can listen for this kind and assert or log.
	KindAutorun Kind = "autorun"

	// KindBegin marks a run-loop instance becoming current for an explicit tick.
	KindBegin Kind = "begin"

	// KindFinish marks a run-loop instance flushed to empty and retired.
	KindFinish Kind = "finish"

	// KindAbort marks a flush that stopped before draining every queue.
	KindAbort Kind = "abort"
)

// Context carries the scheduler coordinates an event refers to.
type Context struct {
	SchedulerID string `json:"schedulerID"`
	InstanceID  uint64 `json:"instanceID"`
	Queue       string `json:"queue,omitempty"`
	Kind        Kind   `json:"kind"`
}

// Diagnostic is the payload of a scheduler event.
type Diagnostic struct {
	Executed  int    `json:"executed,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	Sweeps    int    `json:"sweeps,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Event pairs a context with a payload.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// NewEvent returns an event stamped with the current time.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Data:      data,
	}
}
