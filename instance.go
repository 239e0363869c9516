package runloop

import (
	"reflect"

	"github.com/viant/runloop/policy"
)

type entryState uint8

const (
	entryPending entryState = iota
	entryCancelled
	entryDone
)

// identity keys the at-most-once-per-tick de-duplication index. Targets used
// for de-duplication must be comparable values, typically pointers.
type identity struct {
	queue  string
	target any
	fn     uintptr
	key    string
}

// entry is a single deferred unit of work, owned exclusively by the run-loop
// instance whose queue it sits in until the flush engine takes it.
type entry struct {
	queue    string
	qIndex   int
	fn       Callable
	target   any
	key      string
	identity identity
	dedupe   bool
	state    entryState
}

// initIdentity derives the de-duplication identity once the schedule options
// have been applied. An explicit key wins; otherwise a (target, callable)
// pair identifies the entry, using the callable's code pointer so that the
// same method bound to the same target collapses into one execution per tick.
func (e *entry) initIdentity() {
	if e.key == "" && e.target == nil {
		return
	}
	e.dedupe = true
	e.identity = identity{queue: e.queue, target: e.target, key: e.key}
	if e.key == "" {
		e.identity.fn = reflect.ValueOf(e.fn).Pointer()
	}
}

// Handle refers to a scheduled entry so that it can be cancelled before the
// flush engine runs it.
type Handle struct {
	scheduler  *Scheduler
	entry      *entry
	instanceID uint64
}

// Queue returns the queue the entry was scheduled into.
func (h *Handle) Queue() string {
	if h == nil || h.entry == nil {
		return ""
	}
	return h.entry.queue
}

// InstanceID returns the id of the run-loop instance owning the entry.
func (h *Handle) InstanceID() uint64 {
	if h == nil {
		return 0
	}
	return h.instanceID
}

// instance represents one logical tick: a deferred task list per registry
// queue plus the flushing/autorun state. All fields are guarded by the
// scheduler mutex.
type instance struct {
	id       uint64
	autorun  bool
	flushing bool
	queues   [][]*entry
	index    map[identity]*entry
	policy   *policy.Policy
}

func newInstance(id uint64, queues int, autorun bool, pol *policy.Policy) *instance {
	return &instance{
		id:      id,
		autorun: autorun,
		queues:  make([][]*entry, queues),
		index:   make(map[identity]*entry),
		policy:  pol,
	}
}

// push appends an entry to its queue; appending is legal mid-flush.
func (i *instance) push(qIndex int, e *entry) {
	i.queues[qIndex] = append(i.queues[qIndex], e)
	if e.dedupe {
		i.index[e.identity] = e
	}
}

// pending returns the live entry registered under id, or nil when the last
// entry with that identity already ran or was cancelled.
func (i *instance) pending(id identity) *entry {
	e := i.index[id]
	if e != nil && e.state == entryPending {
		return e
	}
	return nil
}

// firstPending returns the registry index of the earliest queue holding a
// live entry, or -1 when every queue is drained.
func (i *instance) firstPending() int {
	for qi := range i.queues {
		for _, e := range i.queues[qi] {
			if e.state == entryPending {
				return qi
			}
		}
	}
	return -1
}

// pop removes and returns the earliest live entry of the queue, marking it
// taken. It returns nil when the queue holds no live entry.
func (i *instance) pop(qIndex int) *entry {
	for len(i.queues[qIndex]) > 0 {
		e := i.queues[qIndex][0]
		i.queues[qIndex] = i.queues[qIndex][1:]
		if e.state != entryPending {
			continue
		}
		e.state = entryDone
		return e
	}
	return nil
}

// remaining counts live entries across all queues.
func (i *instance) remaining() int {
	count := 0
	for qi := range i.queues {
		for _, e := range i.queues[qi] {
			if e.state == entryPending {
				count++
			}
		}
	}
	return count
}
