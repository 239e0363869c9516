package runloop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/viant/runloop/internal/clock"
	"github.com/viant/runloop/internal/idgen"
	"github.com/viant/runloop/nextturn"
	"github.com/viant/runloop/policy"
	"github.com/viant/runloop/service/event"
	"github.com/viant/runloop/stats"
)

// Callable is a unit of work deferred into a named queue. The context is the
// one driving the tick that flushes the entry; a returned error aborts the
// remainder of that flush.
type Callable func(ctx context.Context) error

// ScheduleOption customises a single Schedule call.
type ScheduleOption func(e *entry)

// WithTarget associates the entry with a target for (target, callable)
// de-duplication: scheduling the same callable against the same target twice
// into the same queue of one tick executes once. Targets must be comparable,
// typically pointers.
func WithTarget(target any) ScheduleOption {
	return func(e *entry) {
		e.target = target
	}
}

// WithKey assigns an explicit flush-once identity: within one tick, a queue
// executes at most one entry per key.
func WithKey(key string) ScheduleOption {
	return func(e *entry) {
		e.key = key
	}
}

// Scheduler owns at most one current run-loop instance at a time and batches
// scheduled work into ticks flushed in registry queue order.
//
// Scheduling may interleave with flush execution (callables scheduling more
// work, nested Run calls), but the scheduler coordinates a single logical
// control flow – callables never execute in parallel.
type Scheduler struct {
	id       string
	config   *Config
	registry *registry
	turn     nextturn.Scheduler
	events   *event.Service
	tracker  *stats.Stats
	policy   *policy.Policy
	onError  func(error)
	baseCtx  context.Context

	mu      sync.Mutex
	current *instance
	stack   []*instance
	depth   int
	armed   *armedTrigger
	waiters []chan struct{}
}

// armedTrigger records a pending autorun flush so that a synchronous flush
// can withdraw it.
type armedTrigger struct {
	instanceID uint64
	cancel     nextturn.Cancel
}

// New creates a scheduler. At least one queue name must be supplied, via
// WithQueues or WithConfig.
func New(options ...Option) (*Scheduler, error) {
	s := &Scheduler{
		config:  DefaultConfig(),
		baseCtx: context.Background(),
	}
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	reg, err := newRegistry(s.config.Queues)
	if err != nil {
		return nil, err
	}
	s.registry = reg
	if s.policy == nil && s.config.Policy != nil {
		s.policy = policy.FromConfig(s.config.Policy)
	}
	if s.turn == nil {
		switch s.config.Turn {
		case TurnTimer:
			s.turn = nextturn.NewTimer()
		default:
			s.turn = nextturn.NewMicrotask()
		}
	}
	s.id = idgen.New()
	if s.tracker == nil {
		s.tracker = &stats.Stats{}
	}
	if s.tracker.SchedulerID == "" {
		s.tracker.SchedulerID = s.id
	}
	if s.tracker.StartedAt.IsZero() {
		s.tracker.StartedAt = clock.Now()
	}
	if s.onError == nil {
		s.onError = func(err error) { log.Printf("runloop: %v", err) }
	}
	return s, nil
}

// ID returns the opaque scheduler identity used in diagnostics.
func (s *Scheduler) ID() string {
	return s.id
}

// Queues returns the registry queue names in flush order.
func (s *Scheduler) Queues() []string {
	return append([]string(nil), s.registry.names...)
}

// Depth returns the current nested invocation depth; zero outside any tick.
func (s *Scheduler) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.depth
}

// CurrentInstanceID returns the id of the current run-loop instance, if any.
func (s *Scheduler) CurrentInstanceID() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0, false
	}
	return s.current.id, true
}

// Schedule defers fn into the named queue of the current tick. When no tick
// is active an autorun instance is created and armed to flush on the next
// turn. The returned handle can withdraw the entry until it runs.
func (s *Scheduler) Schedule(queue string, fn Callable, options ...ScheduleOption) (*Handle, error) {
	if fn == nil {
		return nil, fmt.Errorf("callable was nil")
	}
	qIndex, err := s.registry.indexOf(queue)
	if err != nil {
		return nil, err
	}
	e := &entry{queue: queue, qIndex: qIndex, fn: fn}
	for _, option := range options {
		option(e)
	}
	e.initIdentity()

	var created bool
	var publishErr error
	s.mu.Lock()
	inst := s.current
	pol := s.policy
	if inst != nil && inst.policy != nil {
		pol = inst.policy
	}
	if !pol.IsAllowed(queue) {
		s.mu.Unlock()
		return nil, &QueueDeniedError{Queue: queue}
	}
	if inst == nil {
		if !pol.AutorunAllowed() {
			s.mu.Unlock()
			return nil, &AutorunRejectedError{Queue: queue}
		}
		inst = newInstance(idgen.Next(), s.registry.size(), true, s.policy)
		s.current = inst
		// Journal the creation before the trigger is armed so that the
		// instance's own finish event can never overtake it.
		publishErr = s.journal(event.KindAutorun, inst.id, queue, event.Diagnostic{})
		id := inst.id
		s.armed = &armedTrigger{instanceID: id, cancel: s.turn.Next(func() { s.autoflush(id) })}
		created = true
	}
	if e.dedupe {
		if prior := inst.pending(e.identity); prior != nil {
			instanceID := inst.id
			s.mu.Unlock()
			s.tracker.Update(stats.Delta{Deduped: 1})
			return &Handle{scheduler: s, entry: prior, instanceID: instanceID}, nil
		}
	}
	inst.push(qIndex, e)
	instanceID := inst.id
	s.mu.Unlock()

	s.tracker.Update(stats.Delta{Scheduled: 1})
	if created {
		if publishErr != nil {
			s.onError(publishErr)
		}
		s.tracker.Update(stats.Delta{Autorun: 1})
		if pol.ShouldWarn() {
			pol.Warn(queue, instanceID)
		}
	}
	return &Handle{scheduler: s, entry: e, instanceID: instanceID}, nil
}

// Cancel withdraws a previously scheduled, not-yet-run entry. It returns
// false when the entry already ran, was already cancelled, or never existed.
func (s *Scheduler) Cancel(handle *Handle) bool {
	if handle == nil || handle.entry == nil {
		return false
	}
	s.mu.Lock()
	ok := handle.entry.state == entryPending
	if ok {
		handle.entry.state = entryCancelled
	}
	s.mu.Unlock()
	if ok {
		s.tracker.Update(stats.Delta{Cancelled: 1})
	}
	return ok
}

// Run executes fn inside a fresh tick and synchronously flushes every queue
// of that tick before returning. A pending autorun instance is adopted – its
// queued work flushes with this tick and the armed trigger becomes a no-op;
// otherwise the prior current instance (if any) is saved and restored,
// making nested Run calls strictly serialized. An error returned by fn does
// not skip the flush; both errors are reported together.
func (s *Scheduler) Run(ctx context.Context, fn Callable) error {
	if ctx == nil {
		ctx = s.baseCtx
	}
	inst := s.begin(ctx)
	defer s.leave()
	s.publish(event.KindBegin, inst.id, "", event.Diagnostic{})

	var callErr error
	completed := false
	defer func() {
		if !completed {
			// fn panicked; restore the previous current instance before the
			// panic unwinds further. Queued work of the abandoned instance
			// is dropped.
			s.retire(inst)
		}
	}()
	if fn != nil {
		callErr = fn(ctx)
	}
	completed = true
	flushErr := s.flush(ctx, inst)
	return errors.Join(callErr, flushErr)
}

// Join executes fn inside the current tick when one is active – the safe
// default for code that may already be inside someone else's tick – and
// behaves exactly like Run otherwise.
func (s *Scheduler) Join(ctx context.Context, fn Callable) error {
	if ctx == nil {
		ctx = s.baseCtx
	}
	s.mu.Lock()
	if s.current != nil {
		s.depth++
		s.mu.Unlock()
		defer s.leave()
		if fn == nil {
			return nil
		}
		return fn(ctx)
	}
	s.mu.Unlock()
	return s.Run(ctx, fn)
}

// RunValue runs fn inside a fresh tick and carries its result out.
func RunValue[T any](ctx context.Context, s *Scheduler, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := s.Run(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

// JoinValue runs fn inside the current tick (or a fresh one) and carries its
// result out.
func JoinValue[T any](ctx context.Context, s *Scheduler, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := s.Join(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

// begin makes a run-loop instance current for an explicit tick.
func (s *Scheduler) begin(ctx context.Context) *instance {
	pol := policy.FromContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depth++
	if cur := s.current; cur != nil && cur.autorun && !cur.flushing &&
		s.armed != nil && s.armed.instanceID == cur.id {
		// Adopt the pending autorun instance: the explicit tick takes over
		// its queued work and flushes it synchronously; the armed trigger
		// becomes a no-op.
		cancel := s.armed.cancel
		s.armed = nil
		if cancel != nil {
			cancel()
		}
		if pol != nil {
			cur.policy = pol
		}
		return cur
	}
	inst := newInstance(idgen.Next(), s.registry.size(), false, s.policy)
	if pol != nil {
		inst.policy = pol
	}
	if s.current != nil {
		s.stack = append(s.stack, s.current)
	}
	s.current = inst
	return inst
}

func (s *Scheduler) leave() {
	s.mu.Lock()
	if s.depth > 0 {
		s.depth--
	}
	s.mu.Unlock()
}

// autoflush is the armed trigger callback: it flushes the autorun instance
// unless a synchronous flush already retired it.
func (s *Scheduler) autoflush(id uint64) {
	s.mu.Lock()
	armed := s.armed
	if armed == nil || armed.instanceID != id {
		s.mu.Unlock()
		return
	}
	inst := s.current
	if inst == nil || inst.id != id {
		// The instance was stacked behind an explicit tick started on
		// another goroutine; try again on a later turn.
		if s.stacked(id) {
			s.armed = &armedTrigger{instanceID: id, cancel: s.turn.Next(func() { s.autoflush(id) })}
		} else {
			s.armed = nil
		}
		s.mu.Unlock()
		return
	}
	s.armed = nil
	if inst.flushing {
		s.mu.Unlock()
		return
	}
	s.depth++
	s.mu.Unlock()
	defer s.leave()
	if err := s.flush(s.baseCtx, inst); err != nil {
		s.onError(err)
	}
}

func (s *Scheduler) stacked(id uint64) bool {
	for _, inst := range s.stack {
		if inst.id == id {
			return true
		}
	}
	return false
}

func (s *Scheduler) publish(kind event.Kind, instanceID uint64, queue string, diag event.Diagnostic) {
	if err := s.journal(kind, instanceID, queue, diag); err != nil {
		s.onError(err)
	}
}

// journal sends a diagnostic event without touching the error handler, which
// makes it safe to call while holding the scheduler mutex.
func (s *Scheduler) journal(kind event.Kind, instanceID uint64, queue string, diag event.Diagnostic) error {
	if s.events == nil {
		return nil
	}
	evt := event.NewEvent(&event.Context{
		SchedulerID: s.id,
		InstanceID:  instanceID,
		Queue:       queue,
		Kind:        kind,
	}, diag)
	return s.events.Publisher().Publish(s.baseCtx, evt)
}
