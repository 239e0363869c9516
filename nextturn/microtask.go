package nextturn

import "sync"

// Microtask runs callbacks on a drainer goroutine as soon as the runtime
// allows, preserving submission order. The drainer is started lazily on the
// first pending callback and exits once the queue is empty, so an idle
// scheduler holds no goroutine.
type Microtask struct {
	mu      sync.Mutex
	queue   []*microtask
	running bool
}

type microtask struct {
	owner     *Microtask
	fn        func()
	cancelled bool
	done      bool
}

// NewMicrotask returns a ready-to-use microtask scheduler.
func NewMicrotask() *Microtask {
	return &Microtask{}
}

// Next schedules fn to run on the next available turn.
func (m *Microtask) Next(fn func()) Cancel {
	task := &microtask{owner: m, fn: fn}
	m.mu.Lock()
	m.queue = append(m.queue, task)
	start := !m.running
	if start {
		m.running = true
	}
	m.mu.Unlock()
	if start {
		go m.drain()
	}
	return task.cancel
}

// Pending returns the number of callbacks not yet started.
func (m *Microtask) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, task := range m.queue {
		if !task.cancelled {
			count++
		}
	}
	return count
}

func (m *Microtask) drain() {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.running = false
			m.mu.Unlock()
			return
		}
		task := m.queue[0]
		m.queue = m.queue[1:]
		task.done = true
		cancelled := task.cancelled
		m.mu.Unlock()
		if !cancelled {
			task.fn()
		}
	}
}

func (t *microtask) cancel() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.done || t.cancelled {
		return false
	}
	t.cancelled = true
	return true
}
