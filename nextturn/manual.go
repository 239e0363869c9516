package nextturn

import "sync"

// Manual queues callbacks until the caller advances it explicitly. It never
// starts goroutines, which makes scheduling fully deterministic; intended for
// tests and for hosts that drive turns themselves.
type Manual struct {
	mu    sync.Mutex
	queue []*microtask
}

// NewManual returns an empty manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// Next queues fn until Advance or AdvanceAll is called.
func (m *Manual) Next(fn func()) Cancel {
	task := &microtask{fn: fn}
	m.mu.Lock()
	m.queue = append(m.queue, task)
	m.mu.Unlock()
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if task.done || task.cancelled {
			return false
		}
		task.cancelled = true
		return true
	}
}

// Pending returns the number of callbacks waiting to be advanced.
func (m *Manual) Pending() int {
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

// Advance runs the earliest pending callback on the calling goroutine. It
// returns false when nothing was pending.
func (m *Manual) Advance() bool {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return false
		}
		task := m.queue[0]
		m.queue = m.queue[1:]
		task.done = true
		cancelled := task.cancelled
		m.mu.Unlock()
		if cancelled {
			continue
		}
		task.fn()
		return true
	}
}

// AdvanceAll runs pending callbacks until the queue is empty, including
// callbacks scheduled by the callbacks themselves. It returns the number of
// callbacks run.
func (m *Manual) AdvanceAll() int {
	count := 0
	for m.Advance() {
		count++
	}
	return count
}
