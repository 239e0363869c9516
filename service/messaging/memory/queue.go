package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/runloop/internal/clock"
	"github.com/viant/runloop/internal/idgen"
	"github.com/viant/runloop/service/messaging"
)

// Config for memory queue implementation. The queue carries best-effort
// diagnostics, so the default behaviour favours the publisher: when the
// buffer is full the oldest message is dropped rather than blocking a flush
// in progress.
type Config struct {
	QueueBuffer int
	DropOldest  bool
	MaxRequeues int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		QueueBuffer: 256,
		DropOldest:  true,
		MaxRequeues: 1,
	}
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	requeues  int
	mu        sync.Mutex
	processed bool
	createdAt time.Time
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return nil
}

// Nack indicates a failure in processing the message. The message is
// requeued at the tail up to MaxRequeues times, then dropped.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true

	if m.requeues >= m.queue.config.MaxRequeues {
		m.queue.dropped.Add(1)
		return nil
	}
	requeued := &Message[T]{
		id:        m.id,
		payload:   m.payload,
		queue:     m.queue,
		requeues:  m.requeues + 1,
		createdAt: clock.Now(),
	}
	m.queue.enqueue(requeued)
	return nil
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	dropped  atomic.Uint64
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

// Publish adds a new item to the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := &Message[T]{
		id:        idgen.New(),
		payload:   *t,
		queue:     q,
		createdAt: clock.Now(),
	}
	q.enqueue(msg)
	return nil
}

func (q *Queue[T]) enqueue(msg *Message[T]) {
	for {
		select {
		case q.messages <- msg:
			return
		default:
		}
		if !q.config.DropOldest {
			q.messages <- msg
			return
		}
		select {
		case <-q.messages:
			q.dropped.Add(1)
		default:
		}
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// Dropped returns the number of messages discarded because the buffer was
// full or the requeue bound was exceeded.
func (q *Queue[T]) Dropped() uint64 {
	return q.dropped.Load()
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
