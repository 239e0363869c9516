package event

import (
	"context"

	"github.com/viant/runloop/service/messaging"
)

// Publisher publishes typed events to an underlying queue.
type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

// NewPublisher returns a publisher backed by the supplied queue.
func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish sends the event to the queue.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	return p.queue.Publish(ctx, event)
}

// Consume retrieves and acknowledges a single event. It returns (nil, nil)
// when the queue is empty and non-blocking.
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
