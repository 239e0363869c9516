package event

import (
	"context"
	"errors"
	"log"
	"time"
)

// pollInterval paces Consume retries for queue vendors that return
// immediately when empty (e.g. the filesystem journal).
const pollInterval = 50 * time.Millisecond

// Listener consumes events on a background goroutine and hands them to a
// handler.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewListener returns a stopped listener; call Start to begin consuming.
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Stop cancels the listener and waits for its goroutine to exit.
func (l *Listener[T]) Stop() {
	l.cancel()
	<-l.done
}

// Start begins consuming events.
func (l *Listener[T]) Start() {
	go func() {
		defer close(l.done)
		for {
			select {
			case <-l.ctx.Done():
				return
			default:
			}
			event, err := l.publisher.Consume(l.ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				log.Printf("Error consuming event: %v", err)
				continue
			}
			if event == nil {
				select {
				case <-l.ctx.Done():
					return
				case <-time.After(pollInterval):
				}
				continue
			}
			l.handler(event)
		}
	}()
}
