package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string
}

func TestQueue_PublishConsume(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &payload{Name: "first"}))
	require.NoError(t, queue.Publish(ctx, &payload{Name: "second"}))
	assert.Equal(t, 2, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", message.T().Name)
	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())

	message, err = queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", message.T().Name)
	assert.NoError(t, message.Ack())
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_ConsumeHonoursContext(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_NackRequeues(t *testing.T) {
	queue := NewQueue[payload](Config{QueueBuffer: 8, MaxRequeues: 1})
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &payload{Name: "flaky"}))

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, message.Nack(errors.New("transient")))
	assert.Equal(t, 1, queue.Size())

	// The requeue bound is reached, the second Nack drops the message.
	message, err = queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, message.Nack(errors.New("transient")))
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, uint64(1), queue.Dropped())
}

func TestQueue_DropOldestWhenFull(t *testing.T) {
	queue := NewQueue[payload](Config{QueueBuffer: 2, DropOldest: true})
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &payload{Name: "first"}))
	require.NoError(t, queue.Publish(ctx, &payload{Name: "second"}))
	require.NoError(t, queue.Publish(ctx, &payload{Name: "third"}))

	assert.Equal(t, 2, queue.Size())
	assert.Equal(t, uint64(1), queue.Dropped())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", message.T().Name)
	assert.NoError(t, message.Ack())
}
