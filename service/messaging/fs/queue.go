package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/runloop/internal/clock"
	"github.com/viant/runloop/internal/idgen"
	"github.com/viant/runloop/service/messaging"
)

// MessageState represents the state of a message in the filesystem journal
type MessageState string

const (
	// MessageStatePending indicates a message is waiting to be processed
	MessageStatePending MessageState = "pending"

	// MessageStateProcessing indicates a message is being processed
	MessageStateProcessing MessageState = "processing"

	// MessageStateCompleted indicates a message was successfully processed
	MessageStateCompleted MessageState = "completed"

	// MessageStateFailed indicates a message failed processing
	MessageStateFailed MessageState = "failed"
)

// Message implements messaging.Message for the filesystem journal
type Message[T any] struct {
	ID        string       `json:"id"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`

	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack acknowledges that the message was processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = MessageStateCompleted
	m.UpdatedAt = clock.Now()
	return m.queue.completeMessage(context.Background(), m)
}

// Nack records that the message processing failed
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = MessageStateFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.UpdatedAt = clock.Now()
	return m.queue.failMessage(context.Background(), m)
}

// Config holds configuration for the filesystem journal
type Config struct {
	// BasePath is the base directory (or afs URL) for journal documents
	BasePath string

	// KeepCompleted retains acknowledged messages under completed/ instead of
	// deleting them; useful when the journal doubles as an audit trail
	KeepCompleted bool
}

// DefaultConfig returns a default journal configuration
func DefaultConfig() Config {
	return Config{
		BasePath:      "/tmp/runloop/journal",
		KeepCompleted: true,
	}
}

// Queue implements a filesystem-backed messaging.Queue. Diagnostic events are
// persisted as JSON documents so that a host can inspect scheduler activity
// after the fact; the journal survives process restarts.
type Queue[T any] struct {
	fs            afs.Service
	config        Config
	pendingDir    string
	processingDir string
	completedDir  string
	failedDir     string
	mu            sync.Mutex
}

// NewQueue creates a new filesystem-backed journal queue
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    path.Join(config.BasePath, "pending"),
		processingDir: path.Join(config.BasePath, "processing"),
		completedDir:  path.Join(config.BasePath, "completed"),
		failedDir:     path.Join(config.BasePath, "failed"),
	}

	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.processingDir, q.completedDir, q.failedDir} {
		exists, _ := fs.Exists(ctx, dir)
		if !exists {
			if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}
	return q, nil
}

// Publish adds a new message to the journal
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	now := clock.Now()
	message := &Message[T]{
		ID:        idgen.New(),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: now,
		UpdatedAt: now,
		queue:     q,
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	// Prefix with nanosecond timestamp so that List returns oldest first.
	filename := fmt.Sprintf("%020d-%s.json", now.UnixNano(), message.ID)
	return q.upload(ctx, path.Join(q.pendingDir, filename), data)
}

// Consume retrieves the oldest pending message from the journal. It returns
// (nil, nil) when the journal has no pending messages.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}
	var pending []storage.Object
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ".json") {
			pending = append(pending, object)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	object := pending[0]
	message, err := q.read(ctx, object.URL())
	if err != nil {
		destURL := path.Join(q.failedDir, fmt.Sprintf("invalid-%s", object.Name()))
		_ = q.fs.Move(ctx, object.URL(), destURL)
		return nil, err
	}

	message.State = MessageStateProcessing
	message.UpdatedAt = clock.Now()
	message.queue = q

	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal updated message: %w", err)
	}
	// Upload to processing first, then delete from pending.
	if err := q.upload(ctx, path.Join(q.processingDir, object.Name()), data); err != nil {
		return nil, fmt.Errorf("failed to move message to processing directory: %w", err)
	}
	if err := q.fs.Delete(ctx, object.URL()); err != nil {
		return nil, fmt.Errorf("failed to delete message from pending directory: %w", err)
	}
	return message, nil
}

// Size returns the number of pending messages
func (q *Queue[T]) Size(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ".json") {
			count++
		}
	}
	return count, nil
}

// completeMessage retires an acknowledged message
func (q *Queue[T]) completeMessage(ctx context.Context, m *Message[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	name, err := q.processingName(ctx, m.ID)
	if err != nil {
		return err
	}
	processingPath := path.Join(q.processingDir, name)
	if !q.config.KeepCompleted {
		return q.fs.Delete(ctx, processingPath)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal completed message: %w", err)
	}
	if err := q.upload(ctx, path.Join(q.completedDir, name), data); err != nil {
		return fmt.Errorf("failed to write message to completed directory: %w", err)
	}
	return q.fs.Delete(ctx, processingPath)
}

// failMessage records a rejected message under failed/
func (q *Queue[T]) failMessage(ctx context.Context, m *Message[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	name, err := q.processingName(ctx, m.ID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal failed message: %w", err)
	}
	if err := q.upload(ctx, path.Join(q.failedDir, name), data); err != nil {
		return fmt.Errorf("failed to write message to failed directory: %w", err)
	}
	return q.fs.Delete(ctx, path.Join(q.processingDir, name))
}

// processingName resolves the timestamp-prefixed filename of an in-flight
// message by its id
func (q *Queue[T]) processingName(ctx context.Context, id string) (string, error) {
	objects, err := q.fs.List(ctx, q.processingDir)
	if err != nil {
		return "", fmt.Errorf("failed to list processing messages: %w", err)
	}
	for _, object := range objects {
		if !object.IsDir() && strings.Contains(object.Name(), id) {
			return object.Name(), nil
		}
	}
	return "", fmt.Errorf("message %s not found in processing directory", id)
}

func (q *Queue[T]) upload(ctx context.Context, path string, data []byte) error {
	return q.fs.Upload(ctx, path, file.DefaultFileOsMode, bytes.NewBuffer(data))
}

func (q *Queue[T]) read(ctx context.Context, url string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", url, err)
	}
	var message Message[T]
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", url, err)
	}
	return &message, nil
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
