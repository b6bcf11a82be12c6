// Package queue defines the contract for enqueuing and consuming outgoing
// assessment events.
//
// The in-memory implementation is a bounded channel; producers never block.
package queue

import (
	"context"
	"sync"

	"github.com/okian/burnrisk/internal/domain/model"
	"github.com/okian/burnrisk/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 1024
)

// Event represents the payload type flowing through the queue.
type Event = model.AssessmentScored

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an event to the queue.
	// Returns false if the queue is full or closed and the event was dropped.
	Enqueue(ctx context.Context, e Event) bool

	// Dequeue returns a channel that will receive events as they become available.
	// The channel will be closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Event

	// Len returns the current number of queued events.
	Len(ctx context.Context) int

	// Close stops accepting events. Queued events remain readable.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events   chan Event
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.events = make(chan Event, q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds an event to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) bool { //nolint:gocritic // hugeParam: Event must be passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.events <- e:
		metrics.UpdateQueueSize(len(q.events))
		return true
	case <-ctx.Done():
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive events as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		for event := range q.events {
			select {
			case out <- event:
				metrics.UpdateQueueSize(len(q.events))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued events.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.events)
	metrics.UpdateQueueSize(size)
	return size
}

// Capacity returns the maximum number of buffered events.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close stops accepting events.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.events)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
