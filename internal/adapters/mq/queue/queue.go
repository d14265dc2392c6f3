// Package queue defines the contract for enqueuing and consuming calendar
// mutations.
//
// Implementations may use channels or more advanced structures; the default
// is an in-memory bounded queue.
package queue

import (
	"context"
	"sync"

	"github.com/anxo/convoca/internal/domain/model"
	"github.com/anxo/convoca/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 10_000
)

// Op discriminates mutation operations.
type Op string

// Mutation operations.
const (
	OpPut    Op = "put"
	OpDelete Op = "delete"
)

// Mutation is one calendar change awaiting application to the store.
// Event is set for OpPut; EventID for OpDelete.
type Mutation struct {
	Op      Op
	Event   model.Event
	EventID string
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a mutation to the queue.
	// Returns false if the queue is full and the mutation was not enqueued.
	Enqueue(ctx context.Context, m Mutation) bool

	// Dequeue returns a channel that receives mutations as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Mutation

	// Len returns the current number of queued mutations.
	Len(ctx context.Context) int

	// Close shuts the queue down. After closing, no new mutations can be
	// enqueued and the dequeue channel is closed once drained.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	mutations chan Mutation
	capacity  int
	mu        sync.RWMutex
	closed    bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.mutations = make(chan Mutation, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds a mutation to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, m Mutation) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.mutations <- m:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.mutations))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		// Queue is full; backpressure.
		metrics.RecordQueueEnqueueError()
		return false
	}
}

// Dequeue returns a channel that receives mutations as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Mutation {
	out := make(chan Mutation)
	go func() {
		defer close(out)
		for m := range q.mutations {
			select {
			case out <- m:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.mutations))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued mutations.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.mutations)
}

// Close shuts the queue down.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.mutations)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
