package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anxo/convoca/internal/domain/model"
)

func putMutation(id, date string) Mutation {
	return Mutation{Op: OpPut, Event: model.Training{ID: id, Date: model.MustDay(date)}}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	// Test enqueue
	if !q.Enqueue(ctx, putMutation("e1", "2024-01-10")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	// Test dequeue
	mutationChan := q.Dequeue(ctx)
	m := <-mutationChan
	if m.Op != OpPut || m.Event.EventID() != "e1" {
		t.Errorf("expected put of e1, got %+v", m)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Backpressure(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, putMutation("e1", "2024-01-10")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, putMutation("e2", "2024-01-11")) {
		t.Error("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, putMutation("e3", "2024-01-12")) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_DeleteMutation(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, Mutation{Op: OpDelete, EventID: "e1"}) {
		t.Error("expected enqueue to succeed")
	}

	m := <-q.Dequeue(ctx)
	if m.Op != OpDelete || m.EventID != "e1" {
		t.Errorf("expected delete of e1, got %+v", m)
	}
	if m.Event != nil {
		t.Errorf("expected no event payload on delete, got %v", m.Event)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	if q.IsClosed() {
		t.Error("expected new queue to be open")
	}

	if !q.Enqueue(ctx, putMutation("e1", "2024-01-10")) {
		t.Error("expected enqueue to succeed")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}

	// Closed queue rejects new mutations
	if q.Enqueue(ctx, putMutation("e2", "2024-01-11")) {
		t.Error("expected enqueue to fail after close")
	}

	// Close is idempotent
	if err := q.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Dequeue drains the remaining mutation, then the channel closes
	mutationChan := q.Dequeue(ctx)
	m, ok := <-mutationChan
	if !ok || m.Event.EventID() != "e1" {
		t.Errorf("expected to drain e1, got %+v (ok=%v)", m, ok)
	}
	select {
	case _, ok := <-mutationChan:
		if ok {
			t.Error("expected dequeue channel to close after drain")
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for dequeue channel to close")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx := context.Background()
	numGoroutines := 10
	numMutations := 100

	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numMutations; j++ {
				m := putMutation(fmt.Sprintf("event%d_%d", id, j), "2024-01-10")
				for !q.Enqueue(ctx, m) {
					time.Sleep(time.Millisecond)
				}
			}
			done <- true
		}(i)
	}

	// Consume everything
	received := 0
	mutationChan := q.Dequeue(ctx)
	go func() {
		for i := 0; i < numGoroutines; i++ {
			<-done
		}
		_ = q.Close()
	}()
	for range mutationChan {
		received++
	}

	if received != numGoroutines*numMutations {
		t.Errorf("expected %d mutations, got %d", numGoroutines*numMutations, received)
	}
}
