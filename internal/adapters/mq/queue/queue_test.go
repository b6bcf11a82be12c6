package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/burnrisk/internal/domain/model"
)

func event(id string) model.AssessmentScored {
	return model.AssessmentScored{AssessmentID: id, Tier: "LOW", Probability: 0.08, ScoredAt: time.Now()}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, event("a1")) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.AssessmentID != "a1" {
		t.Errorf("expected a1, got %v", got.AssessmentID)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if q.Capacity() != 2 {
		t.Fatalf("expected capacity 2, got %d", q.Capacity())
	}
	if !q.Enqueue(ctx, event("a1")) || !q.Enqueue(ctx, event("a2")) {
		t.Fatal("expected enqueue to succeed")
	}

	if q.Enqueue(ctx, event("a3")) {
		t.Error("expected enqueue to fail when queue is full")
	}
}

func TestInMemoryQueue_DefaultCapacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(0))
	if q.Capacity() != defaultQueueCapacity {
		t.Errorf("expected default capacity %d, got %d", defaultQueueCapacity, q.Capacity())
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	_ = q.Enqueue(ctx, event("a1"))
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if q.Enqueue(ctx, event("a2")) {
		t.Error("expected enqueue to fail after close")
	}

	var ids []string
	for e := range q.Dequeue(ctx) {
		ids = append(ids, e.AssessmentID)
	}
	if len(ids) != 1 || ids[0] != "a1" {
		t.Errorf("expected queued event to drain after close, got %v", ids)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The buffered send may still win the select; the queue must not block either way.
	done := make(chan struct{})
	go func() {
		_ = q.Enqueue(ctx, event("a1"))
		_ = q.Enqueue(ctx, event("a2"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked")
	}
}

func TestInMemoryQueue_ConcurrentProducers(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				q.Enqueue(ctx, event("x"))
			}
		}()
	}
	wg.Wait()

	if l := q.Len(ctx); l != 500 {
		t.Errorf("expected 500 queued events, got %d", l)
	}
}
