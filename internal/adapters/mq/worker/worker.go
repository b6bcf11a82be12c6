// Package worker drains the outbox queue and hands assessment events to a
// publisher.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/burnrisk/internal/domain/model"
	"github.com/okian/burnrisk/pkg/logger"
	"github.com/okian/burnrisk/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount  = 2
	poolShutdownTimeout = 30 * time.Second
)

// Event abstracts what workers read off the queue.
type Event = model.AssessmentScored

// Publisher delivers one event.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker publishes events until its queue closes.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue is drained.
	Run(ctx context.Context)

	// Shutdown waits for the worker to stop.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for an in-process queue.
type InMemoryWorker struct {
	queue     Queue
	publisher Publisher
	name      string

	done chan struct{}

	published *atomic.Int64
	failed    *atomic.Int64

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, publisher Publisher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		publisher: publisher,
		name:      "worker",
		done:      make(chan struct{}),
		published: new(atomic.Int64),
		failed:    new(atomic.Int64),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}

	return w
}

// Run starts the worker loop. Events already dequeued are published before
// returning, so closing the queue drains it.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	for event := range w.queue.Dequeue(ctx) {
		if err := w.publish(ctx, event); err != nil {
			w.logger.Error(ctx, "error publishing event", logger.Error(err))
		}
	}
}

// Shutdown waits for the worker to finish or ctx to expire.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) publish(ctx context.Context, event Event) error { //nolint:gocritic // hugeParam: Event must be passed by value for channel semantics
	if err := w.publisher.Publish(ctx, event); err != nil {
		w.failed.Add(1)
		metrics.RecordEventPublished("error")
		metrics.RecordErrorByComponent("worker", "publish_error")
		return fmt.Errorf("publish assessment %s: %w", event.AssessmentID, err)
	}

	w.published.Add(1)
	metrics.RecordEventPublished("ok")
	w.logger.Debug(ctx, "assessment event published",
		logger.String("assessmentID", event.AssessmentID),
		logger.String("tier", event.Tier),
	)
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	published atomic.Int64
	failed    atomic.Int64

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, publisher Publisher, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
	}

	for i := 0; i < workerCount; i++ {
		w := NewInMemoryWorker(queue, publisher,
			append([]Option{WithName("publisher-" + strconv.Itoa(i))}, opts...)...)
		w.published = &pool.published
		w.failed = &pool.failed
		pool.workers[i] = w
	}
	pool.logger = pool.workers[0].logger

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Published returns how many events were delivered.
func (p *Pool) Published() int64 {
	return p.published.Load()
}

// Failed returns how many publish attempts failed.
func (p *Pool) Failed() int64 {
	return p.failed.Load()
}

// Shutdown closes the queue when it supports it and waits for the workers
// to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut int
	for i, worker := range p.workers {
		if err := worker.Shutdown(shutdownCtx); err != nil {
			timedOut++
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	if timedOut > 0 {
		return fmt.Errorf("%d of %d workers did not stop: %w", timedOut, len(p.workers), shutdownCtx.Err())
	}
	return nil
}
