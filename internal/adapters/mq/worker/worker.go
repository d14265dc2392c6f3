// Package worker defines workers that apply queued calendar mutations to the
// store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/anxo/convoca/internal/adapters/mq/queue"
	"github.com/anxo/convoca/internal/adapters/repository"
	"github.com/anxo/convoca/internal/domain/model"
	"github.com/anxo/convoca/pkg/logger"
	"github.com/anxo/convoca/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 4
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Applier is the slice of the store workers write to.
type Applier interface {
	PutEvent(ctx context.Context, e model.Event) (bool, error)
	RemoveEvent(ctx context.Context, id string) error
}

// Queue defines how workers receive mutations.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Mutation
}

// Worker drains the mutation queue into the store.
type Worker struct {
	queue   Queue
	applier Applier
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a single worker with configuration options.
func New(q Queue, applier Applier, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		applier:  applier,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled, the queue closes, or
// Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	mutations := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case m, ok := <-mutations:
			if !ok {
				return
			}
			if err := w.apply(ctx, m); err != nil {
				w.logger.Error(ctx, "error applying mutation", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// apply handles a single mutation.
func (w *Worker) apply(ctx context.Context, m queue.Mutation) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerApplyLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	switch m.Op {
	case queue.OpPut:
		created, err := w.applier.PutEvent(ctx, m.Event)
		if err != nil {
			metrics.RecordWorkerError()
			return fmt.Errorf("put event %s: %w", m.Event.EventID(), err)
		}
		metrics.RecordMutationApplied(string(queue.OpPut))
		w.logger.Debug(ctx, "event applied",
			logger.String("eventID", m.Event.EventID()),
			logger.String("kind", string(m.Event.EventKind())),
			logger.Any("created", created),
		)
	case queue.OpDelete:
		err := w.applier.RemoveEvent(ctx, m.EventID)
		if errors.Is(err, repository.ErrNotFound) {
			// Double deletes are routine with async application.
			w.logger.Debug(ctx, "delete for unknown event", logger.String("eventID", m.EventID))
			return nil
		}
		if err != nil {
			metrics.RecordWorkerError()
			return fmt.Errorf("remove event %s: %w", m.EventID, err)
		}
		metrics.RecordMutationApplied(string(queue.OpDelete))
	default:
		metrics.RecordWorkerError()
		return fmt.Errorf("unknown mutation op %q", m.Op)
	}
	return nil
}

// Pool manages multiple workers draining one queue.
type Pool struct {
	workers []*Worker

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a worker pool of the given size.
func NewPool(workerCount int, q Queue, applier Applier) *Pool {
	if workerCount < 1 {
		workerCount = min(runtime.NumCPU(), defaultWorkerCount)
	}

	pool := &Pool{
		workers:  make([]*Worker, workerCount),
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := range pool.workers {
		pool.workers[i] = New(q, applier, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop stops all workers, waiting briefly for each to drain.
func (p *Pool) Stop() {
	close(p.shutdown)
	for _, w := range p.workers {
		select {
		case <-w.shutdown:
		default:
			close(w.shutdown)
		}
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and waits for the workers to finish or the
// timeout to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue().(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}

func (p *Pool) queue() Queue {
	if len(p.workers) == 0 {
		return nil
	}
	return p.workers[0].queue
}
