// Package worker recomputes month leaderboards in the background so that
// requests find them already cached.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/prode/internal/adapters/mq/queue"
	"github.com/okian/prode/pkg/logger"
	"github.com/okian/prode/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Refresher recomputes one month.
type Refresher interface {
	Refresh(ctx context.Context, month string) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// InMemoryWorker consumes refresh jobs until its queue closes.
type InMemoryWorker struct {
	queue     Queue
	refresher Refresher
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, r Refresher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		refresher: r,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Discard(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	w.logger = w.logger.Named(w.name)
	return w
}

// Run processes jobs until ctx is canceled, Shutdown is called or the queue
// is closed and drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Warn(ctx, "refresh failed", logger.String("month", job.Month), logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker without draining the queue.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	err := w.refresher.Refresh(ctx, job.Month)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	if err != nil {
		metrics.RecordRefreshJob("error", elapsed)
		metrics.RecordErrorByComponent("worker", "refresh_error")
		return fmt.Errorf("refresh %q (%s): %w", job.Month, job.Reason, err)
	}
	metrics.RecordRefreshJob("ok", elapsed)
	w.logger.Debug(ctx, "month refreshed",
		logger.String("month", job.Month),
		logger.String("reason", job.Reason),
		logger.Float64("duration_ms", elapsed),
	)
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of count workers logging through l. Counts below
// one are raised to one.
func NewPool(count int, q Queue, r Refresher, l logger.Logger) *Pool {
	if count < 1 {
		count = 1
	}
	if l == nil {
		l = logger.Discard()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, count),
		queue:   q,
		logger:  l.Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, r, WithLogger(l), WithName("worker-"+strconv.Itoa(i)))
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateRefreshWorkers(len(p.workers))
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateRefreshWorkers(0)

	if timedOut {
		return fmt.Errorf("pool shutdown timed out: %w", shutdownCtx.Err())
	}
	return nil
}
