// Package worker drains the celebration queue into delivery sinks.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/classplay/internal/adapters/mq/queue"
	"github.com/okian/classplay/internal/domain/types"
	"github.com/okian/classplay/pkg/logger"
	"github.com/okian/classplay/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const poolShutdownTimeout = 10 * time.Second

// Sink receives delivered celebrations.
type Sink interface {
	Deliver(ctx context.Context, c types.Celebration) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, c types.Celebration) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, c types.Celebration) error { return f(ctx, c) }

// Queue defines how workers receive items.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Item
}

// InMemoryWorker delivers queued celebrations to every sink.
type InMemoryWorker struct {
	queue  Queue
	sinks  []Sink
	name   string
	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, sinks []Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:  q,
		sinks:  sinks,
		name:   "worker",
		logger: logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run delivers items until the queue channel is closed and drained, or ctx is done.
func (w *InMemoryWorker) Run(ctx context.Context) {
	items := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-items:
			if !ok {
				return
			}
			if err := w.process(ctx, item); err != nil {
				w.logger.Error(ctx, "celebration delivery failed",
					logger.String("session", item.Celebration.SessionID),
					logger.Error(err),
				)
			}
		}
	}
}

func (w *InMemoryWorker) process(ctx context.Context, item queue.Item) error { //nolint:gocritic // hugeParam: item is received by value
	start := time.Now()
	metrics.RecordQueueDequeue(float64(start.Sub(item.EnqueuedAt).Milliseconds()))
	defer func() {
		metrics.RecordWorkerLatency(float64(time.Since(start).Milliseconds()))
	}()

	var errs []error
	for _, sink := range w.sinks {
		if err := sink.Deliver(ctx, item.Celebration); err != nil {
			metrics.RecordWorkerError()
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("deliver %s: %w", item.Celebration.Burst.Event, errors.Join(errs...))
	}
	metrics.RecordCelebrationDelivered(item.Celebration.Burst.Event)
	return nil
}

// Pool runs a fixed number of workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	group   *errgroup.Group
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. Counts below one mean one.
func NewPool(workerCount int, q Queue, sinks ...Sink) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, sinks, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers.
func (p *Pool) Start(ctx context.Context) {
	p.group, ctx = errgroup.WithContext(ctx)
	for _, w := range p.workers {
		p.group.Go(func() error {
			w.Run(ctx)
			return nil
		})
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	if p.group == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- p.group.Wait() }()

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()
	select {
	case err := <-done:
		metrics.UpdateWorkerCount(0)
		return err
	case <-shutdownCtx.Done():
		p.logger.Warn(ctx, "worker pool shutdown timed out")
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
}
