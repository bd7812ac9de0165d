// Package processing drives accepted orders through their lifecycle in the background.
//
// An Engine owns the in-memory processing queue, a single dispatcher goroutine and a
// bounded worker pool. Orders are enqueued by id; the dispatcher hands them to the
// pool in submission order and each worker runs the processing task for one order.
// The queue is not persisted: orders queued when the process stops stay Pending in
// the store.
package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/telemetry"
	"orderflow/internal/pkg/workerpool"
	"orderflow/internal/pkg/workqueue"
)

var _ ports.OrderQueue = (*Engine)(nil)

// ErrEngineAlreadyRunning is returned by Run when the engine is already running.
var ErrEngineAlreadyRunning = errors.New("processing engine already running")

// Config sizes the engine.
type Config struct {
	// Workers bounds the number of orders processed concurrently.
	Workers int

	// QueueCapacity bounds the number of waiting orders; zero means unbounded.
	QueueCapacity int
}

type orderProcessor interface {
	Handle(ctx context.Context, cmd commands.ProcessOrderCommand) error
}

// Engine is the order processing pipeline. It implements ports.OrderQueue.
type Engine struct {
	queue     *workqueue.Queue[int64]
	pool      *workerpool.Pool[int64]
	processor orderProcessor
	metrics   *telemetry.Metrics
	logger    *slog.Logger

	mu      sync.Mutex
	tracked map[int64]struct{}
	running bool
}

// NewEngine creates a stopped engine. Orders may be enqueued before Run.
func NewEngine(cfg Config, processor orderProcessor, metrics *telemetry.Metrics, logger *slog.Logger) *Engine {
	e := &Engine{
		queue:     workqueue.New[int64](cfg.QueueCapacity),
		processor: processor,
		metrics:   metrics,
		logger:    logger.With("component", "processing_engine"),
		tracked:   make(map[int64]struct{}),
	}

	e.pool = workerpool.New(workerpool.Config[int64]{
		Workers: cfg.Workers,
		Handler: e.process,
		OnStart: e.taskStarted,
		OnDone:  e.taskDone,
	})

	metrics.SetQueueDepthSource(e.Depth)
	return e
}

// Enqueue adds an order to the tail of the processing queue.
//
// An id that is still queued or being processed is rejected with
// ports.ErrAlreadyEnqueued; a full bounded queue rejects with ports.ErrQueueFull.
func (e *Engine) Enqueue(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.tracked[id]; ok {
		e.metrics.EnqueueRejected.WithLabelValues("duplicate").Inc()
		return fmt.Errorf("%w: %d", ports.ErrAlreadyEnqueued, id)
	}

	if err := e.queue.Enqueue(id); err != nil {
		if errors.Is(err, workqueue.ErrQueueFull) {
			e.metrics.EnqueueRejected.WithLabelValues("full").Inc()
			return fmt.Errorf("%w: %d", ports.ErrQueueFull, id)
		}
		return err
	}

	e.tracked[id] = struct{}{}
	e.metrics.OrdersEnqueued.Inc()
	return nil
}

// Depth returns the number of orders waiting for a worker.
func (e *Engine) Depth() int {
	return e.queue.Len() + e.pool.Backlog()
}

// Run starts the workers and the dispatcher and blocks until ctx is done.
// Queued orders are abandoned on shutdown; in-flight tasks are cancelled and
// awaited before Run returns.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrEngineAlreadyRunning
	}
	e.running = true
	e.mu.Unlock()

	if err := e.pool.Start(ctx); err != nil {
		return err
	}
	defer e.pool.Stop()

	e.logger.InfoContext(ctx, "Processing engine started", "workers", e.pool.Workers())
	e.dispatch(ctx)
	e.logger.InfoContext(context.WithoutCancel(ctx), "Processing engine stopped", "abandoned", e.queue.Len())

	return nil
}

func (e *Engine) dispatch(ctx context.Context) {
	for {
		id, err := e.queue.Dequeue(ctx)
		if err != nil {
			return
		}

		if err = e.pool.Submit(id); err != nil {
			e.untrack(id)
			return
		}
	}
}

func (e *Engine) process(ctx context.Context, id int64) error {
	cmd, err := commands.NewProcessOrderCommand(id)
	if err != nil {
		return err
	}

	return e.processor.Handle(ctx, cmd)
}

func (e *Engine) taskStarted(int64) {
	e.metrics.BusyWorkers.Inc()
}

func (e *Engine) taskDone(id int64, err error, elapsed time.Duration) {
	e.metrics.BusyWorkers.Dec()
	e.untrack(id)

	ctx := context.Background()
	if errors.Is(err, commands.ErrOrderAlreadyAcquired) {
		e.metrics.ObserveSkippedTask(elapsed)
		e.logger.DebugContext(ctx, "Order already acquired, skipped", "id", id, "reason", err)
		return
	}

	e.metrics.ObserveTask(err, elapsed)
	switch {
	case err == nil:
		e.logger.DebugContext(ctx, "Order processed", "id", id, "elapsed", elapsed)
	case errors.Is(err, context.Canceled):
		e.logger.InfoContext(ctx, "Order processing interrupted", "id", id)
	case errors.Is(err, errs.ErrObjectNotFound):
		e.logger.WarnContext(ctx, "Order disappeared before processing finished", "id", id, "error", err)
	default:
		e.logger.ErrorContext(ctx, "Order processing failed", "id", id, "error", err)
	}
}

func (e *Engine) untrack(id int64) {
	e.mu.Lock()
	delete(e.tracked, id)
	e.mu.Unlock()
}
