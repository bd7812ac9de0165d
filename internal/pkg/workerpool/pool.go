// Package workerpool runs a fixed number of goroutines over an unbounded backlog.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"orderflow/internal/pkg/workqueue"
)

// DefaultWorkers is the pool size used when Config.Workers is not positive.
const DefaultWorkers = 100

var (
	// ErrPoolAlreadyStarted is returned by Start on a pool that is already running.
	ErrPoolAlreadyStarted = errors.New("worker pool already started")

	// ErrPoolStopped is returned by Start and Submit once Stop has been called.
	ErrPoolStopped = errors.New("worker pool stopped")
)

// Handler processes one task. The context is cancelled when the pool stops.
type Handler[T any] func(ctx context.Context, task T) error

// Config configures a Pool.
type Config[T any] struct {
	// Workers is the number of concurrently running handlers.
	Workers int

	Handler Handler[T]

	// OnStart is called on the worker goroutine right before Handler.
	OnStart func(task T)

	// OnDone is called on the worker goroutine after Handler returns.
	// A panic in Handler is reported here as an error.
	OnDone func(task T, err error, elapsed time.Duration)
}

// Pool executes submitted tasks on at most Workers goroutines. Submit never blocks:
// tasks wait in a FIFO backlog until a worker is free.
type Pool[T any] struct {
	cfg     Config[T]
	backlog *workqueue.Queue[T]

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// New creates a stopped pool. Tasks submitted before Start wait in the backlog.
func New[T any](cfg Config[T]) *Pool[T] {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	return &Pool[T]{
		cfg:     cfg,
		backlog: workqueue.New[T](0),
	}
}

// Start launches the workers. They run until ctx is done or Stop is called.
func (p *Pool[T]) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}
	if p.started {
		return ErrPoolAlreadyStarted
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.started = true

	for range p.cfg.Workers {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.work(ctx)
		}()
	}

	return nil
}

// Submit adds task to the backlog.
func (p *Pool[T]) Submit(task T) error {
	p.mu.Lock()
	stopped := p.stopped
	p.mu.Unlock()

	if stopped {
		return ErrPoolStopped
	}

	return p.backlog.Enqueue(task)
}

// Stop cancels running handlers and waits for every worker to exit.
// Tasks still in the backlog are dropped.
func (p *Pool[T]) Stop() {
	p.mu.Lock()
	p.stopped = true
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// Workers returns the configured pool size.
func (p *Pool[T]) Workers() int {
	return p.cfg.Workers
}

// Backlog returns the number of submitted tasks no worker has picked up yet.
func (p *Pool[T]) Backlog() int {
	return p.backlog.Len()
}

func (p *Pool[T]) work(ctx context.Context) {
	for ctx.Err() == nil {
		task, err := p.backlog.Dequeue(ctx)
		if err != nil {
			return
		}
		p.run(ctx, task)
	}
}

func (p *Pool[T]) run(ctx context.Context, task T) {
	if p.cfg.OnStart != nil {
		p.cfg.OnStart(task)
	}

	start := time.Now()
	err := p.call(ctx, task)

	if p.cfg.OnDone != nil {
		p.cfg.OnDone(task, err, time.Since(start))
	}
}

func (p *Pool[T]) call(ctx context.Context, task T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	return p.cfg.Handler(ctx, task)
}
