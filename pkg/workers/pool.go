// Package workers runs background tasks on a fixed number of goroutines fed by a bounded queue.
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/amink7/assets-manager/pkg/lifecycle"
)

// Task is a unit of background work. The context it receives is not
// cancelled by pool shutdown; queued tasks always run to completion.
type Task func(ctx context.Context)

// Pool executes submitted tasks on a fixed set of workers.
type Pool struct {
	tasks  chan Task
	count  int
	logger *slog.Logger

	mu      sync.RWMutex
	started bool
	closed  bool
	group   errgroup.Group
}

// New creates a pool sized by cfg. Workers are not running until Start.
func New(cfg *Config, logger *slog.Logger) *Pool {
	return &Pool{
		tasks:  make(chan Task, cfg.QueueSize),
		count:  cfg.Count,
		logger: logger.With("system", "workers"),
	}
}

// Start launches the workers and registers a drain hook that stops intake
// and finishes the queue before the lifecycle context is cancelled.
func (p *Pool) Start(lc *lifecycle.Coordinator) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}
	if p.closed {
		return ErrPoolClosed
	}
	p.started = true

	ctx := context.WithoutCancel(lc.Context())
	for i := range p.count {
		p.group.Go(func() error {
			for task := range p.tasks {
				p.run(ctx, i, task)
			}
			return nil
		})
	}

	p.logger.Info("worker pool started", "workers", p.count, "queue_size", cap(p.tasks))

	lc.OnDrain(func() {
		p.logger.Info("draining worker pool", "pending", len(p.tasks))

		if err := p.Close(); err != nil {
			p.logger.Error("worker pool shutdown failed", "error", err)
			return
		}

		p.logger.Info("worker pool stopped")
	})

	return nil
}

// Submit enqueues a task. It blocks while the queue is full until space
// frees up or ctx is done, and fails with ErrPoolClosed after Close.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("submit task: %w", ctx.Err())
	}
}

// Close stops intake, lets the workers finish every queued task and waits
// for them to exit. Calling Close more than once is safe.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	return p.group.Wait()
}

func (p *Pool) run(ctx context.Context, worker int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", "worker", worker, "panic", r)
		}
	}()

	task(ctx)
}
