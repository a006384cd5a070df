// Package lifecycle coordinates startup, drain and shutdown hooks across
// subsystems.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrShutdownTimeout is returned when hooks are still running at the
// shutdown deadline.
var ErrShutdownTimeout = errors.New("shutdown timed out")

// State is the coordinator's position in the process lifecycle.
type State int32

const (
	Starting State = iota
	Running
	Draining
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Draining:
		return "draining"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Coordinator runs startup hooks concurrently, drain hooks in reverse
// registration order and shutdown hooks concurrently once its context is
// cancelled.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc
	state  atomic.Int32

	startup  sync.WaitGroup
	shutdown sync.WaitGroup

	drainMu  sync.Mutex
	drain    []func()
	stopped  chan struct{}
	stopOnce sync.Once
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Context is cancelled once drain hooks have finished.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// OnStartup runs fn in its own goroutine. WaitForStartup waits for it.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnShutdown runs fn in its own goroutine. Shutdown hooks should block on
// <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

// OnDrain registers fn to run when Shutdown begins, before the context is
// cancelled. Drain hooks run one at a time, last registered first, so a
// subsystem registered after its dependencies is drained before them.
func (c *Coordinator) OnDrain(fn func()) {
	c.drainMu.Lock()
	c.drain = append(c.drain, fn)
	c.drainMu.Unlock()
}

// Ready reports whether startup has completed and shutdown has not begun.
func (c *Coordinator) Ready() bool {
	return c.State() == Running
}

// WaitForStartup blocks until every startup hook has returned and then marks
// the coordinator running, unless shutdown has already begun.
func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	c.state.CompareAndSwap(int32(Starting), int32(Running))
}

// Shutdown drains, cancels the context and waits for shutdown hooks, all
// within timeout. Later calls wait on the same run instead of starting a
// new one.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.state.Store(int32(Draining))
	c.stopOnce.Do(func() {
		go func() {
			c.runDrain()
			c.cancel()
			c.shutdown.Wait()
			close(c.stopped)
		}()
	})

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-c.stopped:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w after %v", ErrShutdownTimeout, timeout)
	}
}

func (c *Coordinator) runDrain() {
	c.drainMu.Lock()
	hooks := c.drain
	c.drainMu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}
