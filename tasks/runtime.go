package tasks

import (
	"context"
	"errors"
	"sync"
	"time"
)

// RuntimeConfig configures the two pools of a Runtime.
type RuntimeConfig struct {
	Clock Clock

	ForegroundTick time.Duration
	BackgroundTick time.Duration

	// Concurrency caps simultaneous invocations per pool.
	Concurrency int

	// QueueSize is the initial capacity of the shared callback queue.
	QueueSize int

	// Background disables the background pool entirely when false, for
	// platforms that cannot run work while the app is not visible.
	Background bool
}

// Runtime owns a foreground pool, which runs only while the UI is visible,
// and a background pool, which runs while it is not. Both feed one callback
// queue drained by the UI goroutine.
//
// At most one pool produces callbacks at a time: switching sides pauses the
// active pool and waits for its running invocations before resuming the
// other one, so the two never race on application state.
type Runtime struct {
	queue      *Queue
	foreground *Pool
	background *Pool
	bgEnabled  bool

	mu           sync.Mutex
	inForeground bool
	closed       bool
}

// NewRuntime creates both pools, paused, around a shared queue.
func NewRuntime(cfg RuntimeConfig) *Runtime {
	queue := NewQueue(cfg.QueueSize)
	fg := NewPool(PoolConfig{
		Name:         "foreground",
		TickInterval: cfg.ForegroundTick,
		Concurrency:  cfg.Concurrency,
		Clock:        cfg.Clock,
		StartPaused:  true,
	}, queue)
	bg := NewPool(PoolConfig{
		Name:         "background",
		TickInterval: cfg.BackgroundTick,
		Concurrency:  cfg.Concurrency,
		Clock:        cfg.Clock,
		StartPaused:  true,
	}, queue)
	return &Runtime{
		queue:      queue,
		foreground: fg,
		background: bg,
		bgEnabled:  cfg.Background,
	}
}

// Queue returns the shared callback queue.
func (r *Runtime) Queue() *Queue { return r.queue }

// Foreground returns the pool that runs while the UI is visible.
func (r *Runtime) Foreground() *Pool { return r.foreground }

// Background returns the pool that runs while the UI is hidden.
func (r *Runtime) Background() *Pool { return r.background }

// InForeground reports which side is active.
func (r *Runtime) InForeground() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inForeground
}

// Start launches both drivers, still paused. Call EnterForeground or
// EnterBackground to choose the active side.
func (r *Runtime) Start(ctx context.Context) error {
	if err := r.foreground.Start(ctx); err != nil {
		return err
	}
	if r.bgEnabled {
		return r.background.Start(ctx)
	}
	return nil
}

// EnterForeground pauses the background pool, waits for its running
// invocations, then resumes the foreground pool.
func (r *Runtime) EnterForeground() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrPoolClosed
	}
	if r.bgEnabled {
		if err := r.background.Pause(); err != nil {
			return err
		}
		r.background.WaitIdle()
	}
	if err := r.foreground.Resume(); err != nil {
		return err
	}
	r.inForeground = true
	return nil
}

// EnterBackground pauses the foreground pool, waits for its running
// invocations, then resumes the background pool if it is enabled.
func (r *Runtime) EnterBackground() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrPoolClosed
	}
	if err := r.foreground.Pause(); err != nil {
		return err
	}
	r.foreground.WaitIdle()
	if r.bgEnabled {
		if err := r.background.Resume(); err != nil {
			return err
		}
	}
	r.inForeground = false
	return nil
}

// Close stops both pools and waits for every running invocation. Callbacks
// they produce stay in the queue for a final drain.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return errors.Join(r.foreground.Close(), r.background.Close())
}
