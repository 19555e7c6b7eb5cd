package tasks

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrPoolClosed is returned by control calls on a closed pool.
var ErrPoolClosed = errors.New("tasks: pool closed")

// DefaultTickInterval is how often a pool driver checks its tasks.
const DefaultTickInterval = 16 * time.Millisecond

// Task is one periodic unit of work. It may block on I/O. The callback it
// returns, if any, is queued for the UI goroutine.
type Task func(ctx context.Context) (Callback, error)

// Entry registers a task with a pool.
type Entry struct {
	Name     string
	Interval time.Duration
	Task     Task
}

// entry is an Entry plus its scheduling state.
type entry struct {
	Entry
	lastRun time.Time
	running atomic.Bool
}

// State is the driver state of a pool.
type State uint8

const (
	StateRunning State = iota
	StatePaused
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "closed"
	}
}

// Signal is a control message for a pool driver.
type Signal uint8

const (
	SignalResume Signal = iota
	SignalPause
	SignalClose
)

type control struct {
	sig  Signal
	done chan struct{}
}

// PoolConfig configures a pool.
type PoolConfig struct {
	// Name labels log records.
	Name string

	// TickInterval is how often the driver wakes. Default: 16ms.
	TickInterval time.Duration

	// Concurrency caps simultaneous task invocations. Default: 4.
	Concurrency int

	// Clock defaults to SystemClock.
	Clock Clock

	// StartPaused makes the pool begin in StatePaused.
	StartPaused bool
}

// PoolStats counts task invocations.
type PoolStats struct {
	Fired    uint64 // invocations started
	Skipped  uint64 // due entries skipped because they were still running or the pool was saturated
	Failed   uint64 // invocations that returned an error
	Panicked uint64 // invocations that panicked
}

// Pool runs a list of periodic tasks. A driver goroutine started by Start
// wakes every tick and launches each task whose interval has elapsed since
// its own last run. Missed intervals are not replayed: a task fires at most
// once per tick and its clock restarts at the tick that fired it.
//
// The driver moves between Running and Paused on control signals and ends on
// Close. Pausing never interrupts a running invocation; it only stops new
// ones from starting.
type Pool struct {
	name   string
	tick   time.Duration
	clock  Clock
	queue  *Queue
	group  errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State
	entries []*entry
	started bool

	control chan control
	exited  chan struct{}

	fired, skipped, failed, panicked atomic.Uint64
}

// NewPool creates a pool that pushes callbacks to queue.
func NewPool(cfg PoolConfig, queue *Queue, entries ...Entry) *Pool {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 4
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if queue == nil {
		queue = NewQueue(DefaultQueueSize)
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		name:    cfg.Name,
		tick:    cfg.TickInterval,
		clock:   cfg.Clock,
		queue:   queue,
		ctx:     ctx,
		cancel:  cancel,
		control: make(chan control),
		exited:  make(chan struct{}),
	}
	if cfg.StartPaused {
		p.state = StatePaused
	}
	p.group.SetLimit(cfg.Concurrency)
	for _, e := range entries {
		p.Add(e)
	}
	return p
}

// Name returns the pool's name.
func (p *Pool) Name() string { return p.name }

// Add registers a task. Its first run comes one interval after now.
func (p *Pool) Add(e Entry) {
	if e.Task == nil || e.Interval <= 0 {
		Logger().Warn("ignoring task without body or interval", "pool", p.name, "task", e.Name)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, &entry{Entry: e, lastRun: p.clock.Now()})
}

// Len returns the number of registered tasks.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// State returns the driver state.
func (p *Pool) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Stats returns invocation counters.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Fired:    p.fired.Load(),
		Skipped:  p.skipped.Load(),
		Failed:   p.failed.Load(),
		Panicked: p.panicked.Load(),
	}
}

// Start launches the driver goroutine. Every task's clock restarts now.
// The driver stops when Close is called or ctx is done.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.state == StateClosed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	if p.started {
		p.mu.Unlock()
		return fmt.Errorf("tasks: pool %q already started", p.name)
	}
	p.started = true
	p.resetClocks(p.clock.Now())
	p.mu.Unlock()

	go p.run(ctx)
	Logger().Debug("pool started", "pool", p.name, "tick", p.tick, "tasks", p.Len())
	return nil
}

func (p *Pool) run(ctx context.Context) {
	defer close(p.exited)
	for {
		switch p.State() {
		case StateClosed:
			return

		case StatePaused:
			// Block until something changes; no ticking while paused.
			select {
			case c := <-p.control:
				p.handle(c)
			case <-ctx.Done():
				p.handle(control{sig: SignalClose})
			}

		case StateRunning:
			select {
			case c := <-p.control:
				p.handle(c)
				continue
			default:
			}
			p.Tick(p.clock.Now())
			select {
			case <-p.clock.After(p.tick):
			case c := <-p.control:
				p.handle(c)
			case <-ctx.Done():
				p.handle(control{sig: SignalClose})
			}
		}
	}
}

func (p *Pool) handle(c control) {
	p.mu.Lock()
	p.apply(c.sig)
	p.mu.Unlock()
	if c.done != nil {
		close(c.done)
	}
}

// apply performs a state transition. Callers hold p.mu.
func (p *Pool) apply(sig Signal) {
	if p.state == StateClosed {
		return
	}
	prev := p.state
	switch sig {
	case SignalPause:
		p.state = StatePaused
	case SignalResume:
		if prev == StatePaused {
			// Resume starts every interval over; missed runs are not replayed.
			p.resetClocks(p.clock.Now())
		}
		p.state = StateRunning
	case SignalClose:
		p.state = StateClosed
	}
	if prev != p.state {
		Logger().Debug("pool state changed", "pool", p.name, "from", prev, "to", p.state)
	}
}

func (p *Pool) resetClocks(now time.Time) {
	for _, e := range p.entries {
		e.lastRun = now
	}
}

// send delivers a signal to the driver and waits until it is applied. Before
// Start the transition is applied directly.
func (p *Pool) send(sig Signal) error {
	p.mu.Lock()
	if p.state == StateClosed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	if !p.started {
		p.apply(sig)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	c := control{sig: sig, done: make(chan struct{})}
	select {
	case p.control <- c:
		<-c.done
		return nil
	case <-p.exited:
		return ErrPoolClosed
	}
}

// Pause stops new invocations. It returns once the driver is paused;
// invocations already running continue. See WaitIdle.
func (p *Pool) Pause() error {
	return p.send(SignalPause)
}

// Resume restarts ticking. Every task's clock restarts at the resume instant.
func (p *Pool) Resume() error {
	return p.send(SignalResume)
}

// WaitIdle blocks until no invocation is running. Call it only while the pool
// is paused or closed, so no new invocation can start concurrently.
func (p *Pool) WaitIdle() {
	_ = p.group.Wait()
}

// Close stops the driver and waits for running invocations to finish, so a
// final state-producing task is not lost. It is safe to call more than once.
func (p *Pool) Close() error {
	err := p.send(SignalClose)
	if err != nil && !errors.Is(err, ErrPoolClosed) {
		return err
	}
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if started {
		<-p.exited
	}
	p.WaitIdle()
	p.cancel()
	return nil
}

// Tick launches every due task as of now and returns how many it launched.
// The driver calls it once per tick; tests call it directly with a manual
// time. It does nothing unless the pool is running.
func (p *Pool) Tick(now time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateRunning {
		return 0
	}

	launched := 0
	for _, e := range p.entries {
		if now.Sub(e.lastRun) < e.Interval {
			continue
		}
		if !e.running.CompareAndSwap(false, true) {
			p.skipped.Add(1)
			continue
		}
		e := e
		if !p.group.TryGo(func() error {
			p.invoke(e)
			return nil
		}) {
			e.running.Store(false)
			p.skipped.Add(1)
			Logger().Debug("pool saturated, skipping task", "pool", p.name, "task", e.Name)
			continue
		}
		e.lastRun = now
		p.fired.Add(1)
		launched++
	}
	return launched
}

// invoke runs one task invocation. A panic or error is logged and counted;
// it never reaches the driver or the other tasks.
func (p *Pool) invoke(e *entry) {
	defer e.running.Store(false)
	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
			Logger().Error("task panicked", "pool", p.name, "task", e.Name, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	cb, err := e.Task(p.ctx)
	if err != nil {
		p.failed.Add(1)
		Logger().Warn("task failed", "pool", p.name, "task", e.Name, "err", err)
		return
	}
	if cb != nil {
		p.queue.Push(cb)
	}
}
