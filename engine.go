// Package rails is an application shell: it owns the window-facing frame
// loop, the retained node tree, the foreground and background task pools and
// the persisted application state, and moves them together through the
// start, pause, resume and close lifecycle.
package rails

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ramp-stack/rust-on-rails-sub000/retained"
	"github.com/ramp-stack/rust-on-rails-sub000/services"
	"github.com/ramp-stack/rust-on-rails-sub000/storage"
	"github.com/ramp-stack/rust-on-rails-sub000/tasks"
)

// Version is the shell version.
const Version = "0.1.0"

var (
	// ErrNotStarted is returned by calls that need a started engine.
	ErrNotStarted = errors.New("rails: engine not started")
	// ErrClosed is returned by calls on a closed engine.
	ErrClosed = errors.New("rails: engine closed")
)

// View is what an App sees while building a frame. Everything in it belongs
// to the UI goroutine; event handlers built into the tree may capture it.
type View struct {
	State      *storage.State
	Resources  *retained.Context
	Animations *retained.AnimationRegistry
	Services   services.Set
	Platform   Platform

	Frame uint64
	Size  retained.Size
}

// App builds the node tree for the current state. View is called once per
// frame on the UI goroutine.
type App interface {
	View(v *View) retained.Node
}

// AppFunc adapts a function to App.
type AppFunc func(v *View) retained.Node

func (f AppFunc) View(v *View) retained.Node { return f(v) }

// TaskProvider is implemented by apps with periodic work. Tasks is called
// once, before the pools start.
type TaskProvider interface {
	Tasks(svc services.Set) (foreground, background []tasks.Entry)
}

// Options configures NewEngine. Zero values pick defaults.
type Options struct {
	Config AppConfig

	// Store persists state. Nil opens a FileStore in the configured data
	// directory, which the engine then closes.
	Store storage.Store

	// Renderer receives every frame. Nil discards frames.
	Renderer Renderer

	Services services.Set
	Clock    tasks.Clock
	Platform Platform
}

// Response tells the windowing adapter what to do after an event.
type Response struct {
	RequestRedraw bool
	Exit          bool
}

// EngineStats contains loop and persistence counters.
type EngineStats struct {
	Frames         uint64
	Callbacks      uint64
	CallbackErrors uint64
	Saves          uint64
	SaveErrors     uint64
	TargetFPS      int

	Foreground tasks.PoolStats
	Background tasks.PoolStats
}

// Engine drives an App. HandleEvent, Start, Pause, Resume and Close must be
// called from the UI goroutine.
type Engine struct {
	cfg       AppConfig
	app       App
	platform  Platform
	clock     tasks.Clock
	renderer  Renderer
	services  services.Set
	store     storage.Store
	ownsStore bool

	rctx       *retained.Context
	state      *storage.State
	runtime    *tasks.Runtime
	dispatcher *retained.EventDispatcher
	animations *retained.AnimationRegistry
	tree       *retained.Tree
	cancel     context.CancelFunc

	size retained.Size

	startTime time.Time
	lastFrame time.Time
	lastSave  time.Time

	started atomic.Bool
	paused  atomic.Bool
	closed  atomic.Bool

	frames, callbacks, callbackErrors atomic.Uint64
	saves, saveErrors                 atomic.Uint64
}

// NewEngine creates an engine for app. Nothing runs until Start.
func NewEngine(app App, opts Options) (*Engine, error) {
	if app == nil {
		return nil, errors.New("rails: nil app")
	}
	cfg := opts.Config
	if cfg == (AppConfig{}) {
		cfg = DefaultAppConfig()
	}
	cfg.applyDefaults()
	if opts.Platform == "" {
		opts.Platform = CurrentPlatform()
	}
	if opts.Clock == nil {
		opts.Clock = tasks.SystemClock{}
	}
	if opts.Renderer == nil {
		opts.Renderer = discardRenderer{}
	}

	rctx, err := retained.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource context: %w", err)
	}
	rctx.SetScaleFactor(cfg.Window.ScaleFactor)

	dispatcher := retained.NewEventDispatcher()
	dispatcher.SetClock(opts.Clock.Now)

	rt := tasks.NewRuntime(tasks.RuntimeConfig{
		Clock:          opts.Clock,
		ForegroundTick: cfg.ForegroundTick(),
		BackgroundTick: cfg.BackgroundTick(),
		Concurrency:    cfg.Tasks.Concurrency,
		QueueSize:      cfg.Tasks.QueueSize,
		Background:     cfg.BackgroundEnabled(opts.Platform),
	})

	return &Engine{
		cfg:        cfg,
		app:        app,
		platform:   opts.Platform,
		clock:      opts.Clock,
		renderer:   opts.Renderer,
		services:   opts.Services.WithDefaults(),
		store:      opts.Store,
		rctx:       rctx,
		state:      storage.NewState(),
		runtime:    rt,
		dispatcher: dispatcher,
		animations: retained.NewAnimationRegistry(),
		size:       retained.Size{Width: cfg.Window.Width, Height: cfg.Window.Height},
	}, nil
}

// Config returns the resolved configuration.
func (e *Engine) Config() AppConfig { return e.cfg }

// State returns the application state. Touch it only on the UI goroutine.
func (e *Engine) State() *storage.State { return e.state }

// Resources returns the resource context.
func (e *Engine) Resources() *retained.Context { return e.rctx }

// Runtime returns the task runtime.
func (e *Engine) Runtime() *tasks.Runtime { return e.runtime }

// Services returns the platform services.
func (e *Engine) Services() services.Set { return e.services }

// Animations returns the registry ticked at the start of every frame.
func (e *Engine) Animations() *retained.AnimationRegistry { return e.animations }

// Tree returns the tree of the last frame, or nil before the first frame.
func (e *Engine) Tree() *retained.Tree { return e.tree }

// Size returns the window size in logical pixels.
func (e *Engine) Size() retained.Size { return e.size }

// IsPaused reports whether the engine is in the background.
func (e *Engine) IsPaused() bool { return e.paused.Load() }

// IsRunning reports whether the engine is started and not closed.
func (e *Engine) IsRunning() bool { return e.started.Load() && !e.closed.Load() }

// Stats returns loop statistics.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Frames:         e.frames.Load(),
		Callbacks:      e.callbacks.Load(),
		CallbackErrors: e.callbackErrors.Load(),
		Saves:          e.saves.Load(),
		SaveErrors:     e.saveErrors.Load(),
		TargetFPS:      e.cfg.Window.TargetFPS,
		Foreground:     e.runtime.Foreground().Stats(),
		Background:     e.runtime.Background().Stats(),
	}
}

// Start hydrates state, registers the app's tasks, starts both pools and
// enters the foreground. A store that cannot be read yields default state;
// only a store that cannot be opened fails Start.
func (e *Engine) Start(ctx context.Context) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if !e.started.CompareAndSwap(false, true) {
		return errors.New("rails: engine already started")
	}

	if e.store == nil {
		dir, err := e.cfg.ResolveDataDir()
		if err != nil {
			return err
		}
		fs, err := storage.NewFileStore(dir)
		if err != nil {
			return fmt.Errorf("failed to open state store: %w", err)
		}
		e.store, e.ownsStore = fs, true
	}

	state, err := storage.Hydrate(ctx, e.store)
	if err != nil {
		Logger().Warn("state hydrated with errors, using defaults where unreadable", "err", err)
	}
	e.state = state

	if tp, ok := e.app.(TaskProvider); ok {
		fg, bg := tp.Tasks(e.services)
		for _, entry := range fg {
			e.runtime.Foreground().Add(entry)
		}
		for _, entry := range bg {
			e.runtime.Background().Add(entry)
		}
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e.cancel = cancel
	if err := e.runtime.Start(runCtx); err != nil {
		cancel()
		return fmt.Errorf("failed to start task runtime: %w", err)
	}
	if err := e.runtime.EnterForeground(); err != nil {
		cancel()
		return fmt.Errorf("failed to enter foreground: %w", err)
	}

	now := e.clock.Now()
	e.startTime, e.lastFrame, e.lastSave = now, now, now
	Logger().Info("engine started",
		"app", e.cfg.App.Name,
		"platform", e.platform,
		"keys", e.state.Len(),
		"foreground_tasks", e.runtime.Foreground().Len(),
		"background_tasks", e.runtime.Background().Len(),
	)
	return nil
}

// HandleEvent processes one window event.
func (e *Engine) HandleEvent(ctx context.Context, ev Event) (Response, error) {
	if e.closed.Load() {
		return Response{Exit: true}, ErrClosed
	}
	if !e.started.Load() {
		return Response{}, ErrNotStarted
	}

	switch ev.Type {
	case EventResized:
		if ev.Width >= 0 && ev.Height >= 0 {
			e.size = retained.Size{Width: ev.Width, Height: ev.Height}
		}
		e.rctx.SetScaleFactor(ev.ScaleFactor)
		return Response{RequestRedraw: true}, nil

	case EventTick:
		now := ev.Time
		if now.IsZero() {
			now = e.clock.Now()
		}
		if _, err := e.RenderFrame(ctx, now); err != nil {
			return Response{}, err
		}
		return Response{RequestRedraw: e.runtime.Queue().Len() > 0 || e.animations.HasActive()}, nil

	case EventPaused:
		return Response{}, e.Pause(ctx)

	case EventResumed:
		return Response{RequestRedraw: true}, e.Resume()

	case EventCloseRequested:
		return Response{Exit: true}, e.Close(ctx)
	}

	if e.tree == nil || e.paused.Load() {
		return Response{}, nil
	}

	var err error
	switch ev.Type {
	case EventPointerMoved:
		err = e.dispatcher.PointerMove(e.tree, ev.X, ev.Y, ev.Modifiers)
	case EventPointerPressed:
		err = e.dispatcher.PointerDown(e.tree, ev.X, ev.Y, ev.Button, ev.Modifiers)
	case EventPointerReleased:
		err = e.dispatcher.PointerUp(e.tree, ev.X, ev.Y, ev.Button, ev.Modifiers)
	case EventPointerLeft:
		err = e.dispatcher.PointerLeave(e.tree, ev.Modifiers)
	case EventKeyPressed:
		err = e.dispatcher.Key(e.tree, ev.Key, ev.Text, retained.KeyPressed, ev.Modifiers, ev.Repeat)
	case EventKeyReleased:
		err = e.dispatcher.Key(e.tree, ev.Key, ev.Text, retained.KeyReleased, ev.Modifiers, false)
	default:
		return Response{}, fmt.Errorf("rails: unknown event %s", ev.Type)
	}
	if err != nil {
		return Response{}, fmt.Errorf("failed to dispatch %s: %w", ev.Type, err)
	}
	return Response{RequestRedraw: true}, nil
}

// RenderFrame runs one frame: it applies queued callbacks, asks the app for a
// tree, lays it out against the window, delivers a tick, draws and hands the
// result to the renderer. It returns nil while paused.
func (e *Engine) RenderFrame(ctx context.Context, now time.Time) (*Frame, error) {
	if e.paused.Load() {
		return nil, nil
	}
	delta := now.Sub(e.lastFrame)
	e.lastFrame = now

	n, err := e.runtime.Queue().Drain(e.state, e.rctx)
	e.callbacks.Add(uint64(n))
	if err != nil {
		e.callbackErrors.Add(1)
		Logger().Warn("callbacks failed", "err", err)
	}

	e.animations.Tick(now)

	number := e.frames.Add(1)
	view := &View{
		State:      e.state,
		Resources:  e.rctx,
		Animations: e.animations,
		Services:   e.services,
		Platform:   e.platform,
		Frame:      number,
		Size:       e.size,
	}
	root := e.app.View(view)
	if insets := e.services.SafeArea.Insets(); root != nil && !insets.IsZero() {
		root = retained.Pad(insets.Padding(), root)
	}

	tree := retained.NewTree(e.rctx, root)
	if _, err := tree.Layout(e.size); err != nil {
		return nil, fmt.Errorf("failed to lay out frame %d: %w", number, err)
	}
	if err := e.dispatcher.Tick(tree, now, delta); err != nil {
		return nil, fmt.Errorf("failed to tick frame %d: %w", number, err)
	}

	list := retained.AcquireDrawList()
	defer retained.ReleaseDrawList(list)
	if err := tree.Draw(list); err != nil {
		return nil, fmt.Errorf("failed to draw frame %d: %w", number, err)
	}
	e.tree = tree

	frame := &Frame{
		Number:      number,
		Time:        now,
		Delta:       delta,
		Size:        e.size,
		ScaleFactor: e.rctx.ScaleFactor(),
		Items:       list.Items(),
	}
	if err := e.renderer.Render(ctx, frame); err != nil {
		return nil, fmt.Errorf("failed to render frame %d: %w", number, err)
	}
	frame.Items = nil

	if every := e.cfg.AutosaveInterval(); every > 0 && e.state.Dirty() && now.Sub(e.lastSave) >= every {
		if err := e.Save(ctx); err != nil {
			Logger().Error("autosave failed", "err", err)
		}
	}
	return frame, nil
}

// Save writes dirty state to the store.
func (e *Engine) Save(ctx context.Context) error {
	if e.store == nil {
		return ErrNotStarted
	}
	e.lastSave = e.clock.Now()
	if err := e.state.Save(ctx, e.store); err != nil {
		e.saveErrors.Add(1)
		return fmt.Errorf("failed to save state: %w", err)
	}
	e.saves.Add(1)
	return nil
}

// Pause moves the engine to the background: the foreground pool stops, its
// running tasks finish, the background pool takes over and state is saved.
func (e *Engine) Pause(ctx context.Context) error {
	if !e.IsRunning() {
		return ErrNotStarted
	}
	if !e.paused.CompareAndSwap(false, true) {
		return nil
	}
	if err := e.runtime.EnterBackground(); err != nil {
		e.paused.Store(false)
		return fmt.Errorf("failed to enter background: %w", err)
	}
	e.drain()
	Logger().Info("engine paused")
	return e.Save(ctx)
}

// Resume returns the engine to the foreground.
func (e *Engine) Resume() error {
	if !e.IsRunning() {
		return ErrNotStarted
	}
	if !e.paused.CompareAndSwap(true, false) {
		return nil
	}
	// Frame deltas do not span the pause.
	e.lastFrame = e.clock.Now()
	if err := e.runtime.EnterForeground(); err != nil {
		return fmt.Errorf("failed to enter foreground: %w", err)
	}
	Logger().Info("engine resumed")
	return nil
}

// Close stops both pools, waits for their running tasks, applies what they
// produced and saves. It is safe to call more than once.
func (e *Engine) Close(ctx context.Context) error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	if !e.started.Load() {
		return nil
	}
	var errs []error
	if err := e.runtime.Close(); err != nil {
		errs = append(errs, err)
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.drain()
	if e.store != nil {
		if err := e.Save(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	e.rctx.EndFrame(nil)
	if e.ownsStore {
		if err := e.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	Logger().Info("engine closed", "frames", e.frames.Load())
	return errors.Join(errs...)
}

// drain applies pending callbacks outside a frame.
func (e *Engine) drain() {
	n, err := e.runtime.Queue().Drain(e.state, e.rctx)
	e.callbacks.Add(uint64(n))
	if err != nil {
		e.callbackErrors.Add(1)
		Logger().Warn("callbacks failed", "err", err)
	}
}

// Run is a headless driver: it starts the engine if needed, ticks it once per
// frame interval on the engine clock until ctx is done or maxFrames frames
// have rendered (zero means no limit), then closes it.
func (e *Engine) Run(ctx context.Context, maxFrames int) error {
	if !e.started.Load() {
		if err := e.Start(ctx); err != nil {
			return err
		}
	}
	interval := e.cfg.FrameInterval()
	for n := 0; maxFrames <= 0 || n < maxFrames; n++ {
		select {
		case <-ctx.Done():
			return errors.Join(ctx.Err(), e.Close(context.WithoutCancel(ctx)))
		case now := <-e.clock.After(interval):
			if _, err := e.HandleEvent(ctx, Tick(now)); err != nil {
				Logger().Warn("frame failed", "frame", n, "err", err)
			}
		}
	}
	return e.Close(ctx)
}
