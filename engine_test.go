package rails

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramp-stack/rust-on-rails-sub000/retained"
	"github.com/ramp-stack/rust-on-rails-sub000/services"
	"github.com/ramp-stack/rust-on-rails-sub000/storage"
	"github.com/ramp-stack/rust-on-rails-sub000/tasks"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type Taps struct {
	N int `json:"n"`
}

// frameRecorder copies every frame it receives.
type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *frameRecorder) Render(_ context.Context, f *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	cp.Items = append([]retained.DrawItem(nil), f.Items...)
	r.frames = append(r.frames, cp)
	return nil
}

func (r *frameRecorder) last() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[len(r.frames)-1]
}

func (r *frameRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// tapApp is a tappable square next to a plain one.
func tapApp(v *View) retained.Node {
	return retained.HStack(0,
		retained.Pressable(func(*retained.Context, *retained.PointerEvent) {
			_ = storage.Update(v.State, func(t Taps) Taps {
				t.N++
				return t
			})
		}, retained.Box(50, 50, retained.RGB(255, 0, 0))),
		retained.Box(50, 50, retained.RGB(0, 0, 255)),
	)
}

type harness struct {
	engine   *Engine
	store    *storage.MemoryStore
	clock    *tasks.ManualClock
	renderer *frameRecorder
}

func newHarness(t *testing.T, app App, mutate func(*Options)) *harness {
	t.Helper()
	h := &harness{
		store:    storage.NewMemoryStore(),
		clock:    tasks.NewManualClock(t0),
		renderer: &frameRecorder{},
	}
	opts := Options{
		Store:    h.store,
		Renderer: h.renderer,
		Clock:    h.clock,
		Platform: PlatformLinux,
	}
	if mutate != nil {
		mutate(&opts)
	}
	e, err := NewEngine(app, opts)
	require.NoError(t, err)
	h.engine = e
	t.Cleanup(func() { _ = e.Close(context.Background()) })
	return h
}

func (h *harness) event(t *testing.T, ev Event) Response {
	t.Helper()
	resp, err := h.engine.HandleEvent(context.Background(), ev)
	require.NoError(t, err)
	return resp
}

func TestEngineRendersAndDispatches(t *testing.T) {
	h := newHarness(t, AppFunc(tapApp), nil)
	require.NoError(t, h.engine.Start(context.Background()))

	h.event(t, Resized(300, 200, 2))
	h.event(t, Tick(t0.Add(16*time.Millisecond)))

	frame := h.renderer.last()
	assert.Equal(t, uint64(1), frame.Number)
	assert.Equal(t, float32(2), frame.ScaleFactor)
	assert.Equal(t, retained.Size{Width: 300, Height: 200}, frame.Size)
	require.Len(t, frame.Items, 2)
	assert.Equal(t, retained.Offset{X: 0, Y: 0}, frame.Items[0].Offset)
	assert.Equal(t, retained.Offset{X: 50, Y: 0}, frame.Items[1].Offset)

	// Pressing the blue box does nothing; pressing the red one counts.
	h.event(t, PointerPressed(75, 25, retained.MouseButtonLeft))
	assert.Equal(t, 0, storage.Get[Taps](h.engine.State()).N)
	h.event(t, PointerPressed(25, 25, retained.MouseButtonLeft))
	h.event(t, PointerReleased(25, 25, retained.MouseButtonLeft))
	assert.Equal(t, 1, storage.Get[Taps](h.engine.State()).N)
}

func TestEngineEventsBeforeFirstFrame(t *testing.T) {
	h := newHarness(t, AppFunc(tapApp), nil)

	_, err := h.engine.HandleEvent(context.Background(), PointerMoved(1, 1))
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, h.engine.Start(context.Background()))
	resp := h.event(t, PointerPressed(25, 25, retained.MouseButtonLeft))
	assert.False(t, resp.RequestRedraw)
	assert.Equal(t, 0, storage.Get[Taps](h.engine.State()).N)
}

func TestEngineSafeAreaPadding(t *testing.T) {
	h := newHarness(t, AppFunc(tapApp), func(o *Options) {
		o.Services = services.Set{SafeArea: services.FixedSafeArea{Top: 20, Left: 10}}
	})
	require.NoError(t, h.engine.Start(context.Background()))
	h.event(t, Tick(t0))

	items := h.renderer.last().Items
	require.Len(t, items, 2)
	assert.Equal(t, retained.Offset{X: 10, Y: 20}, items[0].Offset)
}

func TestEngineAppliesCallbacksEachFrame(t *testing.T) {
	h := newHarness(t, AppFunc(tapApp), nil)
	require.NoError(t, h.engine.Start(context.Background()))

	cb, err := tasks.Store(Taps{N: 7})
	require.NoError(t, err)
	h.engine.Runtime().Queue().Push(cb)

	resp := h.event(t, Tick(t0))
	assert.False(t, resp.RequestRedraw)
	assert.Equal(t, 7, storage.Get[Taps](h.engine.State()).N)
	assert.Equal(t, uint64(1), h.engine.Stats().Callbacks)
}

func TestEnginePauseSavesAndSkipsFrames(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, AppFunc(tapApp), nil)
	require.NoError(t, h.engine.Start(ctx))
	h.event(t, Tick(t0))
	require.NoError(t, storage.Set(h.engine.State(), Taps{N: 3}))

	h.event(t, Paused())
	assert.True(t, h.engine.IsPaused())
	assert.Equal(t, tasks.StatePaused, h.engine.Runtime().Foreground().State())
	_, ok, err := h.store.Get(ctx, storage.KeyOf[Taps]())
	require.NoError(t, err)
	assert.True(t, ok, "pause flushes state")

	h.event(t, Tick(t0.Add(time.Second)))
	assert.Equal(t, 1, h.renderer.count(), "no frames while paused")

	resp := h.event(t, Resumed())
	assert.True(t, resp.RequestRedraw)
	assert.False(t, h.engine.IsPaused())
	assert.Equal(t, tasks.StateRunning, h.engine.Runtime().Foreground().State())
	h.event(t, Tick(t0.Add(2*time.Second)))
	assert.Equal(t, 2, h.renderer.count())
}

func TestEngineFailedPauseKeepsRendering(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, AppFunc(tapApp), nil)
	require.NoError(t, h.engine.Start(ctx))
	h.event(t, Tick(t0))
	require.NoError(t, h.engine.Runtime().Close())

	assert.ErrorIs(t, h.engine.Pause(ctx), tasks.ErrPoolClosed)
	assert.False(t, h.engine.IsPaused())

	h.event(t, Tick(t0.Add(time.Second)))
	assert.Equal(t, 2, h.renderer.count())
}

func TestEngineCloseDrainsAndSaves(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, AppFunc(tapApp), nil)
	require.NoError(t, h.engine.Start(ctx))

	h.engine.Runtime().Queue().Push(tasks.SetField{Key: "late", Value: []byte(`"result"`)})
	resp := h.event(t, CloseRequested())
	assert.True(t, resp.Exit)
	assert.False(t, h.engine.IsRunning())

	b, ok, err := h.store.Get(ctx, "late")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"result"`, string(b))

	resp, err = h.engine.HandleEvent(ctx, Tick(t0))
	assert.ErrorIs(t, err, ErrClosed)
	assert.True(t, resp.Exit)
	assert.NoError(t, h.engine.Close(ctx))
}

func TestEngineStartsWithCorruptState(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, AppFunc(tapApp), nil)
	require.NoError(t, h.store.Set(ctx, storage.KeyOf[Taps](), []byte("{not json")))

	require.NoError(t, h.engine.Start(ctx))
	assert.Equal(t, Taps{}, storage.Get[Taps](h.engine.State()))
	h.event(t, Tick(t0))
	assert.Equal(t, 1, h.renderer.count())
}

type tickingApp struct{}

func (a *tickingApp) View(*View) retained.Node { return retained.Box(1, 1, 0) }

func (a *tickingApp) Tasks(services.Set) (fg, bg []tasks.Entry) {
	fg = []tasks.Entry{{Name: "fetch", Interval: 100 * time.Millisecond, Task: func(context.Context) (tasks.Callback, error) {
		return tasks.SetField{Key: "fetched", Value: []byte("1")}, nil
	}}}
	bg = []tasks.Entry{{Name: "sync", Interval: time.Hour, Task: func(context.Context) (tasks.Callback, error) {
		return nil, nil
	}}}
	return fg, bg
}

func TestEngineRunsAppTasks(t *testing.T) {
	app := &tickingApp{}
	h := newHarness(t, app, nil)
	require.NoError(t, h.engine.Start(context.Background()))
	assert.Equal(t, 1, h.engine.Runtime().Foreground().Len())
	assert.Equal(t, 1, h.engine.Runtime().Background().Len())

	require.Eventually(t, func() bool { return h.clock.Waiters() == 1 }, time.Second, time.Millisecond)
	h.clock.Advance(100 * time.Millisecond)
	require.Eventually(t, func() bool { return h.engine.Runtime().Queue().Len() == 1 }, time.Second, time.Millisecond)

	h.event(t, Tick(h.clock.Now()))
	assert.True(t, h.engine.State().Has("fetched"))
	assert.Equal(t, uint64(1), h.engine.Stats().Foreground.Fired)
}

func TestEngineRunHeadless(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Window.TargetFPS = 1000
	renderer := &frameRecorder{}
	e, err := NewEngine(AppFunc(tapApp), Options{
		Config:   cfg,
		Store:    storage.NewMemoryStore(),
		Renderer: renderer,
		Platform: PlatformLinux,
	})
	require.NoError(t, err)

	require.NoError(t, e.Run(context.Background(), 3))
	assert.Equal(t, 3, renderer.count())
	assert.False(t, e.IsRunning())
	assert.Equal(t, uint64(3), e.Stats().Frames)
}

func TestEngineTicksAnimations(t *testing.T) {
	var width float32
	started := false
	app := AppFunc(func(v *View) retained.Node {
		if !started {
			started = true
			v.Animations.Animate(100*time.Millisecond, func(p float64) {
				width = retained.Lerp(0, 100, p)
			})
		}
		return retained.Box(width, 10, retained.RGB(0, 255, 0))
	})
	h := newHarness(t, app, nil)
	require.NoError(t, h.engine.Start(context.Background()))

	// The first frame registers the animation; the next ones advance it.
	assert.True(t, h.event(t, Tick(t0)).RequestRedraw)
	assert.True(t, h.event(t, Tick(t0.Add(50*time.Millisecond))).RequestRedraw)
	assert.Equal(t, float32(0), width)
	assert.True(t, h.event(t, Tick(t0.Add(100*time.Millisecond))).RequestRedraw)
	assert.Equal(t, float32(50), width)
	assert.False(t, h.event(t, Tick(t0.Add(200*time.Millisecond))).RequestRedraw)
	assert.Equal(t, float32(100), width)
	assert.Equal(t, 0, h.engine.Animations().Len())
}
