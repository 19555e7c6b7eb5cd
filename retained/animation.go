package retained

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// AnimationID uniquely identifies an animation.
type AnimationID uint64

var nextAnimationID atomic.Uint64

// EasingFunc maps time progress in [0,1] to value progress.
type EasingFunc func(t float64) float64

var (
	EaseLinear    EasingFunc = func(t float64) float64 { return t }
	EaseInQuad    EasingFunc = func(t float64) float64 { return math.Pow(t, 2) }
	EaseOutQuad   EasingFunc = func(t float64) float64 { return 1 - math.Pow(1-t, 2) }
	EaseInOutQuad EasingFunc = func(t float64) float64 { return inOut(t, 2) }
	EaseOutCubic  EasingFunc = func(t float64) float64 { return 1 - math.Pow(1-t, 3) }

	// EaseOutBack overshoots by about ten percent before settling.
	EaseOutBack EasingFunc = func(t float64) float64 {
		const k = 1.70158
		u := t - 1
		return 1 + (k+1)*u*u*u + k*u*u
	}

	EaseOutBounce EasingFunc = bounce
)

// inOut accelerates with power n through the first half and mirrors it.
func inOut(t, n float64) float64 {
	if t < 0.5 {
		return math.Pow(2, n-1) * math.Pow(t, n)
	}
	return 1 - math.Pow(-2*t+2, n)/2
}

// bounce is a ball dropped from height 1: four parabolic arcs of
// shrinking height.
func bounce(t float64) float64 {
	const g, d = 7.5625, 2.75
	arcs := [...]struct{ end, mid, floor float64 }{
		{1 / d, 0, 0},
		{2 / d, 1.5 / d, 0.75},
		{2.5 / d, 2.25 / d, 0.9375},
		{math.Inf(1), 2.625 / d, 0.984375},
	}
	for _, a := range arcs {
		if t < a.end {
			u := t - a.mid
			return g*u*u + a.floor
		}
	}
	return 1
}

var easings = map[string]EasingFunc{
	"linear":      EaseLinear,
	"ease-in":     EaseInQuad,
	"ease-out":    EaseOutQuad,
	"ease":        EaseInOutQuad,
	"ease-in-out": EaseInOutQuad,
	"cubic":       EaseOutCubic,
	"back":        EaseOutBack,
	"bounce":      EaseOutBounce,
}

// EasingByName returns the easing function for name, or nil if unknown.
func EasingByName(name string) EasingFunc {
	return easings[name]
}

// Animation reports eased progress to its update function on every frame
// until its duration has elapsed. The start time is the first frame after it
// was added.
type Animation struct {
	id         AnimationID
	start      time.Time
	duration   time.Duration
	easing     EasingFunc
	update     func(progress float64)
	onComplete func()
	loop       bool
	cancelled  atomic.Bool
}

// NewAnimation returns an animation lasting d that calls update with the
// eased progress each frame.
func NewAnimation(d time.Duration, update func(progress float64)) *Animation {
	return &Animation{
		id:       AnimationID(nextAnimationID.Add(1)),
		duration: d,
		easing:   EaseLinear,
		update:   update,
	}
}

func (a *Animation) ID() AnimationID { return a.id }

// Easing sets the easing function and returns the animation.
func (a *Animation) Easing(fn EasingFunc) *Animation {
	if fn != nil {
		a.easing = fn
	}
	return a
}

// Loop makes the animation restart forever instead of completing.
func (a *Animation) Loop() *Animation {
	a.loop = true
	return a
}

// OnComplete sets a function run once after the final update.
func (a *Animation) OnComplete(fn func()) *Animation {
	a.onComplete = fn
	return a
}

// Cancel stops the animation without a final update.
func (a *Animation) Cancel() { a.cancelled.Store(true) }

func (a *Animation) IsCancelled() bool { return a.cancelled.Load() }

// progress advances the animation to now and reports whether it finished.
func (a *Animation) progress(now time.Time) (float64, bool) {
	if a.start.IsZero() {
		a.start = now
	}
	if a.duration <= 0 {
		return 1, !a.loop
	}
	elapsed := now.Sub(a.start)
	if elapsed >= a.duration {
		if !a.loop {
			return 1, true
		}
		elapsed %= a.duration
		a.start = now.Add(-elapsed)
	}
	return float64(elapsed) / float64(a.duration), false
}

// AnimationRegistry holds the running animations of an engine. While any
// animation is active the engine keeps requesting redraws.
type AnimationRegistry struct {
	mu         sync.Mutex
	animations map[AnimationID]*Animation
}

func NewAnimationRegistry() *AnimationRegistry {
	return &AnimationRegistry{animations: make(map[AnimationID]*Animation)}
}

// Add registers anim and returns it.
func (r *AnimationRegistry) Add(anim *Animation) *Animation {
	r.mu.Lock()
	r.animations[anim.id] = anim
	r.mu.Unlock()
	return anim
}

// Animate adds an animation of duration d tweening with update.
func (r *AnimationRegistry) Animate(d time.Duration, update func(progress float64)) *Animation {
	return r.Add(NewAnimation(d, update))
}

// Remove drops the animation with id, if any.
func (r *AnimationRegistry) Remove(id AnimationID) {
	r.mu.Lock()
	delete(r.animations, id)
	r.mu.Unlock()
}

func (r *AnimationRegistry) HasActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.animations) > 0
}

func (r *AnimationRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.animations)
}

// Tick advances every animation to now, dropping finished and cancelled
// ones. Update and completion functions run outside the lock, so they may
// add animations. It reports whether any animation is still active.
func (r *AnimationRegistry) Tick(now time.Time) bool {
	type step struct {
		anim     *Animation
		progress float64
		done     bool
	}

	r.mu.Lock()
	steps := make([]step, 0, len(r.animations))
	for id, anim := range r.animations {
		if anim.IsCancelled() {
			delete(r.animations, id)
			continue
		}
		p, done := anim.progress(now)
		if done {
			delete(r.animations, id)
		}
		steps = append(steps, step{anim: anim, progress: p, done: done})
	}
	r.mu.Unlock()

	for _, s := range steps {
		if s.anim.update != nil {
			s.anim.update(s.anim.easing(s.progress))
		}
		if s.done && s.anim.onComplete != nil {
			s.anim.onComplete()
		}
	}
	return r.HasActive()
}

// Lerp interpolates between a and b.
func Lerp(a, b float32, t float64) float32 {
	return a + (b-a)*float32(t)
}

// LerpColor interpolates each channel between from and to.
func LerpColor(from, to Color, t float64) Color {
	fr, fg, fb, fa := from.Components()
	tr, tg, tb, ta := to.Components()
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return RGBA(mix(fr, tr), mix(fg, tg), mix(fb, tb), mix(fa, ta))
}
