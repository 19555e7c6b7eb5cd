package retained

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimationRunsToCompletion(t *testing.T) {
	start := time.Unix(100, 0)
	r := NewAnimationRegistry()

	var got []float64
	done := 0
	r.Animate(100*time.Millisecond, func(p float64) { got = append(got, p) }).
		OnComplete(func() { done++ })
	require.True(t, r.HasActive())

	assert.True(t, r.Tick(start))
	assert.True(t, r.Tick(start.Add(50*time.Millisecond)))
	assert.False(t, r.Tick(start.Add(150*time.Millisecond)))
	assert.False(t, r.Tick(start.Add(200*time.Millisecond)))

	assert.Equal(t, []float64{0, 0.5, 1}, got)
	assert.Equal(t, 1, done)
	assert.Equal(t, 0, r.Len())
}

func TestAnimationEasingAndCancel(t *testing.T) {
	start := time.Unix(0, 0)
	r := NewAnimationRegistry()

	var last float64
	a := r.Animate(time.Second, func(p float64) { last = p }).Easing(EaseInQuad)
	r.Tick(start)
	r.Tick(start.Add(500 * time.Millisecond))
	assert.InDelta(t, 0.25, last, 1e-9)

	a.Cancel()
	assert.False(t, r.Tick(start.Add(600*time.Millisecond)))
	assert.InDelta(t, 0.25, last, 1e-9, "cancelled animations get no final update")
}

func TestAnimationLoop(t *testing.T) {
	start := time.Unix(0, 0)
	r := NewAnimationRegistry()

	var last float64
	r.Animate(100*time.Millisecond, func(p float64) { last = p }).Loop()
	r.Tick(start)
	assert.True(t, r.Tick(start.Add(130*time.Millisecond)))
	assert.InDelta(t, 0.3, last, 1e-9)
	assert.True(t, r.Tick(start.Add(180*time.Millisecond)))
	assert.InDelta(t, 0.8, last, 1e-9)
}

func TestEasingEndpoints(t *testing.T) {
	for _, name := range []string{"linear", "ease-in", "ease-out", "ease", "cubic", "back", "bounce"} {
		fn := EasingByName(name)
		require.NotNil(t, fn, name)
		assert.InDelta(t, 0, fn(0), 1e-9, name)
		assert.InDelta(t, 1, fn(1), 1e-9, name)
	}
	assert.Nil(t, EasingByName("wobble"))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, float32(15), Lerp(10, 20, 0.5))
	assert.Equal(t, RGB(128, 128, 128), LerpColor(RGB(0, 0, 0), RGB(255, 255, 255), 0.5))
	assert.Equal(t, RGB(255, 0, 0), LerpColor(RGB(255, 0, 0), RGB(0, 0, 255), 0))
}
