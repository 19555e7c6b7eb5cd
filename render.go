package rails

import (
	"context"
	"time"

	"github.com/ramp-stack/rust-on-rails-sub000/retained"
)

// Frame is one rendered frame handed to a Renderer.
type Frame struct {
	// Number is the monotonically increasing frame counter.
	Number uint64

	// Time is when the frame was produced and Delta the time since the
	// previous one.
	Time  time.Time
	Delta time.Duration

	// Size is the window size in logical pixels.
	Size        retained.Size
	ScaleFactor float32

	// Items are the positioned paint operations in paint order. The slice
	// is reused after Render returns; renderers that keep it must copy it.
	Items []retained.DrawItem
}

// Renderer consumes finished frames. It is the boundary to the GPU backend.
type Renderer interface {
	Render(ctx context.Context, frame *Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, frame *Frame) error

func (f RendererFunc) Render(ctx context.Context, frame *Frame) error { return f(ctx, frame) }

// discardRenderer drops every frame.
type discardRenderer struct{}

func (discardRenderer) Render(context.Context, *Frame) error { return nil }

// LogRenderer logs a summary of each frame at debug level. Headless runs use
// it in place of a GPU backend.
type LogRenderer struct{}

func (LogRenderer) Render(_ context.Context, f *Frame) error {
	var shapes, images, texts int
	for _, item := range f.Items {
		switch item.Op.(type) {
		case retained.SolidShape:
			shapes++
		case retained.ImageShape:
			images++
		case retained.TextOp:
			texts++
		}
	}
	Logger().Debug("frame",
		"number", f.Number,
		"delta", f.Delta,
		"size", f.Size,
		"items", len(f.Items),
		"shapes", shapes,
		"images", images,
		"texts", texts,
	)
	return nil
}
