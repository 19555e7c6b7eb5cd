package retained

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrInvalidSizeRequest is returned when a request has a negative bound or a
// minimum larger than its maximum on either axis.
var ErrInvalidSizeRequest = errors.New("retained: invalid size request")

// Size is a width/height pair in logical units.
type Size struct {
	Width, Height float32
}

// Offset is a position relative to the parent's top-left corner.
type Offset struct {
	X, Y float32
}

// Add returns the sum of two offsets.
func (o Offset) Add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// Sub returns o minus other.
func (o Offset) Sub(other Offset) Offset {
	return Offset{X: o.X - other.X, Y: o.Y - other.Y}
}

// ============================================================================
// SizeRequest
// ============================================================================

// SizeRequest is the range of sizes a node accepts.
// The zero value is Fixed(Size{}).
type SizeRequest struct {
	MinWidth  float32
	MinHeight float32
	MaxWidth  float32
	MaxHeight float32
}

// NewSizeRequest validates and builds a request.
func NewSizeRequest(minWidth, minHeight, maxWidth, maxHeight float32) (SizeRequest, error) {
	r := SizeRequest{
		MinWidth:  minWidth,
		MinHeight: minHeight,
		MaxWidth:  maxWidth,
		MaxHeight: maxHeight,
	}
	if err := r.Validate(); err != nil {
		return SizeRequest{}, err
	}
	return r, nil
}

// MustSizeRequest is NewSizeRequest that panics on invalid bounds.
func MustSizeRequest(minWidth, minHeight, maxWidth, maxHeight float32) SizeRequest {
	r, err := NewSizeRequest(minWidth, minHeight, maxWidth, maxHeight)
	if err != nil {
		panic(err)
	}
	return r
}

// Fixed returns a request that accepts exactly one size.
func Fixed(size Size) SizeRequest {
	return SizeRequest{
		MinWidth:  size.Width,
		MinHeight: size.Height,
		MaxWidth:  size.Width,
		MaxHeight: size.Height,
	}
}

// Fill returns the maximal request: anything from zero to infinity.
func Fill() SizeRequest {
	return SizeRequest{
		MaxWidth:  math32.Inf(1),
		MaxHeight: math32.Inf(1),
	}
}

// Validate reports whether the bounds are usable.
func (r SizeRequest) Validate() error {
	switch {
	case math32.IsNaN(r.MinWidth) || math32.IsNaN(r.MinHeight) ||
		math32.IsNaN(r.MaxWidth) || math32.IsNaN(r.MaxHeight):
		return fmt.Errorf("%w: NaN bound", ErrInvalidSizeRequest)
	case r.MinWidth < 0 || r.MinHeight < 0:
		return fmt.Errorf("%w: negative minimum (%g, %g)", ErrInvalidSizeRequest, r.MinWidth, r.MinHeight)
	case math32.IsInf(r.MinWidth, 1) || math32.IsInf(r.MinHeight, 1):
		return fmt.Errorf("%w: infinite minimum", ErrInvalidSizeRequest)
	case r.MinWidth > r.MaxWidth:
		return fmt.Errorf("%w: min width %g > max width %g", ErrInvalidSizeRequest, r.MinWidth, r.MaxWidth)
	case r.MinHeight > r.MaxHeight:
		return fmt.Errorf("%w: min height %g > max height %g", ErrInvalidSizeRequest, r.MinHeight, r.MaxHeight)
	}
	return nil
}

// Min returns the smallest acceptable size.
func (r SizeRequest) Min() Size {
	return Size{Width: r.MinWidth, Height: r.MinHeight}
}

// Max returns the largest acceptable size.
func (r SizeRequest) Max() Size {
	return Size{Width: r.MaxWidth, Height: r.MaxHeight}
}

// Get clamps an allotted size into the request's bounds, per axis.
func (r SizeRequest) Get(allotted Size) Size {
	return Size{
		Width:  clamp(allotted.Width, r.MinWidth, r.MaxWidth),
		Height: clamp(allotted.Height, r.MinHeight, r.MaxHeight),
	}
}

// Add shifts both bounds of each axis by a constant. Used by layouts that
// draw chrome (padding, spacing) around their children.
func (r SizeRequest) Add(width, height float32) SizeRequest {
	return r.AddWidth(width).AddHeight(height)
}

// AddWidth shifts both width bounds by w. Bounds never drop below zero.
func (r SizeRequest) AddWidth(w float32) SizeRequest {
	r.MinWidth = math32.Max(r.MinWidth+w, 0)
	r.MaxWidth = math32.Max(r.MaxWidth+w, 0)
	return r
}

// AddHeight shifts both height bounds by h. Bounds never drop below zero.
func (r SizeRequest) AddHeight(h float32) SizeRequest {
	r.MinHeight = math32.Max(r.MinHeight+h, 0)
	r.MaxHeight = math32.Max(r.MaxHeight+h, 0)
	return r
}

// MaxWith returns the smallest request that satisfies the minimums of both
// requests, with the larger of the two maximums.
func (r SizeRequest) MaxWith(other SizeRequest) SizeRequest {
	return SizeRequest{
		MinWidth:  math32.Max(r.MinWidth, other.MinWidth),
		MinHeight: math32.Max(r.MinHeight, other.MinHeight),
		MaxWidth:  math32.Max(r.MaxWidth, other.MaxWidth),
		MaxHeight: math32.Max(r.MaxHeight, other.MaxHeight),
	}
}

// IsFixed reports whether the request collapses to a single size.
func (r SizeRequest) IsFixed() bool {
	return r.MinWidth == r.MaxWidth && r.MinHeight == r.MaxHeight
}

func (r SizeRequest) String() string {
	return fmt.Sprintf("SizeRequest{w: %g..%g, h: %g..%g}", r.MinWidth, r.MaxWidth, r.MinHeight, r.MaxHeight)
}

// clamp is min(max(v, lo), hi). When lo > hi (an invalid request slipped
// through) the minimum wins so the node still gets its declared floor.
func clamp(v, lo, hi float32) float32 {
	if math32.IsNaN(v) {
		return lo
	}
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
