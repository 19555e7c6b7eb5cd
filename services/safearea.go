package services

import "github.com/ramp-stack/rust-on-rails-sub000/retained"

// Insets are the logical-pixel distances from each window edge that content
// should avoid: notches, status bars, home indicators. Desktop windows have
// none.
type Insets struct {
	Top    float32
	Left   float32
	Bottom float32
	Right  float32
}

// IsZero reports whether all insets are zero.
func (i Insets) IsZero() bool {
	return i == Insets{}
}

// Padding converts the insets to a padding layout.
func (i Insets) Padding() retained.Padding {
	return retained.Padding{Top: i.Top, Right: i.Right, Bottom: i.Bottom, Left: i.Left}
}

// SafeArea reports the current insets.
type SafeArea interface {
	Insets() Insets
}

// FixedSafeArea always reports the same insets.
type FixedSafeArea Insets

func (f FixedSafeArea) Insets() Insets { return Insets(f) }
