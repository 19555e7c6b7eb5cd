package services

import (
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// Camera delivers the most recent frame of a capture session.
type Camera interface {
	Frame() (*image.RGBA, error)
}

// FeedCamera is a Camera fed by whoever owns the capture session. Frame
// returns ErrNotReady until the first Push.
type FeedCamera struct {
	mu     sync.Mutex
	frame  *image.RGBA
	err    error
	frames uint64
}

// NewFeedCamera returns a camera with no frame yet.
func NewFeedCamera() *FeedCamera {
	return &FeedCamera{}
}

// Push replaces the current frame. Non-RGBA sources such as the YCbCr
// planes most capture APIs produce are converted.
func (c *FeedCamera) Push(img image.Image) {
	rgba := ToRGBA(img)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame = rgba
	c.err = nil
	c.frames++
}

// Deny records that camera access was refused. Frame reports it until the
// next Push.
func (c *FeedCamera) Deny() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = newError("camera", KindAccessDenied, "")
	Logger().Warn("camera access denied")
}

// Frames returns how many frames were pushed.
func (c *FeedCamera) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Frame returns a copy of the latest frame.
func (c *FeedCamera) Frame() (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	if c.frame == nil {
		return nil, newError("camera", KindNotReady, "no frame captured")
	}
	out := image.NewRGBA(c.frame.Rect)
	copy(out.Pix, c.frame.Pix)
	return out, nil
}

// ToRGBA converts img to RGBA with its origin at (0,0). An *image.RGBA that
// already starts at the origin is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Thumbnail scales img to fit within maxW x maxH, keeping its aspect ratio.
// Images already small enough are only converted.
func Thumbnail(img image.Image, maxW, maxH int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || (w <= maxW && h <= maxH) || maxW <= 0 || maxH <= 0 {
		return ToRGBA(img)
	}
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	tw := max(1, int(float64(w)*scale))
	th := max(1, int(float64(h)*scale))
	out := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
