package retained

import (
	"fmt"
	"math"
)

// ============================================================================
// Colors
// ============================================================================

// Color is a packed 0xRRGGBBAA value.
type Color uint32

// RGBA packs a color from its components.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// RGB packs an opaque color.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 255)
}

// HexColor interprets 0xRRGGBB as an opaque color.
func HexColor(hex uint32) Color {
	return Color(hex<<8 | 0xFF)
}

// Components unpacks the color.
func (c Color) Components() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// WithAlpha returns the color with a replaced alpha channel.
func (c Color) WithAlpha(a uint8) Color {
	return c&^0xFF | Color(a)
}

func (c Color) String() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

// ============================================================================
// Geometry
// ============================================================================

// Geometry is the outline of a shape or image leaf.
type Geometry interface {
	Bounds() Size
	geometry()
}

// Rectangle is an axis-aligned box. A non-zero Stroke draws only the outline.
type Rectangle struct {
	Width, Height float32
	Stroke        float32
}

// RoundedRectangle is a box with uniformly rounded corners.
type RoundedRectangle struct {
	Width, Height float32
	Radius        float32
	Stroke        float32
}

// Circle is a circle inscribed in a Diameter-sized square.
type Circle struct {
	Diameter float32
	Stroke   float32
}

// Ellipse is an ellipse inscribed in its bounds.
type Ellipse struct {
	Width, Height float32
	Stroke        float32
}

func (r Rectangle) Bounds() Size        { return Size{Width: r.Width, Height: r.Height} }
func (r RoundedRectangle) Bounds() Size { return Size{Width: r.Width, Height: r.Height} }
func (c Circle) Bounds() Size           { return Size{Width: c.Diameter, Height: c.Diameter} }
func (e Ellipse) Bounds() Size          { return Size{Width: e.Width, Height: e.Height} }

func (Rectangle) geometry()        {}
func (RoundedRectangle) geometry() {}
func (Circle) geometry()           {}
func (Ellipse) geometry()          {}

// geometrySize returns the non-negative bounds of g; nil geometry is empty.
func geometrySize(g Geometry) Size {
	if g == nil {
		return Size{}
	}
	b := g.Bounds()
	if !(b.Width > 0) {
		b.Width = 0
	}
	if !(b.Height > 0) {
		b.Height = 0
	}
	return b
}

// ============================================================================
// Paint operations
// ============================================================================

// PaintOp is what a draw item paints: SolidShape, ImageShape or TextOp.
type PaintOp interface {
	paintOp()
}

// SolidShape fills (or strokes) a geometry with a color.
type SolidShape struct {
	Geometry Geometry
	Color    Color
}

// ImageShape paints an atlas image into a geometry.
type ImageShape struct {
	Geometry Geometry
	Image    Handle
	Tint     *Color
}

// TextOp paints a run of text.
type TextOp struct {
	Text       string
	Font       Handle
	Size       float32
	LineHeight float32
	Color      Color
	MaxWidth   *float32
}

func (SolidShape) paintOp() {}
func (ImageShape) paintOp() {}
func (TextOp) paintOp()     {}

// DrawItem is one positioned paint operation. Offset is absolute in frame
// coordinates and Clip is the intersection of every ancestor's bound.
type DrawItem struct {
	Clip   Rect
	Offset Offset
	Z      uint16
	Op     PaintOp
}

// DrawList collects the items of one frame in paint order. Z starts at the
// top of the range and counts down as items are pushed, so later items sort
// above earlier ones when a renderer treats smaller Z as closer.
type DrawList struct {
	items []DrawItem
	z     uint16
}

// NewDrawList returns an empty list with room for capacity items.
func NewDrawList(capacity int) *DrawList {
	return &DrawList{
		items: make([]DrawItem, 0, capacity),
		z:     math.MaxUint16,
	}
}

func (l *DrawList) push(offset Offset, clip Rect, op PaintOp) {
	l.items = append(l.items, DrawItem{Clip: clip, Offset: offset, Z: l.z, Op: op})
	if l.z > 0 {
		l.z--
	}
}

// Items returns the collected items in paint order.
func (l *DrawList) Items() []DrawItem {
	return l.items
}

// Len returns the number of collected items.
func (l *DrawList) Len() int {
	return len(l.items)
}

// Reset clears the list for reuse.
func (l *DrawList) Reset() {
	l.items = l.items[:0]
	l.z = math.MaxUint16
}
