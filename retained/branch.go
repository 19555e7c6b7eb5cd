package retained

import "github.com/chewxy/math32"

// RequestBranch pairs a node's own request with its children's branches, in
// the same order the node enumerates its children for build and draw.
type RequestBranch struct {
	Request  SizeRequest
	Children []RequestBranch
}

// ChildRequests returns the requests of the direct children.
func (b RequestBranch) ChildRequests() []SizeRequest {
	reqs := make([]SizeRequest, len(b.Children))
	for i, c := range b.Children {
		reqs[i] = c.Request
	}
	return reqs
}

// SizedBranch is the resolved size of a node plus its positioned children.
type SizedBranch struct {
	Size     Size
	Children []PositionedBranch
}

// PositionedBranch is a child branch placed at an offset inside its parent.
type PositionedBranch struct {
	Offset Offset
	Branch SizedBranch
}

// Areas returns the geometry of the direct children, as handed to Event.Pass.
func (b SizedBranch) Areas() []Area {
	areas := make([]Area, len(b.Children))
	for i, c := range b.Children {
		size := c.Branch.Size
		areas[i] = Area{Offset: c.Offset, Size: &size}
	}
	return areas
}

// ============================================================================
// Geometry
// ============================================================================

// Area is a child's placement chosen by a layout. Size is optional: a nil
// Size means "use the child's clamped request against the parent's size".
type Area struct {
	Offset Offset
	Size   *Size
}

// At returns an area at the given offset with no explicit size.
func At(x, y float32) Area {
	return Area{Offset: Offset{X: x, Y: y}}
}

// Sized returns an area with both offset and size.
func Sized(x, y, width, height float32) Area {
	return Area{Offset: Offset{X: x, Y: y}, Size: &Size{Width: width, Height: height}}
}

// Contains reports whether p lies inside the area, counting the top and left
// edges but not the bottom and right ones, so a point on a shared edge
// belongs to exactly one of two neighbors. Areas without a size, or with a
// zero dimension, contain nothing.
func (a Area) Contains(p Offset) bool {
	if a.Size == nil {
		return false
	}
	return p.X >= a.Offset.X && p.X < a.Offset.X+a.Size.Width &&
		p.Y >= a.Offset.Y && p.Y < a.Offset.Y+a.Size.Height
}

// Rect is an axis-aligned rectangle in absolute (frame) coordinates.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Intersect returns the overlap of two rectangles. The result may have a
// zero or negative size when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math32.Max(r.X, o.X)
	y0 := math32.Max(r.Y, o.Y)
	x1 := math32.Min(r.X+r.Width, o.X+o.Width)
	y1 := math32.Min(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return !(r.Width > 0) || !(r.Height > 0)
}

// Contains reports whether the point is inside the rectangle (half-open).
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}
