package retained

import (
	"fmt"

	"github.com/chewxy/math32"
)

// ============================================================================
// Alignment
// ============================================================================

// Alignment places a child inside the space left over by its clamped size.
type Alignment uint8

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

// offset returns where a child of extent child starts inside extent avail.
func (a Alignment) offset(avail, child float32) float32 {
	free := avail - child
	if !(free > 0) {
		return 0
	}
	switch a {
	case AlignCenter:
		return free / 2
	case AlignEnd:
		return free
	default:
		return 0
	}
}

func layoutName(l Layout) string {
	return fmt.Sprintf("%T", l)
}

// ============================================================================
// Stack
// ============================================================================

// Stack overlays its children. Later children paint above earlier ones.
type Stack struct {
	Horizontal Alignment
	Vertical   Alignment
}

// RequestSize accepts the largest minimum and the largest maximum.
func (s Stack) RequestSize(_ *Context, children []SizeRequest) SizeRequest {
	if len(children) == 0 {
		return Fixed(Size{})
	}
	req := children[0]
	for _, c := range children[1:] {
		req = req.MaxWith(c)
	}
	return req
}

// Build gives every child the whole stack and aligns what is left over.
func (s Stack) Build(_ *Context, size Size, children []SizeRequest) []Area {
	areas := make([]Area, len(children))
	for i, c := range children {
		got := c.Get(size)
		areas[i] = Area{
			Offset: Offset{
				X: s.Horizontal.offset(size.Width, got.Width),
				Y: s.Vertical.offset(size.Height, got.Height),
			},
			Size: &Size{Width: size.Width, Height: size.Height},
		}
	}
	return areas
}

// ============================================================================
// Row / Column
// ============================================================================

// Row lays children out left to right. Space beyond the children's minimums
// is shared evenly among children that can still grow.
type Row struct {
	Spacing float32
	Align   Alignment // cross axis
}

// RequestSize sums the widths and takes the tallest bounds.
func (r Row) RequestSize(_ *Context, children []SizeRequest) SizeRequest {
	return linearRequest(children, r.Spacing, true)
}

// Build distributes the row's width and aligns each child vertically.
func (r Row) Build(_ *Context, size Size, children []SizeRequest) []Area {
	return linearBuild(size, children, r.Spacing, r.Align, true)
}

// Column lays children out top to bottom.
type Column struct {
	Spacing float32
	Align   Alignment // cross axis
}

// RequestSize sums the heights and takes the widest bounds.
func (c Column) RequestSize(_ *Context, children []SizeRequest) SizeRequest {
	return linearRequest(children, c.Spacing, false)
}

// Build distributes the column's height and aligns each child horizontally.
func (c Column) Build(_ *Context, size Size, children []SizeRequest) []Area {
	return linearBuild(size, children, c.Spacing, c.Align, false)
}

func linearRequest(children []SizeRequest, spacing float32, horizontal bool) SizeRequest {
	if len(children) == 0 {
		return Fixed(Size{})
	}
	var mainMin, mainMax, crossMin, crossMax float32
	for _, c := range children {
		if horizontal {
			mainMin += c.MinWidth
			mainMax += c.MaxWidth
			crossMin = math32.Max(crossMin, c.MinHeight)
			crossMax = math32.Max(crossMax, c.MaxHeight)
		} else {
			mainMin += c.MinHeight
			mainMax += c.MaxHeight
			crossMin = math32.Max(crossMin, c.MinWidth)
			crossMax = math32.Max(crossMax, c.MaxWidth)
		}
	}
	gaps := spacing * float32(len(children)-1)
	if horizontal {
		return SizeRequest{
			MinWidth:  mainMin + gaps,
			MaxWidth:  mainMax + gaps,
			MinHeight: crossMin,
			MaxHeight: crossMax,
		}
	}
	return SizeRequest{
		MinWidth:  crossMin,
		MaxWidth:  crossMax,
		MinHeight: mainMin + gaps,
		MaxHeight: mainMax + gaps,
	}
}

func linearBuild(size Size, children []SizeRequest, spacing float32, align Alignment, horizontal bool) []Area {
	mins := make([]float32, len(children))
	maxs := make([]float32, len(children))
	for i, c := range children {
		if horizontal {
			mins[i], maxs[i] = c.MinWidth, c.MaxWidth
		} else {
			mins[i], maxs[i] = c.MinHeight, c.MaxHeight
		}
	}

	main, cross := size.Width, size.Height
	if !horizontal {
		main, cross = size.Height, size.Width
	}
	extents := distribute(main-spacing*float32(len(children)-1), mins, maxs)

	areas := make([]Area, len(children))
	var cursor float32
	for i, c := range children {
		var area Area
		if horizontal {
			got := c.Get(Size{Width: extents[i], Height: cross})
			area = Area{
				Offset: Offset{X: cursor, Y: align.offset(cross, got.Height)},
				Size:   &Size{Width: extents[i], Height: cross},
			}
		} else {
			got := c.Get(Size{Width: cross, Height: extents[i]})
			area = Area{
				Offset: Offset{X: align.offset(cross, got.Width), Y: cursor},
				Size:   &Size{Width: cross, Height: extents[i]},
			}
		}
		areas[i] = area
		cursor += extents[i] + spacing
	}
	return areas
}

// distribute starts every child at its minimum and hands out the remaining
// space in equal shares to children below their maximum, until the space or
// the growable children run out.
func distribute(available float32, mins, maxs []float32) []float32 {
	out := make([]float32, len(mins))
	copy(out, mins)

	remaining := available
	for _, m := range mins {
		remaining -= m
	}

	// Each round either spends everything or caps at least one child.
	const epsilon = 1e-4
	for round := 0; remaining > epsilon && round <= len(out); round++ {
		growable := 0
		for i := range out {
			if out[i] < maxs[i] {
				growable++
			}
		}
		if growable == 0 {
			break
		}
		share := remaining / float32(growable)
		for i := range out {
			if out[i] >= maxs[i] {
				continue
			}
			grant := math32.Min(share, maxs[i]-out[i])
			out[i] += grant
			remaining -= grant
		}
	}
	return out
}

// ============================================================================
// Padding
// ============================================================================

// Padding insets its children by fixed amounts on each edge.
type Padding struct {
	Top, Right, Bottom, Left float32
}

// Uniform returns padding with the same inset on every edge.
func Uniform(p float32) Padding {
	return Padding{Top: p, Right: p, Bottom: p, Left: p}
}

// RequestSize adds the insets to the children's combined request.
func (p Padding) RequestSize(ctx *Context, children []SizeRequest) SizeRequest {
	return Stack{}.RequestSize(ctx, children).Add(p.Left+p.Right, p.Top+p.Bottom)
}

// Build places every child inside the inset rectangle.
func (p Padding) Build(_ *Context, size Size, children []SizeRequest) []Area {
	inner := Size{
		Width:  math32.Max(size.Width-p.Left-p.Right, 0),
		Height: math32.Max(size.Height-p.Top-p.Bottom, 0),
	}
	areas := make([]Area, len(children))
	for i := range children {
		areas[i] = Area{Offset: Offset{X: p.Left, Y: p.Top}, Size: &Size{Width: inner.Width, Height: inner.Height}}
	}
	return areas
}

// ============================================================================
// Constrained / Absolute
// ============================================================================

// Constrained replaces the children's combined request with an explicit one,
// e.g. Constrained{Request: Fill()} to make a fixed child's box expand.
// Children are stacked at the origin.
type Constrained struct {
	Request SizeRequest
}

// RequestSize returns the explicit request.
func (c Constrained) RequestSize(*Context, []SizeRequest) SizeRequest {
	return c.Request
}

// Build stacks every child at the origin with the full size.
func (c Constrained) Build(ctx *Context, size Size, children []SizeRequest) []Area {
	return Stack{}.Build(ctx, size, children)
}

// Absolute places child i at Offsets[i]; missing offsets are the origin.
// The request covers the bounding box of every child's minimum.
type Absolute struct {
	Offsets []Offset
}

func (a Absolute) offset(i int) Offset {
	if i < len(a.Offsets) {
		return a.Offsets[i]
	}
	return Offset{}
}

// RequestSize returns the bounding box of the children at their offsets.
func (a Absolute) RequestSize(_ *Context, children []SizeRequest) SizeRequest {
	if len(children) == 0 {
		return Fixed(Size{})
	}
	var w, h float32
	for i, c := range children {
		o := a.offset(i)
		w = math32.Max(w, o.X+c.MinWidth)
		h = math32.Max(h, o.Y+c.MinHeight)
	}
	return SizeRequest{MinWidth: w, MinHeight: h, MaxWidth: math32.Inf(1), MaxHeight: math32.Inf(1)}
}

// Build gives every child its offset and the space to the far edge.
func (a Absolute) Build(_ *Context, size Size, children []SizeRequest) []Area {
	areas := make([]Area, len(children))
	for i := range children {
		o := a.offset(i)
		areas[i] = Area{
			Offset: o,
			Size: &Size{
				Width:  math32.Max(size.Width-o.X, 0),
				Height: math32.Max(size.Height-o.Y, 0),
			},
		}
	}
	return areas
}
