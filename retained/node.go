package retained

import "github.com/chewxy/math32"

// ============================================================================
// Node
// ============================================================================

// Node is an element of the drawable tree. The set of node kinds is closed:
// *Shape, *Text, *Image and *Component. Custom behavior is added through a
// Component's Layout and EventHandler rather than new node kinds.
//
// A tree is rebuilt from application state every frame; nodes are never
// mutated across frames.
type Node interface {
	requestSize(ctx *Context) RequestBranch
	build(ctx *Context, size Size, branch RequestBranch) SizedBranch
	draw(ctx *Context, sized SizedBranch, offset Offset, bound Rect, out *DrawList)
	event(ctx *Context, sized SizedBranch, ev Event)
	visitHandles(fn func(Handle))
}

// Layout positions the children of a Component.
//
// RequestSize must be a pure function of the children's requests. With no
// children it should return its neutral request, usually Fixed(Size{}). Build
// receives the component's final size and returns one Area per child, in
// child order. The walker clamps every child against its own request, so a
// layout never has to. The children slice is only valid during the call.
type Layout interface {
	RequestSize(ctx *Context, children []SizeRequest) SizeRequest
	Build(ctx *Context, size Size, children []SizeRequest) []Area
}

// EventHandler is consulted before an event descends into a component's
// children. Returning false makes the whole subtree inert for that event.
type EventHandler interface {
	OnEvent(ctx *Context, ev Event) bool
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx *Context, ev Event) bool

// OnEvent calls f(ctx, ev).
func (f EventHandlerFunc) OnEvent(ctx *Context, ev Event) bool { return f(ctx, ev) }

// ============================================================================
// Leaves
// ============================================================================

// Shape is a solid geometric leaf.
type Shape struct {
	Geometry Geometry
	Color    Color
}

func (s *Shape) requestSize(*Context) RequestBranch {
	return RequestBranch{Request: Fixed(geometrySize(s.Geometry))}
}

func (s *Shape) build(_ *Context, size Size, _ RequestBranch) SizedBranch {
	return SizedBranch{Size: size}
}

func (s *Shape) draw(_ *Context, _ SizedBranch, offset Offset, bound Rect, out *DrawList) {
	if s.Geometry == nil {
		return
	}
	out.push(offset, bound, SolidShape{Geometry: s.Geometry, Color: s.Color})
}

func (s *Shape) event(*Context, SizedBranch, Event) {}
func (s *Shape) visitHandles(func(Handle))         {}

// Text is a run of text measured with a font from the context's atlas.
type Text struct {
	Text       string
	Font       Handle
	Size       float32
	LineHeight float32 // absolute; 0 means Size * DefaultLineSpacing
	Color      Color
	MaxWidth   *float32 // wrap width; nil means a single unwrapped line per '\n'
}

func (t *Text) requestSize(ctx *Context) RequestBranch {
	return RequestBranch{Request: Fixed(ctx.MeasureText(t))}
}

func (t *Text) build(_ *Context, size Size, _ RequestBranch) SizedBranch {
	return SizedBranch{Size: size}
}

func (t *Text) draw(ctx *Context, _ SizedBranch, offset Offset, bound Rect, out *DrawList) {
	if t.Text == "" {
		return
	}
	out.push(offset, bound, TextOp{
		Text:       t.Text,
		Font:       ctx.resolveFont(t.Font),
		Size:       t.Size,
		LineHeight: t.lineHeight(),
		Color:      t.Color,
		MaxWidth:   t.MaxWidth,
	})
}

func (t *Text) lineHeight() float32 {
	if t.LineHeight > 0 {
		return t.LineHeight
	}
	return t.Size * DefaultLineSpacing
}

func (t *Text) event(*Context, SizedBranch, Event) {}

func (t *Text) visitHandles(fn func(Handle)) {
	if !t.Font.IsZero() {
		fn(t.Font)
	}
}

// Image draws an atlas image clipped to a geometry, optionally tinted.
type Image struct {
	Geometry Geometry
	Image    Handle
	Tint     *Color
}

func (i *Image) requestSize(*Context) RequestBranch {
	return RequestBranch{Request: Fixed(geometrySize(i.Geometry))}
}

func (i *Image) build(_ *Context, size Size, _ RequestBranch) SizedBranch {
	return SizedBranch{Size: size}
}

func (i *Image) draw(ctx *Context, _ SizedBranch, offset Offset, bound Rect, out *DrawList) {
	if i.Geometry == nil {
		return
	}
	if _, ok := ctx.Atlas().Image(i.Image); !ok {
		// Missing image: the node renders empty, the frame carries on.
		Logger().Debug("image handle not found", "handle", i.Image)
		return
	}
	out.push(offset, bound, ImageShape{Geometry: i.Geometry, Image: i.Image, Tint: i.Tint})
}

func (i *Image) event(*Context, SizedBranch, Event) {}

func (i *Image) visitHandles(fn func(Handle)) {
	if !i.Image.IsZero() {
		fn(i.Image)
	}
}

// ============================================================================
// Component
// ============================================================================

// Component is a composite node: a layout, an optional event handler and an
// ordered list of exclusively owned children.
type Component struct {
	Layout   Layout
	Handler  EventHandler
	Children []Node
}

func (c *Component) layout() Layout {
	if c.Layout == nil {
		return Stack{}
	}
	return c.Layout
}

func (c *Component) requestSize(ctx *Context) RequestBranch {
	children := make([]RequestBranch, len(c.Children))
	for i, child := range c.Children {
		children[i] = child.requestSize(ctx)
	}

	reqs := acquireRequestSlice(len(children))
	defer releaseRequestSlice(reqs)
	for i, b := range children {
		reqs[i] = b.Request
	}

	req := c.layout().RequestSize(ctx, reqs)
	if err := req.Validate(); err != nil {
		Logger().Warn("layout returned invalid request", "layout", layoutName(c.layout()), "err", err)
		req = sanitizeRequest(req)
	}
	return RequestBranch{Request: req, Children: children}
}

func (c *Component) build(ctx *Context, size Size, branch RequestBranch) SizedBranch {
	sized := SizedBranch{Size: size}
	if len(c.Children) == 0 {
		return sized
	}

	reqs := acquireRequestSlice(len(branch.Children))
	defer releaseRequestSlice(reqs)
	for i, b := range branch.Children {
		reqs[i] = b.Request
	}

	areas := c.layout().Build(ctx, size, reqs)
	if len(areas) != len(c.Children) {
		Logger().Warn("layout returned wrong number of areas",
			"layout", layoutName(c.layout()), "areas", len(areas), "children", len(c.Children))
	}

	sized.Children = make([]PositionedBranch, len(c.Children))
	for i, child := range c.Children {
		area := Area{}
		if i < len(areas) {
			area = areas[i]
		}
		allotted := size
		if area.Size != nil {
			allotted = *area.Size
		}
		childSize := branch.Children[i].Request.Get(allotted)
		sized.Children[i] = PositionedBranch{
			Offset: area.Offset,
			Branch: child.build(ctx, childSize, branch.Children[i]),
		}
	}
	return sized
}

func (c *Component) draw(ctx *Context, sized SizedBranch, offset Offset, bound Rect, out *DrawList) {
	for i, child := range c.Children {
		if i >= len(sized.Children) {
			break
		}
		pos := sized.Children[i]
		drawNode(ctx, child, pos.Branch, offset.Add(pos.Offset), bound, out)
	}
}

func (c *Component) event(ctx *Context, sized SizedBranch, ev Event) {
	if c.Handler != nil && !c.Handler.OnEvent(ctx, ev) {
		return
	}
	if len(c.Children) == 0 {
		return
	}
	passed := ev.Pass(ctx, sized.Areas())
	for i, childEvent := range passed {
		if childEvent == nil || i >= len(c.Children) || i >= len(sized.Children) {
			continue
		}
		c.Children[i].event(ctx, sized.Children[i].Branch, childEvent)
	}
}

func (c *Component) visitHandles(fn func(Handle)) {
	for _, child := range c.Children {
		child.visitHandles(fn)
	}
}

// drawNode computes a node's bound and skips it, with its whole subtree, when
// the bound has no area.
func drawNode(ctx *Context, n Node, sized SizedBranch, offset Offset, parentBound Rect, out *DrawList) {
	bound := parentBound.Intersect(Rect{
		X:      offset.X,
		Y:      offset.Y,
		Width:  sized.Size.Width,
		Height: sized.Size.Height,
	})
	if bound.Empty() {
		return
	}
	n.draw(ctx, sized, offset, bound, out)
}

// sanitizeRequest clears unusable minimums and raises each max to its min.
func sanitizeRequest(r SizeRequest) SizeRequest {
	fix := func(v float32) float32 {
		if math32.IsNaN(v) || v < 0 || math32.IsInf(v, 1) {
			return 0
		}
		return v
	}
	r.MinWidth = fix(r.MinWidth)
	r.MinHeight = fix(r.MinHeight)
	if !(r.MaxWidth >= r.MinWidth) {
		r.MaxWidth = r.MinWidth
	}
	if !(r.MaxHeight >= r.MinHeight) {
		r.MaxHeight = r.MinHeight
	}
	return r
}
