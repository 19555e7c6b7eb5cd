package retained

// Builder helpers for common node patterns.
// These keep per-frame tree construction short.

// HStack lays children out left to right.
func HStack(spacing float32, children ...Node) *Component {
	return &Component{Layout: Row{Spacing: spacing}, Children: children}
}

// VStack lays children out top to bottom.
func VStack(spacing float32, children ...Node) *Component {
	return &Component{Layout: Column{Spacing: spacing}, Children: children}
}

// ZStack layers children on top of each other.
func ZStack(children ...Node) *Component {
	return &Component{Layout: Stack{}, Children: children}
}

// Centered layers children centered in the available space.
func Centered(children ...Node) *Component {
	return &Component{Layout: Stack{Horizontal: AlignCenter, Vertical: AlignCenter}, Children: children}
}

// Pad insets children by p.
func Pad(p Padding, children ...Node) *Component {
	return &Component{Layout: p, Children: children}
}

// Constrain overrides the combined request of children.
func Constrain(req SizeRequest, children ...Node) *Component {
	return &Component{Layout: Constrained{Request: req}, Children: children}
}

// Expand makes children accept any size.
func Expand(children ...Node) *Component {
	return Constrain(Fill(), children...)
}

// Spacer is an empty node that takes up whatever space it is given.
func Spacer() *Component {
	return Expand()
}

// Scrollable shows children through a vertical viewport scrolled by state.
func Scrollable(state *ScrollState, children ...Node) *Component {
	return &Component{Layout: Scroll{State: state}, Children: children}
}

// Label is a single run of text in the default font.
func Label(text string, size float32, color Color) *Text {
	return &Text{Text: text, Size: size, Color: color}
}

// Paragraph is text wrapped at maxWidth.
func Paragraph(text string, size, maxWidth float32, color Color) *Text {
	return &Text{Text: text, Size: size, Color: color, MaxWidth: &maxWidth}
}

// Box is a filled rectangle.
func Box(width, height float32, color Color) *Shape {
	return &Shape{Geometry: Rectangle{Width: width, Height: height}, Color: color}
}

// Picture draws an atlas image in a width x height rectangle.
func Picture(img Handle, width, height float32) *Image {
	return &Image{Geometry: Rectangle{Width: width, Height: height}, Image: img}
}

// Pressable calls onPress when a press lands on children and passes every
// event through.
func Pressable(onPress func(ctx *Context, ev *PointerEvent), children ...Node) *Component {
	return &Component{
		Layout: Stack{},
		Handler: EventHandlerFunc(func(ctx *Context, ev Event) bool {
			if pe, ok := ev.(*PointerEvent); ok && pe.State == PointerPressed && pe.Over() {
				onPress(ctx, pe)
			}
			return true
		}),
		Children: children,
	}
}

// Inert blocks every event from reaching children.
func Inert(children ...Node) *Component {
	return &Component{
		Layout:   Stack{},
		Handler:  EventHandlerFunc(func(*Context, Event) bool { return false }),
		Children: children,
	}
}

// WithHandler sets the component's event handler and returns it.
func (c *Component) WithHandler(h EventHandler) *Component {
	c.Handler = h
	return c
}

// WithChildren appends children and returns the component.
func (c *Component) WithChildren(children ...Node) *Component {
	c.Children = append(c.Children, children...)
	return c
}
