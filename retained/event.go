package retained

import "time"

// ============================================================================
// Event Types
// ============================================================================

// MouseButton identifies which pointer button changed state.
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// Modifier keys
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper // Cmd on Mac, Win on Windows
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Super() bool { return m&ModSuper != 0 }

// PointerState is what happened to the pointer.
type PointerState uint8

const (
	PointerMoved PointerState = iota
	PointerPressed
	PointerReleased
)

func (s PointerState) String() string {
	switch s {
	case PointerPressed:
		return "pressed"
	case PointerReleased:
		return "released"
	default:
		return "moved"
	}
}

// KeyState is whether a key went down or up.
type KeyState uint8

const (
	KeyPressed KeyState = iota
	KeyReleased
)

// ============================================================================
// Event Interface
// ============================================================================

// Event is anything that propagates through a sized tree.
//
// Pass receives the areas of a component's children, in child order, and
// returns one event per child. A nil element suppresses the event for that
// child. Every returned event must be a distinct value: no two children share
// one.
type Event interface {
	Pass(ctx *Context, children []Area) []Event
}

// ============================================================================
// Pointer Event
// ============================================================================

// PointerEvent is a pointer move, press or release. Position is local to the
// node receiving the event, or nil when the pointer is not over it.
type PointerEvent struct {
	Position  *Offset
	State     PointerState
	Button    MouseButton
	Modifiers Modifiers

	// ClickCount is 1 for a single press, 2 for a double press and so on.
	ClickCount int
}

// Pass hit-tests children from last to first, since the last child paints on
// top. The first child whose area contains the position gets it in
// local coordinates. Every other child still gets the event with a nil
// position so it can observe non-positional state such as a release.
func (e *PointerEvent) Pass(_ *Context, children []Area) []Event {
	out := make([]Event, len(children))
	hit := false
	for i := len(children) - 1; i >= 0; i-- {
		child := *e
		child.Position = nil
		if !hit && e.Position != nil && children[i].Contains(*e.Position) {
			local := e.Position.Sub(children[i].Offset)
			child.Position = &local
			hit = true
		}
		out[i] = &child
	}
	return out
}

// Over reports whether the pointer is over the receiving node.
func (e *PointerEvent) Over() bool {
	return e.Position != nil
}

// ============================================================================
// Keyboard Event
// ============================================================================

// KeyboardEvent is a key press or release. Text holds the characters the key
// produced, if any.
type KeyboardEvent struct {
	Key       string
	Text      string
	State     KeyState
	Modifiers Modifiers
	Repeat    bool
}

// Pass broadcasts a copy to every child.
func (e *KeyboardEvent) Pass(_ *Context, children []Area) []Event {
	out := make([]Event, len(children))
	for i := range children {
		child := *e
		out[i] = &child
	}
	return out
}

// ============================================================================
// Tick Event
// ============================================================================

// TickEvent is delivered once per frame before the tree is rebuilt.
type TickEvent struct {
	Now   time.Time
	Delta time.Duration
}

// Pass broadcasts a copy to every child.
func (e *TickEvent) Pass(_ *Context, children []Area) []Event {
	out := make([]Event, len(children))
	for i := range children {
		child := *e
		out[i] = &child
	}
	return out
}
