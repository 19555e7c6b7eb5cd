package retained

import (
	"time"
)

// ============================================================================
// Event Dispatcher
// ============================================================================

// EventDispatcher turns raw window input into tree events. It tracks the
// pointer position, the pressed button and consecutive presses for click
// counting. Positions are in the root's coordinate space (logical units).
type EventDispatcher struct {
	pointer      Offset
	pointerKnown bool

	pressedButton MouseButton

	// For click detection
	lastClickTime time.Time
	lastClickPos  Offset
	clickCount    int

	// Configuration
	doubleClickTime time.Duration // Max time between presses for a multi-click
	doubleClickDist float32       // Max distance between presses for a multi-click

	now func() time.Time
}

// NewEventDispatcher creates a dispatcher with a 500ms, 5 unit multi-click
// window.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		doubleClickTime: 500 * time.Millisecond,
		doubleClickDist: 5.0,
		now:             time.Now,
	}
}

// SetClock replaces the time source used for click detection.
func (d *EventDispatcher) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	d.now = now
}

// Pointer returns the last known pointer position.
func (d *EventDispatcher) Pointer() (Offset, bool) {
	return d.pointer, d.pointerKnown
}

// PressedButton returns the button currently held, if any.
func (d *EventDispatcher) PressedButton() MouseButton {
	return d.pressedButton
}

// ============================================================================
// Pointer Dispatch
// ============================================================================

// PointerMove records the position and delivers a move event.
func (d *EventDispatcher) PointerMove(tree *Tree, x, y float32, mods Modifiers) error {
	d.pointer = Offset{X: x, Y: y}
	d.pointerKnown = true
	return tree.Dispatch(d.pointerEvent(PointerMoved, d.pressedButton, mods, 0))
}

// PointerDown delivers a press event carrying the click count.
func (d *EventDispatcher) PointerDown(tree *Tree, x, y float32, button MouseButton, mods Modifiers) error {
	d.pointer = Offset{X: x, Y: y}
	d.pointerKnown = true
	d.pressedButton = button
	return tree.Dispatch(d.pointerEvent(PointerPressed, button, mods, d.countClick()))
}

// PointerUp delivers a release event. Nodes that are no longer under the
// pointer still see it with a nil position, so a drag can end anywhere.
func (d *EventDispatcher) PointerUp(tree *Tree, x, y float32, button MouseButton, mods Modifiers) error {
	d.pointer = Offset{X: x, Y: y}
	d.pointerKnown = true
	if button == d.pressedButton {
		d.pressedButton = MouseButtonNone
	}
	return tree.Dispatch(d.pointerEvent(PointerReleased, button, mods, d.clickCount))
}

// PointerLeave forgets the pointer position and delivers a move event with
// no position, so every node sees the pointer as gone.
func (d *EventDispatcher) PointerLeave(tree *Tree, mods Modifiers) error {
	d.pointerKnown = false
	return tree.Dispatch(&PointerEvent{State: PointerMoved, Button: d.pressedButton, Modifiers: mods})
}

func (d *EventDispatcher) pointerEvent(state PointerState, button MouseButton, mods Modifiers, clicks int) *PointerEvent {
	pos := d.pointer
	return &PointerEvent{
		Position:   &pos,
		State:      state,
		Button:     button,
		Modifiers:  mods,
		ClickCount: clicks,
	}
}

// countClick updates the multi-click counter for a press at the current
// pointer position. A fourth press starts over at one.
func (d *EventDispatcher) countClick() int {
	now := d.now()

	timeDiff := now.Sub(d.lastClickTime)
	dx := d.pointer.X - d.lastClickPos.X
	dy := d.pointer.Y - d.lastClickPos.Y
	dist := dx*dx + dy*dy

	if d.clickCount > 0 && d.clickCount < 3 &&
		timeDiff <= d.doubleClickTime && dist <= d.doubleClickDist*d.doubleClickDist {
		d.clickCount++
	} else {
		d.clickCount = 1
	}

	d.lastClickTime = now
	d.lastClickPos = d.pointer
	return d.clickCount
}

// ============================================================================
// Keyboard and Tick Dispatch
// ============================================================================

// Key delivers a keyboard event to every node.
func (d *EventDispatcher) Key(tree *Tree, key, text string, state KeyState, mods Modifiers, repeat bool) error {
	return tree.Dispatch(&KeyboardEvent{
		Key:       key,
		Text:      text,
		State:     state,
		Modifiers: mods,
		Repeat:    repeat,
	})
}

// Tick delivers a frame tick to every node.
func (d *EventDispatcher) Tick(tree *Tree, now time.Time, delta time.Duration) error {
	return tree.Dispatch(&TickEvent{Now: now, Delta: delta})
}
