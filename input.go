package rails

import (
	"fmt"
	"time"

	"github.com/ramp-stack/rust-on-rails-sub000/retained"
)

// EventType identifies a window event.
type EventType uint8

const (
	EventResized EventType = iota + 1
	EventPointerMoved
	EventPointerPressed
	EventPointerReleased
	EventPointerLeft
	EventKeyPressed
	EventKeyReleased
	EventTick
	EventPaused
	EventResumed
	EventCloseRequested
)

func (t EventType) String() string {
	switch t {
	case EventResized:
		return "resized"
	case EventPointerMoved:
		return "pointer-moved"
	case EventPointerPressed:
		return "pointer-pressed"
	case EventPointerReleased:
		return "pointer-released"
	case EventPointerLeft:
		return "pointer-left"
	case EventKeyPressed:
		return "key-pressed"
	case EventKeyReleased:
		return "key-released"
	case EventTick:
		return "tick"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventCloseRequested:
		return "close-requested"
	default:
		return fmt.Sprintf("event(%d)", uint8(t))
	}
}

// Event is one event from the windowing adapter. Only the fields relevant to
// Type are set.
type Event struct {
	Type EventType

	// Resized
	Width, Height float32
	ScaleFactor   float32

	// Pointer events, in logical pixels.
	X, Y   float32
	Button retained.MouseButton

	// Key events
	Key    string
	Text   string
	Repeat bool

	Modifiers retained.Modifiers

	// Tick; zero means the engine clock's now.
	Time time.Time
}

// Resized reports a new window size.
func Resized(width, height, scale float32) Event {
	return Event{Type: EventResized, Width: width, Height: height, ScaleFactor: scale}
}

// PointerMoved reports pointer motion.
func PointerMoved(x, y float32) Event {
	return Event{Type: EventPointerMoved, X: x, Y: y}
}

// PointerPressed reports a button press. Touch is reported as the left button.
func PointerPressed(x, y float32, button retained.MouseButton) Event {
	return Event{Type: EventPointerPressed, X: x, Y: y, Button: button}
}

// PointerReleased reports a button release.
func PointerReleased(x, y float32, button retained.MouseButton) Event {
	return Event{Type: EventPointerReleased, X: x, Y: y, Button: button}
}

// PointerLeft reports the pointer leaving the window.
func PointerLeft() Event {
	return Event{Type: EventPointerLeft}
}

// KeyPressed reports a key press with the text it produced, if any.
func KeyPressed(key, text string) Event {
	return Event{Type: EventKeyPressed, Key: key, Text: text}
}

// KeyReleased reports a key release.
func KeyReleased(key string) Event {
	return Event{Type: EventKeyReleased, Key: key}
}

// Tick asks for a frame.
func Tick(now time.Time) Event {
	return Event{Type: EventTick, Time: now}
}

// Paused reports the app leaving the foreground.
func Paused() Event {
	return Event{Type: EventPaused}
}

// Resumed reports the app returning to the foreground.
func Resumed() Event {
	return Event{Type: EventResumed}
}

// CloseRequested reports the window closing.
func CloseRequested() Event {
	return Event{Type: EventCloseRequested}
}

// WithModifiers returns e with mods set.
func (e Event) WithModifiers(mods retained.Modifiers) Event {
	e.Modifiers = mods
	return e
}
