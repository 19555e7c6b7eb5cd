package retained

// Form controls built from the node set. The caller owns the value and
// rebuilds the control with the new one each frame.

const (
	controlText   Color = 0xE5E7EBFF
	controlOff    Color = 0x4B5563FF
	controlOn     Color = 0x3B82F6FF
	controlThumb  Color = 0xFFFFFFFF
	checkboxSide        = 18
	toggleWidth         = 44
	toggleHeight        = 24
	thumbDiameter       = 16
)

// Checkbox is a box and a label that flips checked when pressed.
func Checkbox(label string, checked bool, onChange func(checked bool)) *Component {
	fill := controlOff
	if checked {
		fill = controlOn
	}
	return Pressable(func(*Context, *PointerEvent) {
		if onChange != nil {
			onChange(!checked)
		}
	}, HStack(8,
		&Shape{Geometry: RoundedRectangle{Width: checkboxSide, Height: checkboxSide, Radius: 4}, Color: fill},
		Label(label, 14, controlText),
	))
}

// Toggle is an on/off switch.
func Toggle(on bool, onChange func(on bool)) *Component {
	track, x := controlOff, float32(4)
	if on {
		track, x = controlOn, toggleWidth-thumbDiameter-4
	}
	return Pressable(func(*Context, *PointerEvent) {
		if onChange != nil {
			onChange(!on)
		}
	}, &Component{
		Layout: Absolute{Offsets: []Offset{{}, {X: x, Y: (toggleHeight - thumbDiameter) / 2}}},
		Children: []Node{
			&Shape{Geometry: RoundedRectangle{Width: toggleWidth, Height: toggleHeight, Radius: toggleHeight / 2}, Color: track},
			&Shape{Geometry: Circle{Diameter: thumbDiameter}, Color: controlThumb},
		},
	})
}

// Slider picks a value in [Min, Max] by pressing or dragging along a track
// Width units long. Step snaps the value when positive. A Slider lives
// across frames so a drag can continue between them.
type Slider struct {
	Min, Max, Step float32
	Value          float32
	Width          float32

	dragging bool
}

// Dragging reports whether a press on the track has not been released yet.
func (s *Slider) Dragging() bool { return s.dragging }

// Ratio is the value's position in the range, 0 to 1.
func (s *Slider) Ratio() float32 {
	if s.Max <= s.Min {
		return 0
	}
	return clamp((s.Value-s.Min)/(s.Max-s.Min), 0, 1)
}

func (s *Slider) set(x float32, onChange func(float32)) {
	if s.Width <= 0 {
		return
	}
	v := s.Min + clamp(x/s.Width, 0, 1)*(s.Max-s.Min)
	if s.Step > 0 {
		v = s.Min + float32(int((v-s.Min)/s.Step+0.5))*s.Step
	}
	v = clamp(v, s.Min, s.Max)
	if v == s.Value {
		return
	}
	s.Value = v
	if onChange != nil {
		onChange(v)
	}
}

// Node builds the slider for this frame.
func (s *Slider) Node(onChange func(value float32)) *Component {
	thumbX := s.Ratio()*s.Width - thumbDiameter/2
	return &Component{
		Layout: Absolute{Offsets: []Offset{
			{Y: (thumbDiameter - 4) / 2},
			{Y: (thumbDiameter - 4) / 2},
			{X: max(thumbX, 0)},
		}},
		Handler: EventHandlerFunc(func(_ *Context, ev Event) bool {
			pe, ok := ev.(*PointerEvent)
			if !ok {
				return true
			}
			switch pe.State {
			case PointerPressed:
				if pe.Over() {
					s.dragging = true
					s.set(pe.Position.X, onChange)
				}
			case PointerMoved:
				if s.dragging && pe.Over() {
					s.set(pe.Position.X, onChange)
				}
			case PointerReleased:
				s.dragging = false
			}
			return true
		}),
		Children: []Node{
			Box(s.Width, 4, controlOff),
			Box(s.Ratio()*s.Width, 4, controlOn),
			&Shape{Geometry: Circle{Diameter: thumbDiameter}, Color: controlThumb},
		},
	}
}
