package retained

import (
	"time"

	"github.com/chewxy/math32"
)

// ScrollState is the vertical scroll position of a Scroll viewport. It lives
// across frames; keep one per scrollable region in app state or a closure.
// UI goroutine only.
type ScrollState struct {
	Y float32

	content  float32
	viewport float32
}

// MaxY is the largest valid scroll position seen by the last layout.
func (s *ScrollState) MaxY() float32 {
	return math32.Max(s.content-s.viewport, 0)
}

// Viewport and Content report the heights measured by the last layout.
func (s *ScrollState) Viewport() float32 { return s.viewport }
func (s *ScrollState) Content() float32  { return s.content }

// ScrollBy moves the position by dy, clamped to the scrollable range.
func (s *ScrollState) ScrollBy(dy float32) {
	s.Y = clamp(s.Y+dy, 0, s.MaxY())
}

// ScrollToConfig configures an animated scroll.
type ScrollToConfig struct {
	Duration   time.Duration
	Easing     EasingFunc
	Padding    float32
	OnComplete func()
}

// DefaultScrollToConfig returns a 250ms ease-out scroll with 20 units of
// padding.
func DefaultScrollToConfig() ScrollToConfig {
	return ScrollToConfig{
		Duration: 250 * time.Millisecond,
		Easing:   EaseOutCubic,
		Padding:  20,
	}
}

func (c ScrollToConfig) withDefaults() ScrollToConfig {
	def := DefaultScrollToConfig()
	if c.Duration == 0 {
		c.Duration = def.Duration
	}
	if c.Easing == nil {
		c.Easing = def.Easing
	}
	if c.Padding == 0 {
		c.Padding = def.Padding
	}
	return c
}

// ScrollTo animates the position to y.
func (s *ScrollState) ScrollTo(r *AnimationRegistry, y float32, cfg ScrollToConfig) *Animation {
	cfg = cfg.withDefaults()
	from, to := s.Y, clamp(y, 0, s.MaxY())
	return r.Animate(cfg.Duration, func(p float64) {
		s.Y = Lerp(from, to, p)
	}).Easing(cfg.Easing).OnComplete(cfg.OnComplete)
}

// Reveal animates the smallest scroll that shows the content span
// [top, bottom] with cfg.Padding around it. keyboard shrinks the visible
// height from below. It returns nil when the span is already visible.
func (s *ScrollState) Reveal(r *AnimationRegistry, top, bottom, keyboard float32, cfg ScrollToConfig) *Animation {
	cfg = cfg.withDefaults()
	target, ok := s.revealTarget(top, bottom, cfg.Padding, keyboard)
	if !ok {
		return nil
	}
	return s.ScrollTo(r, target, cfg)
}

func (s *ScrollState) revealTarget(top, bottom, padding, keyboard float32) (float32, bool) {
	visible := math32.Max(s.viewport-keyboard, 0)
	visibleTop := s.Y + padding
	visibleBottom := s.Y + visible - padding

	if top >= visibleTop && bottom <= visibleBottom {
		return s.Y, false
	}

	var target float32
	switch {
	case bottom > visibleBottom:
		// Bring the bottom up without pushing the top out.
		target = math32.Min(bottom-visible+padding, top-padding)
	case top < visibleTop:
		target = top - padding
	default:
		return s.Y, false
	}
	return math32.Max(target, 0), true
}

// Scroll is a vertical viewport. Its children are stacked at their natural
// height and shifted up by the scroll position; the draw pass clips what
// falls outside.
type Scroll struct {
	State *ScrollState
}

// RequestSize takes the children's widths but can shrink to any height.
func (s Scroll) RequestSize(_ *Context, children []SizeRequest) SizeRequest {
	req := Stack{}.RequestSize(nil, children)
	req.MinHeight = 0
	req.MaxHeight = math32.Inf(1)
	return req
}

func (s Scroll) Build(_ *Context, size Size, children []SizeRequest) []Area {
	var content float32
	for _, c := range children {
		content = math32.Max(content, c.MinHeight)
	}
	content = math32.Max(content, size.Height)

	var y float32
	if s.State != nil {
		s.State.viewport = size.Height
		s.State.content = content
		s.State.Y = clamp(s.State.Y, 0, s.State.MaxY())
		y = s.State.Y
	}

	areas := make([]Area, len(children))
	for i := range children {
		areas[i] = Area{
			Offset: Offset{Y: -y},
			Size:   &Size{Width: size.Width, Height: content},
		}
	}
	return areas
}
