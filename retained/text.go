package retained

import (
	"strings"

	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultLineSpacing is the line height, relative to the font size, used
// when a Text leaves LineHeight at zero.
const DefaultLineSpacing = 1.25

// MeasureText returns the size a text leaf occupies: the widest line by the
// number of lines times the line height. With a MaxWidth, words wrap
// greedily; a single word wider than MaxWidth overflows on its own line.
func (c *Context) MeasureText(t *Text) Size {
	if t.Text == "" || !(t.Size > 0) {
		return Size{}
	}

	measure := c.advanceFunc(t)
	lines := wrapLines(t.Text, t.MaxWidth, measure)

	var width float32
	for _, line := range lines {
		width = math32.Max(width, measure(line))
	}
	return Size{
		Width:  math32.Ceil(width),
		Height: float32(len(lines)) * t.lineHeight(),
	}
}

// WrapText splits text into the lines MeasureText would produce.
func (c *Context) WrapText(t *Text) []string {
	if t.Text == "" {
		return nil
	}
	return wrapLines(t.Text, t.MaxWidth, c.advanceFunc(t))
}

// advanceFunc returns a width function for the text's font and size. When the
// font cannot produce a face, the fixed 7x13 face stands in, scaled to size.
func (c *Context) advanceFunc(t *Text) func(string) float32 {
	face, err := c.atlas.face(c.resolveFont(t.Font), t.Size)
	if err != nil {
		Logger().Warn("falling back to basic font", "err", err)
		scale := t.Size / float32(basicfont.Face7x13.Height)
		return func(s string) float32 {
			return fixedToFloat(font.MeasureString(basicfont.Face7x13, s)) * scale
		}
	}
	return func(s string) float32 {
		return fixedToFloat(font.MeasureString(face, s))
	}
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

func wrapLines(text string, maxWidth *float32, measure func(string) float32) []string {
	paragraphs := strings.Split(text, "\n")
	if maxWidth == nil {
		return paragraphs
	}

	var lines []string
	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, w := range words[1:] {
			candidate := current + " " + w
			if measure(candidate) <= *maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = w
		}
		lines = append(lines, current)
	}
	return lines
}
