package retained

import (
	"bytes"
	"fmt"
	"image"

	// Decoders for DecodeImage.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Context carries the resources shared by every node of a frame: the atlas,
// the default font and the window scale factor. It is owned by the UI
// goroutine. Background work reaches it only through callbacks applied on
// that goroutine.
type Context struct {
	atlas       *Atlas
	defaultFont Handle
	scale       float32

	frame uint64
	held  []Handle // references taken by the last committed tree

	named map[string]Handle
}

// NewContext creates a context with Go Regular as the default font.
func NewContext() (*Context, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("retained: parse default font: %w", err)
	}
	atlas := NewAtlas()
	def := atlas.AddFont("goregular", f)
	atlas.Retain(def) // pinned for the context's lifetime
	return &Context{
		atlas:       atlas,
		defaultFont: def,
		scale:       1,
		named:       make(map[string]Handle),
	}, nil
}

// Atlas returns the resource atlas.
func (c *Context) Atlas() *Atlas {
	return c.atlas
}

// DefaultFont returns the handle of the built-in font.
func (c *Context) DefaultFont() Handle {
	return c.defaultFont
}

// ScaleFactor returns logical-to-physical pixel ratio of the window.
func (c *Context) ScaleFactor() float32 {
	return c.scale
}

// SetScaleFactor records a new scale factor, ignoring non-positive values.
func (c *Context) SetScaleFactor(scale float32) {
	if scale > 0 {
		c.scale = scale
	}
}

// Frame returns the number of committed frames.
func (c *Context) Frame() uint64 {
	return c.frame
}

// AddFont parses OpenType/TrueType data into the atlas.
func (c *Context) AddFont(name string, data []byte) (Handle, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return Handle{}, fmt.Errorf("retained: parse font %q: %w", name, err)
	}
	return c.atlas.AddFont(name, f), nil
}

// AddImage stores a decoded image in the atlas.
func (c *Context) AddImage(name string, img image.Image) Handle {
	return c.atlas.AddImage(name, img)
}

// DecodeImage decodes png, jpeg, gif, bmp or webp data into the atlas.
func (c *Context) DecodeImage(name string, data []byte) (Handle, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Handle{}, fmt.Errorf("retained: decode image %q: %w", name, err)
	}
	Logger().Debug("decoded image", "name", name, "format", format, "bounds", img.Bounds())
	return c.atlas.AddImage(name, img), nil
}

// Keep takes a reference on behalf of application state, for resources that
// must outlive frames that do not draw them.
func (c *Context) Keep(h Handle) bool {
	return c.atlas.Retain(h)
}

// Drop releases a reference taken with Keep.
func (c *Context) Drop(h Handle) bool {
	return c.atlas.Release(h)
}

// LoadNamedImage decodes data and binds the image to name, keeping it alive
// until the name is rebound or released. A previous image under the same
// name is dropped.
func (c *Context) LoadNamedImage(name string, data []byte) (Handle, error) {
	h, err := c.DecodeImage(name, data)
	if err != nil {
		return Handle{}, err
	}
	c.atlas.Retain(h)
	if old, ok := c.named[name]; ok {
		c.atlas.Release(old)
	}
	c.named[name] = h
	return h, nil
}

// NamedImage returns the image bound to name.
func (c *Context) NamedImage(name string) (Handle, bool) {
	h, ok := c.named[name]
	return h, ok
}

// ReleaseNamedImage unbinds name. The image is freed once no tree draws it.
func (c *Context) ReleaseNamedImage(name string) {
	if h, ok := c.named[name]; ok {
		c.atlas.Release(h)
		delete(c.named, name)
	}
}

// resolveFont falls back to the default font for missing handles.
func (c *Context) resolveFont(h Handle) Handle {
	if _, ok := c.atlas.Font(h); ok {
		return h
	}
	if !h.IsZero() {
		Logger().Debug("font handle not found, using default", "handle", h)
	}
	return c.defaultFont
}

// EndFrame makes root the tree that owns resources: it retains every handle
// root references, releases the previous tree's references and sweeps.
// It returns how many entries were freed. Tree.Draw calls it; callers that
// skip drawing a frame call it directly.
func (c *Context) EndFrame(root Node) int {
	next := c.held[:0:0]
	if root != nil {
		root.visitHandles(func(h Handle) {
			if c.atlas.Retain(h) {
				next = append(next, h)
			}
		})
	}
	for _, h := range c.held {
		c.atlas.Release(h)
	}
	c.held = next
	c.frame++
	freed := c.atlas.Sweep()
	if freed > 0 {
		Logger().Debug("atlas sweep", "frame", c.frame, "freed", freed, "live", c.atlas.Len())
	}
	return freed
}
