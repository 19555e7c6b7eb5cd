package retained

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// ResourceKind identifies what an atlas entry holds.
type ResourceKind uint8

const (
	ResourceFont ResourceKind = iota + 1
	ResourceImage
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceFont:
		return "font"
	case ResourceImage:
		return "image"
	default:
		return "none"
	}
}

// Handle refers to an atlas entry. The generation makes handles to freed
// slots resolve as missing even after the slot is reused. The zero Handle
// never resolves.
type Handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.generation == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%d@%d", h.index, h.generation)
}

type atlasEntry struct {
	generation uint32
	kind       ResourceKind
	refs       int
	name       string

	font  *opentype.Font
	faces map[float32]font.Face
	image image.Image
}

// Atlas is an arena of fonts and images with a reference count per entry.
// New entries start with zero references: whoever keeps them (a frame's tree
// or explicit Retain) must take a reference before the next Sweep.
//
// An Atlas belongs to the UI goroutine and is not safe for concurrent use.
type Atlas struct {
	entries []atlasEntry
	free    []uint32
	onFree  func(h Handle, kind ResourceKind)
}

// NewAtlas creates an empty atlas.
func NewAtlas() *Atlas {
	return &Atlas{}
}

// OnFree registers a hook called for every entry a Sweep frees, so a renderer
// can drop its uploaded copy.
func (a *Atlas) OnFree(fn func(h Handle, kind ResourceKind)) {
	a.onFree = fn
}

func (a *Atlas) alloc(kind ResourceKind, name string) (Handle, *atlasEntry) {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.entries = append(a.entries, atlasEntry{})
		idx = uint32(len(a.entries) - 1)
	}
	e := &a.entries[idx]
	e.generation++
	e.kind = kind
	e.refs = 0
	e.name = name
	return Handle{index: idx, generation: e.generation}, e
}

func (a *Atlas) lookup(h Handle) (*atlasEntry, bool) {
	if h.IsZero() || int(h.index) >= len(a.entries) {
		return nil, false
	}
	e := &a.entries[h.index]
	if e.kind == 0 || e.generation != h.generation {
		return nil, false
	}
	return e, true
}

// AddFont stores a parsed font.
func (a *Atlas) AddFont(name string, f *opentype.Font) Handle {
	h, e := a.alloc(ResourceFont, name)
	e.font = f
	e.faces = make(map[float32]font.Face)
	return h
}

// AddImage stores an image.
func (a *Atlas) AddImage(name string, img image.Image) Handle {
	h, e := a.alloc(ResourceImage, name)
	e.image = img
	return h
}

// Font returns the font behind h.
func (a *Atlas) Font(h Handle) (*opentype.Font, bool) {
	e, ok := a.lookup(h)
	if !ok || e.kind != ResourceFont {
		return nil, false
	}
	return e.font, true
}

// Image returns the image behind h.
func (a *Atlas) Image(h Handle) (image.Image, bool) {
	e, ok := a.lookup(h)
	if !ok || e.kind != ResourceImage {
		return nil, false
	}
	return e.image, true
}

// Kind returns the kind of a live entry, or zero for a missing one.
func (a *Atlas) Kind(h Handle) ResourceKind {
	e, ok := a.lookup(h)
	if !ok {
		return 0
	}
	return e.kind
}

// Name returns the name an entry was added with.
func (a *Atlas) Name(h Handle) string {
	e, ok := a.lookup(h)
	if !ok {
		return ""
	}
	return e.name
}

// face returns a cached face of the font at the given pixel size.
func (a *Atlas) face(h Handle, size float32) (font.Face, error) {
	e, ok := a.lookup(h)
	if !ok || e.kind != ResourceFont {
		return nil, fmt.Errorf("retained: font %v not found", h)
	}
	if f, ok := e.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(e.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("retained: font %v at %g: %w", h, size, err)
	}
	e.faces[size] = f
	return f, nil
}

// Retain adds a reference. It reports false for a missing handle.
func (a *Atlas) Retain(h Handle) bool {
	e, ok := a.lookup(h)
	if !ok {
		return false
	}
	e.refs++
	return true
}

// Release drops a reference. The entry is freed by the next Sweep once its
// count reaches zero. It reports false for a missing handle.
func (a *Atlas) Release(h Handle) bool {
	e, ok := a.lookup(h)
	if !ok {
		return false
	}
	if e.refs == 0 {
		Logger().Warn("atlas release without reference", "handle", h, "kind", e.kind)
		return true
	}
	e.refs--
	return true
}

// Refs returns the reference count of h, or -1 if h is missing.
func (a *Atlas) Refs(h Handle) int {
	e, ok := a.lookup(h)
	if !ok {
		return -1
	}
	return e.refs
}

// Sweep frees every entry with no references and returns how many it freed.
// After a sweep no live entry has a zero count.
func (a *Atlas) Sweep() int {
	freed := 0
	for i := range a.entries {
		e := &a.entries[i]
		if e.kind == 0 || e.refs > 0 {
			continue
		}
		h := Handle{index: uint32(i), generation: e.generation}
		kind := e.kind
		for _, f := range e.faces {
			_ = f.Close()
		}
		gen := e.generation
		*e = atlasEntry{generation: gen}
		a.free = append(a.free, uint32(i))
		freed++
		if a.onFree != nil {
			a.onFree(h, kind)
		}
	}
	return freed
}

// Len returns the number of live entries.
func (a *Atlas) Len() int {
	return len(a.entries) - len(a.free)
}
