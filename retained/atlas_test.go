package retained

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func TestAtlasSweepFreesUnreferenced(t *testing.T) {
	a := NewAtlas()
	var freed []Handle
	a.OnFree(func(h Handle, kind ResourceKind) {
		assert.Equal(t, ResourceImage, kind)
		freed = append(freed, h)
	})

	kept := a.AddImage("kept", testImage())
	dropped := a.AddImage("dropped", testImage())
	require.True(t, a.Retain(kept))
	assert.Equal(t, 1, a.Refs(kept))
	assert.Equal(t, 0, a.Refs(dropped))

	assert.Equal(t, 1, a.Sweep())
	assert.Equal(t, []Handle{dropped}, freed)
	assert.Equal(t, 1, a.Len())

	_, ok := a.Image(dropped)
	assert.False(t, ok)
	assert.Equal(t, -1, a.Refs(dropped))
	assert.False(t, a.Retain(dropped))

	require.True(t, a.Release(kept))
	assert.Equal(t, 1, a.Sweep())
	assert.Equal(t, 0, a.Len())
}

func TestAtlasStaleHandleAfterReuse(t *testing.T) {
	a := NewAtlas()
	old := a.AddImage("first", testImage())
	a.Sweep()

	reused := a.AddImage("second", testImage())
	assert.NotEqual(t, old, reused)
	assert.Equal(t, ResourceKind(0), a.Kind(old))
	assert.Equal(t, ResourceImage, a.Kind(reused))
	assert.Equal(t, "second", a.Name(reused))
	assert.Equal(t, "", a.Name(old))

	assert.True(t, Handle{}.IsZero())
	_, ok := a.Image(Handle{})
	assert.False(t, ok)
}

func TestEndFrameTransfersOwnership(t *testing.T) {
	ctx := newTestContext(t)
	first := ctx.AddImage("first", testImage())
	second := ctx.AddImage("second", testImage())

	// Frame 1 draws the first image only; the second is floating and swept.
	drawTree(t, ctx, Picture(first, 4, 4), Size{Width: 4, Height: 4})
	assert.Equal(t, 1, ctx.Atlas().Refs(first))
	assert.Equal(t, -1, ctx.Atlas().Refs(second))

	// Frame 2 no longer references it, so it goes too.
	drawTree(t, ctx, Box(4, 4, 0), Size{Width: 4, Height: 4})
	assert.Equal(t, -1, ctx.Atlas().Refs(first))
	assert.Equal(t, uint64(2), ctx.Frame())

	// The default font is pinned.
	assert.Equal(t, ResourceFont, ctx.Atlas().Kind(ctx.DefaultFont()))
	assert.Equal(t, 1, ctx.Atlas().Len())
}

func TestKeepOutlivesFrames(t *testing.T) {
	ctx := newTestContext(t)
	h := ctx.AddImage("icon", testImage())
	require.True(t, ctx.Keep(h))

	drawTree(t, ctx, Box(1, 1, 0), Size{Width: 1, Height: 1})
	drawTree(t, ctx, Box(1, 1, 0), Size{Width: 1, Height: 1})
	_, ok := ctx.Atlas().Image(h)
	assert.True(t, ok)

	require.True(t, ctx.Drop(h))
	ctx.EndFrame(nil)
	_, ok = ctx.Atlas().Image(h)
	assert.False(t, ok)
}

func TestNoZeroRefEntriesAfterFrame(t *testing.T) {
	ctx := newTestContext(t)
	handles := make([]Handle, 6)
	for i := range handles {
		handles[i] = ctx.AddImage("img", testImage())
	}
	root := HStack(0, Picture(handles[0], 2, 2), Picture(handles[2], 2, 2), Picture(handles[2], 2, 2))
	drawTree(t, ctx, root, Size{Width: 100, Height: 100})

	live := 0
	for _, h := range handles {
		if refs := ctx.Atlas().Refs(h); refs >= 0 {
			assert.Positive(t, refs)
			live++
		}
	}
	assert.Equal(t, 2, live)
	assert.Equal(t, 2, ctx.Atlas().Refs(handles[2]))
}

func TestMissingImageDrawsNothing(t *testing.T) {
	ctx := newTestContext(t)
	gone := ctx.AddImage("gone", testImage())
	ctx.EndFrame(nil)

	items := drawTree(t, ctx, HStack(0, Picture(gone, 4, 4), Box(4, 4, 0)), Size{Width: 8, Height: 4})
	require.Len(t, items, 1)
	assert.IsType(t, SolidShape{}, items[0].Op)
}

func TestDecodeImage(t *testing.T) {
	ctx := newTestContext(t)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))

	h, err := ctx.DecodeImage("dot.png", buf.Bytes())
	require.NoError(t, err)
	img, ok := ctx.Atlas().Image(h)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())

	_, err = ctx.DecodeImage("junk", []byte("not an image"))
	assert.Error(t, err)
}

func TestMissingFontFallsBack(t *testing.T) {
	ctx := newTestContext(t)
	_, err := ctx.AddFont("broken", []byte("nope"))
	assert.Error(t, err)

	stale := Handle{index: 99, generation: 3}
	withStale := ctx.MeasureText(&Text{Text: "abc", Size: 12, Font: stale})
	withDefault := ctx.MeasureText(&Text{Text: "abc", Size: 12})
	assert.Equal(t, withDefault, withStale)
}

func TestNamedImageRebind(t *testing.T) {
	ctx := newTestContext(t)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))

	first, err := ctx.LoadNamedImage("avatar", buf.Bytes())
	require.NoError(t, err)
	ctx.EndFrame(nil)
	assert.Equal(t, 1, ctx.Atlas().Refs(first), "a named image survives frames that do not draw it")

	second, err := ctx.LoadNamedImage("avatar", buf.Bytes())
	require.NoError(t, err)
	h, ok := ctx.NamedImage("avatar")
	require.True(t, ok)
	assert.Equal(t, second, h)

	ctx.EndFrame(nil)
	assert.Equal(t, -1, ctx.Atlas().Refs(first))

	ctx.ReleaseNamedImage("avatar")
	_, ok = ctx.NamedImage("avatar")
	assert.False(t, ok)
	ctx.EndFrame(nil)
	assert.Equal(t, -1, ctx.Atlas().Refs(second))
}
