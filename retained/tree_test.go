package retained

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawTree(t *testing.T, ctx *Context, root Node, allotted Size) []DrawItem {
	t.Helper()
	tree := NewTree(ctx, root)
	_, err := tree.Layout(allotted)
	require.NoError(t, err)
	out := NewDrawList(16)
	require.NoError(t, tree.Draw(out))
	assert.Equal(t, PhaseDrawn, tree.Phase())
	return out.Items()
}

func TestTreeShapeParity(t *testing.T) {
	ctx := newTestContext(t)
	const n = 5
	children := make([]Node, n)
	for i := range children {
		side := float32(10 * (i + 1))
		children[i] = Box(side, side, RGB(uint8(i), 0, 0))
	}
	root := HStack(0, children...)

	tree := NewTree(ctx, root)
	_, err := tree.Layout(Size{Width: 1000, Height: 1000})
	require.NoError(t, err)
	require.Len(t, tree.Request().Children, n)
	require.Len(t, tree.Sized().Children, n)

	out := NewDrawList(n)
	require.NoError(t, tree.Draw(out))
	items := out.Items()
	require.Len(t, items, n)

	wantX := []float32{0, 10, 30, 60, 100}
	for i, item := range items {
		side := float32(10 * (i + 1))
		assert.Equal(t, Offset{X: wantX[i]}, item.Offset, "item %d", i)
		assert.Equal(t, Rect{X: wantX[i], Width: side, Height: side}, item.Clip, "item %d", i)
		assert.Equal(t, uint16(math.MaxUint16-i), item.Z, "item %d", i)

		op, ok := item.Op.(SolidShape)
		require.True(t, ok)
		assert.Equal(t, RGB(uint8(i), 0, 0), op.Color)
	}
}

func nested(depth int) Node {
	var n Node = Box(20, 20, RGB(0, 255, 0))
	for i := 0; i < depth; i++ {
		n = ZStack(n, Box(5, 5, 0))
	}
	return n
}

func TestZeroAreaAncestorClipsSubtree(t *testing.T) {
	ctx := newTestContext(t)
	root := HStack(0,
		Constrain(Fixed(Size{Width: 0, Height: 50}), nested(10)),
		Box(10, 10, RGB(0, 0, 255)),
	)

	items := drawTree(t, ctx, root, Size{Width: 200, Height: 200})

	require.Len(t, items, 1)
	assert.Equal(t, RGB(0, 0, 255), items[0].Op.(SolidShape).Color)
}

func TestOverflowIsClippedToAncestor(t *testing.T) {
	ctx := newTestContext(t)
	root := Pad(Uniform(5), Constrain(Fixed(Size{Width: 10, Height: 10}), Box(30, 30, 0)))

	items := drawTree(t, ctx, root, Size{Width: 100, Height: 100})

	require.Len(t, items, 1)
	assert.Equal(t, Offset{X: 5, Y: 5}, items[0].Offset)
	assert.Equal(t, Rect{X: 5, Y: 5, Width: 10, Height: 10}, items[0].Clip)
}

func TestLaterChildrenPaintAbove(t *testing.T) {
	ctx := newTestContext(t)
	items := drawTree(t, ctx, ZStack(Box(10, 10, 1), Box(10, 10, 2)), Size{Width: 10, Height: 10})

	require.Len(t, items, 2)
	assert.Greater(t, items[0].Z, items[1].Z)
}

func TestTreePhaseOrder(t *testing.T) {
	ctx := newTestContext(t)
	tree := NewTree(ctx, Box(1, 1, 0))

	assert.ErrorIs(t, tree.Draw(NewDrawList(1)), ErrTreePhase)
	_, err := tree.Build(Size{})
	assert.ErrorIs(t, err, ErrTreePhase)
	assert.ErrorIs(t, tree.Dispatch(&TickEvent{}), ErrTreePhase)

	_, err = tree.RequestSize()
	require.NoError(t, err)
	_, err = tree.RequestSize()
	assert.ErrorIs(t, err, ErrTreePhase)

	_, err = tree.Build(Size{Width: 5, Height: 5})
	require.NoError(t, err)
	assert.NoError(t, tree.Dispatch(&TickEvent{}))
	require.NoError(t, tree.Draw(NewDrawList(1)))
	assert.ErrorIs(t, tree.Draw(NewDrawList(1)), ErrTreePhase)
	assert.NoError(t, tree.Dispatch(&TickEvent{}))
}

func TestTextDrawsWithDefaultFont(t *testing.T) {
	ctx := newTestContext(t)
	label := Label("hello", 16, RGB(0, 0, 0))

	items := drawTree(t, ctx, label, Size{Width: 500, Height: 500})

	require.Len(t, items, 1)
	op, ok := items[0].Op.(TextOp)
	require.True(t, ok)
	assert.Equal(t, ctx.DefaultFont(), op.Font)
	assert.Equal(t, float32(16*DefaultLineSpacing), op.LineHeight)
}

func TestMeasureTextWraps(t *testing.T) {
	ctx := newTestContext(t)
	single := ctx.MeasureText(Label("one two three four", 16, 0))
	require.Greater(t, single.Width, float32(0))
	assert.Equal(t, float32(20), single.Height)

	narrow := Paragraph("one two three four", 16, single.Width/2, 0)
	wrapped := ctx.MeasureText(narrow)
	lines := ctx.WrapText(narrow)
	assert.Greater(t, len(lines), 1)
	assert.Equal(t, float32(len(lines))*20, wrapped.Height)
	assert.Less(t, wrapped.Width, single.Width)

	assert.Equal(t, Size{}, ctx.MeasureText(Label("", 16, 0)))
}
