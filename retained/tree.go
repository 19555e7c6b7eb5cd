package retained

import (
	"errors"
	"fmt"
)

// ErrTreePhase is returned when a tree pass runs before the pass it depends on.
var ErrTreePhase = errors.New("retained: tree phase out of order")

// Phase is how far a frame's tree has progressed.
type Phase uint8

const (
	PhaseUnbuilt Phase = iota
	PhaseSizeRequested
	PhaseSized
	PhaseDrawn
)

func (p Phase) String() string {
	switch p {
	case PhaseUnbuilt:
		return "unbuilt"
	case PhaseSizeRequested:
		return "size-requested"
	case PhaseSized:
		return "sized"
	case PhaseDrawn:
		return "drawn"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Tree is one frame's node tree together with the branches its passes
// produce. Passes run strictly in order: RequestSize, Build, Draw. Events can
// be dispatched once the tree is sized. A new Tree is made for every frame.
type Tree struct {
	ctx   *Context
	root  Node
	phase Phase

	request RequestBranch
	sized   SizedBranch
}

// NewTree wraps a root node for one frame.
func NewTree(ctx *Context, root Node) *Tree {
	return &Tree{ctx: ctx, root: root}
}

// Root returns the root node.
func (t *Tree) Root() Node { return t.root }

// Phase returns the last completed pass.
func (t *Tree) Phase() Phase { return t.phase }

// Request returns the request branch. It is empty before RequestSize.
func (t *Tree) Request() RequestBranch { return t.request }

// Sized returns the sized branch. It is empty before Build.
func (t *Tree) Sized() SizedBranch { return t.sized }

func (t *Tree) expect(want Phase, op string) error {
	if t.phase != want {
		return fmt.Errorf("%w: %s needs %s, tree is %s", ErrTreePhase, op, want, t.phase)
	}
	return nil
}

// RequestSize runs the bottom-up pass and returns the root's request.
func (t *Tree) RequestSize() (SizeRequest, error) {
	if err := t.expect(PhaseUnbuilt, "request size"); err != nil {
		return SizeRequest{}, err
	}
	if t.root == nil {
		t.request = RequestBranch{}
	} else {
		t.request = t.root.requestSize(t.ctx)
	}
	t.phase = PhaseSizeRequested
	return t.request.Request, nil
}

// Build runs the top-down pass. The root receives its own request clamped
// against allotted, normally the window size.
func (t *Tree) Build(allotted Size) (SizedBranch, error) {
	if err := t.expect(PhaseSizeRequested, "build"); err != nil {
		return SizedBranch{}, err
	}
	size := t.request.Request.Get(allotted)
	if t.root == nil {
		t.sized = SizedBranch{Size: size}
	} else {
		t.sized = t.root.build(t.ctx, size, t.request)
	}
	t.phase = PhaseSized
	return t.sized, nil
}

// Layout runs RequestSize then Build.
func (t *Tree) Layout(allotted Size) (SizedBranch, error) {
	if _, err := t.RequestSize(); err != nil {
		return SizedBranch{}, err
	}
	return t.Build(allotted)
}

// Draw appends the tree's paint operations to out, then ends the frame on the
// context so the tree takes ownership of the resources it references.
func (t *Tree) Draw(out *DrawList) error {
	if err := t.expect(PhaseSized, "draw"); err != nil {
		return err
	}
	if t.root != nil {
		bound := Rect{Width: t.sized.Size.Width, Height: t.sized.Size.Height}
		drawNode(t.ctx, t.root, t.sized, Offset{}, bound, out)
	}
	t.ctx.EndFrame(t.root)
	t.phase = PhaseDrawn
	return nil
}

// Dispatch delivers ev through the sized tree.
func (t *Tree) Dispatch(ev Event) error {
	if t.phase < PhaseSized {
		return fmt.Errorf("%w: dispatch needs a sized tree, tree is %s", ErrTreePhase, t.phase)
	}
	Dispatch(t.ctx, t.root, t.sized, ev)
	return nil
}

// Dispatch walks a sized tree, delivering ev to root and letting every
// component's handler and the event's Pass decide where it goes next. A
// pointer outside the root's own bounds reaches it without a position.
func Dispatch(ctx *Context, root Node, sized SizedBranch, ev Event) {
	if root == nil || ev == nil {
		return
	}
	if pe, ok := ev.(*PointerEvent); ok && pe.Position != nil {
		bounds := Area{Size: &sized.Size}
		if !bounds.Contains(*pe.Position) {
			outside := *pe
			outside.Position = nil
			ev = &outside
		}
	}
	root.event(ctx, sized, ev)
}
