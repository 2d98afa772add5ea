package rel

import (
	"fmt"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/region"
)

// Emplacer writes a fully initialized value into a slot of region R.
type Emplacer[R region.Tag] interface {
	// Layout is the size and alignment of the emplaced value.
	Layout() alloc.Layout
	// EmplaceUnchecked writes the value into out. out must match Layout;
	// use Emplace to have that checked.
	EmplaceUnchecked(out region.Slot[R]) error
}

// Unwinder is an Emplacer that acquires resources outside its slot (out of
// line allocations). Unwind releases them again after a successful
// emplacement into out, when a later sibling in the same aggregate fails.
type Unwinder[R region.Tag] interface {
	Emplacer[R]
	Unwind(out region.Slot[R])
}

// Emplace checks that out has exactly e's size and alignment, then emplaces
// e into it. On failure out is zeroed.
func Emplace[R region.Tag](e Emplacer[R], out region.Slot[R]) error {
	l := e.Layout()
	if out.Len() != l.Size() {
		return fmt.Errorf("%w: slot %s, want %s", ErrSlotLayout, out, l)
	}
	if !out.Aligned(l.Align()) {
		return fmt.Errorf("%w: slot %s not %d-aligned", ErrSlotLayout, out, l.Align())
	}
	if err := e.EmplaceUnchecked(out); err != nil {
		out.Zero()
		return err
	}
	return nil
}

// Unwind releases e's out-of-line resources if it has any.
func Unwind[R region.Tag](e Emplacer[R], out region.Slot[R]) {
	if u, ok := e.(Unwinder[R]); ok {
		u.Unwind(out)
	}
}

// Plain is a value whose emplaced form does not depend on the region: its
// bytes hold no relative pointers.
type Plain interface {
	Layout() alloc.Layout
	EmplaceBytes(out []byte) error
}

type lifted[R region.Tag] struct{ p Plain }

// Lift turns a Plain value into an Emplacer for any region.
func Lift[R region.Tag](p Plain) Emplacer[R] { return lifted[R]{p: p} }

func (l lifted[R]) Layout() alloc.Layout { return l.p.Layout() }

func (l lifted[R]) EmplaceUnchecked(out region.Slot[R]) error {
	return l.p.EmplaceBytes(out.Bytes())
}
