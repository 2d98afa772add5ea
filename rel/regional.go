package rel

import (
	"fmt"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/region"
)

// Regional is an allocator whose blocks all lie in the memory of region R.
type Regional[R region.Tag] interface {
	alloc.Allocator
	Memory() *region.Memory[R]
}

// AllocateSlot allocates a block for l and returns it as a slot of R. A
// block outside the region is released again and reported as
// region.ErrOutsideRegion.
func AllocateSlot[R region.Tag](a Regional[R], l alloc.Layout) (region.Slot[R], error) {
	b, err := a.Allocate(l)
	if err != nil {
		return region.Slot[R]{}, err
	}
	s, err := SlotOf(a, b)
	if err != nil {
		a.Deallocate(b, l)
		return region.Slot[R]{}, err
	}
	return s, nil
}

// SlotOf converts a block returned by a into a slot of R.
func SlotOf[R region.Tag](a Regional[R], b []byte) (region.Slot[R], error) {
	if len(b) == 0 {
		// Empty blocks carry no usable address.
		return a.Memory().Slot(0, 0)
	}
	return a.Memory().SlotOf(b)
}

type boxed[R region.Tag] struct {
	a Regional[R]
	e Emplacer[R]
}

// Box emplaces a relative pointer to a copy of e allocated out of line
// from a. If emplacing e fails, the allocation is released.
func Box[R region.Tag](a Regional[R], e Emplacer[R]) Unwinder[R] {
	return boxed[R]{a: a, e: e}
}

func (boxed[R]) Layout() alloc.Layout { return PtrLayout }

func (b boxed[R]) EmplaceUnchecked(out region.Slot[R]) error {
	l := b.e.Layout()
	target, err := AllocateSlot(b.a, l)
	if err != nil {
		return fmt.Errorf("box %s: %w", l, err)
	}
	if err := Emplace(b.e, target); err != nil {
		b.a.Deallocate(target.Bytes(), l)
		return err
	}
	return PtrAt(out).Set(target)
}

func (b boxed[R]) Unwind(out region.Slot[R]) {
	l := b.e.Layout()
	target, err := PtrAt(out).Deref(l)
	if err != nil {
		return
	}
	Unwind(b.e, target)
	b.a.Deallocate(target.Bytes(), l)
}
