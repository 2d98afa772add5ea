package rel

import (
	"fmt"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/internal/buf"
	"github.com/joshuapare/relkit/internal/format"
	"github.com/joshuapare/relkit/region"
)

// PtrLayout is the layout of an emplaced relative pointer.
var PtrLayout = alloc.MustLayout(format.WordSize, format.WordAlign)

// Ptr views an emplaced relative pointer: a little-endian int64 holding the
// distance from the pointer's own slot to its target.
type Ptr[R region.Tag] struct {
	slot region.Slot[R]
}

// PtrAt views the pointer stored in s. It panics unless s is pointer sized.
func PtrAt[R region.Tag](s region.Slot[R]) Ptr[R] {
	if s.Len() != PtrLayout.Size() {
		panic(fmt.Sprintf("rel: pointer slot of %d bytes", s.Len()))
	}
	return Ptr[R]{slot: s}
}

// Slot returns the slot holding the pointer.
func (p Ptr[R]) Slot() region.Slot[R] { return p.slot }

// Offset returns the stored distance.
func (p Ptr[R]) Offset() int64 { return format.ReadI64(p.slot.Bytes(), 0) }

// Target returns the absolute region offset the pointer addresses. ok is
// false when the sum overflows.
func (p Ptr[R]) Target() (int, bool) {
	d := p.Offset()
	if d < -(1<<62) || d > 1<<62 {
		return 0, false
	}
	return buf.AddOverflowSafe(p.slot.Offset(), int(d))
}

// Deref returns the target slot for a value of layout l. It fails with
// ErrDangling if the target does not fit the region and with ErrSlotLayout
// if it is misaligned.
func (p Ptr[R]) Deref(l alloc.Layout) (region.Slot[R], error) {
	target, ok := p.Target()
	if !ok {
		return region.Slot[R]{}, fmt.Errorf("%w: offset %d from %d", ErrDangling, p.Offset(), p.slot.Offset())
	}
	s, err := p.slot.Memory().Slot(target, l.Size())
	if err != nil {
		return region.Slot[R]{}, fmt.Errorf("%w: %w", ErrDangling, err)
	}
	if !s.Aligned(l.Align()) {
		return region.Slot[R]{}, fmt.Errorf("%w: target %s not %d-aligned", ErrSlotLayout, s, l.Align())
	}
	return s, nil
}

// Set points p at target.
func (p Ptr[R]) Set(target region.Slot[R]) error {
	if err := p.slot.SameMemory(target); err != nil {
		return err
	}
	p.setTarget(target.Offset())
	return nil
}

func (p Ptr[R]) setTarget(abs int) {
	format.PutI64(p.slot.Bytes(), 0, int64(abs-p.slot.Offset()))
}

// MoveTo writes a pointer into dst that addresses the same target as p and
// returns it. p itself is left unchanged.
func (p Ptr[R]) MoveTo(dst region.Slot[R]) (Ptr[R], error) {
	if err := p.slot.SameMemory(dst); err != nil {
		return Ptr[R]{}, err
	}
	target, ok := p.Target()
	if !ok {
		return Ptr[R]{}, fmt.Errorf("%w: offset %d from %d", ErrDangling, p.Offset(), p.slot.Offset())
	}
	q := PtrAt(dst)
	q.setTarget(target)
	return q, nil
}

type ptrTo[R region.Tag] struct {
	target region.Slot[R]
}

// PtrTo emplaces a relative pointer to target.
func PtrTo[R region.Tag](target region.Slot[R]) Emplacer[R] {
	return ptrTo[R]{target: target}
}

func (ptrTo[R]) Layout() alloc.Layout { return PtrLayout }

func (e ptrTo[R]) EmplaceUnchecked(out region.Slot[R]) error {
	return PtrAt(out).Set(e.target)
}
