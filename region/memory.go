package region

import (
	"fmt"

	"github.com/joshuapare/relkit/internal/buf"
	"github.com/joshuapare/relkit/internal/format"
)

// Memory is the runtime side of region R: the bytes relocatable structures
// of R are emplaced into.
type Memory[R Tag] struct {
	b      []byte
	permit *Permit
}

// New binds b to region R. At most one Memory[R] obtained through New may be
// live at a time; a second call before Release fails with ErrHeld.
func New[R Tag](b []byte) (*Memory[R], error) {
	p, err := defaultRegistry.TryAcquire(key[R]())
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", Name[R](), err)
	}
	return &Memory[R]{b: b, permit: p}, nil
}

// NewUnchecked binds b to region R without consulting the registry. The
// caller asserts no other live Memory[R] hands out slots that could be
// confused with this one.
func NewUnchecked[R Tag](b []byte) *Memory[R] {
	return &Memory[R]{b: b}
}

// Release returns the region permit. It is safe to call more than once.
// The memory stays readable; only the exclusivity claim ends.
func (m *Memory[R]) Release() {
	if m.permit != nil {
		m.permit.Release()
	}
}

// Bytes returns the region bytes.
func (m *Memory[R]) Bytes() []byte { return m.b }

// Len returns the region size in bytes.
func (m *Memory[R]) Len() int { return len(m.b) }

// Slot returns the slot [off, off+n).
func (m *Memory[R]) Slot(off, n int) (Slot[R], error) {
	if !buf.Has(m.b, off, n) {
		return Slot[R]{}, fmt.Errorf("%w: [%d, +%d) of %d", ErrOutOfBounds, off, n, len(m.b))
	}
	return Slot[R]{mem: m, off: off, n: n}, nil
}

// MustSlot is like Slot but panics on an out-of-bounds range.
func (m *Memory[R]) MustSlot(off, n int) Slot[R] {
	s, err := m.Slot(off, n)
	if err != nil {
		panic(err)
	}
	return s
}

// Whole returns a slot spanning the entire region.
func (m *Memory[R]) Whole() Slot[R] {
	return Slot[R]{mem: m, off: 0, n: len(m.b)}
}

// SlotOf converts a block sharing the region's backing array into a slot.
func (m *Memory[R]) SlotOf(block []byte) (Slot[R], error) {
	off, ok := format.OffsetOf(m.b, block)
	if !ok {
		return Slot[R]{}, fmt.Errorf("%w: %d bytes", ErrOutsideRegion, len(block))
	}
	return Slot[R]{mem: m, off: off, n: len(block)}, nil
}

// Contains reports whether block lies entirely inside the region.
func (m *Memory[R]) Contains(block []byte) bool {
	_, ok := format.OffsetOf(m.b, block)
	return ok
}
