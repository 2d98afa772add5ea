package region

import (
	"fmt"

	"github.com/joshuapare/relkit/internal/format"
)

// Slot is a byte range inside one Memory[R].
type Slot[R Tag] struct {
	mem *Memory[R]
	off int
	n   int
}

// Memory returns the memory the slot belongs to.
func (s Slot[R]) Memory() *Memory[R] { return s.mem }

// Offset returns the slot's offset from the start of the region.
func (s Slot[R]) Offset() int { return s.off }

// Len returns the slot length.
func (s Slot[R]) Len() int { return s.n }

// IsNil reports whether s is the zero Slot.
func (s Slot[R]) IsNil() bool { return s.mem == nil }

// Bytes returns the slot's bytes. The slice is capped at the slot end.
func (s Slot[R]) Bytes() []byte {
	if s.mem == nil {
		return nil
	}
	end := s.off + s.n
	return s.mem.b[s.off:end:end]
}

// Field projects the sub-slot [off, off+n) of s. It panics when the range
// does not fit, since field offsets come from a layout computed up front.
func (s Slot[R]) Field(off, n int) Slot[R] {
	if off < 0 || n < 0 || off > s.n || n > s.n-off {
		panic(fmt.Sprintf("region: field [%d, +%d) outside slot of %d bytes", off, n, s.n))
	}
	return Slot[R]{mem: s.mem, off: s.off + off, n: n}
}

// Aligned reports whether the slot's address is a multiple of align.
func (s Slot[R]) Aligned(align int) bool {
	if s.mem == nil {
		return false
	}
	return (format.Addr(s.mem.b)+uintptr(s.off))&uintptr(align-1) == 0
}

// SameMemory returns ErrCrossRegion unless s and o belong to one Memory.
func (s Slot[R]) SameMemory(o Slot[R]) error {
	if s.mem != o.mem {
		return ErrCrossRegion
	}
	return nil
}

// Zero clears every byte of the slot.
func (s Slot[R]) Zero() {
	clear(s.Bytes())
}

// IsZero reports whether every byte of the slot is zero.
func (s Slot[R]) IsZero() bool {
	for _, c := range s.Bytes() {
		if c != 0 {
			return false
		}
	}
	return true
}

// String formats the slot as R[off, +n).
func (s Slot[R]) String() string {
	return fmt.Sprintf("%s[%d, +%d)", Name[R](), s.off, s.n)
}
