package alloc

import (
	"fmt"

	"github.com/joshuapare/relkit/internal/buf"
	"github.com/joshuapare/relkit/internal/format"
)

// Slab is a bump allocator. Its state is one u64 length counter; every
// allocation rounds the counter up to the request alignment and advances it.
// Deallocate is a no-op, so memory is never reused.
//
// Slab is not safe for concurrent use. Wrap the allocator in NewLocked when a
// segment is shared between goroutines.
type Slab struct {
	state []byte
}

// SlabKind is the Kind of Slab controls.
var SlabKind = Kind[*Slab]{
	ID:    1,
	Name:  "slab",
	State: MustLayout(format.WordSize, format.WordAlign),
	Init: func(state, _ []byte) *Slab {
		format.PutU64(state, 0, 0)
		return &Slab{state: state}
	},
	Attach: func(state, seg []byte) (*Slab, error) {
		if n := format.ReadU64(state, 0); n > uint64(len(seg)) {
			return nil, fmt.Errorf("%w: slab length %d exceeds segment of %d", ErrMalformedSegment, n, len(seg))
		}
		return &Slab{state: state}, nil
	},
}

// Len returns the number of bytes consumed so far, padding included.
func (s *Slab) Len() int { return int(format.ReadU64(s.state, 0)) }

// IsEmpty reports whether nothing has been allocated.
func (s *Slab) IsEmpty() bool { return s.Len() == 0 }

// Allocate implements Control.
func (s *Slab) Allocate(seg []byte, l Layout) ([]byte, error) {
	// Offsets are aligned relative to the segment base, so the base itself
	// must satisfy the request.
	if !format.AddrAligned(seg, l.Align()) {
		return nil, fmt.Errorf("%w: segment base not %d-aligned", ErrNoSpace, l.Align())
	}
	start := format.AlignUp(s.Len(), l.Align())
	end, ok := buf.Range(len(seg), start, l.Size())
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes at %d, capacity %d", ErrNoSpace, l.Size(), start, len(seg))
	}
	format.PutU64(s.state, 0, uint64(end))
	return block(seg, start, l.Size()), nil
}

// Deallocate implements Control. Slab memory is never reclaimed.
func (s *Slab) Deallocate(seg, block []byte, l Layout) {}
