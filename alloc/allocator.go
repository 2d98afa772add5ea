package alloc

// Allocator hands out blocks from memory it manages.
//
// Grow and GrowZeroed require new.Size() >= old.Size(); Shrink requires the
// opposite. block and old must describe a block this allocator returned.
type Allocator interface {
	Allocate(l Layout) ([]byte, error)
	AllocateZeroed(l Layout) ([]byte, error)
	Deallocate(block []byte, l Layout)
	Grow(block []byte, old, new Layout) ([]byte, error)
	GrowZeroed(block []byte, old, new Layout) ([]byte, error)
	GrowInPlace(block []byte, old, new Layout) ([]byte, error)
	GrowZeroedInPlace(block []byte, old, new Layout) ([]byte, error)
	Shrink(block []byte, old, new Layout) ([]byte, error)
	ShrinkInPlace(block []byte, old, new Layout) ([]byte, error)
}

// Contiguous is an allocator whose blocks all come from one segment.
type Contiguous interface {
	Allocator
	Segment() []byte
}

// block returns seg[off:off+n]. Non-empty blocks are capped at their end so
// appends cannot run into neighbours; empty blocks keep their capacity so
// they still carry an address.
func block(seg []byte, off, n int) []byte {
	if n == 0 {
		return seg[off:off]
	}
	return seg[off : off+n : off+n]
}
