package alloc

import "github.com/joshuapare/relkit/internal/format"

func addrAligned(b []byte, align int) bool { return format.AddrAligned(b, align) }

func offsetIn(seg, b []byte) int {
	off, ok := format.OffsetOf(seg, b)
	if !ok {
		panic("block outside segment")
	}
	return off
}

// newSlab returns a Slab external allocator over a fresh aligned segment.
func newSlab(size int) *External[*Slab] {
	e, err := NewExternal(NewAlignedBuffer(size, 16), SlabKind)
	if err != nil {
		panic(err)
	}
	return e
}

func newFreeList(size int) *External[*FreeList] {
	e, err := NewExternal(NewAlignedBuffer(size, 16), FreeListKind)
	if err != nil {
		panic(err)
	}
	return e
}
