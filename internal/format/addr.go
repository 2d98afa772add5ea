package format

import "unsafe"

// Addr returns the address of the first byte of b.
//
// Slices handed around by the allocators always share one backing array that
// is either a Go heap object or a file mapping; neither moves, so addresses
// are stable for as long as the slice is reachable.
func Addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// AddrAligned reports whether the first byte of b sits on an align boundary.
func AddrAligned(b []byte, align int) bool {
	return Addr(b)&uintptr(align-1) == 0
}

// OffsetOf returns the offset of block within seg. ok is false when block
// does not lie entirely inside seg.
//
// A zero-capacity block carries no address (Go does not advance the data
// pointer of an empty re-slice), so it is reported at offset 0.
func OffsetOf(seg, block []byte) (off int, ok bool) {
	if cap(block) == 0 {
		return 0, len(block) == 0
	}
	base := Addr(seg)
	p := Addr(block)
	if p < base {
		return 0, false
	}
	d := p - base
	if d > uintptr(len(seg)) || uintptr(len(block)) > uintptr(len(seg))-d {
		return 0, false
	}
	return int(d), true
}
