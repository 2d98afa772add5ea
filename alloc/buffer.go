package alloc

import "github.com/joshuapare/relkit/internal/format"

// NewAlignedBuffer returns a zeroed heap buffer of size bytes whose first
// byte is align-aligned. align must be a power of two.
func NewAlignedBuffer(size, align int) []byte {
	if !format.IsPowerOfTwo(align) {
		panic("alloc: buffer alignment must be a power of two")
	}
	raw := make([]byte, size+align-1)
	off := int(-format.Addr(raw) & uintptr(align-1))
	return raw[off : off+size : off+size]
}
