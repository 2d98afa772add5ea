package format

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// AlignUp returns n rounded up to the next multiple of align.
// align must be a power of two.
//
// Example:
//
//	AlignUp(1, 8)  = 8
//	AlignUp(8, 8)  = 8
//	AlignUp(9, 16) = 16
func AlignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// Align16 returns n aligned up to the next 16-byte boundary.
func Align16(n int) int {
	return AlignUp(n, SegmentAlign)
}

// AlignUpU64 is the uint64 form of AlignUp, used when reading stored
// counters that have not been validated yet.
func AlignUpU64(n, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}
