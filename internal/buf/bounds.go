// Package buf contains overflow-safe arithmetic for validating offsets and
// lengths read from untrusted region bytes.
package buf

import "math"

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative values, returning ok = false
// when either is negative or the product would overflow int.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// Range reports whether [off, off+n) lies within a buffer of length size and
// returns the end offset.
func Range(size, off, n int) (int, bool) {
	if off < 0 || n < 0 || off > size {
		return 0, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > size {
		return 0, false
	}
	return end, true
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
// The result is capped so appends never spill into neighbouring bytes.
func Slice(b []byte, off, n int) ([]byte, bool) {
	end, ok := Range(len(b), off, n)
	if !ok {
		return nil, false
	}
	return b[off:end:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Range(len(b), off, n)
	return ok
}
