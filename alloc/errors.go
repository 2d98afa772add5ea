package alloc

import "errors"

var (
	// ErrNoSpace indicates a request the segment cannot satisfy. Callers may
	// retry with another allocator.
	ErrNoSpace = errors.New("alloc: out of space")
	// ErrMalformedSegment indicates a segment too small or misaligned for the
	// allocator being constructed over it.
	ErrMalformedSegment = errors.New("alloc: malformed segment")
	// ErrLayout indicates an invalid size/alignment pair.
	ErrLayout = errors.New("alloc: invalid layout")
)
