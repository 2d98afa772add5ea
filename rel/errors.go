package rel

import "errors"

var (
	// ErrSlotLayout indicates a destination slot whose size or alignment does
	// not match the value being emplaced.
	ErrSlotLayout = errors.New("rel: slot does not match layout")
	// ErrElementLayout indicates array elements with differing layouts.
	ErrElementLayout = errors.New("rel: array elements differ in layout")
	// ErrDangling indicates a relative pointer whose target lies outside its
	// region.
	ErrDangling = errors.New("rel: pointer target outside region")
)
