package relalloc

import "errors"

var (
	// ErrNotContiguous indicates an allocator whose blocks cannot be checked
	// against a region.
	ErrNotContiguous = errors.New("relalloc: allocator is not contiguous")
	// ErrNotEmplaceable indicates an allocator that has no handle form.
	ErrNotEmplaceable = errors.New("relalloc: allocator cannot be emplaced")
	// ErrStaticEmpty indicates a static allocator with no live lease.
	ErrStaticEmpty = errors.New("relalloc: static allocator not leased")
)
