// Package relalloc binds allocators to regions and makes them emplaceable.
//
// An Allocator[R] hands out blocks inside region R and can write a handle to
// itself into R, so a structure can record which allocator owns its
// out-of-line blocks. A Loader reopens the allocator from that handle.
//
// Prefix keeps its header {capacity, control state} at the start of the slot
// it manages, which makes it reattachable from the region bytes alone. Brand
// asserts that an arbitrary allocator only returns blocks of R; NewBrand
// checks the assertion for contiguous allocators.
package relalloc
