// Package alloc implements the allocator family used to populate relocatable
// regions.
//
// The algorithmic core of an allocator is a Control: the state and logic that
// partitions one memory segment into blocks. A Control only knows how to
// allocate and deallocate; the package functions Grow, GrowZeroed, Shrink and
// their in-place variants supply the default retry algorithms on top
// (in-place fast path when the control offers one, else allocate, copy and
// release).
//
// Control state is kept in bytes described by a Kind, so the same control can
// live out of band (External) or inside the segment it manages
// (relalloc.Prefix), and can be re-attached after the segment is reopened.
//
// Available controls:
//   - Slab: bump allocation, deallocation is a no-op
//   - FreeList: bump allocation with first-fit reuse of freed blocks and
//     in-place grow/shrink
//
// Blocks are sub-slices of the segment. Allocation failure is reported as
// ErrNoSpace and never panics.
package alloc
