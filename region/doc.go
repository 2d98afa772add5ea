// Package region ties byte ranges to compile-time region identities.
//
// A region is named by a marker type R (any type embedding Marker). All
// offsets, slots and relative pointers carry R as a type parameter, so the
// compiler rejects mixing values computed against different regions. At
// runtime a region is a *Memory[R]: the byte range the structures live in.
// New[R] hands out at most one live Memory per marker type, checked through a
// process-wide Registry of permits.
//
// Slot[R] is a destination for emplacement: an offset and length inside one
// Memory[R]. Slots never cache absolute addresses; bytes are re-sliced from
// the memory on every access, so copying a region's bytes to a new buffer and
// attaching a new Memory keeps every stored offset meaningful.
package region
