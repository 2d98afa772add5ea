// Package rel implements relative pointers and the emplacement protocol.
//
// An Emplacer describes how to produce a value: its Layout and a method that
// writes every byte of it into a destination Slot of region R. Emplace checks
// the slot against the layout, runs the emplacer, and zeroes the slot again
// if the emplacer fails, so a failed emplacement never leaves a half-built
// value behind.
//
// Pointers between values of one region are stored as Ptr: a signed 64-bit
// distance from the pointer's own slot to its target. Copying the whole
// region to another buffer preserves every distance, so nothing needs fixing
// up after relocation.
//
// Aggregates are built by composition: Struct lays fields out with C rules
// and emplaces each into its sub-slot; Box allocates a value out of line
// through a Regional allocator and stores a Ptr to it.
package rel
