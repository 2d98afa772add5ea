// Package shortstr implements a relocatable growable string that stores
// short contents inline.
//
// A record is laid out as
//
//	repr    [16]byte  inline bytes, or {relative pointer i64, length u64}
//	cap     u64
//	handle  the owning allocator's handle (layout from its Loader)
//
// There is no tag: a record is inline exactly when cap <= InlineCapacity, in
// which case cap is also the length. Otherwise repr addresses an out-of-line
// block of cap bytes allocated from the owning allocator.
package shortstr
