// Package format holds the byte-level conventions shared by every relocatable
// record: little-endian integer encoding, alignment arithmetic, and address
// helpers for slices that share one backing array.
package format

const (
	// WordSize is the size of every usize-like field (lengths, capacities,
	// relative offsets) in a relocatable record.
	WordSize = 8

	// WordAlign is the natural alignment of a word-sized field.
	WordAlign = 8

	// SegmentAlign is the minimum address alignment required of a memory
	// segment handed to a contiguous allocator.
	SegmentAlign = 16

	// PageSize is the granularity used when flushing mapped ranges.
	PageSize = 4096
)
