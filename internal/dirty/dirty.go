// Package dirty tracks modified byte ranges of a mapped region file and
// flushes them in page-aligned, coalesced batches.
package dirty

import (
	"context"
	"sort"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the typical OS page size (4KB).
	standardPageSize = 4096
)

// Range is a dirty byte range (absolute file offsets).
type Range struct {
	Off int64
	Len int64
}

// Flusher writes a byte range of a mapping back to its file.
// *mmfile.Mapping satisfies it.
type Flusher interface {
	Flush(off, n int) error
	Len() int
}

// Tracker accumulates dirty ranges and flushes them efficiently.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	ranges   []Range
	pageSize int64
}

// NewTracker creates a dirty tracker using the standard 4KB page size.
func NewTracker() *Tracker {
	return &Tracker{
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range. Empty ranges are ignored.
//
// Ranges are page-aligned and coalesced at flush time, so Add only appends.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Pending reports whether any range awaits a flush.
func (t *Tracker) Pending() bool { return len(t.ranges) > 0 }

// Flush writes every coalesced range through f and clears the tracker.
//
// The context is checked between ranges. If cancelled, some ranges may have
// been flushed while others have not; the tracker keeps all of them so a
// later Flush retries.
func (t *Tracker) Flush(ctx context.Context, f Flusher) error {
	if len(t.ranges) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	limit := int64(f.Len())
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Off >= limit {
			continue
		}
		end := min(r.Off+r.Len, limit)
		if err := f.Flush(int(r.Off), int(end-r.Off)); err != nil {
			return err
		}
	}
	t.ranges = t.ranges[:0]
	return nil
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// CoalescedRanges returns the page-aligned, sorted, merged ranges a flush
// would write.
func (t *Tracker) CoalescedRanges() []Range {
	return t.coalesce()
}

func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize
		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.Off+current.Len {
			current.Len = max(current.Off+current.Len, next.Off+next.Len) - current.Off
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
