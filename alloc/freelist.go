package alloc

import (
	"fmt"

	"github.com/joshuapare/relkit/internal/buf"
	"github.com/joshuapare/relkit/internal/format"
)

const (
	// granule is the FreeList block unit. Every block is a multiple of it, so
	// a freed block can always hold its own list node {size u64, next u64}.
	granule = format.SegmentAlign

	flTopOff  = 0
	flHeadOff = 8
)

// FreeList is a bump allocator that remembers freed blocks. Its state is
// {high-water mark u64, free-list head u64}; the list itself lives in the
// freed blocks, sorted by offset, with neighbours merged on release.
//
// Allocation reuses the first free block large enough (splitting off the
// rest) for requests aligned to at most 16 bytes, and otherwise bumps the
// high-water mark. Releasing the topmost block lowers the mark. Blocks can
// grow in place into a following free block or past the mark, and shrink in
// place by releasing their tail.
//
// The segment base must be 16-byte aligned. FreeList is not safe for
// concurrent use.
type FreeList struct {
	state   []byte
	observe func(off, n int)
}

// FreeListKind is the Kind of FreeList controls.
var FreeListKind = Kind[*FreeList]{
	ID:    2,
	Name:  "freelist",
	State: MustLayout(2*format.WordSize, format.WordAlign),
	Init: func(state, _ []byte) *FreeList {
		format.PutU64(state, flTopOff, 0)
		format.PutU64(state, flHeadOff, 0)
		return &FreeList{state: state}
	},
	Attach: attachFreeList,
}

func attachFreeList(state, seg []byte) (*FreeList, error) {
	f := &FreeList{state: state}
	top := format.ReadU64(state, flTopOff)
	if top > uint64(len(seg)) {
		return nil, fmt.Errorf("%w: free list mark %d exceeds segment of %d", ErrMalformedSegment, top, len(seg))
	}
	// Walk the list once; nodes must be in bounds, ascending and below the
	// mark, which also rules out cycles.
	end := 0
	for cur := f.head(); cur >= 0; cur = nodeNext(seg, cur) {
		if cur < end || cur%granule != 0 || !buf.Has(seg[:top], cur, granule) {
			return nil, fmt.Errorf("%w: free node at %d", ErrMalformedSegment, cur)
		}
		size := nodeSize(seg, cur)
		if size < granule || size%granule != 0 || !buf.Has(seg[:top], cur, size) {
			return nil, fmt.Errorf("%w: free node at %d has size %d", ErrMalformedSegment, cur, size)
		}
		end = cur + size
	}
	return f, nil
}

func roundGranule(n int) int { return format.AlignUp(n, granule) }

func (f *FreeList) top() int       { return int(format.ReadU64(f.state, flTopOff)) }
func (f *FreeList) setTop(off int) { format.PutU64(f.state, flTopOff, uint64(off)) }

// head returns the first free node, or -1.
func (f *FreeList) head() int { return int(format.ReadU64(f.state, flHeadOff)) - 1 }

// ObserveWrites implements WriteObserver. fn receives every node and link
// write the list makes inside the segment.
func (f *FreeList) ObserveWrites(fn func(off, n int)) { f.observe = fn }

func (f *FreeList) wrote(off, n int) {
	if f.observe != nil {
		f.observe(off, n)
	}
}

func (f *FreeList) link(seg []byte, prev, next int) {
	if prev < 0 {
		format.PutU64(f.state, flHeadOff, uint64(next+1))
		return
	}
	format.PutU64(seg, prev+8, uint64(next+1))
	f.wrote(prev+8, 8)
}

func nodeSize(seg []byte, off int) int { return int(format.ReadU64(seg, off)) }
func nodeNext(seg []byte, off int) int { return int(format.ReadU64(seg, off+8)) - 1 }

func (f *FreeList) putNode(seg []byte, off, size, next int) {
	format.PutU64(seg, off, uint64(size))
	format.PutU64(seg, off+8, uint64(next+1))
	f.wrote(off, granule)
}

// Len returns the high-water mark: bytes below it are allocated or free-listed.
func (f *FreeList) Len() int { return f.top() }

// FreeBytes sums the sizes of the free-listed blocks of seg.
func (f *FreeList) FreeBytes(seg []byte) int {
	total := 0
	for cur := f.head(); cur >= 0; cur = nodeNext(seg, cur) {
		total += nodeSize(seg, cur)
	}
	return total
}

// Allocate implements Control.
func (f *FreeList) Allocate(seg []byte, l Layout) ([]byte, error) {
	if !format.AddrAligned(seg, max(l.Align(), granule)) {
		return nil, fmt.Errorf("%w: segment base not %d-aligned", ErrNoSpace, max(l.Align(), granule))
	}
	size := roundGranule(l.Size())
	if size == 0 {
		return block(seg, 0, 0), nil
	}

	if l.Align() <= granule {
		prev := -1
		for cur := f.head(); cur >= 0; prev, cur = cur, nodeNext(seg, cur) {
			fs := nodeSize(seg, cur)
			if fs < size {
				continue
			}
			next := nodeNext(seg, cur)
			if rest := fs - size; rest > 0 {
				f.putNode(seg, cur+size, rest, next)
				next = cur + size
			}
			f.link(seg, prev, next)
			return block(seg, cur, l.Size()), nil
		}
	}

	top := f.top()
	start := format.AlignUp(top, l.Align())
	end, ok := buf.Range(len(seg), start, size)
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes at %d, capacity %d", ErrNoSpace, size, start, len(seg))
	}
	f.setTop(end)
	if start > top {
		f.release(seg, top, start-top)
	}
	return block(seg, start, l.Size()), nil
}

// Deallocate implements Control.
func (f *FreeList) Deallocate(seg, b []byte, l Layout) {
	size := roundGranule(l.Size())
	if size == 0 {
		return
	}
	off, ok := format.OffsetOf(seg, b)
	if !ok {
		return
	}
	f.release(seg, off, size)
}

func (f *FreeList) release(seg []byte, off, size int) {
	if off+size == f.top() {
		f.lowerTop(seg, off)
		return
	}

	prev, cur := -1, f.head()
	for cur >= 0 && cur < off {
		prev, cur = cur, nodeNext(seg, cur)
	}
	next := cur
	if cur >= 0 && off+size == cur {
		size += nodeSize(seg, cur)
		next = nodeNext(seg, cur)
	}
	if prev >= 0 && prev+nodeSize(seg, prev) == off {
		f.putNode(seg, prev, nodeSize(seg, prev)+size, next)
		return
	}
	f.putNode(seg, off, size, next)
	f.link(seg, prev, off)
}

// lowerTop moves the mark down to top, absorbing a free block that ends there.
func (f *FreeList) lowerTop(seg []byte, top int) {
	prev, last := -1, -1
	for cur := f.head(); cur >= 0; cur = nodeNext(seg, cur) {
		prev, last = last, cur
	}
	if last >= 0 && last+nodeSize(seg, last) == top {
		top = last
		f.link(seg, prev, -1)
	}
	f.setTop(top)
}

// GrowInPlace implements InPlaceGrower.
func (f *FreeList) GrowInPlace(seg, b []byte, old, new Layout) ([]byte, error) {
	oldSz, newSz := roundGranule(old.Size()), roundGranule(new.Size())
	off, ok := format.OffsetOf(seg, b)
	if !ok || oldSz == 0 || !format.AddrAligned(b, new.Align()) {
		return nil, ErrNoSpace
	}
	if newSz <= oldSz {
		return block(seg, off, new.Size()), nil
	}
	need, tail := newSz-oldSz, off+oldSz

	if tail == f.top() {
		if _, ok := buf.Range(len(seg), off, newSz); !ok {
			return nil, ErrNoSpace
		}
		f.setTop(off + newSz)
		return block(seg, off, new.Size()), nil
	}

	prev, cur := -1, f.head()
	for cur >= 0 && cur < tail {
		prev, cur = cur, nodeNext(seg, cur)
	}
	if cur != tail || nodeSize(seg, cur) < need {
		return nil, ErrNoSpace
	}
	next := nodeNext(seg, cur)
	if rest := nodeSize(seg, cur) - need; rest > 0 {
		f.putNode(seg, tail+need, rest, next)
		next = tail + need
	}
	f.link(seg, prev, next)
	return block(seg, off, new.Size()), nil
}

// ShrinkInPlace implements InPlaceShrinker.
func (f *FreeList) ShrinkInPlace(seg, b []byte, old, new Layout) ([]byte, error) {
	oldSz, newSz := roundGranule(old.Size()), roundGranule(new.Size())
	off, ok := format.OffsetOf(seg, b)
	if !ok || !format.AddrAligned(b, new.Align()) {
		return nil, ErrNoSpace
	}
	if newSz < oldSz {
		f.release(seg, off+newSz, oldSz-newSz)
	}
	return block(seg, off, new.Size()), nil
}
