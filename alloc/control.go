package alloc

import "fmt"

// Control partitions a segment into blocks. Every call receives the segment
// the control was initialized over.
type Control interface {
	Allocate(seg []byte, l Layout) ([]byte, error)
	Deallocate(seg, block []byte, l Layout)
}

// InPlaceGrower is implemented by controls that can extend a block without
// moving it. It returns ErrNoSpace when the block cannot be extended.
type InPlaceGrower interface {
	GrowInPlace(seg, block []byte, old, new Layout) ([]byte, error)
}

// InPlaceShrinker is implemented by controls that can give back the tail of
// a block without moving it.
type InPlaceShrinker interface {
	ShrinkInPlace(seg, block []byte, old, new Layout) ([]byte, error)
}

// WriteObserver is implemented by controls that keep bookkeeping inside the
// segment, outside the blocks they hand out. fn receives the segment range of
// every such write; state record writes are not reported.
type WriteObserver interface {
	ObserveWrites(fn func(off, n int))
}

// Kind describes a control type: the layout of its state record, how to
// initialize fresh state, and how to re-attach to existing state.
type Kind[C Control] struct {
	// ID identifies the kind in persisted headers.
	ID uint32
	// Name is a short human-readable name.
	Name string
	// State is the layout of the state record.
	State Layout
	// Init writes fresh state for seg into state.
	Init func(state, seg []byte) C
	// Attach reuses state previously written by Init, validating it
	// against seg.
	Attach func(state, seg []byte) (C, error)
}

func assertGrow(old, new Layout) {
	if new.Size() < old.Size() {
		panic(fmt.Sprintf("alloc: grow from %d to smaller size %d", old.Size(), new.Size()))
	}
}

func assertShrink(old, new Layout) {
	if new.Size() > old.Size() {
		panic(fmt.Sprintf("alloc: shrink from %d to larger size %d", old.Size(), new.Size()))
	}
}

// AllocateZeroed allocates a block and zero-fills it. Segment bytes may hold
// data from an earlier use, so controls never assume fresh memory is zero.
func AllocateZeroed(c Control, seg []byte, l Layout) ([]byte, error) {
	b, err := c.Allocate(seg, l)
	if err != nil {
		return nil, err
	}
	clear(b)
	return b, nil
}

// GrowInPlace extends block to new.Size() without moving it, or fails with
// ErrNoSpace when c has no in-place fast path or it does not apply.
func GrowInPlace(c Control, seg, block []byte, old, new Layout) ([]byte, error) {
	assertGrow(old, new)
	g, ok := c.(InPlaceGrower)
	if !ok {
		return nil, ErrNoSpace
	}
	return g.GrowInPlace(seg, block, old, new)
}

// GrowZeroedInPlace is GrowInPlace followed by zeroing the new tail.
func GrowZeroedInPlace(c Control, seg, block []byte, old, new Layout) ([]byte, error) {
	b, err := GrowInPlace(c, seg, block, old, new)
	if err != nil {
		return nil, err
	}
	clear(b[old.Size():])
	return b, nil
}

// Grow extends block to new. It tries the in-place path first, then
// allocates a fresh block, copies the old bytes forward, and releases the
// old block. On failure the old block is untouched and still owned by the
// caller.
func Grow(c Control, seg, block []byte, old, new Layout) ([]byte, error) {
	if b, err := GrowInPlace(c, seg, block, old, new); err == nil {
		return b, nil
	}
	b, err := c.Allocate(seg, new)
	if err != nil {
		return nil, err
	}
	copy(b, block[:old.Size()])
	c.Deallocate(seg, block, old)
	return b, nil
}

// GrowZeroed is Grow followed by zeroing the bytes past old.Size().
func GrowZeroed(c Control, seg, block []byte, old, new Layout) ([]byte, error) {
	b, err := Grow(c, seg, block, old, new)
	if err != nil {
		return nil, err
	}
	clear(b[old.Size():])
	return b, nil
}

// ShrinkInPlace gives back the tail of block, or fails with ErrNoSpace when c
// has no in-place fast path.
func ShrinkInPlace(c Control, seg, block []byte, old, new Layout) ([]byte, error) {
	assertShrink(old, new)
	s, ok := c.(InPlaceShrinker)
	if !ok {
		return nil, ErrNoSpace
	}
	return s.ShrinkInPlace(seg, block, old, new)
}

// Shrink reduces block to new: in place when c supports it, otherwise by
// allocating a block of the new size, copying new.Size() bytes, and
// releasing the old block.
func Shrink(c Control, seg, block []byte, old, new Layout) ([]byte, error) {
	if b, err := ShrinkInPlace(c, seg, block, old, new); err == nil {
		return b, nil
	}
	b, err := c.Allocate(seg, new)
	if err != nil {
		return nil, err
	}
	copy(b, block[:new.Size()])
	c.Deallocate(seg, block, old)
	return b, nil
}
