package shortstr

import (
	"fmt"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/internal/format"
	"github.com/joshuapare/relkit/region"
	"github.com/joshuapare/relkit/rel"
	"github.com/joshuapare/relkit/relalloc"
)

// InlineCapacity is the number of bytes stored inside the record: the size
// of the out-of-line {pointer, length} pair it overlays.
const InlineCapacity = 16

const (
	reprOff = 0
	lenOff  = 8
	capOff  = 16
)

var (
	reprLayout = alloc.MustLayout(InlineCapacity, format.WordAlign)
	capLayout  = alloc.MustLayout(format.WordSize, format.WordAlign)
)

// recordLayout returns the record layout for allocators loaded by l and the
// offset of the allocator handle.
func recordLayout[R region.Tag](l relalloc.Loader[R]) (alloc.Layout, int) {
	layout, offsets, err := rel.StructLayout(reprLayout, capLayout, l.Layout())
	if err != nil {
		panic(err)
	}
	return layout, offsets[2]
}

// RecordLayout returns the layout of a string record whose allocator is
// reopened by l.
func RecordLayout[R region.Tag](l relalloc.Loader[R]) alloc.Layout {
	layout, _ := recordLayout(l)
	return layout
}

// String is a view of an emplaced string record.
type String[R region.Tag] struct {
	slot      region.Slot[R]
	loader    relalloc.Loader[R]
	handleOff int
}

// At views the record emplaced at slot. loader must be the loader of the
// allocator the record was emplaced with.
func At[R region.Tag](slot region.Slot[R], loader relalloc.Loader[R]) (*String[R], error) {
	layout, handleOff := recordLayout(loader)
	if slot.Len() != layout.Size() || !slot.Aligned(layout.Align()) {
		return nil, fmt.Errorf("%w: slot %s, want %s", rel.ErrSlotLayout, slot, layout)
	}
	return &String[R]{slot: slot, loader: loader, handleOff: handleOff}, nil
}

// Slot returns the record slot.
func (s *String[R]) Slot() region.Slot[R] { return s.slot }

func (s *String[R]) raw() []byte { return s.slot.Bytes() }

func (s *String[R]) storedCap() int { return int(format.ReadU64(s.raw(), capOff)) }

func (s *String[R]) setCap(n int) { format.PutU64(s.raw(), capOff, uint64(n)) }

func (s *String[R]) setLen(n int) { format.PutU64(s.raw(), lenOff, uint64(n)) }

func (s *String[R]) ptr() rel.Ptr[R] { return rel.PtrAt(s.slot.Field(reprOff, rel.PtrLayout.Size())) }

func (s *String[R]) handle() region.Slot[R] {
	return s.slot.Field(s.handleOff, s.loader.Layout().Size())
}

// isInline is the single place that decides the representation: the record
// is inline exactly when the stored capacity fits the repr field.
func (s *String[R]) isInline() bool {
	return s.storedCap() <= InlineCapacity
}

// IsInline reports whether the contents are stored inside the record.
func (s *String[R]) IsInline() bool { return s.isInline() }

// Len returns the length in bytes.
func (s *String[R]) Len() int {
	if s.isInline() {
		return s.storedCap()
	}
	return int(format.ReadU64(s.raw(), lenOff))
}

// IsEmpty reports whether the string has no bytes.
func (s *String[R]) IsEmpty() bool { return s.Len() == 0 }

// Capacity returns the number of bytes the string can hold without
// reallocating. Inline strings can always hold InlineCapacity bytes.
func (s *String[R]) Capacity() int {
	return max(s.storedCap(), InlineCapacity)
}

// block returns the out-of-line block of a spilled string.
func (s *String[R]) block() (region.Slot[R], error) {
	c := s.storedCap()
	blk, err := s.ptr().Deref(alloc.BytesLayout(c))
	if err != nil {
		return region.Slot[R]{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if n := format.ReadU64(s.raw(), lenOff); n > uint64(c) {
		return region.Slot[R]{}, fmt.Errorf("%w: length %d exceeds capacity %d", ErrCorrupt, n, c)
	}
	return blk, nil
}

// Bytes returns the contents. The slice aliases region memory and is valid
// until the string is next modified.
func (s *String[R]) Bytes() ([]byte, error) {
	if s.isInline() {
		return s.raw()[reprOff : reprOff+s.storedCap()], nil
	}
	blk, err := s.block()
	if err != nil {
		return nil, err
	}
	return blk.Bytes()[:s.Len()], nil
}

// String returns a copy of the contents, or "" when the record is corrupt.
func (s *String[R]) String() string {
	b, err := s.Bytes()
	if err != nil {
		return ""
	}
	return string(b)
}

// Clear sets the length to zero without changing Capacity.
func (s *String[R]) Clear() {
	if s.isInline() {
		s.setCap(0)
		return
	}
	s.setLen(0)
}

// Allocator reopens the allocator that owns the string's out-of-line block.
func (s *String[R]) Allocator() (relalloc.Allocator[R], error) {
	return s.loader.Load(s.handle())
}

// AppendString appends str.
func (s *String[R]) AppendString(str string) error {
	return s.Append([]byte(str))
}

// Append appends b. An inline string that outgrows InlineCapacity moves to
// an out-of-line block; a spilled string grows its block, at least doubling.
func (s *String[R]) Append(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	n := s.Len()
	want := n + len(b)

	if s.isInline() {
		if want <= InlineCapacity {
			copy(s.raw()[reprOff+n:], b)
			s.setCap(want)
			return nil
		}
		return s.spill(want, b)
	}

	blk, err := s.block()
	if err != nil {
		return err
	}
	c := s.storedCap()
	if want > c {
		a, err := s.Allocator()
		if err != nil {
			return err
		}
		grown := max(want, 2*c)
		nb, err := a.Grow(blk.Bytes(), alloc.BytesLayout(c), alloc.BytesLayout(grown))
		if err != nil {
			return err
		}
		if blk, err = rel.SlotOf[R](a, nb); err != nil {
			return err
		}
		if err := s.ptr().Set(blk); err != nil {
			return err
		}
		s.setCap(grown)
	}
	copy(blk.Bytes()[n:], b)
	s.setLen(want)
	return nil
}

// spill moves inline contents plus tail into a new block of at least want
// bytes.
func (s *String[R]) spill(want int, tail []byte) error {
	a, err := s.Allocator()
	if err != nil {
		return err
	}
	c := max(want, 2*InlineCapacity)
	blk, err := rel.AllocateSlot[R](a, alloc.BytesLayout(c))
	if err != nil {
		return err
	}
	n := s.Len()
	copy(blk.Bytes(), s.raw()[reprOff:reprOff+n])
	copy(blk.Bytes()[n:], tail)
	if err := s.ptr().Set(blk); err != nil {
		a.Deallocate(blk.Bytes(), alloc.BytesLayout(c))
		return err
	}
	s.setLen(want)
	s.setCap(c)
	return nil
}

// ShrinkToFit releases unused capacity. A spilled string short enough to be
// inline moves back into the record and frees its block.
func (s *String[R]) ShrinkToFit() error {
	if s.isInline() {
		return nil
	}
	blk, err := s.block()
	if err != nil {
		return err
	}
	a, err := s.Allocator()
	if err != nil {
		return err
	}
	n, c := s.Len(), s.storedCap()

	if n <= InlineCapacity {
		var tmp [InlineCapacity]byte
		copy(tmp[:], blk.Bytes()[:n])
		a.Deallocate(blk.Bytes(), alloc.BytesLayout(c))
		repr := s.raw()[reprOff : reprOff+InlineCapacity]
		clear(repr)
		copy(repr, tmp[:n])
		s.setCap(n)
		return nil
	}
	if n == c {
		return nil
	}
	nb, err := a.Shrink(blk.Bytes(), alloc.BytesLayout(c), alloc.BytesLayout(n))
	if err != nil {
		return err
	}
	if blk, err = rel.SlotOf[R](a, nb); err != nil {
		return err
	}
	if err := s.ptr().Set(blk); err != nil {
		return err
	}
	s.setCap(n)
	return nil
}

// Drop releases the out-of-line block of a spilled string through its
// allocator and leaves an empty inline record. Inline strings own nothing.
func (s *String[R]) Drop() error {
	if s.isInline() {
		s.setCap(0)
		return nil
	}
	blk, err := s.block()
	if err != nil {
		return err
	}
	a, err := s.Allocator()
	if err != nil {
		return err
	}
	a.Deallocate(blk.Bytes(), alloc.BytesLayout(s.storedCap()))
	clear(s.raw()[reprOff : reprOff+InlineCapacity])
	s.setCap(0)
	return nil
}

// MoveTo moves the record into dst, re-pointing its relative pointers, and
// returns a view of the moved record. The source is left as an empty inline
// string that owns nothing.
func (s *String[R]) MoveTo(dst region.Slot[R]) (*String[R], error) {
	if err := s.slot.SameMemory(dst); err != nil {
		return nil, err
	}
	d, err := At(dst, s.loader)
	if err != nil {
		return nil, err
	}
	if err := s.loader.Move(s.handle(), d.handle()); err != nil {
		return nil, err
	}
	if s.isInline() {
		copy(d.raw()[reprOff:reprOff+InlineCapacity], s.raw()[reprOff:reprOff+InlineCapacity])
	} else {
		if _, err := s.ptr().MoveTo(d.slot.Field(reprOff, rel.PtrLayout.Size())); err != nil {
			return nil, err
		}
		d.setLen(s.Len())
	}
	d.setCap(s.storedCap())

	clear(s.raw()[reprOff : reprOff+InlineCapacity])
	s.setCap(0)
	return d, nil
}
