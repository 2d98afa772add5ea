package rel

import (
	"fmt"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/region"
)

// StructLayout lays out fields in order with C rules and returns the padded
// layout of the whole and each field's offset.
func StructLayout(fields ...alloc.Layout) (alloc.Layout, []int, error) {
	var l alloc.Layout
	offsets := make([]int, len(fields))
	for i, f := range fields {
		var err error
		l, offsets[i], err = l.Extend(f)
		if err != nil {
			return alloc.Layout{}, nil, err
		}
	}
	return l.PadToAlign(), offsets, nil
}

// Composite emplaces an aggregate from one emplacer per field.
type Composite[R region.Tag] struct {
	fields  []Emplacer[R]
	layout  alloc.Layout
	offsets []int
}

// Struct composes fields into a C-layout record. The slot is zeroed first
// so padding is initialized, then each field is emplaced into its sub-slot.
// If a field fails, fields already emplaced are unwound.
func Struct[R region.Tag](fields ...Emplacer[R]) (*Composite[R], error) {
	layouts := make([]alloc.Layout, len(fields))
	for i, f := range fields {
		layouts[i] = f.Layout()
	}
	l, offsets, err := StructLayout(layouts...)
	if err != nil {
		return nil, err
	}
	return &Composite[R]{fields: fields, layout: l, offsets: offsets}, nil
}

// Array composes elements of one layout into a contiguous array.
func Array[R region.Tag](elems ...Emplacer[R]) (*Composite[R], error) {
	if len(elems) == 0 {
		return &Composite[R]{}, nil
	}
	el := elems[0].Layout()
	for i, e := range elems[1:] {
		if e.Layout() != el {
			return nil, fmt.Errorf("%w: element %d is %s, want %s", ErrElementLayout, i+1, e.Layout(), el)
		}
	}
	l, err := el.Array(len(elems))
	if err != nil {
		return nil, err
	}
	stride := el.PadToAlign().Size()
	offsets := make([]int, len(elems))
	for i := range offsets {
		offsets[i] = i * stride
	}
	return &Composite[R]{fields: elems, layout: l, offsets: offsets}, nil
}

// Layout implements Emplacer.
func (c *Composite[R]) Layout() alloc.Layout { return c.layout }

// Offsets returns each field's offset within the record.
func (c *Composite[R]) Offsets() []int { return c.offsets }

// Field returns the sub-slot of field i within a record emplaced at s.
func (c *Composite[R]) Field(s region.Slot[R], i int) region.Slot[R] {
	return s.Field(c.offsets[i], c.fields[i].Layout().Size())
}

// EmplaceUnchecked implements Emplacer.
func (c *Composite[R]) EmplaceUnchecked(out region.Slot[R]) error {
	out.Zero()
	for i, f := range c.fields {
		if err := f.EmplaceUnchecked(c.Field(out, i)); err != nil {
			for j := i - 1; j >= 0; j-- {
				Unwind(c.fields[j], c.Field(out, j))
			}
			return fmt.Errorf("field %d: %w", i, err)
		}
	}
	return nil
}

// Unwind implements Unwinder.
func (c *Composite[R]) Unwind(out region.Slot[R]) {
	for j := len(c.fields) - 1; j >= 0; j-- {
		Unwind(c.fields[j], c.Field(out, j))
	}
}
