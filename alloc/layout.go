package alloc

import (
	"fmt"

	"github.com/joshuapare/relkit/internal/buf"
	"github.com/joshuapare/relkit/internal/format"
)

// Layout is the size and alignment of a block. The zero Layout is a
// zero-size, 1-aligned block.
type Layout struct {
	size  int
	align int
}

// NewLayout returns a Layout after checking that align is a power of two and
// size is non-negative.
func NewLayout(size, align int) (Layout, error) {
	if size < 0 || !format.IsPowerOfTwo(align) {
		return Layout{}, fmt.Errorf("%w: size %d align %d", ErrLayout, size, align)
	}
	return Layout{size: size, align: align}, nil
}

// MustLayout is like NewLayout but panics on an invalid pair.
func MustLayout(size, align int) Layout {
	l, err := NewLayout(size, align)
	if err != nil {
		panic(err)
	}
	return l
}

// BytesLayout is the layout of n unaligned bytes.
func BytesLayout(n int) Layout {
	return MustLayout(n, 1)
}

// Size returns the block size.
func (l Layout) Size() int { return l.size }

// Align returns the block alignment.
func (l Layout) Align() int {
	if l.align == 0 {
		return 1
	}
	return l.align
}

// PadToAlign rounds the size up to a multiple of the alignment.
func (l Layout) PadToAlign() Layout {
	return Layout{size: format.AlignUp(l.size, l.Align()), align: l.Align()}
}

// Extend appends next after l with C layout rules. It returns the combined
// layout and the offset of next within it. The result is not padded to its
// own alignment; call PadToAlign for that.
func (l Layout) Extend(next Layout) (Layout, int, error) {
	off := format.AlignUp(l.size, next.Align())
	if off < l.size {
		return Layout{}, 0, fmt.Errorf("%w: extend overflow", ErrLayout)
	}
	size, ok := buf.AddOverflowSafe(off, next.size)
	if !ok {
		return Layout{}, 0, fmt.Errorf("%w: extend overflow", ErrLayout)
	}
	return Layout{size: size, align: max(l.Align(), next.Align())}, off, nil
}

// Array returns the layout of n elements of l, each padded to its alignment.
func (l Layout) Array(n int) (Layout, error) {
	stride := l.PadToAlign().size
	size, ok := buf.MulOverflowSafe(stride, n)
	if !ok {
		return Layout{}, fmt.Errorf("%w: array of %d x %d", ErrLayout, n, stride)
	}
	return Layout{size: size, align: l.Align()}, nil
}

func (l Layout) String() string {
	return fmt.Sprintf("{size %d, align %d}", l.size, l.Align())
}
