package relalloc

import (
	"fmt"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/region"
	"github.com/joshuapare/relkit/rel"
)

// Brand binds an allocator to region R.
type Brand[R region.Tag] struct {
	inner  alloc.Allocator
	mem    *region.Memory[R]
	handle rel.Emplacer[R]
	loader Loader[R]
}

// NewBrandUnchecked binds a to mem. The caller asserts that every block a
// returns lies inside mem; nothing verifies it.
//
// The brand emplaces the handle of a when a is itself an Allocator[R], or a
// itself when it is region independent (rel.Plain). Otherwise Handle fails
// with ErrNotEmplaceable.
func NewBrandUnchecked[R region.Tag](a alloc.Allocator, mem *region.Memory[R]) *Brand[R] {
	b := &Brand[R]{inner: a, mem: mem, handle: unavailable[R]{}, loader: unavailable[R]{}}
	switch v := a.(type) {
	case Allocator[R]:
		b.handle = v.Handle()
		b.loader = BrandLoader(v.Loader())
	case rel.Plain:
		b.handle = rel.Lift[R](v)
	}
	return b
}

// NewBrand binds a contiguous allocator to mem after checking that its
// segment lies inside mem.
func NewBrand[R region.Tag](a alloc.Allocator, mem *region.Memory[R]) (*Brand[R], error) {
	if err := checkContained(a, mem); err != nil {
		return nil, err
	}
	return NewBrandUnchecked(a, mem), nil
}

func checkContained[R region.Tag](a any, mem *region.Memory[R]) error {
	c, ok := a.(alloc.Contiguous)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotContiguous, a)
	}
	if !mem.Contains(c.Segment()) {
		return fmt.Errorf("%w: %T segment of %d bytes", region.ErrOutsideRegion, a, len(c.Segment()))
	}
	return nil
}

// NewDerefBrand binds the allocator behind p to mem through a
// DerefAdapter. The current target of p must be contiguous and inside mem.
//
// The brand emplaces p itself when p is region independent, as a static
// reference is; it then reloads through StaticLoader.
func NewDerefBrand[R region.Tag, A alloc.Allocator](p alloc.Deref[A], mem *region.Memory[R]) (*Brand[R], error) {
	target := p.Deref()
	if err := checkContained(target, mem); err != nil {
		return nil, err
	}
	b := &Brand[R]{inner: alloc.NewDerefAdapter(p), mem: mem, handle: unavailable[R]{}, loader: unavailable[R]{}}
	if plain, ok := p.(rel.Plain); ok {
		b.handle = rel.Lift[R](plain)
	}
	if ref, ok := p.(region.StaticRef[A]); ok {
		b.loader = StaticLoader(ref.Static(), mem)
	}
	if inner, ok := any(target).(Allocator[R]); ok {
		if _, plain := p.(rel.Plain); !plain {
			b.handle = inner.Handle()
			b.loader = BrandLoader(inner.Loader())
		}
	}
	return b, nil
}

// Inner returns the wrapped allocator.
func (b *Brand[R]) Inner() alloc.Allocator { return b.inner }

// Memory implements rel.Regional.
func (b *Brand[R]) Memory() *region.Memory[R] { return b.mem }

// Handle implements Allocator.
func (b *Brand[R]) Handle() rel.Emplacer[R] { return b.handle }

// Loader implements Allocator.
func (b *Brand[R]) Loader() Loader[R] { return b.loader }

func (b *Brand[R]) Allocate(l alloc.Layout) ([]byte, error) { return b.inner.Allocate(l) }

func (b *Brand[R]) AllocateZeroed(l alloc.Layout) ([]byte, error) {
	return b.inner.AllocateZeroed(l)
}

func (b *Brand[R]) Deallocate(block []byte, l alloc.Layout) { b.inner.Deallocate(block, l) }

func (b *Brand[R]) Grow(block []byte, old, new alloc.Layout) ([]byte, error) {
	return b.inner.Grow(block, old, new)
}

func (b *Brand[R]) GrowZeroed(block []byte, old, new alloc.Layout) ([]byte, error) {
	return b.inner.GrowZeroed(block, old, new)
}

func (b *Brand[R]) GrowInPlace(block []byte, old, new alloc.Layout) ([]byte, error) {
	return b.inner.GrowInPlace(block, old, new)
}

func (b *Brand[R]) GrowZeroedInPlace(block []byte, old, new alloc.Layout) ([]byte, error) {
	return b.inner.GrowZeroedInPlace(block, old, new)
}

func (b *Brand[R]) Shrink(block []byte, old, new alloc.Layout) ([]byte, error) {
	return b.inner.Shrink(block, old, new)
}

func (b *Brand[R]) ShrinkInPlace(block []byte, old, new alloc.Layout) ([]byte, error) {
	return b.inner.ShrinkInPlace(block, old, new)
}

type brandLoader[R region.Tag] struct {
	inner Loader[R]
}

// BrandLoader reopens brands whose inner allocator is loaded by inner.
func BrandLoader[R region.Tag](inner Loader[R]) Loader[R] {
	return brandLoader[R]{inner: inner}
}

func (l brandLoader[R]) Layout() alloc.Layout { return l.inner.Layout() }

func (l brandLoader[R]) Load(handle region.Slot[R]) (Allocator[R], error) {
	a, err := l.inner.Load(handle)
	if err != nil {
		return nil, err
	}
	return NewBrandUnchecked(a, a.Memory()), nil
}

func (l brandLoader[R]) Move(src, dst region.Slot[R]) error { return l.inner.Move(src, dst) }
