package image

import (
	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/region"
	"github.com/joshuapare/relkit/relalloc"
)

// writeObserver is implemented by allocators that report writes to their
// in-segment bookkeeping (relalloc.Prefix over a free list).
type writeObserver interface {
	ObserveWrites(fn func(off, n int)) bool
}

type headered[R region.Tag] interface {
	Header() region.Slot[R]
}

// tracked wraps the image allocator so every byte it may write is marked
// dirty: the header holding the control state, each block it returns, and,
// through the control's observer, free-list nodes inside the segment.
type tracked[R region.Tag] struct {
	relalloc.Allocator[R]
	header region.Slot[R]
	mark   func(off, n int)
}

func newTracked[R region.Tag](a relalloc.Allocator[R], mark func(off, n int)) *tracked[R] {
	t := &tracked[R]{Allocator: a, mark: mark}
	if h, ok := a.(headered[R]); ok {
		t.header = h.Header()
	}
	if o, ok := a.(writeObserver); ok {
		o.ObserveWrites(mark)
	}
	return t
}

func (t *tracked[R]) done(b []byte, err error) ([]byte, error) {
	t.mark(t.header.Offset(), t.header.Len())
	if err == nil {
		if s, serr := t.Memory().SlotOf(b); serr == nil {
			t.mark(s.Offset(), s.Len())
		}
	}
	return b, err
}

func (t *tracked[R]) Allocate(l alloc.Layout) ([]byte, error) {
	return t.done(t.Allocator.Allocate(l))
}

func (t *tracked[R]) AllocateZeroed(l alloc.Layout) ([]byte, error) {
	return t.done(t.Allocator.AllocateZeroed(l))
}

func (t *tracked[R]) Deallocate(block []byte, l alloc.Layout) {
	t.Allocator.Deallocate(block, l)
	t.mark(t.header.Offset(), t.header.Len())
}

func (t *tracked[R]) Grow(block []byte, old, new alloc.Layout) ([]byte, error) {
	return t.done(t.Allocator.Grow(block, old, new))
}

func (t *tracked[R]) GrowZeroed(block []byte, old, new alloc.Layout) ([]byte, error) {
	return t.done(t.Allocator.GrowZeroed(block, old, new))
}

func (t *tracked[R]) GrowInPlace(block []byte, old, new alloc.Layout) ([]byte, error) {
	return t.done(t.Allocator.GrowInPlace(block, old, new))
}

func (t *tracked[R]) GrowZeroedInPlace(block []byte, old, new alloc.Layout) ([]byte, error) {
	return t.done(t.Allocator.GrowZeroedInPlace(block, old, new))
}

func (t *tracked[R]) Shrink(block []byte, old, new alloc.Layout) ([]byte, error) {
	return t.done(t.Allocator.Shrink(block, old, new))
}

func (t *tracked[R]) ShrinkInPlace(block []byte, old, new alloc.Layout) ([]byte, error) {
	return t.done(t.Allocator.ShrinkInPlace(block, old, new))
}

// Loader returns a loader whose allocators are tracked the same way, so
// strings reopened from their records keep marking what they change.
func (t *tracked[R]) Loader() relalloc.Loader[R] {
	return trackingLoader[R]{inner: t.Allocator.Loader(), mark: t.mark}
}

type trackingLoader[R region.Tag] struct {
	inner relalloc.Loader[R]
	mark  func(off, n int)
}

func (l trackingLoader[R]) Layout() alloc.Layout { return l.inner.Layout() }

func (l trackingLoader[R]) Load(handle region.Slot[R]) (relalloc.Allocator[R], error) {
	a, err := l.inner.Load(handle)
	if err != nil {
		return nil, err
	}
	return newTracked(a, l.mark), nil
}

func (l trackingLoader[R]) Move(src, dst region.Slot[R]) error {
	err := l.inner.Move(src, dst)
	l.mark(dst.Offset(), dst.Len())
	return err
}
