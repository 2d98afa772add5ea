package relalloc

import (
	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/region"
)

type staticLoader[R region.Tag, A alloc.Allocator] struct {
	s   *region.Static[A]
	mem *region.Memory[R]
}

// StaticLoader reopens brands over the allocator leased into s. Their
// handle is zero-size: the static itself identifies the allocator.
func StaticLoader[R region.Tag, A alloc.Allocator](s *region.Static[A], mem *region.Memory[R]) Loader[R] {
	return staticLoader[R, A]{s: s, mem: mem}
}

func (staticLoader[R, A]) Layout() alloc.Layout { return alloc.Layout{} }

func (l staticLoader[R, A]) Load(region.Slot[R]) (Allocator[R], error) {
	if _, ok := l.s.Get(); !ok {
		return nil, ErrStaticEmpty
	}
	return NewDerefBrand[R, A](l.s.Ref(), l.mem)
}

func (staticLoader[R, A]) Move(_, _ region.Slot[R]) error { return nil }
