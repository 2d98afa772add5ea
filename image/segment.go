package image

import (
	"fmt"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/region"
	"github.com/joshuapare/relkit/relalloc"
)

// segment is the image allocator together with the accounting the control
// type exposes.
type segment[R region.Tag] struct {
	relalloc.Allocator[R]
	kind      uint32
	name      string
	header    region.Slot[R]
	capacity  func() int
	used      func() int
	freeBytes func() int
}

func controlID(name string) (uint32, error) {
	switch name {
	case alloc.SlabKind.Name:
		return alloc.SlabKind.ID, nil
	case alloc.FreeListKind.Name:
		return alloc.FreeListKind.ID, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownControl, name)
}

// openSegment initializes (fresh) or reattaches the Prefix allocator of
// control kind id over s. Every write it makes is reported to mark.
func openSegment[R region.Tag](s region.Slot[R], id uint32, fresh bool, mark func(off, n int)) (*segment[R], error) {
	switch id {
	case alloc.SlabKind.ID:
		p, err := prefixOf(s, alloc.SlabKind, fresh)
		if err != nil {
			return nil, err
		}
		return &segment[R]{
			Allocator: newTracked[R](p, mark), kind: id, name: alloc.SlabKind.Name, header: p.Header(),
			capacity:  p.Capacity,
			used:      func() int { return p.Control().Len() },
			freeBytes: func() int { return 0 },
		}, nil
	case alloc.FreeListKind.ID:
		p, err := prefixOf(s, alloc.FreeListKind, fresh)
		if err != nil {
			return nil, err
		}
		return &segment[R]{
			Allocator: newTracked[R](p, mark), kind: id, name: alloc.FreeListKind.Name, header: p.Header(),
			capacity:  p.Capacity,
			used:      func() int { return p.Control().Len() },
			freeBytes: func() int { return p.Control().FreeBytes(p.Segment()) },
		}, nil
	}
	return nil, fmt.Errorf("%w: id %d", ErrUnknownControl, id)
}

func prefixOf[R region.Tag, C alloc.Control](s region.Slot[R], k alloc.Kind[C], fresh bool) (*relalloc.Prefix[R, C], error) {
	if fresh {
		return relalloc.TryNewIn(s, k)
	}
	return relalloc.TryFromBytes(s, k)
}
