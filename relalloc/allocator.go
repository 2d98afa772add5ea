package relalloc

import (
	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/region"
	"github.com/joshuapare/relkit/rel"
)

// Allocator is a region-bound allocator that can emplace a handle to itself.
type Allocator[R region.Tag] interface {
	rel.Regional[R]
	// Handle emplaces a relocatable reference to this allocator. Its layout
	// equals Loader().Layout().
	Handle() rel.Emplacer[R]
	// Loader reopens allocators of this type from emplaced handles.
	Loader() Loader[R]
}

// Loader reopens an allocator from its emplaced handle.
type Loader[R region.Tag] interface {
	// Layout is the layout of the handle.
	Layout() alloc.Layout
	// Load returns the allocator the handle in slot refers to.
	Load(handle region.Slot[R]) (Allocator[R], error)
	// Move rewrites the handle at src into dst so it refers to the same
	// allocator from its new location.
	Move(src, dst region.Slot[R]) error
}

// unavailable is a handle emplacer for allocators with no handle form.
type unavailable[R region.Tag] struct{}

func (unavailable[R]) Layout() alloc.Layout { return alloc.Layout{} }

func (unavailable[R]) EmplaceUnchecked(region.Slot[R]) error { return ErrNotEmplaceable }

func (unavailable[R]) Load(region.Slot[R]) (Allocator[R], error) { return nil, ErrNotEmplaceable }

func (unavailable[R]) Move(_, _ region.Slot[R]) error { return ErrNotEmplaceable }
