package rel

import (
	"errors"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/region"
)

type testRegion struct{ region.Marker }

// arena is a Regional allocator over the tail of a test region.
type arena struct {
	alloc.Allocator
	mem *region.Memory[testRegion]
}

func (a arena) Memory() *region.Memory[testRegion] { return a.mem }

// newArena returns a region of size bytes whose upper half is managed by a
// free-list allocator.
func newArena(size int) (*region.Memory[testRegion], *alloc.External[*alloc.FreeList], arena) {
	b := alloc.NewAlignedBuffer(size, 16)
	mem := region.NewUnchecked[testRegion](b)
	ext, err := alloc.NewExternal(b[size/2:], alloc.FreeListKind)
	if err != nil {
		panic(err)
	}
	return mem, ext, arena{Allocator: ext, mem: mem}
}

var errBoom = errors.New("boom")

type failing struct{ l alloc.Layout }

func (f failing) Layout() alloc.Layout { return f.l }

func (failing) EmplaceUnchecked(out region.Slot[testRegion]) error {
	out.Bytes()[0] = 0xff
	return errBoom
}
