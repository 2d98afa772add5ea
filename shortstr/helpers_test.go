package shortstr

import (
	"testing"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/region"
	"github.com/joshuapare/relkit/rel"
	"github.com/joshuapare/relkit/relalloc"
	"github.com/stretchr/testify/require"
)

type testRegion struct{ region.Marker }

type slabRef = region.StaticRef[*alloc.External[*alloc.Slab]]

// staticSlab sets up a region whose upper 4096 bytes are managed by an
// External slab allocator leased into a static, branded for the region.
func staticSlab(t *testing.T) (*region.Memory[testRegion], *alloc.External[*alloc.Slab], *relalloc.Brand[testRegion]) {
	t.Helper()
	var st region.Static[*alloc.External[*alloc.Slab]]

	buf := alloc.NewAlignedBuffer(8192, 16)
	mem := region.NewUnchecked[testRegion](buf)
	ext, err := alloc.NewExternal(buf[4096:], alloc.SlabKind)
	require.NoError(t, err)

	lease, err := st.Lease(ext)
	require.NoError(t, err)
	t.Cleanup(lease.Release)

	b, err := relalloc.NewDerefBrand[testRegion, *alloc.External[*alloc.Slab]](slabRef(lease.Ref()), mem)
	require.NoError(t, err)
	return mem, ext, b
}

// prefixFreeList sets up a region whose upper three quarters are a Prefix
// free-list allocator.
func prefixFreeList(t *testing.T, size int) (*region.Memory[testRegion], *relalloc.Prefix[testRegion, *alloc.FreeList]) {
	t.Helper()
	mem := region.NewUnchecked[testRegion](alloc.NewAlignedBuffer(size, 16))
	p, err := relalloc.TryNewIn(mem.MustSlot(size/4, size-size/4), alloc.FreeListKind)
	require.NoError(t, err)
	return mem, p
}

// countingAlloc records calls and reopens to itself from a zero-size handle.
type countingAlloc struct {
	*alloc.Counting
	mem *region.Memory[testRegion]
}

func (c countingAlloc) Memory() *region.Memory[testRegion] { return c.mem }

func (c countingAlloc) Handle() rel.Emplacer[testRegion] {
	return rel.Zero[testRegion](alloc.Layout{})
}

func (c countingAlloc) Loader() relalloc.Loader[testRegion] { return selfLoader(c) }

type selfLoader countingAlloc

func (selfLoader) Layout() alloc.Layout { return alloc.Layout{} }

func (l selfLoader) Load(region.Slot[testRegion]) (relalloc.Allocator[testRegion], error) {
	return countingAlloc(l), nil
}

func (selfLoader) Move(_, _ region.Slot[testRegion]) error { return nil }

func newCounting(t *testing.T) (*region.Memory[testRegion], countingAlloc) {
	t.Helper()
	buf := alloc.NewAlignedBuffer(4096, 16)
	mem := region.NewUnchecked[testRegion](buf)
	ext, err := alloc.NewExternal(buf[1024:], alloc.SlabKind)
	require.NoError(t, err)
	return mem, countingAlloc{Counting: alloc.NewCounting(ext), mem: mem}
}

// emplaceAt emplaces e at offset off and returns the view.
func emplaceAt(t *testing.T, a relalloc.Allocator[testRegion], mem *region.Memory[testRegion], off int, e rel.Emplacer[testRegion]) *String[testRegion] {
	t.Helper()
	slot := mem.MustSlot(off, e.Layout().Size())
	require.NoError(t, rel.Emplace(e, slot))
	s, err := At(slot, a.Loader())
	require.NoError(t, err)
	return s
}
