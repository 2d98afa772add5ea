package relalloc

import (
	"testing"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/region"
	"github.com/joshuapare/relkit/rel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrand_ChecksContainment(t *testing.T) {
	mem := newMem(256)

	inside, err := alloc.NewExternal(mem.Bytes()[128:], alloc.SlabKind)
	require.NoError(t, err)
	b, err := NewBrand(inside, mem)
	require.NoError(t, err)
	s, err := rel.AllocateSlot[testRegion](b, alloc.MustLayout(8, 8))
	require.NoError(t, err)
	assert.Equal(t, 128, s.Offset())

	outside, err := alloc.NewExternal(alloc.NewAlignedBuffer(64, 16), alloc.SlabKind)
	require.NoError(t, err)
	_, err = NewBrand(outside, mem)
	require.ErrorIs(t, err, region.ErrOutsideRegion)

	_, err = NewBrand(alloc.NewCounting(inside), mem)
	require.ErrorIs(t, err, ErrNotContiguous)
}

func TestBrand_HandleUnavailableForPlainAllocators(t *testing.T) {
	mem := newMem(256)
	ext, err := alloc.NewExternal(mem.Bytes()[128:], alloc.SlabKind)
	require.NoError(t, err)
	b := NewBrandUnchecked(ext, mem)

	err = rel.Emplace(b.Handle(), mem.MustSlot(0, 0))
	require.ErrorIs(t, err, ErrNotEmplaceable)
	_, err = b.Loader().Load(mem.MustSlot(0, 0))
	require.ErrorIs(t, err, ErrNotEmplaceable)
}

func TestBrand_ForwardsPrefixHandle(t *testing.T) {
	mem := newMem(512)
	p, err := TryNewIn(mem.MustSlot(256, 256), alloc.SlabKind)
	require.NoError(t, err)
	b, err := NewBrand(p, mem)
	require.NoError(t, err)
	assert.Same(t, p, b.Inner())

	h := mem.MustSlot(0, b.Loader().Layout().Size())
	require.NoError(t, rel.Emplace(b.Handle(), h))

	a, err := b.Loader().Load(h)
	require.NoError(t, err)
	require.IsType(t, &Brand[testRegion]{}, a)

	_, err = a.Allocate(alloc.MustLayout(16, 8))
	require.NoError(t, err)
	assert.Equal(t, 16, p.Control().Len())
}

func TestStaticBrand_ZeroSizeHandle(t *testing.T) {
	var st region.Static[*alloc.External[*alloc.Slab]]
	mem := newMem(256)
	ext, err := alloc.NewExternal(mem.Bytes()[128:], alloc.SlabKind)
	require.NoError(t, err)

	lease, err := st.Lease(ext)
	require.NoError(t, err)
	_, err = st.Lease(ext)
	require.ErrorIs(t, err, region.ErrHeld)

	b, err := NewDerefBrand[testRegion, *alloc.External[*alloc.Slab]](lease.Ref(), mem)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Handle().Layout().Size())
	assert.Equal(t, 0, b.Loader().Layout().Size())
	require.NoError(t, rel.Emplace(b.Handle(), mem.MustSlot(0, 0)))

	a, err := b.Loader().Load(mem.MustSlot(0, 0))
	require.NoError(t, err)
	_, err = a.Allocate(alloc.MustLayout(32, 8))
	require.NoError(t, err)
	assert.Equal(t, 32, ext.Control().Len())

	lease.Release()
	_, err = b.Loader().Load(mem.MustSlot(0, 0))
	require.ErrorIs(t, err, ErrStaticEmpty)

	// The static can be leased again once released.
	lease, err = st.Lease(ext)
	require.NoError(t, err)
	lease.Release()
}

func TestNewDerefBrand_ChecksTarget(t *testing.T) {
	var st region.Static[*alloc.External[*alloc.Slab]]
	mem := newMem(64)
	ext, err := alloc.NewExternal(alloc.NewAlignedBuffer(64, 16), alloc.SlabKind)
	require.NoError(t, err)
	lease, err := st.Lease(ext)
	require.NoError(t, err)
	defer lease.Release()

	_, err = NewDerefBrand[testRegion, *alloc.External[*alloc.Slab]](lease.Ref(), mem)
	require.ErrorIs(t, err, region.ErrOutsideRegion)
}
