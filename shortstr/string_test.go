package shortstr

import (
	"strings"
	"testing"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/region"
	"github.com/joshuapare/relkit/rel"
	"github.com/joshuapare/relkit/relalloc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestScenario_InlineHelloConsumesNothing(t *testing.T) {
	mem, ext, a := staticSlab(t)

	s := emplaceAt(t, a, mem, 0, Clone[testRegion](a, "hello"))
	assert.Equal(t, 0, ext.Control().Len())
	assert.Equal(t, "hello", s.String())
	assert.True(t, s.IsInline())
	assert.Equal(t, 5, s.Len())
}

func TestScenario_SpilledStringAdvancesSlabByLength(t *testing.T) {
	mem, ext, a := staticSlab(t)
	str := strings.Repeat("0123456789abcdef", 4)

	s := emplaceAt(t, a, mem, 0, Clone[testRegion](a, str))
	assert.Equal(t, 64, ext.Control().Len())
	assert.Equal(t, str, s.String())
	assert.False(t, s.IsInline())
	assert.Equal(t, 64, s.Capacity())
}

func TestString_RoundTripAllLengths(t *testing.T) {
	mem, a := newCounting(t)
	off := 0
	for n := 0; n <= 40; n++ {
		a.Reset()
		str := strings.Repeat("x", n)
		e := Clone[testRegion](a, str)
		s := emplaceAt(t, a, mem, off, e)
		off += e.Layout().Size()

		got, err := s.Bytes()
		require.NoError(t, err)
		assert.Equal(t, str, string(got), "len %d", n)
		assert.Equal(t, n, s.Len())

		if n <= InlineCapacity {
			assert.Zero(t, a.Counts.Allocs, "len %d allocated", n)
			assert.True(t, s.IsInline())
		} else {
			assert.Equal(t, 1, a.Counts.Allocs, "len %d", n)
			assert.Equal(t, n, a.Counts.AllocBytes)
			assert.Greater(t, s.Capacity(), InlineCapacity)
		}
	}
}

func TestString_ClearKeepsCapacity(t *testing.T) {
	mem, _, a := staticSlab(t)
	for i, str := range []string{"short", strings.Repeat("long", 10)} {
		s := emplaceAt(t, a, mem, i*64, Clone[testRegion](a, str))
		capBefore := s.Capacity()
		s.Clear()
		assert.True(t, s.IsEmpty())
		assert.Equal(t, capBefore, s.Capacity())
		assert.Equal(t, "", s.String())
	}
}

func TestString_AppendInlineToSpilled(t *testing.T) {
	mem, ext, a := staticSlab(t)
	s := emplaceAt(t, a, mem, 0, Clone[testRegion](a, "abc"))

	require.NoError(t, s.AppendString("defghij"))
	assert.True(t, s.IsInline())
	assert.Equal(t, "abcdefghij", s.String())
	assert.Equal(t, 0, ext.Control().Len())

	require.NoError(t, s.AppendString("klmnopq"))
	assert.False(t, s.IsInline())
	assert.Equal(t, "abcdefghijklmnopq", s.String())
	assert.Equal(t, 2*InlineCapacity, s.Capacity())
	assert.Equal(t, 32, ext.Control().Len())

	// Fits the spilled block: no new allocation.
	require.NoError(t, s.AppendString("rst"))
	assert.Equal(t, 32, ext.Control().Len())

	// Outgrows it: slab grow allocates a doubled block and copies.
	require.NoError(t, s.AppendString(strings.Repeat("z", 20)))
	assert.Equal(t, "abcdefghijklmnopqrst"+strings.Repeat("z", 20), s.String())
	assert.Equal(t, 64, s.Capacity())
	assert.Equal(t, 96, ext.Control().Len())
}

func TestString_ShrinkToFitReturnsInline(t *testing.T) {
	mem, p := prefixFreeList(t, 4096)
	s := emplaceAt(t, p, mem, 0, Clone[testRegion](p, strings.Repeat("q", 40)))
	require.Equal(t, 48, p.Control().Len())

	s.Clear()
	require.NoError(t, s.AppendString("tiny"))
	require.NoError(t, s.ShrinkToFit())
	assert.True(t, s.IsInline())
	assert.Equal(t, "tiny", s.String())
	assert.Equal(t, 0, p.Control().Len(), "block released")
}

func TestString_ShrinkToFitSpilled(t *testing.T) {
	mem, p := prefixFreeList(t, 4096)
	s := emplaceAt(t, p, mem, 0, Clone[testRegion](p, strings.Repeat("q", 20)))
	require.NoError(t, s.AppendString(strings.Repeat("r", 20)))
	require.Equal(t, 40, s.Capacity())

	require.NoError(t, s.AppendString("s"))
	require.Equal(t, 80, s.Capacity())
	require.NoError(t, s.ShrinkToFit())
	assert.Equal(t, 41, s.Capacity())
	assert.Equal(t, strings.Repeat("q", 20)+strings.Repeat("r", 20)+"s", s.String())
}

func TestString_DropReleasesSpilledBlock(t *testing.T) {
	mem, p := prefixFreeList(t, 4096)
	inline := emplaceAt(t, p, mem, 0, Clone[testRegion](p, "inline"))
	spilled := emplaceAt(t, p, mem, 32, Clone[testRegion](p, strings.Repeat("s", 100)))
	require.Equal(t, 112, p.Control().Len())

	require.NoError(t, inline.Drop())
	assert.Equal(t, 112, p.Control().Len())
	require.NoError(t, spilled.Drop())
	assert.Equal(t, 0, p.Control().Len())
	assert.True(t, spilled.IsEmpty())
}

func TestString_MoveToRepoints(t *testing.T) {
	mem, p := prefixFreeList(t, 4096)
	str := strings.Repeat("m", 50)
	src := emplaceAt(t, p, mem, 0, Clone[testRegion](p, str))
	layout := RecordLayout(p.Loader())

	dst, err := src.MoveTo(mem.MustSlot(512, layout.Size()))
	require.NoError(t, err)
	assert.Equal(t, str, dst.String())
	assert.True(t, src.IsEmpty())

	a, err := dst.Allocator()
	require.NoError(t, err)
	assert.Equal(t, p.Capacity(), a.(*relalloc.Prefix[testRegion, *alloc.FreeList]).Capacity())

	// A raw byte copy of the record would dangle.
	raw := mem.MustSlot(768, layout.Size())
	copy(raw.Bytes(), dst.Slot().Bytes())
	copied, err := At(raw, p.Loader())
	require.NoError(t, err)
	assert.NotEqual(t, str, copied.String())
}

func TestString_MoveInline(t *testing.T) {
	mem, _, a := staticSlab(t)
	src := emplaceAt(t, a, mem, 0, Clone[testRegion](a, "inline!"))
	dst, err := src.MoveTo(mem.MustSlot(64, RecordLayout(a.Loader()).Size()))
	require.NoError(t, err)
	assert.Equal(t, "inline!", dst.String())
	assert.Equal(t, "", src.String())
}

func TestFromBytes_RejectsInvalidUTF8(t *testing.T) {
	mem, _, a := staticSlab(t)
	e := FromBytes[testRegion](a, []byte{'o', 'k', 0xff})
	slot := mem.MustSlot(0, e.Layout().Size())
	copy(slot.Bytes(), "leftover bytes")

	err := rel.Emplace(e, slot)
	require.ErrorIs(t, err, ErrInvalidUTF8)
	assert.True(t, slot.IsZero())

	s := emplaceAt(t, a, mem, 64, FromBytes[testRegion](a, []byte("ünïcode")))
	assert.Equal(t, "ünïcode", s.String())
}

func TestDecode_LegacyCharset(t *testing.T) {
	mem, _, a := staticSlab(t)
	s := emplaceAt(t, a, mem, 0, Decode[testRegion](a, []byte("caf\xe9 cr\xe8me br\xfbl\xe9e"), charmap.Windows1252))
	assert.Equal(t, "café crème brûlée", s.String())
	assert.False(t, s.IsInline())
}

func TestNew_AllocatesRecord(t *testing.T) {
	_, p := prefixFreeList(t, 4096)
	s, err := New[testRegion](p, "allocated record")
	require.NoError(t, err)
	assert.Equal(t, "allocated record", s.String())
	assert.Equal(t, 32, p.Control().Len())

	_, err = New[testRegion](p, strings.Repeat("x", 4096))
	require.ErrorIs(t, err, alloc.ErrNoSpace)
	assert.Equal(t, 32, p.Control().Len(), "record released after failure")
}

func TestString_SpillOutOfSpaceZeroesSlot(t *testing.T) {
	mem, p := prefixFreeList(t, 256)
	e := Clone[testRegion](p, strings.Repeat("y", 500))
	slot := mem.MustSlot(0, e.Layout().Size())
	require.ErrorIs(t, rel.Emplace(e, slot), alloc.ErrNoSpace)
	assert.True(t, slot.IsZero())
}

// TestString_SurvivesRelocation copies the region to a new buffer and
// reopens the string and its allocator there.
func TestString_SurvivesRelocation(t *testing.T) {
	mem, p := prefixFreeList(t, 2048)
	str := strings.Repeat("relocate me ", 5)
	emplaceAt(t, p, mem, 0, Clone[testRegion](p, str))

	moved := alloc.NewAlignedBuffer(2048, 16)
	copy(moved, mem.Bytes())
	clear(mem.Bytes())
	mem2 := region.NewUnchecked[testRegion](moved)

	loader := relalloc.PrefixLoader[testRegion](alloc.FreeListKind)
	s, err := At(mem2.MustSlot(0, RecordLayout(loader).Size()), loader)
	require.NoError(t, err)
	assert.Equal(t, str, s.String())

	require.NoError(t, s.AppendString("!"))
	assert.Equal(t, str+"!", s.String())
}

func TestAt_ChecksLayout(t *testing.T) {
	mem, p := prefixFreeList(t, 1024)
	_, err := At(mem.MustSlot(0, 24), p.Loader())
	require.ErrorIs(t, err, rel.ErrSlotLayout)
}
