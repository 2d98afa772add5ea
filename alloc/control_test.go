package alloc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(b []byte, seed byte) {
	for i := range b {
		b[i] = seed + byte(i)
	}
}

// TestGrow_FallbackCopiesOldBytes checks that without an in-place path Grow is
// allocate, copy old bytes, deallocate.
func TestGrow_FallbackCopiesOldBytes(t *testing.T) {
	e := newSlab(512)
	old, grown := MustLayout(40, 8), MustLayout(100, 8)

	b, err := e.Allocate(old)
	require.NoError(t, err)
	fill(b, 7)
	want := bytes.Clone(b)

	before := e.Control().Len()
	g, err := e.Grow(b, old, grown)
	require.NoError(t, err)
	require.Len(t, g, 100)
	assert.Equal(t, want, g[:40])
	assert.NotEqual(t, offsetIn(e.Segment(), b), offsetIn(e.Segment(), g))
	assert.Equal(t, before+100, e.Control().Len())
}

func TestGrowZeroed_ClearsTail(t *testing.T) {
	e := newSlab(512)
	// Dirty the segment first so a missing clear would show.
	fill(e.Segment(), 1)

	old, grown := MustLayout(16, 8), MustLayout(48, 8)
	b, err := e.Allocate(old)
	require.NoError(t, err)
	fill(b, 0x40)

	g, err := e.GrowZeroed(b, old, grown)
	require.NoError(t, err)
	assert.Equal(t, b[:16], g[:16])
	assert.Equal(t, make([]byte, 32), g[16:])
}

func TestAllocateZeroed_ClearsReusedBytes(t *testing.T) {
	e := newSlab(64)
	fill(e.Segment(), 9)
	b, err := e.AllocateZeroed(MustLayout(32, 8))
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 32), b)
}

func TestGrow_FailureLeavesBlock(t *testing.T) {
	e := newSlab(64)
	old := MustLayout(40, 8)
	b, err := e.Allocate(old)
	require.NoError(t, err)
	fill(b, 3)
	want := bytes.Clone(b)

	_, err = e.Grow(b, old, MustLayout(80, 8))
	require.ErrorIs(t, err, ErrNoSpace)
	assert.Equal(t, want, b)
	assert.Equal(t, 40, e.Control().Len())
}

func TestInPlace_UnsupportedFails(t *testing.T) {
	e := newSlab(128)
	old := MustLayout(16, 8)
	b, err := e.Allocate(old)
	require.NoError(t, err)

	_, err = e.GrowInPlace(b, old, MustLayout(32, 8))
	require.ErrorIs(t, err, ErrNoSpace)
	_, err = e.GrowZeroedInPlace(b, old, MustLayout(32, 8))
	require.ErrorIs(t, err, ErrNoSpace)
	_, err = e.ShrinkInPlace(b, old, MustLayout(8, 8))
	require.ErrorIs(t, err, ErrNoSpace)
}

func TestShrink_FallbackCopiesPrefix(t *testing.T) {
	e := newSlab(128)
	old, small := MustLayout(32, 8), MustLayout(8, 8)
	b, err := e.Allocate(old)
	require.NoError(t, err)
	fill(b, 11)

	s, err := e.Shrink(b, old, small)
	require.NoError(t, err)
	require.Len(t, s, 8)
	assert.Equal(t, b[:8], s)
}

func TestGrowShrink_SizeOrderingPanics(t *testing.T) {
	e := newSlab(128)
	l := MustLayout(16, 8)
	b, err := e.Allocate(l)
	require.NoError(t, err)

	assert.Panics(t, func() { _, _ = e.Grow(b, l, MustLayout(8, 8)) })
	assert.Panics(t, func() { _, _ = e.Shrink(b, l, MustLayout(32, 8)) })
}
