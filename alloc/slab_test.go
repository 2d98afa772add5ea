package alloc

import (
	"testing"

	"github.com/joshuapare/relkit/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSlab_SequentialAllocs checks that a sequence of requests succeeds
// exactly while the aligned running offset fits the segment.
func TestSlab_SequentialAllocs(t *testing.T) {
	reqs := []Layout{
		MustLayout(3, 1),
		MustLayout(8, 8),
		MustLayout(1, 1),
		MustLayout(16, 16),
		MustLayout(5, 4),
		MustLayout(64, 8),
	}
	e := newSlab(256)
	seg := e.Segment()

	expect := 0
	for i, l := range reqs {
		start := format.AlignUp(expect, l.Align())
		b, err := e.Allocate(l)
		require.NoError(t, err, "request %d", i)
		assert.Len(t, b, l.Size())
		assert.Equal(t, start, offsetIn(seg, b), "request %d", i)
		assert.True(t, addrAligned(b, l.Align()))
		expect = start + l.Size()
		assert.Equal(t, expect, e.Control().Len())
	}
}

func TestSlab_OutOfSpace(t *testing.T) {
	e := newSlab(64)

	_, err := e.Allocate(MustLayout(60, 1))
	require.NoError(t, err)

	_, err = e.Allocate(MustLayout(8, 8))
	require.ErrorIs(t, err, ErrNoSpace)
	assert.Equal(t, 60, e.Control().Len(), "failed request must not advance")

	b, err := e.Allocate(MustLayout(4, 1))
	require.NoError(t, err)
	assert.Len(t, b, 4)

	_, err = e.Allocate(MustLayout(1, 1))
	require.ErrorIs(t, err, ErrNoSpace)
}

func TestSlab_DeallocateIsNoop(t *testing.T) {
	a, b := newSlab(128), newSlab(128)
	l := MustLayout(24, 8)

	x, err := a.Allocate(l)
	require.NoError(t, err)
	_, err = b.Allocate(l)
	require.NoError(t, err)

	a.Deallocate(x, l)
	a.Deallocate(x, l)

	for range 3 {
		p, err := a.Allocate(l)
		require.NoError(t, err)
		q, err := b.Allocate(l)
		require.NoError(t, err)
		assert.Equal(t, offsetIn(b.Segment(), q), offsetIn(a.Segment(), p))
	}
	assert.Equal(t, b.Control().Len(), a.Control().Len())
}

func TestSlab_MisalignedSegment(t *testing.T) {
	seg := NewAlignedBuffer(64, 16)[1:]
	s := SlabKind.Init(make([]byte, 8), seg)

	_, err := s.Allocate(seg, MustLayout(8, 8))
	require.ErrorIs(t, err, ErrNoSpace)

	b, err := s.Allocate(seg, MustLayout(8, 1))
	require.NoError(t, err)
	assert.Len(t, b, 8)
}

func TestSlab_AttachValidatesLength(t *testing.T) {
	seg := NewAlignedBuffer(32, 16)
	state := make([]byte, 8)
	format.PutU64(state, 0, 33)
	_, err := SlabKind.Attach(state, seg)
	require.ErrorIs(t, err, ErrMalformedSegment)

	format.PutU64(state, 0, 16)
	s, err := SlabKind.Attach(state, seg)
	require.NoError(t, err)
	assert.Equal(t, 16, s.Len())
	assert.False(t, s.IsEmpty())
}

func TestSlab_ZeroSizeAllocation(t *testing.T) {
	e := newSlab(32)
	b, err := e.Allocate(MustLayout(0, 8))
	require.NoError(t, err)
	assert.Empty(t, b)
	assert.True(t, e.Control().IsEmpty())
}
