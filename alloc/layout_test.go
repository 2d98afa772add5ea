package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_Validation(t *testing.T) {
	_, err := NewLayout(8, 3)
	require.ErrorIs(t, err, ErrLayout)
	_, err = NewLayout(-1, 8)
	require.ErrorIs(t, err, ErrLayout)

	l, err := NewLayout(24, 8)
	require.NoError(t, err)
	assert.Equal(t, 24, l.Size())
	assert.Equal(t, 8, l.Align())

	var zero Layout
	assert.Equal(t, 1, zero.Align())
	assert.Panics(t, func() { MustLayout(1, 0) })
}

func TestLayout_ExtendFollowsCLayout(t *testing.T) {
	l := BytesLayout(1)
	l, off, err := l.Extend(MustLayout(8, 8))
	require.NoError(t, err)
	assert.Equal(t, 8, off)
	l, off, err = l.Extend(MustLayout(2, 2))
	require.NoError(t, err)
	assert.Equal(t, 16, off)
	assert.Equal(t, 18, l.Size())
	assert.Equal(t, 8, l.Align())
	assert.Equal(t, 24, l.PadToAlign().Size())
}

func TestLayout_Array(t *testing.T) {
	a, err := MustLayout(12, 8).Array(3)
	require.NoError(t, err)
	assert.Equal(t, 48, a.Size())
	assert.Equal(t, 8, a.Align())

	_, err = MustLayout(1<<40, 8).Array(1 << 40)
	require.ErrorIs(t, err, ErrLayout)
}

func TestNewAlignedBuffer(t *testing.T) {
	for _, align := range []int{1, 8, 16, 64, 4096} {
		b := NewAlignedBuffer(100, align)
		require.Len(t, b, 100)
		assert.Equal(t, 100, cap(b))
		assert.True(t, addrAligned(b, align), "align %d", align)
	}
	assert.Panics(t, func() { NewAlignedBuffer(8, 3) })
}
