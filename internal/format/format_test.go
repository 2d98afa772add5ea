package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	cases := []struct {
		n, align, want int
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{17, 16, 32},
		{5, 1, 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AlignUp(c.n, c.align), "AlignUp(%d, %d)", c.n, c.align)
	}
	assert.Equal(t, 32, Align16(17))
	assert.Equal(t, uint64(24), AlignUpU64(17, 8))
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 16, 4096} {
		assert.True(t, IsPowerOfTwo(n), "%d", n)
	}
	for _, n := range []int{0, -4, 3, 12, 4095} {
		assert.False(t, IsPowerOfTwo(n), "%d", n)
	}
}

func TestEncodingRoundTrip(t *testing.T) {
	b := make([]byte, 16)
	PutI64(b, 0, -40)
	PutU64(b, 8, 0xdeadbeefcafef00d)
	require.Equal(t, int64(-40), ReadI64(b, 0))
	require.Equal(t, uint64(0xdeadbeefcafef00d), ReadU64(b, 8))
	// little-endian on the wire
	require.Equal(t, byte(0x0d), b[8])

	PutU32(b, 4, 7)
	require.Equal(t, uint32(7), ReadU32(b, 4))
}

func TestOffsetOf(t *testing.T) {
	seg := make([]byte, 64)

	off, ok := OffsetOf(seg, seg[10:20])
	require.True(t, ok)
	require.Equal(t, 10, off)

	off, ok = OffsetOf(seg, seg[:64])
	require.True(t, ok)
	require.Equal(t, 0, off)

	_, ok = OffsetOf(seg[:32], seg[30:40])
	require.False(t, ok, "block overhanging the segment end")

	_, ok = OffsetOf(seg[16:], seg[8:12])
	require.False(t, ok, "block before the segment start")

	_, ok = OffsetOf(seg, make([]byte, 4))
	require.False(t, ok, "unrelated array")

	_, ok = OffsetOf(seg, nil)
	require.True(t, ok, "empty block carries no address")
}

func TestAddrAligned(t *testing.T) {
	b := make([]byte, 64)
	shift := int(Addr(b) & 15)
	start := (16 - shift) & 15
	require.True(t, AddrAligned(b[start:], 16))
	require.False(t, AddrAligned(b[start+1:], 16))
	require.True(t, AddrAligned(b[start+1:], 1))
}
