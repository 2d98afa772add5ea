package rel

import (
	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/internal/format"
	"github.com/joshuapare/relkit/region"
)

var (
	u8Layout  = alloc.MustLayout(1, 1)
	u32Layout = alloc.MustLayout(4, 4)
	u64Layout = alloc.MustLayout(format.WordSize, format.WordAlign)
)

type u8Value uint8

func (u8Value) Layout() alloc.Layout { return u8Layout }
func (v u8Value) EmplaceBytes(out []byte) error {
	out[0] = byte(v)
	return nil
}

type u32Value uint32

func (u32Value) Layout() alloc.Layout { return u32Layout }
func (v u32Value) EmplaceBytes(out []byte) error {
	format.PutU32(out, 0, uint32(v))
	return nil
}

type u64Value uint64

func (u64Value) Layout() alloc.Layout { return u64Layout }
func (v u64Value) EmplaceBytes(out []byte) error {
	format.PutU64(out, 0, uint64(v))
	return nil
}

type bytesValue []byte

func (b bytesValue) Layout() alloc.Layout { return alloc.BytesLayout(len(b)) }
func (b bytesValue) EmplaceBytes(out []byte) error {
	copy(out, b)
	return nil
}

type zeroValue alloc.Layout

func (z zeroValue) Layout() alloc.Layout { return alloc.Layout(z) }
func (zeroValue) EmplaceBytes(out []byte) error {
	clear(out)
	return nil
}

// U8 emplaces one byte.
func U8[R region.Tag](v uint8) Emplacer[R] { return Lift[R](u8Value(v)) }

// Bool emplaces a byte holding 0 or 1.
func Bool[R region.Tag](v bool) Emplacer[R] {
	if v {
		return U8[R](1)
	}
	return U8[R](0)
}

// U32 emplaces a little-endian uint32.
func U32[R region.Tag](v uint32) Emplacer[R] { return Lift[R](u32Value(v)) }

// U64 emplaces a little-endian uint64.
func U64[R region.Tag](v uint64) Emplacer[R] { return Lift[R](u64Value(v)) }

// I64 emplaces a little-endian int64.
func I64[R region.Tag](v int64) Emplacer[R] { return Lift[R](u64Value(uint64(v))) }

// Bytes emplaces a copy of b with alignment 1.
func Bytes[R region.Tag](b []byte) Emplacer[R] { return Lift[R](bytesValue(b)) }

// Zero emplaces l.Size() zero bytes.
func Zero[R region.Tag](l alloc.Layout) Emplacer[R] { return Lift[R](zeroValue(l)) }

// ReadU64 reads a uint64 field emplaced by U64.
func ReadU64[R region.Tag](s region.Slot[R]) uint64 { return format.ReadU64(s.Bytes(), 0) }

// ReadU32 reads a uint32 field emplaced by U32.
func ReadU32[R region.Tag](s region.Slot[R]) uint32 { return format.ReadU32(s.Bytes(), 0) }
