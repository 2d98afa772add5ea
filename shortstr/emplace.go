package shortstr

import (
	"fmt"
	"unicode/utf8"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/internal/format"
	"github.com/joshuapare/relkit/region"
	"github.com/joshuapare/relkit/rel"
	"github.com/joshuapare/relkit/relalloc"
	"golang.org/x/text/encoding"
)

type emplacer[R region.Tag] struct {
	a   relalloc.Allocator[R]
	src func() ([]byte, error)
}

// Clone emplaces a copy of str whose out-of-line block, if any, comes from
// a. Strings of at most InlineCapacity bytes allocate nothing; longer ones
// allocate exactly len(str) bytes.
func Clone[R region.Tag](a relalloc.Allocator[R], str string) rel.Unwinder[R] {
	return emplacer[R]{a: a, src: func() ([]byte, error) { return []byte(str), nil }}
}

// FromBytes is like Clone but takes bytes, which must be valid UTF-8.
func FromBytes[R region.Tag](a relalloc.Allocator[R], b []byte) rel.Unwinder[R] {
	return emplacer[R]{a: a, src: func() ([]byte, error) {
		if !utf8.Valid(b) {
			return nil, ErrInvalidUTF8
		}
		return b, nil
	}}
}

// Decode emplaces raw converted to UTF-8 from a legacy encoding such as a
// charmap code page.
func Decode[R region.Tag](a relalloc.Allocator[R], raw []byte, enc encoding.Encoding) rel.Unwinder[R] {
	return emplacer[R]{a: a, src: func() ([]byte, error) {
		out, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("shortstr: decode: %w", err)
		}
		if !utf8.Valid(out) {
			return nil, ErrInvalidUTF8
		}
		return out, nil
	}}
}

func (e emplacer[R]) Layout() alloc.Layout { return RecordLayout(e.a.Loader()) }

func (e emplacer[R]) EmplaceUnchecked(out region.Slot[R]) error {
	b, err := e.src()
	if err != nil {
		return err
	}
	_, handleOff := recordLayout(e.a.Loader())
	out.Zero()

	h := e.a.Handle()
	if err := rel.Emplace(h, out.Field(handleOff, h.Layout().Size())); err != nil {
		return fmt.Errorf("shortstr: allocator handle: %w", err)
	}

	raw := out.Bytes()
	if len(b) <= InlineCapacity {
		copy(raw[reprOff:], b)
		format.PutU64(raw, capOff, uint64(len(b)))
		return nil
	}

	blk, err := rel.AllocateSlot[R](e.a, alloc.BytesLayout(len(b)))
	if err != nil {
		return err
	}
	copy(blk.Bytes(), b)
	if err := rel.PtrAt(out.Field(reprOff, rel.PtrLayout.Size())).Set(blk); err != nil {
		e.a.Deallocate(blk.Bytes(), alloc.BytesLayout(len(b)))
		return err
	}
	format.PutU64(raw, lenOff, uint64(len(b)))
	format.PutU64(raw, capOff, uint64(len(b)))
	return nil
}

// Unwind releases the out-of-line block written by a successful emplace.
func (e emplacer[R]) Unwind(out region.Slot[R]) {
	s, err := At(out, e.a.Loader())
	if err != nil || s.isInline() {
		return
	}
	if blk, err := s.block(); err == nil {
		e.a.Deallocate(blk.Bytes(), alloc.BytesLayout(s.storedCap()))
	}
}

// New allocates a record from a and emplaces str into it.
func New[R region.Tag](a relalloc.Allocator[R], str string) (*String[R], error) {
	l := RecordLayout(a.Loader())
	slot, err := rel.AllocateSlot[R](a, l)
	if err != nil {
		return nil, err
	}
	if err := rel.Emplace[R](Clone(a, str), slot); err != nil {
		a.Deallocate(slot.Bytes(), l)
		return nil, err
	}
	return At(slot, a.Loader())
}
