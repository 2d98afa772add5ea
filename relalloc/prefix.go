package relalloc

import (
	"fmt"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/internal/format"
	"github.com/joshuapare/relkit/region"
	"github.com/joshuapare/relkit/rel"
)

const prefixCapOff = 0

// prefixLayout returns the offset of the control state inside a Prefix
// header for kind k and the header size, rounded up to 16 bytes.
func prefixLayout[C alloc.Control](k alloc.Kind[C]) (stateOff, size int) {
	l, off, err := alloc.MustLayout(format.WordSize, format.WordAlign).Extend(k.State)
	if err != nil {
		panic(err)
	}
	return off, format.Align16(l.Size())
}

// PrefixHeaderSize returns the size of a Prefix header for controls of kind
// k: {capacity u64, state} rounded up to 16 bytes.
func PrefixHeaderSize[C alloc.Control](k alloc.Kind[C]) int {
	_, size := prefixLayout(k)
	return size
}

// Prefix is an allocator whose header lives at the start of the slot it
// manages. The usable segment is everything after the header.
type Prefix[R region.Tag, C alloc.Control] struct {
	alloc.Managed[C]
	header region.Slot[R]
	kind   alloc.Kind[C]
}

// TryNewIn writes a fresh header into s and initializes a control of kind k
// over the rest. s must be 16-byte aligned and hold at least the header;
// otherwise it fails with alloc.ErrMalformedSegment without writing.
func TryNewIn[R region.Tag, C alloc.Control](s region.Slot[R], k alloc.Kind[C]) (*Prefix[R, C], error) {
	stateOff, hdr := prefixLayout(k)
	if err := checkPrefixSlot(s, hdr); err != nil {
		return nil, err
	}
	b := s.Bytes()
	capacity := len(b) - hdr
	format.PutU64(b, prefixCapOff, uint64(capacity))
	state := b[stateOff : stateOff+k.State.Size()]
	seg := b[hdr:]
	return &Prefix[R, C]{
		Managed: alloc.Manage(seg, k.Init(state, seg)),
		header:  s.Field(0, hdr),
		kind:    k,
	}, nil
}

// TryFromBytes reattaches to a header written earlier by TryNewIn without
// re-initializing it. The stored capacity must fit s.
func TryFromBytes[R region.Tag, C alloc.Control](s region.Slot[R], k alloc.Kind[C]) (*Prefix[R, C], error) {
	stateOff, hdr := prefixLayout(k)
	if err := checkPrefixSlot(s, hdr); err != nil {
		return nil, err
	}
	b := s.Bytes()
	capacity := format.ReadU64(b, prefixCapOff)
	if capacity > uint64(len(b)-hdr) {
		return nil, fmt.Errorf("%w: stored capacity %d exceeds slot of %d", alloc.ErrMalformedSegment, capacity, len(b)-hdr)
	}
	state := b[stateOff : stateOff+k.State.Size()]
	seg := b[hdr : hdr+int(capacity)]
	ctl, err := k.Attach(state, seg)
	if err != nil {
		return nil, err
	}
	return &Prefix[R, C]{
		Managed: alloc.Manage(seg, ctl),
		header:  s.Field(0, hdr),
		kind:    k,
	}, nil
}

func checkPrefixSlot[R region.Tag](s region.Slot[R], hdr int) error {
	if s.Len() < hdr {
		return fmt.Errorf("%w: %d bytes, header needs %d", alloc.ErrMalformedSegment, s.Len(), hdr)
	}
	if !s.Aligned(format.SegmentAlign) {
		return fmt.Errorf("%w: slot %s not %d-aligned", alloc.ErrMalformedSegment, s, format.SegmentAlign)
	}
	return nil
}

// Capacity returns the number of usable bytes after the header.
func (p *Prefix[R, C]) Capacity() int { return len(p.Segment()) }

// Header returns the header slot.
func (p *Prefix[R, C]) Header() region.Slot[R] { return p.header }

// ObserveWrites registers fn for the writes the control makes to its own
// bookkeeping inside the segment (see alloc.WriteObserver), translated to
// region offsets. It reports false when the control has no such writes.
func (p *Prefix[R, C]) ObserveWrites(fn func(off, n int)) bool {
	o, ok := any(p.Control()).(alloc.WriteObserver)
	if !ok {
		return false
	}
	base := p.header.Offset() + p.header.Len()
	o.ObserveWrites(func(off, n int) { fn(base+off, n) })
	return true
}

// Kind returns the control kind.
func (p *Prefix[R, C]) Kind() alloc.Kind[C] { return p.kind }

// Memory implements rel.Regional.
func (p *Prefix[R, C]) Memory() *region.Memory[R] { return p.header.Memory() }

// Handle emplaces a relative pointer to the header.
func (p *Prefix[R, C]) Handle() rel.Emplacer[R] { return rel.PtrTo(p.header) }

// Loader implements Allocator.
func (p *Prefix[R, C]) Loader() Loader[R] { return PrefixLoader[R](p.kind) }

type prefixLoader[R region.Tag, C alloc.Control] struct {
	kind alloc.Kind[C]
}

// PrefixLoader reopens Prefix allocators of kind k from their handles.
func PrefixLoader[R region.Tag, C alloc.Control](k alloc.Kind[C]) Loader[R] {
	return prefixLoader[R, C]{kind: k}
}

func (prefixLoader[R, C]) Layout() alloc.Layout { return rel.PtrLayout }

func (l prefixLoader[R, C]) Load(handle region.Slot[R]) (Allocator[R], error) {
	p, err := l.open(handle)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (l prefixLoader[R, C]) open(handle region.Slot[R]) (*Prefix[R, C], error) {
	hdr := PrefixHeaderSize(l.kind)
	head, err := rel.PtrAt(handle).Deref(alloc.MustLayout(hdr, format.SegmentAlign))
	if err != nil {
		return nil, fmt.Errorf("prefix handle: %w", err)
	}
	capacity := format.ReadU64(head.Bytes(), prefixCapOff)
	if capacity > uint64(head.Memory().Len()) {
		return nil, fmt.Errorf("%w: stored capacity %d", alloc.ErrMalformedSegment, capacity)
	}
	s, err := head.Memory().Slot(head.Offset(), hdr+int(capacity))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", alloc.ErrMalformedSegment, err)
	}
	return TryFromBytes(s, l.kind)
}

func (prefixLoader[R, C]) Move(src, dst region.Slot[R]) error {
	_, err := rel.PtrAt(src).MoveTo(dst)
	return err
}
