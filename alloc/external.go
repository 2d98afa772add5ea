package alloc

import (
	"fmt"

	"github.com/joshuapare/relkit/internal/format"
)

// External manages a caller-supplied segment with a control whose state is
// kept out of band, so the whole segment is usable.
type External[C Control] struct {
	Managed[C]
	state []byte
}

// NewExternal initializes a fresh control of kind k over seg. seg must be
// 16-byte aligned.
func NewExternal[C Control](seg []byte, k Kind[C]) (*External[C], error) {
	if !format.AddrAligned(seg, format.SegmentAlign) {
		return nil, fmt.Errorf("%w: external segment not %d-aligned", ErrMalformedSegment, format.SegmentAlign)
	}
	state := NewAlignedBuffer(k.State.Size(), k.State.Align())
	return &External[C]{Managed: Manage(seg, k.Init(state, seg)), state: state}, nil
}

// State returns the out-of-band control state record.
func (e *External[C]) State() []byte { return e.state }
