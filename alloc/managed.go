package alloc

// Managed pairs a control with the segment it manages and exposes the pair
// as a Contiguous allocator. External and relalloc.Prefix embed it.
type Managed[C Control] struct {
	seg []byte
	ctl C
}

// Manage returns the allocator formed by ctl over seg.
func Manage[C Control](seg []byte, ctl C) Managed[C] {
	return Managed[C]{seg: seg, ctl: ctl}
}

// Segment returns the managed bytes.
func (m *Managed[C]) Segment() []byte { return m.seg }

// Control returns the control instance.
func (m *Managed[C]) Control() C { return m.ctl }

func (m *Managed[C]) Allocate(l Layout) ([]byte, error) {
	return m.ctl.Allocate(m.seg, l)
}

func (m *Managed[C]) AllocateZeroed(l Layout) ([]byte, error) {
	return AllocateZeroed(m.ctl, m.seg, l)
}

func (m *Managed[C]) Deallocate(block []byte, l Layout) {
	m.ctl.Deallocate(m.seg, block, l)
}

func (m *Managed[C]) Grow(block []byte, old, new Layout) ([]byte, error) {
	return Grow(m.ctl, m.seg, block, old, new)
}

func (m *Managed[C]) GrowZeroed(block []byte, old, new Layout) ([]byte, error) {
	return GrowZeroed(m.ctl, m.seg, block, old, new)
}

func (m *Managed[C]) GrowInPlace(block []byte, old, new Layout) ([]byte, error) {
	return GrowInPlace(m.ctl, m.seg, block, old, new)
}

func (m *Managed[C]) GrowZeroedInPlace(block []byte, old, new Layout) ([]byte, error) {
	return GrowZeroedInPlace(m.ctl, m.seg, block, old, new)
}

func (m *Managed[C]) Shrink(block []byte, old, new Layout) ([]byte, error) {
	return Shrink(m.ctl, m.seg, block, old, new)
}

func (m *Managed[C]) ShrinkInPlace(block []byte, old, new Layout) ([]byte, error) {
	return ShrinkInPlace(m.ctl, m.seg, block, old, new)
}
