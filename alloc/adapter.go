package alloc

// Deref is a handle that yields an allocator on demand, such as a shared
// static reference.
type Deref[A Allocator] interface {
	Deref() A
}

// DerefAdapter forwards every allocator call through one level of
// indirection, so a shared handle can be used like an owned allocator.
type DerefAdapter[A Allocator] struct {
	p Deref[A]
}

// NewDerefAdapter wraps p.
func NewDerefAdapter[A Allocator](p Deref[A]) DerefAdapter[A] {
	return DerefAdapter[A]{p: p}
}

// Source returns the wrapped handle.
func (d DerefAdapter[A]) Source() Deref[A] { return d.p }

func (d DerefAdapter[A]) Allocate(l Layout) ([]byte, error) {
	return d.p.Deref().Allocate(l)
}

func (d DerefAdapter[A]) AllocateZeroed(l Layout) ([]byte, error) {
	return d.p.Deref().AllocateZeroed(l)
}

func (d DerefAdapter[A]) Deallocate(block []byte, l Layout) {
	d.p.Deref().Deallocate(block, l)
}

func (d DerefAdapter[A]) Grow(block []byte, old, new Layout) ([]byte, error) {
	return d.p.Deref().Grow(block, old, new)
}

func (d DerefAdapter[A]) GrowZeroed(block []byte, old, new Layout) ([]byte, error) {
	return d.p.Deref().GrowZeroed(block, old, new)
}

func (d DerefAdapter[A]) GrowInPlace(block []byte, old, new Layout) ([]byte, error) {
	return d.p.Deref().GrowInPlace(block, old, new)
}

func (d DerefAdapter[A]) GrowZeroedInPlace(block []byte, old, new Layout) ([]byte, error) {
	return d.p.Deref().GrowZeroedInPlace(block, old, new)
}

func (d DerefAdapter[A]) Shrink(block []byte, old, new Layout) ([]byte, error) {
	return d.p.Deref().Shrink(block, old, new)
}

func (d DerefAdapter[A]) ShrinkInPlace(block []byte, old, new Layout) ([]byte, error) {
	return d.p.Deref().ShrinkInPlace(block, old, new)
}
