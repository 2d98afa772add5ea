package alloc

import "sync"

// Locked serializes every call to an inner allocator with a mutex, for
// segments shared between goroutines.
type Locked struct {
	mu    sync.Mutex
	inner Allocator
}

// NewLocked wraps a.
func NewLocked(a Allocator) *Locked {
	return &Locked{inner: a}
}

func (l *Locked) Allocate(lay Layout) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.Allocate(lay)
}

func (l *Locked) AllocateZeroed(lay Layout) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.AllocateZeroed(lay)
}

func (l *Locked) Deallocate(block []byte, lay Layout) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.Deallocate(block, lay)
}

func (l *Locked) Grow(block []byte, old, new Layout) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.Grow(block, old, new)
}

func (l *Locked) GrowZeroed(block []byte, old, new Layout) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.GrowZeroed(block, old, new)
}

func (l *Locked) GrowInPlace(block []byte, old, new Layout) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.GrowInPlace(block, old, new)
}

func (l *Locked) GrowZeroedInPlace(block []byte, old, new Layout) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.GrowZeroedInPlace(block, old, new)
}

func (l *Locked) Shrink(block []byte, old, new Layout) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.Shrink(block, old, new)
}

func (l *Locked) ShrinkInPlace(block []byte, old, new Layout) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.ShrinkInPlace(block, old, new)
}
