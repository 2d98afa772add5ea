package region

import (
	"fmt"
	"sync"

	"github.com/joshuapare/relkit/alloc"
)

// Static is single-instance storage for a value shared by handles that must
// not themselves hold it, typically an allocator referenced from inside the
// structures it builds. At most one lease is live at a time.
//
// Declare Statics as package-level variables; the zero value is ready to use.
type Static[T any] struct {
	mu     sync.RWMutex
	val    T
	leased bool
	permit *Permit
}

// Lease stores v and returns the owning handle. It fails with ErrHeld while
// an earlier lease is live.
func (s *Static[T]) Lease(v T) (*StaticVal[T], error) {
	p, err := defaultRegistry.TryAcquire(s)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.val = v
	s.leased = true
	s.permit = p
	s.mu.Unlock()
	return &StaticVal[T]{s: s}, nil
}

// Get returns the leased value and whether a lease is live.
func (s *Static[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.val, s.leased
}

// Ref returns a shared handle to s. It may be taken before a lease exists.
func (s *Static[T]) Ref() StaticRef[T] { return StaticRef[T]{s: s} }

// StaticVal owns the lease of a Static.
type StaticVal[T any] struct {
	s *Static[T]
}

// Ref returns a shared handle to the leased value.
func (v *StaticVal[T]) Ref() StaticRef[T] { return StaticRef[T]{s: v.s} }

// Set replaces the leased value.
func (v *StaticVal[T]) Set(x T) {
	v.s.mu.Lock()
	v.s.val = x
	v.s.mu.Unlock()
}

// Release clears the value and ends the lease. Safe to call more than once.
func (v *StaticVal[T]) Release() {
	s := v.s
	s.mu.Lock()
	var zero T
	s.val = zero
	s.leased = false
	p := s.permit
	s.permit = nil
	s.mu.Unlock()
	if p != nil {
		p.Release()
	}
}

// StaticRef is a copyable handle to a Static. It carries no bytes of its
// own, so it emplaces into any region as a zero-size record.
type StaticRef[T any] struct {
	s *Static[T]
}

// Static returns the storage the handle refers to.
func (r StaticRef[T]) Static() *Static[T] { return r.s }

// Deref returns the leased value. It panics when no lease is live.
func (r StaticRef[T]) Deref() T {
	v, ok := r.s.Get()
	if !ok {
		panic(fmt.Sprintf("region: deref of unleased static %T", r.s))
	}
	return v
}

// Layout is the zero-size layout of the handle's emplaced form.
func (StaticRef[T]) Layout() alloc.Layout { return alloc.BytesLayout(0) }

// EmplaceBytes writes the handle's emplaced form, which is empty.
func (StaticRef[T]) EmplaceBytes(out []byte) error { return nil }
