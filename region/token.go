package region

import (
	"fmt"
	"sync"
)

// Registry issues process-unique permits per key. Holding a Permit is the
// proof of exclusive access to whatever the key names.
type Registry struct {
	mu   sync.Mutex
	held map[any]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{held: make(map[any]struct{})}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by New and Static.
func Default() *Registry { return defaultRegistry }

// TryAcquire returns the permit for key, or ErrHeld when it is already out.
// key must be comparable.
func (r *Registry) TryAcquire(key any) (*Permit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.held[key]; ok {
		return nil, fmt.Errorf("%w: %v", ErrHeld, key)
	}
	r.held[key] = struct{}{}
	return &Permit{r: r, key: key}, nil
}

// Acquire is like TryAcquire but panics when the permit is held.
func (r *Registry) Acquire(key any) *Permit {
	p, err := r.TryAcquire(key)
	if err != nil {
		panic(err)
	}
	return p
}

// Held reports whether the permit for key is currently out.
func (r *Registry) Held(key any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.held[key]
	return ok
}

// Permit is an exclusive claim on one registry key.
type Permit struct {
	r    *Registry
	key  any
	once sync.Once
}

// Key returns the key the permit was issued for.
func (p *Permit) Key() any { return p.key }

// Release returns the permit to its registry. Subsequent calls are no-ops.
func (p *Permit) Release() {
	p.once.Do(func() {
		p.r.mu.Lock()
		delete(p.r.held, p.key)
		p.r.mu.Unlock()
	})
}
