package alloc

// Counts records the calls made through a Counting allocator.
type Counts struct {
	Allocs     int // Allocate and AllocateZeroed
	Deallocs   int
	Grows      int // all grow variants
	Shrinks    int // both shrink variants
	Failures   int // calls that returned an error
	AllocBytes int // bytes requested by successful allocations
	FreeBytes  int // bytes released by Deallocate
}

// Counting records call counts and byte totals for an inner allocator.
// Not safe for concurrent use.
type Counting struct {
	inner  Allocator
	Counts Counts
}

// NewCounting wraps a.
func NewCounting(a Allocator) *Counting {
	return &Counting{inner: a}
}

// Inner returns the wrapped allocator.
func (c *Counting) Inner() Allocator { return c.inner }

// Reset zeroes the counters.
func (c *Counting) Reset() { c.Counts = Counts{} }

func (c *Counting) done(b []byte, err error) ([]byte, error) {
	if err != nil {
		c.Counts.Failures++
	}
	return b, err
}

func (c *Counting) Allocate(l Layout) ([]byte, error) {
	c.Counts.Allocs++
	b, err := c.inner.Allocate(l)
	if err == nil {
		c.Counts.AllocBytes += l.Size()
	}
	return c.done(b, err)
}

func (c *Counting) AllocateZeroed(l Layout) ([]byte, error) {
	c.Counts.Allocs++
	b, err := c.inner.AllocateZeroed(l)
	if err == nil {
		c.Counts.AllocBytes += l.Size()
	}
	return c.done(b, err)
}

func (c *Counting) Deallocate(block []byte, l Layout) {
	c.Counts.Deallocs++
	c.Counts.FreeBytes += l.Size()
	c.inner.Deallocate(block, l)
}

func (c *Counting) Grow(block []byte, old, new Layout) ([]byte, error) {
	c.Counts.Grows++
	return c.done(c.inner.Grow(block, old, new))
}

func (c *Counting) GrowZeroed(block []byte, old, new Layout) ([]byte, error) {
	c.Counts.Grows++
	return c.done(c.inner.GrowZeroed(block, old, new))
}

func (c *Counting) GrowInPlace(block []byte, old, new Layout) ([]byte, error) {
	c.Counts.Grows++
	return c.done(c.inner.GrowInPlace(block, old, new))
}

func (c *Counting) GrowZeroedInPlace(block []byte, old, new Layout) ([]byte, error) {
	c.Counts.Grows++
	return c.done(c.inner.GrowZeroedInPlace(block, old, new))
}

func (c *Counting) Shrink(block []byte, old, new Layout) ([]byte, error) {
	c.Counts.Shrinks++
	return c.done(c.inner.Shrink(block, old, new))
}

func (c *Counting) ShrinkInPlace(block []byte, old, new Layout) ([]byte, error) {
	c.Counts.Shrinks++
	return c.done(c.inner.ShrinkInPlace(block, old, new))
}
