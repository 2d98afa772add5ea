package image

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/encoding"

	"github.com/joshuapare/relkit/alloc"
	"github.com/joshuapare/relkit/internal/dirty"
	"github.com/joshuapare/relkit/internal/format"
	"github.com/joshuapare/relkit/internal/mmfile"
	"github.com/joshuapare/relkit/region"
	"github.com/joshuapare/relkit/rel"
	"github.com/joshuapare/relkit/shortstr"
)

const (
	// HeaderSize is the size of the file header preceding the segment.
	HeaderSize = 64

	// Magic identifies image files.
	Magic = "RLKI"

	offMagic  = 0
	offKind   = 4
	offDigest = 8
	offRoot   = 16

	tableLenOff   = 0
	tableCapOff   = 8
	tableItemsOff = 16

	// minTableCap is the capacity of the first items array.
	minTableCap = 4

	// MinSize is the smallest file Create accepts.
	MinSize = HeaderSize + 256
	// MaxSize is the largest file Create accepts.
	MaxSize = 1 << 40
)

var tableLayout = alloc.MustLayout(3*format.WordSize, format.WordAlign)

// Image is an open region file.
//
// Not safe for concurrent use.
type Image[R region.Tag] struct {
	path     string
	m        *mmfile.Mapping
	mem      *region.Memory[R]
	seg      *segment[R]
	table    region.Slot[R]
	dirty    *dirty.Tracker
	readOnly bool
	log      *slog.Logger
	metrics  *metrics
}

// Create creates a new image file at path. It fails if the file exists.
//
// R is bound through region.New, so at most one image (or other Memory) of
// region R can be open at a time.
func Create[R region.Tag](path string, opts *Options) (*Image[R], error) {
	o := resolveOptions(opts)
	id, err := controlID(o.Control)
	if err != nil {
		return nil, err
	}
	if o.Size < MinSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, o.Size)
	}
	if o.Size > MaxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, o.Size)
	}

	m, err := mmfile.Create(path, o.Size)
	if err != nil {
		return nil, fmt.Errorf("image: create %s: %w", path, err)
	}
	img, err := newImage[R](path, m, o, id, true)
	if err != nil {
		_ = m.Close()
		_ = os.Remove(path)
		return nil, err
	}
	o.Logger.Debug("image created", "path", path, "size", o.Size, "control", img.seg.name)
	return img, nil
}

// Open maps an existing image file and reattaches to its allocator and
// table without re-initializing anything.
func Open[R region.Tag](path string, opts *Options) (*Image[R], error) {
	o := resolveOptions(opts)
	m, err := mmfile.Open(path, !o.ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("image: open %s: %w", path, err)
	}
	data := m.Bytes()
	if len(data) < HeaderSize {
		_ = m.Close()
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(data))
	}
	if string(data[offMagic:offMagic+len(Magic)]) != Magic {
		_ = m.Close()
		return nil, fmt.Errorf("image: %s: %w", path, format.ErrSignatureMismatch)
	}
	img, err := newImage[R](path, m, o, format.ReadU32(data, offKind), false)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	if o.Verify {
		if err := img.Verify(); err != nil {
			img.release()
			return nil, err
		}
	}
	o.Logger.Debug("image opened", "path", path, "size", len(data), "control", img.seg.name, "entries", img.Len())
	return img, nil
}

func newImage[R region.Tag](path string, m *mmfile.Mapping, o Options, kind uint32, fresh bool) (*Image[R], error) {
	mem, err := region.New[R](m.Bytes())
	if err != nil {
		return nil, err
	}
	img := &Image[R]{
		path:     path,
		m:        m,
		mem:      mem,
		dirty:    dirty.NewTracker(),
		readOnly: !m.Writable(),
		log:      o.Logger,
		metrics:  newMetrics(o.Registerer),
	}
	if err := img.attach(kind, fresh); err != nil {
		mem.Release()
		return nil, err
	}
	img.metrics.capacity.Set(float64(img.seg.capacity()))
	img.metrics.used.Set(float64(img.seg.used()))
	return img, nil
}

func (img *Image[R]) attach(kind uint32, fresh bool) error {
	data := img.mem.Bytes()
	seg, err := openSegment(img.mem.MustSlot(HeaderSize, len(data)-HeaderSize), kind, fresh, img.dirty.Add)
	if err != nil {
		return fmt.Errorf("image: segment: %w", err)
	}
	img.seg = seg
	root := rel.PtrAt(img.mem.MustSlot(offRoot, rel.PtrLayout.Size()))

	if !fresh {
		if img.table, err = root.Deref(tableLayout); err != nil {
			return fmt.Errorf("image: root table: %w", err)
		}
		if n, c := img.tableLen(), img.tableCap(); n > c {
			return fmt.Errorf("image: table length %d exceeds capacity %d", n, c)
		}
		_, err = img.items()
		return err
	}

	copy(data[offMagic:], Magic)
	format.PutU32(data, offKind, kind)
	if img.table, err = rel.AllocateSlot[R](seg, tableLayout); err != nil {
		return fmt.Errorf("image: root table: %w", err)
	}
	img.table.Zero()
	if err := root.Set(img.table); err != nil {
		return err
	}
	img.dirty.Add(0, len(data))
	return nil
}

func (img *Image[R]) tableLen() int { return int(format.ReadU64(img.table.Bytes(), tableLenOff)) }
func (img *Image[R]) tableCap() int { return int(format.ReadU64(img.table.Bytes(), tableCapOff)) }

func (img *Image[R]) itemsPtr() rel.Ptr[R] {
	return rel.PtrAt(img.table.Field(tableItemsOff, rel.PtrLayout.Size()))
}

func (img *Image[R]) recordLayout() alloc.Layout {
	return shortstr.RecordLayout(img.seg.Loader()).PadToAlign()
}

// items returns the record array, or a zero slot when the table is empty.
func (img *Image[R]) items() (region.Slot[R], error) {
	c := img.tableCap()
	if c == 0 {
		return region.Slot[R]{}, nil
	}
	l, err := img.recordLayout().Array(c)
	if err != nil {
		return region.Slot[R]{}, fmt.Errorf("image: table capacity %d: %w", c, err)
	}
	arr, err := img.itemsPtr().Deref(l)
	if err != nil {
		return region.Slot[R]{}, fmt.Errorf("image: items: %w", err)
	}
	return arr, nil
}

func (img *Image[R]) record(arr region.Slot[R], i int) region.Slot[R] {
	stride := img.recordLayout().Size()
	return arr.Field(i*stride, stride)
}

func (img *Image[R]) touch(s region.Slot[R]) {
	img.dirty.Add(s.Offset(), s.Len())
}

// Path returns the file path.
func (img *Image[R]) Path() string { return img.path }

// Memory returns the region memory of the mapped file.
func (img *Image[R]) Memory() *region.Memory[R] { return img.mem }

// Len returns the number of entries.
func (img *Image[R]) Len() int { return img.tableLen() }

func (img *Image[R]) entry(i int) (*shortstr.String[R], error) {
	if i < 0 || i >= img.tableLen() {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndex, i, img.tableLen())
	}
	arr, err := img.items()
	if err != nil {
		return nil, err
	}
	return shortstr.At(img.record(arr, i), img.seg.Loader())
}

// touchEntry marks the record of s and its spilled bytes dirty. Allocations
// the string makes are marked by the allocator itself.
func (img *Image[R]) touchEntry(s *shortstr.String[R]) {
	img.touch(s.Slot())
	if s.IsInline() {
		return
	}
	if b, err := s.Bytes(); err == nil {
		b = b[:min(cap(b), s.Capacity())]
		if blk, err := img.mem.SlotOf(b); err == nil {
			img.touch(blk)
		}
	}
}

// Entry returns a view of entry i. On a writable image the record and its
// spilled bytes are marked modified when the view is taken, so changes made
// through it before the next Sync are flushed; use Update for changes that
// span a Sync.
func (img *Image[R]) Entry(i int) (*shortstr.String[R], error) {
	s, err := img.entry(i)
	if err != nil {
		return nil, err
	}
	if !img.readOnly {
		img.touchEntry(s)
	}
	return s, nil
}

// Update runs fn on a view of entry i and marks everything it changed.
func (img *Image[R]) Update(i int, fn func(s *shortstr.String[R]) error) error {
	if img.readOnly {
		return ErrReadOnly
	}
	s, err := img.entry(i)
	if err != nil {
		return err
	}
	img.touchEntry(s)
	err = fn(s)
	img.touchEntry(s)
	img.metrics.used.Set(float64(img.seg.used()))
	return err
}

// Get returns entry i.
func (img *Image[R]) Get(i int) (string, error) {
	s, err := img.entry(i)
	if err != nil {
		return "", err
	}
	b, err := s.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Append stores str as a new entry and returns its index.
func (img *Image[R]) Append(str string) (int, error) {
	return img.append(shortstr.Clone[R](img.seg, str))
}

// AppendEncoded decodes raw from enc to UTF-8 and stores the result as a new
// entry.
func (img *Image[R]) AppendEncoded(raw []byte, enc encoding.Encoding) (int, error) {
	return img.append(shortstr.Decode[R](img.seg, raw, enc))
}

func (img *Image[R]) append(e rel.Emplacer[R]) (int, error) {
	if img.readOnly {
		return 0, ErrReadOnly
	}
	n, c := img.tableLen(), img.tableCap()
	if n == c {
		if err := img.growTable(max(minTableCap, 2*c)); err != nil {
			return 0, err
		}
	}
	arr, err := img.items()
	if err != nil {
		return 0, err
	}
	rec := img.record(arr, n)
	if err := rel.Emplace(e, rec); err != nil {
		return 0, fmt.Errorf("image: append: %w", err)
	}
	format.PutU64(img.table.Bytes(), tableLenOff, uint64(n+1))

	img.touch(rec)
	img.touch(img.table)
	repr := reprInline
	if s, err := shortstr.At(rec, img.seg.Loader()); err == nil && !s.IsInline() {
		repr = reprSpilled
	}
	img.metrics.appends.WithLabelValues(repr).Inc()
	img.metrics.used.Set(float64(img.seg.used()))
	return n, nil
}

// growTable moves the records into a new array of capacity c. Records hold
// relative pointers, so each is moved rather than copied.
func (img *Image[R]) growTable(c int) error {
	l, err := img.recordLayout().Array(c)
	if err != nil {
		return err
	}
	arr, err := rel.AllocateSlot[R](img.seg, l)
	if err != nil {
		return fmt.Errorf("image: grow table to %d: %w", c, err)
	}
	arr.Zero()

	if oldCap := img.tableCap(); oldCap > 0 {
		old, err := img.items()
		if err != nil {
			img.seg.Deallocate(arr.Bytes(), l)
			return err
		}
		// Resolve every record before moving any, so a bad one leaves the
		// table as it was.
		n := img.tableLen()
		views := make([]*shortstr.String[R], n)
		for i := range n {
			if views[i], err = img.checkedEntry(img.record(old, i)); err != nil {
				img.seg.Deallocate(arr.Bytes(), l)
				return fmt.Errorf("image: entry %d: %w", i, err)
			}
		}
		for i, s := range views {
			if _, err := s.MoveTo(img.record(arr, i)); err != nil {
				img.moveBack(arr, old, i)
				img.seg.Deallocate(arr.Bytes(), l)
				return fmt.Errorf("image: move entry %d: %w", i, err)
			}
		}
		oldLayout, _ := img.recordLayout().Array(oldCap)
		img.seg.Deallocate(old.Bytes(), oldLayout)
		img.touch(old)
	}

	if err := img.itemsPtr().Set(arr); err != nil {
		return err
	}
	format.PutU64(img.table.Bytes(), tableCapOff, uint64(c))
	img.touch(arr)
	img.touch(img.table)
	img.touch(img.seg.header)
	img.log.Debug("table grown", "path", img.path, "capacity", c, "offset", arr.Offset())
	return nil
}

// checkedEntry views the record in rec and resolves its allocator handle and
// spilled bytes.
func (img *Image[R]) checkedEntry(rec region.Slot[R]) (*shortstr.String[R], error) {
	s, err := shortstr.At(rec, img.seg.Loader())
	if err != nil {
		return nil, err
	}
	if _, err := s.Allocator(); err != nil {
		return nil, err
	}
	if _, err := s.Bytes(); err != nil {
		return nil, err
	}
	return s, nil
}

// moveBack returns the first n records of arr to old after a failed move.
func (img *Image[R]) moveBack(arr, old region.Slot[R], n int) {
	for i := range n {
		s, err := shortstr.At(img.record(arr, i), img.seg.Loader())
		if err != nil {
			continue
		}
		if _, err := s.MoveTo(img.record(old, i)); err != nil {
			img.log.Warn("entry lost restoring table", "path", img.path, "entry", i, "error", err)
		}
	}
}

// Stats summarizes an image.
type Stats struct {
	Size     int
	Control  string
	Capacity int
	Used     int
	Free     int
	Entries  int
	Inline   int
	Spilled  int
}

// Stats returns size and usage figures.
func (img *Image[R]) Stats() (Stats, error) {
	st := Stats{
		Size:     img.mem.Len(),
		Control:  img.seg.name,
		Capacity: img.seg.capacity(),
		Used:     img.seg.used(),
		Free:     img.seg.freeBytes(),
		Entries:  img.tableLen(),
	}
	for i := range st.Entries {
		s, err := img.entry(i)
		if err != nil {
			return st, err
		}
		if s.IsInline() {
			st.Inline++
		} else {
			st.Spilled++
		}
	}
	return st, nil
}

// Digest computes the xxhash64 of the segment bytes.
func (img *Image[R]) Digest() uint64 {
	return xxhash.Sum64(img.mem.Bytes()[HeaderSize:])
}

// StoredDigest returns the digest recorded by the last Sync.
func (img *Image[R]) StoredDigest() uint64 {
	return format.ReadU64(img.mem.Bytes(), offDigest)
}

// Verify compares the segment against the stored digest.
func (img *Image[R]) Verify() error {
	if got, want := img.Digest(), img.StoredDigest(); got != want {
		return fmt.Errorf("%w: computed %016x, stored %016x", ErrDigestMismatch, got, want)
	}
	return nil
}

// Sync records the digest and flushes every modified page to the file.
func (img *Image[R]) Sync(ctx context.Context) error {
	return img.syncTo(ctx, img.m)
}

func (img *Image[R]) syncTo(ctx context.Context, f dirty.Flusher) error {
	if img.readOnly {
		return nil
	}
	format.PutU64(img.mem.Bytes(), offDigest, img.Digest())
	img.dirty.Add(0, HeaderSize)
	if err := img.dirty.Flush(ctx, f); err != nil {
		return fmt.Errorf("image: sync: %w", err)
	}
	img.metrics.syncs.Inc()
	img.log.Debug("image synced", "path", img.path, "used", img.seg.used())
	return nil
}

// Close syncs a writable image, releases region R, and unmaps the file.
func (img *Image[R]) Close() error {
	var err error
	if !img.readOnly {
		err = img.Sync(context.Background())
	}
	return errors.Join(err, img.release())
}

func (img *Image[R]) release() error {
	img.mem.Release()
	return img.m.Close()
}
