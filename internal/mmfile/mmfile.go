// Package mmfile provides platform-specific helpers for memory-mapping region
// files read-write so relocatable structures can be emplaced directly into
// file-backed bytes.
package mmfile

import (
	"errors"
	"fmt"
	"os"
)

// ErrRange indicates a flush range outside the mapping.
var ErrRange = errors.New("mmfile: range out of bounds")

// Mapping is an open file together with its mapped contents.
type Mapping struct {
	f        *os.File
	data     []byte
	writable bool
}

// Bytes returns the mapped contents. The slice is invalid after Close.
func (m *Mapping) Bytes() []byte { return m.data }

// Len returns the mapped length in bytes.
func (m *Mapping) Len() int { return len(m.data) }

// Writable reports whether the mapping accepts writes.
func (m *Mapping) Writable() bool { return m.writable }

// Create creates a new file of exactly size zero bytes at path and maps it
// read-write. It fails if the file already exists.
func Create(path string, size int) (*Mapping, error) {
	if size < 0 {
		return nil, fmt.Errorf("mmfile: negative size %d", size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("mmfile: size %s: %w", path, err)
	}
	m, err := mapFile(f, size, true)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	return m, nil
}

// Open maps an existing file. With writable set the mapping is shared, so
// writes reach the file once flushed.
func Open(path string, writable bool) (*Mapping, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	size := info.Size()
	if size > int64(^uint(0)>>1) {
		_ = f.Close()
		return nil, fmt.Errorf("mmfile: file too large to map (%d bytes)", size)
	}
	m, err := mapFile(f, int(size), writable)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return m, nil
}

func (m *Mapping) checkRange(off, n int) error {
	if off < 0 || n < 0 || off > len(m.data) || n > len(m.data)-off {
		return fmt.Errorf("%w: [%d, +%d) of %d", ErrRange, off, n, len(m.data))
	}
	return nil
}
