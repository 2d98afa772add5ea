//go:build !unix

package mmfile

import (
	"io"
	"os"
)

// mapFile reads the entire file when mmap is not available; Flush writes
// ranges back explicitly.
func mapFile(f *os.File, size int, writable bool) (*Mapping, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(f, 0, int64(size)), data); err != nil {
		return nil, err
	}
	return &Mapping{f: f, data: data, writable: writable}, nil
}

// Flush writes [off, off+n) back to the file.
func (m *Mapping) Flush(off, n int) error {
	if err := m.checkRange(off, n); err != nil {
		return err
	}
	if !m.writable || n == 0 {
		return nil
	}
	_, err := m.f.WriteAt(m.data[off:off+n], int64(off))
	return err
}

// Sync flushes the whole buffer and the file metadata.
func (m *Mapping) Sync() error {
	if err := m.Flush(0, len(m.data)); err != nil {
		return err
	}
	if !m.writable {
		return nil
	}
	return m.f.Sync()
}

// Close closes the file. Unflushed writes are lost.
func (m *Mapping) Close() error {
	m.data = nil
	if m.f == nil {
		return nil
	}
	err := m.f.Close()
	m.f = nil
	return err
}
