//go:build unix

package mmfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int, writable bool) (*Mapping, error) {
	if size == 0 {
		return &Mapping{f: f, data: []byte{}, writable: writable}, nil
	}
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap failed: %w", err)
	}
	return &Mapping{f: f, data: data, writable: writable}, nil
}

// Flush synchronously writes the pages covering [off, off+n) back to the file.
func (m *Mapping) Flush(off, n int) error {
	if err := m.checkRange(off, n); err != nil {
		return err
	}
	if !m.writable || n == 0 {
		return nil
	}
	// msync wants a page-aligned start; the mapping itself is page-aligned.
	page := os.Getpagesize()
	start := off &^ (page - 1)
	return unix.Msync(m.data[start:off+n], unix.MS_SYNC)
}

// Sync flushes the whole mapping and the file metadata.
func (m *Mapping) Sync() error {
	if err := m.Flush(0, len(m.data)); err != nil {
		return err
	}
	if !m.writable {
		return nil
	}
	return m.f.Sync()
}

// Close unmaps the data and closes the file.
func (m *Mapping) Close() error {
	var err error
	if len(m.data) > 0 {
		if uerr := unix.Munmap(m.data); uerr != nil && !errors.Is(uerr, unix.EINVAL) {
			err = uerr
		}
	}
	m.data = nil
	if m.f != nil {
		if cerr := m.f.Close(); err == nil {
			err = cerr
		}
		m.f = nil
	}
	return err
}
