// Package memio wraps github.com/edsrzf/mmap-go for the mapping shape
// the snapshot engine needs: mapping an existing file read-only to
// stream its bytes into the hasher or the archive writer without a
// user-space copy.
package memio

import (
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/tc-cache/tc-cache/internal/errs"
)

// ReadMap opens path and memory-maps its first n bytes read-only; n == 0
// maps the whole file. The caller must call Close on the returned Mapped when done.
func ReadMap(path string, n int) (*Mapped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IO(path, err)
	}

	if n == 0 {
		info, statErr := f.Stat()
		if statErr != nil {
			f.Close()
			return nil, errs.IO(path, statErr)
		}

		n = int(info.Size())
	}

	m, err := mmap.MapRegion(f, n, mmap.RDONLY, 0, 0)
	if err != nil {
		f.Close()
		return nil, errs.IO(path, err)
	}

	return &Mapped{file: f, region: m}, nil
}

// Mapped owns a file handle and its mapped region for the lifetime of a
// single read or write operation.
type Mapped struct {
	file   *os.File
	region mmap.MMap
}

// Bytes returns the mapped region.
func (m *Mapped) Bytes() []byte {
	return m.region
}

// Close unmaps the region and closes the underlying file.
func (m *Mapped) Close() error {
	unmapErr := m.region.Unmap()
	closeErr := m.file.Close()

	if unmapErr != nil {
		return unmapErr
	}

	return closeErr
}
