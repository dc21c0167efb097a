// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmap provides io.ReaderAt/io.WriterAt views over physical
// memory mapped from a device file such as /dev/mem.
package mmap // import "github.com/go-lpc/softcore/internal/mmap"

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

var (
	errClosed = errors.New("mmap: closed")
)

// Handle is a memory-mapped region.
type Handle struct {
	data []byte
	f    *os.File // device file backing data, nil for in-memory handles
}

// Open maps span bytes of the device file devmem, starting at the
// physical address base.
// The page size must divide base.
func Open(devmem string, base, span int64) (*Handle, error) {
	if base%int64(os.Getpagesize()) != 0 {
		return nil, fmt.Errorf("mmap: base address 0x%x not page aligned", base)
	}

	f, err := os.OpenFile(devmem, os.O_RDWR|os.O_SYNC, 0666)
	if err != nil {
		return nil, fmt.Errorf("mmap: could not open %q: %w", devmem, err)
	}

	data, err := unix.Mmap(
		int(f.Fd()), base, int(span),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmap: could not mmap %q [0x%x, 0x%x): %w", devmem, base, base+span, err)
	}
	if data == nil || int64(len(data)) != span {
		_ = unix.Munmap(data)
		_ = f.Close()
		return nil, fmt.Errorf("mmap: invalid mmap'd data: %d", len(data))
	}

	h := &Handle{data: data, f: f}
	runtime.SetFinalizer(h, (*Handle).Close)
	return h, nil
}

// HandleFrom returns a handle over plain memory.
func HandleFrom(data []byte) *Handle {
	return &Handle{data: data}
}

// Close unmaps the region and closes its device file.
func (h *Handle) Close() error {
	if h == nil {
		return os.ErrInvalid
	}

	if h.data == nil {
		return nil
	}
	data := h.data
	h.data = nil

	if h.f == nil {
		return nil
	}
	runtime.SetFinalizer(h, nil)

	var (
		errMap = unix.Munmap(data)
		errDev = h.f.Close()
	)
	h.f = nil

	if errMap != nil {
		return fmt.Errorf("mmap: could not unmap: %w", errMap)
	}
	if errDev != nil {
		return fmt.Errorf("mmap: could not close device file: %w", errDev)
	}
	return nil
}

// Len returns the length of the underlying memory-mapped region.
func (h *Handle) Len() int {
	return len(h.data)
}

// At returns the byte at index i.
func (h *Handle) At(i int) byte {
	return h.data[i]
}

// ReadAt implements the io.ReaderAt interface.
func (h *Handle) ReadAt(p []byte, off int64) (int, error) {
	if h == nil {
		return 0, os.ErrInvalid
	}

	if h.data == nil {
		return 0, errClosed
	}
	if off < 0 || int64(len(h.data)) < off {
		return 0, fmt.Errorf("mmap: invalid ReadAt offset %d", off)
	}
	n := copy(p, h.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements the io.WriterAt interface.
func (h *Handle) WriteAt(p []byte, off int64) (int, error) {
	if h == nil {
		return 0, os.ErrInvalid
	}

	if h.data == nil {
		return 0, errClosed
	}
	if off < 0 || int64(len(h.data)) < off {
		return 0, fmt.Errorf("mmap: invalid WriteAt offset %d", off)
	}
	n := copy(h.data[off:], p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

var (
	_ io.ReaderAt = (*Handle)(nil)
	_ io.WriterAt = (*Handle)(nil)
	_ io.Closer   = (*Handle)(nil)
)
