// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hwreg

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// MMIO performs volatile 32-bit accesses at physical addresses.
// Each call must be a single, indivisible bus transaction.
type MMIO interface {
	ReadU32(addr uint32) (uint32, error)
	WriteU32(addr, v uint32) error
}

// container is implemented by MMIO values that only cover a subset of
// the physical address space.
type container interface {
	Contains(addr uint32) bool
}

// Bus gives registers access to an MMIO.
//
// Read-modify-write sequences issued through a Bus are serialized per
// physical word: two registers sharing the same address never interleave
// their updates.
type Bus struct {
	io MMIO

	mu    sync.Mutex
	locks map[uint32]*sync.Mutex
}

// NewBus returns a bus issuing its accesses through io.
func NewBus(io MMIO) *Bus {
	return &Bus{
		io:    io,
		locks: make(map[uint32]*sync.Mutex),
	}
}

func (bus *Bus) contains(addr uint32) bool {
	c, ok := bus.io.(container)
	if !ok {
		return true
	}
	return c.Contains(addr)
}

func (bus *Bus) lock(addr uint32) *sync.Mutex {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	mu, ok := bus.locks[addr]
	if !ok {
		mu = new(sync.Mutex)
		bus.locks[addr] = mu
	}
	return mu
}

func (bus *Bus) read(addr uint32) (uint32, error) {
	v, err := bus.io.ReadU32(addr)
	if err != nil {
		return 0, fmt.Errorf("hwreg: could not read register 0x%08x: %w", addr, err)
	}
	return v, nil
}

func (bus *Bus) modify(addr uint32, f func(v uint32) uint32) error {
	mu := bus.lock(addr)
	mu.Lock()
	defer mu.Unlock()

	v, err := bus.read(addr)
	if err != nil {
		return err
	}

	err = bus.io.WriteU32(addr, f(v))
	if err != nil {
		return fmt.Errorf("hwreg: could not write register 0x%08x: %w", addr, err)
	}
	return nil
}

type rwer interface {
	io.ReaderAt
	io.WriterAt
}

// Window is an MMIO over the physical range [base, base+size) mapped
// onto rw, e.g. an mmap'ed view of /dev/mem.
// Words are little-endian, as on the Avalon bus.
type Window struct {
	rw   rwer
	base uint32
	size uint32

	mu   sync.Mutex
	xbuf [4]byte
}

// NewWindow returns an MMIO window of size bytes starting at the
// physical address base.
func NewWindow(rw rwer, base, size uint32) *Window {
	return &Window{rw: rw, base: base, size: size}
}

// Contains returns whether the 32-bit word at addr lies within the window.
func (w *Window) Contains(addr uint32) bool {
	if addr < w.base {
		return false
	}
	off := uint64(addr - w.base)
	return off+4 <= uint64(w.size)
}

func (w *Window) offset(addr uint32) (int64, error) {
	if !w.Contains(addr) {
		return 0, fmt.Errorf(
			"hwreg: address 0x%08x outside window [0x%08x, 0x%08x)",
			addr, w.base, uint64(w.base)+uint64(w.size),
		)
	}
	return int64(addr - w.base), nil
}

// ReadU32 implements MMIO.
func (w *Window) ReadU32(addr uint32) (uint32, error) {
	off, err := w.offset(addr)
	if err != nil {
		return 0, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	_, err = w.rw.ReadAt(w.xbuf[:4], off)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(w.xbuf[:4]), nil
}

// WriteU32 implements MMIO.
func (w *Window) WriteU32(addr, v uint32) error {
	off, err := w.offset(addr)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	binary.LittleEndian.PutUint32(w.xbuf[:4], v)
	_, err = w.rw.WriteAt(w.xbuf[:4], off)
	return err
}

var (
	_ MMIO      = (*Window)(nil)
	_ container = (*Window)(nil)
)
