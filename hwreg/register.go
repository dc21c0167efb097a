// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hwreg provides bounds-checked access to bit fields of
// memory-mapped hardware registers.
//
// A Register spans width bits, starting at bit offset, of the 32-bit
// word at a fixed physical address. Every mutation is a read-modify-write
// of that word which leaves the bits outside of the register untouched.
package hwreg // import "github.com/go-lpc/softcore/hwreg"

import (
	"fmt"
)

// WordSize is the size in bits of the words accessed through an MMIO.
const WordSize = 32

// Register is a bit field at a fixed hardware address.
//
// Registers alias physical memory: they are handed out as pointers and
// must not be copied.
type Register struct {
	bus    *Bus
	addr   uint32
	width  int
	offset int
}

// New returns a register of width bits, starting at bit offset, of the
// word at addr.
// New does not access the hardware.
func New(bus *Bus, addr uint32, width, offset int) (*Register, error) {
	switch {
	case width <= 0 || width > WordSize:
		return nil, fmt.Errorf(
			"%w: register 0x%08x: width=%d out of [1, %d]",
			ErrConfig, addr, width, WordSize,
		)
	case offset < 0 || offset+width > WordSize:
		return nil, fmt.Errorf(
			"%w: register 0x%08x: offset=%d + width=%d exceeds %d bits",
			ErrConfig, addr, offset, width, WordSize,
		)
	case addr&0x3 != 0:
		return nil, fmt.Errorf(
			"%w: register 0x%08x: address not aligned on a 32-bit word",
			ErrConfig, addr,
		)
	case bus == nil:
		return nil, fmt.Errorf("%w: register 0x%08x: nil bus", ErrConfig, addr)
	case !bus.contains(addr):
		return nil, fmt.Errorf(
			"%w: register 0x%08x: address not reachable from bus",
			ErrConfig, addr,
		)
	}

	return &Register{
		bus:    bus,
		addr:   addr,
		width:  width,
		offset: offset,
	}, nil
}

// Addr returns the physical address of the register.
func (reg *Register) Addr() uint32 { return reg.addr }

// Width returns the number of bits of the register.
func (reg *Register) Width() int { return reg.width }

// Offset returns the position of the first bit of the register
// within its word.
func (reg *Register) Offset() int { return reg.offset }

// Mask returns the bits of the word covered by the register.
func (reg *Register) Mask() uint32 { return mask(reg.offset, reg.width) }

func (reg *Register) String() string {
	return fmt.Sprintf("0x%08x[%d:%d]", reg.addr, reg.offset+reg.width-1, reg.offset)
}

// Read returns the current value of the register.
func (reg *Register) Read() (uint32, error) {
	return reg.read(reg.offset, reg.width)
}

// Write stores v into the register.
// Write fails with ErrRange, without touching the hardware, if v does
// not fit in the register.
func (reg *Register) Write(v uint32) error {
	return reg.write(reg.offset, reg.width, v)
}

// SetAll sets all the bits of the register.
func (reg *Register) SetAll() error {
	return reg.set(reg.Mask())
}

// ClearAll clears all the bits of the register.
func (reg *Register) ClearAll() error {
	return reg.clear(reg.Mask())
}

// ToggleAll inverts all the bits of the register.
func (reg *Register) ToggleAll() error {
	return reg.toggle(reg.Mask())
}

// IsSet returns whether any bit of the register is set.
func (reg *Register) IsSet() (bool, error) {
	v, err := reg.Read()
	return v != 0, err
}

// IsCleared returns whether all the bits of the register are cleared.
func (reg *Register) IsCleared() (bool, error) {
	v, err := reg.Read()
	if err != nil {
		return false, err
	}
	return v == 0, nil
}

// Bit returns a view on the i-th bit of the register.
func (reg *Register) Bit(i int) (Bit, error) {
	if i < 0 || i >= reg.width {
		return Bit{}, fmt.Errorf(
			"%w: register %v: bit %d not in [0, %d)",
			ErrIndex, reg, i, reg.width,
		)
	}
	return Bit{reg: reg, idx: i}, nil
}

// Field returns a view on the bits [msb, lsb] of the register,
// counted from the first bit of the register.
func (reg *Register) Field(msb, lsb int) (Field, error) {
	if lsb < 0 || msb < lsb || msb >= reg.width {
		return Field{}, fmt.Errorf(
			"%w: register %v: invalid field [%d:%d]",
			ErrIndex, reg, msb, lsb,
		)
	}
	return Field{reg: reg, lsb: lsb, width: msb - lsb + 1}, nil
}

func (reg *Register) read(lsb, width int) (uint32, error) {
	v, err := reg.bus.read(reg.addr)
	if err != nil {
		return 0, err
	}
	return (v >> uint(lsb)) & ones(width), nil
}

func (reg *Register) write(lsb, width int, v uint32) error {
	if v > ones(width) {
		return fmt.Errorf(
			"%w: register %v: value 0x%x does not fit in %d bits",
			ErrRange, reg, v, width,
		)
	}
	m := mask(lsb, width)
	return reg.bus.modify(reg.addr, func(w uint32) uint32 {
		return (w &^ m) | (v << uint(lsb))
	})
}

func (reg *Register) set(m uint32) error {
	return reg.bus.modify(reg.addr, func(w uint32) uint32 { return w | m })
}

func (reg *Register) clear(m uint32) error {
	return reg.bus.modify(reg.addr, func(w uint32) uint32 { return w &^ m })
}

func (reg *Register) toggle(m uint32) error {
	return reg.bus.modify(reg.addr, func(w uint32) uint32 { return w ^ m })
}

func ones(width int) uint32 {
	return uint32(uint64(1)<<uint(width) - 1)
}

func mask(lsb, width int) uint32 {
	return ones(width) << uint(lsb)
}
