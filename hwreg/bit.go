// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hwreg

import "fmt"

// Bit is a view on a single bit of a register.
// The zero value is not usable: bits are obtained from Register.Bit.
type Bit struct {
	reg *Register
	idx int // index from the first bit of the register
}

// Index returns the index of the bit within its register.
func (b Bit) Index() int { return b.idx }

func (b Bit) mask() uint32 { return 1 << uint(b.reg.offset+b.idx) }

func (b Bit) String() string {
	return fmt.Sprintf("0x%08x[%d]", b.reg.addr, b.reg.offset+b.idx)
}

// Read returns whether the bit is set.
func (b Bit) Read() (bool, error) {
	v, err := b.reg.read(b.reg.offset+b.idx, 1)
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

// Set sets the bit.
func (b Bit) Set() error { return b.reg.set(b.mask()) }

// Clear clears the bit.
func (b Bit) Clear() error { return b.reg.clear(b.mask()) }

// Toggle inverts the bit.
func (b Bit) Toggle() error { return b.reg.toggle(b.mask()) }

// Field is a view on a contiguous range of bits of a register.
// The zero value is not usable: fields are obtained from Register.Field.
type Field struct {
	reg   *Register
	lsb   int // index of the first bit, from the first bit of the register
	width int
}

// Width returns the number of bits of the field.
func (f Field) Width() int { return f.width }

func (f Field) pos() int { return f.reg.offset + f.lsb }

func (f Field) String() string {
	return fmt.Sprintf("0x%08x[%d:%d]", f.reg.addr, f.pos()+f.width-1, f.pos())
}

// Read returns the current value of the field.
func (f Field) Read() (uint32, error) { return f.reg.read(f.pos(), f.width) }

// Write stores v into the field.
// Write fails with ErrRange, without touching the hardware, if v does
// not fit in the field.
func (f Field) Write(v uint32) error { return f.reg.write(f.pos(), f.width, v) }

// SetAll sets all the bits of the field.
func (f Field) SetAll() error { return f.reg.set(mask(f.pos(), f.width)) }

// ClearAll clears all the bits of the field.
func (f Field) ClearAll() error { return f.reg.clear(mask(f.pos(), f.width)) }

// ToggleAll inverts all the bits of the field.
func (f Field) ToggleAll() error { return f.reg.toggle(mask(f.pos(), f.width)) }

// Bit returns a view on the i-th bit of the field.
func (f Field) Bit(i int) (Bit, error) {
	if i < 0 || i >= f.width {
		return Bit{}, fmt.Errorf(
			"%w: field %v: bit %d not in [0, %d)",
			ErrIndex, f, i, f.width,
		)
	}
	return Bit{reg: f.reg, idx: f.lsb + i}, nil
}
