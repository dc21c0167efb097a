// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regs holds the physical addresses of the peripherals of the
// supported softcore boards.
package regs // import "github.com/go-lpc/softcore/internal/regs"

// Avalon PIO register map, in bytes from the base address of a PIO core.
const (
	ALTERA_AVALON_PIO_DATA_REG = 0x0
)

// Terasic DE0 (Cyclone III) softcore system.
const (
	DE0_PIO_HEXLED = 0x10000200 // 4x 7-segment displays
	DE0_PIO_LED    = 0x10000210 // green LEDs
	DE0_PIO_SW     = 0x10000220 // slide switches
	DE0_PIO_BUTTON = 0x10000230 // push buttons
)

// Terasic DE0-Nano (Cyclone IV) softcore system.
const (
	DE0NANO_PIO_LED    = 0x10000100 // green LEDs
	DE0NANO_PIO_PUSHSW = 0x10000110 // push buttons
	DE0NANO_PIO_DIPSW  = 0x10000120 // DIP switches
)
