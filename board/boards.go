// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"sort"

	"github.com/go-lpc/softcore/internal/regs"
)

// DE0Decls declares the registers of the Terasic DE0 softcore system.
var DE0Decls = []Decl{
	{Name: "hexled", Addr: regs.DE0_PIO_HEXLED + regs.ALTERA_AVALON_PIO_DATA_REG, Width: 30, Offset: 0},
	{Name: "led", Addr: regs.DE0_PIO_LED + regs.ALTERA_AVALON_PIO_DATA_REG, Width: 9, Offset: 0},
	{Name: "sw", Addr: regs.DE0_PIO_SW + regs.ALTERA_AVALON_PIO_DATA_REG, Width: 9, Offset: 0},
	{Name: "button", Addr: regs.DE0_PIO_BUTTON + regs.ALTERA_AVALON_PIO_DATA_REG, Width: 2, Offset: 1},
}

// DE0NanoDecls declares the registers of the Terasic DE0-Nano softcore system.
var DE0NanoDecls = []Decl{
	{Name: "led", Addr: regs.DE0NANO_PIO_LED + regs.ALTERA_AVALON_PIO_DATA_REG, Width: 7, Offset: 0},
	{Name: "pushsw", Addr: regs.DE0NANO_PIO_PUSHSW + regs.ALTERA_AVALON_PIO_DATA_REG, Width: 1, Offset: 0},
	{Name: "dipsw", Addr: regs.DE0NANO_PIO_DIPSW + regs.ALTERA_AVALON_PIO_DATA_REG, Width: 3, Offset: 0},
}

var known = map[string][]Decl{
	"de0":      DE0Decls,
	"de0-nano": DE0NanoDecls,
}

// Known returns the declarations of the built-in board name.
func Known(name string) ([]Decl, bool) {
	decls, ok := known[name]
	if !ok {
		return nil, false
	}
	o := make([]Decl, len(decls))
	copy(o, decls)
	return o, true
}

// KnownNames returns the sorted names of the built-in boards.
func KnownNames() []string {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Span returns the smallest page-aligned physical range [base, base+size)
// holding all the register words of decls.
func Span(decls []Decl, pageSize int) (base, size uint32) {
	if len(decls) == 0 || pageSize <= 0 {
		return 0, 0
	}

	var (
		page = uint64(pageSize)
		lo   = uint64(decls[0].Addr)
		hi   = lo + 4
	)
	for _, decl := range decls[1:] {
		addr := uint64(decl.Addr)
		if addr < lo {
			lo = addr
		}
		if addr+4 > hi {
			hi = addr + 4
		}
	}

	lo -= lo % page
	if r := hi % page; r != 0 {
		hi += page - r
	}
	return uint32(lo), uint32(hi - lo)
}
