// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"fmt"
	"io"
	"os"

	"github.com/go-lpc/softcore/hwreg"
	"github.com/go-lpc/softcore/internal/mmap"
)

// Map maps the physical pages holding the registers of decls from
// devmem (usually /dev/mem) and returns the configured board.
// The returned closer releases the mapping.
func Map(devmem, name string, decls []Decl, opts ...Option) (*Board, io.Closer, error) {
	if len(decls) == 0 {
		return nil, nil, fmt.Errorf("board: %q: no register declared", name)
	}

	base, size := Span(decls, os.Getpagesize())
	mem, err := mmap.Open(devmem, int64(base), int64(size))
	if err != nil {
		return nil, nil, fmt.Errorf("board: %q: could not map registers: %w", name, err)
	}

	bus := hwreg.NewBus(hwreg.NewWindow(mem, base, size))
	brd, err := New(name, bus, decls, opts...)
	if err != nil {
		_ = mem.Close()
		return nil, nil, err
	}

	return brd, mem, nil
}
