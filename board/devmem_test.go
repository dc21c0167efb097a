// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-lpc/softcore/internal/regs"
)

func TestMap(t *testing.T) {
	devmem := filepath.Join(t.TempDir(), "mem")
	f, err := os.Create(devmem)
	if err != nil {
		t.Fatalf("could not create fake dev-mem: %+v", err)
	}
	defer f.Close()

	// sparse file covering the DE0 PIO registers.
	err = f.Truncate(regs.DE0_PIO_BUTTON + int64(os.Getpagesize()))
	if err != nil {
		t.Fatalf("could not resize fake dev-mem: %+v", err)
	}

	_, err = f.WriteAt([]byte{0x0a, 0, 0, 0}, regs.DE0_PIO_SW)
	if err != nil {
		t.Fatalf("could not write fake switches: %+v", err)
	}

	brd, mem, err := Map(devmem, "de0", DE0Decls, quiet)
	if err != nil {
		t.Fatalf("could not map board: %+v", err)
	}

	sw, err := brd.Lookup("sw")
	if err != nil {
		t.Fatalf("could not lookup sw: %+v", err)
	}
	v, err := sw.Read()
	if err != nil {
		t.Fatalf("could not read sw: %+v", err)
	}
	if got, want := v, uint32(0x0a); got != want {
		t.Fatalf("invalid sw value: got=0x%x, want=0x%x", got, want)
	}

	led, err := brd.Lookup("led")
	if err != nil {
		t.Fatalf("could not lookup led: %+v", err)
	}
	err = led.Write(0x155)
	if err != nil {
		t.Fatalf("could not write led: %+v", err)
	}

	err = mem.Close()
	if err != nil {
		t.Fatalf("could not unmap board: %+v", err)
	}

	buf := make([]byte, 4)
	_, err = f.ReadAt(buf, regs.DE0_PIO_LED)
	if err != nil {
		t.Fatalf("could not read back led: %+v", err)
	}
	if got, want := binary.LittleEndian.Uint32(buf), uint32(0x155); got != want {
		t.Fatalf("invalid led value: got=0x%x, want=0x%x", got, want)
	}
}

func TestMapErrors(t *testing.T) {
	_, _, err := Map("/dev/mem", "empty", nil, quiet)
	if err == nil {
		t.Fatalf("expected an error")
	}

	_, _, err = Map(filepath.Join(t.TempDir(), "not-there"), "de0", DE0Decls, quiet)
	if err == nil {
		t.Fatalf("expected an error")
	}
}
