// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-daq/tdaq"
	"github.com/go-lpc/softcore/board"
	"github.com/go-lpc/softcore/hwreg"
	"github.com/go-lpc/softcore/internal/mmap"
)

type closer struct {
	n int
}

func (c *closer) Close() error {
	c.n++
	return nil
}

func newTestDevice(t *testing.T) (*device, *closer) {
	t.Helper()
	c := new(closer)
	dev := newDevice("de0-nano", "/dev/mem", 10*time.Millisecond)
	dev.open = func(devmem, name string, decls []board.Decl) (*board.Board, io.Closer, error) {
		const (
			base = 0x10000000
			size = 0x1000
		)
		bus := hwreg.NewBus(hwreg.NewWindow(mmap.HandleFrom(make([]byte, size)), base, size))
		brd, err := board.New(name, bus, decls, board.WithLogger(log.New(io.Discard, "", 0)))
		return brd, c, err
	}
	return dev, c
}

func TestSample(t *testing.T) {
	dev, c := newTestDevice(t)

	_, err := dev.sample()
	if err == nil {
		t.Fatalf("expected an error sampling an unconfigured device")
	}

	err = dev.config("de0-nano")
	if err != nil {
		t.Fatalf("could not configure device: %+v", err)
	}

	led, err := dev.brd.Lookup("led")
	if err != nil {
		t.Fatalf("could not lookup led: %+v", err)
	}
	err = led.Write(0x2a)
	if err != nil {
		t.Fatalf("could not write led: %+v", err)
	}

	raw, err := dev.sample()
	if err != nil {
		t.Fatalf("could not sample device: %+v", err)
	}

	dec := tdaq.NewDecoder(bytes.NewReader(raw))
	if got, want := dec.ReadU32(), uint32(3); got != want {
		t.Fatalf("invalid number of registers: got=%d, want=%d", got, want)
	}
	for _, want := range []struct {
		name string
		v    uint32
	}{
		{"led", 0x2a},
		{"pushsw", 0},
		{"dipsw", 0},
	} {
		name := dec.ReadStr()
		v := dec.ReadU32()
		if name != want.name || v != want.v {
			t.Fatalf("invalid sample: got=(%q, 0x%x), want=(%q, 0x%x)", name, v, want.name, want.v)
		}
	}
	if err := dec.Err(); err != nil {
		t.Fatalf("could not decode sample: %+v", err)
	}

	if got, want := dev.n, 1; got != want {
		t.Fatalf("invalid number of samples: got=%d, want=%d", got, want)
	}

	// re-configuring releases the previous board.
	err = dev.config("de0")
	if err != nil {
		t.Fatalf("could not re-configure device: %+v", err)
	}
	if got, want := c.n, 1; got != want {
		t.Fatalf("invalid number of released boards: got=%d, want=%d", got, want)
	}
	if got, want := dev.brd.Name(), "de0"; got != want {
		t.Fatalf("invalid board: got=%q, want=%q", got, want)
	}

	err = dev.config("de1")
	if err == nil {
		t.Fatalf("expected an error configuring an unknown board")
	}

	err = dev.close()
	if err != nil {
		t.Fatalf("could not close device: %+v", err)
	}
	if got, want := c.n, 2; got != want {
		t.Fatalf("invalid number of released boards: got=%d, want=%d", got, want)
	}
	if dev.brd != nil {
		t.Fatalf("board still bound after close")
	}
}

func TestReset(t *testing.T) {
	dev, _ := newTestDevice(t)
	err := dev.config("de0")
	if err != nil {
		t.Fatalf("could not configure device: %+v", err)
	}

	for i := 0; i < 3; i++ {
		raw, err := dev.sample()
		if err != nil {
			t.Fatalf("could not sample device: %+v", err)
		}
		dev.data <- raw
	}

	dev.reset()
	if got, want := len(dev.data), 0; got != want {
		t.Fatalf("invalid queue length: got=%d, want=%d", got, want)
	}
	if got, want := dev.n, 0; got != want {
		t.Fatalf("invalid number of samples: got=%d, want=%d", got, want)
	}
}

func TestConfigYAML(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "lab.yaml")
	err := os.WriteFile(fname, []byte(`board: lab
registers:
  - {name: status, addr: 0x10000300, width: 4, offset: 4}
`), 0644)
	if err != nil {
		t.Fatalf("could not create board file: %+v", err)
	}

	dev, _ := newTestDevice(t)
	dev.cfg = fname

	err = dev.config("de0-nano")
	if err != nil {
		t.Fatalf("could not configure device: %+v", err)
	}
	if got, want := dev.brd.Name(), "lab"; got != want {
		t.Fatalf("invalid board: got=%q, want=%q", got, want)
	}

	status, err := dev.brd.Lookup("status")
	if err != nil {
		t.Fatalf("could not lookup status: %+v", err)
	}
	err = status.Write(0x9)
	if err != nil {
		t.Fatalf("could not write status: %+v", err)
	}

	raw, err := dev.sample()
	if err != nil {
		t.Fatalf("could not sample device: %+v", err)
	}

	dec := tdaq.NewDecoder(bytes.NewReader(raw))
	if got, want := dec.ReadU32(), uint32(1); got != want {
		t.Fatalf("invalid number of registers: got=%d, want=%d", got, want)
	}
	if got, want := dec.ReadStr(), "status"; got != want {
		t.Fatalf("invalid register name: got=%q, want=%q", got, want)
	}
	if got, want := dec.ReadU32(), uint32(0x9); got != want {
		t.Fatalf("invalid register value: got=0x%x, want=0x%x", got, want)
	}
	if err := dec.Err(); err != nil {
		t.Fatalf("could not decode sample: %+v", err)
	}

	dev.cfg = filepath.Join(t.TempDir(), "not-there.yaml")
	err = dev.config("de0")
	if err == nil {
		t.Fatalf("expected an error")
	}
}
