// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package board describes softcore boards as sets of named
// memory-mapped registers.
//
// A board is declared once, at startup, from a list of (name, address,
// width, offset) declarations and is immutable afterwards:
//
//	brd, err := board.New("de0", bus, board.DE0Decls)
//	led, err := brd.Lookup("led")
//	err = led.ClearAll()
//	brd.Sleep(200)
package board // import "github.com/go-lpc/softcore/board"

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-lpc/softcore/hwreg"
)

var (
	// ErrDuplicate reports a register declared twice on a board.
	ErrDuplicate = errors.New("board: duplicate register name")

	// ErrUnknown reports a lookup of a register not declared on a board.
	ErrUnknown = errors.New("board: unknown register")

	// ErrConfigured reports a declaration on an already built board.
	ErrConfigured = errors.New("board: already configured")
)

// Decl declares a register of a board.
type Decl struct {
	Name   string `yaml:"name"`
	Addr   uint32 `yaml:"addr"`
	Width  int    `yaml:"width"`
	Offset int    `yaml:"offset"`
}

type config struct {
	sleep func(time.Duration)
	msg   *log.Logger
}

func newConfig() config {
	return config{
		sleep: time.Sleep,
		msg:   log.New(os.Stdout, "board: ", 0),
	}
}

// Option configures a board.
type Option func(*config)

// WithSleep sets the function used to suspend the caller in Board.Sleep.
func WithSleep(sleep func(time.Duration)) Option {
	return func(cfg *config) {
		cfg.sleep = sleep
	}
}

// WithLogger sets the logger used to report the board configuration.
func WithLogger(msg *log.Logger) Option {
	return func(cfg *config) {
		cfg.msg = msg
	}
}

// Builder declares the registers of a board.
type Builder struct {
	name  string
	bus   *hwreg.Bus
	cfg   config
	regs  map[string]*hwreg.Register
	names []string
	done  bool
}

// NewBuilder returns a builder for the board name, whose registers are
// accessed through bus.
func NewBuilder(name string, bus *hwreg.Bus, opts ...Option) *Builder {
	b := &Builder{
		name: name,
		bus:  bus,
		cfg:  newConfig(),
		regs: make(map[string]*hwreg.Register),
	}
	for _, opt := range opts {
		opt(&b.cfg)
	}
	return b
}

// Declare adds the register name, spanning width bits from bit offset
// of the word at addr.
// A failed declaration leaves the builder unchanged.
func (b *Builder) Declare(name string, addr uint32, width, offset int) error {
	if b.done {
		return fmt.Errorf("%w: board %q: could not declare %q", ErrConfigured, b.name, name)
	}
	if name == "" {
		return fmt.Errorf("%w: board %q: empty register name", hwreg.ErrConfig, b.name)
	}
	if _, dup := b.regs[name]; dup {
		return fmt.Errorf("%w: board %q: register %q", ErrDuplicate, b.name, name)
	}

	reg, err := hwreg.New(b.bus, addr, width, offset)
	if err != nil {
		return fmt.Errorf("board: %q: could not declare register %q: %w", b.name, name, err)
	}

	b.regs[name] = reg
	b.names = append(b.names, name)
	return nil
}

// Lookup returns the register name declared so far.
func (b *Builder) Lookup(name string) (*hwreg.Register, error) {
	return lookup(b.name, b.regs, name)
}

// Build returns the configured board.
// The builder cannot be used to declare registers afterwards.
func (b *Builder) Build() (*Board, error) {
	if b.done {
		return nil, fmt.Errorf("%w: board %q", ErrConfigured, b.name)
	}
	b.done = true

	brd := &Board{
		name:  b.name,
		regs:  b.regs,
		names: b.names,
		sleep: b.cfg.sleep,
	}
	b.cfg.msg.Printf("board %q: %d registers configured", brd.name, len(brd.names))
	return brd, nil
}

// Board is a configured set of named registers.
// A Board is read-only and may be shared.
type Board struct {
	name  string
	regs  map[string]*hwreg.Register
	names []string // declaration order
	sleep func(time.Duration)
}

// New declares all the registers of decls, in order, and returns the
// configured board.
func New(name string, bus *hwreg.Bus, decls []Decl, opts ...Option) (*Board, error) {
	b := NewBuilder(name, bus, opts...)
	for _, decl := range decls {
		err := b.Declare(decl.Name, decl.Addr, decl.Width, decl.Offset)
		if err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// Name returns the name of the board.
func (brd *Board) Name() string { return brd.name }

// Names returns the names of the registers of the board, in declaration order.
func (brd *Board) Names() []string {
	names := make([]string, len(brd.names))
	copy(names, brd.names)
	return names
}

// Lookup returns the register name.
func (brd *Board) Lookup(name string) (*hwreg.Register, error) {
	return lookup(brd.name, brd.regs, name)
}

func lookup(board string, regs map[string]*hwreg.Register, name string) (*hwreg.Register, error) {
	reg, ok := regs[name]
	if !ok {
		return nil, fmt.Errorf("%w: board %q: register %q", ErrUnknown, board, name)
	}
	return reg, nil
}

// Sleep suspends the caller for at least ms milliseconds.
// Sleep cannot be canceled.
func (brd *Board) Sleep(ms uint32) {
	brd.sleep(time.Duration(ms) * time.Millisecond)
}

// Usleep suspends the caller for at least us microseconds.
func (brd *Board) Usleep(us uint32) {
	brd.sleep(time.Duration(us) * time.Microsecond)
}

// SleepSec suspends the caller for at least s seconds.
func (brd *Board) SleepSec(s uint32) {
	brd.sleep(time.Duration(s) * time.Second)
}

// Dump writes the current value of all the registers of the board to w.
func (brd *Board) Dump(w io.Writer) error {
	var (
		buf    = bufio.NewWriter(w)
		err    error
		printf = func(format string, args ...interface{}) {
			_, e := fmt.Fprintf(buf, format, args...)
			if err == nil {
				err = e
			}
		}
	)

	width := 0
	for _, name := range brd.names {
		if len(name) > width {
			width = len(name)
		}
	}

	printf("<board %s>\n", brd.name)
	for _, name := range brd.names {
		reg := brd.regs[name]
		v, e := reg.Read()
		if e != nil {
			return fmt.Errorf("board: could not dump register %q: %w", name, e)
		}
		printf("%-*s %v= 0x%08x\n", width, name, reg, v)
	}

	if err != nil {
		return fmt.Errorf("board: could not dump registers: %w", err)
	}

	err = buf.Flush()
	if err != nil {
		return fmt.Errorf("board: could not dump registers: %w", err)
	}
	return nil
}
