// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shell interprets line-oriented commands acting on the
// registers of a board.
//
//	led.clear
//	led[3].toggle
//	led.write 0x1f
//	led[2:0].read
//	sleep 200
//	list
//	dump
package shell // import "github.com/go-lpc/softcore/internal/shell"

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-lpc/softcore/board"
	"github.com/go-lpc/softcore/hwreg"
)

// ErrSyntax reports a malformed command line.
var ErrSyntax = errors.New("shell: invalid command")

const help = `commands:
  list                  list the registers of the board
  dump                  display the value of all the registers
  sleep <ms>            sleep for <ms> milliseconds
  <reg>.<op> [value]    act on a register
  <reg>[i].<op>         act on bit i of a register
  <reg>[msb:lsb].<op>   act on bits msb..lsb of a register

ops: read, write <value>, set, clear, toggle, isset, iscleared
`

// Shell executes commands on a board.
type Shell struct {
	brd *board.Board
	w   io.Writer
}

// New returns a shell acting on brd and displaying results on w.
func New(brd *board.Board, w io.Writer) *Shell {
	return &Shell{brd: brd, w: w}
}

// Exec runs a single command line.
// Empty lines and lines starting with '#' are ignored.
func (sh *Shell) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	args := strings.Fields(line)
	switch args[0] {
	case "help", "?":
		_, err := io.WriteString(sh.w, help)
		return err
	case "list":
		if len(args) != 1 {
			return fmt.Errorf("%w: list takes no argument", ErrSyntax)
		}
		for _, name := range sh.brd.Names() {
			reg, _ := sh.brd.Lookup(name)
			fmt.Fprintf(sh.w, "%s %v\n", name, reg)
		}
		return nil
	case "dump":
		if len(args) != 1 {
			return fmt.Errorf("%w: dump takes no argument", ErrSyntax)
		}
		return sh.brd.Dump(sh.w)
	case "sleep":
		if len(args) != 2 {
			return fmt.Errorf("%w: usage: sleep <ms>", ErrSyntax)
		}
		ms, err := parseU32(args[1])
		if err != nil {
			return err
		}
		sh.brd.Sleep(ms)
		return nil
	}

	name, op, ok := strings.Cut(args[0], ".")
	if !ok {
		return fmt.Errorf("%w: %q", ErrSyntax, line)
	}

	tgt, err := sh.target(name)
	if err != nil {
		return err
	}

	if op == "write" {
		if len(args) != 2 {
			return fmt.Errorf("%w: usage: %s.write <value>", ErrSyntax, name)
		}
		v, err := parseU32(args[1])
		if err != nil {
			return err
		}
		return tgt.Write(v)
	}

	if len(args) != 1 {
		return fmt.Errorf("%w: %s takes no argument", ErrSyntax, op)
	}

	switch op {
	case "read":
		v, err := tgt.Read()
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.w, "%s = 0x%x\n", name, v)
	case "set":
		return tgt.SetAll()
	case "clear":
		return tgt.ClearAll()
	case "toggle":
		return tgt.ToggleAll()
	case "isset", "iscleared":
		v, err := tgt.Read()
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.w, "%s.%s = %v\n", name, op, (v != 0) == (op == "isset"))
	default:
		return fmt.Errorf("%w: unknown operation %q", ErrSyntax, op)
	}
	return nil
}

type target interface {
	Read() (uint32, error)
	Write(v uint32) error
	SetAll() error
	ClearAll() error
	ToggleAll() error
}

// target returns the register, field or bit selected by expr.
func (sh *Shell) target(expr string) (target, error) {
	name, sel, ok := strings.Cut(expr, "[")
	reg, err := sh.brd.Lookup(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return reg, nil
	}

	if !strings.HasSuffix(sel, "]") {
		return nil, fmt.Errorf("%w: unterminated selector %q", ErrSyntax, expr)
	}
	sel = strings.TrimSuffix(sel, "]")

	if hi, lo, ok := strings.Cut(sel, ":"); ok {
		msb, err := parseIndex(hi)
		if err != nil {
			return nil, err
		}
		lsb, err := parseIndex(lo)
		if err != nil {
			return nil, err
		}
		return reg.Field(msb, lsb)
	}

	i, err := parseIndex(sel)
	if err != nil {
		return nil, err
	}
	b, err := reg.Bit(i)
	if err != nil {
		return nil, err
	}
	return bit{b}, nil
}

type bit struct {
	hwreg.Bit
}

func (b bit) Read() (uint32, error) {
	v, err := b.Bit.Read()
	if v {
		return 1, err
	}
	return 0, err
}

func (b bit) Write(v uint32) error {
	switch v {
	case 0:
		return b.Clear()
	case 1:
		return b.Set()
	default:
		return fmt.Errorf("%w: bit %v: value %d", hwreg.ErrRange, b.Bit, v)
	}
}

func (b bit) SetAll() error    { return b.Set() }
func (b bit) ClearAll() error  { return b.Clear() }
func (b bit) ToggleAll() error { return b.Toggle() }

func parseU32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid value %q: %v", ErrSyntax, s, err)
	}
	return uint32(v), nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid bit index %q", ErrSyntax, s)
	}
	return i, nil
}
