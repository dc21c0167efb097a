// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hwreg-sh is an interactive console acting on the registers
// of a softcore board.
//
// Usage:
//
//	$> hwreg-sh -board de0
//	hwreg> led.clear
//	hwreg> led[3].toggle
//	hwreg> led.read
//	led = 0x8
//
//	$> hwreg-sh -cfg de0-nano.yaml -script blink.txt
package main // import "github.com/go-lpc/softcore/cmd/hwreg-sh"

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-lpc/softcore"
	"github.com/go-lpc/softcore/board"
	"github.com/go-lpc/softcore/internal/boardcfg"
	"github.com/go-lpc/softcore/internal/shell"
	"github.com/peterh/liner"
)

func main() {
	log.SetPrefix("hwreg-sh: ")
	log.SetFlags(0)

	var (
		name   = flag.String("board", "de0", "name of the board")
		cfg    = flag.String("cfg", "", "path to a YAML board description")
		db     = flag.String("db", "", "name of the softcore database holding the board description")
		devmem = flag.String("dev-mem", "/dev/mem", "path to the physical memory device")
		script = flag.String("script", "", "path to a script of commands to run")
	)

	flag.Parse()

	bname, decls, err := boardcfg.Load(context.Background(), boardcfg.Source{
		Board: *name,
		File:  *cfg,
		DB:    *db,
	})
	if err != nil {
		log.Fatalf("could not load board description: %+v", err)
	}

	brd, mem, err := board.Map(*devmem, bname, decls, board.WithLogger(log.Default()))
	if err != nil {
		log.Fatalf("could not open board %q: %+v", bname, err)
	}
	defer mem.Close()

	sh := shell.New(brd, os.Stdout)

	if *script != "" {
		f, err := os.Open(*script)
		if err != nil {
			log.Fatalf("could not open script: %+v", err)
		}
		defer f.Close()

		err = runScript(sh, f)
		if err != nil {
			log.Fatalf("could not run script %q: %+v", *script, err)
		}
		return
	}

	vers, _ := softcore.Version()
	if vers == "" {
		vers = "(devel)"
	}
	fmt.Printf("hwreg-sh %s, board %q. type 'help' for help.\n", vers, bname)

	ln := newTerm(brd)
	defer ln.Close()

	err = run(sh, ln, os.Stderr)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

type prompter interface {
	Prompt(prompt string) (string, error)
}

// run executes the commands typed on p until end of input.
// Failed commands are reported on w and do not stop the loop.
func run(sh *shell.Shell, p prompter, w io.Writer) error {
	for {
		line, err := p.Prompt("hwreg> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return fmt.Errorf("could not read command: %w", err)
		}

		switch strings.TrimSpace(line) {
		case "quit", "exit":
			return nil
		}

		err = sh.Exec(line)
		if err != nil {
			fmt.Fprintf(w, "error: %+v\n", err)
		}
	}
}

// runScript executes the commands read from r, stopping at the first
// failed command.
func runScript(sh *shell.Shell, r io.Reader) error {
	var (
		sc = bufio.NewScanner(r)
		n  = 0
	)
	for sc.Scan() {
		n++
		err := sh.Exec(sc.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

type term struct {
	*liner.State
	hist string
}

var ops = []string{"read", "write", "set", "clear", "toggle", "isset", "iscleared"}

func newTerm(brd *board.Board) *term {
	t := &term{State: liner.NewLiner()}
	t.SetCtrlCAborts(true)
	t.SetCompleter(func(line string) []string {
		var cands []string
		for _, cmd := range []string{"list", "dump", "sleep", "help", "quit"} {
			if strings.HasPrefix(cmd, line) {
				cands = append(cands, cmd)
			}
		}
		for _, name := range brd.Names() {
			for _, op := range ops {
				if c := name + "." + op; strings.HasPrefix(c, line) {
					cands = append(cands, c)
				}
			}
		}
		return cands
	})

	if dir, err := os.UserCacheDir(); err == nil {
		t.hist = filepath.Join(dir, "hwreg-sh.history")
		if f, err := os.Open(t.hist); err == nil {
			_, _ = t.ReadHistory(f)
			f.Close()
		}
	}
	return t
}

func (t *term) Prompt(prompt string) (string, error) {
	line, err := t.State.Prompt(prompt)
	if err == nil && strings.TrimSpace(line) != "" {
		t.AppendHistory(line)
	}
	return line, err
}

func (t *term) Close() error {
	if t.hist != "" {
		if f, err := os.Create(t.hist); err == nil {
			_, _ = t.WriteHistory(f)
			f.Close()
		}
	}
	return t.State.Close()
}
