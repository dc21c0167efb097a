// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lchika blinks the LEDs of a softcore board.
//
// Usage:
//
//	$> lchika -board de0 -pattern 0 -n 50
//	$> lchika -cfg ./de0-nano.yaml -pattern 1 -period 500ms
//
// Pattern 0 walks a toggled bit along the LEDs, pattern 1 lights every
// other LED and then blinks the whole row.
package main // import "github.com/go-lpc/softcore/cmd/lchika"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/go-lpc/softcore/board"
	"github.com/go-lpc/softcore/internal/boardcfg"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetPrefix("lchika: ")
	log.SetFlags(0)

	var (
		name    = flag.String("board", "de0", "name of the board")
		cfg     = flag.String("cfg", "", "path to a YAML board description")
		db      = flag.String("db", "", "name of the softcore database holding the board description")
		pattern = flag.Int("pattern", 0, "blink pattern (0: walk, 1: alternate)")
		n       = flag.Int("n", 0, "number of steps (0: run until interrupted)")
		period  = flag.Duration("period", 0, "period of a step (0: pattern default)")
		devmem  = flag.String("dev-mem", "/dev/mem", "path to the physical memory device")
	)

	flag.Parse()

	brd, mem, err := openBoard(*devmem, boardcfg.Source{
		Board: *name,
		File:  *cfg,
		DB:    *db,
	})
	if err != nil {
		log.Fatalf("%+v", err)
	}
	defer mem.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, brd, *pattern, *n, *period)
	if err != nil {
		log.Fatalf("could not blink board %q: %+v", brd.Name(), err)
	}
}

// openBoard maps the board described by src from devmem.
func openBoard(devmem string, src boardcfg.Source, opts ...board.Option) (*board.Board, io.Closer, error) {
	name, decls, err := boardcfg.Load(context.Background(), src)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load board description: %w", err)
	}

	opts = append([]board.Option{board.WithLogger(log.Default())}, opts...)
	brd, mem, err := board.Map(devmem, name, decls, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open board %q: %w", name, err)
	}
	return brd, mem, nil
}

type blinker struct {
	period time.Duration
	init   func(brd *board.Board) error
	step   func(brd *board.Board, i int) error
}

var patterns = []blinker{
	// walk a toggled bit along the LEDs.
	{
		period: 200 * time.Millisecond,
		init: func(brd *board.Board) error {
			led, err := brd.Lookup("led")
			if err != nil {
				return err
			}
			return led.ClearAll()
		},
		step: func(brd *board.Board, i int) error {
			led, err := brd.Lookup("led")
			if err != nil {
				return err
			}
			bit, err := led.Bit(i % led.Width())
			if err != nil {
				return err
			}
			return bit.Toggle()
		},
	},
	// light every other LED, then blink the whole row.
	{
		period: 300 * time.Millisecond,
		init: func(brd *board.Board) error {
			led, err := brd.Lookup("led")
			if err != nil {
				return err
			}
			err = led.ClearAll()
			if err != nil {
				return err
			}
			for i := 0; i < led.Width(); i += 2 {
				bit, err := led.Bit(i)
				if err != nil {
					return err
				}
				err = bit.Set()
				if err != nil {
					return err
				}
			}
			return nil
		},
		step: func(brd *board.Board, i int) error {
			led, err := brd.Lookup("led")
			if err != nil {
				return err
			}
			return led.ToggleAll()
		},
	},
}

// run blinks the LEDs of brd with the given pattern, for n steps or
// until ctx is canceled when n is zero.
func run(ctx context.Context, brd *board.Board, pattern, n int, period time.Duration) error {
	if pattern < 0 || pattern >= len(patterns) {
		return fmt.Errorf("invalid pattern %d", pattern)
	}
	if n < 0 {
		return fmt.Errorf("invalid number of steps %d", n)
	}

	p := patterns[pattern]
	if period <= 0 {
		period = p.period
	}
	ms := uint32(period / time.Millisecond)

	err := p.init(brd)
	if err != nil {
		return fmt.Errorf("could not initialize pattern %d: %w", pattern, err)
	}

	var (
		grp  errgroup.Group
		quit = make(chan struct{})
	)
	grp.Go(func() error {
		defer close(quit)
		for i := 0; n == 0 || i < n; i++ {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			err := p.step(brd, i)
			if err != nil {
				return fmt.Errorf("could not run step %d: %w", i, err)
			}
			brd.Sleep(ms)
		}
		return nil
	})
	grp.Go(func() error {
		select {
		case <-ctx.Done():
			log.Printf("interrupted")
		case <-quit:
		}
		return nil
	})

	return grp.Wait()
}
