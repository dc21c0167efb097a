// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command board-ctl serves the registers of a softcore board over TCP.
//
// Usage:
//
//	$> board-ctl -addr :8877 -board de0
//	$> board-ctl -addr :8877 -cfg ./de0-nano.yaml
//	$> board-ctl -addr :8877 -db softcore -board de0-lab
package main // import "github.com/go-lpc/softcore/cmd/board-ctl"

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/go-lpc/softcore/board"
	"github.com/go-lpc/softcore/ctl"
	"github.com/go-lpc/softcore/internal/boardcfg"
)

func main() {
	log.SetPrefix("board-ctl: ")
	log.SetFlags(0)

	var (
		addr   = flag.String("addr", ":8877", "[ip]:port to listen on")
		name   = flag.String("board", "de0", "name of the board")
		cfg    = flag.String("cfg", "", "path to a YAML board description")
		db     = flag.String("db", "", "name of the softcore database holding the board description")
		devmem = flag.String("dev-mem", "/dev/mem", "path to the physical memory device")
	)

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, *addr, *devmem, boardcfg.Source{
		Board: *name,
		File:  *cfg,
		DB:    *db,
	})
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(ctx context.Context, addr, devmem string, src boardcfg.Source) error {
	name, decls, err := boardcfg.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("could not load board description: %w", err)
	}

	brd, mem, err := board.Map(devmem, name, decls, board.WithLogger(log.Default()))
	if err != nil {
		return fmt.Errorf("could not open board %q: %w", name, err)
	}
	defer mem.Close()

	log.Printf("serving board %q on %q...", name, addr)
	err = ctl.Serve(ctx, addr, brd, ctl.WithLogger(log.Default()))
	if err != nil {
		return fmt.Errorf("could not serve board %q: %w", name, err)
	}

	return nil
}
