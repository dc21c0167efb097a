// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command board-tdaq starts a TDAQ process sampling the registers of a
// softcore board.
//
// Usage:
//
//	$> board-tdaq -id board-de0 -rc-addr :44000 -freq 100ms de0
//
// The /config command binds the board named in its payload (or on the
// command line), /start starts sampling all the registers of the board
// and each sample is sent on the /regs output as:
//
//	u32 n
//	n * (str name, u32 value)
package main // import "github.com/go-lpc/softcore/cmd/board-tdaq"

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"
	"github.com/go-lpc/softcore/board"
	"github.com/go-lpc/softcore/internal/boardcfg"
)

func main() {
	var (
		freq   = flag.Duration("freq", 100*time.Millisecond, "sampling period")
		devmem = flag.String("dev-mem", "/dev/mem", "path to the physical memory device")
		cfg    = flag.String("cfg", "", "path to a YAML board description")
		db     = flag.String("db", "", "name of the softcore database holding the board description")
	)

	cmd := flags.New()

	name := "de0"
	if len(cmd.Args) > 0 {
		name = cmd.Args[0]
	}

	dev := newDevice(name, *devmem, *freq)
	dev.cfg = *cfg
	dev.db = *db

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.OutputHandle("/regs", dev.regs)

	srv.RunHandle(dev.run)

	err := srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

type device struct {
	name   string
	devmem string
	cfg    string // YAML board description
	db     string // softcore database
	freq   time.Duration

	open func(devmem, name string, decls []board.Decl) (*board.Board, io.Closer, error)

	mu   sync.Mutex
	brd  *board.Board
	mem  io.Closer
	data chan []byte
	n    int // number of samples
}

func newDevice(name, devmem string, freq time.Duration) *device {
	return &device{
		name:   name,
		devmem: devmem,
		freq:   freq,
		open: func(devmem, name string, decls []board.Decl) (*board.Board, io.Closer, error) {
			return board.Map(devmem, name, decls)
		},
		data: make(chan []byte, 1024),
	}
}

func (dev *device) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")

	name := dev.name
	if len(req.Body) > 0 {
		dec := tdaq.NewDecoder(bytes.NewReader(req.Body))
		name = dec.ReadStr()
		if err := dec.Err(); err != nil {
			ctx.Msg.Errorf("could not decode /config payload: %+v", err)
			return fmt.Errorf("could not decode /config payload: %w", err)
		}
	}

	err := dev.config(name)
	if err != nil {
		ctx.Msg.Errorf("could not configure board %q: %+v", name, err)
		return err
	}
	ctx.Msg.Infof("board %q configured", name)
	return nil
}

func (dev *device) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	dev.reset()
	return nil
}

func (dev *device) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	dev.reset()
	return nil
}

func (dev *device) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.brd == nil {
		return fmt.Errorf("no board configured")
	}
	return nil
}

func (dev *device) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	dev.mu.Lock()
	n := dev.n
	dev.mu.Unlock()
	ctx.Msg.Debugf("received /stop command... -> n=%d", n)
	return nil
}

func (dev *device) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	return dev.close()
}

func (dev *device) regs(ctx tdaq.Context, dst *tdaq.Frame) error {
	select {
	case <-ctx.Ctx.Done():
		dst.Body = nil
		return nil
	case data := <-dev.data:
		dst.Body = data
	}
	return nil
}

func (dev *device) run(ctx tdaq.Context) error {
	tick := time.NewTicker(dev.freq)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Ctx.Done():
			return nil
		case <-tick.C:
			raw, err := dev.sample()
			if err != nil {
				ctx.Msg.Errorf("could not sample registers: %+v", err)
				return fmt.Errorf("could not sample registers: %w", err)
			}
			select {
			case dev.data <- raw:
			default:
				ctx.Msg.Warnf("dropping sample: output queue full")
			}
		}
	}
}

// config binds the board name, releasing any previously bound board.
// The board is described by the YAML file or the database of the
// device when set, or is one of the built-in boards.
func (dev *device) config(name string) error {
	name, decls, err := boardcfg.Load(context.Background(), boardcfg.Source{
		Board: name,
		File:  dev.cfg,
		DB:    dev.db,
	})
	if err != nil {
		return fmt.Errorf("could not load board description: %w", err)
	}

	brd, mem, err := dev.open(dev.devmem, name, decls)
	if err != nil {
		return fmt.Errorf("could not open board %q: %w", name, err)
	}

	err = dev.close()
	if err != nil {
		_ = mem.Close()
		return err
	}

	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.brd = brd
	dev.mem = mem
	return nil
}

func (dev *device) reset() {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	dev.n = 0
	for {
		select {
		case <-dev.data:
		default:
			return
		}
	}
}

func (dev *device) close() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.mem == nil {
		return nil
	}
	err := dev.mem.Close()
	dev.brd = nil
	dev.mem = nil
	if err != nil {
		return fmt.Errorf("could not release board: %w", err)
	}
	return nil
}

// sample reads all the registers of the bound board.
func (dev *device) sample() ([]byte, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()

	if dev.brd == nil {
		return nil, fmt.Errorf("no board configured")
	}

	var (
		buf   = new(bytes.Buffer)
		enc   = tdaq.NewEncoder(buf)
		names = dev.brd.Names()
	)
	enc.WriteU32(uint32(len(names)))
	for _, name := range names {
		reg, err := dev.brd.Lookup(name)
		if err != nil {
			return nil, err
		}
		v, err := reg.Read()
		if err != nil {
			return nil, fmt.Errorf("could not read register %q: %w", name, err)
		}
		enc.WriteStr(name)
		enc.WriteU32(v)
	}
	if err := enc.Err(); err != nil {
		return nil, fmt.Errorf("could not encode sample: %w", err)
	}

	dev.n++
	return buf.Bytes(), nil
}
