// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/go-lpc/softcore/board"
	"github.com/go-lpc/softcore/hwreg"
	"golang.org/x/sync/errgroup"
)

// Option configures a control server.
type Option func(*server)

// WithLogger sets the logger of the control server.
func WithLogger(msg *log.Logger) Option {
	return func(srv *server) {
		srv.msg = msg
	}
}

// server allows to control the registers of a board.
type server struct {
	ctl net.Listener
	msg *log.Logger
	brd *board.Board

	mu   sync.Mutex
	conn net.Conn // connection being served
	quit bool
}

// Serve listens on the TCP network address addr and serves the
// registers of brd until ctx is canceled.
// Connections are handled one at a time.
func Serve(ctx context.Context, addr string, brd *board.Board, opts ...Option) error {
	srv, err := newServer(addr, brd, opts...)
	if err != nil {
		return fmt.Errorf("ctl: could not create server: %w", err)
	}
	return srv.serve(ctx)
}

func newServer(addr string, brd *board.Board, opts ...Option) (*server, error) {
	ctl, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not listen on %q: %w", addr, err)
	}

	srv := &server{
		ctl: ctl,
		msg: log.New(os.Stdout, "ctl: ", 0),
		brd: brd,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv, nil
}

func (srv *server) serve(ctx context.Context) error {
	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		<-ctx.Done()
		srv.shutdown()
		return srv.ctl.Close()
	})
	grp.Go(func() error {
		for {
			conn, err := srv.ctl.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return nil
				default:
					return fmt.Errorf("ctl: could not accept connection: %w", err)
				}
			}

			err = srv.handle(conn)
			if err != nil {
				srv.msg.Printf("could not serve %v: %+v", conn.RemoteAddr(), err)
			}
		}
	})

	return grp.Wait()
}

// shutdown closes the connection being served, if any, and makes
// the server drop connections accepted afterwards.
func (srv *server) shutdown() {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.quit = true
	if srv.conn != nil {
		_ = srv.conn.Close()
	}
}

func (srv *server) track(conn net.Conn) bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.quit {
		return false
	}
	srv.conn = conn
	return true
}

func (srv *server) untrack() {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.conn = nil
}

func (srv *server) handle(conn net.Conn) error {
	defer conn.Close()
	if !srv.track(conn) {
		return nil
	}
	defer srv.untrack()
	srv.msg.Printf("serving %v...", conn.RemoteAddr())
	defer srv.msg.Printf("serving %v... [done]", conn.RemoteAddr())

	var (
		dec = json.NewDecoder(conn)
		enc = json.NewEncoder(conn)
	)
	for {
		var req Request
		err := dec.Decode(&req)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			srv.msg.Printf("could not decode command request: %+v", err)
			_ = enc.Encode(Reply{Msg: fmt.Sprintf("%+v", err)})
			return fmt.Errorf("could not decode command request: %w", err)
		}

		rep, err := srv.exec(req)
		if err != nil {
			srv.msg.Printf("could not run %q: %+v", req.Name, err)
			rep = Reply{Msg: fmt.Sprintf("%+v", err)}
		}

		err = enc.Encode(rep)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("could not send %q reply: %w", req.Name, err)
		}
	}
}

func (srv *server) exec(req Request) (Reply, error) {
	rep := Reply{Msg: msgOK}
	args := req.Args
	if args == nil {
		args = new(Args)
	}

	switch name := strings.ToLower(req.Name); name {
	case "list":
		rep.Names = srv.brd.Names()
		return rep, nil

	case "dump":
		o := new(strings.Builder)
		err := srv.brd.Dump(o)
		if err != nil {
			return rep, err
		}
		rep.Dump = o.String()
		return rep, nil

	case "sleep":
		srv.brd.Sleep(args.Ms)
		return rep, nil

	case "read", "write", "set", "clear", "toggle":
		reg, err := srv.brd.Lookup(args.Reg)
		if err != nil {
			return rep, err
		}

		if args.Bit != nil {
			if name == "write" {
				return rep, fmt.Errorf("ctl: write takes no bit index")
			}
			bit, err := reg.Bit(*args.Bit)
			if err != nil {
				return rep, err
			}
			return srv.execBit(rep, name, bit)
		}

		switch name {
		case "read":
			rep.Value, err = reg.Read()
		case "write":
			err = reg.Write(args.Value)
		case "set":
			err = reg.SetAll()
		case "clear":
			err = reg.ClearAll()
		case "toggle":
			err = reg.ToggleAll()
		}
		return rep, err

	default:
		return rep, fmt.Errorf("ctl: unknown command %q", req.Name)
	}
}

func (srv *server) execBit(rep Reply, name string, bit hwreg.Bit) (Reply, error) {
	var err error
	switch name {
	case "read":
		var v bool
		v, err = bit.Read()
		if v {
			rep.Value = 1
		}
	case "set":
		err = bit.Set()
	case "clear":
		err = bit.Clear()
	case "toggle":
		err = bit.Toggle()
	}
	return rep, err
}
