// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctl

import (
	"encoding/json"
	"fmt"
	"net"
)

// Client sends commands to a control server.
type Client struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
}

// Dial connects to the control server at addr.
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("ctl: could not dial %q: %w", addr, err)
	}
	return &Client{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}, nil
}

// Close closes the connection to the control server.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) send(name string, args *Args) (Reply, error) {
	var rep Reply
	err := c.enc.Encode(Request{Name: name, Args: args})
	if err != nil {
		return rep, fmt.Errorf("ctl: could not send %q request: %w", name, err)
	}

	err = c.dec.Decode(&rep)
	if err != nil {
		return rep, fmt.Errorf("ctl: could not decode %q reply: %w", name, err)
	}

	if rep.Msg != msgOK {
		return rep, fmt.Errorf("ctl: %s failed: %s", name, rep.Msg)
	}
	return rep, nil
}

// List returns the names of the registers of the board.
func (c *Client) List() ([]string, error) {
	rep, err := c.send("list", nil)
	return rep.Names, err
}

// Dump returns the current values of all the registers of the board.
func (c *Client) Dump() (string, error) {
	rep, err := c.send("dump", nil)
	return rep.Dump, err
}

// Sleep suspends the server for ms milliseconds.
func (c *Client) Sleep(ms uint32) error {
	_, err := c.send("sleep", &Args{Ms: ms})
	return err
}

// Read returns the value of the register reg.
func (c *Client) Read(reg string) (uint32, error) {
	rep, err := c.send("read", &Args{Reg: reg})
	return rep.Value, err
}

// Write writes v to the register reg.
func (c *Client) Write(reg string, v uint32) error {
	_, err := c.send("write", &Args{Reg: reg, Value: v})
	return err
}

// Set sets all the bits of the register reg.
func (c *Client) Set(reg string) error {
	_, err := c.send("set", &Args{Reg: reg})
	return err
}

// Clear clears all the bits of the register reg.
func (c *Client) Clear(reg string) error {
	_, err := c.send("clear", &Args{Reg: reg})
	return err
}

// Toggle toggles all the bits of the register reg.
func (c *Client) Toggle(reg string) error {
	_, err := c.send("toggle", &Args{Reg: reg})
	return err
}

// ReadBit returns whether bit i of the register reg is set.
func (c *Client) ReadBit(reg string, i int) (bool, error) {
	rep, err := c.send("read", &Args{Reg: reg, Bit: &i})
	return rep.Value != 0, err
}

// SetBit sets bit i of the register reg.
func (c *Client) SetBit(reg string, i int) error {
	_, err := c.send("set", &Args{Reg: reg, Bit: &i})
	return err
}

// ClearBit clears bit i of the register reg.
func (c *Client) ClearBit(reg string, i int) error {
	_, err := c.send("clear", &Args{Reg: reg, Bit: &i})
	return err
}

// ToggleBit toggles bit i of the register reg.
func (c *Client) ToggleBit(reg string, i int) error {
	_, err := c.send("toggle", &Args{Reg: reg, Bit: &i})
	return err
}
