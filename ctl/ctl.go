// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ctl exposes the registers of a board over a JSON-over-TCP
// control protocol.
//
// A request is a JSON object:
//
//	{"name": "toggle", "args": {"reg": "led", "bit": 3}}
//
// and every request is answered by a reply:
//
//	{"msg": "ok", "value": 8}
//
// where msg holds the error message of a failed request.
package ctl // import "github.com/go-lpc/softcore/ctl"

// Request is a command sent to a control server.
type Request struct {
	Name string `json:"name"`
	Args *Args  `json:"args,omitempty"`
}

// Args are the arguments of a command.
// Bit selects a single bit of the register when non-nil.
type Args struct {
	Reg   string `json:"reg,omitempty"`
	Bit   *int   `json:"bit,omitempty"`
	Value uint32 `json:"value,omitempty"`
	Ms    uint32 `json:"ms,omitempty"`
}

// Reply is the answer of a control server to a request.
type Reply struct {
	Msg   string   `json:"msg"`
	Value uint32   `json:"value,omitempty"`
	Names []string `json:"names,omitempty"`
	Dump  string   `json:"dump,omitempty"`
}

const msgOK = "ok"
