// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlBoard struct {
	Board     string `yaml:"board"`
	Registers []Decl `yaml:"registers"`
}

// LoadYAML reads a board description:
//
//	board: de0
//	registers:
//	  - {name: led, addr: 0x10000210, width: 9, offset: 0}
//	  - {name: sw,  addr: 0x10000220, width: 9, offset: 0}
func LoadYAML(r io.Reader) (name string, decls []Decl, err error) {
	var raw yamlBoard
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err = dec.Decode(&raw)
	if err != nil {
		return "", nil, fmt.Errorf("board: could not decode YAML board description: %w", err)
	}

	if raw.Board == "" {
		return "", nil, fmt.Errorf("board: YAML board description without board name")
	}

	return raw.Board, raw.Registers, nil
}

// LoadFile reads the YAML board description fname.
func LoadFile(fname string) (name string, decls []Decl, err error) {
	f, err := os.Open(fname)
	if err != nil {
		return "", nil, fmt.Errorf("board: could not open board description: %w", err)
	}
	defer f.Close()

	return LoadYAML(f)
}
