// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadYAML(t *testing.T) {
	const cfg = `
board: de0
registers:
  - {name: hexled, addr: 0x10000200, width: 30, offset: 0}
  - {name: led,    addr: 0x10000210, width: 9,  offset: 0}
  - name: sw
    addr: 0x10000220
    width: 9
  - {name: button, addr: 0x10000230, width: 2,  offset: 1}
`
	name, decls, err := LoadYAML(strings.NewReader(cfg))
	if err != nil {
		t.Fatalf("could not load YAML board: %+v", err)
	}

	if got, want := name, "de0"; got != want {
		t.Fatalf("invalid board name: got=%q, want=%q", got, want)
	}

	if got, want := decls, DE0Decls; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid declarations:\ngot= %+v\nwant=%+v", got, want)
	}

	brd, err := New(name, newFakeMem().bus, decls, quiet)
	if err != nil {
		t.Fatalf("could not create board from YAML: %+v", err)
	}
	if got, want := len(brd.Names()), 4; got != want {
		t.Fatalf("invalid number of registers: got=%d, want=%d", got, want)
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		cfg  string
		want string
	}{
		{
			name: "no-board",
			cfg:  "registers: []\n",
			want: "board: YAML board description without board name",
		},
		{
			name: "unknown-field",
			cfg:  "board: de0\nregisters:\n  - {name: led, address: 0x10000210}\n",
			want: "field address not found in type board.Decl",
		},
		{
			name: "empty",
			cfg:  "",
			want: "board: could not decode YAML board description: EOF",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := LoadYAML(strings.NewReader(tc.cfg))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got, want := err.Error(), tc.want; !strings.Contains(got, want) {
				t.Fatalf("invalid error:\ngot= %s\nwant=%s", got, want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "de0-nano.yaml")
	err := os.WriteFile(fname, []byte(`board: de0-nano
registers:
  - {name: led,    addr: 0x10000100, width: 7}
  - {name: pushsw, addr: 0x10000110, width: 1}
  - {name: dipsw,  addr: 0x10000120, width: 3}
`), 0644)
	if err != nil {
		t.Fatalf("could not create board file: %+v", err)
	}

	name, decls, err := LoadFile(fname)
	if err != nil {
		t.Fatalf("could not load board file: %+v", err)
	}
	if got, want := name, "de0-nano"; got != want {
		t.Fatalf("invalid board name: got=%q, want=%q", got, want)
	}
	if got, want := decls, DE0NanoDecls; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid declarations:\ngot= %+v\nwant=%+v", got, want)
	}

	_, _, err = LoadFile(filepath.Join(t.TempDir(), "not-there.yaml"))
	if err == nil {
		t.Fatalf("expected an error")
	}
}
