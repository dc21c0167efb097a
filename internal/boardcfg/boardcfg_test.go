// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package boardcfg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-lpc/softcore/board"
)

type fakeDB struct {
	boards map[string][]board.Decl
	closed bool
}

func (db *fakeDB) Registers(ctx context.Context, name string) ([]board.Decl, error) {
	decls, ok := db.boards[name]
	if !ok {
		return nil, fmt.Errorf("no register declared for board %q", name)
	}
	return decls, nil
}

func (db *fakeDB) Close() error {
	db.closed = true
	return nil
}

func TestLoad(t *testing.T) {
	db := &fakeDB{
		boards: map[string][]board.Decl{
			"de0-lab": board.DE0Decls[:2],
		},
	}
	defer func(f func(string) (registry, error)) { openDB = f }(openDB)
	openDB = func(name string) (registry, error) {
		if name != "softcore" {
			return nil, fmt.Errorf("unknown db %q", name)
		}
		return db, nil
	}

	fname := filepath.Join(t.TempDir(), "nano.yaml")
	err := os.WriteFile(fname, []byte(`board: nano
registers:
  - {name: led, addr: 0x10000100, width: 7}
`), 0644)
	if err != nil {
		t.Fatalf("could not create board file: %+v", err)
	}

	for _, tc := range []struct {
		name  string
		src   Source
		board string
		decls []board.Decl
		err   bool
	}{
		{
			name:  "builtin",
			src:   Source{Board: "de0-nano"},
			board: "de0-nano",
			decls: board.DE0NanoDecls,
		},
		{
			name:  "file",
			src:   Source{Board: "de0", File: fname},
			board: "nano",
			decls: board.DE0NanoDecls[:1],
		},
		{
			name:  "db",
			src:   Source{Board: "de0-lab", DB: "softcore"},
			board: "de0-lab",
			decls: board.DE0Decls[:2],
		},
		{
			name: "unknown-builtin",
			src:  Source{Board: "de1"},
			err:  true,
		},
		{
			name: "db-no-board",
			src:  Source{DB: "softcore"},
			err:  true,
		},
		{
			name: "db-unknown-board",
			src:  Source{Board: "de1", DB: "softcore"},
			err:  true,
		},
		{
			name: "db-unknown-db",
			src:  Source{Board: "de0-lab", DB: "other"},
			err:  true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			name, decls, err := Load(context.Background(), tc.src)
			switch {
			case err != nil && tc.err:
				return
			case err != nil:
				t.Fatalf("could not load board: %+v", err)
			case tc.err:
				t.Fatalf("expected an error")
			}

			if got, want := name, tc.board; got != want {
				t.Fatalf("invalid board name: got=%q, want=%q", got, want)
			}
			if got, want := decls, tc.decls; !reflect.DeepEqual(got, want) {
				t.Fatalf("invalid declarations:\ngot= %+v\nwant=%+v", got, want)
			}
		})
	}

	if !db.closed {
		t.Fatalf("db not closed")
	}
}
