// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package boardcfg resolves the register declarations of a board from
// the command line of the softcore tools.
package boardcfg // import "github.com/go-lpc/softcore/internal/boardcfg"

import (
	"context"
	"fmt"

	"github.com/go-lpc/softcore/board"
	"github.com/go-lpc/softcore/boarddb"
)

// Source describes where to find the declarations of a board.
type Source struct {
	Board string // name of a built-in board, or of a board in the database
	File  string // YAML board description
	DB    string // name of the softcore database
}

var openDB = func(name string) (registry, error) {
	return boarddb.Open(name)
}

type registry interface {
	Registers(ctx context.Context, board string) ([]board.Decl, error)
	Close() error
}

// Load returns the name and the register declarations of the board
// described by src.
// A YAML file takes precedence over the database, which takes
// precedence over the built-in boards.
func Load(ctx context.Context, src Source) (string, []board.Decl, error) {
	switch {
	case src.File != "":
		return board.LoadFile(src.File)

	case src.DB != "":
		if src.Board == "" {
			return "", nil, fmt.Errorf("boardcfg: no board name for db %q", src.DB)
		}
		db, err := openDB(src.DB)
		if err != nil {
			return "", nil, fmt.Errorf("boardcfg: could not open db: %w", err)
		}
		defer db.Close()

		decls, err := db.Registers(ctx, src.Board)
		if err != nil {
			return "", nil, fmt.Errorf("boardcfg: could not load board %q: %w", src.Board, err)
		}
		return src.Board, decls, nil

	default:
		decls, ok := board.Known(src.Board)
		if !ok {
			return "", nil, fmt.Errorf(
				"boardcfg: unknown board %q (known boards: %q)",
				src.Board, board.KnownNames(),
			)
		}
		return src.Board, decls, nil
	}
}
