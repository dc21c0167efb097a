// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package boarddb retrieves board register declarations from the
// softcore configuration database.
//
// The database holds a single table:
//
//	CREATE TABLE registers (
//		id     INT AUTO_INCREMENT PRIMARY KEY,
//		board  VARCHAR(64) NOT NULL,
//		name   VARCHAR(64) NOT NULL,
//		addr   INT UNSIGNED NOT NULL,
//		width  INT NOT NULL,
//		offset INT NOT NULL
//	);
package boarddb // import "github.com/go-lpc/softcore/boarddb"

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/go-lpc/softcore/board"
	"github.com/go-sql-driver/mysql"
)

var (
	drvName = "mysql"
	timeout = 5 * time.Second
)

// DB exposes convenience methods to retrieve board declarations
// from the softcore database.
type DB struct {
	db   *sql.DB
	name string // name of the softcore database
}

// Open opens a connection to the softcore database dbname.
//
// The server address and credentials are taken from the
// SOFTCORE_DB_ADDR, SOFTCORE_DB_USER and SOFTCORE_DB_PASS
// environment variables.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("boarddb: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(db string) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = getenv("SOFTCORE_DB_ADDR", "localhost:3306")
	cfg.User = getenv("SOFTCORE_DB_USER", "softcore")
	cfg.Passwd = os.Getenv("SOFTCORE_DB_PASS")
	cfg.DBName = db
	cfg.Timeout = timeout
	return cfg.FormatDSN()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("boarddb: could not ping %q db: %w", dbname, err)
	}

	return nil
}

// Name returns the name of the database.
func (db *DB) Name() string { return db.name }

// Close closes the connection to the database.
func (db *DB) Close() error {
	return db.db.Close()
}

// Boards returns the sorted names of the boards declared in the database.
func (db *DB) Boards(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rows, err := db.db.QueryContext(
		ctx,
		"SELECT DISTINCT board FROM registers ORDER BY board",
	)
	if err != nil {
		return nil, fmt.Errorf("boarddb: could not query boards: %w", err)
	}
	defer rows.Close()

	var boards []string
	for rows.Next() {
		var name string
		err = rows.Scan(&name)
		if err != nil {
			return nil, fmt.Errorf("boarddb: could not get board name: %w", err)
		}
		boards = append(boards, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("boarddb: could not scan db for boards: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("boarddb: context error while retrieving boards: %w", err)
	}

	return boards, nil
}

// Registers returns the register declarations of the named board,
// in declaration order.
func (db *DB) Registers(ctx context.Context, name string) ([]board.Decl, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rows, err := db.db.QueryContext(
		ctx,
		"SELECT name, addr, width, offset FROM registers WHERE board=? ORDER BY id",
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("boarddb: could not query registers of board %q: %w", name, err)
	}
	defer rows.Close()

	var decls []board.Decl
	for rows.Next() {
		var decl board.Decl
		err = rows.Scan(&decl.Name, &decl.Addr, &decl.Width, &decl.Offset)
		if err != nil {
			return nil, fmt.Errorf("boarddb: could not get register of board %q: %w", name, err)
		}
		decls = append(decls, decl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("boarddb: could not scan db for registers of board %q: %w", name, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("boarddb: context error while retrieving registers of board %q: %w", name, err)
	}

	if len(decls) == 0 {
		return nil, fmt.Errorf("boarddb: no register declared for board %q", name)
	}

	return decls, nil
}
