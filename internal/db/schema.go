/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

// Package db is the relational store of spec §3/§6: SQLite schema, the
// Events/Sites/Players name-dedup maps, the game writer, the game reader
// (shared by the duplicate detector and the query engine), and PGN export.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fkopp/ocgdb/internal/logging"
)

// schemaSQL creates the tables of spec §6's "Database schema" paragraph.
// Move-blob columns (Moves/Moves1/Moves2) are always created; which ones a
// given run populates depends on WriterOptions.MoveMode, matching the
// spec's "move columns present depending on chosen options" -- an unused
// column is simply left NULL rather than omitted, which keeps the schema
// stable across runs that mix move-storage modes.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS Info (
	Name TEXT UNIQUE,
	Value TEXT
);
CREATE TABLE IF NOT EXISTS Events (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	Name TEXT UNIQUE
);
CREATE TABLE IF NOT EXISTS Sites (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	Name TEXT UNIQUE
);
CREATE TABLE IF NOT EXISTS Players (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	Name TEXT UNIQUE,
	Elo INTEGER
);
CREATE TABLE IF NOT EXISTS Games (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	EventID INTEGER REFERENCES Events(ID),
	SiteID INTEGER REFERENCES Sites(ID),
	Date TEXT,
	Round TEXT,
	WhiteID INTEGER REFERENCES Players(ID),
	WhiteElo INTEGER,
	BlackID INTEGER REFERENCES Players(ID),
	BlackElo INTEGER,
	Result TEXT,
	TimeControl TEXT,
	ECO TEXT,
	PlyCount INTEGER,
	FEN TEXT,
	Moves TEXT,
	Moves1 BLOB,
	Moves2 BLOB
);
CREATE TABLE IF NOT EXISTS Comments (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	GameID INTEGER,
	Ply INTEGER,
	Comment TEXT
);
CREATE INDEX IF NOT EXISTS idx_comments_gameid ON Comments(GameID);
`

// DB wraps a *sql.DB opened against a SQLite file, matching
// DbCore::openDB's readonly/readwrite distinction.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates, if !readonly) the SQLite database at path.
func Open(path string, readonly bool) (*DB, error) {
	dsn := path
	if readonly {
		dsn += "?mode=ro"
	}
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", path, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: open %s: %w", path, err)
	}
	return &DB{conn: conn}, nil
}

// Conn exposes the underlying *sql.DB for callers (e.g. the ingest
// pipeline's per-worker prepared statements) that need direct access.
func (d *DB) Conn() *sql.DB { return d.conn }

// Close releases the database handle.
func (d *DB) Close() error { return d.conn.Close() }

// Migrate creates the schema and seeds row 1 of Events/Sites/Players with
// the empty string, per spec §6: "row 1 is the empty string" /
// "row 1 is empty."
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	for _, table := range []string{"Events", "Sites"} {
		if err := d.seedEmptyRow(ctx, table); err != nil {
			return err
		}
	}
	if _, err := d.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO Players (ID, Name, Elo) VALUES (1, '', 0)`); err != nil {
		return fmt.Errorf("db: seed Players row 1: %w", err)
	}
	return d.seedInfo(ctx)
}

func (d *DB) seedEmptyRow(ctx context.Context, table string) error {
	_, err := d.conn.ExecContext(ctx,
		fmt.Sprintf(`INSERT OR IGNORE INTO %s (ID, Name) VALUES (1, '')`, table))
	if err != nil {
		return fmt.Errorf("db: seed %s row 1: %w", table, err)
	}
	return nil
}

func (d *DB) seedInfo(ctx context.Context) error {
	seeds := map[string]string{
		"Data Structure Version": "1",
		"Version":                "1",
		"Variant":                "standard",
		"License":                "",
		"GameCount":               "0",
		"PlayerCount":             "0",
		"EventCount":              "0",
		"SiteCount":               "0",
		"CommentCount":            "0",
	}
	for name, value := range seeds {
		_, err := d.conn.ExecContext(ctx,
			`INSERT OR IGNORE INTO Info (Name, Value) VALUES (?, ?)`, name, value)
		if err != nil {
			return fmt.Errorf("db: seed Info %s: %w", name, err)
		}
	}
	return nil
}

// SetInfo upserts one Info row, used for the GameCount/PlayerCount/... etc.
// running totals DbCore::queryInfo reads back at query time.
func (d *DB) SetInfo(ctx context.Context, name, value string) error {
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO Info (Name, Value) VALUES (?, ?)
		 ON CONFLICT(Name) DO UPDATE SET Value = excluded.Value`, name, value)
	if err != nil {
		logging.GetLog().Errorf("db: set info %s: %v", name, err)
	}
	return err
}
