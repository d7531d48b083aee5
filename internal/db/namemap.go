/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// NameMap deduplicates a name (event or site) against its table, caching
// name->ID lookups in memory so concurrent ingest workers don't round-trip
// to SQLite for every repeated Event/Site tag. Grounded on spec §6's
// dimension-table shape (Events/Sites are "same shape" per the spec). One
// mutex guards the cache and is held across the SQL lookup and any insert,
// so concurrent workers resolve a given name one at a time.
type NameMap struct {
	mu     sync.Mutex
	cache  map[string]int64
	db     *sql.DB
	table  string
	insert *sql.Stmt
	selectStmt *sql.Stmt
}

// NewNameMap prepares the statements for table (must be "Events" or
// "Sites") and preloads nothing -- the cache fills lazily on first use.
func NewNameMap(ctx context.Context, conn *sql.DB, table string) (*NameMap, error) {
	insert, err := conn.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (Name) VALUES (?)`, table))
	if err != nil {
		return nil, fmt.Errorf("db: prepare %s insert: %w", table, err)
	}
	sel, err := conn.PrepareContext(ctx, fmt.Sprintf(
		`SELECT ID FROM %s WHERE Name = ?`, table))
	if err != nil {
		insert.Close()
		return nil, fmt.Errorf("db: prepare %s select: %w", table, err)
	}
	return &NameMap{
		cache:   make(map[string]int64),
		db:      conn,
		table:   table,
		insert:  insert,
		selectStmt: sel,
	}, nil
}

// ID returns the row ID for name, inserting a new row if none exists yet.
// The empty string always maps to row 1, seeded by Migrate.
func (m *NameMap) ID(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.cache[name]; ok {
		return id, nil
	}

	var id int64
	err := m.selectStmt.QueryRowContext(ctx, name).Scan(&id)
	switch {
	case err == nil:
		m.cache[name] = id
		return id, nil
	case err != sql.ErrNoRows:
		return 0, fmt.Errorf("db: lookup %s %q: %w", m.table, name, err)
	}

	res, err := m.insert.ExecContext(ctx, name)
	if err != nil {
		// Lost the race against another worker inserting the same name;
		// re-select rather than surfacing a UNIQUE constraint error.
		if selErr := m.selectStmt.QueryRowContext(ctx, name).Scan(&id); selErr == nil {
			m.cache[name] = id
			return id, nil
		}
		return 0, fmt.Errorf("db: insert %s %q: %w", m.table, name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("db: %s %q last insert id: %w", m.table, name, err)
	}
	m.cache[name] = id
	return id, nil
}

// Close releases the prepared statements.
func (m *NameMap) Close() error {
	m.insert.Close()
	return m.selectStmt.Close()
}

// PlayerMap is NameMap's counterpart for Players, which additionally
// carries an Elo rating per spec §6's Players table.
type PlayerMap struct {
	mu     sync.Mutex
	cache  map[string]int64
	insert *sql.Stmt
	selectStmt *sql.Stmt
	update *sql.Stmt
}

// NewPlayerMap prepares the Players statements.
func NewPlayerMap(ctx context.Context, conn *sql.DB) (*PlayerMap, error) {
	insert, err := conn.PrepareContext(ctx, `INSERT INTO Players (Name, Elo) VALUES (?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("db: prepare Players insert: %w", err)
	}
	sel, err := conn.PrepareContext(ctx, `SELECT ID FROM Players WHERE Name = ?`)
	if err != nil {
		insert.Close()
		return nil, fmt.Errorf("db: prepare Players select: %w", err)
	}
	upd, err := conn.PrepareContext(ctx, `UPDATE Players SET Elo = ? WHERE ID = ? AND Elo < ?`)
	if err != nil {
		insert.Close()
		sel.Close()
		return nil, fmt.Errorf("db: prepare Players update: %w", err)
	}
	return &PlayerMap{cache: make(map[string]int64), insert: insert, selectStmt: sel, update: upd}, nil
}

// ID returns the row ID for a player name, recording elo on first sight
// and bumping it on a later higher rating for the same name (a player's
// Elo drifts across games; the schema keeps the latest-known high-water
// mark, not a per-game value -- WhiteElo/BlackElo on Games carries the
// per-game rating instead).
func (m *PlayerMap) ID(ctx context.Context, name string, elo int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.cache[name]; ok {
		if elo > 0 {
			if _, err := m.update.ExecContext(ctx, elo, id, elo); err != nil {
				return 0, fmt.Errorf("db: update player %q elo: %w", name, err)
			}
		}
		return id, nil
	}

	var id int64
	err := m.selectStmt.QueryRowContext(ctx, name).Scan(&id)
	switch {
	case err == nil:
		if elo > 0 {
			if _, err := m.update.ExecContext(ctx, elo, id, elo); err != nil {
				return 0, fmt.Errorf("db: update player %q elo: %w", name, err)
			}
		}
		m.cache[name] = id
		return id, nil
	case err != sql.ErrNoRows:
		return 0, fmt.Errorf("db: lookup player %q: %w", name, err)
	}

	res, err := m.insert.ExecContext(ctx, name, elo)
	if err != nil {
		if selErr := m.selectStmt.QueryRowContext(ctx, name).Scan(&id); selErr == nil {
			m.cache[name] = id
			return id, nil
		}
		return 0, fmt.Errorf("db: insert player %q: %w", name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("db: player %q last insert id: %w", name, err)
	}
	m.cache[name] = id
	return id, nil
}

// Close releases the prepared statements.
func (m *PlayerMap) Close() error {
	m.insert.Close()
	m.update.Close()
	return m.selectStmt.Close()
}
