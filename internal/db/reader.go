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
	"strconv"
	"strings"

	"github.com/fkopp/ocgdb/internal/chess"
	"github.com/fkopp/ocgdb/internal/codec"
	"github.com/fkopp/ocgdb/internal/dup"
)

// GameRecord is one decoded row, assembled from whichever move column was
// populated at write time.
type GameRecord struct {
	ID          int64
	Tags        map[string]string
	StartFEN    string
	Moves       []chess.Move
	Result      string
	ECO         string
	PlyCount    int
}

// Reader re-reads games by ID for Stage 2 duplicate confirmation
// (internal/dup.Lookup) and for the query engine's replay / PGN export
// paths, grounded on duplicate.cpp's getGameStatement ("SELECT FEN, Moves
// FROM Games WHERE ID = ?").
type Reader struct {
	db       *DB
	getGame  *sql.Stmt
}

// NewReader prepares the get-by-ID statement against db.
func NewReader(ctx context.Context, database *DB) (*Reader, error) {
	stmt, err := database.conn.PrepareContext(ctx, `
		SELECT e.Name, s.Name, g.Date, g.Round, w.Name, g.WhiteElo,
			b.Name, g.BlackElo, g.Result, g.TimeControl, g.ECO,
			g.PlyCount, g.FEN, g.Moves, g.Moves1, g.Moves2
		FROM Games g
		JOIN Events e ON e.ID = g.EventID
		JOIN Sites s ON s.ID = g.SiteID
		JOIN Players w ON w.ID = g.WhiteID
		JOIN Players b ON b.ID = g.BlackID
		WHERE g.ID = ?`)
	if err != nil {
		return nil, fmt.Errorf("db: prepare game select: %w", err)
	}
	return &Reader{db: database, getGame: stmt}, nil
}

// Close releases the reader's prepared statement.
func (r *Reader) Close() error { return r.getGame.Close() }

// AllIDs returns every game's ID in insertion order, for the query engine's
// "run this query against the whole database" sweep (spec §4.4 "search
// execution... across every game in the database").
func (r *Reader) AllIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.conn.QueryContext(ctx, `SELECT ID FROM Games ORDER BY ID`)
	if err != nil {
		return nil, fmt.Errorf("db: list game ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db: scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Get reads and decodes game id, preferring Moves1 then Moves2 then the
// plain SAN Moves column, whichever is present -- mirroring DbRead's
// "search field" selection across a database that may store any subset of
// the three move representations.
func (r *Reader) Get(ctx context.Context, id int64) (GameRecord, error) {
	var (
		event, site, date, round, white, black, result, tc, ecoCode string
		whiteElo, blackElo, plyCount                                int
		fenCol, sanMoves                                            sql.NullString
		moves1, moves2                                              []byte
	)
	row := r.getGame.QueryRowContext(ctx, id)
	err := row.Scan(&event, &site, &date, &round, &white, &whiteElo,
		&black, &blackElo, &result, &tc, &ecoCode, &plyCount, &fenCol,
		&sanMoves, &moves1, &moves2)
	if err != nil {
		return GameRecord{}, fmt.Errorf("db: get game %d: %w", id, err)
	}

	fen := fenCol.String
	startFEN := fen
	if startFEN == "" {
		startFEN = chess.StartFen
	}

	moves, err := decodeMoves(startFEN, sanMoves, moves1, moves2)
	if err != nil {
		return GameRecord{}, fmt.Errorf("db: decode game %d moves: %w", id, err)
	}

	tags := map[string]string{
		"Event": event, "Site": site, "Date": date, "Round": round,
		"White": white, "WhiteElo": strconv.Itoa(whiteElo),
		"Black": black, "BlackElo": strconv.Itoa(blackElo),
		"Result": result, "TimeControl": tc, "ECO": ecoCode,
		"PlyCount": strconv.Itoa(plyCount),
	}
	if fen != "" {
		tags["FEN"] = fen
	}

	return GameRecord{
		ID: id, Tags: tags, StartFEN: startFEN, Moves: moves,
		Result: result, ECO: ecoCode, PlyCount: plyCount,
	}, nil
}

// decodeMoves prefers Moves1 > Moves2 > plain SAN text, whichever column
// was actually populated at write time.
func decodeMoves(startFEN string, sanMoves sql.NullString, moves1, moves2 []byte) ([]chess.Move, error) {
	switch {
	case len(moves1) > 0:
		return codec.DecodeMoves1(moves1, startFEN)
	case len(moves2) > 0:
		return codec.DecodeMoves2(moves2)
	case sanMoves.Valid && sanMoves.String != "":
		return replaySAN(startFEN, sanMoves.String)
	default:
		return nil, nil
	}
}

func replaySAN(startFEN, text string) ([]chess.Move, error) {
	b := chess.NewBoard(startFEN)
	var moves []chess.Move
	for _, san := range strings.Fields(text) {
		m, err := b.ParseSAN(san)
		if err != nil {
			return nil, fmt.Errorf("replay %q: %w", san, err)
		}
		b.DoMove(m)
		moves = append(moves, m)
	}
	return moves, nil
}

// Comments returns id's stored comments keyed the way pgn.ParseMoveText and
// RenderPGN expect (0 = pre-move, k = after the k-th move).
func (r *Reader) Comments(ctx context.Context, id int64) (map[int]string, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT Ply, Comment FROM Comments WHERE GameID = ? ORDER BY Ply`, id)
	if err != nil {
		return nil, fmt.Errorf("db: list comments for game %d: %w", id, err)
	}
	defer rows.Close()

	out := make(map[int]string)
	for rows.Next() {
		var ply int
		var text string
		if err := rows.Scan(&ply, &text); err != nil {
			return nil, fmt.Errorf("db: scan comment for game %d: %w", id, err)
		}
		key := ply
		if ply < 0 {
			key = 0
		}
		out[key] = text
	}
	return out, rows.Err()
}

// Moves implements dup.Lookup for Stage 2 duplicate confirmation.
func (r *Reader) Moves(ctx context.Context, id dup.GameID) (dup.Record, error) {
	rec, err := r.Get(ctx, int64(id))
	if err != nil {
		return dup.Record{}, err
	}
	return dup.Record{ID: id, Moves: rec.Moves, StartFEN: rec.StartFEN}, nil
}
