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
	"github.com/fkopp/ocgdb/internal/eco"
	"github.com/fkopp/ocgdb/internal/logging"
	"github.com/fkopp/ocgdb/internal/pgn"
)

// MoveMode selects which move-blob column(s) a GameWriter populates, per
// spec §6's `-o` option list (moves/moves1/moves2).
type MoveMode int

const (
	MoveModeSAN MoveMode = 1 << iota
	MoveMode1Byte
	MoveMode2Byte
)

// WriterOptions mirrors the `-o`/`-elo`/`-plycount` CLI flags of spec §6.
// These are per-run choices, not persisted configuration, so they are
// threaded through from cmd/ocgdb rather than living in internal/config.
type WriterOptions struct {
	Moves             MoveMode
	AcceptNewTags     bool
	DiscardComments   bool
	DiscardSites      bool
	DiscardNoElo      bool
	DiscardFEN        bool
	ResetECO          bool
	MinElo            int
	MinPlyCount       int
}

// knownTags is the recognized PGN tag set of spec §6's Games columns plus
// the three name-dedup dimension tags, matching
// original_source/src/records.cpp's knownPgnTagVec.
var knownTags = map[string]bool{
	"Event": true, "Site": true, "Date": true, "Round": true,
	"White": true, "WhiteElo": true, "Black": true, "BlackElo": true,
	"Result": true, "TimeControl": true, "ECO": true, "PlyCount": true,
	"FEN": true,
}

// GameWriter inserts parsed PGN games into the Games/Comments tables,
// deduplicating Events/Sites/Players through NameMap/PlayerMap.
// internal/ingest's Run creates a single GameWriter and shares it across
// every pool worker: its prepared statements are bound to the shared
// database handle and are safe for concurrent use, and the name maps
// serialize on their own mutexes. Workers hold no prepared statements of
// their own.
type GameWriter struct {
	db           *DB
	opts         WriterOptions
	events       *NameMap
	sites        *NameMap
	players      *PlayerMap
	insertGame   *sql.Stmt
	insertCmt    *sql.Stmt
}

// NewGameWriter prepares a writer against db with the given options.
func NewGameWriter(ctx context.Context, database *DB, opts WriterOptions) (*GameWriter, error) {
	events, err := NewNameMap(ctx, database.conn, "Events")
	if err != nil {
		return nil, err
	}
	sites, err := NewNameMap(ctx, database.conn, "Sites")
	if err != nil {
		return nil, err
	}
	players, err := NewPlayerMap(ctx, database.conn)
	if err != nil {
		return nil, err
	}

	insertGame, err := database.conn.PrepareContext(ctx, `
		INSERT INTO Games (EventID, SiteID, Date, Round, WhiteID, WhiteElo,
			BlackID, BlackElo, Result, TimeControl, ECO, PlyCount, FEN,
			Moves, Moves1, Moves2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("db: prepare Games insert: %w", err)
	}
	insertCmt, err := database.conn.PrepareContext(ctx,
		`INSERT INTO Comments (GameID, Ply, Comment) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("db: prepare Comments insert: %w", err)
	}

	return &GameWriter{
		db: database, opts: opts,
		events: events, sites: sites, players: players,
		insertGame: insertGame, insertCmt: insertCmt,
	}, nil
}

// Close releases the writer's prepared statements and name maps.
func (w *GameWriter) Close() error {
	w.insertGame.Close()
	w.insertCmt.Close()
	w.events.Close()
	w.sites.Close()
	return w.players.Close()
}

// ErrSkipped is returned by WriteGame for a semantically filtered game (low
// Elo, short ply count, unsupported variant) per spec §7's "Input
// semantic" error kind: "game is silently filtered, no error logged."
var ErrSkipped = fmt.Errorf("db: game filtered")

// Written is what WriteGame reports back for a successfully inserted
// game: its new row ID plus the replayed move list and starting FEN,
// handed to internal/ingest's duplicate-detector step without a second
// database round trip.
type Written struct {
	ID       int64
	Moves    []chess.Move
	StartFEN string
}

// WriteGame parses, filters, replays, encodes, and inserts one PGN game.
// It returns ErrSkipped if the game was filtered rather than an actual
// error.
func (w *GameWriter) WriteGame(ctx context.Context, g pgn.Game) (Written, error) {
	if !w.opts.AcceptNewTags {
		for tag := range g.Tags {
			if !knownTags[tag] {
				delete(g.Tags, tag)
			}
		}
	}

	whiteElo := atoiOr(g.Tags["WhiteElo"], 0)
	blackElo := atoiOr(g.Tags["BlackElo"], 0)
	if w.opts.DiscardNoElo && (whiteElo == 0 || blackElo == 0) {
		return Written{}, ErrSkipped
	}
	if w.opts.MinElo > 0 && (whiteElo < w.opts.MinElo || blackElo < w.opts.MinElo) {
		return Written{}, ErrSkipped
	}

	startFEN := chess.StartFen
	if fen, ok := g.Tags["FEN"]; ok && fen != "" {
		startFEN = fen
	}

	sanTokens, comments := pgn.ParseMoveText(g.MoveText, w.opts.DiscardComments)

	b := chess.NewBoard(startFEN)
	moves := make([]chess.Move, 0, len(sanTokens))
	for _, san := range sanTokens {
		m, err := b.ParseSAN(san)
		if err != nil {
			logging.GetIngestLog().Debugf("db: dropping game with illegal SAN %q: %v", san, err)
			return Written{}, fmt.Errorf("db: illegal move %q: %w", san, err)
		}
		b.DoMove(m)
		moves = append(moves, m)
	}

	if len(moves) < w.opts.MinPlyCount {
		return Written{}, ErrSkipped
	}

	ecoCode := g.Tags["ECO"]
	if w.opts.ResetECO || ecoCode == "" {
		if entry, ok := eco.ClassifyBoard(b); ok {
			ecoCode = entry.Code
		}
	}

	eventID, err := w.events.ID(ctx, g.Tags["Event"])
	if err != nil {
		return Written{}, err
	}
	siteID := int64(1)
	if !w.opts.DiscardSites {
		if siteID, err = w.sites.ID(ctx, g.Tags["Site"]); err != nil {
			return Written{}, err
		}
	}
	whiteID, err := w.players.ID(ctx, g.Tags["White"], whiteElo)
	if err != nil {
		return Written{}, err
	}
	blackID, err := w.players.ID(ctx, g.Tags["Black"], blackElo)
	if err != nil {
		return Written{}, err
	}

	var sanCol sql.NullString
	var moves1Col, moves2Col []byte
	if w.opts.Moves&MoveModeSAN != 0 {
		sanCol = sql.NullString{String: strings.Join(sanTokens, " "), Valid: true}
	}
	if w.opts.Moves&MoveMode1Byte != 0 {
		if moves1Col, err = codec.EncodeMoves1(moves, startFEN); err != nil {
			return Written{}, fmt.Errorf("db: encode moves1: %w", err)
		}
	}
	if w.opts.Moves&MoveMode2Byte != 0 {
		if moves2Col, err = codec.EncodeMoves2(moves); err != nil {
			return Written{}, fmt.Errorf("db: encode moves2: %w", err)
		}
	}

	fenCol := sql.NullString{}
	if !w.opts.DiscardFEN {
		fenCol = sql.NullString{String: startFEN, Valid: startFEN != chess.StartFen}
	}

	res, err := w.insertGame.ExecContext(ctx,
		eventID, siteID, normalizeDate(g.Tags["Date"]), g.Tags["Round"],
		whiteID, whiteElo, blackID, blackElo,
		g.Tags["Result"], g.Tags["TimeControl"], ecoCode, len(moves),
		fenCol, sanCol, nullBytes(moves1Col), nullBytes(moves2Col))
	if err != nil {
		return Written{}, fmt.Errorf("db: insert game: %w", err)
	}
	gameID, err := res.LastInsertId()
	if err != nil {
		return Written{}, fmt.Errorf("db: game last insert id: %w", err)
	}

	for k, text := range comments {
		ply := k
		if k == 0 {
			ply = -1 // pre-move (first) comment, per spec §6's Comments.Ply convention
		}
		// Parsing and re-rendering here (rather than storing the raw text
		// verbatim) normalizes TCEC-style "d=", "sd=", "wv=", "pv=" engine
		// annotations into a canonical key order, so export.go's re-parse
		// round-trips through EvalRecord instead of passing bytes through.
		recs, rest := pgn.ParseEvalComment(text)
		stored := pgn.RenderEvalComment(recs, rest)
		if _, err := w.insertCmt.ExecContext(ctx, gameID, ply, stored); err != nil {
			logging.GetIngestLog().Warningf("db: insert comment for game %d ply %d: %v", gameID, ply, err)
		}
	}

	return Written{ID: gameID, Moves: moves, StartFEN: startFEN}, nil
}

func nullBytes(b []byte) interface{} {
	if b == nil {
		return nil
	}
	return b
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// normalizeDate converts a PGN date ("YYYY.MM.DD") to ISO ("YYYY-MM-DD")
// for storage, per spec §6: "Dates are normalized ISO ... on input to the
// database and converted back to PGN dot-separated form on export."
func normalizeDate(pgnDate string) string {
	return strings.ReplaceAll(pgnDate, ".", "-")
}
