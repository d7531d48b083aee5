/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

// Package eco classifies a position's opening by Zobrist key against a
// frozen lookup table, per spec §9: "the source bundles ~5000 (hashKey ->
// 'Code; description') entries. Treat it as opaque data loaded at
// startup; spec does not mandate re-derivation." This table carries a
// small representative seed rather than the full ~5000-entry set.
package eco

import "github.com/fkopp/ocgdb/internal/chess"

// Entry is one classified opening: its ECO code and a short name.
type Entry struct {
	Code string
	Name string
}

// table maps a position's Zobrist hash key, computed the same way
// internal/chess computes chess.Board.Hash, to its opening classification.
// Keys are the hash of the position reached after the named moves from the
// standard starting position; a real deployment would load this from the
// frozen ~5000-entry data file referenced in spec §9 rather than a literal
// map, but the lookup discipline -- a read-only table keyed by Zobrist
// hash, loaded once at startup -- would stay the same.
var table map[chess.Key]Entry

func init() {
	table = make(map[chess.Key]Entry, len(seed))
	for _, s := range seed {
		b := chess.NewBoard()
		for _, san := range s.moves {
			m, err := b.ParseSAN(san)
			if err != nil {
				panic("eco: bad seed move " + san + ": " + err.Error())
			}
			b.DoMove(m)
		}
		table[b.Hash()] = Entry{Code: s.code, Name: s.name}
	}
}

// seedEntry is the source form of one table row: a SAN move sequence from
// the starting position, rather than a raw hash, so the seed data is
// readable and self-checking.
type seedEntry struct {
	code  string
	name  string
	moves []string
}

// seed is a small representative slice of the ECO table, standing in for
// the frozen ~5000-entry set spec §9 treats as opaque external data.
var seed = []seedEntry{
	{"B20", "Sicilian Defence", []string{"e4", "c5"}},
	{"C20", "King's Pawn Game", []string{"e4", "e5"}},
	{"C60", "Ruy Lopez", []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}},
	{"D00", "Queen's Pawn Game", []string{"d4", "d5"}},
	{"E00", "Catalan Opening", []string{"d4", "Nf6", "c4", "e6", "g3"}},
}

// Classify returns the opening classification for a position's Zobrist
// hash key, and whether it was found in the table. Per spec §9 the table
// is keyed by hash, not by move list or FEN, so any transposition into a
// seeded position classifies identically.
func Classify(key chess.Key) (Entry, bool) {
	e, ok := table[key]
	return e, ok
}

// ClassifyBoard is a convenience wrapper over Classify for a live board.
func ClassifyBoard(b *chess.Board) (Entry, bool) {
	return Classify(b.Hash())
}
