/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package query

import (
	"github.com/fkopp/ocgdb/internal/chess"
	"github.com/fkopp/ocgdb/internal/config"
)

// Hit records one nonzero evaluation of a query tree against a game's
// replay, per spec §4.4's "Search execution" paragraph.
type Hit struct {
	Ply   int
	FEN   string
	Value int64
}

// Search replays moves from startFEN, evaluating tree after every ply
// (including ply 0, the starting position), and returns every hit. Unless
// exhaustive is true, replay stops at the first hit, matching spec §4.4:
// "the replay stops unless the caller requests exhaustive enumeration."
func Search(tree *Node, moves []chess.Move, startFEN string, exhaustive bool) []Hit {
	b := chess.NewBoard(startFEN)
	var hits []Hit

	record := func(ply int) bool {
		v := Evaluate(tree, b.Snapshot())
		if v == 0 {
			return false
		}
		h := Hit{Ply: ply, Value: v}
		if config.Settings.Query.IncludeFEN {
			h.FEN = b.FEN()
		}
		hits = append(hits, h)
		return true
	}

	if record(0) && !exhaustive {
		return hits
	}
	for i, m := range moves {
		b.DoMove(m)
		if record(i+1) && !exhaustive {
			return hits
		}
	}
	return hits
}
