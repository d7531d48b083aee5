/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

// Package codec implements the two move-list blob encodings stored in the
// Games table's Moves1/Moves2 columns (spec §4.2): a fixed 2-byte codec and
// a variable 1-2 byte codec keyed on a per-side piece index.
package codec

import (
	"errors"
	"fmt"

	"github.com/fkopp/ocgdb/internal/chess"
)

// ErrAmbiguousPieceIndex is returned by the Moves1 decoder when a piece
// index does not resolve to exactly one board square for the side to move.
// This is the documented resolution of spec §9's open question: rather
// than guess, an encoding that cannot be disambiguated is rejected.
var ErrAmbiguousPieceIndex = errors.New("codec: ambiguous or missing piece index")

// pieceTracker assigns each of a side's starting pieces a stable index
// 0..15 and follows it across moves, including through promotion (a
// promoted piece keeps the index of the pawn that promoted) -- per spec
// §4.2 "pieces that promote do not get new indices".
type pieceTracker struct {
	squareToIndex [2]map[chess.Square]int8
	indexToSquare [2]map[int8]chess.Square
}

func newPieceTracker(b *chess.Board) *pieceTracker {
	t := &pieceTracker{}
	for c := chess.White; c <= chess.Black; c++ {
		t.squareToIndex[c] = make(map[chess.Square]int8, 16)
		t.indexToSquare[c] = make(map[int8]chess.Square, 16)
	}
	var next [2]int8
	for sq := chess.Square(0); sq < chess.SquareLength; sq++ {
		p := b.PieceAt(sq)
		if p.IsEmpty() {
			continue
		}
		idx := next[p.Color]
		next[p.Color]++
		t.squareToIndex[p.Color][sq] = idx
		t.indexToSquare[p.Color][idx] = sq
	}
	return t
}

// indexAt returns the tracked index of the piece on sq for color c.
func (t *pieceTracker) indexAt(c chess.Color, sq chess.Square) (int8, error) {
	idx, ok := t.squareToIndex[c][sq]
	if !ok {
		return 0, fmt.Errorf("codec: %w: no tracked piece on %s", ErrAmbiguousPieceIndex, sq)
	}
	return idx, nil
}

// squareOf returns the unique square currently holding index idx for color
// c, matching spec §4.2's "decoder must locate the piece by scanning the
// current board for the unique (side-to-move, index) match" -- here that
// scan is a tracker lookup, validated to be exactly one hit.
func (t *pieceTracker) squareOf(c chess.Color, idx int8) (chess.Square, error) {
	sq, ok := t.indexToSquare[c][idx]
	if !ok {
		return chess.NoSquare, fmt.Errorf("codec: %w: index %d", ErrAmbiguousPieceIndex, idx)
	}
	return sq, nil
}

// apply updates the tracker after m is played by mover's color: the moved
// piece's index follows it to dest; a captured piece's index (on capturedSq,
// which differs from dest for en-passant) is retired; castling also
// relocates the rook's index.
func (t *pieceTracker) apply(mover chess.Piece, m chess.Move, capturedSq chess.Square, captured chess.Piece, castled bool) {
	side := mover.Color
	idx, ok := t.squareToIndex[side][m.From]
	if ok {
		delete(t.squareToIndex[side], m.From)
		t.squareToIndex[side][m.Dest] = idx
		t.indexToSquare[side][idx] = m.Dest
	}
	if !captured.IsEmpty() {
		opp := captured.Color
		if cidx, ok := t.squareToIndex[opp][capturedSq]; ok {
			delete(t.squareToIndex[opp], capturedSq)
			delete(t.indexToSquare[opp], cidx)
		}
	}
	if castled {
		rank := m.From.Rank()
		var rookFrom, rookTo chess.Square
		if m.Dest.File() > m.From.File() {
			rookFrom, rookTo = chess.NewSquare(7, rank), chess.NewSquare(5, rank)
		} else {
			rookFrom, rookTo = chess.NewSquare(0, rank), chess.NewSquare(3, rank)
		}
		if ridx, ok := t.squareToIndex[side][rookFrom]; ok {
			delete(t.squareToIndex[side], rookFrom)
			t.squareToIndex[side][rookTo] = ridx
			t.indexToSquare[side][ridx] = rookTo
		}
	}
}
