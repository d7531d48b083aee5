/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBoardStartPosition(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, StartFen, b.FEN())
	assert.Equal(t, White, b.SideToMove())
}

// TestZobristIncrementalMatchesRecompute exercises the invariant of spec
// §8: the incrementally maintained hash must always equal a full
// recomputation, for a short, representative sequence of moves including
// double pawn pushes, piece development and castling.
func TestZobristIncrementalMatchesRecompute(t *testing.T) {
	b := NewBoard()
	moves := []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5", "O-O"}
	for _, san := range moves {
		m, err := b.ParseSAN(san)
		assert.NoError(t, err, san)
		b.DoMove(m)
		assert.Equal(t, b.recomputeHash(), b.Hash(), "after %s", san)
	}
}

// TestEnPassantZobristFileOmittedWhenNotAttacked exercises spec §8.1:
// after 1.e4 the en-passant file for e3 is NOT XORed into the key because
// no black pawn attacks e3 from the starting position.
func TestEnPassantZobristFileOmittedWhenNotAttacked(t *testing.T) {
	b := NewBoard()
	before := b.Hash()
	m, err := b.ParseSAN("e4")
	assert.NoError(t, err)
	assert.Equal(t, ParseSquare("e4"), m.Dest)
	b.DoMove(m)

	expected := before
	expected ^= zobristPiece(Piece{Pawn, White}, ParseSquare("e2"))
	expected ^= zobristPiece(Piece{Pawn, White}, ParseSquare("e4"))
	expected ^= White.zobristSide() ^ Black.zobristSide()
	assert.Equal(t, expected, b.Hash(), "e3 file must not be hashed in: no black pawn attacks e3")
	assert.Equal(t, ParseSquare("e3"), b.EpSquare())
}

func TestDoUndoMoveRestoresExactState(t *testing.T) {
	b := NewBoard("8/1k6/8/4P3/3P1PP1/8/8/7K w - - 0 1")
	before := b.FEN()
	m := Move{ParseSquare("e5"), ParseSquare("e6"), NoPieceType}
	b.DoMove(m)
	assert.NotEqual(t, before, b.FEN())
	b.UndoMove()
	assert.Equal(t, before, b.FEN())
}

func TestCastlingRelocatesRook(t *testing.T) {
	b := NewBoard("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	m, err := b.ParseSAN("O-O")
	assert.NoError(t, err)
	b.DoMove(m)
	assert.Equal(t, Piece{King, White}, b.PieceAt(ParseSquare("g1")))
	assert.Equal(t, Piece{Rook, White}, b.PieceAt(ParseSquare("f1")))
	assert.True(t, b.PieceAt(ParseSquare("h1")).IsEmpty())
	b.UndoMove()
	assert.Equal(t, Piece{King, White}, b.PieceAt(ParseSquare("e1")))
	assert.Equal(t, Piece{Rook, White}, b.PieceAt(ParseSquare("h1")))
}

func TestInsufficientMaterial(t *testing.T) {
	b := NewBoard("4k3/8/8/8/8/8/8/4K2N w - - 0 1")
	assert.True(t, b.HasInsufficientMaterial())
	b2 := NewBoard("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	assert.False(t, b2.HasInsufficientMaterial())
}

func TestThreefoldRepetition(t *testing.T) {
	b := NewBoard()
	for i := 0; i < 2; i++ {
		for _, san := range []string{"Nf3", "Nf6", "Ng1", "Ng8"} {
			m, err := b.ParseSAN(san)
			assert.NoError(t, err)
			b.DoMove(m)
		}
	}
	assert.True(t, b.IsThreefoldRepetition())
}
