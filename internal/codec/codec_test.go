/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fkopp/ocgdb/internal/chess"
)

func playSAN(t *testing.T, sans []string) []chess.Move {
	t.Helper()
	b := chess.NewBoard()
	var moves []chess.Move
	for _, s := range sans {
		m, err := b.ParseSAN(s)
		assert.NoError(t, err, s)
		moves = append(moves, m)
		b.DoMove(m)
	}
	return moves
}

// TestMoves2RoundTrip exercises spec §8's decode(encode(L,F),F) == L
// invariant for the 2-byte codec.
func TestMoves2RoundTrip(t *testing.T) {
	moves := playSAN(t, []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "Ba4", "Nf6", "O-O", "Be7", "Re1", "b5"})
	blob, err := EncodeMoves2(moves)
	assert.NoError(t, err)
	assert.Len(t, blob, len(moves)*2)

	decoded, err := DecodeMoves2(blob)
	assert.NoError(t, err)
	assert.Equal(t, moves, decoded)
}

func TestMoves2PromotionRoundTrip(t *testing.T) {
	moves := playSAN(t, []string{"e4"})
	// synthesize a promotion move directly; no need to reach one via SAN
	promo := chess.Move{From: chess.ParseSquare("e7"), Dest: chess.ParseSquare("e8"), Promotion: chess.Knight}
	moves = append(moves, promo)
	blob, err := EncodeMoves2(moves)
	assert.NoError(t, err)
	decoded, err := DecodeMoves2(blob)
	assert.NoError(t, err)
	assert.Equal(t, moves, decoded)
}

// TestMoves1RoundTripWithCastling covers the spec §8 boundary scenario 6: a
// castling move encoded and decoded by piece index.
func TestMoves1RoundTripWithCastling(t *testing.T) {
	sans := []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5", "O-O"}
	moves := playSAN(t, sans)

	blob, err := EncodeMoves1(moves, chess.StartFen)
	assert.NoError(t, err)

	decoded, err := DecodeMoves1(blob, chess.StartFen)
	assert.NoError(t, err)
	assert.Equal(t, moves, decoded)
}

func TestMoves1RoundTripWithCaptureAndQueenMove(t *testing.T) {
	sans := []string{"e4", "d5", "exd5", "Qxd5", "Nc3", "Qa5"}
	moves := playSAN(t, sans)

	blob, err := EncodeMoves1(moves, chess.StartFen)
	assert.NoError(t, err)
	decoded, err := DecodeMoves1(blob, chess.StartFen)
	assert.NoError(t, err)
	assert.Equal(t, moves, decoded)
}

func TestMoves1RoundTripWithPromotion(t *testing.T) {
	fen := "8/4P1k1/8/8/8/8/6K1/8 w - - 0 1"
	b := chess.NewBoard(fen)
	m, err := b.ParseSAN("e8=Q")
	assert.NoError(t, err)
	moves := []chess.Move{m}

	blob, err := EncodeMoves1(moves, fen)
	assert.NoError(t, err)
	decoded, err := DecodeMoves1(blob, fen)
	assert.NoError(t, err)
	assert.Equal(t, moves, decoded)
}

func TestMoves1RoundTripBishopBothDiagonals(t *testing.T) {
	fen := "4k3/8/8/8/8/2B5/8/4K3 w - - 0 1"
	b := chess.NewBoard(fen)
	m1, err := b.ParseSAN("Bd4")
	assert.NoError(t, err)
	blob, err := EncodeMoves1([]chess.Move{m1}, fen)
	assert.NoError(t, err)
	decoded, err := DecodeMoves1(blob, fen)
	assert.NoError(t, err)
	assert.Equal(t, []chess.Move{m1}, decoded)

	b2 := chess.NewBoard(fen)
	m2, err := b2.ParseSAN("Bb4")
	assert.NoError(t, err)
	blob2, err := EncodeMoves1([]chess.Move{m2}, fen)
	assert.NoError(t, err)
	decoded2, err := DecodeMoves1(blob2, fen)
	assert.NoError(t, err)
	assert.Equal(t, []chess.Move{m2}, decoded2)
}

func TestMoves1RoundTripRookBothAxes(t *testing.T) {
	fen := "4k3/8/8/8/8/8/8/R3K3 w Q - 0 1"
	b := chess.NewBoard(fen)
	m1, err := b.ParseSAN("Ra5")
	assert.NoError(t, err)
	blob, err := EncodeMoves1([]chess.Move{m1}, fen)
	assert.NoError(t, err)
	decoded, err := DecodeMoves1(blob, fen)
	assert.NoError(t, err)
	assert.Equal(t, []chess.Move{m1}, decoded)

	b2 := chess.NewBoard(fen)
	m2, err := b2.ParseSAN("Rd1")
	assert.NoError(t, err)
	blob2, err := EncodeMoves1([]chess.Move{m2}, fen)
	assert.NoError(t, err)
	decoded2, err := DecodeMoves1(blob2, fen)
	assert.NoError(t, err)
	assert.Equal(t, []chess.Move{m2}, decoded2)
}
