/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fkopp/ocgdb/internal/chess"
)

// TestQueenCountQuery covers spec §8 boundary scenario 2: "Q = 3" on a
// position with three white queens.
func TestQueenCountQuery(t *testing.T) {
	tree, err := Parse("Q = 3")
	assert.NoError(t, err)

	b := chess.NewBoard("3qqq2/8/8/8/8/8/8/3QQQK1 w - - 0 1")
	v := Evaluate(tree, b.Snapshot())
	assert.Equal(t, int64(1), v)
}

// TestMaskedPawnAndKingQuery covers spec §8 boundary scenario 3:
// "P[d4,e5,f4,g4] = 4 and kb7".
func TestMaskedPawnAndKingQuery(t *testing.T) {
	tree, err := Parse("P[d4,e5,f4,g4] = 4 and kb7")
	assert.NoError(t, err)

	b := chess.NewBoard("8/1k6/8/4P3/3P1PP1/8/8/7K w - - 0 1")
	v := Evaluate(tree, b.Snapshot())
	assert.Equal(t, int64(1), v)
}

func TestWhiteKeywordCountsAllPieces(t *testing.T) {
	tree, err := Parse("white = 16")
	assert.NoError(t, err)
	b := chess.NewBoard()
	assert.Equal(t, int64(1), Evaluate(tree, b.Snapshot()))
}

func TestFileRangeMask(t *testing.T) {
	tree, err := Parse("P[a-c] = 3")
	assert.NoError(t, err)
	b := chess.NewBoard()
	assert.Equal(t, int64(1), Evaluate(tree, b.Snapshot()))
}

func TestRankRangeMask(t *testing.T) {
	tree, err := Parse("P[2-2] = 8")
	assert.NoError(t, err)
	b := chess.NewBoard()
	assert.Equal(t, int64(1), Evaluate(tree, b.Snapshot()))
}

func TestDivisionByZeroYieldsZero(t *testing.T) {
	tree, err := Parse("(Q / (Q - Q)) = 0")
	assert.NoError(t, err)
	b := chess.NewBoard("3qqq2/8/8/8/8/8/8/3QQQK1 w - - 0 1")
	assert.Equal(t, int64(1), Evaluate(tree, b.Snapshot()))
}

func TestParseRejectsUnknownPieceName(t *testing.T) {
	_, err := Parse("Z = 1")
	assert.Error(t, err)
}

func TestParseRejectsTrailingInput(t *testing.T) {
	_, err := Parse("Q = 1 )")
	assert.Error(t, err)
}

func TestSearchStopsAtFirstHitByDefault(t *testing.T) {
	tree, err := Parse("Q + q = 2")
	assert.NoError(t, err)
	// the starting position always has two queens, so this is a ply-0 hit
	hits := Search(tree, nil, chess.StartFen, false)
	assert.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Ply)
}
