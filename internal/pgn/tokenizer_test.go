/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package pgn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const twoGamePGN = `[Event "Test Game 1"]
[Site "?"]
[Round "1"]
[White "Alice"]
[Black "Bob"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 1-0

[Event "Test Game 2"]
[Site "?"]
[Round "2"]
[White "Carol"]
[Black "Dave"]
[Result "0-1"]

1. d4 d5 2. c4 e6 0-1
`

func TestTokenizeSpanSingleBlockTwoGames(t *testing.T) {
	games, tail := tokenizeSpan([]byte(twoGamePGN), true)
	assert.Equal(t, -1, tail)
	assert.Len(t, games, 2)
	assert.Equal(t, "Test Game 1", games[0].Tags["Event"])
	assert.Equal(t, "Alice", games[0].Tags["White"])
	assert.Contains(t, games[0].MoveText, "Nc6")
	assert.Equal(t, "Test Game 2", games[1].Tags["Event"])
	assert.Contains(t, games[1].MoveText, "c4 e6")
}

// TestTokenizerBlockBoundaryStraddle covers spec §8 boundary scenario 5:
// a block splits in the middle of the second game's tag section, and
// feeding the two halves through Tokenizer.Feed reconstructs both games
// exactly as a single-block parse would.
func TestTokenizerBlockBoundaryStraddle(t *testing.T) {
	splitPoint := strings.Index(twoGamePGN, `[Round "2"`) + 3
	first := twoGamePGN[:splitPoint]
	second := twoGamePGN[splitPoint:]

	tok := NewTokenizer(1024)
	gamesA, err := tok.Feed([]byte(first), false)
	assert.NoError(t, err)
	assert.Len(t, gamesA, 1) // only the first game is complete so far
	assert.Equal(t, "Test Game 1", gamesA[0].Tags["Event"])

	gamesB, err := tok.Feed([]byte(second), true)
	assert.NoError(t, err)
	assert.Len(t, gamesB, 1)
	assert.Equal(t, "Test Game 2", gamesB[0].Tags["Event"])
	assert.Equal(t, "Dave", gamesB[0].Tags["Black"])
}

func TestTokenizerOverflowCapacityExceeded(t *testing.T) {
	tok := NewTokenizer(10)

	_, err := tok.Feed([]byte(`[Event "AB`), false)
	assert.NoError(t, err) // 10 bytes fits exactly within the 10-byte cap

	_, err = tok.Feed([]byte("CD"), false)
	assert.ErrorIs(t, err, errOverflow)
}

func TestTokenizeSpanIgnoresSemicolonComment(t *testing.T) {
	input := "; a stray comment line\n" + twoGamePGN
	games, tail := tokenizeSpan([]byte(input), true)
	assert.Equal(t, -1, tail)
	assert.Len(t, games, 2)
}
