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

func TestSnapshotPieceBitboards(t *testing.T) {
	b := NewBoard()
	snap := b.Snapshot()
	assert.EqualValues(t, 0x000000000000FFFF, snap[BBWhite])
	assert.EqualValues(t, 0xFFFF000000000000, snap[BBBlack])
	assert.EqualValues(t, 0x8100000000000081, snap[BBRooks])
	assert.Equal(t, ParseSquare("e1").BB(), uint8(snap[BBWhiteKingSquare]))
}

func TestSnapshotEnPassantAndCastlingProperties(t *testing.T) {
	b := NewBoard("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	snap := b.Snapshot()
	assert.Equal(t, ParseSquare("d6"), snap.EpSquareOf())
	assert.Equal(t, CastlingRights{Short: true, Long: true}, snap.CastlingRightsOf(White))
	assert.Equal(t, CastlingRights{Short: true, Long: true}, snap.CastlingRightsOf(Black))
}

func TestSnapshotNoEnPassantWhenUnset(t *testing.T) {
	b := NewBoard()
	snap := b.Snapshot()
	assert.Equal(t, NoSquare, snap.EpSquareOf())
}
