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

func TestIsAttackedBySlidingPiece(t *testing.T) {
	b := NewBoard("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	assert.True(t, b.IsAttacked(ParseSquare("a8"), White))
	assert.False(t, b.IsAttacked(ParseSquare("b8"), White))
}

func TestIsAttackedByKnight(t *testing.T) {
	b := NewBoard("4k3/8/8/8/3N4/8/8/4K3 w - - 0 1")
	assert.True(t, b.IsAttacked(ParseSquare("b5"), White))
}

func TestInCheckDetection(t *testing.T) {
	b := NewBoard("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	assert.True(t, b.InCheck())
}

func TestGivesCheckRook(t *testing.T) {
	b := NewBoard("k7/8/8/8/8/8/8/R3K3 w Q - 0 1")
	m := Move{ParseSquare("a1"), ParseSquare("a7"), NoPieceType}
	assert.True(t, b.GivesCheck(m))
}

func TestKingCannotMoveIntoCheck(t *testing.T) {
	b := NewBoard("4k3/8/8/8/8/8/r7/4K3 w - - 0 1")
	for _, m := range b.GenerateLegalMoves() {
		assert.NotEqual(t, ParseSquare("e2"), m.Dest, "e2 is attacked along rank 2 by the rook on a2")
	}
}
