/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package chess

// IsFiftyMoveRule reports whether the fifty-move rule has triggered
// (quiet-ply counter reached 100).
func (b *Board) IsFiftyMoveRule() bool {
	return b.halfClock >= 100
}

// IsThreefoldRepetition scans backward through history at 2-ply steps
// (within the quiet-counter window) counting hash-key matches; two prior
// matches plus the current position end the game, per spec §4.1.
func (b *Board) IsThreefoldRepetition() bool {
	matches := 0
	limit := b.halfClock
	if limit > len(b.history) {
		limit = len(b.history)
	}
	for i := 2; i <= limit; i += 2 {
		idx := len(b.history) - i
		if idx < 0 {
			break
		}
		if b.history[idx].preHashKey == b.hashKey {
			matches++
			if matches >= 2 {
				return true
			}
		}
	}
	return false
}

// HasInsufficientMaterial reports a dead drawn position: neither side has
// a queen, rook, or pawn, and each side has at most one minor piece, with
// no bishop+knight or opposite-colored-bishop combination surviving.
func (b *Board) HasInsufficientMaterial() bool {
	var minors [2]struct {
		bishops, knights  int
		bishopLightSquare bool
		bishopDarkSquare  bool
	}
	for sq := Square(0); sq < SquareLength; sq++ {
		p := b.squares[sq]
		switch p.Type {
		case Queen, Rook, Pawn:
			return false
		case Bishop:
			minors[p.Color].bishops++
			if isLightSquare(sq) {
				minors[p.Color].bishopLightSquare = true
			} else {
				minors[p.Color].bishopDarkSquare = true
			}
		case Knight:
			minors[p.Color].knights++
		}
	}
	for _, c := range [2]Color{White, Black} {
		m := minors[c]
		total := m.bishops + m.knights
		if total > 1 {
			return false
		}
	}
	w, bl := minors[White], minors[Black]
	if (w.bishops == 1 && bl.knights == 1) || (w.knights == 1 && bl.bishops == 1) {
		return false
	}
	if w.bishops == 1 && bl.bishops == 1 && w.bishopLightSquare != bl.bishopLightSquare {
		return false
	}
	return true
}

func isLightSquare(sq Square) bool {
	return (sq.File()+sq.Rank())%2 == 0
}
