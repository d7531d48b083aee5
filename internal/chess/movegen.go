/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package chess

// GenFlags controls which special moves GenerateMoves considers. The
// teacher's movegen carried a dead "captureOnly" flag (spec §9 design
// notes); this engine only ever needs one mode so there is nothing to
// parameterize beyond whether castling is considered, which callers
// control implicitly by calling GenerateLegalMoves on a position where
// castling is or isn't available.
type GenFlags struct{}

// GenerateMoves produces all pseudo-legal moves for the side to move:
// per-piece, position-indexed generation with no bitboards involved, per
// spec §4.1.
func (b *Board) GenerateMoves() []Move {
	moves := make([]Move, 0, 48)
	side := b.sideToMove
	for sq := Square(0); sq < SquareLength; sq++ {
		p := b.squares[sq]
		if p.IsEmpty() || p.Color != side {
			continue
		}
		switch p.Type {
		case Knight:
			b.genKnight(sq, side, &moves)
		case King:
			b.genKing(sq, side, &moves)
		case Rook:
			b.genSliding(sq, side, RookDirections[:], &moves)
		case Bishop:
			b.genSliding(sq, side, BishopDirections[:], &moves)
		case Queen:
			b.genSliding(sq, side, QueenDirections[:], &moves)
		case Pawn:
			b.genPawn(sq, side, &moves)
		}
	}
	return moves
}

// GenerateLegalMoves filters GenerateMoves down to moves that do not
// leave the mover's own king in check.
func (b *Board) GenerateLegalMoves() []Move {
	pseudo := b.GenerateMoves()
	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		if b.IsLegalMove(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

func (b *Board) genKnight(sq Square, side Color, moves *[]Move) {
	for _, off := range KnightOffsets {
		to := StepKnight(sq, off)
		if to == NoSquare {
			continue
		}
		target := b.squares[to]
		if target.IsEmpty() || target.Color != side {
			*moves = append(*moves, Move{sq, to, NoPieceType})
		}
	}
}

func (b *Board) genKing(sq Square, side Color, moves *[]Move) {
	for _, off := range KingOffsets {
		to := StepKing(sq, off)
		if to == NoSquare {
			continue
		}
		target := b.squares[to]
		if target.IsEmpty() || target.Color != side {
			*moves = append(*moves, Move{sq, to, NoPieceType})
		}
	}
	b.genCastling(sq, side, moves)
}

// genCastling emits king-side/queen-side castling candidates, gated by
// rights, empty squares between king and rook, and (checked later by
// IsLegalMove, not here) no attacked square along the king's path.
func (b *Board) genCastling(kingSq Square, side Color, moves *[]Move) {
	rights := b.castling[side]
	rank := kingSq.Rank()
	if rights.Short {
		f, g := NewSquare(5, rank), NewSquare(6, rank)
		if b.squares[f].IsEmpty() && b.squares[g].IsEmpty() {
			*moves = append(*moves, Move{kingSq, g, NoPieceType})
		}
	}
	if rights.Long {
		d, c, bSq := NewSquare(3, rank), NewSquare(2, rank), NewSquare(1, rank)
		if b.squares[d].IsEmpty() && b.squares[c].IsEmpty() && b.squares[bSq].IsEmpty() {
			*moves = append(*moves, Move{kingSq, c, NoPieceType})
		}
	}
}

func (b *Board) genSliding(sq Square, side Color, dirs []Direction, moves *[]Move) {
	for _, d := range dirs {
		cur := sq
		for {
			to := StepRay(cur, d)
			if to == NoSquare {
				break
			}
			target := b.squares[to]
			if target.IsEmpty() {
				*moves = append(*moves, Move{sq, to, NoPieceType})
				cur = to
				continue
			}
			if target.Color != side {
				*moves = append(*moves, Move{sq, to, NoPieceType})
			}
			break
		}
	}
}

func (b *Board) genPawn(sq Square, side Color, moves *[]Move) {
	forward := North
	startRank := 2
	promoRank := 8
	if side == Black {
		forward = South
		startRank = 7
		promoRank = 1
	}

	emit := func(to Square) {
		if to.Rank() == promoRank {
			for _, pt := range PromotionPieces {
				*moves = append(*moves, Move{sq, to, pt})
			}
		} else {
			*moves = append(*moves, Move{sq, to, NoPieceType})
		}
	}

	// single push
	one := StepRay(sq, forward)
	if one != NoSquare && b.squares[one].IsEmpty() {
		emit(one)
		// double push
		if sq.Rank() == startRank {
			two := StepRay(one, forward)
			if two != NoSquare && b.squares[two].IsEmpty() {
				*moves = append(*moves, Move{sq, two, NoPieceType})
			}
		}
	}

	// captures, including en passant
	for _, side2 := range []Direction{East, West} {
		diag := StepRay(sq, forward)
		if diag == NoSquare {
			continue
		}
		diag = StepRay(diag, side2)
		if diag == NoSquare {
			continue
		}
		target := b.squares[diag]
		if (!target.IsEmpty() && target.Color != side) || diag == b.epSquare {
			emit(diag)
		}
	}
}
