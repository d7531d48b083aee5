/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package chess

import "fmt"

// QuickMove validates and plays m using per-piece geometry instead of
// full move generation, then confirms the mover's king is not left in
// check -- unmaking and returning an error if it is. Used during PGN
// ingestion (spec §4.1 "Quick-check make") where moves are already known
// to have come from a SAN string that matched a legal move, so the only
// thing left to verify cheaply is basic geometric validity.
func (b *Board) QuickMove(m Move) error {
	if !m.IsValid() {
		return fmt.Errorf("chess: invalid move %s", m)
	}
	mover := b.squares[m.From]
	if mover.IsEmpty() || mover.Color != b.sideToMove {
		return fmt.Errorf("chess: no %s piece on %s", b.sideToMove, m.From)
	}
	target := b.squares[m.Dest]
	if !target.IsEmpty() && target.Color == mover.Color {
		return fmt.Errorf("chess: %s is occupied by a friendly piece", m.Dest)
	}

	if err := b.checkGeometry(mover, m); err != nil {
		return err
	}

	b.DoMove(m)
	if b.IsAttacked(b.kingSquare[mover.Color], mover.Color.Flip()) {
		b.UndoMove()
		return fmt.Errorf("chess: move %s leaves %s king in check", m, mover.Color)
	}
	return nil
}

func (b *Board) checkGeometry(mover Piece, m Move) error {
	switch mover.Type {
	case Knight:
		for _, off := range KnightOffsets {
			if StepKnight(m.From, off) == m.Dest {
				return nil
			}
		}
		return fmt.Errorf("chess: %s is not a knight move from %s", m.Dest, m.From)
	case King:
		for _, off := range KingOffsets {
			if StepKing(m.From, off) == m.Dest {
				return nil
			}
		}
		if absInt(m.Dest.File()-m.From.File()) == 2 && m.Dest.Rank() == m.From.Rank() {
			return nil // castling, rights/clearance already checked by caller via SAN
		}
		return fmt.Errorf("chess: %s is not a king move from %s", m.Dest, m.From)
	case Rook:
		return b.checkRayClear(m.From, m.Dest, RookDirections[:])
	case Bishop:
		return b.checkRayClear(m.From, m.Dest, BishopDirections[:])
	case Queen:
		return b.checkRayClear(m.From, m.Dest, QueenDirections[:])
	case Pawn:
		return b.checkPawnGeometry(mover, m)
	}
	return fmt.Errorf("chess: unknown piece type")
}

func (b *Board) checkRayClear(from, dest Square, dirs []Direction) error {
	for _, d := range dirs {
		cur := from
		for {
			cur = StepRay(cur, d)
			if cur == NoSquare {
				break
			}
			if cur == dest {
				return nil
			}
			if !b.squares[cur].IsEmpty() {
				break
			}
		}
	}
	return fmt.Errorf("chess: %s is not reachable along a clear ray from %s", dest, from)
}

func (b *Board) checkPawnGeometry(mover Piece, m Move) error {
	forward := North
	if mover.Color == Black {
		forward = South
	}
	one := StepRay(m.From, forward)
	if one == m.Dest {
		return nil
	}
	if one != NoSquare {
		two := StepRay(one, forward)
		if two == m.Dest {
			return nil
		}
		for _, side := range []Direction{East, West} {
			if StepRay(one, side) == m.Dest {
				return nil
			}
		}
	}
	return fmt.Errorf("chess: %s is not a pawn move from %s", m.Dest, m.From)
}
