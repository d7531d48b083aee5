/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package codec

import (
	"fmt"

	"github.com/fkopp/ocgdb/internal/chess"
)

// kingOffsetsBB and knightOffsetsBB are the Moves1 selector tables, defined
// in the a1=0/h8=63 (bitboard) square domain per spec §4.2; ±2 for a king
// delta marks castling.
var kingOffsetsBB = [...]int{-9, -8, -7, -2, -1, 1, 2, 7, 8, 9}
var knightOffsetsBB = [...]int{-17, -15, -10, -6, 6, 10, 15, 17}
var pawnOffsetMagnitudes = [...]int{7, 8, 9, 16}

var promoBitsToType = [...]chess.PieceType{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}

func promoTypeToBits(pt chess.PieceType) (uint8, error) {
	for i, t := range promoBitsToType {
		if t == pt {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("codec: unsupported promotion piece %s", pt.Char())
}

// moveEffect classifies m the same way board.go's DoMove does, read-only,
// so the piece-index tracker can be updated in lockstep without reaching
// into chess.Board's private history.
func moveEffect(b *chess.Board, m chess.Move) (mover, captured chess.Piece, capturedSq chess.Square, castled bool) {
	mover = b.PieceAt(m.From)
	target := b.PieceAt(m.Dest)
	capturedSq = m.Dest
	captured = target

	isEnPassant := mover.Type == chess.Pawn && m.Dest == b.EpSquare() && target.IsEmpty()
	isCastling := mover.Type == chess.King && absInt(m.Dest.File()-m.From.File()) == 2

	switch {
	case isCastling:
		castled = true
	case isEnPassant:
		capSq := chess.Square(int(m.Dest) + int(chess.South))
		if mover.Color == chess.Black {
			capSq = chess.Square(int(m.Dest) + int(chess.North))
		}
		capturedSq = capSq
		captured = b.PieceAt(capSq)
	}
	return
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// EncodeMoves1 replays moves from startFEN, emitting the variable-width
// per-side-piece-index codec of spec §4.2.
func EncodeMoves1(moves []chess.Move, startFEN string) ([]byte, error) {
	b := chess.NewBoard(startFEN)
	tracker := newPieceTracker(b)
	out := make([]byte, 0, len(moves))

	for _, m := range moves {
		mover := b.PieceAt(m.From)
		idx, err := tracker.indexAt(mover.Color, m.From)
		if err != nil {
			return nil, err
		}

		fromBB, destBB := int(m.From.BB()), int(m.Dest.BB())
		delta := destBB - fromBB

		var nibble uint8
		var second byte

		switch mover.Type {
		case chess.King:
			sel, err := indexOfInt(kingOffsetsBB[:], delta)
			if err != nil {
				return nil, fmt.Errorf("codec: king %s", err)
			}
			nibble = uint8(sel)
		case chess.Knight:
			sel, err := indexOfInt(knightOffsetsBB[:], delta)
			if err != nil {
				return nil, fmt.Errorf("codec: knight %s", err)
			}
			nibble = uint8(sel)
		case chess.Pawn:
			mag := delta
			if mover.Color == chess.Black {
				mag = -delta
			}
			sel, err := indexOfInt(pawnOffsetMagnitudes[:], mag)
			if err != nil {
				return nil, fmt.Errorf("codec: pawn %s", err)
			}
			var promoBits uint8
			if m.Promotion != chess.NoPieceType {
				promoBits, err = promoTypeToBits(m.Promotion)
				if err != nil {
					return nil, err
				}
			}
			nibble = (promoBits << 2) | uint8(sel)
		case chess.Rook:
			fromFile := fromBB & 7
			toFile, toRank := destBB&7, destBB>>3
			if fromFile == toFile {
				nibble = uint8(toRank)
			} else {
				nibble = 0x8 | uint8(toFile)
			}
		case chess.Bishop:
			fromFile, fromRank := fromBB&7, fromBB>>3
			toFile, toRank := destBB&7, destBB>>3
			downRight, dist, err := bishopAnchorAndDistance(fromFile, fromRank, toFile, toRank)
			if err != nil {
				return nil, fmt.Errorf("codec: bishop %s", err)
			}
			nibble = uint8(dist)
			if downRight {
				nibble |= 0x8
			}
		case chess.Queen:
			// dest square (6 bits) packed across both bytes, shifted left by
			// 4 so the low nibble of byte0 stays free for the piece index:
			// word = idx | dest<<4.
			nibble = uint8(destBB & 0xF)
			second = byte(destBB >> 4)
		default:
			return nil, fmt.Errorf("codec: unsupported piece type %v", mover.Type)
		}

		if mover.Type != chess.Queen {
			out = append(out, (nibble<<4)|uint8(idx))
		} else {
			out = append(out, (nibble<<4)|uint8(idx), second)
		}

		captured, capturedSq, castled := effectFor(b, m)
		tracker.apply(mover, m, capturedSq, captured, castled)
		b.DoMove(m)
	}
	return out, nil
}

// effectFor is a tiny indirection so moveEffect's named returns don't shadow
// the loop variables above.
func effectFor(b *chess.Board, m chess.Move) (chess.Piece, chess.Square, bool) {
	_, captured, capturedSq, castled := moveEffect(b, m)
	return captured, capturedSq, castled
}

func indexOfInt(table []int, v int) (int, error) {
	for i, t := range table {
		if t == v {
			return i, nil
		}
	}
	return 0, fmt.Errorf("delta %d not in selector table", v)
}

// DecodeMoves1 replays the codec's byte stream against a board started
// from startFEN, resolving each piece index through the tracker and
// reconstructing the move from the piece type found there.
func DecodeMoves1(data []byte, startFEN string) ([]chess.Move, error) {
	b := chess.NewBoard(startFEN)
	tracker := newPieceTracker(b)
	var moves []chess.Move

	for i := 0; i < len(data); {
		byte0 := data[i]
		idx := int8(byte0 & 0xF)
		nibble := byte0 >> 4
		side := b.SideToMove()

		sq, err := tracker.squareOf(side, idx)
		if err != nil {
			return nil, err
		}
		mover := b.PieceAt(sq)
		if mover.IsEmpty() || mover.Color != side {
			return nil, fmt.Errorf("codec: %w: index %d resolves to empty/wrong-color square %s", ErrAmbiguousPieceIndex, idx, sq)
		}

		var dest chess.Square
		var promo chess.PieceType
		i++

		fromBB := int(sq.BB())
		switch mover.Type {
		case chess.King:
			if int(nibble) >= len(kingOffsetsBB) {
				return nil, fmt.Errorf("codec: king selector %d out of range", nibble)
			}
			dest = chess.SquareFromBB(uint8(fromBB + kingOffsetsBB[nibble]))
		case chess.Knight:
			if int(nibble) >= len(knightOffsetsBB) {
				return nil, fmt.Errorf("codec: knight selector %d out of range", nibble)
			}
			dest = chess.SquareFromBB(uint8(fromBB + knightOffsetsBB[nibble]))
		case chess.Pawn:
			dirIdx := nibble & 0x3
			promoBits := nibble >> 2
			if int(dirIdx) >= len(pawnOffsetMagnitudes) {
				return nil, fmt.Errorf("codec: pawn selector %d out of range", dirIdx)
			}
			mag := pawnOffsetMagnitudes[dirIdx]
			if mover.Color == chess.Black {
				mag = -mag
			}
			destBB := fromBB + mag
			dest = chess.SquareFromBB(uint8(destBB))
			if dest.Rank() == 1 || dest.Rank() == 8 {
				promo = promoBitsToType[promoBits]
			}
		case chess.Rook:
			sameColumn := nibble&0x8 == 0
			val := int(nibble & 0x7)
			fromFile, fromRank := fromBB&7, fromBB>>3
			if sameColumn {
				dest = chess.SquareFromBB(uint8(val*8 + fromFile))
			} else {
				dest = chess.SquareFromBB(uint8(fromRank*8 + val))
			}
		case chess.Bishop:
			downRight := nibble&0x8 != 0
			dist := int(nibble & 0x7)
			fromFile, fromRank := fromBB&7, fromBB>>3
			toFile, toRank := bishopDestFromAnchor(fromFile, fromRank, downRight, dist)
			if toFile < 0 || toFile > 7 || toRank < 0 || toRank > 7 {
				return nil, fmt.Errorf("codec: bishop decode produced an off-board square")
			}
			dest = chess.SquareFromBB(uint8(toRank*8 + toFile))
		case chess.Queen:
			if i >= len(data) {
				return nil, fmt.Errorf("codec: truncated Moves1 stream: queen move missing second byte")
			}
			second := data[i]
			i++
			word := uint16(byte0) | uint16(second)<<8
			destBB := (word >> 4) & 0x3F
			dest = chess.SquareFromBB(uint8(destBB))
		default:
			return nil, fmt.Errorf("codec: unsupported piece type %v at %s", mover.Type, sq)
		}

		m := chess.Move{From: sq, Dest: dest, Promotion: promo}
		captured, capturedSq, castled := effectFor(b, m)
		tracker.apply(mover, m, capturedSq, captured, castled)
		b.DoMove(m)
		moves = append(moves, m)
	}
	return moves, nil
}
