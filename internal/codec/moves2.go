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

// promoCode2 maps a promotion piece type to the 3-bit Moves2 field
// (none=0, queen=1, rook=2, bishop=3, knight=4), per spec §4.2.
var promoCode2 = map[chess.PieceType]uint16{
	chess.NoPieceType: 0,
	chess.Queen:       1,
	chess.Rook:        2,
	chess.Bishop:      3,
	chess.Knight:      4,
}

var promoFromCode2 = map[uint16]chess.PieceType{
	0: chess.NoPieceType,
	1: chess.Queen,
	2: chess.Rook,
	3: chess.Bishop,
	4: chess.Knight,
}

// EncodeMoves2 serializes moves as n little-endian u16 words: bits 0-5 =
// from (a1=0/h8=63 convention), bits 6-11 = dest, bits 12-14 = promotion.
func EncodeMoves2(moves []chess.Move) ([]byte, error) {
	out := make([]byte, 0, len(moves)*2)
	for _, m := range moves {
		code, ok := promoCode2[m.Promotion]
		if !ok {
			return nil, fmt.Errorf("codec: unsupported promotion piece %s", m.Promotion.Char())
		}
		word := uint16(m.From.BB()) | uint16(m.Dest.BB())<<6 | code<<12
		out = append(out, byte(word), byte(word>>8))
	}
	return out, nil
}

// DecodeMoves2 is the inverse of EncodeMoves2; it does not need a board to
// replay since every move is fully self-described.
func DecodeMoves2(data []byte) ([]chess.Move, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("codec: Moves2 blob length %d is not a multiple of 2", len(data))
	}
	moves := make([]chess.Move, 0, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		word := uint16(data[i]) | uint16(data[i+1])<<8
		from := chess.SquareFromBB(uint8(word & 0x3F))
		dest := chess.SquareFromBB(uint8((word >> 6) & 0x3F))
		promo, ok := promoFromCode2[(word>>12)&0x7]
		if !ok {
			return nil, fmt.Errorf("codec: invalid Moves2 promotion code %d", (word>>12)&0x7)
		}
		moves = append(moves, chess.Move{From: from, Dest: dest, Promotion: promo})
	}
	return moves, nil
}
