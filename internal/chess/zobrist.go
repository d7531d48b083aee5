/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package chess

import "math/rand"

// Key is a Zobrist hash key used to identify a chess position and, in
// internal/dup, as the signature fingerprint for duplicate detection.
type Key uint64

// zobristTable holds the 781-entry random constant table: 12 piece-square pairs
// x 64 squares (768), 4 castling-right bits, 8 en-passant files, and 1
// side-to-move bit, per spec §4.1.
//
// The published Polyglot random table is not present anywhere in the
// retrieval pack this engine was built from, so the table below is
// generated once, deterministically, from a fixed seed rather than
// invented by hand. Keys computed here will therefore NOT match Polyglot
// opening books or other external tools that assume the exact published
// constants -- documented per spec §9's instruction to record this
// assumption rather than silently deviate from it.
type zobristTable struct {
	pieceSquare [2][PieceTypeLength][SquareLength]Key // indexed [color][pieceType][square]
	castling    [4]Key                                // white-short, white-long, black-short, black-long
	epFile      [8]Key
	sideToMove  Key
}

var zobrist zobristTable

func init() {
	r := rand.New(rand.NewSource(0x506f6c79676c6f74)) // "Polyglot" in hex, fixed seed
	for c := White; c <= Black; c++ {
		for pt := King; pt <= Pawn; pt++ {
			for sq := Square(0); sq < SquareLength; sq++ {
				zobrist.pieceSquare[c][pt][sq] = Key(r.Uint64())
			}
		}
	}
	for i := range zobrist.castling {
		zobrist.castling[i] = Key(r.Uint64())
	}
	for i := range zobrist.epFile {
		zobrist.epFile[i] = Key(r.Uint64())
	}
	zobrist.sideToMove = Key(r.Uint64())
}

func zobristPiece(p Piece, sq Square) Key {
	return zobrist.pieceSquare[p.Color][p.Type][sq]
}

func zobristCastling(c Color, short bool) Key {
	idx := 0
	if c == Black {
		idx += 2
	}
	if !short {
		idx++
	}
	return zobrist.castling[idx]
}

func zobristEpFile(file int) Key {
	return zobrist.epFile[file]
}
