/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package chess holds the board representation, move generator, SAN/FEN
// handling and Zobrist hashing that together make up the core chess engine.
//
// Squares here are numbered 0..63 rank-major from the 8th rank (a8=0, h8=7,
// a1=56, h1=63); this is the board's native indexing. Bitboard query
// snapshots (package-level Snapshot in bitboard.go) use the unrelated
// a1=0/h8=63 convention that the query grammar of §4.4 expects; Square.BB()
// converts between the two.
package chess

import (
	"fmt"
	"strings"
)

// Square is a board position 0..63, rank-major from the 8th rank.
// NoSquare represents an absent square (e.g. no en-passant target).
type Square int8

// NoSquare marks the absence of a square, e.g. an unset en-passant target.
const NoSquare Square = -1

// SquareLength is the number of squares on the board.
const SquareLength = 64

// NewSquare builds a Square from a zero-based file (0=a..7=h) and a
// one-based rank (1..8). Returns NoSquare if either is out of range.
func NewSquare(file int, rank int) Square {
	if file < 0 || file > 7 || rank < 1 || rank > 8 {
		return NoSquare
	}
	row := 8 - rank
	return Square(row*8 + file)
}

// ParseSquare parses an algebraic coordinate such as "e4".
func ParseSquare(s string) Square {
	if len(s) != 2 {
		return NoSquare
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '0')
	return NewSquare(file, rank)
}

// IsValid reports whether sq is a square on the board.
func (sq Square) IsValid() bool {
	return sq >= 0 && sq < SquareLength
}

// File returns the zero-based file (0=a..7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the one-based rank (1..8).
func (sq Square) Rank() int {
	return 8 - int(sq)>>3
}

// BB converts this board-indexed square to the a1=0/h8=63 bitboard
// convention used by query snapshots and the move codecs.
func (sq Square) BB() uint8 {
	return uint8((sq.Rank()-1)*8 + sq.File())
}

// SquareFromBB is the inverse of Square.BB.
func SquareFromBB(bb uint8) Square {
	file := int(bb) & 7
	rank := int(bb)>>3 + 1
	return NewSquare(file, rank)
}

// String renders the square in algebraic notation, or "-" if invalid.
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return string(rune('a'+sq.File())) + string(rune('0'+sq.Rank()))
}

// PieceType is the kind of a chess piece, independent of side.
type PieceType int8

const (
	NoPieceType PieceType = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
	PieceTypeLength
)

var pieceTypeChars = [...]string{" ", "K", "Q", "R", "B", "N", "P"}

// Char returns the uppercase letter for the piece type ("P" for pawn, a
// single space for NoPieceType).
func (pt PieceType) Char() string {
	if pt < NoPieceType || pt >= PieceTypeLength {
		return ""
	}
	return pieceTypeChars[pt]
}

// IsValid reports whether pt is one of King..Pawn.
func (pt PieceType) IsValid() bool {
	return pt > NoPieceType && pt < PieceTypeLength
}

// Color is the side to move or owning a piece.
type Color int8

const (
	White Color = iota
	Black
	NoColor
)

// Flip returns the opposing color.
func (c Color) Flip() Color {
	if c == White {
		return Black
	}
	if c == Black {
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "w"
	case Black:
		return "b"
	default:
		return "-"
	}
}

// Piece is a (type, side) pair. An empty square uses (NoPieceType, NoColor).
type Piece struct {
	Type  PieceType
	Color Color
}

// NoPiece represents an empty square.
var NoPiece = Piece{NoPieceType, NoColor}

// IsEmpty reports whether this represents an empty square.
func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

// Char renders the piece as a single FEN letter (uppercase=white).
func (p Piece) Char() string {
	if p.IsEmpty() {
		return ""
	}
	c := p.Type.Char()
	if p.Type == Pawn {
		c = "P"
	}
	if p.Color == Black {
		c = strings.ToLower(c)
	}
	return c
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "."
	}
	return p.Char()
}

// PieceFromChar parses a single FEN piece letter.
func PieceFromChar(c byte) Piece {
	color := White
	lc := c
	if c >= 'a' && c <= 'z' {
		color = Black
		lc = c - 'a' + 'A'
	}
	var pt PieceType
	switch lc {
	case 'K':
		pt = King
	case 'Q':
		pt = Queen
	case 'R':
		pt = Rook
	case 'B':
		pt = Bishop
	case 'N':
		pt = Knight
	case 'P':
		pt = Pawn
	default:
		return NoPiece
	}
	return Piece{pt, color}
}

// CastlingRights packs king-side and queen-side rights for one side.
type CastlingRights struct {
	Short bool // king side, O-O
	Long  bool // queen side, O-O-O
}

// Move is (from, dest, promotion). A move is valid iff from != dest and
// both squares are on the board. Promotion is NoPieceType or one of
// Queen, Rook, Bishop, Knight.
type Move struct {
	From      Square
	Dest      Square
	Promotion PieceType
}

// NoMove is the zero-value invalid move.
var NoMove = Move{NoSquare, NoSquare, NoPieceType}

// IsValid reports whether m satisfies the structural validity invariant
// of spec §3 (does not check legality on any particular position).
func (m Move) IsValid() bool {
	if m.From == m.Dest || !m.From.IsValid() || !m.Dest.IsValid() {
		return false
	}
	switch m.Promotion {
	case NoPieceType, Queen, Rook, Bishop, Knight:
		return true
	default:
		return false
	}
}

func (m Move) String() string {
	if !m.IsValid() {
		return "0000"
	}
	s := m.From.String() + m.Dest.String()
	if m.Promotion != NoPieceType {
		s += strings.ToLower(m.Promotion.Char())
	}
	return s
}

// FullMove is a Move together with the piece that made it, per spec §3.
type FullMove struct {
	Move  Move
	Piece Piece
}

// PromotionPieces lists the promotion targets in codec/SAN order.
var PromotionPieces = [...]PieceType{Queen, Rook, Bishop, Knight}

// Direction is an offset in board-indexed squares (rows run towards rank 1).
type Direction int8

const (
	North     Direction = -8
	South     Direction = 8
	East      Direction = 1
	West      Direction = -1
	Northeast Direction = -7
	Southeast Direction = 9
	Southwest Direction = 7
	Northwest Direction = -9
)

// KnightOffsets are the eight knight move deltas.
var KnightOffsets = [...]int{-17, -15, -10, -6, 6, 10, 15, 17}

// KingOffsets are the eight adjacent-square deltas.
var KingOffsets = [...]int{-9, -8, -7, -1, 1, 7, 8, 9}

// RayDirections groups directions by piece for sliding generation.
var RookDirections = [...]Direction{North, South, East, West}
var BishopDirections = [...]Direction{Northeast, Southeast, Southwest, Northwest}
var QueenDirections = [...]Direction{North, South, East, West, Northeast, Southeast, Southwest, Northwest}

// step applies a knight/king offset to sq, rejecting wrap-around across
// the board edge by file-distance, mirroring pkg/types' bounds checks.
func step(sq Square, delta int, maxFileDelta int) Square {
	dest := int(sq) + delta
	if dest < 0 || dest >= SquareLength {
		return NoSquare
	}
	if abs(Square(dest).File()-sq.File()) > maxFileDelta {
		return NoSquare
	}
	return Square(dest)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// StepKnight returns the destination of a knight offset from sq, or
// NoSquare if it runs off the board.
func StepKnight(sq Square, delta int) Square {
	return step(sq, delta, 2)
}

// StepKing returns the destination of a king offset from sq, or NoSquare
// if it runs off the board.
func StepKing(sq Square, delta int) Square {
	return step(sq, delta, 1)
}

// StepRay returns the destination one step in direction d from sq, or
// NoSquare if it runs off the board.
func StepRay(sq Square, d Direction) Square {
	return step(sq, int(d), 1)
}

// StringDebug renders a move with explicit field labels, matching the
// teacher's StringBits-style debug helpers.
func (m Move) StringDebug() string {
	return fmt.Sprintf("Move{from:%s dest:%s promo:%s}", m.From, m.Dest, m.Promotion.Char())
}
