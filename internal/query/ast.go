/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

// Package query implements the position-query grammar of spec §4.4: a
// lexer and recursive-descent parser that turn a query string into an
// expression tree, and an evaluator that walks that tree over a bitboard
// snapshot to decide whether a position is a hit.
package query

import "github.com/fkopp/ocgdb/internal/chess"

// NodeKind discriminates the tagged-variant query tree node of spec §3.
type NodeKind int

const (
	NodeNumber NodeKind = iota
	NodePiece
	NodeOp
)

// Op identifies an operator node's kind: logical, arithmetic, or
// comparison, per spec §4.4's grammar.
type Op int

const (
	OpAnd Op = iota
	OpOr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// allSquaresMask is the default, all-ones square mask a piece term uses
// before any square-spec narrows it (spec §4.4: "The default mask is
// all-ones").
const allSquaresMask uint64 = ^uint64(0)

// Node is one node of the query expression tree. Only the fields
// relevant to Kind are populated.
type Node struct {
	Kind NodeKind

	// NodeNumber
	Number int64

	// NodePiece: sideFilter, typeFilter, squareMask, maskIsDefault of
	// spec §4.4. TypeFilter is chess.NoPieceType for the "white"/"black"
	// keywords, which count every piece of that side.
	Side          chess.Color
	TypeFilter    chess.PieceType
	SquareMask    uint64
	MaskIsDefault bool

	// NodeOp
	Op    Op
	Left  *Node
	Right *Node
}

func newPieceNode(side chess.Color, pt chess.PieceType) *Node {
	return &Node{Kind: NodePiece, Side: side, TypeFilter: pt, SquareMask: allSquaresMask, MaskIsDefault: true}
}

func newNumberNode(v int64) *Node {
	return &Node{Kind: NodeNumber, Number: v}
}

func newOpNode(op Op, left, right *Node) *Node {
	return &Node{Kind: NodeOp, Op: op, Left: left, Right: right}
}
