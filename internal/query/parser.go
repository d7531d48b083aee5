/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package query

import (
	"fmt"

	"github.com/fkopp/ocgdb/internal/chess"
	"github.com/fkopp/ocgdb/internal/config"
)

// pieceNameTable maps the grammar's pieceName tokens (spec §4.4) to a
// (side, type) pair; "white"/"black" use NoPieceType to mean "every piece
// of that side."
var pieceNameTable = map[string]struct {
	side chess.Color
	typ  chess.PieceType
}{
	"K": {chess.White, chess.King}, "Q": {chess.White, chess.Queen},
	"R": {chess.White, chess.Rook}, "B": {chess.White, chess.Bishop},
	"N": {chess.White, chess.Knight}, "P": {chess.White, chess.Pawn},
	"k": {chess.Black, chess.King}, "q": {chess.Black, chess.Queen},
	"r": {chess.Black, chess.Rook}, "b": {chess.Black, chess.Bishop},
	"n": {chess.Black, chess.Knight}, "p": {chess.Black, chess.Pawn},
	"white": {chess.White, chess.NoPieceType},
	"black": {chess.Black, chess.NoPieceType},
}

var comparatorTable = map[string]Op{
	"=": OpEq, "==": OpEq, "!=": OpNe, "<>": OpNe,
	"<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe,
}

// Parser is a recursive-descent parser over the grammar of spec §4.4.
type Parser struct {
	lex *lexer
	cur token
}

// Parse builds the query tree for s. The tree is immutable once built and
// safe to share read-only across many worker evaluations, per spec §3's
// ownership note.
func Parse(s string) (*Node, error) {
	if max := config.Settings.Query.MaxQueryLength; max > 0 && len(s) > max {
		return nil, fmt.Errorf("query: %d bytes exceeds MaxQueryLength (%d)", len(s), max)
	}
	p := &Parser{lex: newLexer(s)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("query: unexpected trailing input %q", p.cur.text)
	}
	return n, nil
}

func (p *Parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

// query = condition { ("and"|"or") condition }
func (p *Parser) parseQuery() (*Node, error) {
	left, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokAndOr {
		opText := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		op := OpAnd
		if opText == "or" {
			op = OpOr
		}
		left = newOpNode(op, left, right)
	}
	return left, nil
}

// condition = expression { comparator expression }
func (p *Parser) parseCondition() (*Node, error) {
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokComparator {
		op, ok := comparatorTable[p.cur.text]
		if !ok {
			return nil, fmt.Errorf("query: unknown comparator %q", p.cur.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		left = newOpNode(op, left, right)
	}
	return left, nil
}

// expression = term { ("+"|"-") term }
func (p *Parser) parseExpression() (*Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokAddSub {
		op := OpAdd
		if p.cur.text == "-" {
			op = OpSub
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = newOpNode(op, left, right)
	}
	return left, nil
}

// term = factor { ("*"|"/") factor }
func (p *Parser) parseTerm() (*Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokMulDiv {
		op := OpMul
		if p.cur.text == "/" {
			op = OpDiv
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = newOpNode(op, left, right)
	}
	return left, nil
}

// factor = number | "(" expression ")" | piece
func (p *Parser) parseFactor() (*Node, error) {
	switch p.cur.kind {
	case tokNumber:
		var v int64
		if _, err := fmt.Sscanf(p.cur.text, "%d", &v); err != nil {
			return nil, fmt.Errorf("query: invalid number %q", p.cur.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return newNumberNode(v), nil
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("query: expected ')'")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil
	case tokString:
		return p.parsePiece()
	default:
		return nil, fmt.Errorf("query: unexpected token %q", p.cur.text)
	}
}

// piece = pieceName [ "[" squareSpec { "," squareSpec } "]" ]
//
// The lexer's maximal-munch scanning folds an inline square reference
// directly onto the piece-name token, e.g. "kb7" lexes as one string
// token; pieceName is then just its first character (or "white"/"black"'s
// first five), and any remaining suffix is itself a single squareSpec --
// matching the original parser's Node::selectSquare(word.string.c_str() +
// len) call, which runs before ever checking for a following "[".
func (p *Parser) parsePiece() (*Node, error) {
	text := p.cur.text
	name, suffix, err := splitPieceName(text)
	if err != nil {
		return nil, err
	}
	def := pieceNameTable[name]
	node := newPieceNode(def.side, def.typ)
	if err := p.advance(); err != nil {
		return nil, err
	}

	if suffix != "" {
		m, err := maskForSingle(suffix)
		if err != nil {
			return nil, err
		}
		node.SquareMask = m
		node.MaskIsDefault = false
		return node, nil
	}

	if p.cur.kind != tokLBracket {
		return node, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var mask uint64
	for {
		m, err := p.parseSquareSpec()
		if err != nil {
			return nil, err
		}
		mask |= m
		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if p.cur.kind != tokRBracket {
		return nil, fmt.Errorf("query: expected ']'")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	node.SquareMask = mask
	node.MaskIsDefault = false
	return node, nil
}

// splitPieceName separates a lexed piece token into its pieceName prefix
// and any trailing inline square suffix, e.g. "kb7" -> ("k", "b7"),
// "white" -> ("white", ""), "Pd4" -> ("P", "d4").
func splitPieceName(text string) (name, suffix string, err error) {
	if text == "" {
		return "", "", fmt.Errorf("query: empty piece token")
	}
	if len(text) >= 5 && (text[:5] == "white" || text[:5] == "black") {
		return text[:5], text[5:], nil
	}
	name = text[:1]
	if _, ok := pieceNameTable[name]; !ok {
		return "", "", fmt.Errorf("query: unknown piece name %q", name)
	}
	return name, text[1:], nil
}

// squareSpec = square | square "-" square | file | rank | file "-" file | rank "-" rank
func (p *Parser) parseSquareSpec() (uint64, error) {
	first := p.cur
	if first.kind != tokString && first.kind != tokNumber {
		return 0, fmt.Errorf("query: expected a square, file, or rank specifier")
	}
	if err := p.advance(); err != nil {
		return 0, err
	}

	if p.cur.kind == tokAddSub && p.cur.text == "-" {
		if err := p.advance(); err != nil {
			return 0, err
		}
		second := p.cur
		if second.kind != tokString && second.kind != tokNumber {
			return 0, fmt.Errorf("query: expected a square, file, or rank specifier after '-'")
		}
		if err := p.advance(); err != nil {
			return 0, err
		}
		return maskForRange(first.text, second.text)
	}
	return maskForSingle(first.text)
}

func maskForSingle(spec string) (uint64, error) {
	switch len(spec) {
	case 1:
		c := spec[0]
		switch {
		case c >= 'a' && c <= 'h':
			return fileMask(int(c - 'a')), nil
		case c >= '1' && c <= '8':
			return rankMask(int(c - '1')), nil
		}
	case 2:
		sq := chess.ParseSquare(spec)
		if sq.IsValid() {
			return uint64(1) << sq.BB(), nil
		}
	}
	return 0, fmt.Errorf("query: invalid square specifier %q", spec)
}

func maskForRange(a, b string) (uint64, error) {
	if len(a) == 2 && len(b) == 2 {
		sqA, sqB := chess.ParseSquare(a), chess.ParseSquare(b)
		if !sqA.IsValid() || !sqB.IsValid() {
			return 0, fmt.Errorf("query: invalid square range %q-%q", a, b)
		}
		lo, hi := sqA.BB(), sqB.BB()
		if lo > hi {
			lo, hi = hi, lo
		}
		var mask uint64
		for s := lo; s <= hi; s++ {
			mask |= uint64(1) << s
			if s == 63 {
				break
			}
		}
		return mask, nil
	}
	if len(a) == 1 && len(b) == 1 && a[0] >= 'a' && a[0] <= 'h' && b[0] >= 'a' && b[0] <= 'h' {
		lo, hi := int(a[0]-'a'), int(b[0]-'a')
		if lo > hi {
			lo, hi = hi, lo
		}
		var mask uint64
		for f := lo; f <= hi; f++ {
			mask |= fileMask(f)
		}
		return mask, nil
	}
	if len(a) == 1 && len(b) == 1 && a[0] >= '1' && a[0] <= '8' && b[0] >= '1' && b[0] <= '8' {
		lo, hi := int(a[0]-'1'), int(b[0]-'1')
		if lo > hi {
			lo, hi = hi, lo
		}
		var mask uint64
		for r := lo; r <= hi; r++ {
			mask |= rankMask(r)
		}
		return mask, nil
	}
	return 0, fmt.Errorf("query: mismatched range specifiers %q-%q", a, b)
}

// fileMask returns the bitboard-domain mask of file index f (0=a..7=h).
func fileMask(f int) uint64 {
	const fileA = uint64(0x0101010101010101)
	return fileA << uint(f)
}

// rankMask returns the bitboard-domain mask of rank index r (0=rank1..7=rank8).
func rankMask(r int) uint64 {
	const rank1 = uint64(0xFF)
	return rank1 << uint(8*r)
}
