/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package chess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fkopp/ocgdb/internal/assert"
	"github.com/fkopp/ocgdb/internal/util"
)

// StartFen is the FEN of the standard chess starting position.
const StartFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// maxHistory bounds the ply history a single Board instance keeps; a
// worker Board is reset between games so this only needs to cover one
// game's length, generously.
const maxHistory = 1024

// historyEntry records everything needed to exactly reverse one ply,
// plus the narrative data (SAN, comment) attached to it once known.
type historyEntry struct {
	move         Move
	movingPiece  Piece
	captured     Piece
	capturedSq   Square // differs from move.Dest only for en-passant
	preEpSquare  Square
	preCastling  [2]CastlingRights
	preHashKey   Key
	preHalfClock int
	castled      bool
	san          string
	comment      string
	snapshot     *Snapshot
}

// Board is a chess position: the 8x8 piece array, side to move, castling
// rights, en-passant target, move counters, incremental Zobrist key, and
// the ply history needed to unmake moves and detect repetition.
//
// A Board is owned by a single worker goroutine and reused across games
// via Reset; it is not safe for concurrent use.
type Board struct {
	squares    [SquareLength]Piece
	sideToMove Color
	castling   [2]CastlingRights // indexed by Color
	epSquare   Square
	halfClock  int
	fullMove   int
	hashKey    Key
	kingSquare [2]Square
	startFen   string
	history    []historyEntry
}

// NewBoard creates a Board at the standard starting position, or at the
// given FEN if one is supplied.
func NewBoard(fen ...string) *Board {
	b := &Board{}
	if len(fen) > 0 && fen[0] != "" {
		if err := b.SetFEN(fen[0]); err != nil {
			b.SetFEN(StartFen) //nolint:errcheck // fen is a constant, cannot fail
		}
	} else {
		b.SetFEN(StartFen) //nolint:errcheck
	}
	return b
}

// Reset reinitializes the board to the standard start position and clears
// history, so a worker can reuse one Board instance across games.
func (b *Board) Reset() {
	b.SetFEN(StartFen) //nolint:errcheck
}

// SideToMove returns the color to move.
func (b *Board) SideToMove() Color { return b.sideToMove }

// EpSquare returns the current en-passant target square, or NoSquare.
func (b *Board) EpSquare() Square { return b.epSquare }

// CastlingRights returns the castling rights for color c.
func (b *Board) CastlingRights(c Color) CastlingRights { return b.castling[c] }

// HalfMoveClock returns the quiet-ply counter used for the fifty-move rule.
func (b *Board) HalfMoveClock() int { return b.halfClock }

// FullMoveNumber returns the current full-move number.
func (b *Board) FullMoveNumber() int { return b.fullMove }

// Hash returns the current Zobrist key.
func (b *Board) Hash() Key { return b.hashKey }

// KingSquare returns the square of color c's king.
func (b *Board) KingSquare(c Color) Square { return b.kingSquare[c] }

// StartFen returns the FEN the board was set up from (empty for standard).
func (b *Board) StartFen() string {
	if b.startFen == StartFen {
		return ""
	}
	return b.startFen
}

// Ply returns the number of half-moves played so far.
func (b *Board) Ply() int { return len(b.history) }

// PieceAt returns the piece on sq, or NoPiece if empty.
func (b *Board) PieceAt(sq Square) Piece { return b.squares[sq] }

// LastMove returns the move played in the most recent DoMove, or NoMove.
func (b *Board) LastMove() Move {
	if len(b.history) == 0 {
		return NoMove
	}
	return b.history[len(b.history)-1].move
}

// LastCapturedPiece returns the piece captured by the last move, if any.
func (b *Board) LastCapturedPiece() Piece {
	if len(b.history) == 0 {
		return NoPiece
	}
	return b.history[len(b.history)-1].captured
}

// SetLastSAN attaches the SAN string to the history entry of the most
// recently played move; it does nothing when the history is empty.
func (b *Board) SetLastSAN(san string) {
	if len(b.history) > 0 {
		b.history[len(b.history)-1].san = san
	}
}

// SetLastComment attaches an inline PGN comment to the last played ply.
func (b *Board) SetLastComment(comment string) {
	if len(b.history) > 0 {
		b.history[len(b.history)-1].comment = comment
	}
}

// HistorySAN returns the SAN strings played so far, in order.
func (b *Board) HistorySAN() []string {
	out := make([]string, len(b.history))
	for i, h := range b.history {
		out[i] = h.san
	}
	return out
}

// HistoryComment returns the comment attached at ply (1-based), or "" if
// none was recorded. The board stores no pre-move comment, so ply 0
// always yields "".
func (b *Board) HistoryComment(ply int) string {
	if ply < 0 || ply > len(b.history) {
		return ""
	}
	if ply == 0 {
		return ""
	}
	return b.history[ply-1].comment
}

// put places piece p on sq, updating the king-square cache. Does not
// touch the hash key; callers XOR separately so captures/moves can
// compose multiple placements into one hash update.
func (b *Board) put(p Piece, sq Square) {
	b.squares[sq] = p
	if p.Type == King {
		b.kingSquare[p.Color] = sq
	}
}

// remove clears sq and returns what was there.
func (b *Board) remove(sq Square) Piece {
	p := b.squares[sq]
	b.squares[sq] = NoPiece
	return p
}

// DoMove plays m on the board, updating all derived state and pushing a
// history entry that UndoMove can use to reverse it exactly. The caller
// is responsible for having established that m is legal (see IsLegalMove
// in attacks.go) -- DoMove itself does not check legality.
func (b *Board) DoMove(m Move) {
	mover := b.squares[m.From]
	target := b.squares[m.Dest]

	h := historyEntry{
		move:         m,
		movingPiece:  mover,
		captured:     target,
		capturedSq:   m.Dest,
		preEpSquare:  b.epSquare,
		preCastling:  b.castling,
		preHashKey:   b.hashKey,
		preHalfClock: b.halfClock,
	}

	// remove any ep file contribution for the *current* en-passant square
	// before it changes
	b.clearEpHash()

	isEnPassant := mover.Type == Pawn && m.Dest == b.epSquare && target.IsEmpty()
	isCastling := mover.Type == King && absInt(m.Dest.File()-m.From.File()) == 2

	switch {
	case isCastling:
		b.doCastling(mover, m)
		h.castled = true
	case isEnPassant:
		capSq := Square(int(m.Dest) + int(South))
		if mover.Color == Black {
			capSq = Square(int(m.Dest) + int(North))
		}
		h.captured = b.remove(capSq)
		h.capturedSq = capSq
		b.hashKey ^= zobristPiece(h.captured, capSq)
		b.relocate(m.From, m.Dest, mover)
	default:
		if !target.IsEmpty() {
			b.hashKey ^= zobristPiece(target, m.Dest)
		}
		b.relocate(m.From, m.Dest, mover)
		if m.Promotion != NoPieceType {
			b.hashKey ^= zobristPiece(mover, m.Dest) // remove pawn contribution
			promoted := Piece{m.Promotion, mover.Color}
			b.put(promoted, m.Dest)
			b.hashKey ^= zobristPiece(promoted, m.Dest)
		}
	}

	b.updateCastlingRights(mover, m, h.captured, h.capturedSq)

	// en-passant target: only set on a two-square pawn advance, and only
	// hashed in when an enemy pawn actually attacks it (spec §4.1 / §8.1)
	b.epSquare = NoSquare
	if mover.Type == Pawn && absInt(m.Dest.Rank()-m.From.Rank()) == 2 {
		b.epSquare = Square((int(m.From) + int(m.Dest)) / 2)
	}
	b.hashEpSquare(mover.Color.Flip())

	if mover.Type == Pawn || !h.captured.IsEmpty() {
		b.halfClock = 0
	} else {
		b.halfClock++
	}
	if b.sideToMove == Black {
		b.fullMove++
	}

	b.hashKey ^= b.sideToMove.zobristSide() ^ b.sideToMove.Flip().zobristSide()
	b.sideToMove = b.sideToMove.Flip()

	b.history = append(b.history, h)

	if assert.DEBUG {
		assert.Assert(b.hashKey == b.recomputeHash(), "hash key diverged from recomputation after %s", m)
	}
}

// zobristSide is 0 for White's contribution (the side-to-move bit is only
// present when it is Black to move).
func (c Color) zobristSide() Key {
	if c == Black {
		return zobrist.sideToMove
	}
	return 0
}

func (b *Board) doCastling(king Piece, m Move) {
	b.relocate(m.From, m.Dest, king)
	rank := m.From.Rank()
	if m.Dest.File() > m.From.File() { // king side
		rookFrom := NewSquare(7, rank)
		rookTo := NewSquare(5, rank)
		b.relocateRook(rookFrom, rookTo, king.Color)
	} else { // queen side
		rookFrom := NewSquare(0, rank)
		rookTo := NewSquare(3, rank)
		b.relocateRook(rookFrom, rookTo, king.Color)
	}
}

func (b *Board) relocateRook(from, to Square, c Color) {
	rook := b.remove(from)
	b.hashKey ^= zobristPiece(rook, from)
	b.put(rook, to)
	b.hashKey ^= zobristPiece(rook, to)
}

func (b *Board) relocate(from, to Square, p Piece) {
	b.remove(from)
	b.hashKey ^= zobristPiece(p, from)
	b.put(p, to)
	b.hashKey ^= zobristPiece(p, to)
}

// updateCastlingRights revokes rights when a king or rook moves, or when
// a rook is captured on its home square.
func (b *Board) updateCastlingRights(mover Piece, m Move, captured Piece, capturedSq Square) {
	for _, c := range [2]Color{White, Black} {
		if mover.Type == King && mover.Color == c {
			b.revokeCastling(c, true)
			b.revokeCastling(c, false)
		}
	}
	homeRank := map[Color]int{White: 1, Black: 8}
	if mover.Type == Rook {
		if m.From == NewSquare(7, homeRank[mover.Color]) {
			b.revokeCastling(mover.Color, true)
		} else if m.From == NewSquare(0, homeRank[mover.Color]) {
			b.revokeCastling(mover.Color, false)
		}
	}
	if captured.Type == Rook {
		if capturedSq == NewSquare(7, homeRank[captured.Color]) {
			b.revokeCastling(captured.Color, true)
		} else if capturedSq == NewSquare(0, homeRank[captured.Color]) {
			b.revokeCastling(captured.Color, false)
		}
	}
}

func (b *Board) revokeCastling(c Color, short bool) {
	rights := &b.castling[c]
	if (short && !rights.Short) || (!short && !rights.Long) {
		return
	}
	b.hashKey ^= zobristCastling(c, short)
	if short {
		rights.Short = false
	} else {
		rights.Long = false
	}
}

func (b *Board) clearEpHash() {
	if b.epSquare != NoSquare && b.pawnAttacksSquare(b.sideToMove, b.epSquare) {
		b.hashKey ^= zobristEpFile(b.epSquare.File())
	}
}

func (b *Board) hashEpSquare(attacker Color) {
	if b.epSquare != NoSquare && b.pawnAttacksSquare(attacker, b.epSquare) {
		b.hashKey ^= zobristEpFile(b.epSquare.File())
	}
}

// pawnAttacksSquare reports whether any pawn of color c attacks sq --
// used to decide whether the en-passant file belongs in the Zobrist key
// (spec §4.1: "only when a pawn of the moving side actually attacks the
// en-passant square").
func (b *Board) pawnAttacksSquare(c Color, sq Square) bool {
	dir := South
	if c == Black {
		dir = North
	}
	for _, off := range []Direction{East, West} {
		from := StepRay(sq, dir)
		if from == NoSquare {
			continue
		}
		from = StepRay(from, off)
		if from == NoSquare {
			continue
		}
		p := b.squares[from]
		if p.Type == Pawn && p.Color == c {
			return true
		}
	}
	return false
}

// UndoMove reverses the most recently played move using the top history
// entry, restoring every piece of state DoMove touched.
func (b *Board) UndoMove() {
	if len(b.history) == 0 {
		return
	}
	h := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]

	m := h.move
	b.sideToMove = b.sideToMove.Flip()
	if b.sideToMove == Black {
		b.fullMove--
	}

	switch {
	case h.castled:
		b.put(h.movingPiece, m.From)
		b.squares[m.Dest] = NoPiece
		b.kingSquare[h.movingPiece.Color] = m.From
		rank := m.From.Rank()
		if m.Dest.File() > m.From.File() {
			rook := b.remove(NewSquare(5, rank))
			b.put(rook, NewSquare(7, rank))
		} else {
			rook := b.remove(NewSquare(3, rank))
			b.put(rook, NewSquare(0, rank))
		}
	case h.movingPiece.Type == Pawn && h.capturedSq != m.Dest && !h.captured.IsEmpty():
		// en passant
		b.squares[m.Dest] = NoPiece
		b.put(h.movingPiece, m.From)
		b.put(h.captured, h.capturedSq)
	default:
		b.put(h.movingPiece, m.From)
		if h.captured.IsEmpty() {
			b.squares[m.Dest] = NoPiece
		} else {
			b.put(h.captured, m.Dest)
		}
	}

	b.epSquare = h.preEpSquare
	b.castling = h.preCastling
	b.hashKey = h.preHashKey
	b.halfClock = h.preHalfClock
}

// absInt wraps util.Abs at the int width movegen/board code uses throughout
// (file/rank deltas, ply diffs).
func absInt(n int) int { return util.Abs(n) }

// recomputeHash rebuilds the Zobrist key from scratch: piece placement,
// side to move, castling rights, en-passant. Used by DoMove's debug-build
// invariant check and by SetFEN.
func (b *Board) recomputeHash() Key {
	var k Key
	for sq := Square(0); sq < SquareLength; sq++ {
		p := b.squares[sq]
		if !p.IsEmpty() {
			k ^= zobristPiece(p, sq)
		}
	}
	for _, c := range [2]Color{White, Black} {
		if b.castling[c].Short {
			k ^= zobristCastling(c, true)
		}
		if b.castling[c].Long {
			k ^= zobristCastling(c, false)
		}
	}
	if b.epSquare != NoSquare && b.pawnAttacksSquare(b.sideToMove, b.epSquare) {
		k ^= zobristEpFile(b.epSquare.File())
	}
	k ^= b.sideToMove.zobristSide()
	return k
}

// SetFEN resets the board to the position described by fen.
func (b *Board) SetFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return fmt.Errorf("invalid FEN %q: need at least 4 fields", fen)
	}

	for i := range b.squares {
		b.squares[i] = NoPiece
	}
	rows := strings.Split(fields[0], "/")
	if len(rows) != 8 {
		return fmt.Errorf("invalid FEN %q: need 8 ranks", fen)
	}
	for row, rowStr := range rows {
		col := 0
		for i := 0; i < len(rowStr); i++ {
			ch := rowStr[i]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			if col > 7 {
				return fmt.Errorf("invalid FEN %q: rank %d overflows", fen, row+1)
			}
			p := PieceFromChar(ch)
			if p.IsEmpty() {
				return fmt.Errorf("invalid FEN %q: bad piece char %q", fen, ch)
			}
			sq := Square(row*8 + col)
			b.put(p, sq)
			col++
		}
	}

	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return fmt.Errorf("invalid FEN %q: bad side to move", fen)
	}

	b.castling = [2]CastlingRights{}
	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				b.castling[White].Short = true
			case 'Q':
				b.castling[White].Long = true
			case 'k':
				b.castling[Black].Short = true
			case 'q':
				b.castling[Black].Long = true
			}
		}
	}

	b.epSquare = NoSquare
	if fields[3] != "-" {
		b.epSquare = ParseSquare(fields[3])
	}

	b.halfClock = 0
	b.fullMove = 1
	if len(fields) >= 5 {
		if v, err := strconv.Atoi(fields[4]); err == nil {
			b.halfClock = v
		}
	}
	if len(fields) >= 6 {
		if v, err := strconv.Atoi(fields[5]); err == nil {
			b.fullMove = v
		}
	}

	b.history = b.history[:0]
	b.startFen = fen
	b.hashKey = b.recomputeHash()
	return nil
}

// FEN renders the current position as a FEN string.
func (b *Board) FEN() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			p := b.squares[row*8+col]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row != 7 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(b.sideToMove.String())
	sb.WriteByte(' ')
	castling := ""
	if b.castling[White].Short {
		castling += "K"
	}
	if b.castling[White].Long {
		castling += "Q"
	}
	if b.castling[Black].Short {
		castling += "k"
	}
	if b.castling[Black].Long {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)
	sb.WriteByte(' ')
	sb.WriteString(b.epSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullMove))
	return sb.String()
}

// EPD renders the position as Extended Position Description: the FEN's
// first four fields plus the given opcode/operand pairs (e.g. "bm", "e4;").
func (b *Board) EPD(opcodes ...string) string {
	fen := b.FEN()
	fields := strings.Fields(fen)
	epd := strings.Join(fields[:4], " ")
	if len(opcodes) > 0 {
		epd += " " + strings.Join(opcodes, " ")
	}
	return epd
}

func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sb.WriteString(strconv.Itoa(8 - row))
		sb.WriteString(" | ")
		for col := 0; col < 8; col++ {
			sb.WriteString(b.squares[row*8+col].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  | a b c d e f g h\n")
	sb.WriteString(b.FEN())
	return sb.String()
}

// ErrNoKing signals a board with no king for some side, which violates
// the "exactly one king per side" invariant of spec §3.
var ErrNoKing = errors.New("chess: board has no king for the side")
