/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

// Package pgn streams PGN text into (tag-map, move-text) pairs without
// requiring the whole file to be held in memory at once. A Tokenizer is
// fed successive byte blocks and, when a block splits a game in half,
// carries the straddling tail forward into the next call so the game is
// reconstructed exactly as if it had been parsed from a single buffer.
package pgn

import (
	"errors"

	"github.com/fkopp/ocgdb/internal/util"
)

// eventAnchor is the boundary marker used to detect where a new game
// begins, per spec §4.3: every PGN game opens with an Event tag, so a
// block split is always resolvable by locating the last "[Event " before
// the split and the first "[Event " after it.
const eventAnchor = "[Event "

// errOverflow is returned when a straddling game exceeds the overflow
// buffer's capacity. The Tokenizer discards the straddling game's bytes
// and resynchronizes at the next "[Event " tag; games completed in the same
// call are still returned alongside the error, and internal/ingest counts
// the error.
var errOverflow = errors.New("pgn: straddling game exceeds overflow buffer capacity")

// Game is one (tag-map, move-text) pair extracted from the input stream.
type Game struct {
	Tags     map[string]string
	MoveText string
}

// state is the tokenizer's position within a single game's header block,
// per spec §4.3's {outside, tagName, afterName, tagContent, afterTag,
// comment} state machine.
type state int

const (
	stateOutside state = iota
	stateTagName
	stateAfterName
	stateTagContent
	stateAfterTag
	stateComment
)

// Tokenizer holds the straddling-game carry buffer between Feed calls.
type Tokenizer struct {
	overflow    []byte
	overflowCap int
}

// NewTokenizer creates a Tokenizer whose overflow buffer is capped at
// overflowCap bytes, per spec §4.3's 16 KiB default.
func NewTokenizer(overflowCap int) *Tokenizer {
	return &Tokenizer{overflowCap: overflowCap}
}

// Feed tokenizes one block of PGN text, reconstructing any game left
// straddling the previous block boundary, and returns the complete games
// found in this call. Pass final=true on the last block of the stream so
// any trailing game still open at the end of data is flushed as complete
// rather than held as a tail.
func (t *Tokenizer) Feed(block []byte, final bool) ([]Game, error) {
	if len(t.overflow) == 0 {
		return t.processAndCarry(block, final)
	}

	idx := indexOfAnchor(block)
	if idx < 0 {
		// the whole block is still inside the straddling game.
		t.overflow = append(t.overflow, block...)
		if t.overflowCap > 0 && len(t.overflow) > t.overflowCap {
			t.overflow = nil
			return nil, errOverflow
		}
		if !final {
			return nil, nil
		}
		games, _ := tokenizeSpan(t.overflow, true)
		t.overflow = nil
		return games, nil
	}

	completed := make([]byte, 0, len(t.overflow)+idx)
	completed = append(completed, t.overflow...)
	completed = append(completed, block[:idx]...)
	t.overflow = nil

	completedGames, _ := tokenizeSpan(completed, true)

	rest, err := t.processAndCarry(block[idx:], final)
	return append(completedGames, rest...), err
}

// processAndCarry runs the state machine over data (which does not begin
// mid-straddle) and, if it ends with an incomplete trailing game, stores
// that tail as the new overflow.
func (t *Tokenizer) processAndCarry(data []byte, final bool) ([]Game, error) {
	games, tailStart := tokenizeSpan(data, final)
	if final || tailStart < 0 {
		return games, nil
	}
	tail := data[tailStart:]
	if t.overflowCap > 0 && len(tail) > t.overflowCap {
		return games, errOverflow
	}
	t.overflow = append([]byte(nil), tail...)
	return games, nil
}

func indexOfAnchor(b []byte) int {
	anchor := []byte(eventAnchor)
	for i := 0; i+len(anchor) <= len(b); i++ {
		if string(b[i:i+len(anchor)]) == eventAnchor {
			return i
		}
	}
	return -1
}

// tokenizeSpan runs the spec §4.3 state machine over a standalone byte
// span, per-game boundaries given by the moment a new "[Event " tag
// opens while an in-progress game already has move text: that moment
// flushes the in-progress game as complete. tailStart is the offset of
// the last-begun "[Event " if a game is still open when data runs out
// and final is false (the caller should carry data[tailStart:] forward);
// it is -1 when there is nothing left dangling.
func tokenizeSpan(data []byte, final bool) (games []Game, tailStart int) {
	st := stateOutside
	var tagName, tagValue []byte
	var tags map[string]string
	moveStart := -1
	lastEventStart := -1

	flush := func(moveEnd int) {
		if tags != nil {
			text := ""
			if moveStart >= 0 {
				text = string(data[moveStart:moveEnd])
			}
			games = append(games, Game{Tags: tags, MoveText: text})
		}
		tags = nil
		moveStart = -1
	}

	for i := 0; i < len(data); i++ {
		ch := data[i]
		switch st {
		case stateOutside:
			switch {
			case ch == '[' && i+1 < len(data) && isUpper(data[i+1]):
				if hasAnchorAt(data, i) {
					if tags != nil {
						flush(i)
					}
					lastEventStart = i
					tags = make(map[string]string)
				} else if tags == nil {
					// a tag block before the first Event tag of the span;
					// ignore until Event establishes a game.
					break
				}
				tagName = nil
				st = stateTagName
			case ch == ';' || (ch == '%' && (i == 0 || data[i-1] == '\n')):
				st = stateComment
			case ch > ' ' && tags != nil && moveStart < 0:
				moveStart = i
			}
		case stateTagName:
			if util.IsAlpha(ch) {
				tagName = append(tagName, ch)
			} else if ch <= ' ' {
				st = stateAfterName
			} else {
				st = stateOutside
			}
		case stateAfterName:
			if ch == '"' {
				tagValue = nil
				st = stateTagContent
			}
		case stateTagContent:
			if ch == '"' || ch == 0 {
				if tags != nil {
					tags[string(tagName)] = string(tagValue)
				}
				st = stateAfterTag
			} else {
				tagValue = append(tagValue, ch)
			}
		case stateAfterTag:
			if ch == '\n' || ch == 0 {
				st = stateOutside
			}
		case stateComment:
			if ch == '\n' || ch == 0 {
				st = stateOutside
			}
		}
	}

	if final {
		flush(len(data))
		return games, -1
	}
	if tags != nil {
		return games, lastEventStart
	}
	return games, -1
}

func hasAnchorAt(data []byte, i int) bool {
	anchor := []byte(eventAnchor)
	if i+len(anchor) > len(data) {
		return false
	}
	return string(data[i:i+len(anchor)]) == eventAnchor
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
