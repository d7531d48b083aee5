/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package dup

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkopp/ocgdb/internal/chess"
)

// playSAN replays a space-separated SAN move sequence from the standard
// starting position and returns the resulting move list.
func playSAN(t *testing.T, moves string) []chess.Move {
	t.Helper()
	b := chess.NewBoard()
	var out []chess.Move
	for _, s := range strings.Fields(moves) {
		m, err := b.ParseSAN(s)
		require.NoError(t, err)
		b.DoMove(m)
		out = append(out, m)
	}
	return out
}

// fakeLookup serves Stage 2 confirmation reads from an in-memory map,
// standing in for internal/db's game reader.
type fakeLookup struct {
	games map[GameID]Record
}

func (f *fakeLookup) Moves(_ context.Context, id GameID) (Record, error) {
	return f.games[id], nil
}

// TestEmbeddedPrefixDuplicateDetected covers spec §8 boundary scenario 4:
// Game A plays 1.e4 e5 2.Nf3 Nc6 (4 plies); Game B plays the same four
// plies then continues 3.Bb5 a6 (6 plies total). A's full signature should
// match B's 4-ply prefix signature, and Stage 2 should confirm A's move
// list equals B's first four moves.
func TestEmbeddedPrefixDuplicateDetected(t *testing.T) {
	aMoves := playSAN(t, "e4 e5 Nf3 Nc6")
	bMoves := playSAN(t, "e4 e5 Nf3 Nc6 Bb5 a6")

	lookup := &fakeLookup{games: map[GameID]Record{
		1: {ID: 1, Moves: aMoves, StartFEN: chess.StartFen},
	}}
	d := NewDetector(lookup, Options{SampleStep: 5, LimitLen: 2, Embedded: true, DeleteShorter: true}, 0)

	// Process the shorter game first, matching the ascending-PlyCount
	// ordering duplicate.cpp relies on.
	matches, err := d.Process(context.Background(), Record{ID: 1, Moves: aMoves, StartFEN: chess.StartFen})
	require.NoError(t, err)
	assert.Empty(t, matches)

	lookup.games[2] = Record{ID: 2, Moves: bMoves, StartFEN: chess.StartFen}
	matches, err = d.Process(context.Background(), Record{ID: 2, Moves: bMoves, StartFEN: chess.StartFen})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, GameID(1), matches[0].ShorterID)
	assert.Equal(t, GameID(2), matches[0].LongerID)
	assert.Equal(t, 4, matches[0].PrefixLen)
	assert.Equal(t, GameID(1), matches[0].DeleteID)
}

// TestNonEmbeddedModeIgnoresPrefixMatches confirms that without Embedded
// set, a shorter game being a prefix of a longer one is not reported.
func TestNonEmbeddedModeIgnoresPrefixMatches(t *testing.T) {
	aMoves := playSAN(t, "e4 e5 Nf3 Nc6")
	bMoves := playSAN(t, "e4 e5 Nf3 Nc6 Bb5 a6")

	lookup := &fakeLookup{games: map[GameID]Record{}}
	d := NewDetector(lookup, Options{SampleStep: 5, LimitLen: 2, Embedded: false}, 0)

	lookup.games[1] = Record{ID: 1, Moves: aMoves, StartFEN: chess.StartFen}
	_, err := d.Process(context.Background(), Record{ID: 1, Moves: aMoves, StartFEN: chess.StartFen})
	require.NoError(t, err)

	lookup.games[2] = Record{ID: 2, Moves: bMoves, StartFEN: chess.StartFen}
	matches, err := d.Process(context.Background(), Record{ID: 2, Moves: bMoves, StartFEN: chess.StartFen})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// TestExactDuplicateDetected covers the plain (non-embedded) case: two
// identical move lists produce a full-length match.
func TestExactDuplicateDetected(t *testing.T) {
	moves := playSAN(t, "e4 e5 Nf3 Nc6")

	lookup := &fakeLookup{games: map[GameID]Record{
		1: {ID: 1, Moves: moves, StartFEN: chess.StartFen},
	}}
	d := NewDetector(lookup, Options{SampleStep: 5, LimitLen: 2}, 0)

	_, err := d.Process(context.Background(), Record{ID: 1, Moves: moves, StartFEN: chess.StartFen})
	require.NoError(t, err)

	lookup.games[2] = Record{ID: 2, Moves: moves, StartFEN: chess.StartFen}
	matches, err := d.Process(context.Background(), Record{ID: 2, Moves: moves, StartFEN: chess.StartFen})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 4, matches[0].PrefixLen)
}

// TestGamesShorterThanLimitLenAreSkipped covers the plyCount < limitLen
// guard: a very short game never enters the registry at all.
func TestGamesShorterThanLimitLenAreSkipped(t *testing.T) {
	moves := playSAN(t, "e4 e5")
	lookup := &fakeLookup{games: map[GameID]Record{}}
	d := NewDetector(lookup, Options{SampleStep: 5, LimitLen: 10}, 0)

	matches, err := d.Process(context.Background(), Record{ID: 1, Moves: moves, StartFEN: chess.StartFen})
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Empty(t, d.registry.Probe(0))
}
