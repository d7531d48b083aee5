/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkopp/ocgdb/internal/pgn"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background()))
	t.Cleanup(func() { database.Close() })
	return database
}

func sampleGame() pgn.Game {
	return pgn.Game{
		Tags: map[string]string{
			"Event": "Test Open", "Site": "Somewhere", "Date": "2024.01.15",
			"Round": "1", "White": "Alice", "Black": "Bob",
			"WhiteElo": "2400", "BlackElo": "2350", "Result": "1-0",
			"TimeControl": "90+30",
		},
		MoveText: "1. e4 e5 2. Nf3 {developing} Nc6 3. Bb5 a6 1-0",
	}
}

func TestWriteAndReadGameRoundTrip(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	w, err := NewGameWriter(ctx, database, WriterOptions{Moves: MoveModeSAN | MoveMode1Byte})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	written, err := w.WriteGame(ctx, sampleGame())
	require.NoError(t, err)
	assert.Equal(t, int64(1), written.ID)

	r, err := NewReader(ctx, database)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	rec, err := r.Get(ctx, written.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, rec.PlyCount)
	assert.Equal(t, "Alice", rec.Tags["White"])
	assert.Equal(t, "Bob", rec.Tags["Black"])
	assert.Len(t, rec.Moves, 6)
}

func TestWriteGameFiltersLowElo(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	w, err := NewGameWriter(ctx, database, WriterOptions{Moves: MoveModeSAN, MinElo: 2500})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	_, err = w.WriteGame(ctx, sampleGame())
	assert.ErrorIs(t, err, ErrSkipped)
}

func TestWriteGameFiltersShortPlyCount(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	w, err := NewGameWriter(ctx, database, WriterOptions{Moves: MoveModeSAN, MinPlyCount: 20})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	_, err = w.WriteGame(ctx, sampleGame())
	assert.ErrorIs(t, err, ErrSkipped)
}

func TestNameMapDeduplicatesRepeatedEventName(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	w, err := NewGameWriter(ctx, database, WriterOptions{Moves: MoveModeSAN})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	written1, err := w.WriteGame(ctx, sampleGame())
	require.NoError(t, err)
	game2 := sampleGame()
	game2.Tags["Round"] = "2"
	written2, err := w.WriteGame(ctx, game2)
	require.NoError(t, err)
	assert.NotEqual(t, written1.ID, written2.ID)

	var count int
	err = database.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM Events WHERE Name = ?`, "Test Open").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRenderPGNRoundTrip(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	w, err := NewGameWriter(ctx, database, WriterOptions{Moves: MoveModeSAN})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	written, err := w.WriteGame(ctx, sampleGame())
	require.NoError(t, err)

	r, err := NewReader(ctx, database)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	rec, err := r.Get(ctx, written.ID)
	require.NoError(t, err)

	out := RenderPGN(rec, map[int]string{3: "developing"})
	assert.Contains(t, out, `[White "Alice"]`)
	assert.Contains(t, out, "2024.01.15")
	assert.Contains(t, out, "1. e4 e5 2. Nf3 {developing} Nc6 3. Bb5 a6")
	assert.Contains(t, out, "1-0")
}
