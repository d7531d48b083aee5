/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fkopp/ocgdb/internal/db"
	"github.com/fkopp/ocgdb/internal/dup"
	"github.com/fkopp/ocgdb/internal/pgn"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background()))
	t.Cleanup(func() { database.Close() })
	return database
}

func sampleGame(round string) pgn.Game {
	return pgn.Game{
		Tags: map[string]string{
			"Event": "Worker Test", "Site": "Somewhere", "Date": "2024.01.15",
			"Round": round, "White": "Alice", "Black": "Bob",
			"WhiteElo": "2400", "BlackElo": "2350", "Result": "1-0",
		},
		MoveText: "1. e4 e5 2. Nf3 Nc6 1-0",
	}
}

func TestProcessGameUpdatesStatsOnSuccess(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	writer, err := db.NewGameWriter(ctx, database, db.WriterOptions{Moves: db.MoveModeSAN})
	require.NoError(t, err)
	t.Cleanup(func() { writer.Close() })

	w := NewWorker(writer, nil)
	w.ProcessGame(ctx, sampleGame("1"))

	snap := w.stats.Snapshot()
	require.Equal(t, int64(1), snap.Processed)
	require.Equal(t, int64(0), snap.Errors)
}

func TestProcessGameFiltersLowEloWithoutError(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	writer, err := db.NewGameWriter(ctx, database, db.WriterOptions{Moves: db.MoveModeSAN, MinElo: 2500})
	require.NoError(t, err)
	t.Cleanup(func() { writer.Close() })

	w := NewWorker(writer, nil)
	w.ProcessGame(ctx, sampleGame("1"))

	snap := w.stats.Snapshot()
	require.Equal(t, int64(0), snap.Processed)
	require.Equal(t, int64(0), snap.Errors)
}

func TestProcessGameDetectsExactDuplicate(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	writer, err := db.NewGameWriter(ctx, database, db.WriterOptions{Moves: db.MoveModeSAN})
	require.NoError(t, err)
	t.Cleanup(func() { writer.Close() })

	reader, err := db.NewReader(ctx, database)
	require.NoError(t, err)
	t.Cleanup(func() { reader.Close() })

	detector := dup.NewDetector(reader, dup.Options{SampleStep: 2, LimitLen: 1}, 16)
	w := NewWorker(writer, detector)

	w.ProcessGame(ctx, sampleGame("1"))
	w.ProcessGame(ctx, sampleGame("2"))

	snap := w.stats.Snapshot()
	require.Equal(t, int64(2), snap.Processed)
	require.Equal(t, int64(1), snap.Duplicates)
	require.Equal(t, int64(0), snap.Deletions)
}
