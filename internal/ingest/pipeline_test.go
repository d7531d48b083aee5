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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fkopp/ocgdb/internal/db"
)

const twoGamePGN = `[Event "Test Game 1"]
[Site "?"]
[Round "1"]
[White "Alice"]
[Black "Bob"]
[WhiteElo "2400"]
[BlackElo "2350"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 1-0

[Event "Test Game 2"]
[Site "?"]
[Round "2"]
[White "Carol"]
[Black "Dave"]
[WhiteElo "2200"]
[BlackElo "2150"]
[Result "0-1"]

1. d4 d5 2. c4 e6 0-1
`

func TestRunIngestsBothGamesFromStream(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(":memory:", false)
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, database.Migrate(ctx))

	stats, err := Run(ctx, strings.NewReader(twoGamePGN), database, Options{
		Writer:     db.WriterOptions{Moves: db.MoveModeSAN},
		NumWorkers: 2,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Processed)
	require.Equal(t, int64(0), stats.Errors)
}
