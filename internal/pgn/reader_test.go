/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package pgn

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStreamFileDeliversAllGamesAcrossTinyBlocks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// force many block boundaries by using a block size far smaller than
	// the input, exercising the straddling-game path of spec §4.3.
	r := StreamFile(ctx, strings.NewReader(twoGamePGN), 16, 256)

	var got []Game
	for g := range r.Games {
		got = append(got, g)
	}
	for err := range r.Errs {
		assert.NoError(t, err)
	}

	assert.Len(t, got, 2)
	assert.Equal(t, "Test Game 1", got[0].Tags["Event"])
	assert.Equal(t, "Test Game 2", got[1].Tags["Event"])
}
