/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package config

import (
	"os"
	"path"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

// make tests run in the project's root directory.
func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "../..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}

func TestSetupAppliesDefaults(t *testing.T) {
	initialized = false
	Setup()

	assert.Equal(t, 8*1024*1024, Settings.Ingest.BlockSize)
	assert.Equal(t, 16*1024, Settings.Ingest.OverflowBufferSize)
	assert.Equal(t, 20, Settings.Ingest.DupPrefixLimit)
	assert.Equal(t, 5, Settings.Ingest.DupPlySampleStep)
	assert.False(t, Settings.Ingest.DupEmbeddedMode)

	assert.Equal(t, 4096, Settings.Query.MaxQueryLength)
	assert.True(t, Settings.Query.IncludeFEN)

	assert.Contains(t, LogLevels, Settings.Log.LogLvl)
}

func TestSetupIsIdempotent(t *testing.T) {
	initialized = false
	Setup()
	Settings.Ingest.NumWorkers = 7
	Setup() // second call must be a no-op since initialized is already true
	assert.Equal(t, 7, Settings.Ingest.NumWorkers)
}

func TestStringDumpsBothSections(t *testing.T) {
	initialized = false
	Setup()
	dump := Settings.String()
	assert.Contains(t, dump, "Ingest Config:")
	assert.Contains(t, dump, "Query Config:")
	assert.Contains(t, dump, "BlockSize")
}
