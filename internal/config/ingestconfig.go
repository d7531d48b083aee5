/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package config

// ingestConfiguration holds the tunables of the PGN ingestion pipeline:
// block reader sizing (spec §4.3), worker pool sizing (spec §5), and the
// duplicate detector's embedded-prefix limit (spec §4.5).
type ingestConfiguration struct {
	BlockSize          int
	OverflowBufferSize int

	NumWorkers int

	DupEmbeddedMode  bool
	DupPrefixLimit   int
	DupPlySampleStep int

	DeleteDuplicates bool
}

// sets defaults which might be overwritten by config file
func init() {
	Settings.Ingest.BlockSize = 8 * 1024 * 1024
	Settings.Ingest.OverflowBufferSize = 16 * 1024

	Settings.Ingest.NumWorkers = 0 // 0 means "use runtime.NumCPU()"

	Settings.Ingest.DupEmbeddedMode = false
	Settings.Ingest.DupPrefixLimit = 20
	Settings.Ingest.DupPlySampleStep = 5

	Settings.Ingest.DeleteDuplicates = false
}

// set defaults for configurations here in case a configuration
// is not available from the config file
func setupIngest() {
	if Settings.Ingest.BlockSize <= 0 {
		Settings.Ingest.BlockSize = 8 * 1024 * 1024
	}
	if Settings.Ingest.OverflowBufferSize <= 0 {
		Settings.Ingest.OverflowBufferSize = 16 * 1024
	}
	if Settings.Ingest.DupPrefixLimit <= 0 {
		Settings.Ingest.DupPrefixLimit = 20
	}
	if Settings.Ingest.DupPlySampleStep <= 0 {
		Settings.Ingest.DupPlySampleStep = 5
	}
}
