/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package config

// queryConfiguration holds the tunables of the position-query engine
// (spec §4.4): how a hit is reported and whether replay stops at the
// first hit or continues to enumerate every matching ply.
type queryConfiguration struct {
	MaxQueryLength  int
	ExhaustiveByDef bool
	IncludeFEN      bool
	IncludePGN      bool
	ResultLimit     int
}

// sets defaults which might be overwritten by config file
func init() {
	Settings.Query.MaxQueryLength = 4096
	Settings.Query.ExhaustiveByDef = false
	Settings.Query.IncludeFEN = true
	Settings.Query.IncludePGN = false
	Settings.Query.ResultLimit = 0 // 0 means unlimited
}

// set defaults for configurations here in case a configuration
// is not available from the config file
func setupQuery() {
	if Settings.Query.MaxQueryLength <= 0 {
		Settings.Query.MaxQueryLength = 4096
	}
}
