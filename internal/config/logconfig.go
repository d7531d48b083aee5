/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package config

type logConfiguration struct {
	LogLvl    string
	IngestLvl string
	QueryLvl  string
}

// sets defaults which might be overwritten by config file
func init() {
	Settings.Log.LogLvl = "info"
	Settings.Log.IngestLvl = "info"
	Settings.Log.QueryLvl = "info"
}

// set defaults for configurations here in case a configuration
// is not available from the config file
func setupLogLvl() {
	if Settings.Log.LogLvl != "" {
		LogLevel = LogLevels[Settings.Log.LogLvl]
	}
	if Settings.Log.IngestLvl != "" {
		IngestLogLevel = LogLevels[Settings.Log.IngestLvl]
	}
	if Settings.Log.QueryLvl != "" {
		QueryLogLevel = LogLevels[Settings.Log.QueryLvl]
	}
}

// LogLevels maps string representations of log levels to numerical values
// understood by github.com/op/go-logging.
var LogLevels = map[string]int{
	"off":      -1,
	"critical": 0,
	"error":    1,
	"warning":  2,
	"notice":   3,
	"info":     4,
	"debug":    5,
}
