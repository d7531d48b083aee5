/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

// Package logging is a helper for the "github.com/op/go-logging" package
// to reduce the lines of code within each go file to one line. The
// functions return Logger instances which are configured with the
// necessary backends and formatters.
package logging

import (
	"log"
	"os"

	"github.com/op/go-logging"

	"github.com/fkopp/ocgdb/internal/config"
)

var (
	standardLog *logging.Logger
	ingestLog   *logging.Logger
	queryLog    *logging.Logger
	testLog     *logging.Logger

	standardFormat = logging.MustStringFormatter(`%{time:15:04:05.000} %{shortpkg:-8.8s}:%{shortfile:-14.14s} %{level:-7.7s}:  %{message}`)
)

func init() {
	standardLog = logging.MustGetLogger("standard")
	ingestLog = logging.MustGetLogger("ingest")
	queryLog = logging.MustGetLogger("query")
	testLog = logging.MustGetLogger("test")
}

// GetLog returns an instance of a standard Logger preconfigured with an
// os.Stdout backend and a "normal" logging format (time - file - level).
func GetLog() *logging.Logger {
	backend1 := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	backend1Formatter := logging.NewBackendFormatter(backend1, standardFormat)
	standardBackEnd := logging.AddModuleLevel(backend1Formatter)
	standardBackEnd.SetLevel(logging.Level(config.LogLevel), "")
	standardLog.SetBackend(standardBackEnd)
	return standardLog
}

// GetIngestLog returns a Logger instance for the PGN ingestion pipeline
// (block reader, tokenizer, worker pool, game writer).
func GetIngestLog() *logging.Logger {
	backend1 := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	backend1Formatter := logging.NewBackendFormatter(backend1, standardFormat)
	ingestBackEnd := logging.AddModuleLevel(backend1Formatter)
	ingestBackEnd.SetLevel(logging.Level(config.IngestLogLevel), "")
	ingestLog.SetBackend(ingestBackEnd)
	return ingestLog
}

// GetQueryLog returns a Logger instance for the query parser and evaluator.
func GetQueryLog() *logging.Logger {
	backend1 := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	backend1Formatter := logging.NewBackendFormatter(backend1, standardFormat)
	queryBackEnd := logging.AddModuleLevel(backend1Formatter)
	queryBackEnd.SetLevel(logging.Level(config.QueryLogLevel), "")
	queryLog.SetBackend(queryBackEnd)
	return queryLog
}

// GetTestLog returns an instance of a standard Logger preconfigured with an
// os.Stdout backend and a "normal" logging format, for use in tests.
func GetTestLog() *logging.Logger {
	backend1 := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	backend1Formatter := logging.NewBackendFormatter(backend1, standardFormat)
	testBackEnd := logging.AddModuleLevel(backend1Formatter)
	testBackEnd.SetLevel(logging.DEBUG, "")
	testLog.SetBackend(testBackEnd)
	return testLog
}
