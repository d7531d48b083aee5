/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

// Package config holds globally available configuration variables which
// are either set by defaults, read from a config file, or set by command
// line options.
package config

import (
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/fkopp/ocgdb/internal/util"
)

// globally available config values.
var (
	// ConfFile holds the path to the used config file (relative to working directory)
	ConfFile = "./config.toml"

	// LogLevel defines the general log level - can be overwritten by cmd line options or config file
	LogLevel = 4

	// IngestLogLevel defines the ingestion pipeline's log level
	IngestLogLevel = 4

	// QueryLogLevel defines the query engine's log level
	QueryLogLevel = 4

	// Settings is the global configuration read in from file
	Settings conf

	initialized = false
)

type conf struct {
	Log    logConfiguration
	Ingest ingestConfiguration
	Query  queryConfiguration
}

// Setup reads the configuration file and applies settings from it, falling
// back to the compiled-in defaults for anything the file omits.
func Setup() {
	if initialized {
		return
	}

	path, _ := util.ResolveFile(ConfFile)
	if _, err := toml.DecodeFile(path, &Settings); err != nil {
		log.Println("Config file not found. Using defaults. (", err, ")")
	}

	// setup log level - first check cmd line, then config file, finally leave defaults
	setupLogLvl()
	// setup ingestion pipeline config after reading from configuration file if necessary
	setupIngest()
	// setup query engine config after reading from configuration file if necessary
	setupQuery()
	initialized = true
}

// String prints out the current configuration settings and values. This
// uses reflection to read variables and their values.
func (settings *conf) String() string {
	var c strings.Builder
	c.WriteString("Ingest Config:\n")
	s := reflect.ValueOf(&settings.Ingest).Elem()
	typeOfT := s.Type()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		c.WriteString(fmt.Sprintf("%-2d: %-22s %-6s = %v\n", i, typeOfT.Field(i).Name, f.Type(), f.Interface()))
	}
	c.WriteString("\nQuery Config:\n")
	s = reflect.ValueOf(&settings.Query).Elem()
	typeOfT = s.Type()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		c.WriteString(fmt.Sprintf("%-2d: %-22s %-6s = %v\n", i, typeOfT.Field(i).Name, f.Type(), f.Interface()))
	}
	return c.String()
}
