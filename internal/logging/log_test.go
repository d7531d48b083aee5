/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLoggersReturnNonNil(t *testing.T) {
	assert.NotNil(t, GetLog())
	assert.NotNil(t, GetIngestLog())
	assert.NotNil(t, GetQueryLog())
	assert.NotNil(t, GetTestLog())
}
