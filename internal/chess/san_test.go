/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSANRoundTrip exercises spec §8's parse(render(m)) == m invariant
// across a short representative opening of quiet moves ending in a castle.
func TestSANRoundTrip(t *testing.T) {
	b := NewBoard()
	sans := []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "Ba4", "Nf6", "O-O"}
	for _, want := range sans {
		m, err := b.ParseSAN(want)
		assert.NoError(t, err, want)
		got := b.RenderSAN(m)
		assert.Equal(t, want, got)
		b.DoMove(m)
	}
}

func TestSANDisambiguationByFile(t *testing.T) {
	b := NewBoard("4k3/8/8/8/8/8/4K3/R6R w - - 0 1")
	m, err := b.ParseSAN("Rad1")
	assert.NoError(t, err)
	assert.Equal(t, ParseSquare("a1"), m.From)
	san := b.RenderSAN(m)
	assert.Equal(t, "Rad1", san)
}

func TestSANAmbiguousWithoutDisambiguationErrors(t *testing.T) {
	b := NewBoard("4k3/8/8/8/8/8/4K3/R6R w - - 0 1")
	_, err := b.ParseSAN("Rd1")
	assert.Error(t, err)
}

func TestSANCheckSuffix(t *testing.T) {
	b := NewBoard("7k/5Q2/8/8/8/8/8/4K3 w - - 0 1")
	m, err := b.ParseSAN("Qg7")
	assert.NoError(t, err)
	san := b.RenderSAN(m)
	assert.Equal(t, "Qg7+", san)
}

func TestSANPromotionWithCapture(t *testing.T) {
	b := NewBoard("1n2k3/2P5/8/8/8/8/8/4K3 w - - 0 1")
	m, err := b.ParseSAN("cxb8=Q")
	assert.NoError(t, err)
	assert.Equal(t, Queen, m.Promotion)
	assert.Equal(t, "cxb8=Q+", b.RenderSAN(m))
}

func TestSANUnknownMoveErrors(t *testing.T) {
	b := NewBoard()
	_, err := b.ParseSAN("Qh5")
	assert.Error(t, err)
}
