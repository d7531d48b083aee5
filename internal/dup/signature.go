/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

// Package dup implements the two-stage duplicate detector of spec §4.5:
// a fast hash-bucketing pass followed by an exact move-list confirmation
// pass, grounded on original_source/src/duplicate.cpp's
// Duplicate::processAGameWithAThread and its hashGameIDMap bucketing.
package dup

import (
	"github.com/fkopp/ocgdb/internal/chess"
	"github.com/fkopp/ocgdb/internal/util"
)

// Signature is the XOR-folded duplicate-detection hash of spec §4.5: the
// per-position Zobrist hash sampled every sampleStep plies, XOR'd together
// with the hash of the final ply regardless of stride alignment. Two games
// (or a game and a prefix of another) that reach the same position on every
// sampled ply collide here and become Stage 1 candidates.
type Signature uint64

// signatureUpTo folds hashes[0], hashes[sampleStep], hashes[2*sampleStep],
// ... and hashes[finalPly] into one Signature. finalPly is included exactly
// once even when it also falls on the sample stride, matching the original's
// "ply 0, 5, 10, ..., and the final hash" wording without double-XORing a
// hash that would otherwise cancel itself out.
func signatureUpTo(hashes []chess.Key, finalPly, sampleStep int) Signature {
	if sampleStep <= 0 {
		sampleStep = 1
	}
	var sig Signature
	for ply := 0; ply < finalPly; ply += sampleStep {
		sig ^= Signature(hashes[ply])
	}
	sig ^= Signature(hashes[finalPly])
	return sig
}

// Signatures replays moves from startFEN and returns the end-of-game
// signature plus, when embedded is true, every prefix signature for ply
// lengths in [max(limitLen,1), len(moves)) per spec §4.5's embedded mode:
// "also compute and bucket the signature for every prefix of length >=
// limitLen." Prefixes are keyed by their ply length so the detector can
// report which prefix of a longer game matched a shorter one.
func Signatures(moves []chess.Move, startFEN string, sampleStep, limitLen int, embedded bool) (full Signature, prefixes map[int]Signature) {
	b := chess.NewBoard(startFEN)
	hashes := make([]chess.Key, 0, len(moves)+1)
	hashes = append(hashes, b.Hash())
	for _, m := range moves {
		b.DoMove(m)
		hashes = append(hashes, b.Hash())
	}

	full = signatureUpTo(hashes, len(moves), sampleStep)
	if !embedded {
		return full, nil
	}

	start := util.Max(limitLen, 1)
	if start >= len(moves) {
		return full, nil
	}
	prefixes = make(map[int]Signature, len(moves)-start)
	for ply := start; ply < len(moves); ply++ {
		prefixes[ply] = signatureUpTo(hashes, ply, sampleStep)
	}
	return full, prefixes
}
