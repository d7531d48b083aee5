/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package dup

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/fkopp/ocgdb/internal/chess"
)

// Record is one game as replayed for duplicate detection: its database ID,
// its move list, and the FEN it starts from (the standard starting position
// or a custom FEN for Chess960/handicap games). Its ply count is len(Moves).
type Record struct {
	ID       GameID
	Moves    []chess.Move
	StartFEN string
}

// Lookup re-reads a candidate game's move list from storage, grounded on
// duplicate.cpp's getGameStatement ("SELECT FEN, Moves FROM Games WHERE ID
// = ?"). internal/db supplies the concrete implementation; the detector
// only depends on this interface so it can be unit-tested without a
// database.
type Lookup interface {
	Moves(ctx context.Context, id GameID) (Record, error)
}

// Options configures a Detector per spec §4.5.
type Options struct {
	// SampleStep is the ply stride for signature sampling (spec default: 5).
	SampleStep int
	// LimitLen is the minimum ply count a game must reach to be considered
	// at all, and (in embedded mode) the shortest prefix length probed.
	LimitLen int
	// Embedded turns on prefix-signature probing, catching a shorter game
	// that is a move-for-move prefix of a longer one.
	Embedded bool
	// DeleteShorter, when true, reports the shorter side of every confirmed
	// duplicate pair as a deletion candidate and evicts it from the
	// registry so later games cannot re-match its ID.
	DeleteShorter bool
}

// Match is one confirmed duplicate pair, after Stage 2 exact comparison.
// PrefixLen is the number of plies that were compared: the full length of
// the shorter game, whether or not the longer game continues past it.
type Match struct {
	ShorterID GameID
	LongerID  GameID
	PrefixLen int
	// DeleteID is ShorterID if opts.DeleteShorter was set, else zero.
	DeleteID GameID
}

// Detector runs the two-stage algorithm of spec §4.5 against a stream of
// games, ordered ascending by ply count so that a shorter game is always
// registered before a longer one that might embed it -- matching
// duplicate.cpp's "ORDER BY PlyCount ASC ... so that longer games can check
// back shorter ones for embedded games."
type Detector struct {
	registry *Registry
	lookup   Lookup
	opts     Options
}

// NewDetector returns a Detector backed by lookup for Stage 2 confirmation.
// capacityHint preallocates the internal registry.
func NewDetector(lookup Lookup, opts Options, capacityHint int) *Detector {
	if opts.SampleStep <= 0 {
		opts.SampleStep = 5
	}
	return &Detector{
		registry: NewRegistry(capacityHint),
		lookup:   lookup,
		opts:     opts,
	}
}

// Process runs Stage 1 bucketing and Stage 2 confirmation for one game and
// returns every confirmed duplicate pair it participates in. Games shorter
// than opts.LimitLen are skipped entirely, matching duplicate.cpp's
// "skip if plyCount < paraRecord.limitLen" guard.
func (d *Detector) Process(ctx context.Context, rec Record) ([]Match, error) {
	plyCount := len(rec.Moves)
	if plyCount < d.opts.LimitLen {
		return nil, nil
	}

	full, prefixes := Signatures(rec.Moves, rec.StartFEN, d.opts.SampleStep, d.opts.LimitLen, d.opts.Embedded)

	type probeHit struct {
		candidateID GameID
		prefixLen   int // 0 means "compare full length"
	}
	var hits []probeHit
	for _, id := range d.registry.Insert(full, rec.ID) {
		hits = append(hits, probeHit{candidateID: id})
	}
	for ply, psig := range prefixes {
		for _, id := range d.registry.Probe(psig) {
			hits = append(hits, probeHit{candidateID: id, prefixLen: ply})
		}
	}
	if len(hits) == 0 {
		return nil, nil
	}

	// Stage 2 confirmation re-reads each candidate independently, so the
	// lookups run concurrently via errgroup -- one candidate's slow disk
	// read does not stall the others the way a sequential loop would.
	confirmed := make([]*Match, len(hits))
	g, gctx := errgroup.WithContext(ctx)
	for i, h := range hits {
		i, h := i, h
		g.Go(func() error {
			cand, err := d.lookup.Moves(gctx, h.candidateID)
			if err != nil {
				return err
			}

			compareLen := h.prefixLen
			if compareLen == 0 {
				compareLen = plyCount
			}
			if len(cand.Moves) != compareLen || compareLen > plyCount {
				return nil
			}
			if !equalMoveLists(cand.Moves, rec.Moves[:compareLen]) {
				return nil
			}

			shorterID, longerID := cand.ID, rec.ID
			if plyCount < len(cand.Moves) {
				shorterID, longerID = rec.ID, cand.ID
			}
			confirmed[i] = &Match{ShorterID: shorterID, LongerID: longerID, PrefixLen: compareLen}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var matches []Match
	for _, m := range confirmed {
		if m == nil {
			continue
		}
		if d.opts.DeleteShorter {
			m.DeleteID = m.ShorterID
			d.registry.RemoveID(m.ShorterID)
		}
		matches = append(matches, *m)
	}
	return matches, nil
}

// equalMoveLists reports whether a and b are the same move-for-move
// sequence, grounded on Board::equalMoveLists in the original source.
func equalMoveLists(a, b []chess.Move) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
