/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package dup

import "sync"

// GameID identifies a stored game row, matching the database's Games.ID
// column (spec §6).
type GameID int64

// Registry is the Stage 1 candidate index: a signature-to-gameIDs map
// guarded by a single mutex, adapted from duplicate.cpp's hashGameIDMap /
// dupHashKeyMutex pair. Workers insert their own game's signature(s) and
// get back whichever gameIDs were already registered under that signature
// before the insert -- those are the Stage 2 candidates.
type Registry struct {
	mu      sync.Mutex
	buckets map[Signature][]GameID
	sigOf   map[GameID]Signature
}

// NewRegistry returns an empty Registry. capacityHint, when > 0, preallocates
// the bucket map the way Duplicate::runTask reserves hashGameIDMap capacity
// from a prior GameCount query.
func NewRegistry(capacityHint int) *Registry {
	r := &Registry{sigOf: make(map[GameID]Signature)}
	if capacityHint > 0 {
		r.buckets = make(map[Signature][]GameID, capacityHint)
	} else {
		r.buckets = make(map[Signature][]GameID)
	}
	return r
}

// Probe returns the gameIDs currently registered under sig (the Stage 2
// candidates for this game), without inserting id.
func (r *Registry) Probe(sig Signature) []GameID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.buckets[sig]) == 0 {
		return nil
	}
	out := make([]GameID, len(r.buckets[sig]))
	copy(out, r.buckets[sig])
	return out
}

// Insert registers id under sig and returns whatever gameIDs were already
// there, mirroring the original's single critical section that both reads
// the existing bucket and appends to it.
func (r *Registry) Insert(sig Signature, id GameID) []GameID {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.buckets[sig]
	var prior []GameID
	if len(existing) > 0 {
		prior = make([]GameID, len(existing))
		copy(prior, existing)
	}
	r.buckets[sig] = append(existing, id)
	r.sigOf[id] = sig
	return prior
}

// RemoveID drops id from whichever bucket it was inserted under, used after
// a confirmed duplicate is deleted so a third game cannot later match an ID
// that no longer exists in the database, per duplicate.cpp's post-deletion
// hashGameIDMap cleanup. A no-op if id was never inserted.
func (r *Registry) RemoveID(id GameID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sig, ok := r.sigOf[id]
	if !ok {
		return
	}
	delete(r.sigOf, id)
	ids := r.buckets[sig]
	for i, existing := range ids {
		if existing == id {
			r.buckets[sig] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}
