/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

// Package ingest binds the block reader, tokenizer, worker pool, chess
// engine, codec, and relational store into the pipeline of spec §2/§5.
package ingest

import (
	"context"
	"sync/atomic"

	"github.com/fkopp/ocgdb/internal/db"
	"github.com/fkopp/ocgdb/internal/dup"
	"github.com/fkopp/ocgdb/internal/logging"
	"github.com/fkopp/ocgdb/internal/pgn"
)

// Stats holds one worker's running counters, per spec §5's "Per-worker
// state... counters (games processed, errors, duplicates, deletions) are
// atomic or protected by a short-lived stats lock." All four fields are
// updated with atomic.AddInt64 so Snapshot can be read concurrently from
// any goroutine without a lock.
type Stats struct {
	Processed  int64
	Errors     int64
	Duplicates int64
	Deletions  int64
}

// addProcessed, addError, addDuplicate and addDeletion each atomically
// increment one counter of s by one.
func (s *Stats) addProcessed()  { atomic.AddInt64(&s.Processed, 1) }
func (s *Stats) addError()      { atomic.AddInt64(&s.Errors, 1) }
func (s *Stats) addDuplicate()  { atomic.AddInt64(&s.Duplicates, 1) }
func (s *Stats) addDeletion()   { atomic.AddInt64(&s.Deletions, 1) }

// Snapshot returns a copy of s safe to read without racing further updates.
func (s *Stats) Snapshot() Stats {
	return Stats{
		Processed:  atomic.LoadInt64(&s.Processed),
		Errors:     atomic.LoadInt64(&s.Errors),
		Duplicates: atomic.LoadInt64(&s.Duplicates),
		Deletions:  atomic.LoadInt64(&s.Deletions),
	}
}

// Worker owns the per-task resources of spec §5's "Per-worker state": a
// game writer with its prepared statements, and (when duplicate detection
// is enabled) the shared detector -- the two scratch boards spec §5
// describes live inside GameWriter.WriteGame's replay and
// Detector.Process's Stage 2 confirmation respectively, each a fresh
// chess.Board per call rather than a persistent field, since neither
// replay depends on state surviving across games.
type Worker struct {
	writer   *db.GameWriter
	detector *dup.Detector // nil if duplicate detection is off
	stats    Stats
}

// NewWorker returns a Worker bound to writer, optionally wired to detector.
func NewWorker(writer *db.GameWriter, detector *dup.Detector) *Worker {
	return &Worker{writer: writer, detector: detector}
}

// ProcessGame runs one game through the write path and (if enabled) the
// duplicate detector, updating w.stats. Errors are absorbed per spec §7:
// "Errors are never propagated across game boundaries."
func (w *Worker) ProcessGame(ctx context.Context, g pgn.Game) {
	written, err := w.writer.WriteGame(ctx, g)
	if err != nil {
		if err == db.ErrSkipped {
			return
		}
		w.stats.addError()
		logging.GetIngestLog().Debugf("ingest: dropped game: %v", err)
		return
	}
	w.stats.addProcessed()

	if w.detector == nil {
		return
	}
	rec := dup.Record{ID: dup.GameID(written.ID), Moves: written.Moves, StartFEN: written.StartFEN}
	matches, err := w.detector.Process(ctx, rec)
	if err != nil {
		logging.GetIngestLog().Warningf("ingest: duplicate check for game %d: %v", written.ID, err)
		return
	}
	for _, m := range matches {
		w.stats.addDuplicate()
		if m.DeleteID != 0 {
			w.stats.addDeletion()
		}
	}
}
