/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package ingest

import (
	"runtime"
	"sync"

	"github.com/frankkopp/workerpool"
)

// Pool fans games out across a fixed number of worker goroutines, per spec
// §5's "a bounded pool of workers... tasks are submitted as individual
// games, not blocks." It wraps workerpool.WorkerPool with a sync.WaitGroup
// so Wait can block for "all submitted tasks complete" without assuming
// the underlying pool exposes that itself.
type Pool struct {
	wp *workerpool.WorkerPool
	wg sync.WaitGroup
}

// NewPool starts a pool sized to numWorkers, or runtime.NumCPU() if
// numWorkers <= 0 (spec §5's "0 means use all available CPUs", mirroring
// config.Settings.Ingest.NumWorkers).
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{wp: workerpool.New(numWorkers)}
}

// Submit queues task to run on the next free worker. It never blocks the
// caller past what the underlying pool's queue requires.
func (p *Pool) Submit(task func()) {
	p.wg.Add(1)
	p.wp.Submit(func() {
		defer p.wg.Done()
		task()
	})
}

// Wait blocks until every task Submit has queued so far has returned. Run
// calls it once, after the input stream is exhausted; it is not used as a
// per-block barrier. Unlike StopWait, Wait does not shut the pool down --
// more tasks may be Submitted afterward.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Stop drains and shuts the pool down. Call once, after the final Wait.
func (p *Pool) Stop() {
	p.wp.StopWait()
}
