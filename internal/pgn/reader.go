/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package pgn

import (
	"context"
	"io"

	"github.com/fkopp/ocgdb/internal/config"
)

// Reader streams games out of an io.Reader, one primary block at a time,
// per spec §4.3. Games is the delivery channel; errors encountered while
// reading the underlying stream are reported on Errs and stop the reader,
// while a single block's tokenizer error (overflow on a straddling game)
// is reported on Errs but does not stop the reader — that block's
// straddling game is simply dropped and reading continues, as spec §4.3's
// boundary-error handling describes.
type Reader struct {
	Games chan Game
	Errs  chan error
}

// StreamFile reads src asynchronously and delivers games on the returned
// Reader's channels; both channels are closed once src is exhausted or ctx
// is cancelled. blockSize and overflowCap default to config.Settings.Ingest's
// values when zero.
func StreamFile(ctx context.Context, src io.Reader, blockSize, overflowCap int) *Reader {
	if blockSize <= 0 {
		blockSize = config.Settings.Ingest.BlockSize
	}
	if overflowCap <= 0 {
		overflowCap = config.Settings.Ingest.OverflowBufferSize
	}

	r := &Reader{
		Games: make(chan Game, 64),
		Errs:  make(chan error, 4),
	}

	go r.run(ctx, src, blockSize, overflowCap)
	return r
}

func (r *Reader) run(ctx context.Context, src io.Reader, blockSize, overflowCap int) {
	defer close(r.Games)
	defer close(r.Errs)

	tok := NewTokenizer(overflowCap)
	buf := make([]byte, blockSize)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := io.ReadFull(src, buf)
		final := false
		switch err {
		case nil:
		case io.ErrUnexpectedEOF, io.EOF:
			final = true
		default:
			r.Errs <- err
			return
		}

		games, tokErr := tok.Feed(buf[:n], final)
		if tokErr != nil {
			r.Errs <- tokErr
		}
		for _, g := range games {
			select {
			case r.Games <- g:
			case <-ctx.Done():
				return
			}
		}

		if final {
			return
		}
	}
}
