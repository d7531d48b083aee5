/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package db

import (
	"strconv"
	"strings"

	"github.com/fkopp/ocgdb/internal/chess"
	"github.com/fkopp/ocgdb/internal/pgn"
)

// renderComment re-parses a stored comment into its TCEC-style evaluation
// records and free text, then re-renders them -- the structured half of
// the round trip gamewriter.go's ingest-side canonicalization started.
func renderComment(c string) string {
	recs, rest := pgn.ParseEvalComment(c)
	return pgn.RenderEvalComment(recs, rest)
}

// tagOrder is the canonical "Seven Tag Roster" plus the columns this
// schema tracks, in the order spec §6's PGN output paragraph expects a
// tag block to be rendered.
var tagOrder = []string{
	"Event", "Site", "Date", "Round", "White", "Black", "Result",
	"WhiteElo", "BlackElo", "TimeControl", "ECO", "PlyCount", "FEN",
}

// RenderPGN re-renders a stored game as PGN text: a tag block ending with
// a blank line, then SAN movetext with move numbers and inline `{...}`
// comments, and a trailing result token -- per spec §6's "PGN output"
// paragraph. comments is keyed the way pgn.ParseMoveText returns them (0 =
// pre-move comment, k = after the k-th move).
func RenderPGN(rec GameRecord, comments map[int]string) string {
	var sb strings.Builder

	for _, tag := range tagOrder {
		v, ok := rec.Tags[tag]
		if !ok {
			continue
		}
		if tag == "Date" {
			v = denormalizeDate(v)
		}
		sb.WriteString("[")
		sb.WriteString(tag)
		sb.WriteString(" \"")
		sb.WriteString(v)
		sb.WriteString("\"]\n")
	}
	sb.WriteString("\n")

	b := chess.NewBoard(rec.StartFEN)
	if c, ok := comments[0]; ok {
		sb.WriteString("{")
		sb.WriteString(renderComment(c))
		sb.WriteString("} ")
	}

	for i, m := range rec.Moves {
		if i%2 == 0 {
			sb.WriteString(strconv.Itoa(i/2 + 1))
			sb.WriteString(". ")
		}
		sb.WriteString(b.RenderSAN(m))
		b.DoMove(m)
		if c, ok := comments[i+1]; ok {
			sb.WriteString(" {")
			sb.WriteString(renderComment(c))
			sb.WriteString("}")
		}
		sb.WriteString(" ")
	}

	result := rec.Result
	if result == "" {
		result = "*"
	}
	sb.WriteString(result)
	sb.WriteString("\n")
	return sb.String()
}

// denormalizeDate converts a stored ISO date ("YYYY-MM-DD") back to PGN's
// dot-separated form, the inverse of gamewriter.go's normalizeDate.
func denormalizeDate(isoDate string) string {
	return strings.ReplaceAll(isoDate, "-", ".")
}
