/*
 * ocgdb - a chess game database core, written for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fkopp/ocgdb/internal/chess"
	"github.com/fkopp/ocgdb/internal/config"
	"github.com/fkopp/ocgdb/internal/db"
	"github.com/fkopp/ocgdb/internal/dup"
	"github.com/fkopp/ocgdb/internal/ingest"
	"github.com/fkopp/ocgdb/internal/logging"
	"github.com/fkopp/ocgdb/internal/query"
	"github.com/fkopp/ocgdb/internal/util"
)

var out = message.NewPrinter(language.English)

// stringList collects a repeatable flag's values in the order given, per
// spec §6's "-pgn <path> (repeatable)" and "-q <query> (repeatable)".
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var pgnPaths, queries stringList
	flag.Var(&pgnPaths, "pgn", "input PGN file (repeatable)")
	flag.Var(&queries, "q", "position query string (repeatable)")

	dbPath := flag.String("db", "./ocgdb.sqlite", "database path (:memory: allowed)")
	cpu := flag.Int("cpu", 0, "worker thread count (0 = all available CPUs)")
	elo := flag.Int("elo", 0, "reject games where either player's Elo is below n")
	plycount := flag.Int("plycount", 0, "reject games shorter than n plies")
	resultcount := flag.Int("resultcount", 0, "stop a query after n hits (0 = unlimited)")
	opts := flag.String("o", "", "comma-list of options: "+
		"moves,moves1,moves2,acceptnewtags,discardcomments,discardsites,"+
		"discardnoelo,discardfen,reseteco,printall,printfen,printpgn,remove,embededgames")
	gameID := flag.Int64("g", 0, "print the game with that ID")
	export := flag.Bool("export", false, "export mode: print matched/selected games as PGN")
	bench := flag.Bool("bench", false, "run a move-generation throughput benchmark and exit")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	config.Setup()
	if *debug {
		config.LogLevel = config.LogLevels["debug"]
		config.IngestLogLevel = config.LogLevels["debug"]
		config.QueryLogLevel = config.LogLevels["debug"]
	}
	if *cpu > 0 {
		config.Settings.Ingest.NumWorkers = *cpu
	}
	logging.GetLog()

	optSet := parseOptions(*opts)

	if *bench {
		runBench()
		return 0
	}

	database, err := db.Open(*dbPath, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ocgdb:", err)
		return 1
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ocgdb:", err)
		return 1
	}

	if len(pgnPaths) > 0 {
		if err := runIngest(ctx, database, pgnPaths, optSet, *elo, *plycount); err != nil {
			fmt.Fprintln(os.Stderr, "ocgdb:", err)
			return 1
		}
	}

	if *gameID > 0 {
		if err := printGame(ctx, database, *gameID); err != nil {
			fmt.Fprintln(os.Stderr, "ocgdb:", err)
			return 1
		}
	}

	if len(queries) > 0 {
		if err := runQueries(ctx, database, queries, optSet, *resultcount, *export); err != nil {
			fmt.Fprintln(os.Stderr, "ocgdb:", err)
			return 1
		}
	}

	return 0
}

// optionSet is the parsed form of the `-o` comma-list.
type optionSet map[string]bool

func parseOptions(csv string) optionSet {
	set := make(optionSet)
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}

func writerOptions(set optionSet, elo, plycount int) db.WriterOptions {
	var modes db.MoveMode
	if set["moves"] {
		modes |= db.MoveModeSAN
	}
	if set["moves1"] {
		modes |= db.MoveMode1Byte
	}
	if set["moves2"] {
		modes |= db.MoveMode2Byte
	}
	if modes == 0 {
		modes = db.MoveModeSAN
	}
	return db.WriterOptions{
		Moves:           modes,
		AcceptNewTags:   set["acceptnewtags"],
		DiscardComments: set["discardcomments"],
		DiscardSites:    set["discardsites"],
		DiscardNoElo:    set["discardnoelo"],
		DiscardFEN:      set["discardfen"],
		ResetECO:        set["reseteco"],
		MinElo:          elo,
		MinPlyCount:     plycount,
	}
}

func dupOptions(set optionSet) dup.Options {
	return dup.Options{
		SampleStep:    config.Settings.Ingest.DupPlySampleStep,
		LimitLen:      config.Settings.Ingest.DupPrefixLimit,
		Embedded:      set["embededgames"],
		DeleteShorter: set["remove"] || config.Settings.Ingest.DeleteDuplicates,
	}
}

func runIngest(ctx context.Context, database *db.DB, paths []string, set optionSet, elo, plycount int) error {
	total := ingest.Stats{}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		stats, runErr := ingest.Run(ctx, f, database, ingest.Options{
			Writer:     writerOptions(set, elo, plycount),
			Dup:        dupOptions(set),
			EnableDup:  set["embededgames"] || set["remove"],
			NumWorkers: config.Settings.Ingest.NumWorkers,
		})
		f.Close()
		if runErr != nil {
			return fmt.Errorf("ingest %s: %w", path, runErr)
		}
		snap := stats.Snapshot()
		total.Processed += snap.Processed
		total.Errors += snap.Errors
		total.Duplicates += snap.Duplicates
		total.Deletions += snap.Deletions
	}
	out.Printf("games processed: %d  errors: %d  duplicates: %d  deletions: %d\n",
		total.Processed, total.Errors, total.Duplicates, total.Deletions)
	return nil
}

func printGame(ctx context.Context, database *db.DB, id int64) error {
	reader, err := db.NewReader(ctx, database)
	if err != nil {
		return err
	}
	defer reader.Close()

	rec, err := reader.Get(ctx, id)
	if err != nil {
		return err
	}
	comments, err := reader.Comments(ctx, id)
	if err != nil {
		return err
	}
	fmt.Print(db.RenderPGN(rec, comments))
	return nil
}

func runQueries(ctx context.Context, database *db.DB, queries []string, set optionSet, resultCount int, export bool) error {
	reader, err := db.NewReader(ctx, database)
	if err != nil {
		return err
	}
	defer reader.Close()

	ids, err := reader.AllIDs(ctx)
	if err != nil {
		return err
	}

	limit := resultCount
	if limit <= 0 {
		limit = config.Settings.Query.ResultLimit
	}

	exhaustive := set["printall"] || config.Settings.Query.ExhaustiveByDef
	for _, q := range queries {
		tree, err := query.Parse(q)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ocgdb: query %q: %v\n", q, err)
			continue
		}
		hits := 0
		for _, id := range ids {
			rec, err := reader.Get(ctx, id)
			if err != nil {
				logging.GetQueryLog().Warningf("query: read game %d: %v", id, err)
				continue
			}
			h := query.Search(tree, rec.Moves, rec.StartFEN, exhaustive)
			if len(h) == 0 {
				continue
			}
			printHit(ctx, reader, rec, h, set, export)
			hits++
			if limit > 0 && hits >= limit {
				break
			}
		}
	}
	return nil
}

func printHit(ctx context.Context, reader *db.Reader, rec db.GameRecord, hits []query.Hit, set optionSet, export bool) {
	if export || set["printpgn"] || config.Settings.Query.IncludePGN {
		comments, _ := reader.Comments(ctx, rec.ID)
		fmt.Print(db.RenderPGN(rec, comments))
		return
	}
	for _, h := range hits {
		if set["printfen"] {
			out.Printf("game %d ply %d: %s (value=%d)\n", rec.ID, h.Ply, h.FEN, h.Value)
		} else {
			out.Printf("game %d ply %d: value=%d\n", rec.ID, h.Ply, h.Value)
		}
	}
}

func runBench() {
	defer util.TimeTrack(time.Now(), "perft bench")
	b := chess.NewBoard(chess.StartFen)
	start := time.Now()
	const depth = 5
	nodes := b.Perft(depth)
	elapsed := time.Since(start)
	out.Printf("perft(%d) = %d nodes in %s (%d nps)\n",
		depth, nodes, elapsed, util.Nps(nodes, elapsed))
	out.Printf("CPU: %d  GOMAXPROCS: %d\n", runtime.NumCPU(), runtime.GOMAXPROCS(0))
}
