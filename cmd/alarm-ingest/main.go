package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"alarm-ingest/ingest"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var configPath string
	var dbPath string
	var tzName string
	var batchSize int
	var sourceFile string
	var truncate bool
	var debug bool

	flag.StringVar(&configPath, "config", "", "YAML config file path.")
	flag.StringVar(&dbPath, "db", "alarms.db", "SQLite database path.")
	flag.StringVar(&tzName, "tz", "", "Default zone for naive timestamps (IANA name).")
	flag.IntVar(&batchSize, "batch-size", 0, "Upsert batch size (0 = default 1000).")
	flag.StringVar(&sourceFile, "source-file", "", "Provenance label stamped on ingested records.")
	flag.BoolVar(&truncate, "truncate", false, "Wipe all records (and reset ids) before the load.")
	flag.BoolVar(&debug, "debug", false, "Enable debug logs.")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: alarm-ingest [flags] <csv-or-spreadsheet-file>")
		os.Exit(2)
	}
	inputPath := flag.Arg(0)
	if _, err := os.Stat(inputPath); err != nil {
		log.Fatalf("input file: %v", err)
	}

	visited := map[string]bool{}
	flag.CommandLine.Visit(func(f *flag.Flag) {
		visited[f.Name] = true
	})

	// Base config from file (optional), CLI overrides on top.
	fileCfg := &ingest.FileConfig{}
	if configPath != "" {
		cfg, err := ingest.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		fileCfg = cfg
	}

	finalDB := fileCfg.DB
	if finalDB == "" || visited["db"] {
		finalDB = dbPath
	}
	finalTZ := fileCfg.DefaultTZ
	if visited["tz"] {
		finalTZ = tzName
	}
	finalBatch := fileCfg.BatchSize
	if visited["batch-size"] {
		finalBatch = batchSize
	}
	finalDebug := fileCfg.Debug
	if visited["debug"] {
		finalDebug = debug
	}

	runner, err := ingest.NewRunner(ingest.RunnerConfig{
		DBPath:    finalDB,
		DefaultTZ: finalTZ,
		BatchSize: finalBatch,
		Debug:     finalDebug,
	})
	if err != nil {
		log.Fatalf("init runner: %v", err)
	}
	defer runner.Close()

	stats, err := runner.IngestFile(inputPath, sourceFile, truncate)
	if err != nil {
		log.Fatalf("ingest %s: %v", inputPath, err)
	}
	if stats.NothingIngested {
		fmt.Printf("nothing ingested: no exploitable rows (rows=%d dropped=%d)\n", stats.RowsTotal, stats.RowsDropped)
		return
	}
	fmt.Printf("ingested %d record(s) (rows=%d dropped=%d missing_start=%d)\n",
		stats.RecordsUpserted, stats.RowsTotal, stats.RowsDropped, stats.RowsMissingStart)
}
