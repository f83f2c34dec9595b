package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"alarm-ingest/api"
	"alarm-ingest/ingest"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var configPath string
	var dbPath string
	var addr string

	flag.StringVar(&configPath, "config", "", "YAML config file path.")
	flag.StringVar(&dbPath, "db", "alarms.db", "SQLite database path.")
	flag.StringVar(&addr, "addr", ":8000", "HTTP listen address.")
	flag.Parse()

	visited := map[string]bool{}
	flag.CommandLine.Visit(func(f *flag.Flag) {
		visited[f.Name] = true
	})

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
	finalAddr := fileCfg.ListenAddr
	if finalAddr == "" || visited["addr"] {
		finalAddr = addr
	}

	db, err := ingest.OpenDB(finalDB)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	srv := &http.Server{
		Addr:              finalAddr,
		Handler:           api.NewRouter(db),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("alarm-api listening on %s (db=%s)", finalAddr, finalDB)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
