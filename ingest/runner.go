package ingest

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

type RunnerConfig struct {
	DBPath string
	// DefaultTZ is the IANA zone naive timestamps are localized to.
	DefaultTZ string
	// BatchSize bounds one upsert statement; 0 means DefaultBatchSize.
	BatchSize int
	Debug     bool
}

const defaultZoneName = "Africa/Dakar"

// Runner is the per-file ingestion pipeline: decode, resolve aliases,
// normalize, assemble, reconcile into the store.
type Runner struct {
	cfg   RunnerConfig
	db    *gorm.DB
	store *Store
	zone  *time.Location
}

func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return nil, fmt.Errorf("DBPath is required")
	}
	if strings.TrimSpace(cfg.DefaultTZ) == "" {
		cfg.DefaultTZ = defaultZoneName
	}
	zone, err := time.LoadLocation(cfg.DefaultTZ)
	if err != nil {
		return nil, fmt.Errorf("load default zone %q: %w", cfg.DefaultTZ, err)
	}

	db, err := OpenDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:   cfg,
		db:    db,
		store: NewStore(db, cfg.BatchSize),
		zone:  zone,
	}, nil
}

func (r *Runner) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	err = sqlDB.Close()
	r.db = nil
	return err
}

func (r *Runner) debugf(format string, args ...any) {
	if r == nil || !r.cfg.Debug {
		return
	}
	log.Printf(format, args...)
}

// Stats is the outcome of one ingestion run. NothingIngested marks the
// distinct no-op outcome: zero exploitable rows, no store calls made.
type Stats struct {
	RowsTotal        int
	RowsDropped      int
	RowsMissingStart int
	RecordsUpserted  int
	NothingIngested  bool
}

// IngestFile decodes path and runs the pipeline. sourceFile is the
// provenance label stamped on every record this run touches; truncate
// wipes the store (and resets identity sequencing) before the load, in
// the same transaction.
func (r *Runner) IngestFile(path string, sourceFile string, truncate bool) (Stats, error) {
	ds, err := ReadDataset(path)
	if err != nil {
		return Stats{}, err
	}
	return r.IngestDataset(ds, sourceFile, truncate)
}

// IngestDataset runs the pipeline over an already-decoded dataset.
func (r *Runner) IngestDataset(ds *Dataset, sourceFile string, truncate bool) (Stats, error) {
	records, as := BuildRecords(ds, r.zone)
	stats := Stats{
		RowsTotal:        as.RowsTotal,
		RowsDropped:      as.RowsDropped,
		RowsMissingStart: as.RowsMissingStart,
	}
	r.debugf("assembled records=%d dropped=%d missingStart=%d", len(records), as.RowsDropped, as.RowsMissingStart)

	if len(records) == 0 {
		stats.NothingIngested = true
		r.debugf("nothing to ingest (no exploitable rows)")
		return stats, nil
	}
	if err := r.store.Apply(records, sourceFile, truncate); err != nil {
		return stats, err
	}
	stats.RecordsUpserted = len(records)
	return stats, nil
}
