package ingest

import (
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultBatchSize bounds the row count of one upsert statement.
const DefaultBatchSize = 1000

func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Alarm{}); err != nil {
		return nil, err
	}
	return db, nil
}

// Store applies candidate records to the alarms table. It is the only
// part of the pipeline that touches the database.
type Store struct {
	db        *gorm.DB
	batchSize int
}

func NewStore(db *gorm.DB, batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{db: db, batchSize: batchSize}
}

var naturalKey = []clause.Column{
	{Name: "site_id"},
	{Name: "alarm_code"},
	{Name: "started_at"},
}

// mutableColumns are overwritten from the incoming row on a natural-key
// conflict. Key fields and created_at are never touched by an update.
var mutableColumns = []string{
	"site_name",
	"alarm_label",
	"severity",
	"status",
	"cleared_at",
	"acked_at",
	"source_file",
}

// Apply upserts records in sequence-ordered fixed-size batches inside a
// single transaction: all batches of one file commit or none do. When
// truncate is set, every existing record is wiped (and identity
// sequencing reset) before the first batch. No retries happen here; any
// failure rolls the whole file back and surfaces to the caller.
func (s *Store) Apply(records []Alarm, sourceFile string, truncate bool) error {
	for i := range records {
		records[i].SourceFile = sourceFile
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if truncate {
			if err := tx.Exec("DELETE FROM alarms").Error; err != nil {
				return err
			}
			// AUTOINCREMENT bookkeeping; the table only exists once
			// sqlite has handed out rowids, so the error is ignorable.
			tx.Exec("DELETE FROM sqlite_sequence WHERE name = 'alarms'")
		}
		for start := 0; start < len(records); start += s.batchSize {
			end := start + s.batchSize
			if end > len(records) {
				end = len(records)
			}
			chunk := records[start:end]
			set := clause.AssignmentColumns(mutableColumns)
			set = append(set, clause.Assignments(map[string]interface{}{
				"updated_at": time.Now().UTC(),
			})...)
			err := tx.Clauses(clause.OnConflict{
				Columns:   naturalKey,
				DoUpdates: set,
			}).Create(&chunk).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearAll wipes the table outside of an ingestion run. Apply with the
// truncate flag is the transactional path used by the pipeline.
func (s *Store) ClearAll() error {
	if err := s.db.Exec("DELETE FROM alarms").Error; err != nil {
		return err
	}
	s.db.Exec("DELETE FROM sqlite_sequence WHERE name = 'alarms'")
	return nil
}
