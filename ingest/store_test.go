package ingest

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *Store {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "alarms.db"))
	if err != nil {
		t.Fatal(err)
	}
	return NewStore(db, 0)
}

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	tm, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	return &tm
}

func TestStore_ApplyInsertThenOverwrite(t *testing.T) {
	store := openTestDB(t)
	started := ts(t, "2025-01-01 10:00:00")

	first := []Alarm{{
		SiteID: "S1", SiteName: "Old name", AlarmCode: "A1", AlarmLabel: "A1",
		Severity: SeverityWarn, Status: StatusOpen, StartedAt: started,
	}}
	if err := store.Apply(first, "file1.csv", false); err != nil {
		t.Fatal(err)
	}

	var before Alarm
	if err := store.db.First(&before).Error; err != nil {
		t.Fatal(err)
	}

	time.Sleep(50 * time.Millisecond)

	second := []Alarm{{
		SiteID: "S1", SiteName: "New name", AlarmCode: "A1", AlarmLabel: "A1",
		Severity: SeverityMajor, Status: StatusCleared, StartedAt: started,
		ClearedAt: ts(t, "2025-01-01 11:00:00"),
	}}
	if err := store.Apply(second, "file2.csv", false); err != nil {
		t.Fatal(err)
	}

	var count int64
	if err := store.db.Model(&Alarm{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after upsert, got %d", count)
	}

	var after Alarm
	if err := store.db.First(&after).Error; err != nil {
		t.Fatal(err)
	}
	if after.ID != before.ID {
		t.Fatalf("surrogate id changed: %d -> %d", before.ID, after.ID)
	}
	if after.SiteName != "New name" || after.Severity != SeverityMajor || after.Status != StatusCleared {
		t.Fatalf("mutable fields not overwritten: %+v", after)
	}
	if after.SourceFile != "file2.csv" {
		t.Fatalf("expected provenance of last writer, got %q", after.SourceFile)
	}
	if after.ClearedAt == nil {
		t.Fatalf("expected cleared_at overwritten")
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("created_at must not change: %v -> %v", before.CreatedAt, after.CreatedAt)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("updated_at must advance: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
	if after.SiteID != "S1" || after.AlarmCode != "A1" || !after.StartedAt.Equal(*started) {
		t.Fatalf("natural key must never change: %+v", after)
	}
}

func TestStore_BatchRemainderPersisted(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "alarms.db"))
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(db, 2)

	// One more row than the batch size: the remainder must not be lost.
	var records []Alarm
	for i := 0; i < 3; i++ {
		records = append(records, Alarm{
			SiteID: "S1", AlarmCode: fmt.Sprintf("A%d", i), AlarmLabel: "x",
			Severity: SeverityInfo, Status: StatusOpen,
			StartedAt: ts(t, "2025-01-01 10:00:00"),
		})
	}
	if err := store.Apply(records, "batch.csv", false); err != nil {
		t.Fatal(err)
	}
	var count int64
	if err := db.Model(&Alarm{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows, got %d", count)
	}
}

func TestStore_DuplicateKeyInOneFileLastWins(t *testing.T) {
	store := openTestDB(t)
	started := ts(t, "2025-01-01 10:00:00")

	records := []Alarm{
		{SiteID: "S1", SiteName: "first", AlarmCode: "A1", AlarmLabel: "A1", Severity: SeverityInfo, Status: StatusOpen, StartedAt: started},
		{SiteID: "S1", SiteName: "last", AlarmCode: "A1", AlarmLabel: "A1", Severity: SeverityWarn, Status: StatusOpen, StartedAt: started},
	}
	if err := store.Apply(records, "dup.csv", false); err != nil {
		t.Fatal(err)
	}
	var count int64
	if err := store.db.Model(&Alarm{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row, got %d", count)
	}
	var row Alarm
	if err := store.db.First(&row).Error; err != nil {
		t.Fatal(err)
	}
	if row.SiteName != "last" || row.Severity != SeverityWarn {
		t.Fatalf("expected last occurrence to win, got %+v", row)
	}
}

func TestStore_TruncateResetsIdentity(t *testing.T) {
	store := openTestDB(t)

	var seed []Alarm
	for i := 0; i < 10; i++ {
		seed = append(seed, Alarm{
			SiteID: "OLD", AlarmCode: fmt.Sprintf("O%d", i), AlarmLabel: "x",
			Severity: SeverityInfo, Status: StatusOpen,
			StartedAt: ts(t, "2024-12-31 00:00:00"),
		})
	}
	if err := store.Apply(seed, "seed.csv", false); err != nil {
		t.Fatal(err)
	}

	var fresh []Alarm
	for i := 0; i < 3; i++ {
		fresh = append(fresh, Alarm{
			SiteID: "NEW", AlarmCode: fmt.Sprintf("N%d", i), AlarmLabel: "x",
			Severity: SeverityInfo, Status: StatusOpen,
			StartedAt: ts(t, "2025-01-01 00:00:00"),
		})
	}
	if err := store.Apply(fresh, "fresh.csv", true); err != nil {
		t.Fatal(err)
	}

	var rows []Alarm
	if err := store.db.Order("id asc").Find(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected exactly 3 rows after truncate+load, got %d", len(rows))
	}
	if rows[0].ID != 1 {
		t.Fatalf("expected surrogate ids to restart at 1, got %d", rows[0].ID)
	}
	for _, r := range rows {
		if r.SiteID != "NEW" {
			t.Fatalf("old record survived truncate: %+v", r)
		}
	}
}

func TestStore_MissingStartIsFatalAndAtomic(t *testing.T) {
	store := openTestDB(t)

	records := []Alarm{
		{SiteID: "S1", AlarmCode: "GOOD", AlarmLabel: "x", Severity: SeverityInfo, Status: StatusOpen, StartedAt: ts(t, "2025-01-01 10:00:00")},
		{SiteID: "S1", AlarmCode: "BAD", AlarmLabel: "x", Severity: SeverityInfo, Status: StatusOpen, StartedAt: nil},
	}
	if err := store.Apply(records, "gap.csv", false); err == nil {
		t.Fatalf("expected constraint failure for absent started_at")
	}

	// The whole file rolls back; the good row must not remain.
	var count int64
	if err := store.db.Model(&Alarm{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected rollback of the whole file, got %d rows", count)
	}
}

func TestStore_ClearAll(t *testing.T) {
	store := openTestDB(t)
	records := []Alarm{{
		SiteID: "S1", AlarmCode: "A1", AlarmLabel: "x",
		Severity: SeverityInfo, Status: StatusOpen,
		StartedAt: ts(t, "2025-01-01 10:00:00"),
	}}
	if err := store.Apply(records, "", false); err != nil {
		t.Fatal(err)
	}
	if err := store.ClearAll(); err != nil {
		t.Fatal(err)
	}
	var count int64
	if err := store.db.Model(&Alarm{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected empty table, got %d", count)
	}
}
