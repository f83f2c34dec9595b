package ingest

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ListQuery filters and pages the read path over stored alarms.
type ListQuery struct {
	Page     int
	PageSize int
	Severity []string
	Status   []string
	// Q is a free-text match over site name, alarm label and alarm code.
	Q    string
	From *time.Time
	To   *time.Time
	// Ordering names a sortable column, "-" prefix for descending.
	// Unrecognized values fall back to "-started_at".
	Ordering string
}

var sortableColumns = map[string]bool{
	"started_at": true,
	"severity":   true,
	"site_name":  true,
}

func orderClause(ordering string) string {
	col := strings.TrimPrefix(ordering, "-")
	if !sortableColumns[col] {
		return "started_at DESC"
	}
	if strings.HasPrefix(ordering, "-") {
		return col + " DESC"
	}
	return col + " ASC"
}

// ListAlarms returns one page of matching alarms plus the total match
// count. Page numbers start at 1; page size is clamped to [10, 200].
func ListAlarms(db *gorm.DB, q ListQuery) ([]Alarm, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = 25
	}
	if q.PageSize < 10 {
		q.PageSize = 10
	}
	if q.PageSize > 200 {
		q.PageSize = 200
	}

	tx := db.Model(&Alarm{})
	if len(q.Severity) > 0 {
		tx = tx.Where("severity IN ?", q.Severity)
	}
	if len(q.Status) > 0 {
		tx = tx.Where("status IN ?", q.Status)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("site_name LIKE ? OR alarm_label LIKE ? OR alarm_code LIKE ?", like, like, like)
	}
	if q.From != nil {
		tx = tx.Where("started_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("started_at <= ?", *q.To)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Alarm
	err := tx.Order(orderClause(q.Ordering)).
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
