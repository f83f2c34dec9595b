package ingest

import "time"

// AssembleStats reports what happened to the input rows before
// persistence.
type AssembleStats struct {
	RowsTotal        int
	RowsDropped      int // empty site_id or alarm_code after normalization
	RowsMissingStart int // kept, but the store will reject them
}

// BuildRecords turns a decoded dataset into candidate Alarm records.
//
// Fallback chains are per-cell: for each row independently the first
// non-missing candidate column wins. A row is dropped only when its
// normalized site_id or alarm_code is empty; a missing start time is
// tolerated here and surfaced through RowsMissingStart.
func BuildRecords(d *Dataset, zone *time.Location) ([]Alarm, AssembleStats) {
	colSiteID := pickColumn(d.Columns, siteIDAliases)
	colSiteName := pickColumn(d.Columns, siteNameAliases)
	colAlarm := pickColumn(d.Columns, alarmAliases)
	colAlarmCode := pickColumn(d.Columns, alarmCodeAliases)
	colLabel := pickColumn(d.Columns, alarmLabelAliases)
	colSeverity := pickColumn(d.Columns, severityAliases)
	colStatus := pickColumn(d.Columns, statusAliases)
	colStarted := pickColumn(d.Columns, startedAliases)
	colCleared := pickColumn(d.Columns, clearedAliases)
	colAcked := pickColumn(d.Columns, ackedAliases)

	stats := AssembleStats{RowsTotal: len(d.Rows)}
	records := make([]Alarm, 0, len(d.Rows))

	for i := range d.Rows {
		siteID := normalizeString(d.Cell(i, colSiteID))
		code := firstNonMissing(d, i, colAlarm, colAlarmCode)
		label := firstNonMissing(d, i, colLabel, colAlarm, colAlarmCode)
		if label == "" {
			label = code
		}
		if siteID == "" || code == "" {
			stats.RowsDropped++
			continue
		}

		started := parseTimestamp(d.Cell(i, colStarted), zone)
		if started == nil {
			stats.RowsMissingStart++
		}

		records = append(records, Alarm{
			SiteID:     siteID,
			SiteName:   normalizeString(d.Cell(i, colSiteName)),
			AlarmCode:  code,
			AlarmLabel: label,
			Severity:   mapEnum(d.Cell(i, colSeverity), SeverityMap, SeverityInfo),
			Status:     mapEnum(d.Cell(i, colStatus), StatusMap, StatusOpen),
			StartedAt:  started,
			ClearedAt:  parseTimestamp(d.Cell(i, colCleared), zone),
			AckedAt:    parseTimestamp(d.Cell(i, colAcked), zone),
		})
	}
	return records, stats
}
