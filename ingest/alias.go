package ingest

import "strings"

// Ranked column aliases per logical field, collected from the source
// systems' export headers. Resolution takes the first alias present in
// the (already normalized) header set.
var (
	siteIDAliases     = []string{"siteid", "site_id", "site id", "id_site"}
	siteNameAliases   = []string{"sitename", "site_name", "site name", "nom_site"}
	alarmAliases      = []string{"alarm"}
	alarmCodeAliases  = []string{"alarmcode", "alarm_code"}
	alarmLabelAliases = []string{"alarmlabel", "alarm_label", "alarm label", "libelle_alarme"}
	severityAliases   = []string{"severity", "sev", "criticite"}
	statusAliases     = []string{"status", "state", "etat"}
	startedAliases    = []string{"starttime", "started_at", "start", "debut"}
	clearedAliases    = []string{"cleartime", "cleared_at", "clear", "fin"}
	ackedAliases      = []string{"acktime", "acked_at", "ack"}
)

// pickColumn returns the index of the first alias present in columns,
// or -1 when none match. Purely positional; cell values are never
// inspected here.
func pickColumn(columns []string, aliases []string) int {
	for _, a := range aliases {
		for i, c := range columns {
			if c == a {
				return i
			}
		}
	}
	return -1
}

// firstNonMissing implements the per-cell fallback chain: for one row it
// returns the first candidate column whose trimmed cell is non-empty.
// Unresolved (-1) columns are skipped. Empty string when every candidate
// is missing.
func firstNonMissing(d *Dataset, row int, cols ...int) string {
	for _, c := range cols {
		if c < 0 {
			continue
		}
		if v := strings.TrimSpace(d.Cell(row, c)); v != "" {
			return v
		}
	}
	return ""
}
