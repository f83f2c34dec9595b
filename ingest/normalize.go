package ingest

import (
	"strings"
	"time"
)

// SeverityMap translates raw (lower-cased) severity text to the
// canonical enum. Anything else falls to SeverityInfo.
var SeverityMap = map[string]string{
	"info":     SeverityInfo,
	"minor":    SeverityWarn,
	"warn":     SeverityWarn,
	"warning":  SeverityWarn,
	"major":    SeverityMajor,
	"critical": SeverityCritical,
}

// StatusMap translates raw (lower-cased) status text to the canonical
// enum. Anything else falls to StatusOpen.
var StatusMap = map[string]string{
	"open":         StatusOpen,
	"cleared":      StatusCleared,
	"ack":          StatusAck,
	"acked":        StatusAck,
	"acknowledged": StatusAck,
}

func normalizeString(raw string) string {
	return strings.TrimSpace(raw)
}

// mapEnum lower-cases raw and looks it up in mapping. Unknown or empty
// values resolve to def, never to an error or a passthrough string.
func mapEnum(raw string, mapping map[string]string, def string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return def
	}
	if v, ok := mapping[key]; ok {
		return v
	}
	return def
}

// Layouts carrying an explicit offset are tried first and kept as-is;
// the rest are interpreted in the configured default zone.
var offsetLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
}

// parseTimestamp parses heterogeneous date/time text into an instant.
// A value with an explicit offset is never re-localized; a naive value
// is localized to zone. Unparseable or empty cells yield nil (absent),
// not an error.
func parseTimestamp(raw string, zone *time.Location) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range offsetLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, s, zone); err == nil {
			return &ts
		}
	}
	return nil
}
