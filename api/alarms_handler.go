package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"alarm-ingest/ingest"
)

// AlarmsHandler serves list/filter/paginate over stored alarms. It
// consumes exactly the entity shape the ingest pipeline writes.
type AlarmsHandler struct {
	db *gorm.DB
}

func (h *AlarmsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r)
	items, total, err := ingest.ListAlarms(h.db, q)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []ingest.Alarm{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":     items,
		"page":      q.Page,
		"page_size": q.PageSize,
		"total":     total,
	})
}

func parseListQuery(r *http.Request) ingest.ListQuery {
	values := r.URL.Query()
	q := ingest.ListQuery{
		Page:     1,
		PageSize: 25,
		Severity: splitMulti(values["severity"]),
		Status:   splitMulti(values["status"]),
		Q:        values.Get("q"),
		Ordering: values.Get("ordering"),
	}
	if v, err := strconv.Atoi(values.Get("page")); err == nil && v >= 1 {
		q.Page = v
	}
	if v, err := strconv.Atoi(values.Get("page_size")); err == nil && v > 0 {
		q.PageSize = v
	}
	q.From = parseQueryTime(values.Get("from"))
	q.To = parseQueryTime(values.Get("to"))
	return q
}

// splitMulti accepts both repeated params (?severity=WARN&severity=MAJOR)
// and comma-separated lists (?severity=WARN,MAJOR).
func splitMulti(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func parseQueryTime(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
