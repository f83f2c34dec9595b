package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// NewRouter wires the read-path API over the alarm store.
func NewRouter(db *gorm.DB) http.Handler {
	h := &AlarmsHandler{db: db}

	r := chi.NewRouter()
	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Get("/api/alarms", h.List)
	return r
}
