package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"stortingspuls/internal/analysis"
	"stortingspuls/internal/export"
	"stortingspuls/internal/snapshot"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}

// NewHealthHandler creates a health handler with a database check
func NewHealthHandler(dbHealthChecker interface{ Health(context.Context) error }) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]string)
		status := "ok"

		if dbHealthChecker != nil {
			if err := dbHealthChecker.Health(r.Context()); err != nil {
				slog.Error("Database health check failed", "error", err)
				services["database"] = "unhealthy"
				status = "degraded"
			} else {
				services["database"] = "healthy"
			}
		}

		response := HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Services:  services,
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		respondJSON(w, code, response)
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// SnapshotHandler serves the latest persisted run read-only
type SnapshotHandler struct {
	store *snapshot.Store
}

// NewSnapshotHandler creates a snapshot handler
func NewSnapshotHandler(store *snapshot.Store) *SnapshotHandler {
	return &SnapshotHandler{store: store}
}

// Run handles GET /api/run — latest run metadata
func (h *SnapshotHandler) Run(w http.ResponseWriter, r *http.Request) {
	run, ok := h.latestRun(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// Table handles GET /api/tables/{table}?format=json|csv
// Serves one of the six export tables from the latest snapshot.
// format=csv streams with the contract column order and names.
func (h *SnapshotHandler) Table(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	if !export.Known(table) {
		http.Error(w, "Unknown table", http.StatusNotFound)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		http.Error(w, "Invalid format (use json or csv)", http.StatusBadRequest)
		return
	}

	run, ok := h.latestRun(w, r)
	if !ok {
		return
	}

	tables, err := h.store.Tables(r.Context(), run.ID)
	if err != nil {
		slog.Error("Failed to load snapshot tables", "run_id", run.ID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename="+export.Filename(table))
		cw := csv.NewWriter(w)
		cw.Write(export.Header(table))
		cw.WriteAll(export.Records(tables, table))
		cw.Flush()
		return
	}

	respondJSON(w, http.StatusOK, tableRows(tables, table))
}

// Insights handles GET /api/insights — headline numbers for the latest run
func (h *SnapshotHandler) Insights(w http.ResponseWriter, r *http.Request) {
	run, ok := h.latestRun(w, r)
	if !ok {
		return
	}

	tables, err := h.store.Tables(r.Context(), run.ID)
	if err != nil {
		slog.Error("Failed to load snapshot tables", "run_id", run.ID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, analysis.ComputeInsights(tables))
}

func (h *SnapshotHandler) latestRun(w http.ResponseWriter, r *http.Request) (*snapshot.Run, bool) {
	if h.store == nil {
		http.Error(w, "Snapshot store unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	run, err := h.store.LatestRun(r.Context())
	if errors.Is(err, snapshot.ErrNoRuns) {
		http.Error(w, "No analysis runs recorded yet", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		slog.Error("Failed to fetch latest run", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return run, true
}

// tableRows returns the typed row slice for JSON responses
func tableRows(t *analysis.Tables, table string) interface{} {
	switch table {
	case export.TableRebels:
		return t.Rebels
	case export.TableControversy:
		return t.Controversy
	case export.TableAlliances:
		return t.Alliances
	case export.TableActivity:
		return t.RepresentativeActivity
	case export.TableTopicStats:
		return t.TopicStats
	case export.TablePatterns:
		return t.PartyPatterns
	}
	return nil
}
