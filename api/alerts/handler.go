package alerts

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aguerin/carnet/core/fleet"
	"github.com/aguerin/carnet/core/model"
	"github.com/aguerin/carnet/core/thresholds"
)

// Source computes the sorted alert list for a reference date.
type Source interface {
	Alerts(today time.Time) []model.Alert
}

// ThresholdReader exposes the current display thresholds.
type ThresholdReader interface {
	Thresholds() (thresholds.Config, error)
}

// NewHandler returns an HTTP handler exposing maintenance alerts via
// GET /api/alerts. The display thresholds apply unless all=1 is passed;
// vehicle_id narrows the list to one vehicle. The reference date defaults
// to the current UTC day and can be overridden with today=YYYY-MM-DD.
func NewHandler(src Source, th ThresholdReader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		today := time.Now().UTC()
		if q := r.URL.Query().Get("today"); q != "" {
			parsed, err := time.Parse("2006-01-02", q)
			if err != nil {
				http.Error(w, "invalid today parameter", http.StatusBadRequest)
				return
			}
			today = parsed
		}
		list := src.Alerts(today)
		if r.URL.Query().Get("all") != "1" {
			cfg, err := th.Thresholds()
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			list = cfg.Filter(list)
		}
		if id := r.URL.Query().Get("vehicle_id"); id != "" {
			var filtered []model.Alert
			for _, a := range list {
				if a.VehicleID == id {
					filtered = append(filtered, a)
				}
			}
			list = filtered
		}
		if list == nil {
			list = []model.Alert{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(list); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// HistoryRecorder appends completed maintenance operations.
type HistoryRecorder interface {
	AddHistory(e model.HistoryEntry) (model.HistoryEntry, error)
}

// NewHistoryHandler returns an HTTP handler recording maintenance
// operations via POST /api/history. Recording an operation whose type
// matches a template name resolves the corresponding alert.
func NewHistoryHandler(rec HistoryRecorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var e model.HistoryEntry
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		stored, err := rec.AddHistory(e)
		if errors.Is(err, fleet.ErrUnknownVehicle) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(stored); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// ThresholdStore reads and writes the display thresholds.
type ThresholdStore interface {
	ThresholdReader
	SetThresholds(cfg thresholds.Config) error
}

// NewThresholdsHandler returns an HTTP handler for the display thresholds:
// GET returns them, PUT replaces them.
func NewThresholdsHandler(store ThresholdStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg, err := store.Thresholds()
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(cfg); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		case http.MethodPut:
			var cfg thresholds.Config
			if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
				http.Error(w, "invalid payload", http.StatusBadRequest)
				return
			}
			if err := store.SetThresholds(cfg); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}
