package vehicles

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aguerin/carnet/core/fleet"
	"github.com/aguerin/carnet/core/kpi"
	"github.com/aguerin/carnet/core/model"
)

// FleetAccess is the slice of the service the vehicle handlers use.
type FleetAccess interface {
	Snapshot() (fleet.Snapshot, uint64)
	AddVehicle(v model.Vehicle) error
}

// NewHandler returns an HTTP handler for the vehicle collection:
// GET lists the fleet, POST upserts a vehicle.
func NewHandler(svc FleetAccess) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			snap, _ := svc.Snapshot()
			if snap.Vehicles == nil {
				snap.Vehicles = []model.Vehicle{}
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(snap.Vehicles); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		case http.MethodPost:
			var v model.Vehicle
			if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
				http.Error(w, "invalid payload", http.StatusBadRequest)
				return
			}
			if err := svc.AddVehicle(v); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusCreated)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// AlertSource computes the sorted alert list for a reference date.
type AlertSource interface {
	Alerts(today time.Time) []model.Alert
}

// NewKPIHandler returns an HTTP handler exposing fleet-wide maintenance
// indicators via GET /api/fleet/kpi.
func NewKPIHandler(src AlertSource) http.Handler {
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
		summary := kpi.Summarize(src.Alerts(today))
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
