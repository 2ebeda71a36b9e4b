package model

import (
	"fmt"
	"time"
)

// HistoryEntry records one completed maintenance operation. Entries are
// append-only from the engine's point of view: marking an alert as resolved
// synthesizes a new entry, it never rewrites an old one.
//
// Type carries the display name of the maintenance operation, which is the
// matching key against Template.Name (not the template id).
type HistoryEntry struct {
	ID        string    `json:"id" yaml:"id"`
	VehicleID string    `json:"vehicle_id" yaml:"vehicle_id"`
	Type      string    `json:"type" yaml:"type"`
	Date      time.Time `json:"date" yaml:"date"`
	Odometer  int       `json:"odometer_km" yaml:"odometer_km"` // odometer reading at time of service
	Cost      float64   `json:"cost,omitempty" yaml:"cost,omitempty"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Validate checks that the entry can serve as a projection baseline.
func (e HistoryEntry) Validate() error {
	if e.VehicleID == "" {
		return fmt.Errorf("vehicle id is required")
	}
	if e.Type == "" {
		return fmt.Errorf("type is required")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if e.Odometer < 0 {
		return fmt.Errorf("odometer must be non-negative")
	}
	return nil
}
