package model

import (
	"fmt"
	"time"
)

// Urgency classifies how soon a projection is due. The order of the
// constants is the sort rank: expired sorts before high, high before low.
//
// UrgencyMedium is part of the vocabulary for forward compatibility but no
// classification rule currently produces it.
type Urgency int

const (
	UrgencyExpired Urgency = iota
	UrgencyHigh
	UrgencyMedium
	UrgencyLow
)

// String returns the wire representation of the urgency level.
func (u Urgency) String() string {
	switch u {
	case UrgencyExpired:
		return "expired"
	case UrgencyHigh:
		return "high"
	case UrgencyMedium:
		return "medium"
	case UrgencyLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParseUrgency converts the wire representation back to an Urgency.
func ParseUrgency(s string) (Urgency, error) {
	switch s {
	case "expired":
		return UrgencyExpired, nil
	case "high":
		return UrgencyHigh, nil
	case "medium":
		return UrgencyMedium, nil
	case "low":
		return UrgencyLow, nil
	default:
		return 0, fmt.Errorf("unknown urgency %q", s)
	}
}

// MarshalJSON encodes the urgency as its string form.
func (u Urgency) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.String() + `"`), nil
}

// UnmarshalJSON decodes the string form of an urgency level.
func (u *Urgency) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("urgency must be a JSON string")
	}
	v, err := ParseUrgency(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// MileageProjection is the distance leg of a due-date projection.
type MileageProjection struct {
	TargetKm    int `json:"target_km"`    // odometer reading at which the operation is due
	RemainingKm int `json:"remaining_km"` // clamped at 0 once overdue
}

// DateProjection is the time leg of a due-date projection.
type DateProjection struct {
	TargetDate    time.Time `json:"target_date"`
	RemainingDays int       `json:"remaining_days"` // clamped at 0 once overdue
}

// Alert is one due (or soon due) maintenance operation for one vehicle.
// Alerts are derived data: they are recomputed from scratch on every engine
// invocation and have no lifecycle of their own.
type Alert struct {
	ID         string             `json:"id"`
	VehicleID  string             `json:"vehicle_id"`
	TemplateID string             `json:"template_id"`
	Name       string             `json:"name"`
	Category   string             `json:"category,omitempty"`
	Mileage    *MileageProjection `json:"mileage,omitempty"`
	Date       *DateProjection    `json:"date,omitempty"`
	Urgency    Urgency            `json:"urgency"`
	Expired    bool               `json:"expired"`
}
