package model

import "fmt"

// FuelScope restricts a template to vehicles running on a given fuel.
// The zero value applies to every vehicle.
type FuelScope string

const (
	FuelBoth     FuelScope = "both"
	FuelOnlyGas  FuelScope = "gasoline"
	FuelOnlyDies FuelScope = "diesel"
)

// Matches reports whether a vehicle with fuel f is in scope. A vehicle with
// an unknown fuel attribute only matches templates scoped to both fuels.
func (s FuelScope) Matches(f FuelType) bool {
	if s == FuelBoth || s == "" {
		return true
	}
	return f != FuelUnknown && string(s) == string(f)
}

// DriveScope restricts a template to vehicles with a given drivetrain.
// The zero value applies to every vehicle.
type DriveScope string

const (
	DriveBoth DriveScope = "both"
	Drive4x2  DriveScope = "4x2"
	Drive4x4  DriveScope = "4x4"
)

// Matches reports whether a vehicle with drivetrain d is in scope.
func (s DriveScope) Matches(d Drivetrain) bool {
	if s == DriveBoth || s == "" {
		return true
	}
	return d != DrivetrainUnknown && string(s) == string(d)
}

// Template defines one maintenance operation: a display name, optional
// distance and time intervals, and applicability attributes. Name is the
// matching key against history entries; two catalog entries sharing a name
// are deduplicated by the resolver, first occurrence wins.
//
// A template carrying a ProfileID is scoped exclusively to that custom
// profile and never matches unbound vehicles.
type Template struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Category   string     `json:"category,omitempty" yaml:"category,omitempty"`
	DistanceKm int        `json:"distance_km,omitempty" yaml:"distance_km,omitempty"` // 0 = no distance interval
	TimeMonths int        `json:"time_months,omitempty" yaml:"time_months,omitempty"` // 0 = no time interval
	Fuel       FuelScope  `json:"fuel,omitempty" yaml:"fuel,omitempty"`
	Drivetrain DriveScope `json:"drivetrain,omitempty" yaml:"drivetrain,omitempty"`
	ProfileID  string     `json:"profile_id,omitempty" yaml:"profile_id,omitempty"`
}

// HasInterval reports whether the template can ever produce an alert.
func (t Template) HasInterval() bool {
	return t.DistanceKm > 0 || t.TimeMonths > 0
}

// AppliesTo reports whether the template's fuel and drivetrain scopes both
// accept the vehicle. Profile scoping is handled by the resolver, not here.
func (t Template) AppliesTo(v Vehicle) bool {
	return t.Fuel.Matches(v.Fuel) && t.Drivetrain.Matches(v.Drivetrain)
}

// Validate checks the template definition.
func (t Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if t.DistanceKm < 0 {
		return fmt.Errorf("distance interval must be non-negative")
	}
	if t.TimeMonths < 0 {
		return fmt.Errorf("time interval must be non-negative")
	}
	switch t.Fuel {
	case "", FuelBoth, FuelOnlyGas, FuelOnlyDies:
	default:
		return fmt.Errorf("unknown fuel scope %q", t.Fuel)
	}
	switch t.Drivetrain {
	case "", DriveBoth, Drive4x2, Drive4x4:
	default:
		return fmt.Errorf("unknown drivetrain scope %q", t.Drivetrain)
	}
	return nil
}
