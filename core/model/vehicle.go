package model

import "fmt"

// FuelType identifies the engine fuel of a vehicle. The empty value means
// the attribute was never filled in by the owner.
type FuelType string

const (
	FuelUnknown  FuelType = ""
	FuelGasoline FuelType = "gasoline"
	FuelDiesel   FuelType = "diesel"
)

// Drivetrain identifies the transmission layout of a vehicle. The empty
// value means the attribute was never filled in by the owner.
type Drivetrain string

const (
	DrivetrainUnknown Drivetrain = ""
	Drivetrain4x2     Drivetrain = "4x2"
	Drivetrain4x4     Drivetrain = "4x4"
)

// Vehicle represents one vehicle of the fleet. It is immutable during an
// engine invocation; mutations go through the fleet store.
type Vehicle struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	Odometer   int        `json:"odometer_km" yaml:"odometer_km"`                   // current odometer reading in km
	Year       int        `json:"year,omitempty" yaml:"year,omitempty"`             // manufacture year, 0 when unknown
	Fuel       FuelType   `json:"fuel,omitempty" yaml:"fuel,omitempty"`             // empty when unknown
	Drivetrain Drivetrain `json:"drivetrain,omitempty" yaml:"drivetrain,omitempty"` // empty when unknown
}

// Validate checks that the vehicle record is sound.
func (v Vehicle) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vehicle id is required")
	}
	if v.Odometer < 0 {
		return fmt.Errorf("odometer must be non-negative")
	}
	switch v.Fuel {
	case FuelUnknown, FuelGasoline, FuelDiesel:
	default:
		return fmt.Errorf("unknown fuel type %q", v.Fuel)
	}
	switch v.Drivetrain {
	case DrivetrainUnknown, Drivetrain4x2, Drivetrain4x4:
	default:
		return fmt.Errorf("unknown drivetrain %q", v.Drivetrain)
	}
	return nil
}
