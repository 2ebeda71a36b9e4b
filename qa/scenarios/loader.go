package scenarios

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aguerin/carnet/core/model"
)

type VehicleDef struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name,omitempty"`
	OdometerKm int    `yaml:"odometer_km"`
	Year       int    `yaml:"year,omitempty"`
	Fuel       string `yaml:"fuel,omitempty"`
	Drivetrain string `yaml:"drivetrain,omitempty"`
}

func (v VehicleDef) ToModel() model.Vehicle {
	return model.Vehicle{
		ID:         v.ID,
		Name:       v.Name,
		Odometer:   v.OdometerKm,
		Year:       v.Year,
		Fuel:       model.FuelType(v.Fuel),
		Drivetrain: model.Drivetrain(v.Drivetrain),
	}
}

type HistoryDef struct {
	ID         string  `yaml:"id,omitempty"`
	VehicleID  string  `yaml:"vehicle_id"`
	Type       string  `yaml:"type"`
	Date       string  `yaml:"date"`
	OdometerKm int     `yaml:"odometer_km"`
	Cost       float64 `yaml:"cost,omitempty"`
}

func (h HistoryDef) ToModel() (model.HistoryEntry, error) {
	date, err := time.Parse("2006-01-02", h.Date)
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("history date %q: %w", h.Date, err)
	}
	id := h.ID
	if id == "" {
		id = fmt.Sprintf("%s-%s-%s", h.VehicleID, h.Type, h.Date)
	}
	return model.HistoryEntry{
		ID:        id,
		VehicleID: h.VehicleID,
		Type:      h.Type,
		Date:      date,
		Odometer:  h.OdometerKm,
		Cost:      h.Cost,
	}, nil
}

type TemplateDef struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Category   string `yaml:"category,omitempty"`
	DistanceKm int    `yaml:"distance_km,omitempty"`
	TimeMonths int    `yaml:"time_months,omitempty"`
	Fuel       string `yaml:"fuel,omitempty"`
	Drivetrain string `yaml:"drivetrain,omitempty"`
	ProfileID  string `yaml:"profile_id,omitempty"`
}

func (t TemplateDef) ToModel() model.Template {
	return model.Template{
		ID:         t.ID,
		Name:       t.Name,
		Category:   t.Category,
		DistanceKm: t.DistanceKm,
		TimeMonths: t.TimeMonths,
		Fuel:       model.FuelScope(t.Fuel),
		Drivetrain: model.DriveScope(t.Drivetrain),
		ProfileID:  t.ProfileID,
	}
}

type ProfileDef struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name,omitempty"`
	VehicleIDs []string `yaml:"vehicle_ids"`
}

func (p ProfileDef) ToModel() model.CustomProfile {
	return model.CustomProfile{ID: p.ID, Name: p.Name, VehicleIDs: p.VehicleIDs}
}

// ExpectedAlert describes one alert the scenario must produce, in order.
// Nil fields are not checked.
type ExpectedAlert struct {
	VehicleID     string `yaml:"vehicle_id"`
	Name          string `yaml:"name"`
	TemplateID    string `yaml:"template_id,omitempty"`
	Urgency       string `yaml:"urgency"`
	Expired       *bool  `yaml:"expired,omitempty"`
	RemainingKm   *int   `yaml:"remaining_km,omitempty"`
	RemainingDays *int   `yaml:"remaining_days,omitempty"`
}

type Expected struct {
	Alerts []ExpectedAlert `yaml:"alerts"`
}

type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Today       string        `yaml:"today"`
	Vehicles    []VehicleDef  `yaml:"vehicles"`
	History     []HistoryDef  `yaml:"history,omitempty"`
	Templates   []TemplateDef `yaml:"templates,omitempty"`
	Profiles    []ProfileDef  `yaml:"profiles,omitempty"`
	Expected    Expected      `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
