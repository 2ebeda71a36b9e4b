package scenarios

import (
	"testing"
	"time"

	"github.com/aguerin/carnet/core/catalog"
	"github.com/aguerin/carnet/core/engine"
	"github.com/aguerin/carnet/core/model"
)

// RunScenario computes the alert list for the scenario and compares it to
// the expected alerts, in order.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()

	today, err := time.Parse("2006-01-02", sc.Today)
	if err != nil {
		t.Fatalf("today %q: %v", sc.Today, err)
	}

	vehicles := make([]model.Vehicle, len(sc.Vehicles))
	for i, v := range sc.Vehicles {
		vehicles[i] = v.ToModel()
	}
	var history []model.HistoryEntry
	for _, h := range sc.History {
		e, err := h.ToModel()
		if err != nil {
			t.Fatalf("scenario %s: %v", sc.Name, err)
		}
		history = append(history, e)
	}
	var templates []model.Template
	for _, tpl := range sc.Templates {
		templates = append(templates, tpl.ToModel())
	}
	if len(templates) == 0 {
		templates = catalog.Default()
	}
	var profiles []model.CustomProfile
	for _, p := range sc.Profiles {
		profiles = append(profiles, p.ToModel())
	}

	got := engine.ComputeAlerts(vehicles, history, templates, profiles, today)

	if len(got) != len(sc.Expected.Alerts) {
		t.Fatalf("expected %d alerts, got %d: %+v", len(sc.Expected.Alerts), len(got), got)
	}
	for i, want := range sc.Expected.Alerts {
		a := got[i]
		if a.VehicleID != want.VehicleID || a.Name != want.Name {
			t.Errorf("alert %d: got %s/%s, want %s/%s", i, a.VehicleID, a.Name, want.VehicleID, want.Name)
			continue
		}
		if want.TemplateID != "" && a.TemplateID != want.TemplateID {
			t.Errorf("alert %d (%s): template %s, want %s", i, a.Name, a.TemplateID, want.TemplateID)
		}
		wantUrgency, err := model.ParseUrgency(want.Urgency)
		if err != nil {
			t.Fatalf("alert %d (%s): %v", i, a.Name, err)
		}
		if a.Urgency != wantUrgency {
			t.Errorf("alert %d (%s): urgency %s, want %s", i, a.Name, a.Urgency, wantUrgency)
		}
		if want.Expired != nil && a.Expired != *want.Expired {
			t.Errorf("alert %d (%s): expired %v, want %v", i, a.Name, a.Expired, *want.Expired)
		}
		if want.RemainingKm != nil {
			if a.Mileage == nil {
				t.Errorf("alert %d (%s): missing mileage projection", i, a.Name)
			} else if a.Mileage.RemainingKm != *want.RemainingKm {
				t.Errorf("alert %d (%s): remaining %d km, want %d", i, a.Name, a.Mileage.RemainingKm, *want.RemainingKm)
			}
		} else if a.Mileage != nil {
			t.Errorf("alert %d (%s): unexpected mileage projection", i, a.Name)
		}
		if want.RemainingDays != nil {
			if a.Date == nil {
				t.Errorf("alert %d (%s): missing date projection", i, a.Name)
			} else if a.Date.RemainingDays != *want.RemainingDays {
				t.Errorf("alert %d (%s): remaining %d days, want %d", i, a.Name, a.Date.RemainingDays, *want.RemainingDays)
			}
		}
	}
}
