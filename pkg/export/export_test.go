package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aguerin/carnet/core/model"
)

func sampleAlerts() []model.Alert {
	return []model.Alert{
		{
			ID: "a1", VehicleID: "v1", TemplateID: "tpl-vidange", Name: "Vidange huile moteur",
			Category: "Moteur", Urgency: model.UrgencyHigh,
			Mileage: &model.MileageProjection{TargetKm: 30000, RemainingKm: 500},
			Date:    &model.DateProjection{TargetDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), RemainingDays: 20},
		},
		{
			ID: "a2", VehicleID: "v2", TemplateID: "tpl-ct", Name: "Contrôle technique",
			Urgency: model.UrgencyExpired, Expired: true,
			Date: &model.DateProjection{TargetDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), RemainingDays: 0},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleAlerts()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out []model.Alert
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a1" || out[1].Urgency != model.UrgencyExpired {
		t.Fatalf("unexpected roundtrip %#v", out)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleAlerts()); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	if records[0][0] != "id" || records[0][5] != "urgency" {
		t.Fatalf("unexpected header %v", records[0])
	}
	if records[1][5] != "high" || records[1][8] != "500" {
		t.Fatalf("unexpected row %v", records[1])
	}
	// Distance leg absent on the second alert.
	if records[2][7] != "" || records[2][6] != "true" {
		t.Fatalf("unexpected row %v", records[2])
	}
}
