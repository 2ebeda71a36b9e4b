package catalog

import (
	"bytes"
	"os"
	"testing"

	"github.com/aguerin/carnet/core/model"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	seen := map[string]bool{}
	for _, tmpl := range Default() {
		if err := tmpl.Validate(); err != nil {
			t.Errorf("factory template %s: %v", tmpl.Name, err)
		}
		if !tmpl.HasInterval() {
			t.Errorf("factory template %s has no interval and can never alert", tmpl.Name)
		}
		if tmpl.ProfileID != "" {
			t.Errorf("factory template %s must not be profile-scoped", tmpl.Name)
		}
		if seen[tmpl.Name] {
			t.Errorf("duplicate factory template name %s", tmpl.Name)
		}
		seen[tmpl.Name] = true
	}
}

func TestDecodeYAML(t *testing.T) {
	data := `
- id: user-1
  name: Graissage châssis
  category: Transmission
  distance_km: 10000
  drivetrain: 4x4
`
	ts, err := Decode(bytes.NewBufferString(data), "yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ts) != 1 || ts[0].DistanceKm != 10000 || ts[0].Drivetrain != model.Drive4x4 {
		t.Fatalf("bad templates %#v", ts)
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	data := `[{"id":"x","name":"","distance_km":100}]`
	if _, err := Decode(bytes.NewBufferString(data), "json"); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := Decode(bytes.NewBufferString("[]"), "toml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/catalog.json"
	if err := os.WriteFile(path, []byte(`[{"id":"u1","name":"Lavage moteur","time_months":6}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ts, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ts) != 1 || ts[0].TimeMonths != 6 {
		t.Fatalf("bad templates %#v", ts)
	}
}

func TestMergeKeepsFactoryFirst(t *testing.T) {
	user := []model.Template{{ID: "u1", Name: "Vidange huile moteur", DistanceKm: 10000}}
	merged := Merge(Default(), user)
	if merged[0].ID == "u1" {
		t.Fatalf("user template sorted before factory defaults")
	}
	if merged[len(merged)-1].ID != "u1" {
		t.Fatalf("user template missing from merge")
	}
}
