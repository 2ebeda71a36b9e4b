package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `http:
  addr: ":8088"
fleet:
  backend: "sqlite"
  path: "fleet.db"
  snapshot: "fleet.yaml"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
thresholds:
  distance_km: 2000
  time_months: 2
metrics:
  prometheus_enabled: true
  prometheus_port: ":9091"
logging:
  level: "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"http.addr", cfg.HTTP.Addr, ":8088"},
		{"fleet.backend", cfg.Fleet.Backend, "sqlite"},
		{"fleet.path", cfg.Fleet.Path, "fleet.db"},
		{"fleet.snapshot", cfg.Fleet.Snapshot, "fleet.yaml"},
		{"mqtt.enabled", cfg.MQTT.Enabled, true},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.client_id", cfg.MQTT.ClientID, "cli"},
		{"mqtt.username", cfg.MQTT.Username, "user"},
		{"thresholds.distance_km", cfg.Thresholds.DistanceKm, 2000},
		{"thresholds.time_months", cfg.Thresholds.TimeMonths, 2},
		{"metrics.prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"metrics.prometheus_port", cfg.Metrics.PrometheusPort, ":9091"},
		{"logging.level", cfg.Logging.Level, "debug"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
	if cfg.MQTT.Topic != "carnet/fleet/+/odometer" {
		t.Errorf("topic default not applied: %q", cfg.MQTT.Topic)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("http addr default mismatch: %q", cfg.HTTP.Addr)
	}
	if cfg.Fleet.Backend != "memory" {
		t.Errorf("fleet backend default mismatch: %q", cfg.Fleet.Backend)
	}
	if cfg.Thresholds.DistanceKm != 1500 || cfg.Thresholds.TimeMonths != 1 {
		t.Errorf("threshold defaults mismatch: %+v", cfg.Thresholds)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level default mismatch: %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("http:\n  addr: \":8080\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CARNET_HTTP__ADDR", ":9999")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("env override not applied: %q", cfg.HTTP.Addr)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"backend":   "fleet:\n  backend: \"redis\"\n",
		"log level": "logging:\n  level: \"verbose\"\n",
		"threshold": "thresholds:\n  distance_km: -1\n",
		"broker":    "mqtt:\n  enabled: true\n",
	}
	for name, data := range cases {
		path := filepath.Join(dir, name+".yaml")
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
