package config

import "fmt"

// FleetConfig selects the fleet state backend.
type FleetConfig struct {
	// Backend selects the store type: "memory" or "sqlite".
	Backend string `json:"backend"`
	// Path is the SQLite database location when Backend is "sqlite".
	Path string `json:"path"`
	// Snapshot optionally seeds the store from a JSON or YAML fleet file.
	Snapshot string `json:"snapshot"`
	// Catalog optionally merges user templates from a JSON or YAML file
	// over the factory catalog.
	Catalog string `json:"catalog"`
}

// SetDefaults applies sane defaults.
func (c *FleetConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "carnet.db"
	}
}

// Validate checks mandatory fields.
func (c FleetConfig) Validate() error {
	if c.Backend != "memory" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Backend == "sqlite" && c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}
