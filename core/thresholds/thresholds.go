package thresholds

import (
	"fmt"
	"sync"

	"github.com/aguerin/carnet/core/model"
)

// Config holds the user-facing display thresholds deciding which computed
// alerts appear on screen. These are presentation filters only and are
// independent of the fixed cutoffs the urgency classifier applies.
type Config struct {
	DistanceKm int `json:"distance_km" yaml:"distance_km"`
	TimeMonths int `json:"time_months" yaml:"time_months"`
}

// SetDefaults applies the factory thresholds: 1500 km and 1 month.
func (c *Config) SetDefaults() {
	if c.DistanceKm == 0 {
		c.DistanceKm = 1500
	}
	if c.TimeMonths == 0 {
		c.TimeMonths = 1
	}
}

// Validate checks the thresholds are usable.
func (c Config) Validate() error {
	if c.DistanceKm <= 0 {
		return fmt.Errorf("distance_km must be positive")
	}
	if c.TimeMonths <= 0 {
		return fmt.Errorf("time_months must be positive")
	}
	return nil
}

// Visible reports whether the alert passes the display filter. Expired
// alerts always show; otherwise either leg within its threshold suffices.
// A month counts as 30 days on the time leg.
func (c Config) Visible(a model.Alert) bool {
	if a.Expired {
		return true
	}
	if a.Mileage != nil && a.Mileage.RemainingKm <= c.DistanceKm {
		return true
	}
	if a.Date != nil && a.Date.RemainingDays <= c.TimeMonths*30 {
		return true
	}
	return false
}

// Filter returns the alerts passing the display filter, preserving order.
func (c Config) Filter(alerts []model.Alert) []model.Alert {
	var out []model.Alert
	for _, a := range alerts {
		if c.Visible(a) {
			out = append(out, a)
		}
	}
	return out
}

// Store persists the display thresholds.
type Store interface {
	Get() (Config, error)
	Set(Config) error
}

// MemoryStore keeps the thresholds in memory, starting from the defaults.
type MemoryStore struct {
	mu  sync.RWMutex
	cfg Config
}

func NewMemoryStore() *MemoryStore {
	var cfg Config
	cfg.SetDefaults()
	return &MemoryStore{cfg: cfg}
}

func (s *MemoryStore) Get() (Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, nil
}

func (s *MemoryStore) Set(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}
