package fleet

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aguerin/carnet/core/model"
)

// ErrUnknownVehicle is returned when a mutation targets a vehicle id the
// store has never seen.
var ErrUnknownVehicle = errors.New("unknown vehicle")

// ErrStaleReading is returned when an odometer update is lower than the
// reading already on record. Odometers only move forward.
var ErrStaleReading = errors.New("stale odometer reading")

// Snapshot is one immutable view of the fleet handed to the engine.
type Snapshot struct {
	Vehicles  []model.Vehicle       `json:"vehicles" yaml:"vehicles"`
	History   []model.HistoryEntry  `json:"history" yaml:"history"`
	Templates []model.Template      `json:"templates,omitempty" yaml:"templates,omitempty"`
	Profiles  []model.CustomProfile `json:"profiles,omitempty" yaml:"profiles,omitempty"`
}

// Store holds the fleet state feeding the engine. Every successful mutation
// bumps the revision, which callers use to key memoized computations.
type Store interface {
	// Snapshot returns a copy of the current state and its revision.
	Snapshot() (Snapshot, uint64)
	UpsertVehicle(v model.Vehicle) error
	// RecordOdometer folds a telemetry reading into the vehicle record.
	RecordOdometer(vehicleID string, km int) error
	// AppendHistory records a completed operation. An empty entry id is
	// assigned one; the entry id is part of alert identity.
	AppendHistory(e model.HistoryEntry) (model.HistoryEntry, error)
	UpsertTemplate(t model.Template) error
	UpsertProfile(p model.CustomProfile) error
}

// MemoryStore is the in-memory Store used by tests and snapshot-file mode.
type MemoryStore struct {
	mu        sync.RWMutex
	rev       uint64
	vehicles  []model.Vehicle
	history   []model.HistoryEntry
	templates []model.Template
	profiles  []model.CustomProfile
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// NewMemoryStoreFrom seeds the store with a snapshot, e.g. one loaded from
// a fixture file.
func NewMemoryStoreFrom(s Snapshot) *MemoryStore {
	ms := &MemoryStore{}
	ms.vehicles = append(ms.vehicles, s.Vehicles...)
	ms.history = append(ms.history, s.History...)
	ms.templates = append(ms.templates, s.Templates...)
	ms.profiles = append(ms.profiles, s.Profiles...)
	return ms
}

func (s *MemoryStore) Snapshot() (Snapshot, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Vehicles:  append([]model.Vehicle(nil), s.vehicles...),
		History:   append([]model.HistoryEntry(nil), s.history...),
		Templates: append([]model.Template(nil), s.templates...),
		Profiles:  append([]model.CustomProfile(nil), s.profiles...),
	}
	return snap, s.rev
}

func (s *MemoryStore) UpsertVehicle(v model.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vehicles {
		if s.vehicles[i].ID == v.ID {
			s.vehicles[i] = v
			s.rev++
			return nil
		}
	}
	s.vehicles = append(s.vehicles, v)
	s.rev++
	return nil
}

func (s *MemoryStore) RecordOdometer(vehicleID string, km int) error {
	if km < 0 {
		return fmt.Errorf("odometer must be non-negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vehicles {
		if s.vehicles[i].ID != vehicleID {
			continue
		}
		if km < s.vehicles[i].Odometer {
			return ErrStaleReading
		}
		if km == s.vehicles[i].Odometer {
			return nil // no-op, keep the revision stable
		}
		s.vehicles[i].Odometer = km
		s.rev++
		return nil
	}
	return ErrUnknownVehicle
}

func (s *MemoryStore) AppendHistory(e model.HistoryEntry) (model.HistoryEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	if err := e.Validate(); err != nil {
		return model.HistoryEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for i := range s.vehicles {
		if s.vehicles[i].ID == e.VehicleID {
			found = true
			break
		}
	}
	if !found {
		return model.HistoryEntry{}, ErrUnknownVehicle
	}
	s.history = append(s.history, e)
	s.rev++
	return e, nil
}

func (s *MemoryStore) UpsertTemplate(t model.Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.templates {
		if s.templates[i].ID == t.ID {
			s.templates[i] = t
			s.rev++
			return nil
		}
	}
	s.templates = append(s.templates, t)
	s.rev++
	return nil
}

func (s *MemoryStore) UpsertProfile(p model.CustomProfile) error {
	if p.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.profiles {
		if s.profiles[i].ID == p.ID {
			s.profiles[i] = p
			s.rev++
			return nil
		}
	}
	s.profiles = append(s.profiles, p)
	s.rev++
	return nil
}
