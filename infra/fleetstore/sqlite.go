package fleetstore

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/aguerin/carnet/core/fleet"
	"github.com/aguerin/carnet/core/logger"
	"github.com/aguerin/carnet/core/model"
	"github.com/aguerin/carnet/core/thresholds"
	infralogger "github.com/aguerin/carnet/infra/logger"
)

// SQLiteStore persists the fleet state in a SQLite database. It implements
// both fleet.Store and thresholds.Store. The revision counter is process
// local: memoized computations never outlive the process either.
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger

	mu  sync.Mutex
	rev uint64
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
// A nil log disables store logging.
func NewSQLiteStore(path string, log logger.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = infralogger.NopLogger{}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `
CREATE TABLE IF NOT EXISTS vehicles (
    id TEXT PRIMARY KEY,
    name TEXT,
    odometer_km INTEGER NOT NULL,
    year INTEGER,
    fuel TEXT,
    drivetrain TEXT
);
CREATE TABLE IF NOT EXISTS history (
    id TEXT PRIMARY KEY,
    vehicle_id TEXT NOT NULL,
    type TEXT NOT NULL,
    date INTEGER NOT NULL,
    odometer_km INTEGER NOT NULL,
    cost REAL,
    notes TEXT
);
CREATE TABLE IF NOT EXISTS templates (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT,
    distance_km INTEGER,
    time_months INTEGER,
    fuel TEXT,
    drivetrain TEXT,
    profile_id TEXT
);
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    name TEXT
);
CREATE TABLE IF NOT EXISTS profile_vehicles (
    profile_id TEXT NOT NULL,
    vehicle_id TEXT NOT NULL,
    PRIMARY KEY(profile_id, vehicle_id)
);
CREATE TABLE IF NOT EXISTS display_thresholds (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    distance_km INTEGER NOT NULL,
    time_months INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) bump() {
	s.mu.Lock()
	s.rev++
	s.mu.Unlock()
}

func (s *SQLiteStore) revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

// Snapshot reads the whole fleet state. Row order follows primary keys so
// repeated snapshots of unchanged data are identical.
func (s *SQLiteStore) Snapshot() (fleet.Snapshot, uint64) {
	var snap fleet.Snapshot
	rev := s.revision()

	rows, err := s.db.Query(`SELECT id, name, odometer_km, year, fuel, drivetrain FROM vehicles ORDER BY id`)
	if err != nil {
		s.log.Errorf("snapshot vehicles query: %v", err)
		return snap, rev
	}
	for rows.Next() {
		var v model.Vehicle
		var name, fuel, drivetrain sql.NullString
		var year sql.NullInt64
		if err := rows.Scan(&v.ID, &name, &v.Odometer, &year, &fuel, &drivetrain); err != nil {
			s.log.Errorf("snapshot vehicle scan: %v", err)
			continue
		}
		v.Name = name.String
		v.Year = int(year.Int64)
		v.Fuel = model.FuelType(fuel.String)
		v.Drivetrain = model.Drivetrain(drivetrain.String)
		snap.Vehicles = append(snap.Vehicles, v)
	}
	if err := rows.Err(); err != nil {
		s.log.Errorf("snapshot vehicles rows: %v", err)
	}
	_ = rows.Close()

	rows, err = s.db.Query(`SELECT id, vehicle_id, type, date, odometer_km, cost, notes FROM history ORDER BY date, id`)
	if err != nil {
		s.log.Errorf("snapshot history query: %v", err)
		return snap, rev
	}
	for rows.Next() {
		var e model.HistoryEntry
		var date int64
		var cost sql.NullFloat64
		var notes sql.NullString
		if err := rows.Scan(&e.ID, &e.VehicleID, &e.Type, &date, &e.Odometer, &cost, &notes); err != nil {
			s.log.Errorf("snapshot history scan: %v", err)
			continue
		}
		e.Date = time.Unix(date, 0).UTC()
		e.Cost = cost.Float64
		e.Notes = notes.String
		snap.History = append(snap.History, e)
	}
	if err := rows.Err(); err != nil {
		s.log.Errorf("snapshot history rows: %v", err)
	}
	_ = rows.Close()

	rows, err = s.db.Query(`SELECT id, name, category, distance_km, time_months, fuel, drivetrain, profile_id FROM templates ORDER BY id`)
	if err != nil {
		s.log.Errorf("snapshot templates query: %v", err)
		return snap, rev
	}
	for rows.Next() {
		var t model.Template
		var category, fuel, drivetrain, profileID sql.NullString
		var distance, months sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Name, &category, &distance, &months, &fuel, &drivetrain, &profileID); err != nil {
			s.log.Errorf("snapshot template scan: %v", err)
			continue
		}
		t.Category = category.String
		t.DistanceKm = int(distance.Int64)
		t.TimeMonths = int(months.Int64)
		t.Fuel = model.FuelScope(fuel.String)
		t.Drivetrain = model.DriveScope(drivetrain.String)
		t.ProfileID = profileID.String
		snap.Templates = append(snap.Templates, t)
	}
	if err := rows.Err(); err != nil {
		s.log.Errorf("snapshot templates rows: %v", err)
	}
	_ = rows.Close()

	rows, err = s.db.Query(`SELECT p.id, p.name, pv.vehicle_id
        FROM profiles p LEFT JOIN profile_vehicles pv ON pv.profile_id = p.id
        ORDER BY p.id, pv.vehicle_id`)
	if err != nil {
		s.log.Errorf("snapshot profiles query: %v", err)
		return snap, rev
	}
	byID := map[string]*model.CustomProfile{}
	var order []string
	for rows.Next() {
		var id string
		var name, vehicleID sql.NullString
		if err := rows.Scan(&id, &name, &vehicleID); err != nil {
			s.log.Errorf("snapshot profile scan: %v", err)
			continue
		}
		p, ok := byID[id]
		if !ok {
			p = &model.CustomProfile{ID: id, Name: name.String}
			byID[id] = p
			order = append(order, id)
		}
		if vehicleID.Valid {
			p.VehicleIDs = append(p.VehicleIDs, vehicleID.String)
		}
	}
	if err := rows.Err(); err != nil {
		s.log.Errorf("snapshot profiles rows: %v", err)
	}
	_ = rows.Close()
	for _, id := range order {
		snap.Profiles = append(snap.Profiles, *byID[id])
	}
	return snap, rev
}

func (s *SQLiteStore) UpsertVehicle(v model.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO vehicles (id, name, odometer_km, year, fuel, drivetrain)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET name=excluded.name, odometer_km=excluded.odometer_km,
            year=excluded.year, fuel=excluded.fuel, drivetrain=excluded.drivetrain`,
		v.ID, v.Name, v.Odometer, v.Year, string(v.Fuel), string(v.Drivetrain))
	if err != nil {
		return err
	}
	s.bump()
	return nil
}

func (s *SQLiteStore) RecordOdometer(vehicleID string, km int) error {
	if km < 0 {
		return fmt.Errorf("odometer must be non-negative")
	}
	var current int
	err := s.db.QueryRow(`SELECT odometer_km FROM vehicles WHERE id = ?`, vehicleID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fleet.ErrUnknownVehicle
	}
	if err != nil {
		return err
	}
	if km < current {
		return fleet.ErrStaleReading
	}
	if km == current {
		return nil
	}
	if _, err := s.db.Exec(`UPDATE vehicles SET odometer_km = ? WHERE id = ?`, km, vehicleID); err != nil {
		return err
	}
	s.bump()
	return nil
}

func (s *SQLiteStore) AppendHistory(e model.HistoryEntry) (model.HistoryEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	if err := e.Validate(); err != nil {
		return model.HistoryEntry{}, err
	}
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM vehicles WHERE id = ?`, e.VehicleID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.HistoryEntry{}, fleet.ErrUnknownVehicle
	}
	if err != nil {
		return model.HistoryEntry{}, err
	}
	_, err = s.db.Exec(`INSERT INTO history (id, vehicle_id, type, date, odometer_km, cost, notes)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.VehicleID, e.Type, e.Date.Unix(), e.Odometer, e.Cost, e.Notes)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	s.bump()
	return e, nil
}

func (s *SQLiteStore) UpsertTemplate(t model.Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO templates (id, name, category, distance_km, time_months, fuel, drivetrain, profile_id)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET name=excluded.name, category=excluded.category,
            distance_km=excluded.distance_km, time_months=excluded.time_months,
            fuel=excluded.fuel, drivetrain=excluded.drivetrain, profile_id=excluded.profile_id`,
		t.ID, t.Name, t.Category, t.DistanceKm, t.TimeMonths, string(t.Fuel), string(t.Drivetrain), t.ProfileID)
	if err != nil {
		return err
	}
	s.bump()
	return nil
}

func (s *SQLiteStore) UpsertProfile(p model.CustomProfile) error {
	if p.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO profiles (id, name) VALUES (?, ?)
        ON CONFLICT(id) DO UPDATE SET name=excluded.name`, p.ID, p.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM profile_vehicles WHERE profile_id = ?`, p.ID); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, vid := range p.VehicleIDs {
		if _, err := tx.Exec(`INSERT INTO profile_vehicles (profile_id, vehicle_id) VALUES (?, ?)`, p.ID, vid); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.bump()
	return nil
}

// Get implements thresholds.Store, falling back to the defaults when no row
// was ever written.
func (s *SQLiteStore) Get() (thresholds.Config, error) {
	var cfg thresholds.Config
	err := s.db.QueryRow(`SELECT distance_km, time_months FROM display_thresholds WHERE id = 1`).
		Scan(&cfg.DistanceKm, &cfg.TimeMonths)
	if errors.Is(err, sql.ErrNoRows) {
		cfg.SetDefaults()
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Set implements thresholds.Store.
func (s *SQLiteStore) Set(cfg thresholds.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO display_thresholds (id, distance_km, time_months) VALUES (1, ?, ?)
        ON CONFLICT(id) DO UPDATE SET distance_km=excluded.distance_km, time_months=excluded.time_months`,
		cfg.DistanceKm, cfg.TimeMonths)
	return err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
