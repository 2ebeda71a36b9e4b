package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aguerin/carnet/api/alerts"
	"github.com/aguerin/carnet/api/vehicles"
	"github.com/aguerin/carnet/config"
	"github.com/aguerin/carnet/core/catalog"
	"github.com/aguerin/carnet/core/engine"
	"github.com/aguerin/carnet/core/fleet"
	coremetrics "github.com/aguerin/carnet/core/metrics"
	"github.com/aguerin/carnet/core/model"
	"github.com/aguerin/carnet/core/thresholds"
	"github.com/aguerin/carnet/infra/fleetstore"
	"github.com/aguerin/carnet/infra/logger"
	"github.com/aguerin/carnet/infra/metrics"
	"github.com/aguerin/carnet/infra/mqtt"
	"github.com/aguerin/carnet/internal/eventbus"
)

// Service orchestrates the fleet store, the alert engine and the adapters.
type Service struct {
	cfg   *config.Config
	store fleet.Store
	th    thresholds.Store
	sink  coremetrics.Sink
	bus   *eventbus.Bus
	log   logger.Logger
	memo  engine.Memo
	sub   *mqtt.Subscriber
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.NewWithLevel("service", cfg.Logging.Level)

	var store fleet.Store
	var th thresholds.Store
	switch cfg.Fleet.Backend {
	case "sqlite":
		s, err := fleetstore.NewSQLiteStore(cfg.Fleet.Path, logg)
		if err != nil {
			return nil, fmt.Errorf("fleet store: %w", err)
		}
		store = s
		th = s
	default:
		store = fleet.NewMemoryStore()
		mem := thresholds.NewMemoryStore()
		if err := mem.Set(cfg.Thresholds); err != nil {
			return nil, fmt.Errorf("thresholds: %w", err)
		}
		th = mem
	}

	if err := seed(store, cfg.Fleet); err != nil {
		return nil, err
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	svc := &Service{
		cfg:   cfg,
		store: store,
		th:    th,
		sink:  sink,
		bus:   eventbus.New(),
		log:   logg,
	}
	snap, _ := store.Snapshot()
	if err := sink.RecordFleetSize(len(snap.Vehicles)); err != nil {
		logg.Warnf("fleet size metric: %v", err)
	}
	return svc, nil
}

// seed merges the factory catalog with the optional user catalog and applies
// the optional snapshot file.
func seed(store fleet.Store, cfg config.FleetConfig) error {
	tpls := catalog.Default()
	if cfg.Catalog != "" {
		user, err := catalog.Load(cfg.Catalog)
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		tpls = catalog.Merge(tpls, user)
	}
	for _, t := range tpls {
		if err := store.UpsertTemplate(t); err != nil {
			return fmt.Errorf("template %s: %w", t.ID, err)
		}
	}
	if cfg.Snapshot == "" {
		return nil
	}
	snap, err := fleet.LoadSnapshot(cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	for _, v := range snap.Vehicles {
		if err := store.UpsertVehicle(v); err != nil {
			return fmt.Errorf("vehicle %s: %w", v.ID, err)
		}
	}
	for _, t := range snap.Templates {
		if err := store.UpsertTemplate(t); err != nil {
			return fmt.Errorf("template %s: %w", t.ID, err)
		}
	}
	for _, p := range snap.Profiles {
		if err := store.UpsertProfile(p); err != nil {
			return fmt.Errorf("profile %s: %w", p.ID, err)
		}
	}
	for _, e := range snap.History {
		if _, err := store.AppendHistory(e); err != nil {
			return fmt.Errorf("history %s: %w", e.ID, err)
		}
	}
	return nil
}

// Alerts computes the full sorted alert list for the given reference date.
// The result is memoized per store revision and civil date.
func (s *Service) Alerts(today time.Time) []model.Alert {
	snap, rev := s.store.Snapshot()
	start := time.Now()
	computed := false
	out := s.memo.Get(rev, today, func() []model.Alert {
		computed = true
		return engine.ComputeAlerts(snap.Vehicles, snap.History, snap.Templates, snap.Profiles, today)
	})
	ev := coremetrics.ComputationEvent{
		Duration:  time.Since(start),
		Vehicles:  len(snap.Vehicles),
		Alerts:    len(out),
		ByUrgency: countByUrgency(out),
		Cached:    !computed,
		Time:      time.Now(),
	}
	if err := s.sink.RecordComputation(ev); err != nil {
		s.log.Warnf("computation metric: %v", err)
	}
	return out
}

func countByUrgency(alerts []model.Alert) map[model.Urgency]int {
	m := make(map[model.Urgency]int, 4)
	for _, a := range alerts {
		m[a.Urgency]++
	}
	return m
}

// Thresholds implements the display threshold store for the API.
func (s *Service) Thresholds() (thresholds.Config, error) { return s.th.Get() }

// SetThresholds persists new display thresholds.
func (s *Service) SetThresholds(cfg thresholds.Config) error { return s.th.Set(cfg) }

// Snapshot exposes the current fleet state.
func (s *Service) Snapshot() (fleet.Snapshot, uint64) { return s.store.Snapshot() }

// AddVehicle upserts a vehicle and notifies subscribers.
func (s *Service) AddVehicle(v model.Vehicle) error {
	if err := s.store.UpsertVehicle(v); err != nil {
		return err
	}
	s.bus.Publish(eventbus.FleetEvent{Kind: eventbus.KindVehicle, VehicleID: v.ID, Time: time.Now(), Payload: v})
	snap, _ := s.store.Snapshot()
	if err := s.sink.RecordFleetSize(len(snap.Vehicles)); err != nil {
		s.log.Warnf("fleet size metric: %v", err)
	}
	return nil
}

// AddHistory records a completed maintenance operation. Recording the
// matching operation is what resolves an alert: the next computation
// projects from the new entry.
func (s *Service) AddHistory(e model.HistoryEntry) (model.HistoryEntry, error) {
	stored, err := s.store.AppendHistory(e)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	s.bus.Publish(eventbus.FleetEvent{Kind: eventbus.KindHistory, VehicleID: stored.VehicleID, Time: time.Now(), Payload: stored})
	return stored, nil
}

// HandleOdometer implements mqtt.ReadingHandler, folding telemetry readings
// into the store.
func (s *Service) HandleOdometer(r mqtt.OdometerReading) {
	err := s.store.RecordOdometer(r.VehicleID, r.OdometerKm)
	ev := coremetrics.IngestEvent{VehicleID: r.VehicleID, OdometerKm: r.OdometerKm, Accepted: err == nil, Time: time.Now()}
	switch {
	case errors.Is(err, fleet.ErrUnknownVehicle):
		ev.Reason = "unknown_vehicle"
		s.log.Warnf("odometer reading for unknown vehicle %s", r.VehicleID)
	case errors.Is(err, fleet.ErrStaleReading):
		ev.Reason = "stale"
		s.log.Debugf("stale odometer reading for %s: %d km", r.VehicleID, r.OdometerKm)
	case err != nil:
		ev.Reason = "error"
		s.log.Errorf("odometer reading for %s: %v", r.VehicleID, err)
	default:
		s.bus.Publish(eventbus.FleetEvent{Kind: eventbus.KindOdometer, VehicleID: r.VehicleID, Time: time.Now(), Payload: r})
	}
	if err := s.sink.RecordIngest(ev); err != nil {
		s.log.Warnf("ingest metric: %v", err)
	}
}

// Events exposes the fleet event bus.
func (s *Service) Events() eventbus.EventBus { return s.bus }

// Handler builds the REST API routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/alerts", alerts.NewHandler(s, s))
	mux.Handle("/api/history", alerts.NewHistoryHandler(s))
	mux.Handle("/api/thresholds", alerts.NewThresholdsHandler(s))
	mux.Handle("/api/vehicles", vehicles.NewHandler(s))
	mux.Handle("/api/fleet/kpi", vehicles.NewKPIHandler(s))
	return mux
}

// Run starts the adapters and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.cfg.MQTT.Enabled {
		sub, err := mqtt.NewSubscriber(s.cfg.MQTT, s, s.log)
		if err != nil {
			return fmt.Errorf("mqtt subscriber: %w", err)
		}
		s.sub = sub
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.HTTP.Addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("API listening on %s", s.cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.sub != nil {
		s.sub.Close()
	}
	s.bus.Close()
	if c, ok := s.store.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
