package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/aguerin/carnet/core/metrics"
	"github.com/aguerin/carnet/core/model"
)

// PromSink records engine and ingest activity in Prometheus metrics.
type PromSink struct {
	computations *prometheus.CounterVec
	duration     prometheus.Histogram
	alerts       *prometheus.GaugeVec
	ingest       *prometheus.CounterVec
	fleet        prometheus.Gauge
	events       *prometheus.CounterVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
// The metrics HTTP server is started separately on cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	computations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_computations_total",
		Help: "Total number of alert computations",
	}, []string{"cached"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "alert_computation_seconds",
		Help:    "Time spent computing the alert list",
		Buckets: prometheus.DefBuckets,
	})
	alerts := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "maintenance_alerts",
		Help: "Number of alerts produced by the last computation, by urgency",
	}, []string{"urgency"})
	ingest := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "odometer_readings_total",
		Help: "Total number of odometer telemetry readings received",
	}, []string{"accepted"})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_vehicles_total",
		Help: "Number of vehicles in the fleet store",
	})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_events_total",
		Help: "Total number of fleet mutation events seen on the bus",
	}, []string{"kind"})

	s := &PromSink{computations: computations, duration: duration, alerts: alerts, ingest: ingest, fleet: fleet, events: events}
	for _, c := range []prometheus.Collector{computations, duration, alerts, ingest, fleet, events} {
		if err := register(reg, c, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// register tolerates double registration, reusing the existing collector
// the way repeated sink construction in tests expects.
func register(reg prometheus.Registerer, c prometheus.Collector, s *PromSink) error {
	err := reg.Register(c)
	if err == nil {
		return nil
	}
	are, ok := err.(prometheus.AlreadyRegisteredError)
	if !ok {
		return err
	}
	switch c {
	case s.computations:
		s.computations = are.ExistingCollector.(*prometheus.CounterVec)
	case s.duration:
		s.duration = are.ExistingCollector.(prometheus.Histogram)
	case s.alerts:
		s.alerts = are.ExistingCollector.(*prometheus.GaugeVec)
	case s.ingest:
		s.ingest = are.ExistingCollector.(*prometheus.CounterVec)
	case s.fleet:
		s.fleet = are.ExistingCollector.(prometheus.Gauge)
	case s.events:
		s.events = are.ExistingCollector.(*prometheus.CounterVec)
	}
	return nil
}

// RecordComputation updates the run counter, duration histogram and the
// per-urgency alert gauges.
func (s *PromSink) RecordComputation(ev coremetrics.ComputationEvent) error {
	s.computations.WithLabelValues(strconv.FormatBool(ev.Cached)).Inc()
	if !ev.Cached {
		s.duration.Observe(ev.Duration.Seconds())
	}
	for _, u := range []model.Urgency{model.UrgencyExpired, model.UrgencyHigh, model.UrgencyMedium, model.UrgencyLow} {
		s.alerts.WithLabelValues(u.String()).Set(float64(ev.ByUrgency[u]))
	}
	return nil
}

// RecordIngest counts a telemetry reading.
func (s *PromSink) RecordIngest(ev coremetrics.IngestEvent) error {
	s.ingest.WithLabelValues(strconv.FormatBool(ev.Accepted)).Inc()
	return nil
}

// RecordFleetSize sets the fleet gauge.
func (s *PromSink) RecordFleetSize(size int) error {
	s.fleet.Set(float64(size))
	return nil
}

// RecordFleetEvent counts a fleet mutation observed on the event bus.
func (s *PromSink) RecordFleetEvent(ev coremetrics.FleetEventMetric) error {
	s.events.WithLabelValues(ev.Kind).Inc()
	return nil
}
