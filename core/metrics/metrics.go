package metrics

import (
	"time"

	"github.com/aguerin/carnet/core/model"
)

// ComputationEvent captures one engine run for observability purposes.
type ComputationEvent struct {
	Duration  time.Duration
	Vehicles  int
	Alerts    int
	ByUrgency map[model.Urgency]int
	Cached    bool
	Time      time.Time
}

// ComputationRecorder records engine runs.
type ComputationRecorder interface {
	RecordComputation(ev ComputationEvent) error
}

// IngestEvent captures one odometer telemetry reading.
type IngestEvent struct {
	VehicleID  string
	OdometerKm int
	Accepted   bool
	Reason     string // populated when the reading was dropped
	Time       time.Time
}

// IngestRecorder records telemetry readings.
type IngestRecorder interface {
	RecordIngest(ev IngestEvent) error
}

// FleetSizeRecorder records the number of vehicles in the store.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// FleetEventMetric captures one fleet mutation observed on the event bus.
type FleetEventMetric struct {
	Kind      string
	VehicleID string
	Time      time.Time
}

// FleetEventRecorder is implemented by sinks that count fleet mutations.
// The event collector checks for it at runtime, so implementing it is
// optional.
type FleetEventRecorder interface {
	RecordFleetEvent(ev FleetEventMetric) error
}

// Sink is the full recording surface implemented by the metrics backends.
type Sink interface {
	ComputationRecorder
	IngestRecorder
	FleetSizeRecorder
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordComputation(ComputationEvent) error { return nil }
func (NopSink) RecordIngest(IngestEvent) error           { return nil }
func (NopSink) RecordFleetSize(int) error                { return nil }
