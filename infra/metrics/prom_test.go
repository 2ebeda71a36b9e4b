package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/aguerin/carnet/core/metrics"
	"github.com/aguerin/carnet/core/model"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	ev := coremetrics.ComputationEvent{
		Duration: 3 * time.Millisecond,
		Vehicles: 2,
		Alerts:   5,
		ByUrgency: map[model.Urgency]int{
			model.UrgencyExpired: 1,
			model.UrgencyHigh:    2,
			model.UrgencyLow:     2,
		},
		Time: time.Now(),
	}
	require.NoError(t, sink.RecordComputation(ev))
	require.NoError(t, sink.RecordIngest(coremetrics.IngestEvent{VehicleID: "v1", OdometerKm: 1000, Accepted: true}))
	require.NoError(t, sink.RecordFleetSize(3))
	require.NoError(t, sink.RecordFleetEvent(coremetrics.FleetEventMetric{Kind: "vehicle", VehicleID: "v1", Time: time.Now()}))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"alert_computations_total", "alert_computation_seconds", "maintenance_alerts", "odometer_readings_total", "fleet_vehicles_total", "fleet_events_total"} {
		require.Truef(t, names[want], "metric %s not gathered", want)
	}
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordFleetSize(1))
}

func TestMultiSinkFanout(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	multi := NewMultiSink(prom, coremetrics.NopSink{})
	require.NoError(t, multi.RecordComputation(coremetrics.ComputationEvent{Alerts: 1}))
	require.NoError(t, multi.RecordIngest(coremetrics.IngestEvent{Accepted: false, Reason: "stale"}))
	require.NoError(t, multi.RecordFleetSize(2))
	require.NoError(t, multi.RecordFleetEvent(coremetrics.FleetEventMetric{Kind: "history", VehicleID: "v1", Time: time.Now()}))
}
