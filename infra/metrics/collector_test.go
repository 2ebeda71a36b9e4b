package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/aguerin/carnet/core/metrics"
	"github.com/aguerin/carnet/internal/eventbus"
)

func TestEventCollectorCountsFleetEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := eventbus.New()
	defer bus.Close()
	StartEventCollector(ctx, bus, sink)

	bus.Publish(eventbus.FleetEvent{Kind: eventbus.KindVehicle, VehicleID: "v1", Time: time.Now()})
	bus.Publish(eventbus.FleetEvent{Kind: eventbus.KindOdometer, VehicleID: "v1", Time: time.Now()})

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(sink.events.WithLabelValues(string(eventbus.KindVehicle))) == 1 &&
			testutil.ToFloat64(sink.events.WithLabelValues(string(eventbus.KindOdometer))) == 1
	}, time.Second, 10*time.Millisecond, "published events must reach the counter")
}

func TestEventCollectorGuards(t *testing.T) {
	// None of these may panic or leak a goroutine.
	StartEventCollector(context.Background(), nil, coremetrics.NopSink{})
	StartEventCollector(context.Background(), eventbus.New(), nil)
	StartEventCollector(context.Background(), eventbus.New(), coremetrics.NopSink{})
}
