package metrics

import (
	"context"

	coremetrics "github.com/aguerin/carnet/core/metrics"
	"github.com/aguerin/carnet/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records a metric for
// every fleet mutation. It stops when the context is canceled or the bus is
// closed.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink) {
	if bus == nil || sink == nil {
		return
	}
	r, ok := sink.(coremetrics.FleetEventRecorder)
	if !ok {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, open := <-sub:
				if !open {
					return
				}
				_ = r.RecordFleetEvent(coremetrics.FleetEventMetric{
					Kind:      string(ev.Kind),
					VehicleID: ev.VehicleID,
					Time:      ev.Time,
				})
			}
		}
	}()
}
