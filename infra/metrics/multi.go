package metrics

import coremetrics "github.com/aguerin/carnet/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordComputation forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordComputation(ev coremetrics.ComputationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordComputation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordIngest forwards the event to all sinks.
func (m *MultiSink) RecordIngest(ev coremetrics.IngestEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordIngest(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleetSize forwards the gauge update to all sinks.
func (m *MultiSink) RecordFleetSize(size int) error {
	for _, s := range m.Sinks {
		if err := s.RecordFleetSize(size); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleetEvent forwards the event to the sinks that count fleet
// mutations.
func (m *MultiSink) RecordFleetEvent(ev coremetrics.FleetEventMetric) error {
	for _, s := range m.Sinks {
		if r, ok := s.(coremetrics.FleetEventRecorder); ok {
			if err := r.RecordFleetEvent(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
