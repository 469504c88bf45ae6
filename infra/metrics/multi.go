package metrics

import coremetrics "github.com/kilianp07/gridtariff/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordSolve(ev coremetrics.SolveEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSchedulePoint forwards the point to all sinks.
func (m *MultiSink) RecordSchedulePoint(pt coremetrics.SchedulePoint) error {
	for _, s := range m.Sinks {
		if err := s.RecordSchedulePoint(pt); err != nil {
			return err
		}
	}
	return nil
}
