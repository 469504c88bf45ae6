// Package metrics defines the sink interface used to observe simulation
// runs. Implementations live in infra/metrics.
package metrics

import "time"

// Config holds the metrics sink configuration.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SolveEvent describes one tariff-model solve for one station.
type SolveEvent struct {
	Station  string
	Model    string
	Sessions int
	Steps    int
	Duration time.Duration
	Err      error
}

// SchedulePoint is one timestep of a computed charging schedule.
type SchedulePoint struct {
	Station string
	Model   string
	Time    time.Time
	PowerKW float64
}

// MetricsSink receives simulation events.
type MetricsSink interface {
	RecordSolve(ev SolveEvent) error
	RecordSchedulePoint(pt SchedulePoint) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordSolve(SolveEvent) error            { return nil }
func (NopSink) RecordSchedulePoint(SchedulePoint) error { return nil }
