package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/kilianp07/gridtariff/core/metrics"
)

// PromSink records solver activity in Prometheus metrics. Schedule points
// are not exported to Prometheus; they go to the Influx sink.
type PromSink struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPromSink registers solver metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariff_solves_total",
		Help: "Total number of tariff model solves",
	}, []string{"station", "model", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tariff_solve_duration_seconds",
		Help:    "Wall time of one station solve",
		Buckets: prometheus.DefBuckets,
	}, []string{"station", "model"})

	if err := reg.Register(solves); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solves = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{solves: solves, duration: duration}, nil
}

// RecordSolve increments the solve counter and observes its duration.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	status := "ok"
	if ev.Err != nil {
		status = "error"
	}
	s.solves.WithLabelValues(ev.Station, ev.Model, status).Inc()
	s.duration.WithLabelValues(ev.Station, ev.Model).Observe(ev.Duration.Seconds())
	return nil
}

// RecordSchedulePoint is a no-op for the Prometheus sink.
func (s *PromSink) RecordSchedulePoint(coremetrics.SchedulePoint) error { return nil }

// StartPromServer exposes /metrics on the given port and blocks.
func StartPromServer(port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(":"+port, mux)
}
