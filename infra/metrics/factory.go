package metrics

import (
	"fmt"

	coremetrics "github.com/kilianp07/gridtariff/core/metrics"
	"github.com/kilianp07/gridtariff/infra/logger"
)

// NewSink assembles the configured sinks into a single MetricsSink. With
// nothing enabled a NopSink is returned.
func NewSink(cfg coremetrics.Config, log logger.Logger) (coremetrics.MetricsSink, error) {
	var sinks []coremetrics.MetricsSink
	if cfg.PrometheusEnabled {
		sink, err := NewPromSink(cfg)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
		go func() {
			if err := StartPromServer(cfg.PrometheusPort); err != nil && log != nil {
				log.Errorf("prom server: %v", err)
			}
		}()
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
