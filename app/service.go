// Package app assembles the simulation service from configuration:
// datasets, tariff model, metrics sinks, publishers and exporters.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kilianp07/gridtariff/config"
	"github.com/kilianp07/gridtariff/core/metrics"
	"github.com/kilianp07/gridtariff/core/model"
	"github.com/kilianp07/gridtariff/core/simulation"
	"github.com/kilianp07/gridtariff/core/tariff"
	"github.com/kilianp07/gridtariff/infra/logger"
	inframetrics "github.com/kilianp07/gridtariff/infra/metrics"
	inframqtt "github.com/kilianp07/gridtariff/infra/mqtt"
	"github.com/kilianp07/gridtariff/internal/dataset"
	"github.com/kilianp07/gridtariff/pkg/export"
)

// Service runs tariff simulations from a loaded configuration.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	sink      metrics.MetricsSink
	publisher inframqtt.Publisher
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	sink, err := inframetrics.NewSink(cfg.Metrics, logg)
	if err != nil {
		return nil, err
	}
	var publisher inframqtt.Publisher
	if cfg.MQTT.Enabled {
		publisher, err = inframqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}
	return &Service{cfg: cfg, log: logg, sink: sink, publisher: publisher}, nil
}

// Close releases held connections.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Close()
	}
	return nil
}

// inputs bundles the loaded datasets of one scenario run.
type inputs struct {
	sessions  []model.Session
	timeline  model.Timeline
	prices    model.PriceSeries
	household *model.LoadSeries
}

func (s *Service) loadInputs() (*inputs, error) {
	sc := s.cfg.Scenario
	tl, err := sc.Horizon()
	if err != nil {
		return nil, err
	}
	sessions, err := dataset.LoadSessions(sc.SessionsFile)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	in := &inputs{sessions: sessions, timeline: tl}
	if sc.PricesFile != "" {
		in.prices, err = dataset.LoadPrices(sc.PricesFile)
		if err != nil {
			return nil, fmt.Errorf("load prices: %w", err)
		}
	}
	if sc.HouseholdFile != "" {
		household, err := dataset.LoadHouseholdProfile(sc.HouseholdFile, tl)
		if err != nil {
			return nil, fmt.Errorf("load household profile: %w", err)
		}
		in.household = &household
	}
	return in, nil
}

// buildModel constructs the configured tariff model.
func (s *Service) buildModel(in *inputs) (tariff.Model, error) {
	sc := s.cfg.Scenario
	switch sc.Model {
	case config.ModelUncontrolled:
		return tariff.Uncontrolled{}, nil
	case config.ModelVolumetric:
		var gridTariff model.TariffSeries
		var err error
		if sc.Volumetric.TariffFile != "" {
			gridTariff, err = dataset.LoadTariffSeries(sc.Volumetric.TariffFile, in.timeline)
			if err != nil {
				return nil, fmt.Errorf("load grid tariff: %w", err)
			}
		} else {
			gridTariff = model.NewTimeOfUseTariff(in.timeline,
				sc.Volumetric.OffPeakPerKWh, sc.Volumetric.PeakPerKWh,
				sc.Volumetric.PeakStartHour, sc.Volumetric.PeakEndHour)
		}
		return tariff.VolumetricTOU{
			GridTariff:    gridTariff,
			DayAhead:      in.prices,
			DynamicPrices: sc.DynamicPrices,
		}, nil
	case config.ModelSegmented:
		return tariff.SegmentedTOU{
			Bands:         model.NewConstantBandLimits(in.timeline, sc.Segmented.Threshold1KW, sc.Segmented.Threshold2KW),
			LowPerKWh:     sc.Segmented.LowPerKWh,
			MediumPerKWh:  sc.Segmented.MediumPerKWh,
			HighPerKWh:    sc.Segmented.HighPerKWh,
			DayAhead:      in.prices,
			DynamicPrices: sc.DynamicPrices,
		}, nil
	case config.ModelCapacity:
		return tariff.CapacityRolling{
			AnnualPerKW:   sc.Capacity.AnnualPerKW,
			InitialPeakKW: sc.Capacity.InitialPeakKW,
			DayAhead:      in.prices,
			DynamicPrices: sc.DynamicPrices,
		}, nil
	case config.ModelSubscription:
		return tariff.CapacitySubscription{
			SubscribedKW:  sc.Subscription.SubscribedKW,
			ExceedPerKWh:  sc.Subscription.ExceedPerKWh,
			DayAhead:      in.prices,
			DynamicPrices: sc.DynamicPrices,
		}, nil
	default:
		return nil, fmt.Errorf("unknown model %q", sc.Model)
	}
}

// Simulate runs the configured scenario and returns its result.
func (s *Service) Simulate(ctx context.Context) (*simulation.Result, error) {
	in, err := s.loadInputs()
	if err != nil {
		return nil, err
	}
	mdl, err := s.buildModel(in)
	if err != nil {
		return nil, err
	}
	runner := &simulation.Runner{Model: mdl, Household: in.household, Log: s.log, Sink: s.sink}
	res, err := runner.Run(ctx, in.sessions, in.timeline)
	if err != nil {
		return nil, err
	}
	if err := s.bill(res, in); err != nil {
		return nil, err
	}
	if s.publisher != nil {
		for _, st := range res.Stations {
			series := model.LoadSeries{Timeline: in.timeline, KW: res.Load[st]}
			if err := s.publisher.PublishSchedule(res.Model, st, series); err != nil {
				s.log.Warnf("publish schedule %s: %v", st, err)
			}
		}
	}
	return res, nil
}

// bill attaches per-station billing summaries under the scenario's tariff.
func (s *Service) bill(res *simulation.Result, in *inputs) error {
	sc := s.cfg.Scenario
	res.Billing = make(map[string]simulation.Billing, len(res.Stations))
	for _, st := range res.Stations {
		series := model.LoadSeries{Timeline: in.timeline, KW: res.Load[st]}
		var b simulation.Billing
		var err error
		switch sc.Model {
		case config.ModelVolumetric:
			var gridTariff model.TariffSeries
			if sc.Volumetric.TariffFile != "" {
				gridTariff, err = dataset.LoadTariffSeries(sc.Volumetric.TariffFile, in.timeline)
				if err != nil {
					return err
				}
			} else {
				gridTariff = model.NewTimeOfUseTariff(in.timeline,
					sc.Volumetric.OffPeakPerKWh, sc.Volumetric.PeakPerKWh,
					sc.Volumetric.PeakStartHour, sc.Volumetric.PeakEndHour)
			}
			b, err = simulation.VolumetricBill(series, gridTariff, in.prices, sc.DynamicPrices)
		case config.ModelSegmented:
			bands := model.NewConstantBandLimits(in.timeline, sc.Segmented.Threshold1KW, sc.Segmented.Threshold2KW)
			b, err = simulation.SegmentedBill(series, bands, sc.Segmented.LowPerKWh, sc.Segmented.MediumPerKWh, sc.Segmented.HighPerKWh, in.prices, sc.DynamicPrices)
		case config.ModelCapacity:
			b, err = simulation.CapacityBill(series, sc.Capacity.AnnualPerKW, in.prices, sc.DynamicPrices)
		case config.ModelSubscription:
			b, err = simulation.SubscriptionBill(series, sc.Subscription.SubscribedKW, sc.Subscription.ExceedPerKWh, in.prices, sc.DynamicPrices)
		default:
			// Uncontrolled charging has no tariff of its own; report the
			// day-ahead energy cost when prices are available.
			if sc.DynamicPrices {
				var energy float64
				energy, err = simulation.EnergyCost(series, in.prices)
				b = simulation.Billing{EnergyCostEUR: energy, TotalCostEUR: energy}
			}
		}
		if err != nil {
			return fmt.Errorf("billing %s: %w", st, err)
		}
		res.Billing[st] = b
	}
	return nil
}

// PrepareCapacity solves the full-horizon capacity preparation problem and
// returns per-station monthly peaks.
func (s *Service) PrepareCapacity(ctx context.Context) (map[string]map[string]float64, error) {
	in, err := s.loadInputs()
	if err != nil {
		return nil, err
	}
	prep := tariff.CapacityPreparation{
		AnnualPerKW:   s.cfg.Scenario.Capacity.AnnualPerKW,
		DayAhead:      in.prices,
		DynamicPrices: s.cfg.Scenario.DynamicPrices,
	}
	out := make(map[string]map[string]float64)
	for _, st := range model.Stations(in.sessions) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		peaks, err := prep.MonthlyPeaks(model.FilterStation(in.sessions, st), in.timeline)
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", st, err)
		}
		named := make(map[string]float64, len(peaks))
		for k, v := range peaks {
			named[k.String()] = v
		}
		out[st] = named
		s.log.Infof("station %s: %d monthly peaks prepared", st, len(named))
	}
	return out, nil
}

// Export writes the result to the configured output directory in every
// configured format.
func (s *Service) Export(res *simulation.Result) error {
	out := s.cfg.Scenario.Output
	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return err
	}
	for _, format := range out.Formats {
		path := filepath.Join(out.Dir, "schedule."+format)
		if err := s.exportOne(res, format, path); err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}
		s.log.Infof("wrote %s", path)
	}
	return nil
}

func (s *Service) exportOne(res *simulation.Result, format, path string) error {
	switch format {
	case "xlsx":
		return export.WriteWorkbook(path, res)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	switch format {
	case "csv":
		return export.WriteScheduleCSV(f, res)
	case "json":
		return export.WriteScheduleJSON(f, res)
	case "html":
		return export.WriteLoadChart(f, res)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
