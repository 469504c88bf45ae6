// Package simulation drives tariff models over the study datasets: it
// applies the configured model station by station, merges the schedules
// and derives the billing figures used in the paper.
package simulation

import (
	"context"
	"sort"
	"time"

	"github.com/kilianp07/gridtariff/core/logger"
	"github.com/kilianp07/gridtariff/core/metrics"
	"github.com/kilianp07/gridtariff/core/model"
	"github.com/kilianp07/gridtariff/core/tariff"
)

// Result is the outcome of one simulation run.
type Result struct {
	Model     string                       `json:"model"`
	Timeline  []time.Time                  `json:"timeline"`
	Stations  []string                     `json:"stations"`
	Load      map[string][]float64         `json:"load_kw"`
	Total     []float64                    `json:"total_kw"`
	Household []float64                    `json:"household_kw,omitempty"`
	Billing   map[string]Billing           `json:"billing,omitempty"`
	Peaks     map[string]map[string]float64 `json:"peaks_kw,omitempty"`
}

// Runner applies one tariff model to every charging station in the
// dataset.
type Runner struct {
	Model     tariff.Model
	Household *model.LoadSeries
	Log       logger.Logger
	Sink      metrics.MetricsSink
}

// Run schedules all sessions station by station and merges the results.
// The context is checked between stations so long batch runs can be
// interrupted.
func (r *Runner) Run(ctx context.Context, sessions []model.Session, tl model.Timeline) (*Result, error) {
	sink := r.Sink
	if sink == nil {
		sink = metrics.NopSink{}
	}

	stations := model.Stations(sessions)
	sort.Strings(stations)

	res := &Result{
		Model:    r.Model.Name(),
		Timeline: tl.Steps(),
		Stations: stations,
		Load:     make(map[string][]float64, len(stations)),
		Total:    make([]float64, tl.Len()),
	}

	for _, st := range stations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stationSessions := model.FilterStation(sessions, st)

		start := time.Now()
		series, err := r.Model.Schedule(stationSessions, tl)
		ev := metrics.SolveEvent{
			Station:  st,
			Model:    r.Model.Name(),
			Sessions: len(stationSessions),
			Steps:    tl.Len(),
			Duration: time.Since(start),
			Err:      err,
		}
		if serr := sink.RecordSolve(ev); serr != nil && r.Log != nil {
			r.Log.Warnf("record solve event: %v", serr)
		}
		if err != nil {
			return nil, err
		}
		if r.Log != nil {
			r.Log.Infof("scheduled station %s: %d sessions, %.1f kWh, peak %.1f kW",
				st, len(stationSessions), series.EnergyKWh(), series.PeakKW())
		}

		res.Load[st] = series.KW
		for i, kw := range series.KW {
			res.Total[i] += kw
		}
		for i, kw := range series.KW {
			pt := metrics.SchedulePoint{Station: st, Model: r.Model.Name(), Time: tl.At(i), PowerKW: kw}
			if serr := sink.RecordSchedulePoint(pt); serr != nil {
				if r.Log != nil {
					r.Log.Warnf("record schedule point: %v", serr)
				}
				break
			}
		}
	}

	if r.Household != nil {
		res.Household = r.Household.KW
		for i, kw := range r.Household.KW {
			res.Total[i] += kw
		}
	}

	res.Peaks = make(map[string]map[string]float64, len(stations))
	for _, st := range stations {
		series := model.LoadSeries{Timeline: tl, KW: res.Load[st]}
		peaks := make(map[string]float64)
		for k, v := range series.MonthlyPeaksKW() {
			peaks[k.String()] = v
		}
		res.Peaks[st] = peaks
	}
	return res, nil
}
