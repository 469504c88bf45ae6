package model

import (
	"fmt"
	"time"
)

// PriceSeries holds day-ahead wholesale prices in €/MWh at hourly
// resolution. Lookups for sub-hourly timesteps resolve to the containing
// hour.
type PriceSeries struct {
	prices map[time.Time]float64
}

// NewPriceSeries builds a PriceSeries from hourly timestamps to €/MWh.
func NewPriceSeries(hourly map[time.Time]float64) PriceSeries {
	prices := make(map[time.Time]float64, len(hourly))
	for t, p := range hourly {
		prices[t.Truncate(time.Hour)] = p
	}
	return PriceSeries{prices: prices}
}

// At returns the day-ahead price (€/MWh) covering timestep t.
func (ps PriceSeries) At(t time.Time) (float64, error) {
	p, ok := ps.prices[t.Truncate(time.Hour)]
	if !ok {
		return 0, fmt.Errorf("no day-ahead price for %v", t)
	}
	return p, nil
}

// PerKWhAt returns the day-ahead price converted to €/kWh.
func (ps PriceSeries) PerKWhAt(t time.Time) (float64, error) {
	p, err := ps.At(t)
	if err != nil {
		return 0, err
	}
	return p / 1000, nil
}

// Len returns the number of hourly price points.
func (ps PriceSeries) Len() int { return len(ps.prices) }

// TariffSeries holds a volumetric grid tariff in €/kWh aligned to a
// Timeline.
type TariffSeries struct {
	Timeline Timeline
	PerKWh   []float64
}

// NewTariffSeries validates that values align with the timeline.
func NewTariffSeries(tl Timeline, perKWh []float64) (TariffSeries, error) {
	if len(perKWh) != tl.Len() {
		return TariffSeries{}, fmt.Errorf("tariff series length %d does not match timeline length %d", len(perKWh), tl.Len())
	}
	return TariffSeries{Timeline: tl, PerKWh: perKWh}, nil
}

// NewTimeOfUseTariff builds a two-level time-of-use tariff: peakPerKWh
// applies to steps whose local hour lies in [peakStartHour, peakEndHour),
// offPeakPerKWh elsewhere.
func NewTimeOfUseTariff(tl Timeline, offPeakPerKWh, peakPerKWh float64, peakStartHour, peakEndHour int) TariffSeries {
	values := make([]float64, tl.Len())
	for i := 0; i < tl.Len(); i++ {
		h := tl.At(i).Hour()
		if h >= peakStartHour && h < peakEndHour {
			values[i] = peakPerKWh
		} else {
			values[i] = offPeakPerKWh
		}
	}
	return TariffSeries{Timeline: tl, PerKWh: values}
}

// At returns the grid tariff (€/kWh) at step i.
func (ts TariffSeries) At(i int) float64 { return ts.PerKWh[i] }

// BandLimits carries the per-step power thresholds of the segmented
// volumetric tariff. Consumption up to Threshold1 is billed at the low
// rate, up to Threshold2 at the medium rate, anything above at the high
// rate.
type BandLimits struct {
	Timeline   Timeline
	Threshold1 []float64
	Threshold2 []float64
}

// NewConstantBandLimits builds band limits with the same thresholds at
// every step.
func NewConstantBandLimits(tl Timeline, threshold1, threshold2 float64) BandLimits {
	t1 := make([]float64, tl.Len())
	t2 := make([]float64, tl.Len())
	for i := range t1 {
		t1[i] = threshold1
		t2[i] = threshold2
	}
	return BandLimits{Timeline: tl, Threshold1: t1, Threshold2: t2}
}
