package model

import "fmt"

// LoadSeries is a power profile in kW aligned to a Timeline, one value per
// timestep. It is the common result shape of every tariff model and the
// shape of household baseline profiles.
type LoadSeries struct {
	Timeline Timeline
	KW       []float64
}

// NewLoadSeries returns an all-zero profile over the timeline.
func NewLoadSeries(tl Timeline) LoadSeries {
	return LoadSeries{Timeline: tl, KW: make([]float64, tl.Len())}
}

// EnergyKWh integrates the profile over the horizon.
func (ls LoadSeries) EnergyKWh() float64 {
	dt := ls.Timeline.StepHours()
	var sum float64
	for _, p := range ls.KW {
		sum += p * dt
	}
	return sum
}

// PeakKW returns the maximum power of the profile.
func (ls LoadSeries) PeakKW() float64 {
	var peak float64
	for _, p := range ls.KW {
		if p > peak {
			peak = p
		}
	}
	return peak
}

// MonthlyPeaksKW returns the maximum power per calendar month.
func (ls LoadSeries) MonthlyPeaksKW() map[MonthKey]float64 {
	peaks := make(map[MonthKey]float64)
	for k, idx := range ls.Timeline.MonthBuckets() {
		var peak float64
		for _, i := range idx {
			if ls.KW[i] > peak {
				peak = ls.KW[i]
			}
		}
		peaks[k] = peak
	}
	return peaks
}

// Add accumulates another profile into this one. Both must share the same
// timeline length.
func (ls LoadSeries) Add(other LoadSeries) (LoadSeries, error) {
	if len(ls.KW) != len(other.KW) {
		return LoadSeries{}, fmt.Errorf("load series length mismatch: %d vs %d", len(ls.KW), len(other.KW))
	}
	out := LoadSeries{Timeline: ls.Timeline, KW: make([]float64, len(ls.KW))}
	for i := range ls.KW {
		out.KW[i] = ls.KW[i] + other.KW[i]
	}
	return out, nil
}
