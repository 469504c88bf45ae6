package tariff

import (
	"fmt"

	"github.com/kilianp07/gridtariff/core/lp"
	"github.com/kilianp07/gridtariff/core/model"
)

// CapacityPreparation solves the full-horizon capacity-tariff problem with
// perfect foresight: one peak-power variable per calendar month, every
// step's total power bounded by its month's peak, and the grid cost equal
// to the sum of monthly peak fees. Its output seeds the contracted peaks
// used by the rolling capacity model.
type CapacityPreparation struct {
	// AnnualPerKW is the capacity tariff in € per kW of peak per year;
	// each month is billed one twelfth of it.
	AnnualPerKW   float64
	DayAhead      model.PriceSeries
	DynamicPrices bool
}

// MonthlyPeaks returns the cost-optimal peak power per calendar month of
// the horizon.
func (m CapacityPreparation) MonthlyPeaks(sessions []model.Session, tl model.Timeline) (map[model.MonthKey]float64, error) {
	daCost := dayAheadCost(tl, m.DayAhead, m.DynamicPrices)

	p := lp.New()
	active := make([][]lp.Term, tl.Len())
	for _, s := range sessions {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if s.DemandKWh == 0 {
			continue
		}
		lo, hi := s.Window(tl)
		vars, err := sessionVars(p, s, tl, lo, hi, s.DemandKWh, daCost)
		if err != nil {
			return nil, err
		}
		for j, v := range vars {
			active[lo+j] = append(active[lo+j], lp.Term{Var: v, Coef: 1})
		}
	}

	buckets := tl.MonthBuckets()
	peakVars := make(map[model.MonthKey]lp.Var, len(buckets))
	for k, idx := range buckets {
		peak := p.AddVar(infUB, m.AnnualPerKW/12)
		peakVars[k] = peak
		for _, i := range idx {
			if len(active[i]) == 0 {
				continue
			}
			terms := make([]lp.Term, 0, len(active[i])+1)
			terms = append(terms, active[i]...)
			terms = append(terms, lp.Term{Var: peak, Coef: -1})
			p.AddLe(0, terms...)
		}
	}

	peaks := make(map[model.MonthKey]float64, len(buckets))
	if len(sessions) == 0 {
		for k := range buckets {
			peaks[k] = 0
		}
		return peaks, nil
	}
	sol, err := p.Solve()
	if err != nil {
		return nil, fmt.Errorf("capacity preparation: %w", err)
	}
	for k, v := range peakVars {
		peaks[k] = sol.Value(v)
	}
	return peaks, nil
}
