package tariff

import (
	"fmt"
	"math"

	"github.com/kilianp07/gridtariff/core/lp"
	"github.com/kilianp07/gridtariff/core/model"
)

// SegmentedTOU optimizes all of a station's sessions in a single LP under
// a segmented volumetric tariff: the station's total power at each step is
// decomposed into three price bands. Consumption up to the first threshold
// is billed at the low rate, up to the second at the medium rate and
// anything above at the high rate, so sessions interact through the shared
// band capacities.
type SegmentedTOU struct {
	Bands         model.BandLimits
	LowPerKWh     float64
	MediumPerKWh  float64
	HighPerKWh    float64
	DayAhead      model.PriceSeries
	DynamicPrices bool
}

func (SegmentedTOU) Name() string { return "segmented_tou" }

func (m SegmentedTOU) Schedule(sessions []model.Session, tl model.Timeline) (model.LoadSeries, error) {
	out := model.NewLoadSeries(tl)
	dt := tl.StepHours()
	daCost := dayAheadCost(tl, m.DayAhead, m.DynamicPrices)

	p := lp.New()

	// Session power variables, grouped per step so band constraints can
	// reference every session active at that step.
	active := make([][]lp.Term, tl.Len())
	for _, s := range sessions {
		if err := s.Validate(); err != nil {
			return model.LoadSeries{}, err
		}
		if s.DemandKWh == 0 {
			continue
		}
		lo, hi := s.Window(tl)
		vars, err := sessionVars(p, s, tl, lo, hi, s.DemandKWh, daCost)
		if err != nil {
			return model.LoadSeries{}, err
		}
		for j, v := range vars {
			active[lo+j] = append(active[lo+j], lp.Term{Var: v, Coef: 1})
		}
	}

	// Band decomposition per step: total session power equals the sum of
	// the three band powers, the first two capped by their thresholds.
	band := make([][3]lp.Var, tl.Len())
	for i := 0; i < tl.Len(); i++ {
		if len(active[i]) == 0 {
			continue
		}
		b1 := p.AddVar(m.Bands.Threshold1[i], m.LowPerKWh*dt)
		b2 := p.AddVar(m.Bands.Threshold2[i], m.MediumPerKWh*dt)
		b3 := p.AddVar(math.Inf(1), m.HighPerKWh*dt)
		band[i] = [3]lp.Var{b1, b2, b3}

		terms := make([]lp.Term, 0, len(active[i])+3)
		terms = append(terms, active[i]...)
		terms = append(terms,
			lp.Term{Var: b1, Coef: -1},
			lp.Term{Var: b2, Coef: -1},
			lp.Term{Var: b3, Coef: -1},
		)
		p.AddEq(0, terms...)
	}

	if p.NumVars() == 0 {
		return out, nil
	}
	sol, err := p.Solve()
	if err != nil {
		return model.LoadSeries{}, fmt.Errorf("segmented tou: %w", err)
	}
	for i := 0; i < tl.Len(); i++ {
		if len(active[i]) == 0 {
			continue
		}
		b := band[i]
		out.KW[i] = round1(sol.Value(b[0]) + sol.Value(b[1]) + sol.Value(b[2]))
	}
	return out, nil
}
