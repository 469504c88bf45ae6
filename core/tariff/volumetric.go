package tariff

import (
	"fmt"

	"github.com/kilianp07/gridtariff/core/lp"
	"github.com/kilianp07/gridtariff/core/model"
)

// VolumetricTOU optimizes each session independently against a volumetric
// time-of-use grid tariff (€/kWh per timestep), optionally plus dynamic
// retail prices. Sessions do not interact under a purely volumetric
// tariff, so the model solves one small LP per session.
type VolumetricTOU struct {
	GridTariff    model.TariffSeries
	DayAhead      model.PriceSeries
	DynamicPrices bool
}

func (VolumetricTOU) Name() string { return "volumetric_tou" }

func (m VolumetricTOU) Schedule(sessions []model.Session, tl model.Timeline) (model.LoadSeries, error) {
	out := model.NewLoadSeries(tl)
	dt := tl.StepHours()
	daCost := dayAheadCost(tl, m.DayAhead, m.DynamicPrices)
	energyCost := func(step int) (float64, error) {
		da, err := daCost(step)
		if err != nil {
			return 0, err
		}
		return m.GridTariff.At(step)*dt + da, nil
	}

	for _, s := range sessions {
		if err := s.Validate(); err != nil {
			return model.LoadSeries{}, err
		}
		if s.DemandKWh == 0 {
			continue
		}
		lo, hi := s.Window(tl)

		p := lp.New()
		vars, err := sessionVars(p, s, tl, lo, hi, s.DemandKWh, energyCost)
		if err != nil {
			return model.LoadSeries{}, err
		}
		sol, err := p.Solve()
		if err != nil {
			return model.LoadSeries{}, fmt.Errorf("session %s: %w", s.ID, err)
		}
		for j, v := range vars {
			out.KW[lo+j] += round1(sol.Value(v))
		}
	}
	return out, nil
}
