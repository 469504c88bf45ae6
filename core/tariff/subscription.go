package tariff

import (
	"fmt"

	"github.com/kilianp07/gridtariff/core/lp"
	"github.com/kilianp07/gridtariff/core/model"
)

// CapacitySubscription optimizes a station's sessions under a
// capacity-subscription tariff: power up to the subscribed capacity is
// free of grid charges, while every kWh drawn above it pays an exceedance
// fee.
type CapacitySubscription struct {
	SubscribedKW  float64
	ExceedPerKWh  float64
	DayAhead      model.PriceSeries
	DynamicPrices bool
}

func (CapacitySubscription) Name() string { return "capacity_subscription" }

func (m CapacitySubscription) Schedule(sessions []model.Session, tl model.Timeline) (model.LoadSeries, error) {
	out := model.NewLoadSeries(tl)
	dt := tl.StepHours()
	daCost := dayAheadCost(tl, m.DayAhead, m.DynamicPrices)

	p := lp.New()
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

	// Per step, total power beyond the subscribed capacity is carried by a
	// nonnegative exceedance variable priced at the fee.
	exceed := make([]lp.Var, tl.Len())
	hasExceed := make([]bool, tl.Len())
	for i := 0; i < tl.Len(); i++ {
		if len(active[i]) == 0 {
			continue
		}
		e := p.AddVar(infUB, m.ExceedPerKWh*dt)
		exceed[i] = e
		hasExceed[i] = true
		terms := make([]lp.Term, 0, len(active[i])+1)
		terms = append(terms, active[i]...)
		terms = append(terms, lp.Term{Var: e, Coef: -1})
		p.AddLe(m.SubscribedKW, terms...)
	}

	if p.NumVars() == 0 {
		return out, nil
	}
	sol, err := p.Solve()
	if err != nil {
		return model.LoadSeries{}, fmt.Errorf("capacity subscription: %w", err)
	}
	for i := 0; i < tl.Len(); i++ {
		var total float64
		for _, t := range active[i] {
			total += sol.Value(t.Var)
		}
		out.KW[i] = round1(total)
	}
	return out, nil
}
