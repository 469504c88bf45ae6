package tariff

import (
	"fmt"

	"github.com/kilianp07/gridtariff/core/lp"
	"github.com/kilianp07/gridtariff/core/model"
)

// CapacityRolling optimizes under a capacity tariff without foresight: the
// schedule is re-optimized at every timestep using only the sessions that
// have already arrived, so the model cannot anticipate future arrivals.
// A nonnegative extra-peak variable extends the contracted peak when the
// remaining demand cannot fit under it; once bought, the extra capacity
// stays contracted for the rest of the horizon.
type CapacityRolling struct {
	// AnnualPerKW is the capacity tariff in € per kW of peak per year.
	AnnualPerKW   float64
	InitialPeakKW float64
	DayAhead      model.PriceSeries
	DynamicPrices bool
}

func (CapacityRolling) Name() string { return "capacity" }

type rollingSession struct {
	session model.Session
	lo, hi  int
	vars    []lp.Var
}

func (m CapacityRolling) Schedule(sessions []model.Session, tl model.Timeline) (model.LoadSeries, error) {
	for _, s := range sessions {
		if err := s.Validate(); err != nil {
			return model.LoadSeries{}, err
		}
	}

	out := model.NewLoadSeries(tl)
	dt := tl.StepHours()
	contracted := m.InitialPeakKW
	chargedKWh := make(map[string]float64)
	daCost := dayAheadCost(tl, m.DayAhead, m.DynamicPrices)

	for i := 0; i < tl.Len(); i++ {
		now := tl.At(i)

		var active []rollingSession
		horizonHi := i
		for _, s := range sessions {
			if !s.ActiveAt(now) || s.DemandKWh == 0 {
				continue
			}
			lo, hi := s.Window(tl)
			if lo < i {
				lo = i
			}
			if hi > horizonHi {
				horizonHi = hi
			}
			active = append(active, rollingSession{session: s, lo: lo, hi: hi})
		}
		if len(active) == 0 {
			continue
		}

		p := lp.New()
		for idx := range active {
			rs := &active[idx]
			remaining := rs.session.DemandKWh - chargedKWh[rs.session.ID]
			if remaining < 0 {
				remaining = 0
			}
			vars, err := sessionVars(p, rs.session, tl, rs.lo, rs.hi, remaining, daCost)
			if err != nil {
				return model.LoadSeries{}, err
			}
			rs.vars = vars
		}

		extra := p.AddVar(infUB, m.AnnualPerKW/12)
		for t := i; t < horizonHi; t++ {
			var terms []lp.Term
			for _, rs := range active {
				if t >= rs.lo && t < rs.hi && len(rs.vars) > 0 {
					terms = append(terms, lp.Term{Var: rs.vars[t-rs.lo], Coef: 1})
				}
			}
			if len(terms) == 0 {
				continue
			}
			terms = append(terms, lp.Term{Var: extra, Coef: -1})
			p.AddLe(contracted, terms...)
		}

		sol, err := p.Solve()
		if err != nil {
			return model.LoadSeries{}, fmt.Errorf("capacity rolling at %v: %w", now, err)
		}

		var total float64
		for _, rs := range active {
			if len(rs.vars) == 0 || rs.lo > i {
				continue
			}
			kw := sol.Value(rs.vars[i-rs.lo])
			total += kw
			chargedKWh[rs.session.ID] += kw * dt
		}
		out.KW[i] = total
		contracted += sol.Value(extra)
	}
	return out, nil
}
