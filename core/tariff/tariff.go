// Package tariff implements one charging-schedule model per grid tariff
// structure evaluated in the study. Every optimizing model minimizes the
// tariff's grid cost, optionally plus day-ahead energy cost, and carries a
// small tie-break term that favors charging earlier in the session.
package tariff

import (
	"fmt"
	"math"

	"github.com/kilianp07/gridtariff/core/lp"
	"github.com/kilianp07/gridtariff/core/model"
)

// priorityScale divides the early-charging tie-break term so that it never
// outweighs a real cost difference. It must stay small against tariff
// coefficients but keep the per-step differences above the simplex
// tolerance, or the solver treats tied steps as interchangeable.
const priorityScale = 1e6

// infUB marks a variable without an upper bound.
var infUB = math.Inf(1)

// Model computes the charging schedule of one station's sessions over the
// simulation horizon.
type Model interface {
	// Name identifies the tariff structure in logs, metrics and exports.
	Name() string
	// Schedule returns the station's total EV load per timestep in kW.
	Schedule(sessions []model.Session, tl model.Timeline) (model.LoadSeries, error)
}

// sessionVars declares one charging-power variable per timestep of the
// session window, bounded by the session power limit, and ties them to the
// remaining energy demand. The objective coefficient of the variable at
// window position i is energyCost(i) + i/priorityScale.
func sessionVars(p *lp.Problem, s model.Session, tl model.Timeline, lo, hi int, demandKWh float64, energyCost func(step int) (float64, error)) ([]lp.Var, error) {
	if hi <= lo {
		if demandKWh > 0 {
			return nil, fmt.Errorf("session %s: %w", s.ID, lp.ErrInfeasible)
		}
		return nil, nil
	}
	dt := tl.StepHours()
	vars := make([]lp.Var, 0, hi-lo)
	terms := make([]lp.Term, 0, hi-lo)
	for i := lo; i < hi; i++ {
		cost, err := energyCost(i)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", s.ID, err)
		}
		v := p.AddVar(s.MaxPowerKW, cost+float64(i-lo)/priorityScale)
		vars = append(vars, v)
		terms = append(terms, lp.Term{Var: v, Coef: dt})
	}
	p.AddEq(demandKWh, terms...)
	return vars, nil
}

// dayAheadCost returns the per-step energy cost coefficient (€ per kW of
// charging power at that step) when dynamic retail prices are enabled, or a
// zero cost function otherwise.
func dayAheadCost(tl model.Timeline, prices model.PriceSeries, enabled bool) func(step int) (float64, error) {
	if !enabled {
		return func(int) (float64, error) { return 0, nil }
	}
	dt := tl.StepHours()
	return func(step int) (float64, error) {
		perKWh, err := prices.PerKWhAt(tl.At(step))
		if err != nil {
			return 0, err
		}
		return perKWh * dt, nil
	}
}

// round1 rounds a power value to one decimal, the resolution used in the
// exported schedules.
func round1(kw float64) float64 {
	return math.Round(kw*10) / 10
}
