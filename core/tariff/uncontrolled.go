package tariff

import (
	"github.com/kilianp07/gridtariff/core/model"
)

// Uncontrolled assigns charging schedules without any optimization: each EV
// charges at its maximum power from arrival until its demand is fulfilled
// or until departure. It is the reference behavior the optimizing tariff
// models are compared against.
type Uncontrolled struct{}

func (Uncontrolled) Name() string { return "uncontrolled" }

// Schedule charges every session greedily. The last active step of a
// session receives reduced power when the demand is not a multiple of a
// full-power step. Demand that does not fit before departure stays unmet,
// matching real uncontrolled behavior.
func (Uncontrolled) Schedule(sessions []model.Session, tl model.Timeline) (model.LoadSeries, error) {
	out := model.NewLoadSeries(tl)
	dt := tl.StepHours()
	for _, s := range sessions {
		if err := s.Validate(); err != nil {
			return model.LoadSeries{}, err
		}
		lo, hi := s.Window(tl)
		if s.DemandKWh == 0 || hi <= lo {
			continue
		}
		requiredSteps := s.DemandKWh / (s.MaxPowerKW * dt)
		full := int(requiredSteps)
		for i := lo; i < hi && i < lo+full; i++ {
			out.KW[i] += s.MaxPowerKW
		}
		fraction := requiredSteps - float64(full)
		if fraction > 0 && lo+full < hi {
			out.KW[lo+full] += s.MaxPowerKW * fraction
		}
	}
	return out, nil
}
