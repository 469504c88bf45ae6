package tariff

import (
	"math"
	"testing"
	"time"

	"github.com/kilianp07/gridtariff/core/model"
)

var testStart = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

// quarterTimeline builds a 15-minute timeline of the given length in hours
// starting at testStart.
func quarterTimeline(t *testing.T, hours int) model.Timeline {
	t.Helper()
	tl, err := model.NewTimeline(testStart, testStart.Add(time.Duration(hours)*time.Hour), model.DefaultStep)
	if err != nil {
		t.Fatalf("new timeline: %v", err)
	}
	return tl
}

// stepSession builds a session covering timeline steps [fromStep, toStep).
func stepSession(id string, fromStep, toStep int, maxKW, demandKWh float64) model.Session {
	return model.Session{
		ID:         id,
		StationID:  "st1",
		Arrival:    testStart.Add(time.Duration(fromStep) * model.DefaultStep),
		Departure:  testStart.Add(time.Duration(toStep) * model.DefaultStep),
		MaxPowerKW: maxKW,
		DemandKWh:  demandKWh,
	}
}

func assertSchedule(t *testing.T, got model.LoadSeries, want []float64) {
	t.Helper()
	if len(got.KW) != len(want) {
		t.Fatalf("schedule has %d steps, want %d", len(got.KW), len(want))
	}
	for i := range want {
		if math.Abs(got.KW[i]-want[i]) > 1e-6 {
			t.Errorf("step %d: %v kW, want %v kW (full schedule %v)", i, got.KW[i], want[i], got.KW)
		}
	}
}

func flatTariff(t *testing.T, tl model.Timeline, perKWh float64) model.TariffSeries {
	t.Helper()
	values := make([]float64, tl.Len())
	for i := range values {
		values[i] = perKWh
	}
	ts, err := model.NewTariffSeries(tl, values)
	if err != nil {
		t.Fatalf("new tariff series: %v", err)
	}
	return ts
}
