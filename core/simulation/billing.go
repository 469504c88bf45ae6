package simulation

import (
	"github.com/kilianp07/gridtariff/core/model"
)

// Billing summarizes what a load profile costs under a tariff structure.
// EnergyCostEUR is the day-ahead energy cost, GridCostEUR the grid tariff
// component.
type Billing struct {
	EnergyCostEUR float64            `json:"energy_cost_eur"`
	GridCostEUR   float64            `json:"grid_cost_eur"`
	TotalCostEUR  float64            `json:"total_cost_eur"`
	PeaksKW       map[string]float64 `json:"peaks_kw,omitempty"`
}

// EnergyCost prices a load profile at day-ahead prices.
func EnergyCost(load model.LoadSeries, prices model.PriceSeries) (float64, error) {
	dt := load.Timeline.StepHours()
	var cost float64
	for i, kw := range load.KW {
		if kw == 0 {
			continue
		}
		perKWh, err := prices.PerKWhAt(load.Timeline.At(i))
		if err != nil {
			return 0, err
		}
		cost += kw * dt * perKWh
	}
	return cost, nil
}

// VolumetricBill prices a load profile under a volumetric grid tariff.
func VolumetricBill(load model.LoadSeries, gridTariff model.TariffSeries, prices model.PriceSeries, dynamicPrices bool) (Billing, error) {
	dt := load.Timeline.StepHours()
	var grid float64
	for i, kw := range load.KW {
		grid += kw * dt * gridTariff.At(i)
	}
	b := Billing{GridCostEUR: grid}
	if dynamicPrices {
		energy, err := EnergyCost(load, prices)
		if err != nil {
			return Billing{}, err
		}
		b.EnergyCostEUR = energy
	}
	b.TotalCostEUR = b.GridCostEUR + b.EnergyCostEUR
	return b, nil
}

// SegmentedBill prices a load profile under a segmented volumetric tariff:
// each step's power is split across the bands in price order.
func SegmentedBill(load model.LoadSeries, bands model.BandLimits, lowPerKWh, mediumPerKWh, highPerKWh float64, prices model.PriceSeries, dynamicPrices bool) (Billing, error) {
	dt := load.Timeline.StepHours()
	var grid float64
	for i, kw := range load.KW {
		b1 := min(kw, bands.Threshold1[i])
		b2 := min(kw-b1, bands.Threshold2[i])
		b3 := kw - b1 - b2
		grid += (b1*lowPerKWh + b2*mediumPerKWh + b3*highPerKWh) * dt
	}
	b := Billing{GridCostEUR: grid}
	if dynamicPrices {
		energy, err := EnergyCost(load, prices)
		if err != nil {
			return Billing{}, err
		}
		b.EnergyCostEUR = energy
	}
	b.TotalCostEUR = b.GridCostEUR + b.EnergyCostEUR
	return b, nil
}

// CapacityBill prices a load profile under a capacity tariff: one twelfth
// of the annual tariff per kW of monthly peak.
func CapacityBill(load model.LoadSeries, annualPerKW float64, prices model.PriceSeries, dynamicPrices bool) (Billing, error) {
	peaks := load.MonthlyPeaksKW()
	var grid float64
	named := make(map[string]float64, len(peaks))
	for k, peak := range peaks {
		grid += peak * annualPerKW / 12
		named[k.String()] = peak
	}
	b := Billing{GridCostEUR: grid, PeaksKW: named}
	if dynamicPrices {
		energy, err := EnergyCost(load, prices)
		if err != nil {
			return Billing{}, err
		}
		b.EnergyCostEUR = energy
	}
	b.TotalCostEUR = b.GridCostEUR + b.EnergyCostEUR
	return b, nil
}

// SubscriptionBill prices a load profile under a capacity subscription:
// energy above the subscribed power pays the exceedance fee.
func SubscriptionBill(load model.LoadSeries, subscribedKW, exceedPerKWh float64, prices model.PriceSeries, dynamicPrices bool) (Billing, error) {
	dt := load.Timeline.StepHours()
	var grid float64
	for _, kw := range load.KW {
		if kw > subscribedKW {
			grid += (kw - subscribedKW) * dt * exceedPerKWh
		}
	}
	b := Billing{GridCostEUR: grid}
	if dynamicPrices {
		energy, err := EnergyCost(load, prices)
		if err != nil {
			return Billing{}, err
		}
		b.EnergyCostEUR = energy
	}
	b.TotalCostEUR = b.GridCostEUR + b.EnergyCostEUR
	return b, nil
}
