package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/gridtariff/core/model"
)

// Model names accepted in ScenarioConfig.Model.
const (
	ModelUncontrolled = "uncontrolled"
	ModelVolumetric   = "volumetric_tou"
	ModelSegmented    = "segmented_tou"
	ModelCapacity     = "capacity"
	ModelSubscription = "capacity_subscription"
)

// ScenarioConfig describes one simulation run: the datasets, the horizon
// and the tariff structure under evaluation.
type ScenarioConfig struct {
	// Dataset paths.
	SessionsFile  string `json:"sessions_file"`
	PricesFile    string `json:"prices_file"`
	HouseholdFile string `json:"household_file"`

	// Horizon, RFC 3339. End is exclusive.
	Start       string `json:"start"`
	End         string `json:"end"`
	StepMinutes int    `json:"step_minutes"`

	Model         string `json:"model"`
	DynamicPrices bool   `json:"dynamic_prices"`

	Volumetric   VolumetricConfig   `json:"volumetric"`
	Segmented    SegmentedConfig    `json:"segmented"`
	Capacity     CapacityConfig     `json:"capacity"`
	Subscription SubscriptionConfig `json:"subscription"`

	Output OutputConfig `json:"output"`
}

// VolumetricConfig parametrizes the volumetric time-of-use tariff. Either
// a tariff CSV aligned to the timeline or a two-level peak/off-peak
// definition.
type VolumetricConfig struct {
	TariffFile    string  `json:"tariff_file"`
	OffPeakPerKWh float64 `json:"offpeak_eur_kwh"`
	PeakPerKWh    float64 `json:"peak_eur_kwh"`
	PeakStartHour int     `json:"peak_start_hour"`
	PeakEndHour   int     `json:"peak_end_hour"`
}

// SegmentedConfig parametrizes the segmented volumetric tariff.
type SegmentedConfig struct {
	Threshold1KW float64 `json:"threshold1_kw"`
	Threshold2KW float64 `json:"threshold2_kw"`
	LowPerKWh    float64 `json:"low_eur_kwh"`
	MediumPerKWh float64 `json:"medium_eur_kwh"`
	HighPerKWh   float64 `json:"high_eur_kwh"`
}

// CapacityConfig parametrizes the capacity tariff models.
type CapacityConfig struct {
	AnnualPerKW   float64 `json:"annual_eur_kw"`
	InitialPeakKW float64 `json:"initial_peak_kw"`
}

// SubscriptionConfig parametrizes the capacity-subscription tariff.
type SubscriptionConfig struct {
	SubscribedKW float64 `json:"subscribed_kw"`
	ExceedPerKWh float64 `json:"exceedance_eur_kwh"`
}

// OutputConfig selects where and in which formats results are written.
// Supported formats: csv, json, xlsx, html.
type OutputConfig struct {
	Dir     string   `json:"dir"`
	Formats []string `json:"formats"`
}

// SetDefaults applies sane defaults.
func (c *ScenarioConfig) SetDefaults() {
	if c.StepMinutes == 0 {
		c.StepMinutes = 15
	}
	if c.Model == "" {
		c.Model = ModelUncontrolled
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "results"
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"csv"}
	}
}

// Validate checks mandatory fields.
func (c ScenarioConfig) Validate() error {
	if c.SessionsFile == "" {
		return fmt.Errorf("scenario: sessions_file is required")
	}
	if _, err := c.Horizon(); err != nil {
		return err
	}
	switch c.Model {
	case ModelUncontrolled, ModelVolumetric, ModelSegmented, ModelCapacity, ModelSubscription:
	default:
		return fmt.Errorf("scenario: unknown model %q", c.Model)
	}
	if c.DynamicPrices && c.PricesFile == "" {
		return fmt.Errorf("scenario: dynamic_prices requires prices_file")
	}
	for _, f := range c.Output.Formats {
		switch f {
		case "csv", "json", "xlsx", "html":
		default:
			return fmt.Errorf("scenario: unknown output format %q", f)
		}
	}
	return nil
}

// Horizon parses the simulation window.
func (c ScenarioConfig) Horizon() (model.Timeline, error) {
	start, err := time.Parse(time.RFC3339, c.Start)
	if err != nil {
		return model.Timeline{}, fmt.Errorf("scenario: start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, c.End)
	if err != nil {
		return model.Timeline{}, fmt.Errorf("scenario: end: %w", err)
	}
	return model.NewTimeline(start, end, time.Duration(c.StepMinutes)*time.Minute)
}
