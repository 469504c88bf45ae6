// Package dataset reads the study's tabular input files: charging
// sessions, day-ahead prices and household consumption profiles. All files
// are CSV with a header row and RFC 3339 timestamps.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/gridtariff/core/model"
)

// Session file columns.
var sessionHeader = []string{"session_id", "station_id", "arrival", "departure", "max_power_kw", "demand_kwh"}

// LoadSessions reads charging sessions from path. Rows without a session
// ID are assigned a fresh UUID. Departures further than the connection cap
// from arrival are truncated, and every record is validated.
func LoadSessions(path string) ([]model.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sessions, err := ReadSessions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sessions, nil
}

// ReadSessions parses session records from r.
func ReadSessions(r io.Reader) ([]model.Session, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header, sessionHeader); err != nil {
		return nil, err
	}

	var sessions []model.Session
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		s := model.Session{ID: rec[0], StationID: rec[1]}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.Arrival, err = time.Parse(time.RFC3339, rec[2]); err != nil {
			return nil, fmt.Errorf("line %d: arrival: %w", line, err)
		}
		if s.Departure, err = time.Parse(time.RFC3339, rec[3]); err != nil {
			return nil, fmt.Errorf("line %d: departure: %w", line, err)
		}
		if s.MaxPowerKW, err = strconv.ParseFloat(rec[4], 64); err != nil {
			return nil, fmt.Errorf("line %d: max_power_kw: %w", line, err)
		}
		if s.DemandKWh, err = strconv.ParseFloat(rec[5], 64); err != nil {
			return nil, fmt.Errorf("line %d: demand_kwh: %w", line, err)
		}
		s = s.CapDeparture()
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// LoadPrices reads hourly day-ahead prices (€/MWh) from path.
func LoadPrices(path string) (model.PriceSeries, error) {
	points, err := loadTimeValueCSV(path, "price_eur_mwh")
	if err != nil {
		return model.PriceSeries{}, err
	}
	return model.NewPriceSeries(points), nil
}

// LoadHouseholdProfile reads a household load profile (kW) from path and
// aligns it to the timeline. Steps missing from the file are an error.
func LoadHouseholdProfile(path string, tl model.Timeline) (model.LoadSeries, error) {
	points, err := loadTimeValueCSV(path, "load_kw")
	if err != nil {
		return model.LoadSeries{}, err
	}
	return alignSeries(path, points, tl)
}

// LoadTariffSeries reads a volumetric grid tariff (€/kWh) from path and
// aligns it to the timeline.
func LoadTariffSeries(path string, tl model.Timeline) (model.TariffSeries, error) {
	points, err := loadTimeValueCSV(path, "tariff_eur_kwh")
	if err != nil {
		return model.TariffSeries{}, err
	}
	aligned, err := alignSeries(path, points, tl)
	if err != nil {
		return model.TariffSeries{}, err
	}
	return model.NewTariffSeries(tl, aligned.KW)
}

func alignSeries(path string, points map[time.Time]float64, tl model.Timeline) (model.LoadSeries, error) {
	out := model.NewLoadSeries(tl)
	for i := 0; i < tl.Len(); i++ {
		v, ok := points[tl.At(i)]
		if !ok {
			return model.LoadSeries{}, fmt.Errorf("%s: no value for timestep %v", path, tl.At(i))
		}
		out.KW[i] = v
	}
	return out, nil
}

func loadTimeValueCSV(path, valueColumn string) (map[time.Time]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	if err := checkHeader(header, []string{"time", valueColumn}); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	points := make(map[time.Time]float64)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, line, err)
		}
		t, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: time: %w", path, line, err)
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %s: %w", path, line, valueColumn, err)
		}
		points[t] = v
	}
	return points, nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("expected columns %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("expected columns %v, got %v", want, got)
		}
	}
	return nil
}
