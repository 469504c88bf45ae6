package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/gridtariff/core/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadSessions(t *testing.T) {
	path := writeFile(t, "sessions.csv",
		"session_id,station_id,arrival,departure,max_power_kw,demand_kwh\n"+
			"s1,st1,2025-01-06T08:00:00Z,2025-01-06T12:00:00Z,11,20\n"+
			",st2,2025-01-06T09:00:00Z,2025-01-08T09:00:00Z,22,30\n")

	sessions, err := LoadSessions(path)
	if err != nil {
		t.Fatalf("load sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != "s1" || sessions[0].MaxPowerKW != 11 || sessions[0].DemandKWh != 20 {
		t.Errorf("session 0 = %+v", sessions[0])
	}
	// A blank ID is replaced with a generated one.
	if sessions[1].ID == "" {
		t.Error("expected generated session ID")
	}
	// A two-day connection is truncated to the cap.
	if got := sessions[1].Departure.Sub(sessions[1].Arrival); got != model.MaxConnectionTime {
		t.Errorf("capped duration = %v, want %v", got, model.MaxConnectionTime)
	}
}

func TestLoadSessionsErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantSub string
	}{
		{
			name:    "wrong header",
			content: "id,station\n",
			wantSub: "expected columns",
		},
		{
			name: "bad arrival",
			content: "session_id,station_id,arrival,departure,max_power_kw,demand_kwh\n" +
				"s1,st1,yesterday,2025-01-06T12:00:00Z,11,20\n",
			wantSub: "line 2: arrival",
		},
		{
			name: "bad power",
			content: "session_id,station_id,arrival,departure,max_power_kw,demand_kwh\n" +
				"s1,st1,2025-01-06T08:00:00Z,2025-01-06T12:00:00Z,eleven,20\n",
			wantSub: "line 2: max_power_kw",
		},
		{
			name: "invalid record",
			content: "session_id,station_id,arrival,departure,max_power_kw,demand_kwh\n" +
				"s1,st1,2025-01-06T12:00:00Z,2025-01-06T08:00:00Z,11,20\n",
			wantSub: "line 2",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadSessions(strings.NewReader(tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error = %v, want substring %q", err, tc.wantSub)
			}
		})
	}
}

func TestLoadPrices(t *testing.T) {
	path := writeFile(t, "prices.csv",
		"time,price_eur_mwh\n"+
			"2025-01-06T00:00:00Z,120.5\n"+
			"2025-01-06T01:00:00Z,80\n")

	prices, err := LoadPrices(path)
	if err != nil {
		t.Fatalf("load prices: %v", err)
	}
	if prices.Len() != 2 {
		t.Fatalf("got %d price points, want 2", prices.Len())
	}
	p, err := prices.At(time.Date(2025, 1, 6, 0, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("at: %v", err)
	}
	if p != 120.5 {
		t.Errorf("price = %v, want 120.5", p)
	}
}

func TestLoadHouseholdProfile(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	tl, err := model.NewTimeline(start, start.Add(time.Hour), model.DefaultStep)
	if err != nil {
		t.Fatalf("new timeline: %v", err)
	}

	path := writeFile(t, "household.csv",
		"time,load_kw\n"+
			"2025-01-06T00:00:00Z,0.4\n"+
			"2025-01-06T00:15:00Z,0.5\n"+
			"2025-01-06T00:30:00Z,0.6\n"+
			"2025-01-06T00:45:00Z,0.7\n")

	profile, err := LoadHouseholdProfile(path, tl)
	if err != nil {
		t.Fatalf("load household: %v", err)
	}
	if profile.KW[0] != 0.4 || profile.KW[3] != 0.7 {
		t.Errorf("profile = %v", profile.KW)
	}
}

func TestLoadHouseholdProfileMissingStep(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	tl, err := model.NewTimeline(start, start.Add(time.Hour), model.DefaultStep)
	if err != nil {
		t.Fatalf("new timeline: %v", err)
	}

	path := writeFile(t, "household.csv",
		"time,load_kw\n"+
			"2025-01-06T00:00:00Z,0.4\n")

	_, err = LoadHouseholdProfile(path, tl)
	if err == nil || !strings.Contains(err.Error(), "no value for timestep") {
		t.Fatalf("error = %v, want missing timestep", err)
	}
}

func TestLoadTariffSeries(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	tl, err := model.NewTimeline(start, start.Add(30*time.Minute), model.DefaultStep)
	if err != nil {
		t.Fatalf("new timeline: %v", err)
	}

	path := writeFile(t, "tariff.csv",
		"time,tariff_eur_kwh\n"+
			"2025-01-06T00:00:00Z,0.05\n"+
			"2025-01-06T00:15:00Z,0.2\n")

	ts, err := LoadTariffSeries(path, tl)
	if err != nil {
		t.Fatalf("load tariff: %v", err)
	}
	if ts.At(0) != 0.05 || ts.At(1) != 0.2 {
		t.Errorf("tariff = %v", ts.PerKWh)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadSessions(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected error for missing sessions file")
	}
	if _, err := LoadPrices(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected error for missing prices file")
	}
}
