package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/gridtariff/core/simulation"
)

func sampleResult() *simulation.Result {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	return &simulation.Result{
		Model:    "volumetric_tou",
		Timeline: []time.Time{start, start.Add(15 * time.Minute)},
		Stations: []string{"st1", "st2"},
		Load: map[string][]float64{
			"st1": {10, 0},
			"st2": {4, 4},
		},
		Total: []float64{14, 4},
		Billing: map[string]simulation.Billing{
			"st1": {GridCostEUR: 0.5, TotalCostEUR: 0.5},
			"st2": {GridCostEUR: 0.2, TotalCostEUR: 0.2},
		},
	}
}

func TestWriteScheduleCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScheduleCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want 3", len(records))
	}
	wantHeader := []string{"time", "st1", "st2", "total_kw"}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}
	if records[1][0] != "2025-01-06T00:00:00Z" {
		t.Errorf("time = %q", records[1][0])
	}
	if records[1][1] != "10" || records[1][3] != "14" {
		t.Errorf("row 1 = %v", records[1])
	}
}

func TestWriteScheduleJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScheduleJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var decoded simulation.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Model != "volumetric_tou" || len(decoded.Total) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Billing["st1"].GridCostEUR != 0.5 {
		t.Errorf("billing = %+v", decoded.Billing)
	}
}

func TestWritePeaksCSV(t *testing.T) {
	peaks := map[string]map[string]float64{
		"st2": {"2025-01": 5},
		"st1": {"2025-02": 2.5, "2025-01": 7},
	}
	var buf bytes.Buffer
	if err := WritePeaksCSV(&buf, peaks); err != nil {
		t.Fatalf("write peaks: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"station,month,peak_kw",
		"st1,2025-01,7",
		"st1,2025-02,2.5",
		"st2,2025-01,5",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %v", len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWritePeaksJSON(t *testing.T) {
	peaks := map[string]map[string]float64{"st1": {"2025-01": 7}}
	var buf bytes.Buffer
	if err := WritePeaksJSON(&buf, peaks); err != nil {
		t.Fatalf("write peaks: %v", err)
	}
	var decoded map[string]map[string]float64
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["st1"]["2025-01"] != 7 {
		t.Errorf("decoded = %v", decoded)
	}
}
