package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/gridtariff/core/metrics"
)

func TestInfluxSinkRecordSchedulePoint(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	ts := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	pt := coremetrics.SchedulePoint{Station: "st1", Model: "capacity", Time: ts, PowerKW: 7.3333339}
	if err := sink.RecordSchedulePoint(pt); err != nil {
		t.Fatalf("record: %v", err)
	}

	p := write.NewPointWithMeasurement("charging_schedule").
		AddTag("station", "st1").
		AddTag("model", "capacity").
		AddField("power_kw", 7.333).
		SetTime(ts)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if strings.TrimSpace(body) != expected {
		t.Errorf("body = %q, want %q", strings.TrimSpace(body), expected)
	}
}

func TestInfluxSinkRecordSolve(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	ev := coremetrics.SolveEvent{Station: "st1", Model: "capacity", Sessions: 3, Steps: 96, Duration: 25 * time.Millisecond}
	if err := sink.RecordSolve(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	if !strings.HasPrefix(body, "tariff_solve,") {
		t.Errorf("unexpected measurement: %q", body)
	}
	for _, want := range []string{"station=st1", "model=capacity", "status=ok", "sessions=3i", "duration_ms=25"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	// Unreachable instance degrades to a NopSink.
	sink := NewInfluxSinkWithFallback("http://127.0.0.1:1", "", "", "")
	if _, ok := sink.(coremetrics.NopSink); !ok {
		t.Errorf("sink = %T, want NopSink", sink)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/health") {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"influxdb","status":"pass"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink = NewInfluxSinkWithFallback(srv.URL, "token", "org", "bucket")
	if _, ok := sink.(*InfluxSink); !ok {
		t.Errorf("sink = %T, want InfluxSink", sink)
	}
}
