package export

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteLoadChart(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLoadChart(&buf, sampleResult()); err != nil {
		t.Fatalf("write chart: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "EV charging load: volumetric_tou") {
		t.Error("title missing from chart")
	}
	for _, series := range []string{"st1", "st2", "total"} {
		if !strings.Contains(html, series) {
			t.Errorf("series %q missing from chart", series)
		}
	}
}
