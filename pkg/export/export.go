// Package export writes simulation results to the formats used by the
// study: CSV and JSON tables, an XLSX workbook and HTML figures.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/kilianp07/gridtariff/core/simulation"
)

// WriteScheduleJSON writes the full result to w in JSON format.
func WriteScheduleJSON(w io.Writer, res *simulation.Result) error {
	enc := json.NewEncoder(w)
	return enc.Encode(res)
}

// WriteScheduleCSV writes the schedule to w with one row per timestep and
// one column per station plus the total.
func WriteScheduleCSV(w io.Writer, res *simulation.Result) error {
	cw := csv.NewWriter(w)
	header := append([]string{"time"}, res.Stations...)
	header = append(header, "total_kw")
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, t := range res.Timeline {
		rec := make([]string, 0, len(header))
		rec = append(rec, t.Format(time.RFC3339))
		for _, st := range res.Stations {
			rec = append(rec, fmtFloat(res.Load[st][i]))
		}
		rec = append(rec, fmtFloat(res.Total[i]))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePeaksCSV writes prepared monthly peaks, one row per station and
// month.
func WritePeaksCSV(w io.Writer, peaks map[string]map[string]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"station", "month", "peak_kw"}); err != nil {
		return err
	}
	for _, st := range sortedKeys(peaks) {
		months := peaks[st]
		for _, m := range sortedKeys(months) {
			if err := cw.Write([]string{st, m, fmtFloat(months[m])}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePeaksJSON writes prepared monthly peaks to w in JSON format.
func WritePeaksJSON(w io.Writer, peaks map[string]map[string]float64) error {
	enc := json.NewEncoder(w)
	return enc.Encode(peaks)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
