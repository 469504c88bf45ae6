package export

import (
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/gridtariff/core/simulation"
)

// WriteLoadChart renders the simulated load curves as an HTML line chart,
// one series per station plus the aggregate.
func WriteLoadChart(w io.Writer, res *simulation.Result) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "EV charging load: " + res.Model}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Power (kW)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	)

	xs := make([]string, len(res.Timeline))
	for i, t := range res.Timeline {
		xs[i] = t.Format(time.RFC3339)
	}
	line.SetXAxis(xs)

	for _, st := range res.Stations {
		data := make([]opts.LineData, len(res.Load[st]))
		for i, kw := range res.Load[st] {
			data[i] = opts.LineData{Value: kw}
		}
		line.AddSeries(st, data)
	}
	total := make([]opts.LineData, len(res.Total))
	for i, kw := range res.Total {
		total[i] = opts.LineData{Value: kw}
	}
	line.AddSeries("total", total)

	return line.Render(w)
}
