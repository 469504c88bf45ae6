package export

import (
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/gridtariff/core/simulation"
)

// WriteWorkbook writes the result as an XLSX workbook with a Schedule
// sheet and, when billing data is present, a Billing sheet.
func WriteWorkbook(path string, res *simulation.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	const schedule = "Schedule"
	if err := f.SetSheetName("Sheet1", schedule); err != nil {
		return err
	}

	header := append([]string{"time"}, res.Stations...)
	header = append(header, "total_kw")
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(schedule, cell, name); err != nil {
			return err
		}
	}
	for i, t := range res.Timeline {
		row := i + 2
		values := make([]any, 0, len(header))
		values = append(values, t.Format(time.RFC3339))
		for _, st := range res.Stations {
			values = append(values, res.Load[st][i])
		}
		values = append(values, res.Total[i])
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(schedule, cell, v); err != nil {
				return err
			}
		}
	}

	if len(res.Billing) > 0 {
		const billing = "Billing"
		if _, err := f.NewSheet(billing); err != nil {
			return err
		}
		for col, name := range []string{"station", "energy_cost_eur", "grid_cost_eur", "total_cost_eur"} {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(billing, cell, name); err != nil {
				return err
			}
		}
		row := 2
		for _, st := range res.Stations {
			b := res.Billing[st]
			for col, v := range []any{st, b.EnergyCostEUR, b.GridCostEUR, b.TotalCostEUR} {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(billing, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	return f.SaveAs(path)
}
