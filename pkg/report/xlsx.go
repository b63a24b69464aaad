package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rrolph575/costmodel-substation/pkg/analytics"
	"github.com/rrolph575/costmodel-substation/pkg/cost"
)

// Sheet names of the workbook.
const (
	SheetCosts      = "Costs"
	SheetItems      = "Items"
	SheetValidation = "Validation"
)

// WriteXLSX writes a workbook with the cost table, the estimate's line items
// if r is not nil, and a sheet comparing totals against validation figures
// if cmp is not nil.
func WriteXLSX(w io.Writer, r *cost.Report, t *Table, cmp *analytics.Comparison) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetCosts); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	head := header(t)
	row := make([]interface{}, len(head))
	for i, h := range head {
		row[i] = h
	}
	if err := f.SetSheetRow(SheetCosts, "A1", &row); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetCosts, 1, 1, bold); err != nil {
		return err
	}
	for i, row := range t.Rows {
		rec := []interface{}{int(row.Voltage), string(row.Bus)}
		for _, v := range row.Values {
			rec = append(rec, v)
		}
		rec = append(rec, row.Total())
		if err := setRow(f, SheetCosts, i+2, rec); err != nil {
			return err
		}
	}
	if err := f.SetCellValue(SheetCosts, fmt.Sprintf("A%d", len(t.Rows)+3), "unit: "+t.Unit); err != nil {
		return err
	}

	if r != nil {
		if _, err := f.NewSheet(SheetItems); err != nil {
			return err
		}
		head := []interface{}{"kv", "bus_type", "cost_type", "cost_cat", "cost"}
		if err := f.SetSheetRow(SheetItems, "A1", &head); err != nil {
			return err
		}
		if err := f.SetRowStyle(SheetItems, 1, 1, bold); err != nil {
			return err
		}
		for i, it := range r.Items {
			rec := []interface{}{int(it.Voltage), string(it.Bus), it.Category, it.Subcategory, it.Amount}
			if err := setRow(f, SheetItems, i+2, rec); err != nil {
				return err
			}
		}
		if err := f.SetCellValue(SheetItems, fmt.Sprintf("A%d", len(r.Items)+3),
			fmt.Sprintf("run %s, multiplier %.5f, USD%d", r.RunID, r.Multiplier, r.CurrencyYear)); err != nil {
			return err
		}
	}

	if cmp != nil {
		if _, err := f.NewSheet(SheetValidation); err != nil {
			return err
		}
		head := []interface{}{"kv", "bus_type", "estimate_musd", "validation_musd", "difference_musd", "relative_deviation"}
		if err := f.SetSheetRow(SheetValidation, "A1", &head); err != nil {
			return err
		}
		if err := f.SetRowStyle(SheetValidation, 1, 1, bold); err != nil {
			return err
		}
		for i, d := range cmp.Deviations {
			rec := []interface{}{int(d.Voltage), string(d.Bus), d.EstimateM}
			if d.HasValidation {
				rec = append(rec, d.ValidationM, d.DifferenceM, d.Relative)
			}
			if err := setRow(f, SheetValidation, i+2, rec); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
