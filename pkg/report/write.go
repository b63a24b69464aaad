package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rrolph575/costmodel-substation/pkg/analytics"
	"github.com/rrolph575/costmodel-substation/pkg/cost"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(s), ".")); f {
	case FormatText, FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	case "txt", "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, csv, json or xlsx)", s)
}

// Write encodes the table to w. JSON and XLSX also carry the estimate's
// line items and the comparison; either may be nil.
func Write(w io.Writer, f Format, r *cost.Report, t *Table, cmp *analytics.Comparison) error {
	switch f {
	case FormatText:
		return WriteText(w, t)
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatJSON:
		return WriteJSON(w, r, t, cmp)
	case FormatXLSX:
		return WriteXLSX(w, r, t, cmp)
	}
	return fmt.Errorf("unknown output format %q", f)
}

func header(t *Table) []string {
	h := append([]string{"kv", "bus_type"}, t.Columns...)
	return append(h, "total")
}

// WriteText renders the table for a terminal.
func WriteText(w io.Writer, t *Table) error {
	prec := 0
	if t.Unit == UnitMillionsUSD {
		prec = 2
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		cells := []string{r.Voltage.String(), string(r.Bus)}
		for _, v := range r.Values {
			cells = append(cells, strconv.FormatFloat(v, 'f', prec, 64))
		}
		rows = append(rows, append(cells, strconv.FormatFloat(r.Total(), 'f', prec, 64)))
	}

	base := lipgloss.NewStyle().Padding(0, 1)
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(header(t)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return base.Bold(true)
			case col >= 2:
				return base.Align(lipgloss.Right)
			}
			return base
		})

	_, err := fmt.Fprintf(w, "Costs [%s]\n%s\n", t.Unit, tbl.Render())
	return err
}

// WriteCSV writes one record per row with a header record.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(t)); err != nil {
		return err
	}
	for _, r := range t.Rows {
		rec := []string{r.Voltage.String(), string(r.Bus)}
		for _, v := range r.Values {
			rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
		}
		rec = append(rec, strconv.FormatFloat(r.Total(), 'f', -1, 64))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonRow struct {
	KV      int                `json:"kv"`
	BusType string             `json:"bus_type"`
	Costs   map[string]float64 `json:"costs"`
	Total   float64            `json:"total"`
}

type jsonDoc struct {
	Unit       string                `json:"unit"`
	Columns    []string              `json:"columns"`
	Rows       []jsonRow             `json:"rows"`
	Estimate   *cost.Report          `json:"estimate,omitempty"`
	Comparison *analytics.Comparison `json:"comparison,omitempty"`
}

// WriteJSON writes the table with each row's costs keyed by column, followed
// by the full estimate (run id, rates, multiplier and every line item with
// its subcategory) and the comparison.
func WriteJSON(w io.Writer, r *cost.Report, t *Table, cmp *analytics.Comparison) error {
	doc := jsonDoc{Unit: t.Unit, Columns: t.Columns, Rows: make([]jsonRow, len(t.Rows)), Estimate: r, Comparison: cmp}
	for i, row := range t.Rows {
		costs := make(map[string]float64, len(t.Columns))
		for j, c := range t.Columns {
			costs[c] = row.Values[j]
		}
		doc.Rows[i] = jsonRow{KV: int(row.Voltage), BusType: string(row.Bus), Costs: costs, Total: row.Total()}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
