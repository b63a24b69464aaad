package tables

import (
	"fmt"
	"strings"

	"github.com/rrolph575/costmodel-substation/pkg/spec"
)

// Rows of a unit-cost table with a fixed meaning.
const (
	RowVoltage          = "voltage_kv"
	RowMaterialCost     = "material_cost"
	RowInstallationCost = "installation_cost"
)

// UnitCostTable holds the per-unit costs of one component class. It has no
// header; the voltage_kv row maps columns to voltages.
type UnitCostTable struct {
	Path    string
	labels  []string
	rows    map[string][]string
	columns map[spec.Voltage]int
}

// LoadUnitCostTable reads a unit-cost table and indexes its voltage columns.
func LoadUnitCostTable(path string) (*UnitCostTable, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	t := &UnitCostTable{
		Path:    path,
		rows:    make(map[string][]string),
		columns: make(map[spec.Voltage]int),
	}
	for _, rec := range records {
		label := rec[0]
		if label == "" {
			continue
		}
		if _, dup := t.rows[label]; dup {
			return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("duplicate row %q", label)}
		}
		t.labels = append(t.labels, label)
		t.rows[label] = rec[1:]
	}

	kv, ok := t.rows[RowVoltage]
	if !ok {
		return nil, &ShapeMismatchError{Table: path, Detail: "missing voltage_kv row"}
	}
	for col, cell := range kv {
		if cell == "" {
			continue
		}
		v, err := spec.ParseVoltage(cell)
		if err != nil {
			return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("voltage_kv: %v", err)}
		}
		if _, dup := t.columns[v]; dup {
			return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("duplicate column for %d kV", v)}
		}
		t.columns[v] = col
	}

	return t, nil
}

// HasVoltage reports whether the voltage_kv row lists v.
func (t *UnitCostTable) HasVoltage(v spec.Voltage) bool {
	_, ok := t.columns[v]
	return ok
}

// Labels returns the row labels in file order, voltage_kv included.
func (t *UnitCostTable) Labels() []string {
	return append([]string(nil), t.labels...)
}

// CostRows returns the labels of the rows that carry a cost.
func (t *UnitCostTable) CostRows() []string {
	var out []string
	for _, l := range t.labels {
		if strings.Contains(l, "cost") {
			out = append(out, l)
		}
	}
	return out
}

// cell returns the raw cell of a row at voltage v.
func (t *UnitCostTable) cell(row string, v spec.Voltage) (string, error) {
	cells, ok := t.rows[row]
	if !ok {
		return "", &MissingKeyError{Table: t.Path, Key: row}
	}
	col, ok := t.columns[v]
	if !ok {
		return "", &MissingColumnError{Table: t.Path, Voltage: v}
	}
	if col >= len(cells) {
		return "", nil
	}
	return cells[col], nil
}

// Cost returns a single cost row at voltage v. A blank cell is an error.
func (t *UnitCostTable) Cost(row string, v spec.Voltage) (float64, error) {
	c, err := t.cell(row, v)
	if err != nil {
		return 0, err
	}
	if c == "" {
		return 0, &ShapeMismatchError{Table: t.Path, Detail: fmt.Sprintf("no value for %q at %d kV", row, v)}
	}
	x, err := parseNumber(c)
	if err != nil {
		return 0, &ShapeMismatchError{Table: t.Path, Detail: fmt.Sprintf("row %q, %d kV: %v", row, v, err)}
	}
	return x, nil
}

// MaterialInstallation returns the material and installation unit costs at v.
func (t *UnitCostTable) MaterialInstallation(v spec.Voltage) (material, installation float64, err error) {
	if material, err = t.Cost(RowMaterialCost, v); err != nil {
		return 0, 0, err
	}
	if installation, err = t.Cost(RowInstallationCost, v); err != nil {
		return 0, 0, err
	}
	return material, installation, nil
}

// SummedCost returns the total unit cost at v: the sum of every row whose
// label contains "cost". Blank cells count as zero.
func (t *UnitCostTable) SummedCost(v spec.Voltage) (float64, error) {
	if !t.HasVoltage(v) {
		return 0, &MissingColumnError{Table: t.Path, Voltage: v}
	}
	rows := t.CostRows()
	if len(rows) == 0 {
		return 0, &ShapeMismatchError{Table: t.Path, Detail: "no cost rows"}
	}

	var sum float64
	for _, row := range rows {
		c, err := t.cell(row, v)
		if err != nil {
			return 0, err
		}
		if c == "" {
			continue
		}
		x, err := parseNumber(c)
		if err != nil {
			return 0, &ShapeMismatchError{Table: t.Path, Detail: fmt.Sprintf("row %q, %d kV: %v", row, v, err)}
		}
		sum += x
	}
	return sum, nil
}
