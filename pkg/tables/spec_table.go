package tables

import (
	"fmt"

	"github.com/rrolph575/costmodel-substation/pkg/spec"
)

// Quantity fields read from the substation spec tables.
const (
	FieldAccessRoadMiles = "access_road_miles"
	FieldAcres           = "acres"
	FieldValidation      = "validation"
)

// SpecTable holds the physical quantities of one substation configuration:
// one row per quantity field, one column per voltage.
type SpecTable struct {
	Path     string
	fields   []string
	voltages []spec.Voltage
	cells    map[string]map[spec.Voltage]float64
}

// LoadSpecTable reads a quantity table whose header row names the voltages
// and whose first column names the fields.
func LoadSpecTable(path string) (*SpecTable, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	header := records[0]
	if len(header) < 2 {
		return nil, &ShapeMismatchError{Table: path, Detail: "header has no voltage columns"}
	}

	t := &SpecTable{
		Path:  path,
		cells: make(map[string]map[spec.Voltage]float64),
	}
	seen := make(map[spec.Voltage]bool)
	for _, h := range header[1:] {
		v, err := spec.ParseVoltage(h)
		if err != nil {
			return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("header: %v", err)}
		}
		if seen[v] {
			return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("duplicate column for %d kV", v)}
		}
		seen[v] = true
		t.voltages = append(t.voltages, v)
	}

	for _, rec := range records[1:] {
		field := rec[0]
		if field == "" {
			continue
		}
		if _, dup := t.cells[field]; dup {
			return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("duplicate row %q", field)}
		}
		row := make(map[spec.Voltage]float64, len(t.voltages))
		for i, v := range t.voltages {
			if i+1 >= len(rec) || rec[i+1] == "" {
				continue
			}
			x, err := parseNumber(rec[i+1])
			if err != nil {
				return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("row %q, %d kV: %v", field, v, err)}
			}
			row[v] = x
		}
		t.fields = append(t.fields, field)
		t.cells[field] = row
	}

	return t, nil
}

// Fields returns the quantity fields in file order.
func (t *SpecTable) Fields() []string {
	return append([]string(nil), t.fields...)
}

// Voltages returns the voltage columns in file order.
func (t *SpecTable) Voltages() []spec.Voltage {
	return append([]spec.Voltage(nil), t.voltages...)
}

// HasVoltage reports whether the table has a column for v.
func (t *SpecTable) HasVoltage(v spec.Voltage) bool {
	for _, have := range t.voltages {
		if have == v {
			return true
		}
	}
	return false
}

// Has reports whether the table defines the field.
func (t *SpecTable) Has(field string) bool {
	_, ok := t.cells[field]
	return ok
}

// absentVoltage reports a configuration the table does not tabulate at v.
func (t *SpecTable) absentVoltage(v spec.Voltage) error {
	return &ShapeMismatchError{Table: t.Path, Detail: fmt.Sprintf("configuration not tabulated at %d kV", v)}
}

// Value returns the quantity of field at voltage v.
func (t *SpecTable) Value(field string, v spec.Voltage) (float64, error) {
	row, ok := t.cells[field]
	if !ok {
		return 0, &MissingKeyError{Table: t.Path, Key: field}
	}
	if !t.HasVoltage(v) {
		return 0, t.absentVoltage(v)
	}
	x, ok := row[v]
	if !ok {
		return 0, &ShapeMismatchError{Table: t.Path, Detail: fmt.Sprintf("no value for %q at %d kV", field, v)}
	}
	return x, nil
}

// SpecRow is every quantity of one configuration at one voltage.
type SpecRow struct {
	Voltage spec.Voltage
	Values  map[string]float64
}

// Get returns one quantity of the row.
func (r SpecRow) Get(field string) (float64, bool) {
	x, ok := r.Values[field]
	return x, ok
}

// Row returns every non-blank quantity at voltage v.
func (t *SpecTable) Row(v spec.Voltage) (SpecRow, error) {
	if !t.HasVoltage(v) {
		return SpecRow{}, t.absentVoltage(v)
	}
	r := SpecRow{Voltage: v, Values: make(map[string]float64, len(t.fields))}
	for _, f := range t.fields {
		if x, ok := t.cells[f][v]; ok {
			r.Values[f] = x
		}
	}
	return r, nil
}
