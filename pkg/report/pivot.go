// Package report reshapes cost line items into a topology x category table
// and writes it for people and programs.
package report

import (
	"sort"

	"github.com/rrolph575/costmodel-substation/pkg/cost"
	"github.com/rrolph575/costmodel-substation/pkg/spec"
)

// Units of a pivot table's values.
const (
	UnitUSD         = "USD"
	UnitMillionsUSD = "$M"
)

// Row is one topology at one voltage; Values align with Table.Columns.
type Row struct {
	Voltage spec.Voltage `json:"kv"`
	Bus     spec.BusType `json:"bus_type"`
	Values  []float64    `json:"values"`
}

// Total sums the row.
func (r Row) Total() float64 {
	var sum float64
	for _, v := range r.Values {
		sum += v
	}
	return sum
}

// Table is the pivoted cost table.
type Table struct {
	Unit    string   `json:"unit"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Pivot sums items into one row per (voltage, topology) and one column per
// category. Combinations without items are zero. Rows keep the order in
// which they first appear; columns follow the cost catalog with any other
// category appended alphabetically.
func Pivot(items []cost.LineItem) *Table {
	return pivot(items, func(it cost.LineItem) column { return column{category: it.Category} })
}

// PivotDetailed is Pivot with subcategorized categories split into one
// column per subcategory, named "<category>/<subcategory>", so material
// and installation spend on cabling stay apart.
func PivotDetailed(items []cost.LineItem) *Table {
	return pivot(items, func(it cost.LineItem) column {
		return column{category: it.Category, subcategory: it.Subcategory}
	})
}

// ColumnName names a pivot column.
func ColumnName(category, subcategory string) string {
	if subcategory == "" {
		return category
	}
	return category + "/" + subcategory
}

type column struct {
	category    string
	subcategory string
}

func (c column) name() string { return ColumnName(c.category, c.subcategory) }

var subcategoryOrder = map[string]int{
	"":                           0,
	cost.SubcategoryMaterials:    1,
	cost.SubcategoryInstallation: 2,
}

func pivot(items []cost.LineItem, key func(cost.LineItem) column) *Table {
	catalog := make(map[string]int)
	for i, c := range cost.Categories() {
		catalog[c] = i
	}

	seen := make(map[column]bool)
	var cols []column
	for _, it := range items {
		c := key(it)
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	sort.SliceStable(cols, func(i, j int) bool {
		a, b := cols[i], cols[j]
		if a.category != b.category {
			ai, aok := catalog[a.category]
			bi, bok := catalog[b.category]
			switch {
			case aok && bok:
				return ai < bi
			case aok != bok:
				return aok
			}
			return a.category < b.category
		}
		ao, aok := subcategoryOrder[a.subcategory]
		bo, bok := subcategoryOrder[b.subcategory]
		switch {
		case aok && bok:
			return ao < bo
		case aok != bok:
			return aok
		}
		return a.subcategory < b.subcategory
	})

	colIndex := make(map[column]int, len(cols))
	columns := make([]string, len(cols))
	for i, c := range cols {
		colIndex[c] = i
		columns[i] = c.name()
	}

	t := &Table{Unit: UnitUSD, Columns: columns}
	rowIndex := make(map[cost.Key]int)
	for _, it := range items {
		k := cost.Key{Bus: it.Bus, Voltage: it.Voltage}
		i, ok := rowIndex[k]
		if !ok {
			i = len(t.Rows)
			rowIndex[k] = i
			t.Rows = append(t.Rows, Row{Voltage: it.Voltage, Bus: it.Bus, Values: make([]float64, len(columns))})
		}
		t.Rows[i].Values[colIndex[key(it)]] += it.Amount
	}
	return t
}

// InMillions returns a copy of the table with values divided by one million.
func (t *Table) InMillions() *Table {
	if t.Unit == UnitMillionsUSD {
		return t.clone(1)
	}
	out := t.clone(1e-6)
	out.Unit = UnitMillionsUSD
	return out
}

// ForBus returns a copy holding only the rows of one topology.
func (t *Table) ForBus(bus spec.BusType) *Table {
	out := &Table{Unit: t.Unit, Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows {
		if r.Bus == bus {
			out.Rows = append(out.Rows, Row{Voltage: r.Voltage, Bus: r.Bus, Values: append([]float64(nil), r.Values...)})
		}
	}
	return out
}

// Column returns the values of one category, one per row.
func (t *Table) Column(name string) []float64 {
	for i, c := range t.Columns {
		if c == name {
			out := make([]float64, len(t.Rows))
			for j, r := range t.Rows {
				out[j] = r.Values[i]
			}
			return out
		}
	}
	return nil
}

// Voltages returns the voltage of each row.
func (t *Table) Voltages() []spec.Voltage {
	out := make([]spec.Voltage, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Voltage
	}
	return out
}

func (t *Table) clone(scale float64) *Table {
	out := &Table{Unit: t.Unit, Columns: append([]string(nil), t.Columns...), Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		vals := make([]float64, len(r.Values))
		for j, v := range r.Values {
			vals[j] = v * scale
		}
		out.Rows[i] = Row{Voltage: r.Voltage, Bus: r.Bus, Values: vals}
	}
	return out
}
