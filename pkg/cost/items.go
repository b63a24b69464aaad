package cost

import (
	"fmt"

	"github.com/rrolph575/costmodel-substation/pkg/spec"
	"github.com/rrolph575/costmodel-substation/pkg/tables"
)

// LineItem is one cost of one topology at one voltage.
type LineItem struct {
	Bus         spec.BusType `json:"bus_type"`
	Voltage     spec.Voltage `json:"kv"`
	Category    string       `json:"cost_type"`
	Subcategory string       `json:"cost_cat,omitempty"`
	Amount      float64      `json:"cost"`
}

// LandTerrain returns the access road and site terrain costs of every
// topology in the dataset at voltage v.
func LandTerrain(ds *tables.Dataset, v spec.Voltage, lt spec.LandType) ([]LineItem, error) {
	perAcre, err := ds.Terrain.PerAcre(lt)
	if err != nil {
		return nil, fmt.Errorf("terrain cost: %w", err)
	}

	var road, terrain []LineItem
	for _, bus := range ds.BusTypes {
		miles, err := ds.Quantity(bus, tables.FieldAccessRoadMiles, v)
		if err != nil {
			return nil, fmt.Errorf("access road length: %w", err)
		}
		acres, err := ds.Quantity(bus, tables.FieldAcres, v)
		if err != nil {
			return nil, fmt.Errorf("site area: %w", err)
		}
		road = append(road, LineItem{Bus: bus, Voltage: v, Category: CategoryAccessRoad, Amount: miles * ds.AccessRoadPerMile})
		terrain = append(terrain, LineItem{Bus: bus, Voltage: v, Category: CategoryTerrain, Amount: acres * perAcre})
	}
	return append(road, terrain...), nil
}

// Cabling returns the material and installation costs of control cable,
// conduit and cable trench for every topology at voltage v.
func Cabling(ds *tables.Dataset, v spec.Voltage) ([]LineItem, error) {
	var items []LineItem
	for _, c := range Cables {
		ut, err := ds.UnitCost(c.File)
		if err != nil {
			return nil, err
		}
		material, installation, err := ut.MaterialInstallation(v)
		if err != nil {
			return nil, fmt.Errorf("%s unit cost: %w", c.Name, err)
		}

		var mat, inst []LineItem
		for _, bus := range ds.BusTypes {
			feet, err := ds.Quantity(bus, c.Field, v)
			if err != nil {
				return nil, fmt.Errorf("%s length: %w", c.Name, err)
			}
			units := feet / c.FeetPerUnit
			mat = append(mat, LineItem{Bus: bus, Voltage: v, Category: c.Name, Subcategory: SubcategoryMaterials, Amount: units * material})
			inst = append(inst, LineItem{Bus: bus, Voltage: v, Category: c.Name, Subcategory: SubcategoryInstallation, Amount: units * installation})
		}
		items = append(items, mat...)
		items = append(items, inst...)
	}
	return items, nil
}

// ComponentCost returns count x summed unit cost of one component for every
// topology at voltage v.
func ComponentCost(ds *tables.Dataset, c Component, v spec.Voltage) ([]LineItem, error) {
	ut, err := ds.UnitCost(c.File)
	if err != nil {
		return nil, err
	}
	unit, err := ut.SummedCost(v)
	if err != nil {
		return nil, fmt.Errorf("%s unit cost: %w", c.Name, err)
	}

	items := make([]LineItem, 0, len(ds.BusTypes))
	for _, bus := range ds.BusTypes {
		n, err := ds.Quantity(bus, c.Field, v)
		if err != nil {
			return nil, fmt.Errorf("%s count: %w", c.Name, err)
		}
		items = append(items, LineItem{Bus: bus, Voltage: v, Category: c.Name, Amount: n * unit})
	}
	return items, nil
}

// HardCosts returns every cost before markup at voltage v: land and terrain,
// cabling, then the components in catalog order.
func HardCosts(ds *tables.Dataset, v spec.Voltage, lt spec.LandType) ([]LineItem, error) {
	items, err := LandTerrain(ds, v, lt)
	if err != nil {
		return nil, err
	}
	cables, err := Cabling(ds, v)
	if err != nil {
		return nil, err
	}
	items = append(items, cables...)
	for _, c := range Components {
		ci, err := ComponentCost(ds, c, v)
		if err != nil {
			return nil, err
		}
		items = append(items, ci...)
	}
	return items, nil
}

// SoftCosts returns one softcost item per topology: the hard cost total of
// that topology times (multiplier - 1).
func SoftCosts(hard []LineItem, busTypes []spec.BusType, v spec.Voltage, multiplier float64) []LineItem {
	totals := make(map[spec.BusType]float64, len(busTypes))
	for _, it := range hard {
		totals[it.Bus] += it.Amount
	}
	items := make([]LineItem, 0, len(busTypes))
	for _, bus := range busTypes {
		items = append(items, LineItem{Bus: bus, Voltage: v, Category: CategorySoftCost, Amount: totals[bus] * (multiplier - 1)})
	}
	return items
}
