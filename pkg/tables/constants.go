package tables

import (
	"fmt"

	"github.com/rrolph575/costmodel-substation/pkg/spec"
)

// LoadAccessRoadCost reads the access road cost per mile: the first cell
// below the header.
func LoadAccessRoadCost(path string) (float64, error) {
	records, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	if len(records) < 2 || records[1][0] == "" {
		return 0, &ShapeMismatchError{Table: path, Detail: "expected a header and one value"}
	}
	x, err := parseNumber(records[1][0])
	if err != nil {
		return 0, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("cost per mile: %v", err)}
	}
	return x, nil
}

// Terrain table columns.
const (
	ColLandType = "landtype"
	ColPerAcre  = "$peracre"
)

// TerrainCosts maps a land type to its site preparation cost per acre.
type TerrainCosts struct {
	Path    string
	order   []spec.LandType
	perAcre map[spec.LandType]float64
}

// LoadTerrainCosts reads a table with landtype and $peracre columns.
func LoadTerrainCosts(path string) (*TerrainCosts, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	landCol, costCol := -1, -1
	for i, h := range records[0] {
		switch h {
		case ColLandType:
			landCol = i
		case ColPerAcre:
			costCol = i
		}
	}
	if landCol < 0 || costCol < 0 {
		return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("want columns %q and %q, got %v", ColLandType, ColPerAcre, records[0])}
	}

	tc := &TerrainCosts{Path: path, perAcre: make(map[spec.LandType]float64)}
	for _, rec := range records[1:] {
		if landCol >= len(rec) || costCol >= len(rec) || rec[landCol] == "" {
			continue
		}
		lt := spec.LandType(rec[landCol])
		if _, dup := tc.perAcre[lt]; dup {
			return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("duplicate land type %q", lt)}
		}
		x, err := parseNumber(rec[costCol])
		if err != nil {
			return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("land type %q: %v", lt, err)}
		}
		tc.order = append(tc.order, lt)
		tc.perAcre[lt] = x
	}
	return tc, nil
}

// PerAcre returns the cost per acre of a land type.
func (tc *TerrainCosts) PerAcre(lt spec.LandType) (float64, error) {
	x, ok := tc.perAcre[lt]
	if !ok {
		return 0, &MissingKeyError{Table: tc.Path, Key: string(lt)}
	}
	return x, nil
}

// LandTypes returns the land types in file order.
func (tc *TerrainCosts) LandTypes() []spec.LandType {
	return append([]spec.LandType(nil), tc.order...)
}

// CommonCosts are the named fractional rates used to mark hard costs up.
type CommonCosts struct {
	Path  string
	names []string
	rates map[string]float64
}

// LoadCommonCosts reads a two-column table of name,rate with a header row.
func LoadCommonCosts(path string) (*CommonCosts, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	cc := &CommonCosts{Path: path, rates: make(map[string]float64)}
	for _, rec := range records[1:] {
		if rec[0] == "" {
			continue
		}
		if len(rec) < 2 || rec[1] == "" {
			return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("no rate for %q", rec[0])}
		}
		if _, dup := cc.rates[rec[0]]; dup {
			return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("duplicate rate %q", rec[0])}
		}
		x, err := parseNumber(rec[1])
		if err != nil {
			return nil, &ShapeMismatchError{Table: path, Detail: fmt.Sprintf("rate %q: %v", rec[0], err)}
		}
		cc.names = append(cc.names, rec[0])
		cc.rates[rec[0]] = x
	}
	return cc, nil
}

// Names returns the rate names in file order.
func (cc *CommonCosts) Names() []string {
	return append([]string(nil), cc.names...)
}

// Rate returns a named rate.
func (cc *CommonCosts) Rate(name string) (float64, error) {
	x, ok := cc.rates[name]
	if !ok {
		return 0, &MissingKeyError{Table: cc.Path, Key: name}
	}
	return x, nil
}

// Map returns a copy of every rate keyed by name.
func (cc *CommonCosts) Map() map[string]float64 {
	out := make(map[string]float64, len(cc.rates))
	for k, v := range cc.rates {
		out[k] = v
	}
	return out
}
