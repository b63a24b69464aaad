package tables

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rrolph575/costmodel-substation/pkg/spec"
)

// Fixed table file names.
const (
	AccessRoadFile  = "access_road_cost.csv"
	TerrainFile     = "substruct_terraincost.csv"
	CommonCostsFile = "common_costs.csv"
)

// Layout locates the input tables of one region and year:
// <root>/<region>/<year>/substation/ holds the component tables and
// <root>/<region>/<year>/common_costs.csv the markup rates.
type Layout struct {
	Root   string
	Region string
	Year   int
}

// YearDir is the directory shared by every table class of the year.
func (l Layout) YearDir() string {
	return filepath.Join(l.Root, l.Region, fmt.Sprint(l.Year))
}

// SubstationDir holds the quantity and unit-cost tables.
func (l Layout) SubstationDir() string {
	return filepath.Join(l.YearDir(), "substation")
}

// SubstationPath joins a file name onto SubstationDir.
func (l Layout) SubstationPath(name string) string {
	return filepath.Join(l.SubstationDir(), name)
}

// CommonCostsPath is the path of the markup rate table.
func (l Layout) CommonCostsPath() string {
	return filepath.Join(l.YearDir(), CommonCostsFile)
}

// Request names the tables one run needs.
type Request struct {
	Option        spec.SubstationOption
	Positions     int
	BusTypes      []spec.BusType
	UnitCostFiles []string
}

// RequestFor builds the request for a scenario.
func RequestFor(s *spec.Scenario, unitCostFiles []string) Request {
	return Request{
		Option:        s.Option,
		Positions:     s.Positions,
		BusTypes:      append([]spec.BusType(nil), s.BusTypes...),
		UnitCostFiles: append([]string(nil), unitCostFiles...),
	}
}

// Dataset is every table one run reads. It is not modified after LoadDataset
// returns, so it may be shared between goroutines.
type Dataset struct {
	Layout            Layout
	BusTypes          []spec.BusType
	Specs             map[spec.BusType]*SpecTable
	UnitCosts         map[string]*UnitCostTable
	AccessRoadPerMile float64
	Terrain           *TerrainCosts
	Common            *CommonCosts
}

// LoadDataset reads every table the request names. Any missing or malformed
// table aborts the load.
func LoadDataset(l Layout, req Request, logger *zap.Logger) (*Dataset, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(req.BusTypes) == 0 {
		return nil, fmt.Errorf("no bus types requested")
	}

	ds := &Dataset{
		Layout:    l,
		BusTypes:  append([]spec.BusType(nil), req.BusTypes...),
		Specs:     make(map[spec.BusType]*SpecTable, len(req.BusTypes)),
		UnitCosts: make(map[string]*UnitCostTable, len(req.UnitCostFiles)),
	}

	for _, bus := range req.BusTypes {
		name := fmt.Sprintf("substation_%s_%d_positions_%s.csv", req.Option, req.Positions, bus)
		t, err := LoadSpecTable(l.SubstationPath(name))
		if err != nil {
			return nil, fmt.Errorf("loading %s spec table: %w", bus, err)
		}
		logger.Debug("Loaded spec table",
			zap.String("bus_type", string(bus)),
			zap.String("path", t.Path),
			zap.Int("fields", len(t.fields)))
		ds.Specs[bus] = t
	}

	for _, name := range req.UnitCostFiles {
		t, err := LoadUnitCostTable(l.SubstationPath(name))
		if err != nil {
			return nil, fmt.Errorf("loading unit costs: %w", err)
		}
		logger.Debug("Loaded unit cost table",
			zap.String("path", t.Path),
			zap.Int("cost_rows", len(t.CostRows())))
		ds.UnitCosts[name] = t
	}

	var err error
	if ds.AccessRoadPerMile, err = LoadAccessRoadCost(l.SubstationPath(AccessRoadFile)); err != nil {
		return nil, fmt.Errorf("loading access road cost: %w", err)
	}
	if ds.Terrain, err = LoadTerrainCosts(l.SubstationPath(TerrainFile)); err != nil {
		return nil, fmt.Errorf("loading terrain costs: %w", err)
	}
	if ds.Common, err = LoadCommonCosts(l.CommonCostsPath()); err != nil {
		return nil, fmt.Errorf("loading common costs: %w", err)
	}

	logger.Info("Loaded dataset",
		zap.String("dir", l.SubstationDir()),
		zap.Int("spec_tables", len(ds.Specs)),
		zap.Int("unit_cost_tables", len(ds.UnitCosts)))
	return ds, nil
}

// Spec returns the quantity table of one topology.
func (ds *Dataset) Spec(bus spec.BusType) (*SpecTable, error) {
	t, ok := ds.Specs[bus]
	if !ok {
		return nil, &ShapeMismatchError{Table: ds.Layout.SubstationDir(), Detail: fmt.Sprintf("no spec table loaded for %s", bus)}
	}
	return t, nil
}

// UnitCost returns a loaded unit-cost table by file name.
func (ds *Dataset) UnitCost(name string) (*UnitCostTable, error) {
	t, ok := ds.UnitCosts[name]
	if !ok {
		return nil, &MissingFileError{Path: ds.Layout.SubstationPath(name), Err: fmt.Errorf("not loaded")}
	}
	return t, nil
}

// Quantity returns one field of a topology's spec table at voltage v.
func (ds *Dataset) Quantity(bus spec.BusType, field string, v spec.Voltage) (float64, error) {
	t, err := ds.Spec(bus)
	if err != nil {
		return 0, err
	}
	return t.Value(field, v)
}
