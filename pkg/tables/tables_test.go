package tables

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrolph575/costmodel-substation/pkg/spec"
)

var exampleLayout = Layout{Root: "../../examples/miso-2024/data", Region: "MISO", Year: 2024}

func writeTable(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSpecTable(t *testing.T) {
	st, err := LoadSpecTable(exampleLayout.SubstationPath("substation_new_4_positions_ring.csv"))
	require.NoError(t, err)

	assert.Equal(t, spec.Voltages, st.Voltages())
	assert.True(t, st.Has("circuit_breaker"))
	assert.True(t, st.Has(FieldValidation))

	miles, err := st.Value(FieldAccessRoadMiles, 500)
	require.NoError(t, err)
	assert.Equal(t, 0.5, miles)

	acres, err := st.Value(FieldAcres, 500)
	require.NoError(t, err)
	assert.Equal(t, 6.0, acres)

	row, err := st.Row(765)
	require.NoError(t, err)
	cable, ok := row.Get("control_cable_ft")
	require.True(t, ok)
	assert.Equal(t, 40000.0, cable)
}

func TestSpecTableErrors(t *testing.T) {
	path := writeTable(t, "spec.csv", "field,69,500\nacres,2,\nbreakers,4,4\n")
	st, err := LoadSpecTable(path)
	require.NoError(t, err)

	_, err = st.Value("missing_field", 69)
	var keyErr *MissingKeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "missing_field", keyErr.Key)

	_, err = st.Value("acres", 500)
	var shapeErr *ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
}

func TestSpecTableAbsentVoltageIsShapeMismatch(t *testing.T) {
	path := writeTable(t, "spec.csv", "field,69,500\nacres,2,3\n")
	st, err := LoadSpecTable(path)
	require.NoError(t, err)

	_, err = st.Value("acres", 765)
	var shapeErr *ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, path, shapeErr.Table)
	assert.Contains(t, shapeErr.Detail, "765 kV")

	var colErr *MissingColumnError
	assert.False(t, errors.As(err, &colErr), "spec tables report absent voltages as shape errors")

	_, err = st.Row(230)
	require.ErrorAs(t, err, &shapeErr)
}

func TestLoadSpecTableRejectsUnknownVoltage(t *testing.T) {
	path := writeTable(t, "spec.csv", "field,69,400\nacres,2,3\n")
	_, err := LoadSpecTable(path)
	var shapeErr *ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
}

func TestLoadSpecTableRejectsNonNumeric(t *testing.T) {
	path := writeTable(t, "spec.csv", "field,69\nacres,lots\n")
	_, err := LoadSpecTable(path)
	var shapeErr *ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
}

func TestMissingFile(t *testing.T) {
	_, err := LoadSpecTable(filepath.Join(t.TempDir(), "nope.csv"))
	var fileErr *MissingFileError
	require.ErrorAs(t, err, &fileErr)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestUnitCostTable(t *testing.T) {
	ut, err := LoadUnitCostTable(exampleLayout.SubstationPath("control_cable_unit_costs.csv"))
	require.NoError(t, err)

	material, installation, err := ut.MaterialInstallation(500)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, material)
	assert.Equal(t, 3000.0, installation)

	cb, err := LoadUnitCostTable(exampleLayout.SubstationPath("circuit_breaker_unit_costs.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"equipment_cost", "foundation_cost", "installation_cost"}, cb.CostRows())

	sum, err := cb.SummedCost(500)
	require.NoError(t, err)
	assert.Equal(t, 1_000_000.0, sum)
}

func TestUnitCostTableMissingVoltage(t *testing.T) {
	path := writeTable(t, "partial_unit_costs.csv",
		"voltage_kv,69,115\nmaterial_cost,10,20\ninstallation_cost,1,2\n")
	ut, err := LoadUnitCostTable(path)
	require.NoError(t, err)

	_, _, err = ut.MaterialInstallation(500)
	var colErr *MissingColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, spec.Voltage(500), colErr.Voltage)
	assert.Equal(t, path, colErr.Table)

	_, err = ut.SummedCost(500)
	require.ErrorAs(t, err, &colErr)
}

func TestUnitCostTableSkipsBlankCostCells(t *testing.T) {
	path := writeTable(t, "sparse_unit_costs.csv",
		"voltage_kv,69,115\nunit,each,each\nequipment_cost,100,200\nfreight_cost,,15\n")
	ut, err := LoadUnitCostTable(path)
	require.NoError(t, err)

	sum, err := ut.SummedCost(69)
	require.NoError(t, err)
	assert.Equal(t, 100.0, sum)

	sum, err = ut.SummedCost(115)
	require.NoError(t, err)
	assert.Equal(t, 215.0, sum)

	_, err = ut.Cost("freight_cost", 69)
	var shapeErr *ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
}

func TestUnitCostTableNeedsVoltageRow(t *testing.T) {
	path := writeTable(t, "bad_unit_costs.csv", "material_cost,10,20\n")
	_, err := LoadUnitCostTable(path)
	var shapeErr *ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
}

func TestConstantTables(t *testing.T) {
	perMile, err := LoadAccessRoadCost(exampleLayout.SubstationPath(AccessRoadFile))
	require.NoError(t, err)
	assert.Equal(t, 1_500_000.0, perMile)

	terrain, err := LoadTerrainCosts(exampleLayout.SubstationPath(TerrainFile))
	require.NoError(t, err)
	perAcre, err := terrain.PerAcre(spec.LandLightVegetation)
	require.NoError(t, err)
	assert.Equal(t, 12_000.0, perAcre)
	assert.Equal(t, []spec.LandType{"light_veg", "forest", "wetland"}, terrain.LandTypes())

	_, err = terrain.PerAcre("desert")
	var keyErr *MissingKeyError
	require.ErrorAs(t, err, &keyErr)

	common, err := LoadCommonCosts(exampleLayout.CommonCostsPath())
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"project_management", "administrative_general", "engineering", "contingency", "afudc"},
		common.Names())
	rate, err := common.Rate("contingency")
	require.NoError(t, err)
	assert.Equal(t, 0.1, rate)
}

func TestTerrainCostsNeedsColumns(t *testing.T) {
	path := writeTable(t, TerrainFile, "land,cost\nforest,1\n")
	_, err := LoadTerrainCosts(path)
	var shapeErr *ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
}

func TestLoadDataset(t *testing.T) {
	req := Request{
		Option:        spec.OptionNew,
		Positions:     4,
		BusTypes:      spec.BusTypes,
		UnitCostFiles: []string{"circuit_breaker_unit_costs.csv", "conduit_unit_costs.csv"},
	}
	ds, err := LoadDataset(exampleLayout, req, nil)
	require.NoError(t, err)

	assert.Len(t, ds.Specs, 3)
	assert.Len(t, ds.UnitCosts, 2)
	assert.Equal(t, 1_500_000.0, ds.AccessRoadPerMile)

	q, err := ds.Quantity(spec.BusDoubleBreaker, "circuit_breaker", 230)
	require.NoError(t, err)
	assert.Equal(t, 8.0, q)

	_, err = ds.UnitCost("relay_panel_costs.csv")
	var fileErr *MissingFileError
	require.ErrorAs(t, err, &fileErr)
}

func TestLoadDatasetMissingConfiguration(t *testing.T) {
	req := Request{Option: spec.OptionNew, Positions: 6, BusTypes: []spec.BusType{spec.BusRing}}
	_, err := LoadDataset(exampleLayout, req, nil)
	var fileErr *MissingFileError
	require.ErrorAs(t, err, &fileErr)
}
