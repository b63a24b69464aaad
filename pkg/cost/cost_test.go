package cost

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rrolph575/costmodel-substation/pkg/spec"
	"github.com/rrolph575/costmodel-substation/pkg/tables"
)

var exampleLayout = tables.Layout{Root: "../../examples/miso-2024/data", Region: "MISO", Year: 2024}

func loadExample(t *testing.T) (*tables.Dataset, *spec.Scenario) {
	t.Helper()
	s := spec.Default()
	ds, err := tables.LoadDataset(exampleLayout, tables.RequestFor(s, UnitCostFiles()), nil)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	return ds, s
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b))
}

func amountOf(items []LineItem, bus spec.BusType, category, subcategory string) float64 {
	var sum float64
	for _, it := range items {
		if it.Bus == bus && it.Category == category && it.Subcategory == subcategory {
			sum += it.Amount
		}
	}
	return sum
}

func TestLandTerrainRing500(t *testing.T) {
	ds, _ := loadExample(t)

	items, err := LandTerrain(ds, 500, spec.LandLightVegetation)
	if err != nil {
		t.Fatalf("LandTerrain failed: %v", err)
	}

	miles, _ := ds.Quantity(spec.BusRing, tables.FieldAccessRoadMiles, 500)
	acres, _ := ds.Quantity(spec.BusRing, tables.FieldAcres, 500)
	perAcre, _ := ds.Terrain.PerAcre(spec.LandLightVegetation)
	want := miles*ds.AccessRoadPerMile + acres*perAcre

	// 0.5 mi x $1.5M/mi + 6 ac x $12,000/ac
	if want != 822_000 {
		t.Fatalf("fixture changed: hand-computed land+terrain = %.0f, want 822000", want)
	}

	got := amountOf(items, spec.BusRing, CategoryAccessRoad, "") + amountOf(items, spec.BusRing, CategoryTerrain, "")
	if !approx(got, want) {
		t.Errorf("land+terrain = %.2f, want %.2f", got, want)
	}
	if len(items) != 2*len(spec.BusTypes) {
		t.Errorf("items = %d, want %d", len(items), 2*len(spec.BusTypes))
	}
}

func TestLandTerrainUnknownLandType(t *testing.T) {
	ds, _ := loadExample(t)
	_, err := LandTerrain(ds, 500, "tundra")
	var keyErr *tables.MissingKeyError
	if !errors.As(err, &keyErr) {
		t.Fatalf("err = %v, want MissingKeyError", err)
	}
}

func TestCablingKeepsMaterialAndInstallationSeparate(t *testing.T) {
	ds, _ := loadExample(t)

	items, err := Cabling(ds, 500)
	if err != nil {
		t.Fatalf("Cabling failed: %v", err)
	}

	for _, tc := range []struct {
		category     string
		material     float64
		installation float64
	}{
		// 34,000 ft / 1000 x $2,500 and $3,000
		{"control_cable", 85_000, 102_000},
		// 6,800 ft / 1000 x $3,800 and $6,500
		{"conduit", 25_840, 44_200},
		// 1,000 ft x $85 and $125, trench is priced per foot
		{"cable_trench", 85_000, 125_000},
	} {
		if got := amountOf(items, spec.BusRing, tc.category, SubcategoryMaterials); !approx(got, tc.material) {
			t.Errorf("%s materials = %.2f, want %.2f", tc.category, got, tc.material)
		}
		if got := amountOf(items, spec.BusRing, tc.category, SubcategoryInstallation); !approx(got, tc.installation) {
			t.Errorf("%s installation = %.2f, want %.2f", tc.category, got, tc.installation)
		}
	}
}

func TestComponentCost(t *testing.T) {
	ds, _ := loadExample(t)

	breaker := Components[0]
	items, err := ComponentCost(ds, breaker, 500)
	if err != nil {
		t.Fatalf("ComponentCost failed: %v", err)
	}

	// $900k + $40k + $60k per breaker
	want := map[spec.BusType]float64{
		spec.BusRing:           4 * 1_000_000,
		spec.BusBreakerAndHalf: 6 * 1_000_000,
		spec.BusDoubleBreaker:  8 * 1_000_000,
	}
	for _, it := range items {
		if !approx(it.Amount, want[it.Bus]) {
			t.Errorf("%s breakers = %.0f, want %.0f", it.Bus, it.Amount, want[it.Bus])
		}
	}
}

func TestMissingVoltageColumnFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "circuit_breaker_unit_costs.csv")
	if err := os.WriteFile(path, []byte("voltage_kv,69,115\nequipment_cost,1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ut, err := tables.LoadUnitCostTable(path)
	if err != nil {
		t.Fatal(err)
	}

	ds, _ := loadExample(t)
	ds.UnitCosts["circuit_breaker_unit_costs.csv"] = ut

	_, err = ComponentCost(ds, Components[0], 500)
	var colErr *tables.MissingColumnError
	if !errors.As(err, &colErr) {
		t.Fatalf("err = %v, want MissingColumnError", err)
	}
	if colErr.Voltage != 500 {
		t.Errorf("missing voltage = %d, want 500", colErr.Voltage)
	}
}

func TestEstimateRing500(t *testing.T) {
	ds, s := loadExample(t)

	report, err := Estimate(context.Background(), ds, s, Options{})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if !approx(report.Multiplier, 1.15*1.1*1.05) {
		t.Errorf("multiplier = %v, want %v", report.Multiplier, 1.15*1.1*1.05)
	}

	var hard, soft float64
	for _, sum := range report.Summaries() {
		if sum.Bus == spec.BusRing && sum.Voltage == 500 {
			hard, soft = sum.HardCost, sum.SoftCost
		}
	}
	if !approx(hard, 11_715_040) {
		t.Errorf("hard cost = %.2f, want 11715040", hard)
	}
	if !approx(soft, hard*(report.Multiplier-1)) {
		t.Errorf("soft cost = %.2f, want %.2f", soft, hard*(report.Multiplier-1))
	}
	if total := report.Total(spec.BusRing, 500); !approx(total, hard*report.Multiplier) {
		t.Errorf("total = %.2f, want %.2f", total, hard*report.Multiplier)
	}
}

func TestRollupAssociativity(t *testing.T) {
	ds, s := loadExample(t)

	report, err := Estimate(context.Background(), ds, s, Options{})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	totals := Totals(report.Items)
	for key, cats := range CategoryTotals(report.Items) {
		var sum float64
		for _, v := range cats {
			sum += v
		}
		if !approx(sum, totals[key]) {
			t.Errorf("%s/%d: category rollup %.4f != item sum %.4f", key.Bus, key.Voltage, sum, totals[key])
		}
	}
	if len(totals) != len(s.Voltages)*len(s.BusTypes) {
		t.Errorf("totals = %d keys, want %d", len(totals), len(s.Voltages)*len(s.BusTypes))
	}
}

func TestEstimateDeterministic(t *testing.T) {
	ds, s := loadExample(t)

	first, err := Estimate(context.Background(), ds, s, Options{})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	second, err := Estimate(context.Background(), ds, s, Options{})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	parallel, err := Estimate(context.Background(), ds, s, Options{Workers: 4})
	if err != nil {
		t.Fatalf("Estimate with workers failed: %v", err)
	}

	if !reflect.DeepEqual(first.Items, second.Items) {
		t.Error("repeated Estimate produced different items")
	}
	if !reflect.DeepEqual(first.Items, parallel.Items) {
		t.Error("concurrent Estimate produced different items")
	}
	if first.RunID == second.RunID {
		t.Error("each run should get its own id")
	}
}

func TestEstimateUnknownOverride(t *testing.T) {
	ds, s := loadExample(t)
	s.Overrides = map[string]float64{"insurance": 0.01}

	_, err := Estimate(context.Background(), ds, s, Options{})
	var keyErr *tables.MissingKeyError
	if !errors.As(err, &keyErr) {
		t.Fatalf("err = %v, want MissingKeyError", err)
	}
	if keyErr.Key != "insurance" {
		t.Errorf("key = %q, want insurance", keyErr.Key)
	}
}

func TestEstimateCancelled(t *testing.T) {
	ds, s := loadExample(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Estimate(ctx, ds, s, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCatalog(t *testing.T) {
	if got := len(UnitCostFiles()); got != 10 {
		t.Errorf("unit cost files = %d, want 10", got)
	}
	cats := Categories()
	if cats[len(cats)-1] != CategorySoftCost {
		t.Errorf("last category = %q, want softcost", cats[len(cats)-1])
	}
}
