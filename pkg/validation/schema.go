package validation

import (
	"fmt"
	"sort"

	"github.com/rrolph575/costmodel-substation/pkg/cost"
	"github.com/rrolph575/costmodel-substation/pkg/spec"
	"github.com/rrolph575/costmodel-substation/pkg/tables"
)

// ValidateScenario checks the categorical keys of a scenario before any
// table is read.
func ValidateScenario(s *spec.Scenario) *Report {
	r := NewReport()

	validateOption(s, r)
	validateVoltages(s, r)
	validateBusTypes(s, r)
	validateLandType(s, r)
	validateOverrides(s, r)

	return r
}

func validateOption(s *spec.Scenario, r *Report) {
	if !s.Option.Valid() {
		r.AddError(Result{
			Level:       LevelScenario,
			Message:     fmt.Sprintf("unknown substation option %q", s.Option),
			Path:        "substation_option",
			ActualValue: s.Option,
			Expected:    "upgrade or new",
		})
		return
	}
	if !s.Option.AllowsPositions(s.Positions) {
		r.AddError(Result{
			Level:       LevelScenario,
			Message:     fmt.Sprintf("num_positions %d is not tabulated for a %s substation", s.Positions, s.Option),
			Path:        "num_positions",
			ActualValue: s.Positions,
			Expected:    fmt.Sprintf("one of %v", s.Option.Positions()),
		})
	}
}

func validateVoltages(s *spec.Scenario, r *Report) {
	if len(s.Voltages) == 0 {
		r.AddError(Result{
			Level:       LevelScenario,
			Message:     "voltages must list at least one voltage",
			Path:        "voltages",
			Suggestions: []string{fmt.Sprintf("Use any of %v", spec.Voltages)},
		})
		return
	}
	seen := make(map[spec.Voltage]bool)
	for _, v := range s.Voltages {
		if !v.Valid() {
			r.AddError(Result{
				Level:       LevelScenario,
				Message:     fmt.Sprintf("unsupported voltage %d kV", v),
				Path:        "voltages",
				ActualValue: v,
				Expected:    fmt.Sprintf("one of %v", spec.Voltages),
			})
		}
		if seen[v] {
			r.AddError(Result{
				Level:       LevelScenario,
				Message:     fmt.Sprintf("voltage %d kV listed twice", v),
				Path:        "voltages",
				ActualValue: v,
			})
		}
		seen[v] = true
	}
}

func validateBusTypes(s *spec.Scenario, r *Report) {
	if len(s.BusTypes) == 0 {
		r.AddError(Result{
			Level:   LevelScenario,
			Message: "bus_types must list at least one topology",
			Path:    "bus_types",
		})
		return
	}
	selected := make(map[spec.BusType]bool)
	for _, b := range s.BusTypes {
		if !b.Valid() {
			r.AddError(Result{
				Level:       LevelScenario,
				Message:     fmt.Sprintf("unknown bus type %q", b),
				Path:        "bus_types",
				ActualValue: b,
				Expected:    fmt.Sprintf("one of %v", spec.BusTypes),
			})
		}
		if selected[b] {
			r.AddError(Result{
				Level:       LevelScenario,
				Message:     fmt.Sprintf("bus type %q listed twice", b),
				Path:        "bus_types",
				ActualValue: b,
			})
		}
		selected[b] = true
	}
	if len(s.BusTypes) < len(spec.BusTypes) {
		r.AddInfo(Result{
			Level:       LevelScenario,
			Message:     fmt.Sprintf("costing %d of %d topologies", len(s.BusTypes), len(spec.BusTypes)),
			Path:        "bus_types",
			ActualValue: s.BusTypes,
		})
	}
	if s.PlotBusType != "" && !selected[s.PlotBusType] {
		r.AddError(Result{
			Level:       LevelScenario,
			Message:     fmt.Sprintf("bus_type_for_plot %q is not among the costed bus types", s.PlotBusType),
			Path:        "bus_type_for_plot",
			ActualValue: s.PlotBusType,
			Suggestions: []string{fmt.Sprintf("Add %s to bus_types", s.PlotBusType)},
		})
	}
}

func validateLandType(s *spec.Scenario, r *Report) {
	if s.LandType == "" {
		r.AddError(Result{
			Level:    LevelScenario,
			Message:  "landtype must be set",
			Path:     "landtype",
			Expected: "a land type of the terrain cost table, e.g. light_veg",
		})
	}
}

func validateOverrides(s *spec.Scenario, r *Report) {
	names := make([]string, 0, len(s.Overrides))
	for name := range s.Overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if rate := s.Overrides[name]; rate < 0 {
			r.AddError(Result{
				Level:       LevelScenario,
				Message:     fmt.Sprintf("common cost override %s must be non-negative", name),
				Path:        "common_cost_overrides." + name,
				ActualValue: rate,
				Expected:    ">= 0",
			})
		}
	}
}

// ValidateDataset checks that the loaded tables cover every combination the
// scenario will look up, so a run fails here rather than mid-estimate.
func ValidateDataset(ds *tables.Dataset, s *spec.Scenario) *Report {
	r := NewReport()

	validateSpecTables(ds, s, r)
	validateUnitCostTables(ds, s, r)
	validateTerrain(ds, s, r)
	validateRates(ds, s, r)

	return r
}

func validateSpecTables(ds *tables.Dataset, s *spec.Scenario, r *Report) {
	for _, bus := range ds.BusTypes {
		st, err := ds.Spec(bus)
		if err != nil {
			r.AddError(Result{Level: LevelTables, Message: err.Error(), Path: string(bus)})
			continue
		}
		for _, field := range cost.RequiredFields() {
			if !st.Has(field) {
				r.AddError(Result{
					Level:   LevelTables,
					Message: fmt.Sprintf("%s has no %s row", st.Path, field),
					Path:    st.Path,
				})
				continue
			}
			for _, v := range s.Voltages {
				if _, err := st.Value(field, v); err != nil {
					r.AddError(Result{Level: LevelTables, Message: err.Error(), Path: st.Path, ActualValue: v})
				}
			}
		}
		for _, v := range s.Voltages {
			if _, err := st.Value(tables.FieldValidation, v); err != nil {
				r.AddInfo(Result{
					Level:       LevelTables,
					Message:     fmt.Sprintf("no validation figure for %s at %d kV", bus, v),
					Path:        st.Path,
					ActualValue: v,
				})
			}
		}
	}
}

func validateUnitCostTables(ds *tables.Dataset, s *spec.Scenario, r *Report) {
	for _, c := range cost.Cables {
		ut, err := ds.UnitCost(c.File)
		if err != nil {
			r.AddError(Result{Level: LevelTables, Message: err.Error(), Path: c.File})
			continue
		}
		for _, v := range s.Voltages {
			if _, _, err := ut.MaterialInstallation(v); err != nil {
				r.AddError(Result{Level: LevelTables, Message: err.Error(), Path: ut.Path, ActualValue: v})
			}
		}
	}
	for _, c := range cost.Components {
		ut, err := ds.UnitCost(c.File)
		if err != nil {
			r.AddError(Result{Level: LevelTables, Message: err.Error(), Path: c.File})
			continue
		}
		for _, v := range s.Voltages {
			if _, err := ut.SummedCost(v); err != nil {
				r.AddError(Result{Level: LevelTables, Message: err.Error(), Path: ut.Path, ActualValue: v})
			}
		}
	}
}

func validateTerrain(ds *tables.Dataset, s *spec.Scenario, r *Report) {
	if _, err := ds.Terrain.PerAcre(s.LandType); err != nil {
		r.AddError(Result{
			Level:       LevelTables,
			Message:     err.Error(),
			Path:        ds.Terrain.Path,
			ActualValue: s.LandType,
			Expected:    fmt.Sprintf("one of %v", ds.Terrain.LandTypes()),
		})
	}
	if ds.AccessRoadPerMile < 0 {
		r.AddError(Result{
			Level:       LevelTables,
			Message:     "access road cost per mile must be non-negative",
			Path:        ds.Layout.SubstationPath(tables.AccessRoadFile),
			ActualValue: ds.AccessRoadPerMile,
		})
	}
}

func validateRates(ds *tables.Dataset, s *spec.Scenario, r *Report) {
	for _, name := range ds.Common.Names() {
		rate, _ := ds.Common.Rate(name)
		if rate < 0 {
			r.AddError(Result{
				Level:       LevelTables,
				Message:     fmt.Sprintf("common cost %s must be non-negative", name),
				Path:        ds.Common.Path,
				ActualValue: rate,
				Expected:    ">= 0",
			})
		} else if rate > 1 {
			r.AddWarning(Result{
				Level:       LevelTables,
				Message:     fmt.Sprintf("common cost %s is above 100%%", name),
				Path:        ds.Common.Path,
				ActualValue: rate,
				Suggestions: []string{"Rates are fractions; 0.1 means 10%"},
			})
		}
	}
	if _, err := cost.ResolveRates(ds.Common, s.Overrides); err != nil {
		r.AddError(Result{Level: LevelTables, Message: err.Error(), Path: ds.Common.Path})
	}
}
