package validation

import (
	"strings"
	"testing"

	"github.com/rrolph575/costmodel-substation/pkg/spec"
)

// comparisonWarning mirrors the result raised for an estimate far from its
// validation figure.
func comparisonWarning() Result {
	return Result{
		Level:       LevelComparison,
		Message:     "Ring bus at 500 kV: estimate $15.56M is 42% below validation $27.00M",
		Path:        "ring.500",
		ActualValue: 15.56,
		Expected:    "within 10% of 27.00",
	}
}

func TestEmptyScenarioReport(t *testing.T) {
	r := ValidateScenario(spec.Default())
	if !r.Valid || len(r.Errors) != 0 || len(r.Warnings) != 0 {
		t.Fatalf("default scenario should be clean, got %s", r.Summary)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestSeverityIsSetByAdder(t *testing.T) {
	tests := []struct {
		name      string
		add       func(*Report, Result)
		severity  Severity
		wantValid bool
	}{
		{"error", (*Report).AddError, SeverityError, false},
		{"warning", (*Report).AddWarning, SeverityWarning, true},
		{"info", (*Report).AddInfo, SeverityInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport()
			tt.add(r, Result{Level: LevelTables, Message: "conduit_unit_costs.csv has no column for 765 kV", Severity: "bogus"})
			if r.Valid != tt.wantValid {
				t.Errorf("valid = %v, want %v", r.Valid, tt.wantValid)
			}
			all := append(append(append([]Result{}, r.Errors...), r.Warnings...), r.Info...)
			if len(all) != 1 || all[0].Severity != tt.severity {
				t.Errorf("results = %+v, want one %s", all, tt.severity)
			}
		})
	}
}

func TestMergeScenarioTablesAndComparison(t *testing.T) {
	s := spec.Default()
	s.Positions = 3
	s.BusTypes = []spec.BusType{spec.BusRing, spec.BusBreakerAndHalf}

	scenario := ValidateScenario(s)
	if len(scenario.Errors) != 1 || len(scenario.Info) != 1 {
		t.Fatalf("scenario report = %s, want 1 error and 1 info", scenario.Summary)
	}

	tables := NewReport()
	tables.AddWarning(Result{Level: LevelTables, Message: "contingency rate 1.5 exceeds 100%", Path: "contingency", ActualValue: 1.5})

	comparison := NewReport()
	comparison.AddWarning(comparisonWarning())

	scenario.Merge(tables)
	scenario.Merge(comparison)

	if scenario.Valid {
		t.Error("merged report keeps the scenario error")
	}
	if scenario.Summary != "1 errors, 2 warnings, 1 info" {
		t.Errorf("summary = %q", scenario.Summary)
	}
	levels := []Level{scenario.Warnings[0].Level, scenario.Warnings[1].Level}
	if levels[0] != LevelTables || levels[1] != LevelComparison {
		t.Errorf("warning levels = %v, want tables then comparison", levels)
	}
	if scenario.Errors[0].Path != "num_positions" {
		t.Errorf("error path = %q, want num_positions", scenario.Errors[0].Path)
	}
}

func TestMergeWarningsKeepsValid(t *testing.T) {
	r := ValidateScenario(spec.Default())
	comparison := NewReport()
	comparison.AddWarning(comparisonWarning())
	comparison.AddInfo(Result{Level: LevelComparison, Message: "Ring bus at 69 kV: no validation figure", Path: "ring.69"})

	r.Merge(comparison)

	if !r.Valid {
		t.Error("comparison findings must not invalidate the inputs")
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
	if len(r.Warnings) != 1 || len(r.Info) != 1 {
		t.Errorf("summary = %s, want 1 warning and 1 info", r.Summary)
	}
}

func TestErrListsScenarioMessages(t *testing.T) {
	s := spec.Default()
	s.Positions = 3
	s.Voltages = []spec.Voltage{500, 400}

	err := ValidateScenario(s).Err()
	if err == nil {
		t.Fatal("invalid scenario should return an error")
	}
	for _, want := range []string{"num_positions 3", "400 kV", "2 errors"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}
