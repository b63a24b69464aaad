package analytics

import (
	"github.com/rrolph575/costmodel-substation/pkg/cost"
	"github.com/rrolph575/costmodel-substation/pkg/tables"
	"github.com/rrolph575/costmodel-substation/pkg/validation"
)

// DefaultTolerance is the relative deviation from a validation figure
// above which a warning is raised.
const DefaultTolerance = 0.5

// million converts currency units to the millions the validation figures
// are quoted in.
const million = 1e6

// Compare sets the marked-up total of every topology and voltage against the
// validation row of its spec table. Returns the deviations and a validation
// report flagging totals outside tolerance.
func Compare(r *cost.Report, ds *tables.Dataset, tolerance float64) (*Comparison, *validation.Report) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	report := validation.NewReport()
	cmp := &Comparison{Tolerance: tolerance}

	for _, sum := range r.Summaries() {
		d := Deviation{
			Bus:       sum.Bus,
			Voltage:   sum.Voltage,
			EstimateM: sum.Total / million,
		}
		if fig, err := ds.Quantity(sum.Bus, tables.FieldValidation, sum.Voltage); err == nil {
			d.HasValidation = true
			d.ValidationM = fig
			d.DifferenceM = d.EstimateM - fig
			if fig != 0 {
				d.Relative = d.DifferenceM / fig
			}
		}
		cmp.Deviations = append(cmp.Deviations, d)
	}

	validateDeviations(cmp, report)
	return cmp, report
}
