package analytics

import (
	"fmt"
	"math"

	"github.com/rrolph575/costmodel-substation/pkg/validation"
)

// validateDeviations flags estimates far from their validation figures.
func validateDeviations(c *Comparison, report *validation.Report) {
	for _, d := range c.Deviations {
		path := fmt.Sprintf("%s.%d", d.Bus, d.Voltage)
		switch {
		case !d.HasValidation:
			report.AddInfo(validation.Result{
				Level:   validation.LevelComparison,
				Message: fmt.Sprintf("%s at %d kV: no validation figure", d.Bus.Label(), d.Voltage),
				Path:    path,
			})
		case d.ValidationM == 0:
			report.AddWarning(validation.Result{
				Level:       validation.LevelComparison,
				Message:     fmt.Sprintf("%s at %d kV: validation figure is zero", d.Bus.Label(), d.Voltage),
				Path:        path,
				ActualValue: d.EstimateM,
			})
		case math.Abs(d.Relative) > c.Tolerance:
			direction := "above"
			if d.Relative < 0 {
				direction = "below"
			}
			report.AddWarning(validation.Result{
				Level: validation.LevelComparison,
				Message: fmt.Sprintf("%s at %d kV: estimate $%.2fM is %.0f%% %s validation $%.2fM",
					d.Bus.Label(), d.Voltage, d.EstimateM, math.Abs(d.Relative)*100, direction, d.ValidationM),
				Path:        path,
				ActualValue: d.EstimateM,
				Expected:    fmt.Sprintf("within %.0f%% of %.2f", c.Tolerance*100, d.ValidationM),
				Suggestions: []string{
					"Check the unit-cost tables for this voltage",
					"Check whether the validation figure includes equipment this model omits",
				},
			})
		}
	}
}
