package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/rrolph575/costmodel-substation/pkg/cost"
	"github.com/rrolph575/costmodel-substation/pkg/report"
	"github.com/rrolph575/costmodel-substation/pkg/spec"
	"github.com/rrolph575/costmodel-substation/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  [%s] %s\n", e.Level, e.Message)
			if e.Path != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", e.Path, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", e.Expected)
			}
			for _, s := range e.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, wr := range r.Warnings {
			fmt.Fprintf(w, "  [%s] %s\n", wr.Level, wr.Message)
			if wr.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", wr.Expected)
			}
			for _, s := range wr.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printCostReport(w io.Writer, s *spec.Scenario, r *cost.Report, tbl *report.Table) {
	fmt.Fprintf(w, "Substation Cost Estimate: %s (USD%d)\n", s.Title(), r.CurrencyYear)
	fmt.Fprintln(w, "==========================================")
	fmt.Fprintf(w, "  Region/year:  %s %d\n", s.Region, s.Year)
	fmt.Fprintf(w, "  Multiplier:   %.5f\n", r.Multiplier)
	fmt.Fprintf(w, "  Run:          %s\n", r.RunID)
	fmt.Fprintln(w)

	if err := report.WriteText(w, tbl); err != nil {
		fmt.Fprintf(w, "cannot render table: %v\n", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Totals")
	fmt.Fprintln(w, "------")
	for _, sum := range r.Summaries() {
		fmt.Fprintf(w, "  %-17s %4d kV  hard $%-9s soft $%-9s total $%s\n",
			sum.Bus, sum.Voltage, formatMoney(sum.HardCost), formatMoney(sum.SoftCost), formatMoney(sum.Total))
	}
}

func printMarkup(w io.Writer, path string, overrides map[string]float64, r cost.Rates) {
	fmt.Fprintf(w, "Common costs (%s)\n", path)
	fmt.Fprintf(w, "  %-24s %6.3f\n", cost.RateProjectManagement, r.ProjectManagement)
	fmt.Fprintf(w, "  %-24s %6.3f\n", cost.RateAdministrativeGeneral, r.AdministrativeGeneral)
	fmt.Fprintf(w, "  %-24s %6.3f\n", cost.RateEngineering, r.Engineering)
	fmt.Fprintf(w, "  %-24s %6.3f\n", cost.RateContingency, r.Contingency)
	fmt.Fprintf(w, "  %-24s %6.3f\n", cost.RateAFUDC, r.AFUDC)

	if len(overrides) > 0 {
		keys := make([]string, 0, len(overrides))
		for k := range overrides {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(w, "Overrides")
		for _, k := range keys {
			fmt.Fprintf(w, "  %-24s %6.3f\n", k, overrides[k])
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Soft cost multiplier:  %.5f\n", r.SoftCostMultiplier())
	fmt.Fprintf(w, "Total multiplier:      %.5f\n", r.Multiplier())
}

func formatMoney(v float64) string {
	if v >= 1_000_000_000 {
		return fmt.Sprintf("%.2fB", v/1_000_000_000)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.0fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}
