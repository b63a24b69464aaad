package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rrolph575/costmodel-substation/internal/config"
	"github.com/rrolph575/costmodel-substation/internal/logging"
	"github.com/rrolph575/costmodel-substation/pkg/analytics"
	"github.com/rrolph575/costmodel-substation/pkg/chart"
	"github.com/rrolph575/costmodel-substation/pkg/cost"
	"github.com/rrolph575/costmodel-substation/pkg/report"
	"github.com/rrolph575/costmodel-substation/pkg/spec"
	"github.com/rrolph575/costmodel-substation/pkg/tables"
	"github.com/rrolph575/costmodel-substation/pkg/validation"
)

// session is the resolved configuration and logger of one command run.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

func newSession(c *cobra.Command, f *flags) (*session, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.dataRoot != "" {
		cfg.DataRoot = f.dataRoot
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Log, f.verbose)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, out: c.OutOrStdout()}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// parseSets turns key=value flags into rate overrides.
func parseSets(sets []string) (map[string]float64, error) {
	out := make(map[string]float64, len(sets))
	for _, kv := range sets {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("--set %q: want key=value", kv)
		}
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("--set %q: %w", kv, err)
		}
		out[strings.TrimSpace(k)] = rate
	}
	return out, nil
}

// loadScenario reads the project's scenario and applies the data root and
// rate overrides given on the command line.
func (s *session) loadScenario(projectPath string, sets []string) (*spec.Scenario, error) {
	scenario, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading scenario: %w", err)
	}
	if s.cfg.DataRoot != "" {
		scenario.DataRoot = s.cfg.DataRoot
	}
	overrides, err := parseSets(sets)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 && scenario.Overrides == nil {
		scenario.Overrides = make(map[string]float64, len(overrides))
	}
	for k, v := range overrides {
		scenario.Overrides[k] = v
	}
	return scenario, nil
}

func layoutFor(scenario *spec.Scenario) tables.Layout {
	return tables.Layout{Root: scenario.DataRoot, Region: scenario.Region, Year: scenario.Year}
}

// loadAndValidate loads the scenario and its tables and runs input
// validation.
func (s *session) loadAndValidate(projectPath string, sets []string) (*spec.Scenario, *tables.Dataset, *validation.Report, error) {
	scenario, err := s.loadScenario(projectPath, sets)
	if err != nil {
		return nil, nil, nil, err
	}

	schemaReport := validation.ValidateScenario(scenario)
	if !schemaReport.Valid {
		return scenario, nil, schemaReport, nil
	}

	ds, err := tables.LoadDataset(layoutFor(scenario), tables.RequestFor(scenario, cost.UnitCostFiles()), s.logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading cost tables: %w", err)
	}
	schemaReport.Merge(validation.ValidateDataset(ds, scenario))
	return scenario, ds, schemaReport, nil
}

// estimate loads, validates and costs the scenario. Input errors are printed
// and returned as an error.
func (s *session) estimate(c *cobra.Command, projectPath string, sets []string) (*spec.Scenario, *cost.Report, *analytics.Comparison, *validation.Report, error) {
	scenario, ds, schemaReport, err := s.loadAndValidate(projectPath, sets)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if !schemaReport.Valid {
		printValidationReport(s.out, schemaReport)
		return nil, nil, nil, nil, fmt.Errorf("scenario has validation errors; fix before computing cost")
	}

	costReport, err := cost.Estimate(c.Context(), ds, scenario, cost.Options{Workers: s.cfg.Workers, Logger: s.logger})
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("estimating: %w", err)
	}
	s.logger.Info("estimate complete",
		zap.String("run_id", costReport.RunID),
		zap.String("scenario", costReport.Scenario),
		zap.Int("items", len(costReport.Items)),
		zap.Float64("multiplier", costReport.Multiplier))

	cmp, cmpReport := analytics.Compare(costReport, ds, s.cfg.Tolerance)
	schemaReport.Merge(cmpReport)
	return scenario, costReport, cmp, schemaReport, nil
}

func runEstimate(c *cobra.Command, f *flags, projectPath, formatFlag, outPath string, detail bool) error {
	s, err := newSession(c, f)
	if err != nil {
		return err
	}
	defer s.close()

	format, err := outputFormat(s.cfg, formatFlag, outPath)
	if err != nil {
		return err
	}

	scenario, costReport, cmp, vReport, err := s.estimate(c, projectPath, f.sets)
	if err != nil {
		return err
	}
	tbl := report.Pivot(costReport.Items)
	if detail {
		tbl = report.PivotDetailed(costReport.Items)
	}

	w, done, err := openOutput(s.out, outPath)
	if err != nil {
		return err
	}

	if format == report.FormatText {
		printCostReport(w, scenario, costReport, tbl.InMillions())
		if len(vReport.Warnings) > 0 {
			fmt.Fprintln(w)
			printValidationReport(w, vReport)
		}
	} else if err := report.Write(w, format, costReport, tbl, cmp); err != nil {
		done()
		return fmt.Errorf("writing %s: %w", format, err)
	}
	if err := done(); err != nil {
		return err
	}
	if outPath != "" {
		s.logger.Info("wrote cost table", zap.String("path", outPath), zap.String("format", string(format)))
	}
	return nil
}

func runValidate(c *cobra.Command, f *flags, projectPath string) error {
	s, err := newSession(c, f)
	if err != nil {
		return err
	}
	defer s.close()

	scenario, ds, schemaReport, err := s.loadAndValidate(projectPath, f.sets)
	if err != nil {
		return err
	}

	// Comparison against validation figures needs a clean input.
	if schemaReport.Valid {
		costReport, err := cost.Estimate(c.Context(), ds, scenario, cost.Options{Workers: s.cfg.Workers, Logger: s.logger})
		if err != nil {
			return fmt.Errorf("estimating: %w", err)
		}
		_, cmpReport := analytics.Compare(costReport, ds, s.cfg.Tolerance)
		schemaReport.Merge(cmpReport)
	}

	printValidationReport(s.out, schemaReport)
	return schemaReport.Err()
}

func runChart(c *cobra.Command, f *flags, projectPath, outPath string) error {
	s, err := newSession(c, f)
	if err != nil {
		return err
	}
	defer s.close()

	scenario, costReport, cmp, _, err := s.estimate(c, projectPath, f.sets)
	if err != nil {
		return err
	}

	bus := scenario.PlotBusType
	p, err := chart.StackedBar(report.Pivot(costReport.Items), bus, cmp.ValidationFigures(bus), scenario.Title())
	if err != nil {
		return fmt.Errorf("drawing chart: %w", err)
	}

	if outPath == "" {
		outPath = filepath.Join(s.cfg.Output.Dir, scenario.Title()+".png")
	}
	if err := chart.Save(p, outPath); err != nil {
		return err
	}
	s.logger.Info("wrote chart", zap.String("path", outPath), zap.String("bus_type", string(bus)))
	fmt.Fprintf(s.out, "Chart written to %s\n", outPath)
	return nil
}

func runMarkup(c *cobra.Command, f *flags, projectPath string) error {
	s, err := newSession(c, f)
	if err != nil {
		return err
	}
	defer s.close()

	scenario, err := s.loadScenario(projectPath, f.sets)
	if err != nil {
		return err
	}
	path := layoutFor(scenario).CommonCostsPath()
	cc, err := tables.LoadCommonCosts(path)
	if err != nil {
		return fmt.Errorf("loading common costs: %w", err)
	}
	rates, err := cost.ResolveRates(cc, scenario.Overrides)
	if err != nil {
		return err
	}
	printMarkup(s.out, path, scenario.Overrides, rates)
	return nil
}

// outputFormat picks the format from the flag, then the output file's
// extension, then the config.
func outputFormat(cfg *config.Config, flag, outPath string) (report.Format, error) {
	switch {
	case flag != "":
		return report.ParseFormat(flag)
	case outPath != "" && filepath.Ext(outPath) != "":
		return report.ParseFormat(filepath.Ext(outPath))
	}
	return report.ParseFormat(cfg.Output.Format)
}

// openOutput returns stdout, or the file at path, and a function closing it.
func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	return file, file.Close, nil
}
