package main

import (
	"os"

	"github.com/spf13/cobra"
)

// flags shared by every command.
type flags struct {
	configPath string
	dataRoot   string
	verbose    bool
	workers    int
	sets       []string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:          "subcost",
		Short:        "Substation capital cost model",
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "path to a subcost YAML config file")
	pf.StringVar(&f.dataRoot, "data-root", "", "cost table root, overriding the scenario's data_root")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	pf.IntVar(&f.workers, "workers", 0, "voltages to cost concurrently")
	pf.StringArrayVar(&f.sets, "set", nil, "override a common cost rate, e.g. --set contingency=0")

	cmd.AddCommand(estimateCmd(f))
	cmd.AddCommand(validateCmd(f))
	cmd.AddCommand(chartCmd(f))
	cmd.AddCommand(markupCmd(f))
	return cmd
}

func estimateCmd(f *flags) *cobra.Command {
	var format, out string
	var detail bool

	cmd := &cobra.Command{
		Use:   "estimate [project-path]",
		Short: "Compute the cost table for every topology and voltage",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runEstimate(c, f, args[0], format, out, detail)
		},
	}

	cmd.Flags().BoolVar(&detail, "detail", false, "split cable columns into materials and installation")
	cmd.Flags().StringVar(&format, "format", "", "output format: text, csv, json or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func validateCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Check the scenario and cost tables and compare totals with validation figures",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runValidate(c, f, args[0])
		},
	}
}

func chartCmd(f *flags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "chart [project-path]",
		Short: "Draw the stacked cost chart for the scenario's plot topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runChart(c, f, args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "image path; the extension picks the format (default <output dir>/<title>.png)")
	return cmd
}

func markupCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "markup [project-path]",
		Short: "Show the common cost rates and the resulting markup multiplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runMarkup(c, f, args[0])
		},
	}
}
