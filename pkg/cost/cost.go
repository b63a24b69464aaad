package cost

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rrolph575/costmodel-substation/pkg/spec"
	"github.com/rrolph575/costmodel-substation/pkg/tables"
)

// Key identifies one topology at one voltage.
type Key struct {
	Bus     spec.BusType `json:"bus_type"`
	Voltage spec.Voltage `json:"kv"`
}

// Summary totals the costs of one topology at one voltage.
type Summary struct {
	Key
	HardCost float64 `json:"hard_cost"`
	SoftCost float64 `json:"soft_cost"`
	Total    float64 `json:"total"`
}

// Report is the complete cost output of one scenario.
type Report struct {
	RunID        string                `json:"run_id"`
	Scenario     string                `json:"scenario"`
	Option       spec.SubstationOption `json:"substation_option"`
	Positions    int                   `json:"num_positions"`
	LandType     spec.LandType         `json:"landtype"`
	CurrencyYear int                   `json:"currency_year"`
	BusTypes     []spec.BusType        `json:"bus_types"`
	Voltages     []spec.Voltage        `json:"voltages"`
	Rates        Rates                 `json:"rates"`
	Multiplier   float64               `json:"multiplier"`
	Items        []LineItem            `json:"items"`
}

// Options tunes Estimate.
type Options struct {
	// Workers > 1 costs that many voltages concurrently.
	Workers int
	Logger  *zap.Logger
}

// Estimate costs every voltage and topology of the scenario. The items are
// ordered by scenario voltage, then category, then topology, regardless of
// the number of workers.
func Estimate(ctx context.Context, ds *tables.Dataset, s *spec.Scenario, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rates, err := ResolveRates(ds.Common, s.Overrides)
	if err != nil {
		return nil, fmt.Errorf("resolving markup: %w", err)
	}
	mult := rates.Multiplier()

	report := &Report{
		RunID:        uuid.NewString(),
		Scenario:     s.Name,
		Option:       s.Option,
		Positions:    s.Positions,
		LandType:     s.LandType,
		CurrencyYear: s.CurrencyYear,
		BusTypes:     append([]spec.BusType(nil), ds.BusTypes...),
		Voltages:     append([]spec.Voltage(nil), s.Voltages...),
		Rates:        rates,
		Multiplier:   mult,
	}

	perVoltage := make([][]LineItem, len(s.Voltages))
	costVoltage := func(i int) error {
		v := s.Voltages[i]
		items, err := EstimateVoltage(ds, v, s.LandType, mult)
		if err != nil {
			return fmt.Errorf("%d kV: %w", v, err)
		}
		perVoltage[i] = items
		logger.Debug("Costed voltage",
			zap.String("run_id", report.RunID),
			zap.Int("kv", int(v)),
			zap.Int("items", len(items)))
		return nil
	}

	if opts.Workers <= 1 {
		for i := range s.Voltages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := costVoltage(i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i := range s.Voltages {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return costVoltage(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	for _, items := range perVoltage {
		report.Items = append(report.Items, items...)
	}

	logger.Info("Estimated substation costs",
		zap.String("run_id", report.RunID),
		zap.String("scenario", s.Name),
		zap.Int("voltages", len(s.Voltages)),
		zap.Int("bus_types", len(ds.BusTypes)),
		zap.Float64("multiplier", mult))
	return report, nil
}

// EstimateVoltage returns the hard costs of every topology at voltage v
// followed by one softcost item per topology.
func EstimateVoltage(ds *tables.Dataset, v spec.Voltage, lt spec.LandType, multiplier float64) ([]LineItem, error) {
	hard, err := HardCosts(ds, v, lt)
	if err != nil {
		return nil, err
	}
	return append(hard, SoftCosts(hard, ds.BusTypes, v, multiplier)...), nil
}

// CategoryTotals rolls items up by topology, voltage and category; material
// and installation subcategories are summed into their category.
func CategoryTotals(items []LineItem) map[Key]map[string]float64 {
	out := make(map[Key]map[string]float64)
	for _, it := range items {
		k := Key{Bus: it.Bus, Voltage: it.Voltage}
		if out[k] == nil {
			out[k] = make(map[string]float64)
		}
		out[k][it.Category] += it.Amount
	}
	return out
}

// Totals sums items per topology and voltage.
func Totals(items []LineItem) map[Key]float64 {
	out := make(map[Key]float64)
	for _, it := range items {
		out[Key{Bus: it.Bus, Voltage: it.Voltage}] += it.Amount
	}
	return out
}

// Summaries splits each topology/voltage total into hard and soft cost, in
// report order.
func (r *Report) Summaries() []Summary {
	var out []Summary
	index := make(map[Key]int)
	for _, it := range r.Items {
		k := Key{Bus: it.Bus, Voltage: it.Voltage}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Summary{Key: k})
		}
		if it.Category == CategorySoftCost {
			out[i].SoftCost += it.Amount
		} else {
			out[i].HardCost += it.Amount
		}
		out[i].Total += it.Amount
	}
	return out
}

// Total returns the marked-up cost of one topology at one voltage.
func (r *Report) Total(bus spec.BusType, v spec.Voltage) float64 {
	var sum float64
	for _, it := range r.Items {
		if it.Bus == bus && it.Voltage == v {
			sum += it.Amount
		}
	}
	return sum
}
