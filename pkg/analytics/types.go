package analytics

import "github.com/rrolph575/costmodel-substation/pkg/spec"

// Deviation compares one estimate total against its validation figure.
// Money values are in millions.
type Deviation struct {
	Bus           spec.BusType `json:"bus_type"`
	Voltage       spec.Voltage `json:"kv"`
	EstimateM     float64      `json:"estimate_musd"`
	ValidationM   float64      `json:"validation_musd"`
	HasValidation bool         `json:"has_validation"`
	DifferenceM   float64      `json:"difference_musd"`
	Relative      float64      `json:"relative_deviation"`
}

// Comparison holds every deviation of a report, in report order.
type Comparison struct {
	Tolerance  float64     `json:"tolerance"`
	Deviations []Deviation `json:"deviations"`
}

// ForBus returns the deviations of one topology, ordered by voltage as in
// the report.
func (c *Comparison) ForBus(bus spec.BusType) []Deviation {
	var out []Deviation
	for _, d := range c.Deviations {
		if d.Bus == bus {
			out = append(out, d)
		}
	}
	return out
}

// ValidationFigures returns the validation figure of each voltage for one
// topology; voltages without a figure are omitted.
func (c *Comparison) ValidationFigures(bus spec.BusType) map[spec.Voltage]float64 {
	out := make(map[spec.Voltage]float64)
	for _, d := range c.ForBus(bus) {
		if d.HasValidation {
			out[d.Voltage] = d.ValidationM
		}
	}
	return out
}
