package spec

import (
	"fmt"
	"strconv"
	"strings"
)

// Voltage is a nominal substation voltage in kV.
type Voltage int

// Voltages lists every supported voltage level in ascending order.
var Voltages = []Voltage{69, 115, 138, 161, 230, 345, 500, 765}

// Valid reports whether v is one of the supported voltage levels.
func (v Voltage) Valid() bool {
	for _, known := range Voltages {
		if v == known {
			return true
		}
	}
	return false
}

func (v Voltage) String() string {
	return strconv.Itoa(int(v))
}

// ParseVoltage parses a table header or cell such as "500" or "500.0".
func ParseVoltage(s string) (Voltage, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing voltage %q: %w", s, err)
	}
	v := Voltage(int(f))
	if float64(v) != f || !v.Valid() {
		return 0, fmt.Errorf("unsupported voltage %q (want one of %v)", s, Voltages)
	}
	return v, nil
}

// BusType is the substation bus arrangement (topology).
type BusType string

const (
	BusRing           BusType = "ring"
	BusBreakerAndHalf BusType = "breaker_and_half"
	BusDoubleBreaker  BusType = "double_breaker"
)

// BusTypes lists every known topology in display order.
var BusTypes = []BusType{BusRing, BusBreakerAndHalf, BusDoubleBreaker}

// Valid reports whether b is a known topology.
func (b BusType) Valid() bool {
	switch b {
	case BusRing, BusBreakerAndHalf, BusDoubleBreaker:
		return true
	}
	return false
}

// Label returns a human-readable topology name.
func (b BusType) Label() string {
	switch b {
	case BusRing:
		return "Ring bus"
	case BusBreakerAndHalf:
		return "Breaker-and-a-half"
	case BusDoubleBreaker:
		return "Double breaker"
	}
	return string(b)
}

// SubstationOption distinguishes extending an existing substation from
// building a new one.
type SubstationOption string

const (
	OptionUpgrade SubstationOption = "upgrade"
	OptionNew     SubstationOption = "new"
)

// Positions returns the position counts tabulated for the option.
// An upgrade adds 1 or 2 positions; a new substation is built with 4 or 6.
func (o SubstationOption) Positions() []int {
	switch o {
	case OptionUpgrade:
		return []int{1, 2}
	case OptionNew:
		return []int{4, 6}
	}
	return nil
}

// Valid reports whether o is a known option.
func (o SubstationOption) Valid() bool {
	return o.Positions() != nil
}

// AllowsPositions reports whether n positions are tabulated for the option.
func (o SubstationOption) AllowsPositions(n int) bool {
	for _, p := range o.Positions() {
		if p == n {
			return true
		}
	}
	return false
}

// LandType keys the terrain cost table.
type LandType string

const (
	LandLightVegetation LandType = "light_veg"
	LandForest          LandType = "forest"
	LandWetland         LandType = "wetland"
)

// Scenario selects which configuration to cost and how to present it.
type Scenario struct {
	Name         string             `yaml:"name" json:"name"`
	Region       string             `yaml:"region" json:"region"`
	Year         int                `yaml:"year" json:"year"`
	CurrencyYear int                `yaml:"currency_year" json:"currency_year"`
	DataRoot     string             `yaml:"data_root" json:"data_root,omitempty"`
	Option       SubstationOption   `yaml:"substation_option" json:"substation_option"`
	Positions    int                `yaml:"num_positions" json:"num_positions"`
	LandType     LandType           `yaml:"landtype" json:"landtype"`
	Voltages     []Voltage          `yaml:"voltages" json:"voltages"`
	BusTypes     []BusType          `yaml:"bus_types" json:"bus_types"`
	PlotBusType  BusType            `yaml:"bus_type_for_plot" json:"bus_type_for_plot"`
	Overrides    map[string]float64 `yaml:"common_cost_overrides" json:"common_cost_overrides,omitempty"`
}

// Default returns the scenario the cost model is usually run with:
// a new 4-position substation on lightly vegetated land, all voltages,
// all topologies, USD2024.
func Default() *Scenario {
	return &Scenario{
		Name:         "default",
		Region:       "MISO",
		Year:         2024,
		CurrencyYear: 2024,
		Option:       OptionNew,
		Positions:    4,
		LandType:     LandLightVegetation,
		Voltages:     append([]Voltage(nil), Voltages...),
		BusTypes:     append([]BusType(nil), BusTypes...),
		PlotBusType:  BusBreakerAndHalf,
	}
}

// SpecTableName returns the file name of the quantity table for one topology.
func (s *Scenario) SpecTableName(bus BusType) string {
	return fmt.Sprintf("substation_%s_%d_positions_%s.csv", s.Option, s.Positions, bus)
}

// Title is the chart and report caption for the scenario.
func (s *Scenario) Title() string {
	return fmt.Sprintf("%s_%s_%dpositions_%s", s.Option, s.PlotBusType, s.Positions, s.LandType)
}
