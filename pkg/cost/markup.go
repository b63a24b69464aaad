package cost

import (
	"fmt"
	"sort"

	"github.com/rrolph575/costmodel-substation/pkg/tables"
)

// Rates are the fractional soft-cost, contingency and financing rates.
type Rates struct {
	ProjectManagement     float64 `json:"project_management"`
	AdministrativeGeneral float64 `json:"administrative_general"`
	Engineering           float64 `json:"engineering"`
	Contingency           float64 `json:"contingency"`
	AFUDC                 float64 `json:"afudc"`
}

// SoftCostMultiplier is 1 + project management + A&G + engineering.
func (r Rates) SoftCostMultiplier() float64 {
	return 1 + r.ProjectManagement + r.AdministrativeGeneral + r.Engineering
}

// Multiplier is the total markup applied to hard costs:
// soft cost multiplier x (1 + contingency) x (1 + AFUDC).
func (r Rates) Multiplier() float64 {
	return r.SoftCostMultiplier() * (1 + r.Contingency) * (1 + r.AFUDC)
}

// ResolveRates reads the rates from the common cost table after applying
// overrides. Overrides must name rates the table defines; rates must be
// non-negative.
func ResolveRates(cc *tables.CommonCosts, overrides map[string]float64) (Rates, error) {
	rates := cc.Map()
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, ok := rates[key]; !ok {
			return Rates{}, &tables.MissingKeyError{Table: cc.Path, Key: key}
		}
		rates[key] = overrides[key]
	}

	var r Rates
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{RateProjectManagement, &r.ProjectManagement},
		{RateAdministrativeGeneral, &r.AdministrativeGeneral},
		{RateEngineering, &r.Engineering},
		{RateContingency, &r.Contingency},
		{RateAFUDC, &r.AFUDC},
	} {
		val, ok := rates[f.name]
		if !ok {
			return Rates{}, &tables.MissingKeyError{Table: cc.Path, Key: f.name}
		}
		if val < 0 {
			return Rates{}, fmt.Errorf("%s: rate %s is negative (%g)", cc.Path, f.name, val)
		}
		*f.dst = val
	}
	return r, nil
}

// Multiplier resolves the rates with overrides and returns the markup.
func Multiplier(cc *tables.CommonCosts, overrides map[string]float64) (float64, error) {
	r, err := ResolveRates(cc, overrides)
	if err != nil {
		return 0, err
	}
	return r.Multiplier(), nil
}
