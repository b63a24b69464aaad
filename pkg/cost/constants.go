package cost

// Cost categories that are not named after a component table.
const (
	CategoryAccessRoad = "Access road"
	CategoryTerrain    = "Terrain"
	CategorySoftCost   = "softcost"
)

// Subcategories of cable items.
const (
	SubcategoryMaterials    = "Materials"
	SubcategoryInstallation = "Installation"
)

// Common cost rate names.
const (
	RateProjectManagement     = "project_management"
	RateAdministrativeGeneral = "administrative_general"
	RateEngineering           = "engineering"
	RateContingency           = "contingency"
	RateAFUDC                 = "afudc"
)

// Cable is a run of cable, conduit or trench costed per length.
type Cable struct {
	Name string
	File string
	// Field is the spec table row holding the length in feet.
	Field string
	// FeetPerUnit is the length the unit costs are quoted for.
	FeetPerUnit float64
}

// Component is a discrete piece of equipment costed per item.
type Component struct {
	Name  string
	File  string
	Field string
}

// Cables are costed per 1,000 ft (cable, conduit) or per ft (trench).
var Cables = []Cable{
	{Name: "control_cable", File: "control_cable_unit_costs.csv", Field: "control_cable_ft", FeetPerUnit: 1000},
	{Name: "conduit", File: "conduit_unit_costs.csv", Field: "conduit_ft", FeetPerUnit: 1000},
	{Name: "cable_trench", File: "cable_trench_unit_costs.csv", Field: "cable_trench_ft", FeetPerUnit: 1},
}

// Components lists the discrete equipment with its unit-cost table and the
// spec table field holding the count.
var Components = []Component{
	{Name: "circuit_breaker", File: "circuit_breaker_unit_costs.csv", Field: "circuit_breaker"},
	{Name: "disconnect_switches", File: "disconnect_switch_unit_costs.csv", Field: "disconnect_switches"},
	{Name: "bus_support", File: "bus_unit_costs.csv", Field: "bus_support"},
	{Name: "voltage_transformers", File: "voltage_transformer_unit_costs.csv", Field: "voltage_transformers"},
	{Name: "control_enclosure", File: "control_enclosure_unit_costs.csv", Field: "control_enclosure"},
	{Name: "relay_panel", File: "relay_panel_costs.csv", Field: "relay_panel"},
	{Name: "deadend_struct", File: "deadend_angled_structure_costs.csv", Field: "deadend_struct"},
}

// UnitCostFiles returns every unit-cost table the model reads.
func UnitCostFiles() []string {
	files := make([]string, 0, len(Cables)+len(Components))
	for _, c := range Cables {
		files = append(files, c.File)
	}
	for _, c := range Components {
		files = append(files, c.File)
	}
	return files
}

// Categories returns every category in display order, softcost last.
func Categories() []string {
	cats := []string{CategoryAccessRoad, CategoryTerrain}
	for _, c := range Cables {
		cats = append(cats, c.Name)
	}
	for _, c := range Components {
		cats = append(cats, c.Name)
	}
	return append(cats, CategorySoftCost)
}

// RequiredFields returns the spec table rows the aggregator reads.
func RequiredFields() []string {
	fields := []string{"access_road_miles", "acres"}
	for _, c := range Cables {
		fields = append(fields, c.Field)
	}
	for _, c := range Components {
		fields = append(fields, c.Field)
	}
	return fields
}
