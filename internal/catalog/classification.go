package catalog

import (
	"fmt"
	"strings"
)

// EnergyMode distinguishes standalone energies from combined (DUO)
// configurations that derive from a base energy.
type EnergyMode string

const (
	ModeSimple   EnergyMode = "Simple"
	ModeCombined EnergyMode = "Combined"
)

// Valid reports whether m is a known mode.
func (m EnergyMode) Valid() bool {
	return m == ModeSimple || m == ModeCombined
}

// ParseEnergyMode parses a mode name, accepting "Duo" as an alias of Combined.
func ParseEnergyMode(s string) (EnergyMode, error) {
	switch normalize(s) {
	case "simple":
		return ModeSimple, nil
	case "combined", "duo":
		return ModeCombined, nil
	}
	return "", fmt.Errorf("%w: energy mode %q", ErrUnrecognizedClassification, s)
}

// Family groups energies by fuel kind. It is informational only.
type Family string

const (
	FamilyDiesel     Family = "Diesel"
	FamilyNaturalGas Family = "NaturalGas"
	FamilyHydrogen   Family = "Hydrogen"
	FamilyBiomethane Family = "Biomethane"
	FamilyElectric   Family = "Electric"
	FamilyHVO        Family = "HVO"
	FamilyOther      Family = "Other"
)

var familyAliases = map[string]Family{
	"diesel":     FamilyDiesel,
	"gasoil":     FamilyDiesel,
	"naturalgas": FamilyNaturalGas,
	"gasnatural": FamilyNaturalGas,
	"hydrogen":   FamilyHydrogen,
	"h2":         FamilyHydrogen,
	"hidrogeno":  FamilyHydrogen,
	"biomethane": FamilyBiomethane,
	"biometano":  FamilyBiomethane,
	"electric":   FamilyElectric,
	"electrico":  FamilyElectric,
	"hvo":        FamilyHVO,
	"other":      FamilyOther,
	"otro":       FamilyOther,
}

// ParseFamily parses a family name.
func ParseFamily(s string) (Family, error) {
	if f, ok := familyAliases[normalize(s)]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: family %q", ErrUnrecognizedClassification, s)
}

// CostCategory buckets cost components.
type CostCategory string

const (
	CategoryFixed    CostCategory = "Fixed"
	CategoryVariable CostCategory = "Variable"
	CategoryOverhead CostCategory = "Overhead"
)

// Valid reports whether c is a known category.
func (c CostCategory) Valid() bool {
	switch c {
	case CategoryFixed, CategoryVariable, CategoryOverhead:
		return true
	}
	return false
}

// ParseCostCategory parses a category name.
func ParseCostCategory(s string) (CostCategory, error) {
	switch normalize(s) {
	case "fixed":
		return CategoryFixed, nil
	case "variable":
		return CategoryVariable, nil
	case "overhead":
		return CategoryOverhead, nil
	}
	return "", fmt.Errorf("%w: cost category %q", ErrUnrecognizedClassification, s)
}

// ValueType says how a component value turns into a monthly amount.
type ValueType string

const (
	// ValueMonthlyAmount is added as is.
	ValueMonthlyAmount ValueType = "MonthlyAmount"
	// ValuePerDistanceRate is multiplied by the monthly distance.
	ValuePerDistanceRate ValueType = "PerDistanceRate"
	// ValuePercentageOverSubtotal is a fraction applied over the subtotal.
	ValuePercentageOverSubtotal ValueType = "PercentageOverSubtotal"
)

// Valid reports whether v is a known value type.
func (v ValueType) Valid() bool {
	switch v {
	case ValueMonthlyAmount, ValuePerDistanceRate, ValuePercentageOverSubtotal:
		return true
	}
	return false
}

// ParseValueType parses a value type, accepting the short seed-file aliases.
func ParseValueType(s string) (ValueType, error) {
	switch normalize(s) {
	case "monthlyamount", "monthly":
		return ValueMonthlyAmount, nil
	case "perdistancerate", "perkilometerrate", "perkmrate", "perkm":
		return ValuePerDistanceRate, nil
	case "percentageoversubtotal", "percentage", "percent":
		return ValuePercentageOverSubtotal, nil
	}
	return "", fmt.Errorf("%w: value type %q", ErrUnrecognizedClassification, s)
}

// ParameterCategory groups system parameters for display.
type ParameterCategory string

const (
	ParamCategoryGeneral   ParameterCategory = "General"
	ParamCategoryOperation ParameterCategory = "Operation"
	ParamCategoryPricing   ParameterCategory = "Pricing"
	ParamCategoryCorridor  ParameterCategory = "Corridor"
	ParamCategoryEmissions ParameterCategory = "Emissions"
)

// ParseParameterCategory parses a parameter category name.
func ParseParameterCategory(s string) (ParameterCategory, error) {
	switch normalize(s) {
	case "general":
		return ParamCategoryGeneral, nil
	case "operation":
		return ParamCategoryOperation, nil
	case "pricing":
		return ParamCategoryPricing, nil
	case "corridor":
		return ParamCategoryCorridor, nil
	case "emissions":
		return ParamCategoryEmissions, nil
	}
	return "", fmt.Errorf("%w: parameter category %q", ErrUnrecognizedClassification, s)
}

// VehicleConfiguration is the trailer setup of a scenario. It does not
// change any figure today.
type VehicleConfiguration string

const (
	VehicleTrailer VehicleConfiguration = "Trailer"
	VehicleDolly   VehicleConfiguration = "Dolly"
)

// ParseVehicleConfiguration parses a vehicle configuration. Empty input
// yields Trailer.
func ParseVehicleConfiguration(s string) (VehicleConfiguration, error) {
	switch normalize(s) {
	case "", "trailer":
		return VehicleTrailer, nil
	case "dolly":
		return VehicleDolly, nil
	}
	return "", fmt.Errorf("%w: vehicle configuration %q", ErrUnrecognizedClassification, s)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
