package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rshade/fleetcost/internal/catalog"
)

// Scenario is the user input of a calculation. Zero or negative values fall
// back to the catalog parameters.
type Scenario struct {
	DistancePerDay         decimal.Decimal
	DaysPerMonth           decimal.Decimal
	Vehicle                catalog.VehicleConfiguration
	MarginOverride         decimal.NullDecimal
	CO2PricePerTonOverride decimal.NullDecimal
}

// Resolved holds the scenario values after parameter resolution.
type Resolved struct {
	DistancePerDay decimal.Decimal
	DaysPerMonth   decimal.Decimal
	Margin         decimal.Decimal
	CO2PricePerTon decimal.Decimal
	// TariffCorrectionFactor is resolved and reported but not applied.
	TariffCorrectionFactor decimal.Decimal
	Vehicle                catalog.VehicleConfiguration
}

// MonthlyDistance is DistancePerDay times DaysPerMonth.
func (r Resolved) MonthlyDistance() decimal.Decimal {
	return r.DistancePerDay.Mul(r.DaysPerMonth)
}

// CostTotals is the monthly cost breakdown of one energy.
type CostTotals struct {
	Fixed              decimal.Decimal
	Variable           decimal.Decimal
	OverheadFixed      decimal.Decimal
	OverheadPercentage decimal.Decimal
	// PercentageFraction is the summed fraction of all percentage components.
	PercentageFraction decimal.Decimal
	Total              decimal.Decimal
}

// Subtotal is the sum of the fixed, variable and fixed overhead buckets.
func (c CostTotals) Subtotal() decimal.Decimal {
	return c.Fixed.Add(c.Variable).Add(c.OverheadFixed)
}

// Result is the computed outcome for one energy. Values are unrounded.
type Result struct {
	EnergyID   uuid.UUID
	EnergyCode string
	EnergyName string
	Family     catalog.Family
	Mode       catalog.EnergyMode

	EnergyCostPerDistance    decimal.Decimal
	CarbonCostPerDistance    decimal.Decimal
	OperatingCostPerDistance decimal.Decimal
	TotalCostPerDistance     decimal.Decimal
	CostPerDay               decimal.Decimal
	SuggestedTariff          decimal.Decimal
	// EmissionsPerDistance is kg CO2 per distance unit.
	EmissionsPerDistance decimal.Decimal

	// ExtraCostVsBaseline is zero when no usable baseline exists.
	ExtraCostVsBaseline         decimal.Decimal
	EmissionReductionVsBaseline decimal.NullDecimal
	ExtraCostVsCombinedBaseline decimal.NullDecimal

	MonthlyCosts CostTotals
}

// Summary is the engine output.
type Summary struct {
	Results        []Result
	DistancePerDay decimal.Decimal
	DaysPerMonth   decimal.Decimal
	Resolved       Resolved
}
