package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rshade/fleetcost/internal/catalog"
)

// ResolveParameters picks the effective scenario values.
// Priority order: positive scenario value > catalog parameter > zero.
// Overrides of zero or below are treated as absent.
func ResolveParameters(s Scenario, params catalog.ParameterSet) Resolved {
	vehicle := s.Vehicle
	if vehicle == "" {
		vehicle = catalog.VehicleTrailer
	}
	return Resolved{
		DistancePerDay:         positiveOr(s.DistancePerDay, params.Value(catalog.ParamDistancePerDayDefault)),
		DaysPerMonth:           positiveOr(s.DaysPerMonth, params.Value(catalog.ParamDaysPerMonthDefault)),
		Margin:                 overrideOr(s.MarginOverride, params.Value(catalog.ParamMargin)),
		CO2PricePerTon:         overrideOr(s.CO2PricePerTonOverride, params.Value(catalog.ParamCO2PricePerTon)),
		TariffCorrectionFactor: params.Value(catalog.ParamTariffCorrectionFactor),
		Vehicle:                vehicle,
	}
}

func positiveOr(v, fallback decimal.Decimal) decimal.Decimal {
	if v.IsPositive() {
		return v
	}
	return fallback
}

func overrideOr(v decimal.NullDecimal, fallback decimal.Decimal) decimal.Decimal {
	if v.Valid {
		return positiveOr(v.Decimal, fallback)
	}
	return fallback
}
