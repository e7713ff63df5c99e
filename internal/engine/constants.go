// Package engine computes per-energy operating cost, carbon cost, emissions
// and tariff for a fleet scenario, and ranks the energies by total cost.
//
// The engine is pure: it never mutates its inputs and holds no state between
// calls, so a catalog snapshot may be shared by concurrent calculations.
package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rshade/fleetcost/internal/catalog"
)

var (
	one = decimal.NewFromInt(1)

	// KgPerTon converts a price per metric ton of CO2 to a price per kg.
	KgPerTon = decimal.NewFromInt(1000)

	// CombinedBaseFactorDivisor halves the base emission factor for the
	// combined gasoil configuration: one of the two tractors runs on the
	// base fuel's factor over half the consumption.
	CombinedBaseFactorDivisor = decimal.NewFromInt(2)

	// CombinedBiomethaneEmissionShare is the share of the base biomethane
	// emissions kept by the combined biomethane configuration.
	CombinedBiomethaneEmissionShare = decimal.RequireFromString("0.7")

	// CombinedHVOEmissionFactor is the fixed kg CO2 per consumption unit used
	// by the combined HVO configuration.
	CombinedHVOEmissionFactor = decimal.RequireFromString("0.174")
)

// Baseline codes used by Rank for the comparison ratios.
const (
	BaselineCode         = catalog.CodeDiesel
	CombinedBaselineCode = catalog.CodeDuoGasoil
)
