package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rshade/fleetcost/internal/catalog"
)

// Index looks energies up by id. It includes inactive energies so that
// references to them still resolve.
type Index map[uuid.UUID]catalog.EnergyDefinition

// NewIndex builds an Index over the given energies.
func NewIndex(energies []catalog.EnergyDefinition) Index {
	ix := make(Index, len(energies))
	for _, e := range energies {
		ix[e.ID] = e
	}
	return ix
}

// Lookup resolves an optional reference. Dangling references report false.
func (ix Index) Lookup(id uuid.NullUUID) (catalog.EnergyDefinition, bool) {
	if !id.Valid {
		return catalog.EnergyDefinition{}, false
	}
	e, ok := ix[id.UUID]
	return e, ok
}

// EmissionCache holds the emissions per distance of energies already
// processed in the current calculation.
type EmissionCache map[uuid.UUID]decimal.Decimal

// Lookup returns the cached emissions for an optional reference.
func (c EmissionCache) Lookup(id uuid.NullUUID) decimal.NullDecimal {
	if !id.Valid {
		return decimal.NullDecimal{}
	}
	v, ok := c[id.UUID]
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(v)
}

// EmissionsPerDistance returns kg CO2 per distance unit for one energy.
//
// Simple energies:
//  1. zero when the energy's own factor is not positive
//  2. factor = reference energy's factor when the reference resolves,
//     otherwise the energy's own factor
//  3. emissions = consumption × factor × ((1 - share) + share × (1 - reduction))
//
// Combined energies follow the policy selected by their code, see
// CombinedPolicyFor.
func EmissionsPerDistance(e catalog.EnergyDefinition, index Index, cache EmissionCache) decimal.Decimal {
	consumption := e.ConsumptionPerDistance()

	if e.Mode == catalog.ModeCombined {
		return CombinedPolicyFor(e.Code).Emissions(CombinedInputs{
			ConsumptionPerDistance: consumption,
			BaseFactor:             combinedBaseFactor(e, index),
			BaseEmissions:          cache.Lookup(e.BaseEnergyID),
		})
	}

	if !e.EmissionFactorPerUnit.IsPositive() {
		return decimal.Zero
	}

	factor := e.EmissionFactorPerUnit
	if ref, ok := index.Lookup(e.EmissionReferenceEnergyID); ok {
		factor = ref.EmissionFactorPerUnit
	}

	share := valueOrZero(e.RenewableShare)
	reduction := valueOrZero(e.EmissionReduction)
	fossil := one.Sub(share)
	renewable := share.Mul(one.Sub(reduction))

	return consumption.Mul(factor).Mul(fossil.Add(renewable))
}

// combinedBaseFactor picks the factor a combined energy borrows.
// Priority order: emission reference > base energy > own factor.
func combinedBaseFactor(e catalog.EnergyDefinition, index Index) decimal.Decimal {
	if ref, ok := index.Lookup(e.EmissionReferenceEnergyID); ok {
		return ref.EmissionFactorPerUnit
	}
	if base, ok := index.Lookup(e.BaseEnergyID); ok {
		return base.EmissionFactorPerUnit
	}
	return e.EmissionFactorPerUnit
}

func valueOrZero(v decimal.NullDecimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return decimal.Zero
}
