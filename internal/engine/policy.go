package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rshade/fleetcost/internal/catalog"
)

// CombinedPolicy selects how a combined energy derives its emissions.
type CombinedPolicy int

const (
	// PolicyNone yields zero emissions.
	PolicyNone CombinedPolicy = iota
	// PolicyHalvedBaseFactor: consumption × base factor / 2.
	PolicyHalvedBaseFactor
	// PolicyReducedBaseEmissions: base emissions × CombinedBiomethaneEmissionShare.
	PolicyReducedBaseEmissions
	// PolicyFixedFactor: consumption × CombinedHVOEmissionFactor.
	PolicyFixedFactor
	// PolicyInheritedBaseEmissions: base emissions copied as is.
	PolicyInheritedBaseEmissions
)

var combinedPolicies = map[string]CombinedPolicy{
	catalog.CodeDuoGasoil:    PolicyHalvedBaseFactor,
	catalog.CodeDuoBiometano: PolicyReducedBaseEmissions,
	catalog.CodeDuoHVO:       PolicyFixedFactor,
	catalog.CodeDuoElectrico: PolicyInheritedBaseEmissions,
}

// CombinedPolicyFor returns the policy bound to a combined energy code.
// Codes outside the table get PolicyNone.
func CombinedPolicyFor(code string) CombinedPolicy {
	if p, ok := combinedPolicies[code]; ok {
		return p
	}
	return PolicyNone
}

// String returns the policy name.
func (p CombinedPolicy) String() string {
	switch p {
	case PolicyHalvedBaseFactor:
		return "halved-base-factor"
	case PolicyReducedBaseEmissions:
		return "reduced-base-emissions"
	case PolicyFixedFactor:
		return "fixed-factor"
	case PolicyInheritedBaseEmissions:
		return "inherited-base-emissions"
	default:
		return "none"
	}
}

// CombinedInputs carries everything a combined policy may read.
type CombinedInputs struct {
	ConsumptionPerDistance decimal.Decimal
	BaseFactor             decimal.Decimal
	// BaseEmissions is the cached emissions of the base energy; invalid when
	// the base has not been processed.
	BaseEmissions decimal.NullDecimal
}

// Emissions applies the policy. A missing base emission yields zero.
func (p CombinedPolicy) Emissions(in CombinedInputs) decimal.Decimal {
	switch p {
	case PolicyHalvedBaseFactor:
		return in.ConsumptionPerDistance.Mul(in.BaseFactor).Div(CombinedBaseFactorDivisor)
	case PolicyReducedBaseEmissions:
		if !in.BaseEmissions.Valid {
			return decimal.Zero
		}
		return in.BaseEmissions.Decimal.Mul(CombinedBiomethaneEmissionShare)
	case PolicyFixedFactor:
		return in.ConsumptionPerDistance.Mul(CombinedHVOEmissionFactor)
	case PolicyInheritedBaseEmissions:
		if !in.BaseEmissions.Valid {
			return decimal.Zero
		}
		return in.BaseEmissions.Decimal
	default:
		return decimal.Zero
	}
}
