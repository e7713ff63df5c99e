package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rshade/fleetcost/internal/catalog"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(d(s))
}

func ref(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func assertClose(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	diff := want.Sub(got).Abs()
	assert.True(t, diff.LessThan(d("0.000000000001")), "want %s, got %s", want, got)
}

func energy(code string, mode catalog.EnergyMode, price, consumption, factor string) catalog.EnergyDefinition {
	return catalog.EnergyDefinition{
		ID:                    uuid.New(),
		Code:                  code,
		Name:                  code,
		Family:                catalog.FamilyOther,
		Mode:                  mode,
		PricePerUnit:          d(price),
		ConsumptionPer100:     d(consumption),
		EmissionFactorPerUnit: d(factor),
		IsActive:              true,
	}
}

func component(category catalog.CostCategory, valueType catalog.ValueType, value string) catalog.CostComponent {
	return catalog.CostComponent{
		ID:        uuid.New(),
		Key:       catalog.GenerateKey(string(category) + " " + string(valueType) + " " + value),
		Category:  category,
		ValueType: valueType,
		Value:     d(value),
	}
}

func paramSet(kv map[string]string) catalog.ParameterSet {
	set := catalog.ParameterSet{}
	for k, v := range kv {
		set[k] = d(v)
	}
	return set
}

func resultByCode(t *testing.T, results []Result, code string) Result {
	t.Helper()
	for _, r := range results {
		if r.EnergyCode == code {
			return r
		}
	}
	t.Fatalf("no result for %s", code)
	return Result{}
}
