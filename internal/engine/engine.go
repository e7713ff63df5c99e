package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rshade/fleetcost/internal/catalog"
)

// Calculate runs the full cost calculation for a scenario.
//
// Active energies are validated first; an unknown classification aborts the
// whole calculation with catalog.ErrUnrecognizedClassification. When the
// resolved monthly distance is not positive the summary carries no results.
// Otherwise simple energies are computed first and combined energies second,
// each pass in catalog order, so a combined energy can read the emissions of
// any simple base. The results are ranked by Rank.
func Calculate(s Scenario, energies []catalog.EnergyDefinition, params catalog.ParameterSet) (Summary, error) {
	resolved := ResolveParameters(s, params)
	summary := Summary{
		Results:        []Result{},
		DistancePerDay: resolved.DistancePerDay,
		DaysPerMonth:   resolved.DaysPerMonth,
		Resolved:       resolved,
	}

	for _, e := range energies {
		if !e.IsActive {
			continue
		}
		if err := e.Validate(); err != nil {
			return Summary{}, err
		}
	}

	monthlyDistance := resolved.MonthlyDistance()
	if !monthlyDistance.IsPositive() {
		return summary, nil
	}

	index := NewIndex(energies)
	cache := make(EmissionCache, len(energies))
	results := make([]Result, 0, len(energies))

	for _, mode := range []catalog.EnergyMode{catalog.ModeSimple, catalog.ModeCombined} {
		for _, e := range energies {
			if !e.IsActive || e.Mode != mode {
				continue
			}
			r, err := computeResult(e, index, cache, resolved, monthlyDistance)
			if err != nil {
				return Summary{}, err
			}
			cache[e.ID] = r.EmissionsPerDistance
			results = append(results, r)
		}
	}

	summary.Results = Rank(results)
	return summary, nil
}

func computeResult(
	e catalog.EnergyDefinition,
	index Index,
	cache EmissionCache,
	resolved Resolved,
	monthlyDistance decimal.Decimal,
) (Result, error) {
	costs, err := AggregateCosts(e.CostComponents, monthlyDistance)
	if err != nil {
		return Result{}, err
	}

	emissions := EmissionsPerDistance(e, index, cache)
	carbonPerDistance := CarbonCostPerDistance(emissions, resolved.CO2PricePerTon)
	carbonMonthly := carbonPerDistance.Mul(monthlyDistance)

	total := costs.Total.Add(carbonMonthly).Div(monthlyDistance)
	costPerDay := total.Mul(resolved.DistancePerDay)

	return Result{
		EnergyID:                 e.ID,
		EnergyCode:               e.Code,
		EnergyName:               e.Name,
		Family:                   e.Family,
		Mode:                     e.Mode,
		EnergyCostPerDistance:    e.PricePerUnit.Mul(e.ConsumptionPerDistance()),
		CarbonCostPerDistance:    carbonPerDistance,
		OperatingCostPerDistance: costs.Total.Div(monthlyDistance),
		TotalCostPerDistance:     total,
		CostPerDay:               costPerDay,
		SuggestedTariff:          costPerDay.Mul(one.Add(resolved.Margin)),
		EmissionsPerDistance:     emissions,
		MonthlyCosts:             costs,
	}, nil
}

// CarbonCostPerDistance prices emissions (kg CO2 per distance unit) at a
// price per metric ton. A non-positive price yields zero.
func CarbonCostPerDistance(emissions, pricePerTon decimal.Decimal) decimal.Decimal {
	if !pricePerTon.IsPositive() {
		return decimal.Zero
	}
	return pricePerTon.Div(KgPerTon).Mul(emissions)
}
