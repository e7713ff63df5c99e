package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Rank fills the comparison ratios against the BaselineCode and
// CombinedBaselineCode results and sorts ascending by total cost per distance.
// Ties keep their input order. The input slice is not modified.
func Rank(results []Result) []Result {
	baseline, hasBaseline := findByCode(results, BaselineCode)
	combined, hasCombined := findByCode(results, CombinedBaselineCode)

	ranked := make([]Result, len(results))
	for i, r := range results {
		if hasBaseline && !baseline.TotalCostPerDistance.IsZero() {
			r.ExtraCostVsBaseline = ratioMinusOne(r.TotalCostPerDistance, baseline.TotalCostPerDistance)
		} else {
			r.ExtraCostVsBaseline = decimal.Zero
		}

		r.EmissionReductionVsBaseline = decimal.NullDecimal{}
		if hasBaseline && !baseline.EmissionsPerDistance.IsZero() {
			reduction := baseline.EmissionsPerDistance.Sub(r.EmissionsPerDistance).Div(baseline.EmissionsPerDistance)
			r.EmissionReductionVsBaseline = decimal.NewNullDecimal(reduction)
		}

		r.ExtraCostVsCombinedBaseline = decimal.NullDecimal{}
		if hasCombined && !combined.TotalCostPerDistance.IsZero() {
			r.ExtraCostVsCombinedBaseline = decimal.NewNullDecimal(
				ratioMinusOne(r.TotalCostPerDistance, combined.TotalCostPerDistance))
		}

		ranked[i] = r
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalCostPerDistance.LessThan(ranked[j].TotalCostPerDistance)
	})
	return ranked
}

// findByCode returns the first result carrying code.
func findByCode(results []Result, code string) (Result, bool) {
	for _, r := range results {
		if r.EnergyCode == code {
			return r, true
		}
	}
	return Result{}, false
}

func ratioMinusOne(v, base decimal.Decimal) decimal.Decimal {
	return v.Div(base).Sub(one)
}
