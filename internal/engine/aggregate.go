package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rshade/fleetcost/internal/catalog"
)

// AggregateCosts folds cost components into monthly buckets.
//
//  1. MonthlyAmount values are added to their category bucket as is
//  2. PerDistanceRate values are multiplied by monthlyDistance first
//  3. PercentageOverSubtotal values are summed into a fraction
//  4. OverheadPercentage = (Fixed + Variable + OverheadFixed) × fraction
//  5. Total = Fixed + Variable + OverheadFixed + OverheadPercentage
//
// Percentages always apply to the subtotal whatever their category.
func AggregateCosts(components []catalog.CostComponent, monthlyDistance decimal.Decimal) (CostTotals, error) {
	var totals CostTotals
	fraction := decimal.Zero

	for _, c := range components {
		var bucket *decimal.Decimal
		switch c.Category {
		case catalog.CategoryFixed:
			bucket = &totals.Fixed
		case catalog.CategoryVariable:
			bucket = &totals.Variable
		case catalog.CategoryOverhead:
			bucket = &totals.OverheadFixed
		default:
			return CostTotals{}, fmt.Errorf("component %s: %w: category %q",
				c.Key, catalog.ErrUnrecognizedClassification, c.Category)
		}

		switch c.ValueType {
		case catalog.ValueMonthlyAmount:
			*bucket = bucket.Add(c.Value)
		case catalog.ValuePerDistanceRate:
			*bucket = bucket.Add(c.Value.Mul(monthlyDistance))
		case catalog.ValuePercentageOverSubtotal:
			fraction = fraction.Add(c.Value)
		default:
			return CostTotals{}, fmt.Errorf("component %s: %w: value type %q",
				c.Key, catalog.ErrUnrecognizedClassification, c.ValueType)
		}
	}

	subtotal := totals.Subtotal()
	totals.PercentageFraction = fraction
	totals.OverheadPercentage = subtotal.Mul(fraction)
	totals.Total = subtotal.Add(totals.OverheadPercentage)
	return totals, nil
}
