package discount

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// LinePrice is the computed outcome of pricing a single cart line. PerUnit is
// the discount per unit and Total is PerUnit scaled by the line quantity.
// Both retain full precision; rounding happens only when a result is
// externalized.
type LinePrice struct {
	PerUnit decimal.Decimal
	Total   decimal.Decimal
}

// Eligible reports whether the pricing evaluators should run at all for this
// buyer. A non-member, a disabled store or a zero percentage all short-circuit
// before any line is inspected.
func Eligible(s Settings, member bool) bool {
	return member && s.Enabled && s.Percentage > 0
}

// PriceLine applies percent off the line's reference price and reports
// whether the discount qualifies. The reference price is the compare-at price
// when present and positive, otherwise the current unit price. A line
// qualifies only when the member target price strictly undercuts the price
// already charged (best price wins); a discount system can only ever lower
// the charge, so non-positive computed discounts are dropped, not clamped.
func PriceLine(line Line, percent float64) (LinePrice, bool) {
	base := line.UnitPrice
	if line.CompareAt != nil && line.CompareAt.IsPositive() {
		base = *line.CompareAt
	}
	if !base.IsPositive() {
		return LinePrice{}, false
	}
	pct := decimal.NewFromFloat(percent)
	target := base.Mul(oneHundred.Sub(pct)).Div(oneHundred)
	perUnit := line.UnitPrice.Sub(target)
	if !perUnit.IsPositive() {
		return LinePrice{}, false
	}
	qty := line.Quantity
	if qty < 0 {
		qty = 0
	}
	return LinePrice{
		PerUnit: perUnit,
		Total:   perUnit.Mul(decimal.NewFromInt(int64(qty))),
	}, true
}
