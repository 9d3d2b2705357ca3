package discount

import (
	"github.com/shopspring/decimal"
)

// Strategy declares how the host pipeline should combine this evaluator's
// discounts with other sources. It is a policy marker, not a computation
// performed here.
type Strategy string

const (
	// StrategyFirst applies the first applicable discount.
	StrategyFirst Strategy = "FIRST"
	// StrategyMaximum applies the discount benefiting the buyer most.
	StrategyMaximum Strategy = "MAXIMUM"
)

// ValueKind discriminates how a discount Value is expressed.
type ValueKind string

const (
	ValueFixedAmount ValueKind = "fixed_amount"
	ValuePercentage  ValueKind = "percentage"
)

// Value is either a fixed currency amount or a percentage, depending on Kind.
type Value struct {
	Kind       ValueKind
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// Target references a cart line or a delivery option a discount applies to.
type Target struct {
	MerchandiseID        string
	Quantity             int
	DeliveryOptionHandle string
}

// Discount is the evaluator output unit: a message, the targets it covers and
// the discount value. Constructed fresh per evaluation and never mutated.
type Discount struct {
	Message string
	Targets []Target
	Value   Value
}

// Result wraps the discounts produced by one evaluation together with the
// combination strategy marker. An inert evaluation carries an empty Discounts
// list, never a zero-amount record.
type Result struct {
	Strategy  Strategy
	Discounts []Discount
}

func emptyResult() Result {
	return Result{Strategy: StrategyFirst}
}

// EvaluateOrder computes the combined-mode order discount: a single
// fixed-amount record covering every qualifying line, with the per-unit
// discounts pre-multiplied by quantity and summed. Non-qualifying lines are
// excluded from the targets entirely.
func EvaluateOrder(snap Snapshot, s Settings, tr Tracer) Result {
	tr = ensureTracer(tr)
	if !Eligible(s, snap.Member) {
		tr.NotEligible(EvaluatorOrder, eligibilityReason(s, snap.Member))
		return emptyResult()
	}
	total := decimal.Zero
	targets := make([]Target, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		if line.Quantity <= 0 {
			tr.LineSkipped(line.MerchandiseID, "non-positive quantity")
			continue
		}
		lp, ok := PriceLine(line, s.Percentage)
		tr.LinePriced(line.MerchandiseID, lp.PerUnit, ok)
		if !ok {
			continue
		}
		targets = append(targets, Target{MerchandiseID: line.MerchandiseID, Quantity: line.Quantity})
		total = total.Add(lp.Total)
	}
	if len(targets) == 0 {
		return emptyResult()
	}
	return Result{
		Strategy: StrategyFirst,
		Discounts: []Discount{{
			Message: s.ProductMessage,
			Targets: targets,
			Value:   Value{Kind: ValueFixedAmount, Amount: total},
		}},
	}
}

// EvaluateCartTransform computes the per-line variant: one percentage-type
// record per qualifying line. The record stays per-unit; the host pipeline
// scales by quantity when it applies the percentage to the line price.
// Qualification uses the same best-price-wins rule as the order evaluator.
func EvaluateCartTransform(snap Snapshot, s Settings, tr Tracer) Result {
	tr = ensureTracer(tr)
	if !Eligible(s, snap.Member) {
		tr.NotEligible(EvaluatorCartTransform, eligibilityReason(s, snap.Member))
		return emptyResult()
	}
	pct := decimal.NewFromFloat(s.Percentage)
	discounts := make([]Discount, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		if line.Quantity <= 0 {
			tr.LineSkipped(line.MerchandiseID, "non-positive quantity")
			continue
		}
		lp, ok := PriceLine(line, s.Percentage)
		tr.LinePriced(line.MerchandiseID, lp.PerUnit, ok)
		if !ok {
			continue
		}
		discounts = append(discounts, Discount{
			Message: s.ProductMessage,
			Targets: []Target{{MerchandiseID: line.MerchandiseID, Quantity: line.Quantity}},
			Value:   Value{Kind: ValuePercentage, Percentage: pct},
		})
	}
	if len(discounts) == 0 {
		return emptyResult()
	}
	return Result{Strategy: StrategyFirst, Discounts: discounts}
}

func eligibilityReason(s Settings, member bool) string {
	switch {
	case !member:
		return "buyer is not a member"
	case !s.Enabled:
		return "product discount disabled"
	default:
		return "percentage is zero"
	}
}
