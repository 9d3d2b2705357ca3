package discount

import (
	"github.com/shopspring/decimal"
)

// EvaluateShipping grants members a 100% discount on every available delivery
// option. Eligibility only requires membership and the freeShipping flag; the
// percentage setting does not apply here. Options lacking a handle are
// skipped, and a result with zero usable targets is returned empty because a
// targetless discount is meaningless to the host pipeline.
func EvaluateShipping(snap Snapshot, s Settings, tr Tracer) Result {
	tr = ensureTracer(tr)
	if !snap.Member || !s.FreeShipping {
		reason := "buyer is not a member"
		if snap.Member {
			reason = "free shipping disabled"
		}
		tr.NotEligible(EvaluatorShipping, reason)
		return emptyResult()
	}
	var targets []Target
	for _, group := range snap.DeliveryGroups {
		for _, opt := range group.Options {
			if opt.Handle == "" {
				tr.LineSkipped(group.ID, "delivery option without handle")
				continue
			}
			targets = append(targets, Target{DeliveryOptionHandle: opt.Handle})
		}
	}
	if len(targets) == 0 {
		return emptyResult()
	}
	return Result{
		Strategy: StrategyFirst,
		Discounts: []Discount{{
			Message: s.ShippingMessage,
			Targets: targets,
			Value:   Value{Kind: ValuePercentage, Percentage: decimal.NewFromInt(100)},
		}},
	}
}
