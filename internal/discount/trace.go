package discount

import "github.com/shopspring/decimal"

// Evaluator names used by the trace side-channel and domain metrics.
const (
	EvaluatorOrder         = "order-discount"
	EvaluatorCartTransform = "cart-transform"
	EvaluatorShipping      = "shipping-discount"
)

// Tracer observes evaluator decision points. It is a pure side-channel: the
// returned result is identical whether or not a tracer is installed.
type Tracer interface {
	NotEligible(evaluator, reason string)
	LinePriced(merchandiseID string, perUnit decimal.Decimal, applies bool)
	LineSkipped(merchandiseID, reason string)
}

// NopTracer discards all trace events.
type NopTracer struct{}

func (NopTracer) NotEligible(string, string) {}

func (NopTracer) LinePriced(string, decimal.Decimal, bool) {}

func (NopTracer) LineSkipped(string, string) {}

func ensureTracer(tr Tracer) Tracer {
	if tr == nil {
		return NopTracer{}
	}
	return tr
}
