package discount

import (
	"github.com/shopspring/decimal"
)

// Line is one cart line at evaluation time. Prices are per-unit amounts in
// the cart currency; CompareAt is the merchant-set list price and is nil when
// the merchant configured none.
type Line struct {
	MerchandiseID string
	Quantity      int
	UnitPrice     decimal.Decimal
	CompareAt     *decimal.Decimal
}

// DeliveryOption is one selectable delivery method within a group. Options
// without a handle cannot be targeted by a discount.
type DeliveryOption struct {
	Handle string
	Title  string
}

// DeliveryGroup bundles the delivery options offered for a set of lines.
type DeliveryGroup struct {
	ID      string
	Options []DeliveryOption
}

// Snapshot is the immutable cart state an evaluator operates on. Member is
// the buyer's resolved loyalty signal; the tag comparison itself happens in
// the external member lookup.
type Snapshot struct {
	Member         bool
	Lines          []Line
	DeliveryGroups []DeliveryGroup
}
