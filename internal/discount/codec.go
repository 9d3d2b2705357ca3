package discount

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// SnapshotInput is the wire shape of a cart snapshot as posted by the host
// pipeline. Prices arrive as JSON strings or numbers; malformed lines and
// options are defaulted or dropped here so they never reach the calculators.
type SnapshotInput struct {
	Lines          []LineInput          `json:"lines"`
	DeliveryGroups []DeliveryGroupInput `json:"deliveryGroups"`
}

// LineInput mirrors one cart line in the request payload.
type LineInput struct {
	MerchandiseID string          `json:"merchandiseId"`
	Quantity      int             `json:"quantity"`
	UnitPrice     json.RawMessage `json:"unitPrice"`
	CompareAt     json.RawMessage `json:"compareAtUnitPrice"`
}

// DeliveryGroupInput mirrors one delivery group in the request payload.
type DeliveryGroupInput struct {
	ID      string                `json:"id"`
	Options []DeliveryOptionInput `json:"deliveryOptions"`
}

// DeliveryOptionInput mirrors one delivery option in the request payload.
type DeliveryOptionInput struct {
	Handle string `json:"handle"`
	Title  string `json:"title"`
}

// Snapshot converts the wire shape into the validated form the evaluators
// consume. Lines without a parseable unit price are dropped; an unparseable
// compare-at price is treated as absent.
func (in SnapshotInput) Snapshot(member bool) Snapshot {
	snap := Snapshot{Member: member}
	for _, line := range in.Lines {
		unit, ok := parsePrice(line.UnitPrice)
		if !ok {
			continue
		}
		l := Line{
			MerchandiseID: strings.TrimSpace(line.MerchandiseID),
			Quantity:      line.Quantity,
			UnitPrice:     unit,
		}
		if compareAt, ok := parsePrice(line.CompareAt); ok {
			l.CompareAt = &compareAt
		}
		snap.Lines = append(snap.Lines, l)
	}
	for _, group := range in.DeliveryGroups {
		g := DeliveryGroup{ID: strings.TrimSpace(group.ID)}
		for _, opt := range group.Options {
			g.Options = append(g.Options, DeliveryOption{
				Handle: strings.TrimSpace(opt.Handle),
				Title:  strings.TrimSpace(opt.Title),
			})
		}
		snap.DeliveryGroups = append(snap.DeliveryGroups, g)
	}
	return snap
}

func parsePrice(raw json.RawMessage) (decimal.Decimal, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Decimal{}, false
	}
	var d decimal.Decimal
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ResultPayload is the wire shape of an evaluation result. Fixed amounts are
// rendered with two decimals (half-up) at this boundary only; internal
// computation keeps full precision.
type ResultPayload struct {
	Strategy  string            `json:"discountApplicationStrategy"`
	Discounts []DiscountPayload `json:"discounts"`
}

// DiscountPayload renders a single discount record.
type DiscountPayload struct {
	Message string          `json:"message"`
	Targets []TargetPayload `json:"targets"`
	Value   ValuePayload    `json:"value"`
}

// TargetPayload renders a discount target. Exactly one of MerchandiseID or
// DeliveryOptionHandle is set.
type TargetPayload struct {
	MerchandiseID        string `json:"merchandiseId,omitempty"`
	Quantity             int    `json:"quantity,omitempty"`
	DeliveryOptionHandle string `json:"deliveryOptionHandle,omitempty"`
}

// ValuePayload renders a discount value as either a fixed amount or a
// percentage.
type ValuePayload struct {
	FixedAmount *FixedAmountPayload `json:"fixedAmount,omitempty"`
	Percentage  *PercentagePayload  `json:"percentage,omitempty"`
}

// FixedAmountPayload carries a currency amount formatted to two decimals.
type FixedAmountPayload struct {
	Amount string `json:"amount"`
}

// PercentagePayload carries a percentage value.
type PercentagePayload struct {
	Value string `json:"value"`
}

// Render externalizes a Result, formatting amounts for the host pipeline.
func Render(res Result) ResultPayload {
	out := ResultPayload{
		Strategy:  string(res.Strategy),
		Discounts: make([]DiscountPayload, 0, len(res.Discounts)),
	}
	for _, d := range res.Discounts {
		payload := DiscountPayload{
			Message: d.Message,
			Targets: make([]TargetPayload, 0, len(d.Targets)),
		}
		for _, t := range d.Targets {
			payload.Targets = append(payload.Targets, TargetPayload{
				MerchandiseID:        t.MerchandiseID,
				Quantity:             t.Quantity,
				DeliveryOptionHandle: t.DeliveryOptionHandle,
			})
		}
		switch d.Value.Kind {
		case ValueFixedAmount:
			payload.Value = ValuePayload{FixedAmount: &FixedAmountPayload{Amount: d.Value.Amount.StringFixed(2)}}
		case ValuePercentage:
			payload.Value = ValuePayload{Percentage: &PercentagePayload{Value: d.Value.Percentage.String()}}
		}
		out.Discounts = append(out.Discounts, payload)
	}
	return out
}
