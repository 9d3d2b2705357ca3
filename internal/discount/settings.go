package discount

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Default display messages used when a store has not configured its own.
const (
	DefaultProductMessage  = "Member Discount"
	DefaultShippingMessage = "Free Shipping for Members"
)

// Settings is the sanitized per-store perks configuration consumed by the
// evaluators. It is rebuilt from the raw payload on every evaluation and is
// never mutated afterwards.
type Settings struct {
	// Percentage is the discount applied to the reference price, already
	// clamped to [0,100].
	Percentage float64
	// Enabled gates the pricing evaluators. Absent in the payload means off.
	Enabled bool
	// FreeShipping gates the shipping evaluator. Absent in the payload means
	// on; stores opt out explicitly. The asymmetry with Enabled is deliberate.
	FreeShipping bool
	// MemberTag is the loyalty tag the external lookup compares against.
	MemberTag string
	// ProductMessage and ShippingMessage are the display strings attached to
	// emitted discounts.
	ProductMessage  string
	ShippingMessage string
}

type rawSettings struct {
	Percentage              any    `json:"percentage"`
	Enabled                 *bool  `json:"enabled"`
	FreeShipping            *bool  `json:"freeShipping"`
	MemberTag               string `json:"memberTag"`
	ProductDiscountMessage  string `json:"productDiscountMessage"`
	ShippingDiscountMessage string `json:"shippingDiscountMessage"`
}

// ParseSettings decodes a raw settings payload leniently. Malformed, empty or
// null payloads yield defaults rather than an error: a broken configuration
// must silently disable the feature, never break a checkout evaluation.
func ParseSettings(raw []byte) Settings {
	s := Settings{
		FreeShipping:    true,
		ProductMessage:  DefaultProductMessage,
		ShippingMessage: DefaultShippingMessage,
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return s
	}
	var payload rawSettings
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return s
	}
	s.Percentage = clampPercentage(coerceNumber(payload.Percentage))
	if payload.Enabled != nil {
		s.Enabled = *payload.Enabled
	}
	if payload.FreeShipping != nil {
		s.FreeShipping = *payload.FreeShipping
	}
	s.MemberTag = strings.TrimSpace(payload.MemberTag)
	if msg := strings.TrimSpace(payload.ProductDiscountMessage); msg != "" {
		s.ProductMessage = msg
	}
	if msg := strings.TrimSpace(payload.ShippingDiscountMessage); msg != "" {
		s.ShippingMessage = msg
	}
	return s
}

// coerceNumber reads a JSON-decoded value as a finite float. Numeric strings
// are accepted because older admin clients stored the percentage quoted.
func coerceNumber(v any) float64 {
	switch value := v.(type) {
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return 0
		}
		return value
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func clampPercentage(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
