package discount_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-perks/internal/discount"
)

func line(id string, qty int, unit string, compareAt string) discount.Line {
	l := discount.Line{
		MerchandiseID: id,
		Quantity:      qty,
		UnitPrice:     decimal.RequireFromString(unit),
	}
	if compareAt != "" {
		c := decimal.RequireFromString(compareAt)
		l.CompareAt = &c
	}
	return l
}

func memberSettings(pct float64) discount.Settings {
	s := discount.ParseSettings(nil)
	s.Enabled = true
	s.Percentage = pct
	return s
}

func TestEvaluateOrderCombinedTotal(t *testing.T) {
	t.Parallel()

	snap := discount.Snapshot{
		Member: true,
		Lines: []discount.Line{
			line("m1", 1, "34.00", "34.00"),
			line("m2", 1, "8.00", "10.00"),
			line("m3", 1, "39.00", "42.00"),
		},
	}
	res := discount.EvaluateOrder(snap, memberSettings(10), nil)
	require.Len(t, res.Discounts, 1)
	d := res.Discounts[0]
	require.Equal(t, discount.ValueFixedAmount, d.Value.Kind)
	require.Equal(t, "4.60", d.Value.Amount.StringFixed(2))
	// m2 is excluded entirely: retail already beats the member target.
	require.Equal(t, []discount.Target{
		{MerchandiseID: "m1", Quantity: 1},
		{MerchandiseID: "m3", Quantity: 1},
	}, d.Targets)
	require.Equal(t, discount.StrategyFirst, res.Strategy)
	require.Equal(t, discount.DefaultProductMessage, d.Message)
}

func TestEvaluateOrderQuantityScaling(t *testing.T) {
	t.Parallel()

	snap := discount.Snapshot{Member: true, Lines: []discount.Line{line("m1", 2, "34.00", "34.00")}}
	res := discount.EvaluateOrder(snap, memberSettings(10), nil)
	require.Len(t, res.Discounts, 1)
	require.Equal(t, "6.80", res.Discounts[0].Value.Amount.StringFixed(2))
}

func TestEvaluateOrderNonMemberEmpty(t *testing.T) {
	t.Parallel()

	snap := discount.Snapshot{Member: false, Lines: []discount.Line{line("m1", 1, "34.00", "34.00")}}
	res := discount.EvaluateOrder(snap, memberSettings(10), nil)
	require.Empty(t, res.Discounts)
	require.Equal(t, discount.StrategyFirst, res.Strategy)
}

func TestEvaluateOrderClampedPercentages(t *testing.T) {
	t.Parallel()

	snap := discount.Snapshot{Member: true, Lines: []discount.Line{line("m1", 1, "34.00", "34.00")}}

	at150 := discount.ParseSettings([]byte(`{"enabled":true,"percentage":150}`))
	at100 := discount.ParseSettings([]byte(`{"enabled":true,"percentage":100}`))
	require.Equal(t, discount.EvaluateOrder(snap, at100, nil), discount.EvaluateOrder(snap, at150, nil))

	atNegative := discount.ParseSettings([]byte(`{"enabled":true,"percentage":-10}`))
	require.Empty(t, discount.EvaluateOrder(snap, atNegative, nil).Discounts)
}

func TestEvaluateOrderMalformedSettings(t *testing.T) {
	t.Parallel()

	snap := discount.Snapshot{Member: true, Lines: []discount.Line{line("m1", 1, "34.00", "34.00")}}
	s := discount.ParseSettings([]byte(`{"enabled":true,"percentage":"invalid"}`))
	require.Empty(t, discount.EvaluateOrder(snap, s, nil).Discounts)
}

func TestEvaluateOrderNoQualifyingLines(t *testing.T) {
	t.Parallel()

	snap := discount.Snapshot{
		Member: true,
		Lines: []discount.Line{
			line("m1", 1, "8.00", "10.00"),
			line("m2", 0, "34.00", "34.00"),
			line("m3", 1, "0.00", ""),
		},
	}
	res := discount.EvaluateOrder(snap, memberSettings(10), nil)
	require.Empty(t, res.Discounts)
}

func TestEvaluateOrderIdempotent(t *testing.T) {
	t.Parallel()

	snap := discount.Snapshot{
		Member: true,
		Lines: []discount.Line{
			line("m1", 3, "19.99", "24.99"),
			line("m2", 1, "5.00", ""),
		},
	}
	s := memberSettings(7.5)
	first := discount.Render(discount.EvaluateOrder(snap, s, nil))
	second := discount.Render(discount.EvaluateOrder(snap, s, nil))
	require.Equal(t, first, second)
}

func TestEvaluateCartTransformPerLine(t *testing.T) {
	t.Parallel()

	snap := discount.Snapshot{
		Member: true,
		Lines: []discount.Line{
			line("m1", 2, "34.00", "34.00"),
			line("m2", 1, "8.00", "10.00"),
			line("m3", 1, "39.00", "42.00"),
		},
	}
	res := discount.EvaluateCartTransform(snap, memberSettings(10), nil)
	require.Len(t, res.Discounts, 2)
	for _, d := range res.Discounts {
		require.Equal(t, discount.ValuePercentage, d.Value.Kind)
		require.Equal(t, "10", d.Value.Percentage.String())
		require.Len(t, d.Targets, 1)
	}
	require.Equal(t, "m1", res.Discounts[0].Targets[0].MerchandiseID)
	require.Equal(t, 2, res.Discounts[0].Targets[0].Quantity)
	require.Equal(t, "m3", res.Discounts[1].Targets[0].MerchandiseID)
}

func TestEvaluateCartTransformDisabledByDefault(t *testing.T) {
	t.Parallel()

	// enabled absent in the payload means the pricing evaluators stay off.
	s := discount.ParseSettings([]byte(`{"percentage":10}`))
	snap := discount.Snapshot{Member: true, Lines: []discount.Line{line("m1", 1, "34.00", "34.00")}}
	require.Empty(t, discount.EvaluateCartTransform(snap, s, nil).Discounts)
}
