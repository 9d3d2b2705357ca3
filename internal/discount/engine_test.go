// The pure pricing core is tested with plain stdlib tables so the package
// keeps zero test dependencies; handler-level tests elsewhere use testify.
package discount

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPriceLineCompareAtBase(t *testing.T) {
	compareAt := decimal.RequireFromString("42.00")
	line := Line{MerchandiseID: "m1", Quantity: 1, UnitPrice: decimal.RequireFromString("39.00"), CompareAt: &compareAt}
	lp, ok := PriceLine(line, 10)
	if !ok {
		t.Fatalf("expected line to qualify")
	}
	if lp.PerUnit.StringFixed(2) != "1.20" {
		t.Fatalf("expected per-unit discount 1.20, got %s", lp.PerUnit)
	}
}

func TestPriceLineFallsBackToUnitPrice(t *testing.T) {
	line := Line{MerchandiseID: "m1", Quantity: 1, UnitPrice: decimal.RequireFromString("20.00")}
	lp, ok := PriceLine(line, 25)
	if !ok {
		t.Fatalf("expected line without compare-at to qualify off the unit price")
	}
	if lp.PerUnit.StringFixed(2) != "5.00" {
		t.Fatalf("expected per-unit discount 5.00, got %s", lp.PerUnit)
	}
}

func TestPriceLineBestPriceWins(t *testing.T) {
	// Retail 8.00 already beats the member target of 9.00 off the 10.00 list
	// price, so no discount may be emitted.
	compareAt := decimal.RequireFromString("10.00")
	line := Line{MerchandiseID: "m1", Quantity: 1, UnitPrice: decimal.RequireFromString("8.00"), CompareAt: &compareAt}
	if _, ok := PriceLine(line, 10); ok {
		t.Fatalf("expected non-positive discount to be dropped")
	}
}

func TestPriceLineEqualTargetDropped(t *testing.T) {
	// A zero computed discount is dropped, not emitted as zero.
	line := Line{MerchandiseID: "m1", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")}
	if _, ok := PriceLine(line, 0); ok {
		t.Fatalf("expected zero-percent pricing to be dropped")
	}
}

func TestPriceLineZeroBase(t *testing.T) {
	line := Line{MerchandiseID: "m1", Quantity: 1, UnitPrice: decimal.Zero}
	if _, ok := PriceLine(line, 50); ok {
		t.Fatalf("expected line without usable reference price to be skipped")
	}
}

func TestPriceLineQuantityScaling(t *testing.T) {
	compareAt := decimal.RequireFromString("34.00")
	line := Line{MerchandiseID: "m1", Quantity: 2, UnitPrice: decimal.RequireFromString("34.00"), CompareAt: &compareAt}
	lp, ok := PriceLine(line, 10)
	if !ok {
		t.Fatalf("expected line to qualify")
	}
	if lp.PerUnit.StringFixed(2) != "3.40" {
		t.Fatalf("expected per-unit discount 3.40, got %s", lp.PerUnit)
	}
	if lp.Total.StringFixed(2) != "6.80" {
		t.Fatalf("expected line total discount 6.80, got %s", lp.Total)
	}
}

func TestEligibleShortCircuits(t *testing.T) {
	cases := []struct {
		name   string
		s      Settings
		member bool
		want   bool
	}{
		{"member with enabled settings", Settings{Enabled: true, Percentage: 10}, true, true},
		{"non-member", Settings{Enabled: true, Percentage: 10}, false, false},
		{"disabled", Settings{Enabled: false, Percentage: 10}, true, false},
		{"zero percentage", Settings{Enabled: true, Percentage: 0}, true, false},
	}
	for _, tc := range cases {
		if got := Eligible(tc.s, tc.member); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
