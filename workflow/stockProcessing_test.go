package workflow

import (
	"errors"
	"testing"

	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMergeAverageCost(t *testing.T) {
	cases := []struct {
		name     string
		oldQty   string
		oldAvg   string
		inQty    string
		inCost   string
		expected string
	}{
		{"restock at higher cost", "10", "100", "10", "200", "150"},
		{"first lot", "0", "0", "10", "100", "100"},
		{"uneven weights", "30", "100", "10", "200", "125"},
		{"zero merged quantity keeps previous average", "0", "175", "0", "50", "175"},
		{"fractional result rounds to 4 places", "3", "10", "1", "11", "10.25"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MergeAverageCost(dec(tc.oldQty), dec(tc.oldAvg), dec(tc.inQty), dec(tc.inCost))
			if !got.Equal(dec(tc.expected)) {
				t.Fatalf("MergeAverageCost expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestNextQuantityClampsWhenNotStrict(t *testing.T) {
	next, clamped, err := NextQuantity(dec("5"), dec("-8"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !clamped {
		t.Fatal("expected clamp")
	}
	if !next.IsZero() {
		t.Fatalf("expected zero quantity, got %s", next)
	}
}

func TestNextQuantityStrictRejectsShortfall(t *testing.T) {
	next, clamped, err := NextQuantity(dec("5"), dec("-8"), true)
	if !errors.Is(err, utils.ErrorInsufficientStock) {
		t.Fatalf("expected ErrorInsufficientStock, got %v", err)
	}
	if clamped {
		t.Fatal("strict mode must not clamp")
	}
	if !next.Equal(dec("5")) {
		t.Fatalf("quantity must be unchanged on rejection, got %s", next)
	}
}

func TestNextQuantityNormalDecrement(t *testing.T) {
	next, clamped, err := NextQuantity(dec("20"), dec("-5"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clamped {
		t.Fatal("unexpected clamp")
	}
	if !next.Equal(dec("15")) {
		t.Fatalf("expected 15, got %s", next)
	}
}

func TestNextQuantityExactDepletion(t *testing.T) {
	next, clamped, err := NextQuantity(dec("8"), dec("-8"), true)
	if err != nil || clamped {
		t.Fatalf("exact depletion must succeed, got clamped=%v err=%v", clamped, err)
	}
	if !next.IsZero() {
		t.Fatalf("expected zero, got %s", next)
	}
}

func TestEditedAverageCost(t *testing.T) {
	cases := []struct {
		name      string
		poolQty   string
		poolAvg   string
		nextQty   string
		origQty   string
		origPrice string
		newQty    string
		newPrice  string
		expected  string
	}{
		{"same-price quantity decrease keeps average", "20", "100", "15", "10", "100", "5", "100", "100"},
		{"same-price quantity increase keeps average", "20", "100", "25", "10", "100", "15", "100", "100"},
		{"price-only change reprices the line", "20", "100", "20", "10", "100", "10", "110", "105"},
		{"price and quantity change", "20", "100", "25", "10", "100", "15", "120", "112"},
		{"depleted quantity keeps previous average", "5", "100", "0", "10", "100", "5", "100", "100"},
		{"negative result floors at zero", "10", "10", "10", "10", "50", "10", "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EditedAverageCost(dec(tc.poolQty), dec(tc.poolAvg), dec(tc.nextQty), dec(tc.origQty), dec(tc.origPrice), dec(tc.newQty), dec(tc.newPrice))
			if !got.Equal(dec(tc.expected)) {
				t.Fatalf("EditedAverageCost expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestSellingPriceFor(t *testing.T) {
	cases := []struct {
		name     string
		avgCost  string
		margin   string
		expected string
	}{
		{"ten percent margin", "150", "10", "165"},
		{"zero margin", "150", "0", "150"},
		{"rounds to cents", "99.99", "12.5", "112.49"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SellingPriceFor(dec(tc.avgCost), dec(tc.margin))
			if !got.Equal(dec(tc.expected)) {
				t.Fatalf("SellingPriceFor(%s, %s) expected %s, got %s", tc.avgCost, tc.margin, tc.expected, got)
			}
		})
	}
}
