package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEffectiveUnitPrice(t *testing.T) {
	amount := DiscountMethodAmount
	percentage := DiscountMethodPercentage

	cases := []struct {
		name     string
		price    string
		method   *DiscountMethod
		discount string
		expected string
	}{
		{"no discount", "15", nil, "0", "15"},
		{"amount discount", "15", &amount, "2", "13"},
		{"percentage discount", "15", &percentage, "20", "12"},
		{"amount exceeding price floors at zero", "10", &amount, "12", "0"},
		{"full percentage", "10", &percentage, "100", "0"},
		{"fractional percentage", "100", &percentage, "12.5", "87.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price := decimal.RequireFromString(tc.price)
			discount := decimal.RequireFromString(tc.discount)
			expected := decimal.RequireFromString(tc.expected)

			got := EffectiveUnitPrice(price, tc.method, discount)
			if !got.Equal(expected) {
				t.Fatalf("EffectiveUnitPrice(%s, %v, %s) expected %s, got %s", tc.price, tc.method, tc.discount, expected, got)
			}
		})
	}
}
