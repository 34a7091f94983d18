package utils

import (
	"github.com/shopspring/decimal"
)

type DiscountMethod string

const (
	DiscountMethodAmount     DiscountMethod = "amount"
	DiscountMethodPercentage DiscountMethod = "percentage"
)

// EffectiveUnitPrice applies a per-unit discount to a unit price.
// "amount" subtracts a flat amount per unit, "percentage" subtracts
// price * discount/100. The result never goes below zero.
func EffectiveUnitPrice(price decimal.Decimal, method *DiscountMethod, discount decimal.Decimal) decimal.Decimal {

	decimalOneHundred := decimal.NewFromInt(100)

	unitPrice := price
	if method != nil {
		switch *method {
		case DiscountMethodAmount:
			unitPrice = price.Sub(discount)
		case DiscountMethodPercentage:
			unitPrice = price.Sub(price.Mul(discount).DivRound(decimalOneHundred, 4))
		}
	}

	if unitPrice.IsNegative() {
		return decimal.Zero
	}
	return unitPrice
}
