package workflow

import (
	"testing"

	"github.com/msretail/retail_backend/models"
	"github.com/msretail/retail_backend/utils"
)

func TestComputeSalesInvoiceTotalWithAmountDiscount(t *testing.T) {
	amount := utils.DiscountMethodAmount
	items := []models.SalesInvoiceItem{
		{Quantity: dec("10"), Price: dec("15"), DiscountMethod: &amount, DiscountAmount: dec("2")},
	}
	got := ComputeSalesInvoiceTotal(items)
	if !got.Equal(dec("130")) {
		t.Fatalf("expected 130, got %s", got)
	}
}

func TestComputeSalesInvoiceTotalWithPercentageDiscount(t *testing.T) {
	percentage := utils.DiscountMethodPercentage
	items := []models.SalesInvoiceItem{
		{Quantity: dec("10"), Price: dec("15"), DiscountMethod: &percentage, DiscountAmount: dec("20")},
	}
	got := ComputeSalesInvoiceTotal(items)
	if !got.Equal(dec("120")) {
		t.Fatalf("expected 120, got %s", got)
	}
}

func TestComputeSalesInvoiceTotalMixedLines(t *testing.T) {
	amount := utils.DiscountMethodAmount
	items := []models.SalesInvoiceItem{
		{Quantity: dec("2"), Price: dec("100")},
		{Quantity: dec("5"), Price: dec("40"), DiscountMethod: &amount, DiscountAmount: dec("5")},
	}
	// 200 + 5*35
	got := ComputeSalesInvoiceTotal(items)
	if !got.Equal(dec("375")) {
		t.Fatalf("expected 375, got %s", got)
	}
}

func TestComputeSalesInvoiceTotalEmpty(t *testing.T) {
	if got := ComputeSalesInvoiceTotal(nil); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
}

func TestComputePurchaseInvoiceTotal(t *testing.T) {
	items := []models.PurchaseInvoiceItem{
		{Quantity: dec("10"), Price: dec("100")},
		{Quantity: dec("10"), Price: dec("200")},
	}
	got := ComputePurchaseInvoiceTotal(items)
	if !got.Equal(dec("3000")) {
		t.Fatalf("expected 3000, got %s", got)
	}
}
