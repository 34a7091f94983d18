package workflow

import (
	"errors"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ComputeSalesInvoiceTotal sums the line totals after per-line discounts.
func ComputeSalesInvoiceTotal(items []models.SalesInvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].LineTotal())
	}
	return total
}

// ComputePurchaseInvoiceTotal sums quantity times unit price over the lines.
func ComputePurchaseInvoiceTotal(items []models.PurchaseInvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Price.Mul(items[i].Quantity))
	}
	return total
}

// RecomputeSalesInvoiceTotal re-derives an invoice total from its current
// lines and pushes the difference into the customer's credit. Applying the
// delta rather than the absolute total keeps the recompute idempotent: a
// second run sees a zero delta and changes nothing downstream.
func RecomputeSalesInvoiceTotal(tx *gorm.DB, logger *logrus.Logger, invoiceId int) error {
	var invoice models.SalesInvoice
	if err := tx.First(&invoice, invoiceId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			config.LogWarn(logger, "invoiceTotals.go", "RecomputeSalesInvoiceTotal", "skipping recompute", invoiceId, "sales invoice not found")
			return nil
		}
		return err
	}
	var items []models.SalesInvoiceItem
	if err := tx.Where("sales_invoice_id = ?", invoiceId).Find(&items).Error; err != nil {
		return err
	}
	newTotal := ComputeSalesInvoiceTotal(items)
	delta := newTotal.Sub(invoice.TotalAmount)
	if delta.IsZero() {
		return nil
	}
	if err := tx.Model(&invoice).Update("total_amount", newTotal).Error; err != nil {
		config.LogError(logger, "invoiceTotals.go", "RecomputeSalesInvoiceTotal", "updating invoice total", invoiceId, err)
		return err
	}
	return applyCustomerCreditDelta(tx, logger, invoice.CustomerId, delta)
}

// RecomputePurchaseInvoiceTotal is the purchase-side counterpart; the delta
// lands on the supplier's payable.
func RecomputePurchaseInvoiceTotal(tx *gorm.DB, logger *logrus.Logger, invoiceId int) error {
	var invoice models.PurchaseInvoice
	if err := tx.First(&invoice, invoiceId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			config.LogWarn(logger, "invoiceTotals.go", "RecomputePurchaseInvoiceTotal", "skipping recompute", invoiceId, "purchase invoice not found")
			return nil
		}
		return err
	}
	var items []models.PurchaseInvoiceItem
	if err := tx.Where("purchase_invoice_id = ?", invoiceId).Find(&items).Error; err != nil {
		return err
	}
	newTotal := ComputePurchaseInvoiceTotal(items)
	delta := newTotal.Sub(invoice.TotalAmount)
	if delta.IsZero() {
		return nil
	}
	if err := tx.Model(&invoice).Update("total_amount", newTotal).Error; err != nil {
		config.LogError(logger, "invoiceTotals.go", "RecomputePurchaseInvoiceTotal", "updating invoice total", invoiceId, err)
		return err
	}
	return applySupplierPayableDelta(tx, logger, invoice.SupplierId, delta)
}
