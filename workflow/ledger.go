package workflow

import (
	"errors"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Balance mutations are expressed in SQL so concurrent documents against the
// same account, customer, or supplier compose without read-modify-write races.
// A zero delta or a missing counterparty row is a no-op; the latter is logged
// because it indicates a concurrently deleted master record.

func applyAccountDelta(tx *gorm.DB, logger *logrus.Logger, accountId int, delta decimal.Decimal) error {
	if accountId <= 0 || delta.IsZero() {
		return nil
	}
	result := tx.Model(&models.Account{}).Where("id = ?", accountId).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		config.LogError(logger, "ledger.go", "applyAccountDelta", "updating account balance", accountId, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		config.LogWarn(logger, "ledger.go", "applyAccountDelta", "skipping balance delta", accountId, "account not found")
	}
	return nil
}

func applyCustomerCreditDelta(tx *gorm.DB, logger *logrus.Logger, customerId int, delta decimal.Decimal) error {
	// customerId zero is a walk-in sale, which carries no credit.
	if customerId <= 0 || delta.IsZero() {
		return nil
	}
	result := tx.Model(&models.Customer{}).Where("id = ?", customerId).
		Update("credit", gorm.Expr("credit + ?", delta))
	if result.Error != nil {
		config.LogError(logger, "ledger.go", "applyCustomerCreditDelta", "updating customer credit", customerId, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		config.LogWarn(logger, "ledger.go", "applyCustomerCreditDelta", "skipping credit delta", customerId, "customer not found")
	}
	return nil
}

func applySupplierPayableDelta(tx *gorm.DB, logger *logrus.Logger, supplierId int, delta decimal.Decimal) error {
	if supplierId <= 0 || delta.IsZero() {
		return nil
	}
	result := tx.Model(&models.Supplier{}).Where("id = ?", supplierId).
		Update("payable", gorm.Expr("payable + ?", delta))
	if result.Error != nil {
		config.LogError(logger, "ledger.go", "applySupplierPayableDelta", "updating supplier payable", supplierId, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		config.LogWarn(logger, "ledger.go", "applySupplierPayableDelta", "skipping payable delta", supplierId, "supplier not found")
	}
	return nil
}

func applySalesInvoicePaidDelta(tx *gorm.DB, logger *logrus.Logger, invoiceId int, delta decimal.Decimal) error {
	if invoiceId <= 0 || delta.IsZero() {
		return nil
	}
	result := tx.Model(&models.SalesInvoice{}).Where("id = ?", invoiceId).
		Update("paid_amount", gorm.Expr("paid_amount + ?", delta))
	if result.Error != nil {
		config.LogError(logger, "ledger.go", "applySalesInvoicePaidDelta", "updating invoice paid amount", invoiceId, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		config.LogWarn(logger, "ledger.go", "applySalesInvoicePaidDelta", "skipping paid delta", invoiceId, "sales invoice not found")
	}
	return nil
}

func applyPurchaseInvoicePaidDelta(tx *gorm.DB, logger *logrus.Logger, invoiceId int, delta decimal.Decimal) error {
	if invoiceId <= 0 || delta.IsZero() {
		return nil
	}
	result := tx.Model(&models.PurchaseInvoice{}).Where("id = ?", invoiceId).
		Update("paid_amount", gorm.Expr("paid_amount + ?", delta))
	if result.Error != nil {
		config.LogError(logger, "ledger.go", "applyPurchaseInvoicePaidDelta", "updating invoice paid amount", invoiceId, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		config.LogWarn(logger, "ledger.go", "applyPurchaseInvoicePaidDelta", "skipping paid delta", invoiceId, "purchase invoice not found")
	}
	return nil
}

func applyExpensePaidDelta(tx *gorm.DB, logger *logrus.Logger, expenseId int, delta decimal.Decimal) error {
	if expenseId <= 0 || delta.IsZero() {
		return nil
	}
	result := tx.Model(&models.Expense{}).Where("id = ?", expenseId).
		Update("paid_amount", gorm.Expr("paid_amount + ?", delta))
	if result.Error != nil {
		config.LogError(logger, "ledger.go", "applyExpensePaidDelta", "updating expense paid amount", expenseId, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		config.LogWarn(logger, "ledger.go", "applyExpensePaidDelta", "skipping paid delta", expenseId, "expense not found")
	}
	return nil
}

// applyPayableDelta settles a payment delta against whichever kind of payable
// the payment references. For purchase invoices the supplier's outstanding
// payable shrinks by the same amount that the invoice's paid amount grows.
func applyPayableDelta(tx *gorm.DB, logger *logrus.Logger, payableType models.PayableType, payableId int, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	switch payableType {
	case models.PayableTypePurchaseInvoice:
		var invoice models.PurchaseInvoice
		if err := tx.First(&invoice, payableId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				config.LogWarn(logger, "ledger.go", "applyPayableDelta", "skipping payable delta", payableId, "purchase invoice not found")
				return nil
			}
			return err
		}
		if err := applyPurchaseInvoicePaidDelta(tx, logger, payableId, delta); err != nil {
			return err
		}
		return applySupplierPayableDelta(tx, logger, invoice.SupplierId, delta.Neg())
	case models.PayableTypeExpense:
		return applyExpensePaidDelta(tx, logger, payableId, delta)
	default:
		config.LogWarn(logger, "ledger.go", "applyPayableDelta", "skipping payable delta", payableId, "unknown payable type "+string(payableType))
		return nil
	}
}
