package workflow

import (
	"context"
	"errors"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/models"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateReceipt records money received against a sales invoice. The account
// balance and invoice paid amount go up, the customer's credit goes down.
func CreateReceipt(ctx context.Context, input *models.NewReceipt) (*models.Receipt, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if !input.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	if err := utils.ValidateResourceId[models.Account](ctx, input.AccountId); err != nil {
		return nil, err
	}
	invoice, err := models.GetSalesInvoice(ctx, input.SalesInvoiceId)
	if err != nil {
		return nil, err
	}
	if input.Amount.GreaterThan(invoice.DueAmount()) {
		return nil, errors.New("amount exceeds invoice due amount")
	}

	receipt := &models.Receipt{
		SalesInvoiceId: input.SalesInvoiceId,
		AccountId:      input.AccountId,
		Amount:         input.Amount,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(receipt).Error; err != nil {
			config.LogError(logger, "receiptWorkflow.go", "CreateReceipt", "creating receipt", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, receipt, nil)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func UpdateReceipt(ctx context.Context, id int, input *models.NewReceipt) (*models.Receipt, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if !input.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	if err := utils.ValidateResourceId[models.Account](ctx, input.AccountId); err != nil {
		return nil, err
	}
	invoice, err := models.GetSalesInvoice(ctx, input.SalesInvoiceId)
	if err != nil {
		return nil, err
	}
	receipt, err := models.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	// when the invoice is unchanged the receipt's own amount frees up first
	headroom := invoice.DueAmount()
	if receipt.SalesInvoiceId == input.SalesInvoiceId {
		headroom = headroom.Add(receipt.Amount)
	}
	if input.Amount.GreaterThan(headroom) {
		return nil, errors.New("amount exceeds invoice due amount")
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prev, err := CaptureOriginal(tx, receipt)
		if err != nil {
			return err
		}
		receipt.SalesInvoiceId = input.SalesInvoiceId
		receipt.AccountId = input.AccountId
		receipt.Amount = input.Amount
		receipt.SalesInvoice = nil
		receipt.Account = nil
		if err := tx.Save(receipt).Error; err != nil {
			config.LogError(logger, "receiptWorkflow.go", "UpdateReceipt", "updating receipt", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, receipt, prev)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func DeleteReceipt(ctx context.Context, id int) error {

	db := config.GetDB()
	logger := config.GetLogger()

	receipt, err := models.GetReceipt(ctx, id)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := OnDocumentDeleting(tx, logger, receipt); err != nil {
			return err
		}
		if err := tx.Delete(&models.Receipt{}, id).Error; err != nil {
			config.LogError(logger, "receiptWorkflow.go", "DeleteReceipt", "deleting receipt", id, err)
			return err
		}
		return nil
	})
}

// applyReceiptDelta moves a signed amount through a receipt's whole chain:
// invoice paid amount up, customer credit down by the same delta.
func applyReceiptDelta(tx *gorm.DB, logger *logrus.Logger, invoiceId int, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	var invoice models.SalesInvoice
	if err := tx.First(&invoice, invoiceId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			config.LogWarn(logger, "receiptWorkflow.go", "applyReceiptDelta", "skipping receipt delta", invoiceId, "sales invoice not found")
			return nil
		}
		return err
	}
	if err := applySalesInvoicePaidDelta(tx, logger, invoiceId, delta); err != nil {
		return err
	}
	return applyCustomerCreditDelta(tx, logger, invoice.CustomerId, delta.Neg())
}

func receiptSaved(tx *gorm.DB, logger *logrus.Logger, receipt *models.Receipt, prev *ReceiptSnapshot) error {
	if prev == nil {
		if err := applyAccountDelta(tx, logger, receipt.AccountId, receipt.Amount); err != nil {
			return err
		}
		return applyReceiptDelta(tx, logger, receipt.SalesInvoiceId, receipt.Amount)
	}
	if prev.Missing() {
		config.LogWarn(logger, "receiptWorkflow.go", "receiptSaved", "skipping update propagation", receipt.ID, "original receipt not found")
		return nil
	}
	if prev.AccountId != receipt.AccountId {
		if err := applyAccountDelta(tx, logger, prev.AccountId, prev.Amount.Neg()); err != nil {
			return err
		}
		if err := applyAccountDelta(tx, logger, receipt.AccountId, receipt.Amount); err != nil {
			return err
		}
	} else {
		if err := applyAccountDelta(tx, logger, receipt.AccountId, receipt.Amount.Sub(prev.Amount)); err != nil {
			return err
		}
	}
	if prev.SalesInvoiceId != receipt.SalesInvoiceId {
		if err := applyReceiptDelta(tx, logger, prev.SalesInvoiceId, prev.Amount.Neg()); err != nil {
			return err
		}
		return applyReceiptDelta(tx, logger, receipt.SalesInvoiceId, receipt.Amount)
	}
	return applyReceiptDelta(tx, logger, receipt.SalesInvoiceId, receipt.Amount.Sub(prev.Amount))
}

func receiptDeleting(tx *gorm.DB, logger *logrus.Logger, receipt *models.Receipt) error {
	if err := applyAccountDelta(tx, logger, receipt.AccountId, receipt.Amount.Neg()); err != nil {
		return err
	}
	return applyReceiptDelta(tx, logger, receipt.SalesInvoiceId, receipt.Amount.Neg())
}
