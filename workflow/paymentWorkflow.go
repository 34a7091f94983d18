package workflow

import (
	"context"
	"errors"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/models"
	"github.com/msretail/retail_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func validatePayable(ctx context.Context, payableType models.PayableType, payableId int) error {
	switch payableType {
	case models.PayableTypePurchaseInvoice:
		if err := utils.ValidateResourceId[models.PurchaseInvoice](ctx, payableId); err != nil {
			return errors.New("purchase invoice not found")
		}
	case models.PayableTypeExpense:
		if err := utils.ValidateResourceId[models.Expense](ctx, payableId); err != nil {
			return errors.New("expense not found")
		}
	default:
		return errors.New("unknown payable type")
	}
	return nil
}

// CreatePayment pays an account out against a payable document. The account
// balance, the payable's paid amount, and (for purchase invoices) the
// supplier's payable all move in one transaction.
func CreatePayment(ctx context.Context, input *models.NewPayment) (*models.Payment, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if !input.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	if err := validatePayable(ctx, input.PayableType, input.PayableId); err != nil {
		return nil, err
	}
	account, err := models.GetAccount(ctx, input.AccountId)
	if err != nil {
		return nil, err
	}
	if input.Amount.GreaterThan(account.Balance) {
		return nil, errors.New("insufficient account balance")
	}
	if input.PayableType == models.PayableTypePurchaseInvoice {
		invoice, err := models.GetPurchaseInvoice(ctx, input.PayableId)
		if err != nil {
			return nil, err
		}
		if input.Amount.GreaterThan(invoice.DueAmount()) {
			return nil, errors.New("amount exceeds invoice due amount")
		}
	}

	payment := &models.Payment{
		PayableType: input.PayableType,
		PayableId:   input.PayableId,
		AccountId:   input.AccountId,
		Amount:      input.Amount,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			config.LogError(logger, "paymentWorkflow.go", "CreatePayment", "creating payment", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, payment, nil)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func UpdatePayment(ctx context.Context, id int, input *models.NewPayment) (*models.Payment, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if !input.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	if err := validatePayable(ctx, input.PayableType, input.PayableId); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[models.Account](ctx, input.AccountId); err != nil {
		return nil, err
	}
	payment, err := models.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prev, err := CaptureOriginal(tx, payment)
		if err != nil {
			return err
		}
		payment.PayableType = input.PayableType
		payment.PayableId = input.PayableId
		payment.AccountId = input.AccountId
		payment.Amount = input.Amount
		payment.Account = nil
		if err := tx.Save(payment).Error; err != nil {
			config.LogError(logger, "paymentWorkflow.go", "UpdatePayment", "updating payment", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, payment, prev)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func DeletePayment(ctx context.Context, id int) error {

	db := config.GetDB()
	logger := config.GetLogger()

	payment, err := models.GetPayment(ctx, id)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := OnDocumentDeleting(tx, logger, payment); err != nil {
			return err
		}
		if err := tx.Delete(&models.Payment{}, id).Error; err != nil {
			config.LogError(logger, "paymentWorkflow.go", "DeletePayment", "deleting payment", id, err)
			return err
		}
		return nil
	})
}

func paymentSaved(tx *gorm.DB, logger *logrus.Logger, payment *models.Payment, prev *PaymentSnapshot) error {
	if prev == nil {
		if err := applyAccountDelta(tx, logger, payment.AccountId, payment.Amount.Neg()); err != nil {
			return err
		}
		return applyPayableDelta(tx, logger, payment.PayableType, payment.PayableId, payment.Amount)
	}
	if prev.Missing() {
		config.LogWarn(logger, "paymentWorkflow.go", "paymentSaved", "skipping update propagation", payment.ID, "original payment not found")
		return nil
	}
	if prev.AccountId != payment.AccountId {
		if err := applyAccountDelta(tx, logger, prev.AccountId, prev.Amount); err != nil {
			return err
		}
		if err := applyAccountDelta(tx, logger, payment.AccountId, payment.Amount.Neg()); err != nil {
			return err
		}
	} else {
		if err := applyAccountDelta(tx, logger, payment.AccountId, prev.Amount.Sub(payment.Amount)); err != nil {
			return err
		}
	}
	if prev.PayableType != payment.PayableType || prev.PayableId != payment.PayableId {
		if err := applyPayableDelta(tx, logger, prev.PayableType, prev.PayableId, prev.Amount.Neg()); err != nil {
			return err
		}
		return applyPayableDelta(tx, logger, payment.PayableType, payment.PayableId, payment.Amount)
	}
	return applyPayableDelta(tx, logger, payment.PayableType, payment.PayableId, payment.Amount.Sub(prev.Amount))
}

func paymentDeleting(tx *gorm.DB, logger *logrus.Logger, payment *models.Payment) error {
	if err := applyAccountDelta(tx, logger, payment.AccountId, payment.Amount); err != nil {
		return err
	}
	return applyPayableDelta(tx, logger, payment.PayableType, payment.PayableId, payment.Amount.Neg())
}
