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

func validateAccountTransferInput(ctx context.Context, input *models.NewAccountTransfer) error {
	if !input.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if input.FromAccountId == input.ToAccountId {
		return errors.New("source and destination accounts must differ")
	}
	source, err := models.GetAccount(ctx, input.FromAccountId)
	if err != nil {
		return errors.New("source account not found")
	}
	if input.Amount.GreaterThan(source.Balance) {
		return errors.New("insufficient balance in the source account")
	}
	if err := utils.ValidateResourceId[models.Account](ctx, input.ToAccountId); err != nil {
		return errors.New("destination account not found")
	}
	return nil
}

// CreateAccountTransfer moves money between two accounts atomically.
func CreateAccountTransfer(ctx context.Context, input *models.NewAccountTransfer) (*models.AccountTransfer, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if err := validateAccountTransferInput(ctx, input); err != nil {
		return nil, err
	}

	transfer := &models.AccountTransfer{
		FromAccountId: input.FromAccountId,
		ToAccountId:   input.ToAccountId,
		Amount:        input.Amount,
		Note:          input.Note,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transfer).Error; err != nil {
			config.LogError(logger, "transferWorkflow.go", "CreateAccountTransfer", "creating transfer", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, transfer, nil)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

func UpdateAccountTransfer(ctx context.Context, id int, input *models.NewAccountTransfer) (*models.AccountTransfer, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if err := validateAccountTransferInput(ctx, input); err != nil {
		return nil, err
	}
	transfer, err := models.GetAccountTransfer(ctx, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prev, err := CaptureOriginal(tx, transfer)
		if err != nil {
			return err
		}
		transfer.FromAccountId = input.FromAccountId
		transfer.ToAccountId = input.ToAccountId
		transfer.Amount = input.Amount
		transfer.Note = input.Note
		transfer.FromAccount = nil
		transfer.ToAccount = nil
		if err := tx.Save(transfer).Error; err != nil {
			config.LogError(logger, "transferWorkflow.go", "UpdateAccountTransfer", "updating transfer", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, transfer, prev)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

func DeleteAccountTransfer(ctx context.Context, id int) error {

	db := config.GetDB()
	logger := config.GetLogger()

	transfer, err := models.GetAccountTransfer(ctx, id)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := OnDocumentDeleting(tx, logger, transfer); err != nil {
			return err
		}
		if err := tx.Delete(&models.AccountTransfer{}, id).Error; err != nil {
			config.LogError(logger, "transferWorkflow.go", "DeleteAccountTransfer", "deleting transfer", id, err)
			return err
		}
		return nil
	})
}

func accountTransferSaved(tx *gorm.DB, logger *logrus.Logger, transfer *models.AccountTransfer, prev *AccountTransferSnapshot) error {
	if prev == nil {
		if err := applyAccountDelta(tx, logger, transfer.FromAccountId, transfer.Amount.Neg()); err != nil {
			return err
		}
		return applyAccountDelta(tx, logger, transfer.ToAccountId, transfer.Amount)
	}
	if prev.Missing() {
		config.LogWarn(logger, "transferWorkflow.go", "accountTransferSaved", "skipping update propagation", transfer.ID, "original transfer not found")
		return nil
	}
	if prev.FromAccountId != transfer.FromAccountId || prev.ToAccountId != transfer.ToAccountId {
		if err := applyAccountDelta(tx, logger, prev.FromAccountId, prev.Amount); err != nil {
			return err
		}
		if err := applyAccountDelta(tx, logger, prev.ToAccountId, prev.Amount.Neg()); err != nil {
			return err
		}
		if err := applyAccountDelta(tx, logger, transfer.FromAccountId, transfer.Amount.Neg()); err != nil {
			return err
		}
		return applyAccountDelta(tx, logger, transfer.ToAccountId, transfer.Amount)
	}
	delta := transfer.Amount.Sub(prev.Amount)
	if err := applyAccountDelta(tx, logger, transfer.FromAccountId, delta.Neg()); err != nil {
		return err
	}
	return applyAccountDelta(tx, logger, transfer.ToAccountId, delta)
}

func accountTransferDeleting(tx *gorm.DB, logger *logrus.Logger, transfer *models.AccountTransfer) error {
	if err := applyAccountDelta(tx, logger, transfer.FromAccountId, transfer.Amount); err != nil {
		return err
	}
	return applyAccountDelta(tx, logger, transfer.ToAccountId, transfer.Amount.Neg())
}
