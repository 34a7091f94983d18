package workflow

import (
	"context"
	"errors"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateWithdraw takes money out of an account. Persisting the document and
// decreasing the balance happen in one transaction.
func CreateWithdraw(ctx context.Context, input *models.NewWithdraw) (*models.Withdraw, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if !input.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	account, err := models.GetAccount(ctx, input.AccountId)
	if err != nil {
		return nil, err
	}
	if input.Amount.GreaterThan(account.Balance) {
		return nil, errors.New("insufficient account balance")
	}

	withdraw := &models.Withdraw{
		AccountId: input.AccountId,
		Amount:    input.Amount,
		Note:      input.Note,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(withdraw).Error; err != nil {
			config.LogError(logger, "withdrawWorkflow.go", "CreateWithdraw", "creating withdraw", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, withdraw, nil)
	})
	if err != nil {
		return nil, err
	}
	return withdraw, nil
}

// UpdateWithdraw edits an existing withdrawal. The original state is captured
// first so only the difference lands on the account, or a full reversal plus
// reapplication when the account itself changed.
func UpdateWithdraw(ctx context.Context, id int, input *models.NewWithdraw) (*models.Withdraw, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if !input.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	account, err := models.GetAccount(ctx, input.AccountId)
	if err != nil {
		return nil, err
	}
	if input.Amount.GreaterThan(account.Balance) {
		return nil, errors.New("insufficient account balance")
	}
	withdraw, err := models.GetWithdraw(ctx, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prev, err := CaptureOriginal(tx, withdraw)
		if err != nil {
			return err
		}
		withdraw.AccountId = input.AccountId
		withdraw.Amount = input.Amount
		withdraw.Note = input.Note
		withdraw.Account = nil
		if err := tx.Save(withdraw).Error; err != nil {
			config.LogError(logger, "withdrawWorkflow.go", "UpdateWithdraw", "updating withdraw", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, withdraw, prev)
	})
	if err != nil {
		return nil, err
	}
	return withdraw, nil
}

// DeleteWithdraw removes the document and restores the account balance.
func DeleteWithdraw(ctx context.Context, id int) error {

	db := config.GetDB()
	logger := config.GetLogger()

	withdraw, err := models.GetWithdraw(ctx, id)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := OnDocumentDeleting(tx, logger, withdraw); err != nil {
			return err
		}
		if err := tx.Delete(&models.Withdraw{}, id).Error; err != nil {
			config.LogError(logger, "withdrawWorkflow.go", "DeleteWithdraw", "deleting withdraw", id, err)
			return err
		}
		return nil
	})
}

func withdrawSaved(tx *gorm.DB, logger *logrus.Logger, withdraw *models.Withdraw, prev *WithdrawSnapshot) error {
	if prev == nil {
		return applyAccountDelta(tx, logger, withdraw.AccountId, withdraw.Amount.Neg())
	}
	if prev.Missing() {
		config.LogWarn(logger, "withdrawWorkflow.go", "withdrawSaved", "skipping update propagation", withdraw.ID, "original withdraw not found")
		return nil
	}
	if prev.AccountId != withdraw.AccountId {
		if err := applyAccountDelta(tx, logger, prev.AccountId, prev.Amount); err != nil {
			return err
		}
		return applyAccountDelta(tx, logger, withdraw.AccountId, withdraw.Amount.Neg())
	}
	return applyAccountDelta(tx, logger, withdraw.AccountId, prev.Amount.Sub(withdraw.Amount))
}

func withdrawDeleting(tx *gorm.DB, logger *logrus.Logger, withdraw *models.Withdraw) error {
	return applyAccountDelta(tx, logger, withdraw.AccountId, withdraw.Amount)
}
