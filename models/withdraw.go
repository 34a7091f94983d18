package models

import (
	"context"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// Withdraw takes money out of an account. Creation decreases the account
// balance by the full amount; deletion restores it.
type Withdraw struct {
	ID          int             `gorm:"primary_key" json:"id"`
	AccountId   int             `gorm:"index;not null" json:"account_id"`
	Account     *Account        `json:"account,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Note        string          `gorm:"type:text" json:"note"`
	WithdrawnAt time.Time       `gorm:"autoCreateTime" json:"withdrawn_at"`
}

type NewWithdraw struct {
	AccountId int             `json:"account_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Note      string          `json:"note"`
}

func GetWithdraw(ctx context.Context, id int) (*Withdraw, error) {
	return utils.FetchModel[Withdraw](ctx, id, "Account")
}

func GetWithdraws(ctx context.Context, accountId *int) ([]*Withdraw, error) {

	db := config.GetDB()
	var results []*Withdraw

	dbCtx := db.WithContext(ctx).Preload("Account")
	if accountId != nil && *accountId > 0 {
		dbCtx = dbCtx.Where("account_id = ?", *accountId)
	}
	if err := dbCtx.Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
