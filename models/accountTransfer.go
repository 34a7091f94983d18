package models

import (
	"context"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// AccountTransfer moves money between two accounts.
type AccountTransfer struct {
	ID            int             `gorm:"primary_key" json:"id"`
	FromAccountId int             `gorm:"index;not null" json:"from_account_id"`
	ToAccountId   int             `gorm:"index;not null" json:"to_account_id"`
	FromAccount   *Account        `gorm:"foreignKey:FromAccountId" json:"from_account,omitempty"`
	ToAccount     *Account        `gorm:"foreignKey:ToAccountId" json:"to_account,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Note          string          `gorm:"type:text" json:"note"`
	TransferredAt time.Time       `gorm:"autoCreateTime" json:"transferred_at"`
}

type NewAccountTransfer struct {
	FromAccountId int             `json:"from_account_id" binding:"required"`
	ToAccountId   int             `json:"to_account_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Note          string          `json:"note"`
}

func GetAccountTransfer(ctx context.Context, id int) (*AccountTransfer, error) {
	return utils.FetchModel[AccountTransfer](ctx, id, "FromAccount", "ToAccount")
}

func GetAccountTransfers(ctx context.Context, accountId *int) ([]*AccountTransfer, error) {

	db := config.GetDB()
	var results []*AccountTransfer

	dbCtx := db.WithContext(ctx).Preload("FromAccount").Preload("ToAccount")
	if accountId != nil && *accountId > 0 {
		dbCtx = dbCtx.Where("from_account_id = ? OR to_account_id = ?", *accountId, *accountId)
	}
	if err := dbCtx.Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
