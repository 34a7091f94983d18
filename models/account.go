package models

import (
	"context"
	"errors"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// Account is a cash-ledger account. Its balance is only mutated by document
// propagation (withdrawals, transfers, payments, receipts), never directly.
type Account struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Name      string          `gorm:"uniqueIndex;size:100;not null" json:"name" binding:"required"`
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAccount struct {
	Name           string          `json:"name" binding:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

func CreateAccount(ctx context.Context, input *NewAccount) (*Account, error) {

	if err := utils.ValidateUnique[Account](ctx, "name", input.Name, 0); err != nil {
		return nil, err
	}

	account := Account{
		Name:    input.Name,
		Balance: input.OpeningBalance,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount renames an account. Balance changes go through documents.
func UpdateAccount(ctx context.Context, id int, input *NewAccount) (*Account, error) {

	if err := utils.ValidateUnique[Account](ctx, "name", input.Name, id); err != nil {
		return nil, err
	}

	account, err := utils.FetchModel[Account](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(account).Updates(map[string]interface{}{
		"Name": input.Name,
	}).Error
	if err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount refuses to remove an account any document still references.
func DeleteAccount(ctx context.Context, id int) (*Account, error) {

	account, err := utils.FetchModel[Account](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	for _, ref := range []struct {
		model interface{}
		cond  string
	}{
		{&Withdraw{}, "account_id = ?"},
		{&AccountTransfer{}, "from_account_id = ? OR to_account_id = ?"},
		{&Payment{}, "account_id = ?"},
		{&Receipt{}, "account_id = ?"},
	} {
		q := db.WithContext(ctx).Model(ref.model)
		if ref.cond == "from_account_id = ? OR to_account_id = ?" {
			q = q.Where(ref.cond, id, id)
		} else {
			q = q.Where(ref.cond, id)
		}
		if err := q.Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, errors.New("this account has documents")
		}
	}

	if err := db.WithContext(ctx).Delete(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func GetAccount(ctx context.Context, id int) (*Account, error) {
	return utils.FetchModel[Account](ctx, id)
}

func GetAccounts(ctx context.Context, name *string) ([]*Account, error) {

	db := config.GetDB()
	var results []*Account

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// TotalAccountBalance sums every account balance.
func TotalAccountBalance(ctx context.Context) (decimal.Decimal, error) {

	db := config.GetDB()
	var total decimal.NullDecimal
	err := db.WithContext(ctx).Model(&Account{}).
		Select("SUM(balance)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
