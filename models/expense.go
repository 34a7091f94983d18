package models

import (
	"context"
	"errors"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// Expense is a payable document: payments against it accumulate PaidAmount.
type Expense struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Description string          `gorm:"type:text" json:"description"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExpense struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func CreateExpense(ctx context.Context, input *NewExpense) (*Expense, error) {

	expense := Expense{
		Name:        input.Name,
		Description: input.Description,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func UpdateExpense(ctx context.Context, id int, input *NewExpense) (*Expense, error) {

	expense, err := utils.FetchModel[Expense](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(expense).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Description": input.Description,
	}).Error
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func DeleteExpense(ctx context.Context, id int) (*Expense, error) {

	expense, err := utils.FetchModel[Expense](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&Payment{}).
		Where("payable_type = ? AND payable_id = ?", PayableTypeExpense, id).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("this expense has payments")
	}

	if err := db.WithContext(ctx).Delete(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

func GetExpense(ctx context.Context, id int) (*Expense, error) {
	return utils.FetchModel[Expense](ctx, id)
}

func GetExpenses(ctx context.Context) ([]*Expense, error) {
	return utils.FetchAllModels[Expense](ctx)
}
