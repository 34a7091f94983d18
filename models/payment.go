package models

import (
	"context"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// PayableType is the closed set of document kinds a payment can settle.
type PayableType string

const (
	PayableTypePurchaseInvoice PayableType = "PurchaseInvoice"
	PayableTypeExpense         PayableType = "Expense"
)

// Payment records money paid out of an account against a payable document
// (a purchase invoice or an expense). It decreases the account balance,
// increases the payable's paid amount, and, for purchase invoices, decreases
// the supplier's payable balance.
type Payment struct {
	ID          int             `gorm:"primary_key" json:"id"`
	PayableType PayableType     `gorm:"index:idx_payable;size:32;not null" json:"payable_type"`
	PayableId   int             `gorm:"index:idx_payable;not null" json:"payable_id"`
	AccountId   int             `gorm:"index;not null" json:"account_id"`
	Account     *Account        `json:"account,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentDate time.Time       `gorm:"autoCreateTime" json:"payment_date"`
}

type NewPayment struct {
	PayableType PayableType     `json:"payable_type" binding:"required,oneof=PurchaseInvoice Expense"`
	PayableId   int             `json:"payable_id" binding:"required"`
	AccountId   int             `json:"account_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

func GetPayment(ctx context.Context, id int) (*Payment, error) {
	return utils.FetchModel[Payment](ctx, id, "Account")
}

func GetPayments(ctx context.Context, payableType *PayableType, payableId *int) ([]*Payment, error) {

	db := config.GetDB()
	var results []*Payment

	dbCtx := db.WithContext(ctx).Preload("Account")
	if payableType != nil && *payableType != "" {
		dbCtx = dbCtx.Where("payable_type = ?", *payableType)
	}
	if payableId != nil && *payableId > 0 {
		dbCtx = dbCtx.Where("payable_id = ?", *payableId)
	}
	if err := dbCtx.Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
