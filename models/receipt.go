package models

import (
	"context"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// Receipt records money received from a customer against a sales invoice.
// It increases the account balance and the invoice paid amount, and reduces
// the customer's outstanding credit.
type Receipt struct {
	ID             int             `gorm:"primary_key" json:"id"`
	SalesInvoiceId int             `gorm:"index;not null" json:"sales_invoice_id"`
	SalesInvoice   *SalesInvoice   `json:"sales_invoice,omitempty"`
	AccountId      int             `gorm:"index;not null" json:"account_id"`
	Account        *Account        `json:"account,omitempty"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	ReceivedAt     time.Time       `gorm:"autoCreateTime" json:"received_at"`
}

type NewReceipt struct {
	SalesInvoiceId int             `json:"sales_invoice_id" binding:"required"`
	AccountId      int             `json:"account_id" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
}

func GetReceipt(ctx context.Context, id int) (*Receipt, error) {
	return utils.FetchModel[Receipt](ctx, id, "SalesInvoice", "Account")
}

func GetReceipts(ctx context.Context, salesInvoiceId *int) ([]*Receipt, error) {

	db := config.GetDB()
	var results []*Receipt

	dbCtx := db.WithContext(ctx).Preload("SalesInvoice").Preload("Account")
	if salesInvoiceId != nil && *salesInvoiceId > 0 {
		dbCtx = dbCtx.Where("sales_invoice_id = ?", *salesInvoiceId)
	}
	if err := dbCtx.Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
