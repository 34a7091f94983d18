package models

import (
	"context"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// SalesInvoice records goods sold to a customer out of a shop. TotalAmount
// is derived from its items (discount aware); PaidAmount from receipts.
// CustomerId may be zero for walk-in cash sales.
type SalesInvoice struct {
	ID              int                 `gorm:"primary_key" json:"id"`
	ReferenceNumber string              `gorm:"uniqueIndex;size:64;not null" json:"reference_number"`
	CustomerId      int                 `gorm:"index" json:"customer_id"`
	ShopId          int                 `gorm:"index;not null" json:"shop_id"`
	Customer        *Customer           `json:"customer,omitempty"`
	Shop            *Shop               `json:"shop,omitempty"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	PaidAmount      decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	DueDate         time.Time           `json:"due_date"`
	Items           []*SalesInvoiceItem `gorm:"foreignKey:SalesInvoiceId" json:"items,omitempty"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type SalesInvoiceItem struct {
	ID             int                   `gorm:"primary_key" json:"id"`
	SalesInvoiceId int                   `gorm:"index;not null" json:"sales_invoice_id"`
	SalesInvoice   *SalesInvoice         `json:"sales_invoice,omitempty"`
	ProductId      int                   `gorm:"index;not null" json:"product_id"`
	Product        *Product              `json:"product,omitempty"`
	Quantity       decimal.Decimal       `gorm:"type:decimal(12,2);not null" json:"quantity"`
	Price          decimal.Decimal       `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountMethod *utils.DiscountMethod `gorm:"size:16" json:"discount_method,omitempty"`
	DiscountAmount decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	// AverageCost snapshots the stock's average cost at sale time, for
	// profit reporting.
	AverageCost decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"average_cost"`
}

type NewSalesInvoice struct {
	CustomerId int                    `json:"customer_id"`
	ShopId     int                    `json:"shop_id" binding:"required"`
	DueDate    time.Time              `json:"due_date"`
	Items      []*NewSalesInvoiceItem `json:"items" binding:"omitempty,dive"`
}

// header-only edit; items have their own operations
type SalesInvoiceHeader struct {
	CustomerId int       `json:"customer_id"`
	ShopId     int       `json:"shop_id" binding:"required"`
	DueDate    time.Time `json:"due_date"`
}

type NewSalesInvoiceItem struct {
	ProductId      int                   `json:"product_id" binding:"required"`
	Quantity       decimal.Decimal       `json:"quantity" binding:"required"`
	Price          decimal.Decimal       `json:"price" binding:"required"`
	DiscountMethod *utils.DiscountMethod `json:"discount_method" binding:"omitempty,oneof=amount percentage"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
}

// LineTotal is quantity x discounted unit price.
func (item *SalesInvoiceItem) LineTotal() decimal.Decimal {
	return utils.EffectiveUnitPrice(item.Price, item.DiscountMethod, item.DiscountAmount).Mul(item.Quantity)
}

// DueAmount is the still-unpaid part of the invoice.
func (inv *SalesInvoice) DueAmount() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.PaidAmount)
}

// Profit is total amount minus the snapshotted cost of goods sold.
func (inv *SalesInvoice) Profit() decimal.Decimal {
	cogs := decimal.Zero
	for _, item := range inv.Items {
		cogs = cogs.Add(item.AverageCost.Mul(item.Quantity))
	}
	return inv.TotalAmount.Sub(cogs)
}

func GetSalesInvoice(ctx context.Context, id int) (*SalesInvoice, error) {
	return utils.FetchModel[SalesInvoice](ctx, id, "Customer", "Shop", "Items", "Items.Product")
}

func GetSalesInvoices(ctx context.Context, customerId *int, shopId *int) ([]*SalesInvoice, error) {

	db := config.GetDB()
	var results []*SalesInvoice

	dbCtx := db.WithContext(ctx).Preload("Customer").Preload("Shop")
	if customerId != nil && *customerId > 0 {
		dbCtx = dbCtx.Where("customer_id = ?", *customerId)
	}
	if shopId != nil && *shopId > 0 {
		dbCtx = dbCtx.Where("shop_id = ?", *shopId)
	}
	if err := dbCtx.Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
