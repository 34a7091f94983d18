package models

import (
	"context"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// PurchaseInvoice records goods bought from a supplier into a shop.
// TotalAmount is derived from its items; PaidAmount from payments.
type PurchaseInvoice struct {
	ID              int                    `gorm:"primary_key" json:"id"`
	ReferenceNumber string                 `gorm:"uniqueIndex;size:64;not null" json:"reference_number"`
	SupplierId      int                    `gorm:"index" json:"supplier_id"`
	ShopId          int                    `gorm:"index;not null" json:"shop_id"`
	Supplier        *Supplier              `json:"supplier,omitempty"`
	Shop            *Shop                  `json:"shop,omitempty"`
	TotalAmount     decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	PaidAmount      decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	Items           []*PurchaseInvoiceItem `gorm:"foreignKey:PurchaseInvoiceId" json:"items,omitempty"`
	CreatedAt       time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseInvoiceItem struct {
	ID                int              `gorm:"primary_key" json:"id"`
	PurchaseInvoiceId int              `gorm:"index;not null" json:"purchase_invoice_id"`
	PurchaseInvoice   *PurchaseInvoice `json:"purchase_invoice,omitempty"`
	ProductId         int              `gorm:"index;not null" json:"product_id"`
	Product           *Product         `json:"product,omitempty"`
	Quantity          decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"quantity"`
	Price             decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
}

type NewPurchaseInvoice struct {
	SupplierId int                       `json:"supplier_id" binding:"required"`
	ShopId     int                       `json:"shop_id" binding:"required"`
	Items      []*NewPurchaseInvoiceItem `json:"items" binding:"omitempty,dive"`
}

// header-only edit; items have their own operations
type PurchaseInvoiceHeader struct {
	SupplierId int `json:"supplier_id" binding:"required"`
	ShopId     int `json:"shop_id" binding:"required"`
}

type NewPurchaseInvoiceItem struct {
	ProductId int             `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Price     decimal.Decimal `json:"price" binding:"required"`
}

// DueAmount is the still-unpaid part of the invoice.
func (inv *PurchaseInvoice) DueAmount() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.PaidAmount)
}

func GetPurchaseInvoice(ctx context.Context, id int) (*PurchaseInvoice, error) {
	return utils.FetchModel[PurchaseInvoice](ctx, id, "Supplier", "Shop", "Items", "Items.Product")
}

func GetPurchaseInvoices(ctx context.Context, supplierId *int, shopId *int) ([]*PurchaseInvoice, error) {

	db := config.GetDB()
	var results []*PurchaseInvoice

	dbCtx := db.WithContext(ctx).Preload("Supplier").Preload("Shop")
	if supplierId != nil && *supplierId > 0 {
		dbCtx = dbCtx.Where("supplier_id = ?", *supplierId)
	}
	if shopId != nil && *shopId > 0 {
		dbCtx = dbCtx.Where("shop_id = ?", *shopId)
	}
	if err := dbCtx.Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
