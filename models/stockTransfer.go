package models

import (
	"context"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// StockTransfer moves stock between two shops. Transferred quantity carries
// the source shop's average cost into a weighted merge at the destination.
type StockTransfer struct {
	ID              int                  `gorm:"primary_key" json:"id"`
	ReferenceNumber string               `gorm:"uniqueIndex;size:64;not null" json:"reference_number"`
	FromShopId      int                  `gorm:"index;not null" json:"from_shop_id"`
	ToShopId        int                  `gorm:"index;not null" json:"to_shop_id"`
	FromShop        *Shop                `gorm:"foreignKey:FromShopId" json:"from_shop,omitempty"`
	ToShop          *Shop                `gorm:"foreignKey:ToShopId" json:"to_shop,omitempty"`
	Items           []*StockTransferItem `gorm:"foreignKey:StockTransferId" json:"items,omitempty"`
	TransferredAt   time.Time            `gorm:"autoCreateTime" json:"transferred_at"`
}

type StockTransferItem struct {
	ID              int             `gorm:"primary_key" json:"id"`
	StockTransferId int             `gorm:"index;not null" json:"stock_transfer_id"`
	StockTransfer   *StockTransfer  `json:"stock_transfer,omitempty"`
	ProductId       int             `gorm:"index;not null" json:"product_id"`
	Product         *Product        `json:"product,omitempty"`
	Quantity        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`
}

type NewStockTransfer struct {
	FromShopId int                     `json:"from_shop_id" binding:"required"`
	ToShopId   int                     `json:"to_shop_id" binding:"required"`
	Items      []*NewStockTransferItem `json:"items" binding:"omitempty,dive"`
}

// header-only edit; items have their own operations
type StockTransferHeader struct {
	FromShopId int `json:"from_shop_id" binding:"required"`
	ToShopId   int `json:"to_shop_id" binding:"required"`
}

type NewStockTransferItem struct {
	ProductId int             `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

func GetStockTransfer(ctx context.Context, id int) (*StockTransfer, error) {
	return utils.FetchModel[StockTransfer](ctx, id, "FromShop", "ToShop", "Items", "Items.Product")
}

func GetStockTransfers(ctx context.Context, shopId *int) ([]*StockTransfer, error) {

	db := config.GetDB()
	var results []*StockTransfer

	dbCtx := db.WithContext(ctx).Preload("FromShop").Preload("ToShop")
	if shopId != nil && *shopId > 0 {
		dbCtx = dbCtx.Where("from_shop_id = ? OR to_shop_id = ?", *shopId, *shopId)
	}
	if err := dbCtx.Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
