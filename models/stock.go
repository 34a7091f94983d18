package models

import (
	"context"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/shopspring/decimal"
)

// Stock is the per-shop inventory ledger row for one product. Quantity and
// average cost are only mutated by document propagation; there is no direct
// stock edit operation.
type Stock struct {
	ID           int             `gorm:"primary_key" json:"id"`
	ShopId       int             `gorm:"uniqueIndex:idx_shop_product;not null" json:"shop_id"`
	ProductId    int             `gorm:"uniqueIndex:idx_shop_product;not null" json:"product_id"`
	Shop         *Shop           `json:"shop,omitempty"`
	Product      *Product        `json:"product,omitempty"`
	Quantity     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"quantity"`
	AverageCost  decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"average_cost"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"selling_price"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetStock(ctx context.Context, shopId int, productId int) (*Stock, error) {

	db := config.GetDB()
	var stock Stock
	err := db.WithContext(ctx).
		Where("shop_id = ? AND product_id = ?", shopId, productId).
		First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func GetStocks(ctx context.Context, shopId *int, productId *int) ([]*Stock, error) {

	db := config.GetDB()
	var results []*Stock

	dbCtx := db.WithContext(ctx).Preload("Shop").Preload("Product")
	if shopId != nil && *shopId > 0 {
		dbCtx = dbCtx.Where("shop_id = ?", *shopId)
	}
	if productId != nil && *productId > 0 {
		dbCtx = dbCtx.Where("product_id = ?", *productId)
	}
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetLowStocks lists stock rows at or below the given quantity threshold.
func GetLowStocks(ctx context.Context, threshold decimal.Decimal) ([]*Stock, error) {

	db := config.GetDB()
	var results []*Stock
	err := db.WithContext(ctx).Preload("Shop").Preload("Product").
		Where("quantity <= ?", threshold).
		Order("quantity").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
