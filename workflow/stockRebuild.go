package workflow

import (
	"context"
	"sort"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type stockEventKind int

const (
	stockEventPurchase stockEventKind = iota
	stockEventTransfer
	stockEventSale
)

type stockEvent struct {
	kind      stockEventKind
	at        time.Time
	shopId    int
	toShopId  int
	productId int
	quantity  decimal.Decimal
	unitCost  decimal.Decimal
}

// RebuildStocks re-derives every stock row from the surviving documents:
// quantities and average costs are zeroed and the purchase, transfer, and
// sale lines are replayed in chronological order. Intended for repairing
// drift after manual DB surgery, not for routine use.
func RebuildStocks(ctx context.Context) error {

	db := config.GetDB()
	logger := config.GetLogger()

	var events []stockEvent

	var purchases []models.PurchaseInvoiceItem
	if err := db.WithContext(ctx).Preload("PurchaseInvoice").Find(&purchases).Error; err != nil {
		return err
	}
	for i := range purchases {
		if purchases[i].PurchaseInvoice == nil {
			config.LogWarn(logger, "stockRebuild.go", "RebuildStocks", "skipping orphan purchase item", purchases[i].ID, "invoice not found")
			continue
		}
		events = append(events, stockEvent{
			kind:      stockEventPurchase,
			at:        purchases[i].PurchaseInvoice.CreatedAt,
			shopId:    purchases[i].PurchaseInvoice.ShopId,
			productId: purchases[i].ProductId,
			quantity:  purchases[i].Quantity,
			unitCost:  purchases[i].Price,
		})
	}

	var transfers []models.StockTransferItem
	if err := db.WithContext(ctx).Preload("StockTransfer").Find(&transfers).Error; err != nil {
		return err
	}
	for i := range transfers {
		if transfers[i].StockTransfer == nil {
			config.LogWarn(logger, "stockRebuild.go", "RebuildStocks", "skipping orphan transfer item", transfers[i].ID, "transfer not found")
			continue
		}
		events = append(events, stockEvent{
			kind:      stockEventTransfer,
			at:        transfers[i].StockTransfer.TransferredAt,
			shopId:    transfers[i].StockTransfer.FromShopId,
			toShopId:  transfers[i].StockTransfer.ToShopId,
			productId: transfers[i].ProductId,
			quantity:  transfers[i].Quantity,
		})
	}

	var sales []models.SalesInvoiceItem
	if err := db.WithContext(ctx).Preload("SalesInvoice").Find(&sales).Error; err != nil {
		return err
	}
	for i := range sales {
		if sales[i].SalesInvoice == nil {
			config.LogWarn(logger, "stockRebuild.go", "RebuildStocks", "skipping orphan sale item", sales[i].ID, "invoice not found")
			continue
		}
		events = append(events, stockEvent{
			kind:      stockEventSale,
			at:        sales[i].SalesInvoice.CreatedAt,
			shopId:    sales[i].SalesInvoice.ShopId,
			productId: sales[i].ProductId,
			quantity:  sales[i].Quantity,
		})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].at.Before(events[j].at) })

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Stock{}).Where("1 = 1").
			Updates(map[string]any{"quantity": decimal.Zero, "average_cost": decimal.Zero}).Error; err != nil {
			return err
		}
		for i := range events {
			if err := replayStockEvent(tx, logger, &events[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func replayStockEvent(tx *gorm.DB, logger *logrus.Logger, ev *stockEvent) error {
	switch ev.kind {
	case stockEventPurchase:
		return addStock(tx, logger, ev.shopId, ev.productId, ev.quantity, ev.unitCost)
	case stockEventTransfer:
		return transferStock(tx, logger, ev.shopId, ev.toShopId, ev.productId, ev.quantity)
	case stockEventSale:
		return removeStock(tx, logger, ev.shopId, ev.productId, ev.quantity)
	}
	return nil
}
