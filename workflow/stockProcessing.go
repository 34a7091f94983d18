package workflow

import (
	"errors"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/models"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var oneHundred = decimal.NewFromInt(100)

// MergeAverageCost folds an incoming lot into an existing stock position using
// the quantity-weighted average. When the merged quantity is not positive the
// previous average is retained so a later restock does not start from zero.
func MergeAverageCost(oldQty, oldAvg, inQty, inCost decimal.Decimal) decimal.Decimal {
	mergedQty := oldQty.Add(inQty)
	if !mergedQty.IsPositive() {
		return oldAvg
	}
	totalValue := oldAvg.Mul(oldQty).Add(inCost.Mul(inQty))
	return totalValue.DivRound(mergedQty, 4)
}

// NextQuantity applies a signed quantity delta under the configured stock
// policy. In strict mode a shortfall is an error; otherwise the quantity is
// clamped to zero and the caller is told so it can log the discrepancy.
func NextQuantity(current, delta decimal.Decimal, strict bool) (next decimal.Decimal, clamped bool, err error) {
	next = current.Add(delta)
	if next.IsNegative() {
		if strict {
			return current, false, utils.ErrorInsufficientStock
		}
		return decimal.Zero, true, nil
	}
	return next, false, nil
}

// SellingPriceFor derives a retail price from the average cost and a percentage
// profit margin, rounded to cents.
func SellingPriceFor(avgCost, profitMargin decimal.Decimal) decimal.Decimal {
	return avgCost.Mul(oneHundred.Add(profitMargin)).DivRound(oneHundred, 2)
}

// EditedAverageCost recomputes a stock average after one purchase line is
// edited in place. poolQty and poolAvg describe the stock before the edit,
// nextQty the quantity after the line's delta. The old line's value is swapped
// out of the pre-edit pool for the new line's value, so a same-price quantity
// change leaves the average where it was. A non-positive next quantity keeps
// the previous average; a negative result floors at zero.
func EditedAverageCost(poolQty, poolAvg, nextQty, origQty, origPrice, newQty, newPrice decimal.Decimal) decimal.Decimal {
	if !nextQty.IsPositive() {
		return poolAvg
	}
	adjusted := poolAvg.Mul(poolQty).Sub(origPrice.Mul(origQty)).Add(newPrice.Mul(newQty))
	avg := adjusted.DivRound(nextQty, 4)
	if avg.IsNegative() {
		return decimal.Zero
	}
	return avg
}

func getStockForUpdate(tx *gorm.DB, shopId int, productId int) (*models.Stock, error) {
	var stock models.Stock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("shop_id = ? AND product_id = ?", shopId, productId).First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func productProfitMargin(tx *gorm.DB, productId int) decimal.Decimal {
	var product models.Product
	if err := tx.Preload("Category").First(&product, productId).Error; err != nil {
		return decimal.Zero
	}
	return product.EffectiveProfitMargin()
}

// addStock receives a purchased or transferred-in lot into a shop. A missing
// stock row is created with the lot's unit cost as the opening average; an
// existing row gets the weighted-average merge. The selling price follows the
// new average through the product's profit margin.
func addStock(tx *gorm.DB, logger *logrus.Logger, shopId int, productId int, quantity decimal.Decimal, unitCost decimal.Decimal) error {
	margin := productProfitMargin(tx, productId)
	stock, err := getStockForUpdate(tx, shopId, productId)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		stock = &models.Stock{
			ShopId:       shopId,
			ProductId:    productId,
			Quantity:     quantity,
			AverageCost:  unitCost,
			SellingPrice: SellingPriceFor(unitCost, margin),
		}
		if err := tx.Create(stock).Error; err != nil {
			config.LogError(logger, "stockProcessing.go", "addStock", "creating stock row", stock, err)
			return err
		}
		return nil
	}
	stock.AverageCost = MergeAverageCost(stock.Quantity, stock.AverageCost, quantity, unitCost)
	stock.Quantity = stock.Quantity.Add(quantity)
	stock.SellingPrice = SellingPriceFor(stock.AverageCost, margin)
	if err := tx.Save(stock).Error; err != nil {
		config.LogError(logger, "stockProcessing.go", "addStock", "updating stock row", stock, err)
		return err
	}
	return nil
}

// removeStock takes quantity out of a shop for a sale, a transfer-out, or the
// reversal of a purchase. The average cost never changes on a removal. A
// missing stock row is logged and skipped so a sale against an untracked
// product does not block the invoice.
func removeStock(tx *gorm.DB, logger *logrus.Logger, shopId int, productId int, quantity decimal.Decimal) error {
	stock, err := getStockForUpdate(tx, shopId, productId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			config.LogWarn(logger, "stockProcessing.go", "removeStock", "skipping stock removal", map[string]int{"shopId": shopId, "productId": productId}, "stock not found")
			return nil
		}
		return err
	}
	next, clamped, err := NextQuantity(stock.Quantity, quantity.Neg(), config.StrictStock())
	if err != nil {
		return err
	}
	if clamped {
		config.LogWarn(logger, "stockProcessing.go", "removeStock", "quantity clamped to zero", stock, "insufficient stock")
	}
	if err := tx.Model(stock).Update("quantity", next).Error; err != nil {
		config.LogError(logger, "stockProcessing.go", "removeStock", "updating stock quantity", stock, err)
		return err
	}
	stock.Quantity = next
	return nil
}

// returnStock puts quantity back into a shop when a sale is deleted or its
// lines shrink. Deleting a sale against a product never stocked creates a
// zero-cost row so the returned units stay visible; an update against a
// missing row is only logged, matching the information available at that
// point.
func returnStock(tx *gorm.DB, logger *logrus.Logger, shopId int, productId int, quantity decimal.Decimal, createIfMissing bool) error {
	stock, err := getStockForUpdate(tx, shopId, productId)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if !createIfMissing {
			config.LogWarn(logger, "stockProcessing.go", "returnStock", "skipping stock return", map[string]int{"shopId": shopId, "productId": productId}, "stock not found")
			return nil
		}
		stock = &models.Stock{
			ShopId:    shopId,
			ProductId: productId,
			Quantity:  quantity,
		}
		if err := tx.Create(stock).Error; err != nil {
			config.LogError(logger, "stockProcessing.go", "returnStock", "creating stock row", stock, err)
			return err
		}
		return nil
	}
	if err := tx.Model(stock).Update("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
		config.LogError(logger, "stockProcessing.go", "returnStock", "updating stock quantity", stock, err)
		return err
	}
	return nil
}

// adjustStockForItemEdit recomputes a shop's stock position after a purchase
// line is edited in place, applying the line's quantity delta under the
// configured stock policy and repricing through EditedAverageCost.
func adjustStockForItemEdit(tx *gorm.DB, logger *logrus.Logger, shopId int, productId int, origQty, origPrice, newQty, newPrice decimal.Decimal) error {
	stock, err := getStockForUpdate(tx, shopId, productId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The row the original purchase created is gone; receive the new
			// line as a fresh lot.
			return addStock(tx, logger, shopId, productId, newQty, newPrice)
		}
		return err
	}
	qtyDelta := newQty.Sub(origQty)
	quantity, clamped, err := NextQuantity(stock.Quantity, qtyDelta, config.StrictStock())
	if err != nil {
		return err
	}
	if clamped {
		config.LogWarn(logger, "stockProcessing.go", "adjustStockForItemEdit", "quantity clamped to zero", stock, "insufficient stock")
	}
	stock.AverageCost = EditedAverageCost(stock.Quantity, stock.AverageCost, quantity, origQty, origPrice, newQty, newPrice)
	stock.Quantity = quantity
	stock.SellingPrice = SellingPriceFor(stock.AverageCost, productProfitMargin(tx, productId))
	if err := tx.Save(stock).Error; err != nil {
		config.LogError(logger, "stockProcessing.go", "adjustStockForItemEdit", "updating stock row", stock, err)
		return err
	}
	return nil
}

// transferStock moves quantity between shops, carrying the source average cost
// forward into the destination's weighted average. A destination row created
// by the transfer also inherits the source selling price so the receiving shop
// is immediately sellable.
func transferStock(tx *gorm.DB, logger *logrus.Logger, fromShopId int, toShopId int, productId int, quantity decimal.Decimal) error {
	transferCost := decimal.Zero
	transferPrice := decimal.Zero
	source, err := getStockForUpdate(tx, fromShopId, productId)
	if err == nil {
		transferCost = source.AverageCost
		transferPrice = source.SellingPrice
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := removeStock(tx, logger, fromShopId, productId, quantity); err != nil {
		return err
	}
	dest, err := getStockForUpdate(tx, toShopId, productId)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		dest = &models.Stock{
			ShopId:       toShopId,
			ProductId:    productId,
			Quantity:     quantity,
			AverageCost:  transferCost,
			SellingPrice: transferPrice,
		}
		if err := tx.Create(dest).Error; err != nil {
			config.LogError(logger, "stockProcessing.go", "transferStock", "creating stock row", dest, err)
			return err
		}
		return nil
	}
	dest.AverageCost = MergeAverageCost(dest.Quantity, dest.AverageCost, quantity, transferCost)
	dest.Quantity = dest.Quantity.Add(quantity)
	if err := tx.Save(dest).Error; err != nil {
		config.LogError(logger, "stockProcessing.go", "transferStock", "updating stock row", dest, err)
		return err
	}
	return nil
}

// reverseTransfer undoes a transfer: the destination gives the quantity back
// (clamped under the configured policy) and the source recovers it, creating
// the source row if it has since been cleaned up.
func reverseTransfer(tx *gorm.DB, logger *logrus.Logger, fromShopId int, toShopId int, productId int, quantity decimal.Decimal) error {
	if err := removeStock(tx, logger, toShopId, productId, quantity); err != nil {
		return err
	}
	return returnStock(tx, logger, fromShopId, productId, quantity, true)
}
