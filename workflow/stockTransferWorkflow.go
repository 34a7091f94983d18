package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/models"
	"github.com/msretail/retail_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func validateNewTransferItems(ctx context.Context, items []*models.NewStockTransferItem) error {
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return errors.New("item quantity must be positive")
		}
		if err := utils.ValidateResourceId[models.Product](ctx, item.ProductId); err != nil {
			return errors.New("product not found")
		}
	}
	return nil
}

// CreateStockTransfer moves stock between two shops. Each line leaves the
// source at its average cost and merges into the destination's weighted
// average.
func CreateStockTransfer(ctx context.Context, input *models.NewStockTransfer) (*models.StockTransfer, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if input.FromShopId == input.ToShopId {
		return nil, errors.New("source and destination shops must differ")
	}
	if err := utils.ValidateResourceId[models.Shop](ctx, input.FromShopId); err != nil {
		return nil, errors.New("source shop not found")
	}
	if err := utils.ValidateResourceId[models.Shop](ctx, input.ToShopId); err != nil {
		return nil, errors.New("destination shop not found")
	}
	if err := validateNewTransferItems(ctx, input.Items); err != nil {
		return nil, err
	}

	release, err := acquirePostingLock(ctx, input.FromShopId, input.ToShopId)
	if err != nil {
		return nil, err
	}
	defer release()

	transfer := &models.StockTransfer{
		ReferenceNumber: "ST-" + uuid.NewString(),
		FromShopId:      input.FromShopId,
		ToShopId:        input.ToShopId,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transfer).Error; err != nil {
			config.LogError(logger, "stockTransferWorkflow.go", "CreateStockTransfer", "creating transfer", input, err)
			return err
		}
		for _, line := range input.Items {
			item := &models.StockTransferItem{
				StockTransferId: transfer.ID,
				ProductId:       line.ProductId,
				Quantity:        line.Quantity,
			}
			if err := tx.Create(item).Error; err != nil {
				config.LogError(logger, "stockTransferWorkflow.go", "CreateStockTransfer", "creating transfer item", line, err)
				return err
			}
			if err := OnDocumentSaved(tx, logger, item, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return models.GetStockTransfer(ctx, transfer.ID)
}

// UpdateStockTransfer edits the header only. Changing either endpoint undoes
// every line under the old pair of shops and replays it under the new pair.
func UpdateStockTransfer(ctx context.Context, id int, input *models.StockTransferHeader) (*models.StockTransfer, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if input.FromShopId == input.ToShopId {
		return nil, errors.New("source and destination shops must differ")
	}
	if err := utils.ValidateResourceId[models.Shop](ctx, input.FromShopId); err != nil {
		return nil, errors.New("source shop not found")
	}
	if err := utils.ValidateResourceId[models.Shop](ctx, input.ToShopId); err != nil {
		return nil, errors.New("destination shop not found")
	}
	transfer, err := models.GetStockTransfer(ctx, id)
	if err != nil {
		return nil, err
	}

	release, err := acquirePostingLock(ctx, transfer.FromShopId, transfer.ToShopId, input.FromShopId, input.ToShopId)
	if err != nil {
		return nil, err
	}
	defer release()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prev, err := CaptureOriginal(tx, transfer)
		if err != nil {
			return err
		}
		transfer.FromShopId = input.FromShopId
		transfer.ToShopId = input.ToShopId
		transfer.FromShop = nil
		transfer.ToShop = nil
		transfer.Items = nil
		if err := tx.Save(transfer).Error; err != nil {
			config.LogError(logger, "stockTransferWorkflow.go", "UpdateStockTransfer", "updating transfer", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, transfer, prev)
	})
	if err != nil {
		return nil, err
	}
	return models.GetStockTransfer(ctx, id)
}

// DeleteStockTransfer reverses every line and removes the document.
func DeleteStockTransfer(ctx context.Context, id int) error {

	db := config.GetDB()
	logger := config.GetLogger()

	transfer, err := models.GetStockTransfer(ctx, id)
	if err != nil {
		return err
	}

	release, err := acquirePostingLock(ctx, transfer.FromShopId, transfer.ToShopId)
	if err != nil {
		return err
	}
	defer release()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range transfer.Items {
			if err := OnDocumentDeleting(tx, logger, item); err != nil {
				return err
			}
		}
		if err := tx.Where("stock_transfer_id = ?", id).Delete(&models.StockTransferItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.StockTransfer{}, id).Error; err != nil {
			config.LogError(logger, "stockTransferWorkflow.go", "DeleteStockTransfer", "deleting transfer", id, err)
			return err
		}
		return nil
	})
}

// AddStockTransferItem appends a line to an existing transfer.
func AddStockTransferItem(ctx context.Context, transferId int, input *models.NewStockTransferItem) (*models.StockTransferItem, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	transfer, err := models.GetStockTransfer(ctx, transferId)
	if err != nil {
		return nil, err
	}
	if err := validateNewTransferItems(ctx, []*models.NewStockTransferItem{input}); err != nil {
		return nil, err
	}

	release, err := acquirePostingLock(ctx, transfer.FromShopId, transfer.ToShopId)
	if err != nil {
		return nil, err
	}
	defer release()

	item := &models.StockTransferItem{
		StockTransferId: transferId,
		ProductId:       input.ProductId,
		Quantity:        input.Quantity,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			config.LogError(logger, "stockTransferWorkflow.go", "AddStockTransferItem", "creating transfer item", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, item, nil)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateStockTransferItem edits a line in place; only the quantity difference
// moves between the shops.
func UpdateStockTransferItem(ctx context.Context, id int, input *models.NewStockTransferItem) (*models.StockTransferItem, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if err := validateNewTransferItems(ctx, []*models.NewStockTransferItem{input}); err != nil {
		return nil, err
	}
	item, err := utils.FetchModel[models.StockTransferItem](ctx, id)
	if err != nil {
		return nil, err
	}
	transfer, err := models.GetStockTransfer(ctx, item.StockTransferId)
	if err != nil {
		return nil, err
	}

	release, err := acquirePostingLock(ctx, transfer.FromShopId, transfer.ToShopId)
	if err != nil {
		return nil, err
	}
	defer release()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prev, err := CaptureOriginal(tx, item)
		if err != nil {
			return err
		}
		item.ProductId = input.ProductId
		item.Quantity = input.Quantity
		item.Product = nil
		if err := tx.Save(item).Error; err != nil {
			config.LogError(logger, "stockTransferWorkflow.go", "UpdateStockTransferItem", "updating transfer item", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, item, prev)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteStockTransferItem removes a line, returning its quantity to the
// source shop.
func DeleteStockTransferItem(ctx context.Context, id int) error {

	db := config.GetDB()
	logger := config.GetLogger()

	item, err := utils.FetchModel[models.StockTransferItem](ctx, id)
	if err != nil {
		return err
	}
	transfer, err := models.GetStockTransfer(ctx, item.StockTransferId)
	if err != nil {
		return err
	}

	release, err := acquirePostingLock(ctx, transfer.FromShopId, transfer.ToShopId)
	if err != nil {
		return err
	}
	defer release()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := OnDocumentDeleting(tx, logger, item); err != nil {
			return err
		}
		if err := tx.Delete(&models.StockTransferItem{}, id).Error; err != nil {
			config.LogError(logger, "stockTransferWorkflow.go", "DeleteStockTransferItem", "deleting transfer item", id, err)
			return err
		}
		return nil
	})
}

func stockTransferSaved(tx *gorm.DB, logger *logrus.Logger, transfer *models.StockTransfer, prev *StockTransferSnapshot) error {
	if prev == nil {
		return nil
	}
	if prev.Missing() {
		config.LogWarn(logger, "stockTransferWorkflow.go", "stockTransferSaved", "skipping update propagation", transfer.ID, "original transfer not found")
		return nil
	}
	if prev.FromShopId == transfer.FromShopId && prev.ToShopId == transfer.ToShopId {
		return nil
	}
	var items []models.StockTransferItem
	if err := tx.Where("stock_transfer_id = ?", transfer.ID).Find(&items).Error; err != nil {
		return err
	}
	for i := range items {
		if err := reverseTransfer(tx, logger, prev.FromShopId, prev.ToShopId, items[i].ProductId, items[i].Quantity); err != nil {
			return err
		}
		if err := transferStock(tx, logger, transfer.FromShopId, transfer.ToShopId, items[i].ProductId, items[i].Quantity); err != nil {
			return err
		}
	}
	return nil
}

func stockTransferItemSaved(tx *gorm.DB, logger *logrus.Logger, item *models.StockTransferItem, prev *StockTransferItemSnapshot) error {
	var transfer models.StockTransfer
	if err := tx.First(&transfer, item.StockTransferId).Error; err != nil {
		return err
	}
	if prev == nil {
		return transferStock(tx, logger, transfer.FromShopId, transfer.ToShopId, item.ProductId, item.Quantity)
	}
	if prev.Missing() {
		config.LogWarn(logger, "stockTransferWorkflow.go", "stockTransferItemSaved", "skipping update propagation", item.ID, "original transfer item not found")
		return nil
	}
	if prev.ProductId != item.ProductId {
		if err := reverseTransfer(tx, logger, transfer.FromShopId, transfer.ToShopId, prev.ProductId, prev.Quantity); err != nil {
			return err
		}
		return transferStock(tx, logger, transfer.FromShopId, transfer.ToShopId, item.ProductId, item.Quantity)
	}
	delta := item.Quantity.Sub(prev.Quantity)
	if delta.IsPositive() {
		return transferStock(tx, logger, transfer.FromShopId, transfer.ToShopId, item.ProductId, delta)
	}
	if delta.IsNegative() {
		return reverseTransfer(tx, logger, transfer.FromShopId, transfer.ToShopId, item.ProductId, delta.Neg())
	}
	return nil
}

func stockTransferItemDeleting(tx *gorm.DB, logger *logrus.Logger, item *models.StockTransferItem) error {
	var transfer models.StockTransfer
	if err := tx.First(&transfer, item.StockTransferId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			config.LogWarn(logger, "stockTransferWorkflow.go", "stockTransferItemDeleting", "skipping stock reversal", item.StockTransferId, "transfer not found")
			return nil
		}
		return err
	}
	return reverseTransfer(tx, logger, transfer.FromShopId, transfer.ToShopId, item.ProductId, item.Quantity)
}
