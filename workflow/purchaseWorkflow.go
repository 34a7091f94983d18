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

func validateNewPurchaseItems(ctx context.Context, items []*models.NewPurchaseInvoiceItem) error {
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return errors.New("item quantity must be positive")
		}
		if item.Price.IsNegative() {
			return errors.New("item price must not be negative")
		}
		if err := utils.ValidateResourceId[models.Product](ctx, item.ProductId); err != nil {
			return errors.New("product not found")
		}
	}
	return nil
}

// CreatePurchaseInvoice receives goods from a supplier into a shop. Each line
// feeds the shop's stock through the weighted-average merge, then the invoice
// total and the supplier's payable are derived from the lines.
func CreatePurchaseInvoice(ctx context.Context, input *models.NewPurchaseInvoice) (*models.PurchaseInvoice, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if err := utils.ValidateResourceId[models.Supplier](ctx, input.SupplierId); err != nil {
		return nil, errors.New("supplier not found")
	}
	if err := utils.ValidateResourceId[models.Shop](ctx, input.ShopId); err != nil {
		return nil, errors.New("shop not found")
	}
	if err := validateNewPurchaseItems(ctx, input.Items); err != nil {
		return nil, err
	}

	release, err := acquirePostingLock(ctx, input.ShopId)
	if err != nil {
		return nil, err
	}
	defer release()

	invoice := &models.PurchaseInvoice{
		ReferenceNumber: "PI-" + uuid.NewString(),
		SupplierId:      input.SupplierId,
		ShopId:          input.ShopId,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "CreatePurchaseInvoice", "creating invoice", input, err)
			return err
		}
		if err := OnDocumentSaved(tx, logger, invoice, nil); err != nil {
			return err
		}
		for _, line := range input.Items {
			item := &models.PurchaseInvoiceItem{
				PurchaseInvoiceId: invoice.ID,
				ProductId:         line.ProductId,
				Quantity:          line.Quantity,
				Price:             line.Price,
			}
			if err := tx.Create(item).Error; err != nil {
				config.LogError(logger, "purchaseWorkflow.go", "CreatePurchaseInvoice", "creating invoice item", line, err)
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
	return models.GetPurchaseInvoice(ctx, invoice.ID)
}

// UpdatePurchaseInvoice edits the header only; lines have their own
// operations. Moving the invoice to another shop relocates the stock of every
// line; changing the supplier moves the whole payable across.
func UpdatePurchaseInvoice(ctx context.Context, id int, input *models.PurchaseInvoiceHeader) (*models.PurchaseInvoice, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if err := utils.ValidateResourceId[models.Supplier](ctx, input.SupplierId); err != nil {
		return nil, errors.New("supplier not found")
	}
	if err := utils.ValidateResourceId[models.Shop](ctx, input.ShopId); err != nil {
		return nil, errors.New("shop not found")
	}
	invoice, err := models.GetPurchaseInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	release, err := acquirePostingLock(ctx, invoice.ShopId, input.ShopId)
	if err != nil {
		return nil, err
	}
	defer release()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prev, err := CaptureOriginal(tx, invoice)
		if err != nil {
			return err
		}
		invoice.SupplierId = input.SupplierId
		invoice.ShopId = input.ShopId
		invoice.Supplier = nil
		invoice.Shop = nil
		invoice.Items = nil
		if err := tx.Save(invoice).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "UpdatePurchaseInvoice", "updating invoice", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, invoice, prev)
	})
	if err != nil {
		return nil, err
	}
	return models.GetPurchaseInvoice(ctx, id)
}

// DeletePurchaseInvoice reverses every line's stock effect and the supplier's
// payable, then removes the lines and the invoice. Invoices with payments
// must have their payments deleted first.
func DeletePurchaseInvoice(ctx context.Context, id int) error {

	db := config.GetDB()
	logger := config.GetLogger()

	invoice, err := models.GetPurchaseInvoice(ctx, id)
	if err != nil {
		return err
	}
	if invoice.PaidAmount.IsPositive() {
		return errors.New("invoice has payments")
	}

	release, err := acquirePostingLock(ctx, invoice.ShopId)
	if err != nil {
		return err
	}
	defer release()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range invoice.Items {
			if err := OnDocumentDeleting(tx, logger, item); err != nil {
				return err
			}
		}
		if err := applySupplierPayableDelta(tx, logger, invoice.SupplierId, invoice.TotalAmount.Neg()); err != nil {
			return err
		}
		if err := tx.Where("purchase_invoice_id = ?", id).Delete(&models.PurchaseInvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.PurchaseInvoice{}, id).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "DeletePurchaseInvoice", "deleting invoice", id, err)
			return err
		}
		return nil
	})
}

// AddPurchaseInvoiceItem appends a line to an existing invoice.
func AddPurchaseInvoiceItem(ctx context.Context, invoiceId int, input *models.NewPurchaseInvoiceItem) (*models.PurchaseInvoiceItem, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	invoice, err := models.GetPurchaseInvoice(ctx, invoiceId)
	if err != nil {
		return nil, err
	}
	if err := validateNewPurchaseItems(ctx, []*models.NewPurchaseInvoiceItem{input}); err != nil {
		return nil, err
	}

	release, err := acquirePostingLock(ctx, invoice.ShopId)
	if err != nil {
		return nil, err
	}
	defer release()

	item := &models.PurchaseInvoiceItem{
		PurchaseInvoiceId: invoiceId,
		ProductId:         input.ProductId,
		Quantity:          input.Quantity,
		Price:             input.Price,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "AddPurchaseInvoiceItem", "creating invoice item", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, item, nil)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdatePurchaseInvoiceItem edits a line in place. The stock's average cost
// is recomputed by swapping the old line's value for the new one.
func UpdatePurchaseInvoiceItem(ctx context.Context, id int, input *models.NewPurchaseInvoiceItem) (*models.PurchaseInvoiceItem, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if err := validateNewPurchaseItems(ctx, []*models.NewPurchaseInvoiceItem{input}); err != nil {
		return nil, err
	}
	item, err := utils.FetchModel[models.PurchaseInvoiceItem](ctx, id)
	if err != nil {
		return nil, err
	}
	invoice, err := models.GetPurchaseInvoice(ctx, item.PurchaseInvoiceId)
	if err != nil {
		return nil, err
	}

	release, err := acquirePostingLock(ctx, invoice.ShopId)
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
		item.Price = input.Price
		item.Product = nil
		if err := tx.Save(item).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "UpdatePurchaseInvoiceItem", "updating invoice item", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, item, prev)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeletePurchaseInvoiceItem removes a line, reversing its stock receipt and
// shrinking the invoice total.
func DeletePurchaseInvoiceItem(ctx context.Context, id int) error {

	db := config.GetDB()
	logger := config.GetLogger()

	item, err := utils.FetchModel[models.PurchaseInvoiceItem](ctx, id)
	if err != nil {
		return err
	}
	invoice, err := models.GetPurchaseInvoice(ctx, item.PurchaseInvoiceId)
	if err != nil {
		return err
	}

	release, err := acquirePostingLock(ctx, invoice.ShopId)
	if err != nil {
		return err
	}
	defer release()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := OnDocumentDeleting(tx, logger, item); err != nil {
			return err
		}
		if err := tx.Delete(&models.PurchaseInvoiceItem{}, id).Error; err != nil {
			config.LogError(logger, "purchaseWorkflow.go", "DeletePurchaseInvoiceItem", "deleting invoice item", id, err)
			return err
		}
		return RecomputePurchaseInvoiceTotal(tx, logger, item.PurchaseInvoiceId)
	})
}

func purchaseInvoiceSaved(tx *gorm.DB, logger *logrus.Logger, invoice *models.PurchaseInvoice, prev *PurchaseInvoiceSnapshot) error {
	if prev == nil {
		return applySupplierPayableDelta(tx, logger, invoice.SupplierId, invoice.TotalAmount)
	}
	if prev.Missing() {
		config.LogWarn(logger, "purchaseWorkflow.go", "purchaseInvoiceSaved", "skipping update propagation", invoice.ID, "original invoice not found")
		return nil
	}
	if prev.ShopId != invoice.ShopId {
		var items []models.PurchaseInvoiceItem
		if err := tx.Where("purchase_invoice_id = ?", invoice.ID).Find(&items).Error; err != nil {
			return err
		}
		for i := range items {
			if err := removeStock(tx, logger, prev.ShopId, items[i].ProductId, items[i].Quantity); err != nil {
				return err
			}
			if err := addStock(tx, logger, invoice.ShopId, items[i].ProductId, items[i].Quantity, items[i].Price); err != nil {
				return err
			}
		}
	}
	if prev.SupplierId != invoice.SupplierId {
		if err := applySupplierPayableDelta(tx, logger, prev.SupplierId, prev.TotalAmount.Neg()); err != nil {
			return err
		}
		return applySupplierPayableDelta(tx, logger, invoice.SupplierId, invoice.TotalAmount)
	}
	return nil
}

func purchaseItemSaved(tx *gorm.DB, logger *logrus.Logger, item *models.PurchaseInvoiceItem, prev *PurchaseInvoiceItemSnapshot) error {
	var invoice models.PurchaseInvoice
	if err := tx.First(&invoice, item.PurchaseInvoiceId).Error; err != nil {
		return err
	}
	if prev == nil {
		if err := addStock(tx, logger, invoice.ShopId, item.ProductId, item.Quantity, item.Price); err != nil {
			return err
		}
		return RecomputePurchaseInvoiceTotal(tx, logger, invoice.ID)
	}
	if prev.Missing() {
		config.LogWarn(logger, "purchaseWorkflow.go", "purchaseItemSaved", "skipping stock propagation", item.ID, "original invoice item not found")
		return RecomputePurchaseInvoiceTotal(tx, logger, invoice.ID)
	}
	if prev.PurchaseInvoiceId != item.PurchaseInvoiceId || prev.ProductId != item.ProductId {
		// full reversal against the original shop and product, full
		// application against the current ones
		var origInvoice models.PurchaseInvoice
		if err := tx.First(&origInvoice, prev.PurchaseInvoiceId).Error; err == nil {
			if err := removeStock(tx, logger, origInvoice.ShopId, prev.ProductId, prev.Quantity); err != nil {
				return err
			}
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			config.LogWarn(logger, "purchaseWorkflow.go", "purchaseItemSaved", "skipping stock reversal", prev.PurchaseInvoiceId, "original invoice not found")
		} else {
			return err
		}
		if err := addStock(tx, logger, invoice.ShopId, item.ProductId, item.Quantity, item.Price); err != nil {
			return err
		}
		if prev.PurchaseInvoiceId != item.PurchaseInvoiceId {
			if err := RecomputePurchaseInvoiceTotal(tx, logger, prev.PurchaseInvoiceId); err != nil {
				return err
			}
		}
		return RecomputePurchaseInvoiceTotal(tx, logger, invoice.ID)
	}
	if err := adjustStockForItemEdit(tx, logger, invoice.ShopId, item.ProductId, prev.Quantity, prev.Price, item.Quantity, item.Price); err != nil {
		return err
	}
	return RecomputePurchaseInvoiceTotal(tx, logger, invoice.ID)
}

func purchaseItemDeleting(tx *gorm.DB, logger *logrus.Logger, item *models.PurchaseInvoiceItem) error {
	var invoice models.PurchaseInvoice
	if err := tx.First(&invoice, item.PurchaseInvoiceId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			config.LogWarn(logger, "purchaseWorkflow.go", "purchaseItemDeleting", "skipping stock reversal", item.PurchaseInvoiceId, "invoice not found")
			return nil
		}
		return err
	}
	return removeStock(tx, logger, invoice.ShopId, item.ProductId, item.Quantity)
}
