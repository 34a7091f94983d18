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

func validateNewSalesItems(ctx context.Context, items []*models.NewSalesInvoiceItem) error {
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return errors.New("item quantity must be positive")
		}
		if item.Price.IsNegative() {
			return errors.New("item price must not be negative")
		}
		if item.DiscountAmount.IsNegative() {
			return errors.New("item discount must not be negative")
		}
		if err := utils.ValidateResourceId[models.Product](ctx, item.ProductId); err != nil {
			return errors.New("product not found")
		}
	}
	return nil
}

// CreateSalesInvoice sells goods out of a shop. Each line decrements the
// shop's stock under the configured policy and snapshots the average cost at
// sale time; the invoice total and the customer's credit are derived from the
// lines. CustomerId zero is a walk-in cash sale with no credit side.
func CreateSalesInvoice(ctx context.Context, input *models.NewSalesInvoice) (*models.SalesInvoice, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if err := utils.ValidateResourceId[models.Shop](ctx, input.ShopId); err != nil {
		return nil, errors.New("shop not found")
	}
	if input.CustomerId > 0 {
		customer, err := models.GetCustomer(ctx, input.CustomerId)
		if err != nil {
			return nil, errors.New("customer not found")
		}
		if utils.DereferencePtr(customer.BlackList) {
			return nil, errors.New("customer is blacklisted")
		}
	}
	if err := validateNewSalesItems(ctx, input.Items); err != nil {
		return nil, err
	}

	release, err := acquirePostingLock(ctx, input.ShopId)
	if err != nil {
		return nil, err
	}
	defer release()

	invoice := &models.SalesInvoice{
		ReferenceNumber: "SI-" + uuid.NewString(),
		CustomerId:      input.CustomerId,
		ShopId:          input.ShopId,
		DueDate:         input.DueDate,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			config.LogError(logger, "salesWorkflow.go", "CreateSalesInvoice", "creating invoice", input, err)
			return err
		}
		if err := OnDocumentSaved(tx, logger, invoice, nil); err != nil {
			return err
		}
		for _, line := range input.Items {
			item := &models.SalesInvoiceItem{
				SalesInvoiceId: invoice.ID,
				ProductId:      line.ProductId,
				Quantity:       line.Quantity,
				Price:          line.Price,
				DiscountMethod: line.DiscountMethod,
				DiscountAmount: line.DiscountAmount,
			}
			if err := tx.Create(item).Error; err != nil {
				config.LogError(logger, "salesWorkflow.go", "CreateSalesInvoice", "creating invoice item", line, err)
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
	return models.GetSalesInvoice(ctx, invoice.ID)
}

// UpdateSalesInvoice edits the header only. Moving the invoice to another
// shop relocates every line's stock effect; changing the customer moves the
// outstanding due across both credit balances.
func UpdateSalesInvoice(ctx context.Context, id int, input *models.SalesInvoiceHeader) (*models.SalesInvoice, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if err := utils.ValidateResourceId[models.Shop](ctx, input.ShopId); err != nil {
		return nil, errors.New("shop not found")
	}
	if input.CustomerId > 0 {
		if err := utils.ValidateResourceId[models.Customer](ctx, input.CustomerId); err != nil {
			return nil, errors.New("customer not found")
		}
	}
	invoice, err := models.GetSalesInvoice(ctx, id)
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
		invoice.CustomerId = input.CustomerId
		invoice.ShopId = input.ShopId
		invoice.DueDate = input.DueDate
		invoice.Customer = nil
		invoice.Shop = nil
		invoice.Items = nil
		if err := tx.Save(invoice).Error; err != nil {
			config.LogError(logger, "salesWorkflow.go", "UpdateSalesInvoice", "updating invoice", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, invoice, prev)
	})
	if err != nil {
		return nil, err
	}
	return models.GetSalesInvoice(ctx, id)
}

// DeleteSalesInvoice returns every line's stock and releases the customer's
// credit, then removes the lines and the invoice. Invoices with receipts must
// have their receipts deleted first.
func DeleteSalesInvoice(ctx context.Context, id int) error {

	db := config.GetDB()
	logger := config.GetLogger()

	invoice, err := models.GetSalesInvoice(ctx, id)
	if err != nil {
		return err
	}
	if invoice.PaidAmount.IsPositive() {
		return errors.New("invoice has receipts")
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
		if err := applyCustomerCreditDelta(tx, logger, invoice.CustomerId, invoice.TotalAmount.Neg()); err != nil {
			return err
		}
		if err := tx.Where("sales_invoice_id = ?", id).Delete(&models.SalesInvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.SalesInvoice{}, id).Error; err != nil {
			config.LogError(logger, "salesWorkflow.go", "DeleteSalesInvoice", "deleting invoice", id, err)
			return err
		}
		return nil
	})
}

// AddSalesInvoiceItem appends a line to an existing invoice.
func AddSalesInvoiceItem(ctx context.Context, invoiceId int, input *models.NewSalesInvoiceItem) (*models.SalesInvoiceItem, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	invoice, err := models.GetSalesInvoice(ctx, invoiceId)
	if err != nil {
		return nil, err
	}
	if err := validateNewSalesItems(ctx, []*models.NewSalesInvoiceItem{input}); err != nil {
		return nil, err
	}

	release, err := acquirePostingLock(ctx, invoice.ShopId)
	if err != nil {
		return nil, err
	}
	defer release()

	item := &models.SalesInvoiceItem{
		SalesInvoiceId: invoiceId,
		ProductId:      input.ProductId,
		Quantity:       input.Quantity,
		Price:          input.Price,
		DiscountMethod: input.DiscountMethod,
		DiscountAmount: input.DiscountAmount,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			config.LogError(logger, "salesWorkflow.go", "AddSalesInvoiceItem", "creating invoice item", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, item, nil)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateSalesInvoiceItem edits a line in place. Price and discount changes
// flow into the invoice total only; quantity changes also move stock.
func UpdateSalesInvoiceItem(ctx context.Context, id int, input *models.NewSalesInvoiceItem) (*models.SalesInvoiceItem, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	if err := validateNewSalesItems(ctx, []*models.NewSalesInvoiceItem{input}); err != nil {
		return nil, err
	}
	item, err := utils.FetchModel[models.SalesInvoiceItem](ctx, id)
	if err != nil {
		return nil, err
	}
	invoice, err := models.GetSalesInvoice(ctx, item.SalesInvoiceId)
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
		item.DiscountMethod = input.DiscountMethod
		item.DiscountAmount = input.DiscountAmount
		item.Product = nil
		if err := tx.Save(item).Error; err != nil {
			config.LogError(logger, "salesWorkflow.go", "UpdateSalesInvoiceItem", "updating invoice item", input, err)
			return err
		}
		return OnDocumentSaved(tx, logger, item, prev)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteSalesInvoiceItem removes a line, returning its quantity to stock and
// shrinking the invoice total.
func DeleteSalesInvoiceItem(ctx context.Context, id int) error {

	db := config.GetDB()
	logger := config.GetLogger()

	item, err := utils.FetchModel[models.SalesInvoiceItem](ctx, id)
	if err != nil {
		return err
	}
	invoice, err := models.GetSalesInvoice(ctx, item.SalesInvoiceId)
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
		if err := tx.Delete(&models.SalesInvoiceItem{}, id).Error; err != nil {
			config.LogError(logger, "salesWorkflow.go", "DeleteSalesInvoiceItem", "deleting invoice item", id, err)
			return err
		}
		return RecomputeSalesInvoiceTotal(tx, logger, item.SalesInvoiceId)
	})
}

func salesInvoiceSaved(tx *gorm.DB, logger *logrus.Logger, invoice *models.SalesInvoice, prev *SalesInvoiceSnapshot) error {
	if prev == nil {
		return applyCustomerCreditDelta(tx, logger, invoice.CustomerId, invoice.DueAmount())
	}
	if prev.Missing() {
		config.LogWarn(logger, "salesWorkflow.go", "salesInvoiceSaved", "skipping update propagation", invoice.ID, "original invoice not found")
		return nil
	}
	if prev.ShopId != invoice.ShopId {
		var items []models.SalesInvoiceItem
		if err := tx.Where("sales_invoice_id = ?", invoice.ID).Find(&items).Error; err != nil {
			return err
		}
		for i := range items {
			if err := returnStock(tx, logger, prev.ShopId, items[i].ProductId, items[i].Quantity, false); err != nil {
				return err
			}
			if err := removeStock(tx, logger, invoice.ShopId, items[i].ProductId, items[i].Quantity); err != nil {
				return err
			}
		}
	}
	if prev.CustomerId != invoice.CustomerId {
		due := prev.TotalAmount.Sub(prev.PaidAmount)
		if err := applyCustomerCreditDelta(tx, logger, prev.CustomerId, due.Neg()); err != nil {
			return err
		}
		return applyCustomerCreditDelta(tx, logger, invoice.CustomerId, due)
	}
	return nil
}

func salesItemSaved(tx *gorm.DB, logger *logrus.Logger, item *models.SalesInvoiceItem, prev *SalesInvoiceItemSnapshot) error {
	var invoice models.SalesInvoice
	if err := tx.First(&invoice, item.SalesInvoiceId).Error; err != nil {
		return err
	}
	if prev == nil {
		if err := snapshotAverageCost(tx, logger, invoice.ShopId, item); err != nil {
			return err
		}
		if err := removeStock(tx, logger, invoice.ShopId, item.ProductId, item.Quantity); err != nil {
			return err
		}
		return RecomputeSalesInvoiceTotal(tx, logger, invoice.ID)
	}
	if prev.Missing() {
		config.LogWarn(logger, "salesWorkflow.go", "salesItemSaved", "skipping stock propagation", item.ID, "original invoice item not found")
		return RecomputeSalesInvoiceTotal(tx, logger, invoice.ID)
	}
	if prev.SalesInvoiceId != item.SalesInvoiceId || prev.ProductId != item.ProductId {
		var origInvoice models.SalesInvoice
		if err := tx.First(&origInvoice, prev.SalesInvoiceId).Error; err == nil {
			if err := returnStock(tx, logger, origInvoice.ShopId, prev.ProductId, prev.Quantity, false); err != nil {
				return err
			}
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			config.LogWarn(logger, "salesWorkflow.go", "salesItemSaved", "skipping stock return", prev.SalesInvoiceId, "original invoice not found")
		} else {
			return err
		}
		if err := snapshotAverageCost(tx, logger, invoice.ShopId, item); err != nil {
			return err
		}
		if err := removeStock(tx, logger, invoice.ShopId, item.ProductId, item.Quantity); err != nil {
			return err
		}
		if prev.SalesInvoiceId != item.SalesInvoiceId {
			if err := RecomputeSalesInvoiceTotal(tx, logger, prev.SalesInvoiceId); err != nil {
				return err
			}
		}
		return RecomputeSalesInvoiceTotal(tx, logger, invoice.ID)
	}
	delta := item.Quantity.Sub(prev.Quantity)
	if delta.IsPositive() {
		if err := removeStock(tx, logger, invoice.ShopId, item.ProductId, delta); err != nil {
			return err
		}
	} else if delta.IsNegative() {
		if err := returnStock(tx, logger, invoice.ShopId, item.ProductId, delta.Neg(), false); err != nil {
			return err
		}
	}
	return RecomputeSalesInvoiceTotal(tx, logger, invoice.ID)
}

func salesItemDeleting(tx *gorm.DB, logger *logrus.Logger, item *models.SalesInvoiceItem) error {
	var invoice models.SalesInvoice
	if err := tx.First(&invoice, item.SalesInvoiceId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			config.LogWarn(logger, "salesWorkflow.go", "salesItemDeleting", "skipping stock return", item.SalesInvoiceId, "invoice not found")
			return nil
		}
		return err
	}
	// deleting a sale puts the units back even when the stock row is gone
	return returnStock(tx, logger, invoice.ShopId, item.ProductId, item.Quantity, true)
}

// snapshotAverageCost freezes the shop's current average cost onto the line
// so later cost movements do not rewrite historical profit.
func snapshotAverageCost(tx *gorm.DB, logger *logrus.Logger, shopId int, item *models.SalesInvoiceItem) error {
	stock, err := getStockForUpdate(tx, shopId, item.ProductId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	item.AverageCost = stock.AverageCost
	if err := tx.Model(item).Update("average_cost", stock.AverageCost).Error; err != nil {
		config.LogError(logger, "salesWorkflow.go", "snapshotAverageCost", "updating average cost", item.ID, err)
		return err
	}
	return nil
}
