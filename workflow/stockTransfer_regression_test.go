package workflow_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/msretail/retail_backend/models"
	"github.com/msretail/retail_backend/workflow"
	"github.com/shopspring/decimal"
)

func TestStockTransferCarriesAverageCost(t *testing.T) {
	ctx := requireIntegration(t)

	warehouse, err := models.CreateShop(ctx, &models.NewShop{Name: uniqueName("Warehouse"), Code: uuid.NewString()[:12], IsWarehouse: true})
	if err != nil {
		t.Fatalf("CreateShop: %v", err)
	}
	shop, err := models.CreateShop(ctx, &models.NewShop{Name: uniqueName("Shop"), Code: uuid.NewString()[:12]})
	if err != nil {
		t.Fatalf("CreateShop: %v", err)
	}
	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: uniqueName("Supplier")})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	product, err := models.CreateProduct(ctx, &models.NewProduct{Name: uniqueName("Product")})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	if _, err := workflow.CreatePurchaseInvoice(ctx, &models.NewPurchaseInvoice{
		SupplierId: supplier.ID,
		ShopId:     warehouse.ID,
		Items: []*models.NewPurchaseInvoiceItem{
			{ProductId: product.ID, Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(100)},
		},
	}); err != nil {
		t.Fatalf("CreatePurchaseInvoice: %v", err)
	}

	transfer, err := workflow.CreateStockTransfer(ctx, &models.NewStockTransfer{
		FromShopId: warehouse.ID,
		ToShopId:   shop.ID,
		Items: []*models.NewStockTransferItem{
			{ProductId: product.ID, Quantity: decimal.NewFromInt(4)},
		},
	})
	if err != nil {
		t.Fatalf("CreateStockTransfer: %v", err)
	}

	source, err := models.GetStock(ctx, warehouse.ID, product.ID)
	if err != nil {
		t.Fatalf("GetStock source: %v", err)
	}
	mustDecimal(t, source.Quantity, decimal.NewFromInt(6), "source quantity")
	mustDecimal(t, source.AverageCost, decimal.NewFromInt(100), "source average cost unchanged")

	dest, err := models.GetStock(ctx, shop.ID, product.ID)
	if err != nil {
		t.Fatalf("GetStock destination: %v", err)
	}
	mustDecimal(t, dest.Quantity, decimal.NewFromInt(4), "destination quantity")
	mustDecimal(t, dest.AverageCost, decimal.NewFromInt(100), "destination average cost carried")

	if err := workflow.DeleteStockTransfer(ctx, transfer.ID); err != nil {
		t.Fatalf("DeleteStockTransfer: %v", err)
	}

	source, _ = models.GetStock(ctx, warehouse.ID, product.ID)
	mustDecimal(t, source.Quantity, decimal.NewFromInt(10), "source quantity restored")

	dest, _ = models.GetStock(ctx, shop.ID, product.ID)
	mustDecimal(t, dest.Quantity, decimal.NewFromInt(0), "destination emptied")
}
