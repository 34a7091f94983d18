package main

import (
	"context"
	"log"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/models"
	"github.com/msretail/retail_backend/workflow"
	"github.com/shopspring/decimal"
)

// Seeds a fresh database with a small working data set: two shops, a few
// products, one cash account, and an opening purchase so stock and balances
// are non-trivial. Not idempotent; run once against an empty schema.
func main() {
	config.ConnectDatabaseWithRetry()

	if err := models.MigrateTable(); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	ctx := context.Background()

	mainShop, err := models.CreateShop(ctx, &models.NewShop{Name: "Main Shop", Code: "MAIN", Location: "Colombo"})
	if err != nil {
		log.Fatalf("seeding shops: %v", err)
	}
	warehouse, err := models.CreateShop(ctx, &models.NewShop{Name: "Warehouse", Code: "WH01", Location: "Kelaniya", IsWarehouse: true})
	if err != nil {
		log.Fatalf("seeding shops: %v", err)
	}

	grocery, err := models.CreateCategory(ctx, &models.NewCategory{Name: "Grocery", ProfitMargin: decimal.NewFromInt(10)})
	if err != nil {
		log.Fatalf("seeding categories: %v", err)
	}

	rice, err := models.CreateProduct(ctx, &models.NewProduct{Name: "Rice 5kg", CategoryId: grocery.ID})
	if err != nil {
		log.Fatalf("seeding products: %v", err)
	}
	sugar, err := models.CreateProduct(ctx, &models.NewProduct{Name: "Sugar 1kg", CategoryId: grocery.ID, ProfitMargin: decimal.NewFromInt(15)})
	if err != nil {
		log.Fatalf("seeding products: %v", err)
	}

	cash, err := models.CreateAccount(ctx, &models.NewAccount{Name: "Cash", OpeningBalance: decimal.NewFromInt(100000)})
	if err != nil {
		log.Fatalf("seeding accounts: %v", err)
	}

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: "Lanka Traders"})
	if err != nil {
		log.Fatalf("seeding suppliers: %v", err)
	}
	if _, err := models.CreateCustomer(ctx, &models.NewCustomer{Name: "Walk-in Reseller", CreditLimit: decimal.NewFromInt(50000), CreditPeriod: 30, WholeSale: true}); err != nil {
		log.Fatalf("seeding customers: %v", err)
	}

	invoice, err := workflow.CreatePurchaseInvoice(ctx, &models.NewPurchaseInvoice{
		SupplierId: supplier.ID,
		ShopId:     warehouse.ID,
		Items: []*models.NewPurchaseInvoiceItem{
			{ProductId: rice.ID, Quantity: decimal.NewFromInt(100), Price: decimal.NewFromInt(1200)},
			{ProductId: sugar.ID, Quantity: decimal.NewFromInt(200), Price: decimal.NewFromInt(250)},
		},
	})
	if err != nil {
		log.Fatalf("seeding purchase invoice: %v", err)
	}

	if _, err := workflow.CreatePayment(ctx, &models.NewPayment{
		PayableType: models.PayableTypePurchaseInvoice,
		PayableId:   invoice.ID,
		AccountId:   cash.ID,
		Amount:      invoice.TotalAmount,
	}); err != nil {
		log.Fatalf("seeding payment: %v", err)
	}

	if _, err := workflow.CreateStockTransfer(ctx, &models.NewStockTransfer{
		FromShopId: warehouse.ID,
		ToShopId:   mainShop.ID,
		Items: []*models.NewStockTransferItem{
			{ProductId: rice.ID, Quantity: decimal.NewFromInt(20)},
			{ProductId: sugar.ID, Quantity: decimal.NewFromInt(50)},
		},
	}); err != nil {
		log.Fatalf("seeding stock transfer: %v", err)
	}

	log.Println("seed completed")
}
