package workflow_test

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/models"
	"github.com/msretail/retail_backend/workflow"
	"github.com/shopspring/decimal"
)

var integrationOnce sync.Once

// requireIntegration skips unless a live MySQL is configured via the DB_*
// env vars and INTEGRATION_TESTS is set.
func requireIntegration(t *testing.T) context.Context {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires MySQL via DB_* env)")
	}
	integrationOnce.Do(func() {
		config.ConnectDatabaseWithRetry()
		config.ConnectRedisWithRetry()
		if err := models.MigrateTable(); err != nil {
			t.Fatalf("MigrateTable: %v", err)
		}
	})
	return context.Background()
}

func uniqueName(prefix string) string {
	return prefix + " " + uuid.NewString()[:8]
}

func mustDecimal(t *testing.T, got, expected decimal.Decimal, label string) {
	t.Helper()
	if !got.Equal(expected) {
		t.Fatalf("%s: expected %s, got %s", label, expected, got)
	}
}

func TestWithdrawLifecycleMovesAccountBalance(t *testing.T) {
	ctx := requireIntegration(t)

	account, err := models.CreateAccount(ctx, &models.NewAccount{
		Name:           uniqueName("Cash"),
		OpeningBalance: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	withdraw, err := workflow.CreateWithdraw(ctx, &models.NewWithdraw{
		AccountId: account.ID,
		Amount:    decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("CreateWithdraw: %v", err)
	}

	account, err = models.GetAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	mustDecimal(t, account.Balance, decimal.NewFromInt(700), "balance after withdraw")

	// shrinking the amount applies only the difference
	if _, err := workflow.UpdateWithdraw(ctx, withdraw.ID, &models.NewWithdraw{
		AccountId: account.ID,
		Amount:    decimal.NewFromInt(200),
	}); err != nil {
		t.Fatalf("UpdateWithdraw: %v", err)
	}
	account, _ = models.GetAccount(ctx, account.ID)
	mustDecimal(t, account.Balance, decimal.NewFromInt(800), "balance after amount edit")

	if err := workflow.DeleteWithdraw(ctx, withdraw.ID); err != nil {
		t.Fatalf("DeleteWithdraw: %v", err)
	}
	account, _ = models.GetAccount(ctx, account.ID)
	mustDecimal(t, account.Balance, decimal.NewFromInt(1000), "balance after delete")
}

func TestPurchaseInvoicesBuildWeightedAverage(t *testing.T) {
	ctx := requireIntegration(t)

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

	for _, price := range []int64{100, 200} {
		if _, err := workflow.CreatePurchaseInvoice(ctx, &models.NewPurchaseInvoice{
			SupplierId: supplier.ID,
			ShopId:     shop.ID,
			Items: []*models.NewPurchaseInvoiceItem{
				{ProductId: product.ID, Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(price)},
			},
		}); err != nil {
			t.Fatalf("CreatePurchaseInvoice at %d: %v", price, err)
		}
	}

	stock, err := models.GetStock(ctx, shop.ID, product.ID)
	if err != nil {
		t.Fatalf("GetStock: %v", err)
	}
	mustDecimal(t, stock.Quantity, decimal.NewFromInt(20), "stock quantity")
	mustDecimal(t, stock.AverageCost, decimal.NewFromInt(150), "average cost")

	supplier, _ = models.GetSupplier(ctx, supplier.ID)
	mustDecimal(t, supplier.Payable, decimal.NewFromInt(3000), "supplier payable")
}

func TestReceiptUpdateAppliesOnlyTheDifference(t *testing.T) {
	ctx := requireIntegration(t)

	shop, err := models.CreateShop(ctx, &models.NewShop{Name: uniqueName("Shop"), Code: uuid.NewString()[:12]})
	if err != nil {
		t.Fatalf("CreateShop: %v", err)
	}
	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: uniqueName("Supplier")})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{Name: uniqueName("Customer")})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	product, err := models.CreateProduct(ctx, &models.NewProduct{Name: uniqueName("Product")})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	account, err := models.CreateAccount(ctx, &models.NewAccount{Name: uniqueName("Cash")})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	// stock up so the sale has something to sell
	if _, err := workflow.CreatePurchaseInvoice(ctx, &models.NewPurchaseInvoice{
		SupplierId: supplier.ID,
		ShopId:     shop.ID,
		Items: []*models.NewPurchaseInvoiceItem{
			{ProductId: product.ID, Quantity: decimal.NewFromInt(50), Price: decimal.NewFromInt(80)},
		},
	}); err != nil {
		t.Fatalf("CreatePurchaseInvoice: %v", err)
	}

	invoice, err := workflow.CreateSalesInvoice(ctx, &models.NewSalesInvoice{
		CustomerId: customer.ID,
		ShopId:     shop.ID,
		Items: []*models.NewSalesInvoiceItem{
			{ProductId: product.ID, Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		t.Fatalf("CreateSalesInvoice: %v", err)
	}
	mustDecimal(t, invoice.TotalAmount, decimal.NewFromInt(1000), "invoice total")

	customer, _ = models.GetCustomer(ctx, customer.ID)
	mustDecimal(t, customer.Credit, decimal.NewFromInt(1000), "customer credit after sale")

	stock, _ := models.GetStock(ctx, shop.ID, product.ID)
	mustDecimal(t, stock.Quantity, decimal.NewFromInt(40), "stock after sale")

	receipt, err := workflow.CreateReceipt(ctx, &models.NewReceipt{
		SalesInvoiceId: invoice.ID,
		AccountId:      account.ID,
		Amount:         decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}

	if _, err := workflow.UpdateReceipt(ctx, receipt.ID, &models.NewReceipt{
		SalesInvoiceId: invoice.ID,
		AccountId:      account.ID,
		Amount:         decimal.NewFromInt(500),
	}); err != nil {
		t.Fatalf("UpdateReceipt: %v", err)
	}

	account, _ = models.GetAccount(ctx, account.ID)
	mustDecimal(t, account.Balance, decimal.NewFromInt(500), "account balance after receipt edit")

	invoice, _ = models.GetSalesInvoice(ctx, invoice.ID)
	mustDecimal(t, invoice.PaidAmount, decimal.NewFromInt(500), "invoice paid amount")

	customer, _ = models.GetCustomer(ctx, customer.ID)
	mustDecimal(t, customer.Credit, decimal.NewFromInt(500), "customer credit after receipt edit")

	// deleting the sale is blocked while receipts exist
	if err := workflow.DeleteSalesInvoice(ctx, invoice.ID); err == nil {
		t.Fatal("expected delete to be blocked by existing receipts")
	}
}

func TestPurchaseItemEditRepricesStockAndPayable(t *testing.T) {
	ctx := requireIntegration(t)

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

	invoice, err := workflow.CreatePurchaseInvoice(ctx, &models.NewPurchaseInvoice{
		SupplierId: supplier.ID,
		ShopId:     shop.ID,
		Items: []*models.NewPurchaseInvoiceItem{
			{ProductId: product.ID, Quantity: decimal.NewFromInt(20), Price: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseInvoice: %v", err)
	}
	if len(invoice.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(invoice.Items))
	}
	itemId := invoice.Items[0].ID

	// a same-price quantity decrease must not move the average
	if _, err := workflow.UpdatePurchaseInvoiceItem(ctx, itemId, &models.NewPurchaseInvoiceItem{
		ProductId: product.ID,
		Quantity:  decimal.NewFromInt(10),
		Price:     decimal.NewFromInt(100),
	}); err != nil {
		t.Fatalf("UpdatePurchaseInvoiceItem (quantity): %v", err)
	}
	stock, err := models.GetStock(ctx, shop.ID, product.ID)
	if err != nil {
		t.Fatalf("GetStock: %v", err)
	}
	mustDecimal(t, stock.Quantity, decimal.NewFromInt(10), "stock after quantity edit")
	mustDecimal(t, stock.AverageCost, decimal.NewFromInt(100), "average after quantity edit")
	invoice, _ = models.GetPurchaseInvoice(ctx, invoice.ID)
	mustDecimal(t, invoice.TotalAmount, decimal.NewFromInt(1000), "total after quantity edit")
	supplier, _ = models.GetSupplier(ctx, supplier.ID)
	mustDecimal(t, supplier.Payable, decimal.NewFromInt(1000), "payable after quantity edit")

	// a price edit swaps the line's old value out of the pool for the new one
	if _, err := workflow.UpdatePurchaseInvoiceItem(ctx, itemId, &models.NewPurchaseInvoiceItem{
		ProductId: product.ID,
		Quantity:  decimal.NewFromInt(10),
		Price:     decimal.NewFromInt(120),
	}); err != nil {
		t.Fatalf("UpdatePurchaseInvoiceItem (price): %v", err)
	}
	stock, _ = models.GetStock(ctx, shop.ID, product.ID)
	mustDecimal(t, stock.Quantity, decimal.NewFromInt(10), "stock after price edit")
	mustDecimal(t, stock.AverageCost, decimal.NewFromInt(120), "average after price edit")
	supplier, _ = models.GetSupplier(ctx, supplier.ID)
	mustDecimal(t, supplier.Payable, decimal.NewFromInt(1200), "payable after price edit")

	if err := workflow.DeletePurchaseInvoiceItem(ctx, itemId); err != nil {
		t.Fatalf("DeletePurchaseInvoiceItem: %v", err)
	}
	stock, _ = models.GetStock(ctx, shop.ID, product.ID)
	mustDecimal(t, stock.Quantity, decimal.Zero, "stock after item delete")
	supplier, _ = models.GetSupplier(ctx, supplier.ID)
	mustDecimal(t, supplier.Payable, decimal.Zero, "payable after item delete")
}

func TestOverdrawingMovementsAreRejected(t *testing.T) {
	ctx := requireIntegration(t)

	source, err := models.CreateAccount(ctx, &models.NewAccount{
		Name:           uniqueName("Till"),
		OpeningBalance: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	dest, err := models.CreateAccount(ctx, &models.NewAccount{Name: uniqueName("Safe")})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	if _, err := workflow.CreateAccountTransfer(ctx, &models.NewAccountTransfer{
		FromAccountId: source.ID,
		ToAccountId:   dest.ID,
		Amount:        decimal.NewFromInt(800),
	}); err == nil {
		t.Fatal("expected transfer above the source balance to be rejected")
	}
	source, _ = models.GetAccount(ctx, source.ID)
	mustDecimal(t, source.Balance, decimal.NewFromInt(500), "source balance after rejected transfer")

	transfer, err := workflow.CreateAccountTransfer(ctx, &models.NewAccountTransfer{
		FromAccountId: source.ID,
		ToAccountId:   dest.ID,
		Amount:        decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("CreateAccountTransfer: %v", err)
	}
	source, _ = models.GetAccount(ctx, source.ID)
	mustDecimal(t, source.Balance, decimal.NewFromInt(200), "source balance after transfer")

	// the edit is validated against the source's current balance too
	if _, err := workflow.UpdateAccountTransfer(ctx, transfer.ID, &models.NewAccountTransfer{
		FromAccountId: source.ID,
		ToAccountId:   dest.ID,
		Amount:        decimal.NewFromInt(600),
	}); err == nil {
		t.Fatal("expected transfer edit above the source balance to be rejected")
	}

	withdraw, err := workflow.CreateWithdraw(ctx, &models.NewWithdraw{
		AccountId: source.ID,
		Amount:    decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("CreateWithdraw: %v", err)
	}
	if _, err := workflow.UpdateWithdraw(ctx, withdraw.ID, &models.NewWithdraw{
		AccountId: source.ID,
		Amount:    decimal.NewFromInt(900),
	}); err == nil {
		t.Fatal("expected withdraw edit above the account balance to be rejected")
	}
	source, _ = models.GetAccount(ctx, source.ID)
	mustDecimal(t, source.Balance, decimal.NewFromInt(100), "source balance after rejected edit")
}
