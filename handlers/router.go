package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes wires every API endpoint onto the engine. The caller owns
// middleware (cors, readiness gating, correlation ids).
func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	api.POST("/shops", createShop)
	api.PUT("/shops/:id", updateShop)
	api.DELETE("/shops/:id", deleteShop)
	api.GET("/shops/:id", getShop)
	api.GET("/shops", getShops)

	api.POST("/categories", createCategory)
	api.PUT("/categories/:id", updateCategory)
	api.DELETE("/categories/:id", deleteCategory)
	api.GET("/categories", getCategories)

	api.POST("/products", createProduct)
	api.PUT("/products/:id", updateProduct)
	api.DELETE("/products/:id", deleteProduct)
	api.GET("/products/:id", getProduct)
	api.GET("/products", getProducts)

	api.POST("/accounts", createAccount)
	api.PUT("/accounts/:id", updateAccount)
	api.DELETE("/accounts/:id", deleteAccount)
	api.GET("/accounts/:id", getAccount)
	api.GET("/accounts", getAccounts)

	api.POST("/customers", createCustomer)
	api.PUT("/customers/:id", updateCustomer)
	api.DELETE("/customers/:id", deleteCustomer)
	api.GET("/customers/:id", getCustomer)
	api.GET("/customers", getCustomers)

	api.POST("/suppliers", createSupplier)
	api.PUT("/suppliers/:id", updateSupplier)
	api.DELETE("/suppliers/:id", deleteSupplier)
	api.GET("/suppliers/:id", getSupplier)
	api.GET("/suppliers", getSuppliers)

	api.POST("/expenses", createExpense)
	api.PUT("/expenses/:id", updateExpense)
	api.DELETE("/expenses/:id", deleteExpense)
	api.GET("/expenses/:id", getExpense)
	api.GET("/expenses", getExpenses)

	api.POST("/withdraws", createWithdraw)
	api.PUT("/withdraws/:id", updateWithdraw)
	api.DELETE("/withdraws/:id", deleteWithdraw)
	api.GET("/withdraws/:id", getWithdraw)
	api.GET("/withdraws", getWithdraws)

	api.POST("/account-transfers", createAccountTransfer)
	api.PUT("/account-transfers/:id", updateAccountTransfer)
	api.DELETE("/account-transfers/:id", deleteAccountTransfer)
	api.GET("/account-transfers/:id", getAccountTransfer)
	api.GET("/account-transfers", getAccountTransfers)

	api.POST("/payments", createPayment)
	api.PUT("/payments/:id", updatePayment)
	api.DELETE("/payments/:id", deletePayment)
	api.GET("/payments/:id", getPayment)
	api.GET("/payments", getPayments)

	api.POST("/receipts", createReceipt)
	api.PUT("/receipts/:id", updateReceipt)
	api.DELETE("/receipts/:id", deleteReceipt)
	api.GET("/receipts/:id", getReceipt)
	api.GET("/receipts", getReceipts)

	api.POST("/purchase-invoices", createPurchaseInvoice)
	api.PUT("/purchase-invoices/:id", updatePurchaseInvoice)
	api.DELETE("/purchase-invoices/:id", deletePurchaseInvoice)
	api.GET("/purchase-invoices/:id", getPurchaseInvoice)
	api.GET("/purchase-invoices", getPurchaseInvoices)
	api.POST("/purchase-invoices/:id/items", addPurchaseInvoiceItem)
	api.PUT("/purchase-invoice-items/:id", updatePurchaseInvoiceItem)
	api.DELETE("/purchase-invoice-items/:id", deletePurchaseInvoiceItem)

	api.POST("/sales-invoices", createSalesInvoice)
	api.PUT("/sales-invoices/:id", updateSalesInvoice)
	api.DELETE("/sales-invoices/:id", deleteSalesInvoice)
	api.GET("/sales-invoices/:id", getSalesInvoice)
	api.GET("/sales-invoices", getSalesInvoices)
	api.POST("/sales-invoices/:id/items", addSalesInvoiceItem)
	api.PUT("/sales-invoice-items/:id", updateSalesInvoiceItem)
	api.DELETE("/sales-invoice-items/:id", deleteSalesInvoiceItem)
	api.GET("/sales-invoices/:id/profit", getSalesInvoiceProfit)

	api.GET("/stocks", getStocks)
	api.GET("/stocks/low", getLowStocks)

	api.POST("/stock-transfers", createStockTransfer)
	api.PUT("/stock-transfers/:id", updateStockTransfer)
	api.DELETE("/stock-transfers/:id", deleteStockTransfer)
	api.GET("/stock-transfers/:id", getStockTransfer)
	api.GET("/stock-transfers", getStockTransfers)
	api.POST("/stock-transfers/:id/items", addStockTransferItem)
	api.PUT("/stock-transfer-items/:id", updateStockTransferItem)
	api.DELETE("/stock-transfer-items/:id", deleteStockTransferItem)

	api.GET("/reports/balances", getBalanceSummary)

	r.POST("/internal/ops/stocks/rebuild", rebuildStocks)
}
