package models

import (
	"github.com/msretail/retail_backend/config"
)

// MigrateTable auto-migrates the full schema. Ledger entities first so
// documents can reference them.
func MigrateTable() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&Shop{},
		&Category{},
		&Product{},
		&Account{},
		&Customer{},
		&Supplier{},
		&Stock{},
		&Expense{},
		&Withdraw{},
		&AccountTransfer{},
		&PurchaseInvoice{},
		&PurchaseInvoiceItem{},
		&SalesInvoice{},
		&SalesInvoiceItem{},
		&Receipt{},
		&Payment{},
		&StockTransfer{},
		&StockTransferItem{},
	)
}
