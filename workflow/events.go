package workflow

import (
	"fmt"

	"github.com/msretail/retail_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Document lifecycle dispatch. Every balance mutation in the system runs
// through these two entry points, inside the same transaction that persists
// the document row, so a rollback takes the propagation with it.
//
// OnDocumentSaved runs after the row has been written. prev is the snapshot
// captured before the write: nil for a creation, missing-marked when the
// original row vanished underneath the update.
func OnDocumentSaved(tx *gorm.DB, logger *logrus.Logger, doc any, prev Snapshot) error {
	switch d := doc.(type) {
	case *models.Withdraw:
		s, err := snapshotAs[WithdrawSnapshot](prev)
		if err != nil {
			return err
		}
		return withdrawSaved(tx, logger, d, s)
	case *models.AccountTransfer:
		s, err := snapshotAs[AccountTransferSnapshot](prev)
		if err != nil {
			return err
		}
		return accountTransferSaved(tx, logger, d, s)
	case *models.Payment:
		s, err := snapshotAs[PaymentSnapshot](prev)
		if err != nil {
			return err
		}
		return paymentSaved(tx, logger, d, s)
	case *models.Receipt:
		s, err := snapshotAs[ReceiptSnapshot](prev)
		if err != nil {
			return err
		}
		return receiptSaved(tx, logger, d, s)
	case *models.PurchaseInvoice:
		s, err := snapshotAs[PurchaseInvoiceSnapshot](prev)
		if err != nil {
			return err
		}
		return purchaseInvoiceSaved(tx, logger, d, s)
	case *models.PurchaseInvoiceItem:
		s, err := snapshotAs[PurchaseInvoiceItemSnapshot](prev)
		if err != nil {
			return err
		}
		return purchaseItemSaved(tx, logger, d, s)
	case *models.SalesInvoice:
		s, err := snapshotAs[SalesInvoiceSnapshot](prev)
		if err != nil {
			return err
		}
		return salesInvoiceSaved(tx, logger, d, s)
	case *models.SalesInvoiceItem:
		s, err := snapshotAs[SalesInvoiceItemSnapshot](prev)
		if err != nil {
			return err
		}
		return salesItemSaved(tx, logger, d, s)
	case *models.StockTransfer:
		s, err := snapshotAs[StockTransferSnapshot](prev)
		if err != nil {
			return err
		}
		return stockTransferSaved(tx, logger, d, s)
	case *models.StockTransferItem:
		s, err := snapshotAs[StockTransferItemSnapshot](prev)
		if err != nil {
			return err
		}
		return stockTransferItemSaved(tx, logger, d, s)
	default:
		return fmt.Errorf("saved: unsupported document type %T", doc)
	}
}

// OnDocumentDeleting runs before the row is removed and reverses the
// document's full effect.
func OnDocumentDeleting(tx *gorm.DB, logger *logrus.Logger, doc any) error {
	switch d := doc.(type) {
	case *models.Withdraw:
		return withdrawDeleting(tx, logger, d)
	case *models.AccountTransfer:
		return accountTransferDeleting(tx, logger, d)
	case *models.Payment:
		return paymentDeleting(tx, logger, d)
	case *models.Receipt:
		return receiptDeleting(tx, logger, d)
	case *models.PurchaseInvoiceItem:
		return purchaseItemDeleting(tx, logger, d)
	case *models.SalesInvoiceItem:
		return salesItemDeleting(tx, logger, d)
	case *models.StockTransferItem:
		return stockTransferItemDeleting(tx, logger, d)
	default:
		return fmt.Errorf("deleting: unsupported document type %T", doc)
	}
}
