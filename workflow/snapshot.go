package workflow

import (
	"errors"
	"fmt"

	"github.com/msretail/retail_backend/models"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Snapshot is the immutable original state of a document, captured before an
// update or delete is persisted. A nil Snapshot means the document is new.
// A Snapshot with Missing() true means the original row could not be loaded
// (concurrently deleted); update propagation must skip delta application and
// only log, to avoid corrupting balances with partial data.
type Snapshot interface {
	Missing() bool
}

type snapshotBase struct {
	missing bool
}

func (s *snapshotBase) Missing() bool { return s.missing }

type WithdrawSnapshot struct {
	snapshotBase
	AccountId int
	Amount    decimal.Decimal
}

type AccountTransferSnapshot struct {
	snapshotBase
	FromAccountId int
	ToAccountId   int
	Amount        decimal.Decimal
}

type PaymentSnapshot struct {
	snapshotBase
	AccountId   int
	PayableType models.PayableType
	PayableId   int
	Amount      decimal.Decimal
}

type ReceiptSnapshot struct {
	snapshotBase
	AccountId      int
	SalesInvoiceId int
	Amount         decimal.Decimal
}

type PurchaseInvoiceSnapshot struct {
	snapshotBase
	SupplierId  int
	ShopId      int
	TotalAmount decimal.Decimal
}

type PurchaseInvoiceItemSnapshot struct {
	snapshotBase
	PurchaseInvoiceId int
	ProductId         int
	Quantity          decimal.Decimal
	Price             decimal.Decimal
}

type SalesInvoiceSnapshot struct {
	snapshotBase
	CustomerId  int
	ShopId      int
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
}

type SalesInvoiceItemSnapshot struct {
	snapshotBase
	SalesInvoiceId int
	ProductId      int
	Quantity       decimal.Decimal
	Price          decimal.Decimal
	DiscountMethod *utils.DiscountMethod
	DiscountAmount decimal.Decimal
}

type StockTransferSnapshot struct {
	snapshotBase
	FromShopId int
	ToShopId   int
}

type StockTransferItemSnapshot struct {
	snapshotBase
	StockTransferId int
	ProductId       int
	Quantity        decimal.Decimal
}

// CaptureOriginal loads the previously-persisted version of a document by
// primary key and returns its propagation-relevant fields as a Snapshot.
// Returns (nil, nil) for a document without a primary key (a creation).
// A lookup miss degrades to a missing-marked snapshot, never an error.
func CaptureOriginal(tx *gorm.DB, doc any) (Snapshot, error) {
	switch d := doc.(type) {
	case *models.Withdraw:
		if d.ID == 0 {
			return nil, nil
		}
		var orig models.Withdraw
		if err := tx.First(&orig, d.ID).Error; err != nil {
			return missingSnapshot[WithdrawSnapshot](err)
		}
		return &WithdrawSnapshot{AccountId: orig.AccountId, Amount: orig.Amount}, nil

	case *models.AccountTransfer:
		if d.ID == 0 {
			return nil, nil
		}
		var orig models.AccountTransfer
		if err := tx.First(&orig, d.ID).Error; err != nil {
			return missingSnapshot[AccountTransferSnapshot](err)
		}
		return &AccountTransferSnapshot{
			FromAccountId: orig.FromAccountId,
			ToAccountId:   orig.ToAccountId,
			Amount:        orig.Amount,
		}, nil

	case *models.Payment:
		if d.ID == 0 {
			return nil, nil
		}
		var orig models.Payment
		if err := tx.First(&orig, d.ID).Error; err != nil {
			return missingSnapshot[PaymentSnapshot](err)
		}
		return &PaymentSnapshot{
			AccountId:   orig.AccountId,
			PayableType: orig.PayableType,
			PayableId:   orig.PayableId,
			Amount:      orig.Amount,
		}, nil

	case *models.Receipt:
		if d.ID == 0 {
			return nil, nil
		}
		var orig models.Receipt
		if err := tx.First(&orig, d.ID).Error; err != nil {
			return missingSnapshot[ReceiptSnapshot](err)
		}
		return &ReceiptSnapshot{
			AccountId:      orig.AccountId,
			SalesInvoiceId: orig.SalesInvoiceId,
			Amount:         orig.Amount,
		}, nil

	case *models.PurchaseInvoice:
		if d.ID == 0 {
			return nil, nil
		}
		var orig models.PurchaseInvoice
		if err := tx.First(&orig, d.ID).Error; err != nil {
			return missingSnapshot[PurchaseInvoiceSnapshot](err)
		}
		return &PurchaseInvoiceSnapshot{
			SupplierId:  orig.SupplierId,
			ShopId:      orig.ShopId,
			TotalAmount: orig.TotalAmount,
		}, nil

	case *models.PurchaseInvoiceItem:
		if d.ID == 0 {
			return nil, nil
		}
		var orig models.PurchaseInvoiceItem
		if err := tx.First(&orig, d.ID).Error; err != nil {
			return missingSnapshot[PurchaseInvoiceItemSnapshot](err)
		}
		return &PurchaseInvoiceItemSnapshot{
			PurchaseInvoiceId: orig.PurchaseInvoiceId,
			ProductId:         orig.ProductId,
			Quantity:          orig.Quantity,
			Price:             orig.Price,
		}, nil

	case *models.SalesInvoice:
		if d.ID == 0 {
			return nil, nil
		}
		var orig models.SalesInvoice
		if err := tx.First(&orig, d.ID).Error; err != nil {
			return missingSnapshot[SalesInvoiceSnapshot](err)
		}
		return &SalesInvoiceSnapshot{
			CustomerId:  orig.CustomerId,
			ShopId:      orig.ShopId,
			TotalAmount: orig.TotalAmount,
			PaidAmount:  orig.PaidAmount,
		}, nil

	case *models.SalesInvoiceItem:
		if d.ID == 0 {
			return nil, nil
		}
		var orig models.SalesInvoiceItem
		if err := tx.First(&orig, d.ID).Error; err != nil {
			return missingSnapshot[SalesInvoiceItemSnapshot](err)
		}
		return &SalesInvoiceItemSnapshot{
			SalesInvoiceId: orig.SalesInvoiceId,
			ProductId:      orig.ProductId,
			Quantity:       orig.Quantity,
			Price:          orig.Price,
			DiscountMethod: orig.DiscountMethod,
			DiscountAmount: orig.DiscountAmount,
		}, nil

	case *models.StockTransfer:
		if d.ID == 0 {
			return nil, nil
		}
		var orig models.StockTransfer
		if err := tx.First(&orig, d.ID).Error; err != nil {
			return missingSnapshot[StockTransferSnapshot](err)
		}
		return &StockTransferSnapshot{
			FromShopId: orig.FromShopId,
			ToShopId:   orig.ToShopId,
		}, nil

	case *models.StockTransferItem:
		if d.ID == 0 {
			return nil, nil
		}
		var orig models.StockTransferItem
		if err := tx.First(&orig, d.ID).Error; err != nil {
			return missingSnapshot[StockTransferItemSnapshot](err)
		}
		return &StockTransferItemSnapshot{
			StockTransferId: orig.StockTransferId,
			ProductId:       orig.ProductId,
			Quantity:        orig.Quantity,
		}, nil

	default:
		return nil, fmt.Errorf("capture: unsupported document type %T", doc)
	}
}

// missingSnapshot turns a not-found lookup into a missing-marked snapshot.
// Any other DB error is surfaced.
func missingSnapshot[T any](err error) (Snapshot, error) {
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	s := new(T)
	if ms, ok := any(s).(interface{ markMissing() }); ok {
		ms.markMissing()
	}
	return any(s).(Snapshot), nil
}

func (s *snapshotBase) markMissing() { s.missing = true }

// snapshotAs narrows the dispatcher's Snapshot to the concrete type a
// propagation function expects. nil stays nil (creation).
func snapshotAs[T any](prev Snapshot) (*T, error) {
	if prev == nil {
		return nil, nil
	}
	s, ok := any(prev).(*T)
	if !ok {
		return nil, fmt.Errorf("unexpected snapshot type %T", prev)
	}
	return s, nil
}
