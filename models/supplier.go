package models

import (
	"context"
	"errors"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// Supplier.Payable is the store's outstanding debt to the supplier: purchase
// invoice totals increase it, payments decrease it.
type Supplier struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Name         string          `gorm:"index;size:255;not null" json:"name" binding:"required"`
	MobileNumber string          `gorm:"size:20" json:"mobile_number"`
	Address      string          `gorm:"type:text" json:"address"`
	Email        string          `gorm:"size:254" json:"email"`
	Payable      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"payable"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name         string `json:"name" binding:"required"`
	MobileNumber string `json:"mobile_number"`
	Address      string `json:"address"`
	Email        string `json:"email" binding:"omitempty,email"`
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {

	if input.MobileNumber != "" {
		if err := utils.ValidatePhoneNumber(input.MobileNumber, "LK"); err != nil {
			return nil, errors.New("invalid mobile number")
		}
	}

	supplier := Supplier{
		Name:         input.Name,
		MobileNumber: input.MobileNumber,
		Address:      input.Address,
		Email:        input.Email,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func UpdateSupplier(ctx context.Context, id int, input *NewSupplier) (*Supplier, error) {

	if input.MobileNumber != "" {
		if err := utils.ValidatePhoneNumber(input.MobileNumber, "LK"); err != nil {
			return nil, errors.New("invalid mobile number")
		}
	}

	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(supplier).Updates(map[string]interface{}{
		"Name":         input.Name,
		"MobileNumber": input.MobileNumber,
		"Address":      input.Address,
		"Email":        input.Email,
	}).Error
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func DeleteSupplier(ctx context.Context, id int) (*Supplier, error) {

	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&PurchaseInvoice{}).Where("supplier_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("this supplier has invoices")
	}

	if err := db.WithContext(ctx).Delete(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	return utils.FetchModel[Supplier](ctx, id)
}

func GetSuppliers(ctx context.Context, name *string) ([]*Supplier, error) {

	db := config.GetDB()
	var results []*Supplier

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// TotalPayable sums outstanding supplier payables.
func TotalPayable(ctx context.Context) (decimal.Decimal, error) {

	db := config.GetDB()
	var total decimal.NullDecimal
	err := db.WithContext(ctx).Model(&Supplier{}).
		Select("SUM(payable)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
