package models

import (
	"context"
	"errors"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// Customer.Credit is the customer's outstanding debt to the store: sales
// invoice totals increase it, receipts decrease it.
type Customer struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Name         string          `gorm:"index;size:255;not null" json:"name" binding:"required"`
	MobileNumber string          `gorm:"size:20" json:"mobile_number"`
	Address      string          `gorm:"type:text" json:"address"`
	Email        string          `gorm:"size:254" json:"email"`
	Credit       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"credit"`
	CreditLimit  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"credit_limit"`
	CreditPeriod int             `gorm:"not null;default:0" json:"credit_period"`
	WholeSale    *bool           `gorm:"not null;default:false" json:"whole_sale"`
	BlackList    *bool           `gorm:"not null;default:false" json:"black_list"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name         string          `json:"name" binding:"required"`
	MobileNumber string          `json:"mobile_number"`
	Address      string          `json:"address"`
	Email        string          `json:"email" binding:"omitempty,email"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	CreditPeriod int             `json:"credit_period"`
	WholeSale    bool            `json:"whole_sale"`
	BlackList    bool            `json:"black_list"`
}

func (input *NewCustomer) validate() error {
	if input.MobileNumber != "" {
		if err := utils.ValidatePhoneNumber(input.MobileNumber, "LK"); err != nil {
			return errors.New("invalid mobile number")
		}
	}
	return nil
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	customer := Customer{
		Name:         input.Name,
		MobileNumber: input.MobileNumber,
		Address:      input.Address,
		Email:        input.Email,
		CreditLimit:  input.CreditLimit,
		CreditPeriod: input.CreditPeriod,
		WholeSale:    &input.WholeSale,
		BlackList:    &input.BlackList,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func UpdateCustomer(ctx context.Context, id int, input *NewCustomer) (*Customer, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	customer, err := utils.FetchModel[Customer](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(customer).Updates(map[string]interface{}{
		"Name":         input.Name,
		"MobileNumber": input.MobileNumber,
		"Address":      input.Address,
		"Email":        input.Email,
		"CreditLimit":  input.CreditLimit,
		"CreditPeriod": input.CreditPeriod,
		"WholeSale":    input.WholeSale,
		"BlackList":    input.BlackList,
	}).Error
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func DeleteCustomer(ctx context.Context, id int) (*Customer, error) {

	customer, err := utils.FetchModel[Customer](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&SalesInvoice{}).Where("customer_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("this customer has invoices")
	}

	if err := db.WithContext(ctx).Delete(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {
	return utils.FetchModel[Customer](ctx, id)
}

func GetCustomers(ctx context.Context, name *string) ([]*Customer, error) {

	db := config.GetDB()
	var results []*Customer

	dbCtx := db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// TotalReceivable sums outstanding customer credit.
func TotalReceivable(ctx context.Context) (decimal.Decimal, error) {

	db := config.GetDB()
	var total decimal.NullDecimal
	err := db.WithContext(ctx).Model(&Customer{}).
		Select("SUM(credit)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
