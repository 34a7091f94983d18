package models

import (
	"context"
	"errors"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Name         string          `gorm:"uniqueIndex;size:255;not null" json:"name" binding:"required"`
	Description  string          `gorm:"type:text" json:"description"`
	ProfitMargin decimal.Decimal `gorm:"type:decimal(5,2);not null;default:10" json:"profit_margin"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type Product struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Name         string          `gorm:"index;size:255;not null" json:"name" binding:"required"`
	Description  string          `gorm:"type:text" json:"description"`
	ProfitMargin decimal.Decimal `gorm:"type:decimal(5,2);not null;default:10" json:"profit_margin"`
	CategoryId   int             `gorm:"index" json:"category_id"`
	Category     *Category       `json:"category,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCategory struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

type NewProduct struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	CategoryId   int             `json:"category_id"`
}

// EffectiveProfitMargin is the product's own margin, falling back to its
// category margin when the product margin is zero.
func (p *Product) EffectiveProfitMargin() decimal.Decimal {
	if !p.ProfitMargin.IsZero() {
		return p.ProfitMargin
	}
	if p.Category != nil {
		return p.Category.ProfitMargin
	}
	return decimal.Zero
}

func CreateCategory(ctx context.Context, input *NewCategory) (*Category, error) {

	if err := utils.ValidateUnique[Category](ctx, "name", input.Name, 0); err != nil {
		return nil, err
	}

	category := Category{
		Name:         input.Name,
		Description:  input.Description,
		ProfitMargin: input.ProfitMargin,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func UpdateCategory(ctx context.Context, id int, input *NewCategory) (*Category, error) {

	if err := utils.ValidateUnique[Category](ctx, "name", input.Name, id); err != nil {
		return nil, err
	}

	category, err := utils.FetchModel[Category](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(category).Updates(map[string]interface{}{
		"Name":         input.Name,
		"Description":  input.Description,
		"ProfitMargin": input.ProfitMargin,
	}).Error
	if err != nil {
		return nil, err
	}
	return category, nil
}

func DeleteCategory(ctx context.Context, id int) (*Category, error) {

	category, err := utils.FetchModel[Category](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("this category has products")
	}

	if err := db.WithContext(ctx).Delete(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func GetCategory(ctx context.Context, id int) (*Category, error) {
	return utils.FetchModel[Category](ctx, id)
}

func GetCategories(ctx context.Context) ([]*Category, error) {

	db := config.GetDB()
	var results []*Category

	if err := db.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {

	if input.CategoryId > 0 {
		if err := utils.ValidateResourceId[Category](ctx, input.CategoryId); err != nil {
			return nil, errors.New("category not found")
		}
	}

	product := Product{
		Name:         input.Name,
		Description:  input.Description,
		ProfitMargin: input.ProfitMargin,
		CategoryId:   input.CategoryId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {

	if input.CategoryId > 0 {
		if err := utils.ValidateResourceId[Category](ctx, input.CategoryId); err != nil {
			return nil, errors.New("category not found")
		}
	}

	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(product).Updates(map[string]interface{}{
		"Name":         input.Name,
		"Description":  input.Description,
		"ProfitMargin": input.ProfitMargin,
		"CategoryId":   input.CategoryId,
	}).Error
	if err != nil {
		return nil, err
	}
	return product, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {

	product, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&Stock{}).Where("product_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("this product has stock records")
	}

	if err := db.WithContext(ctx).Delete(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, id, "Category")
}

func GetProducts(ctx context.Context, name *string) ([]*Product, error) {

	db := config.GetDB()
	var results []*Product

	dbCtx := db.WithContext(ctx).Preload("Category")
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
