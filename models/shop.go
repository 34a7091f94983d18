package models

import (
	"context"
	"errors"
	"time"

	"github.com/msretail/retail_backend/config"
	"github.com/msretail/retail_backend/utils"
)

type Shop struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Code        string    `gorm:"uniqueIndex;size:32;not null" json:"code" binding:"required"`
	Location    string    `gorm:"type:text" json:"location"`
	IsWarehouse *bool     `gorm:"not null;default:false" json:"is_warehouse"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewShop struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Location    string `json:"location"`
	IsWarehouse bool   `json:"is_warehouse"`
}

const shopListCacheKey = "Shops"

func CreateShop(ctx context.Context, input *NewShop) (*Shop, error) {

	if err := utils.ValidateUnique[Shop](ctx, "code", input.Code, 0); err != nil {
		return nil, err
	}

	shop := Shop{
		Name:        input.Name,
		Code:        input.Code,
		Location:    input.Location,
		IsWarehouse: &input.IsWarehouse,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&shop).Error; err != nil {
		return nil, err
	}
	config.RemoveRedisKey(shopListCacheKey)
	return &shop, nil
}

func UpdateShop(ctx context.Context, id int, input *NewShop) (*Shop, error) {

	if err := utils.ValidateUnique[Shop](ctx, "code", input.Code, id); err != nil {
		return nil, err
	}

	shop, err := utils.FetchModel[Shop](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(shop).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Code":        input.Code,
		"Location":    input.Location,
		"IsWarehouse": input.IsWarehouse,
	}).Error
	if err != nil {
		return nil, err
	}
	config.RemoveRedisKey(shopListCacheKey)
	return shop, nil
}

func DeleteShop(ctx context.Context, id int) (*Shop, error) {

	shop, err := utils.FetchModel[Shop](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&Stock{}).Where("shop_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("this shop has stock records")
	}

	if err := db.WithContext(ctx).Delete(shop).Error; err != nil {
		return nil, err
	}
	config.RemoveRedisKey(shopListCacheKey)
	return shop, nil
}

func GetShop(ctx context.Context, id int) (*Shop, error) {
	return utils.FetchModel[Shop](ctx, id)
}

// GetShops lists shops, redis-cached.
func GetShops(ctx context.Context) ([]*Shop, error) {

	var shops []*Shop
	exists, err := config.GetRedisObject(shopListCacheKey, &shops)
	if err != nil {
		return nil, err
	}
	if exists {
		return shops, nil
	}

	shops, err = utils.FetchAllModels[Shop](ctx)
	if err != nil {
		return nil, err
	}
	if err := config.SetRedisObject(shopListCacheKey, &shops, 0); err != nil {
		return nil, err
	}
	return shops, nil
}
