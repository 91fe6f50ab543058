package repo

import (
	"context"

	"github.com/Skotchmaster/shoplist/internal/models"
)

func (r *GormRepo) ListItems(ctx context.Context, offset, limit int) ([]models.CatalogItem, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.CatalogItem{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.CatalogItem
	if err := r.DB.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) GetItem(ctx context.Context, id uint) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) GetItemByName(ctx context.Context, name string) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateItem(ctx context.Context, item *models.CatalogItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) SaveItem(ctx context.Context, item *models.CatalogItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}
