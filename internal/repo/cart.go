package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/shoplist/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartLine, error) {
	items := []models.CartLine{}
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ReserveOne moves one unit of stock from the catalog into the user's cart.
// The catalog row is locked for the whole check-then-act sequence.
func (r *GormRepo) ReserveOne(ctx context.Context, userID uint, itemName string) (*models.CartLine, *models.CatalogItem, error) {
	var line models.CartLine
	var item models.CatalogItem

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Where("name = ?", itemName).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOutOfStock
			}
			return err
		}
		if item.Quantity == 0 {
			return ErrOutOfStock
		}

		err := tx.Where("user_id = ? AND item_name = ?", userID, itemName).First(&line).Error
		switch {
		case err == nil:
			if item.Quantity <= line.Quantity {
				return ErrInsufficientStock
			}
			if err := tx.Model(&line).Update("quantity", gorm.Expr("quantity + 1")).Error; err != nil {
				return err
			}
			line.Quantity++
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = models.CartLine{UserID: userID, ItemName: itemName, Quantity: 1}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
			return err
		}
		item.Quantity--
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &line, &item, nil
}

// ReleaseLine puts the full line quantity back on the shelf and drops the
// line. Returns gorm.ErrRecordNotFound when the line is absent or owned by
// someone else.
func (r *GormRepo) ReleaseLine(ctx context.Context, userID, lineID uint) (*models.CatalogItem, error) {
	var item *models.CatalogItem

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line models.CartLine
		if err := lockForUpdate(tx).
			Where("id = ? AND user_id = ?", lineID, userID).First(&line).Error; err != nil {
			return err
		}

		res := tx.Model(&models.CatalogItem{}).
			Where("name = ?", line.ItemName).
			Update("quantity", gorm.Expr("quantity + ?", line.Quantity))
		if res.Error != nil {
			return res.Error
		}

		if err := tx.Delete(&line).Error; err != nil {
			return err
		}

		if res.RowsAffected > 0 {
			var restored models.CatalogItem
			if err := tx.Where("name = ?", line.ItemName).First(&restored).Error; err != nil {
				return err
			}
			item = &restored
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}
