package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/shoplist/internal/models"
	"gorm.io/gorm"
)

// FinalizePurchase turns the user's cart lines into purchase records at the
// current catalog price and empties the cart. Stock is not touched: the
// reservation already removed it from availability. A transaction id that was
// already recorded is treated as a replayed callback and writes nothing.
func (r *GormRepo) FinalizePurchase(ctx context.Context, userID uint, transactionID string) (int, error) {
	written := 0

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.PurchaseRecord{}).
			Where("transaction_id = ?", transactionID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		var lines []models.CartLine
		if err := lockForUpdate(tx).
			Where("user_id = ?", userID).Find(&lines).Error; err != nil {
			return err
		}

		for _, line := range lines {
			var item models.CatalogItem
			if err := tx.Where("name = ?", line.ItemName).First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}

			rec := models.PurchaseRecord{
				TransactionID: transactionID,
				UserID:        userID,
				ItemName:      line.ItemName,
				Quantity:      line.Quantity,
				UnitPrice:     item.Price,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			written++
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartLine{}).Error
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (r *GormRepo) ListPurchases(ctx context.Context, userID uint) ([]models.PurchaseRecord, error) {
	records := []models.PurchaseRecord{}
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchased_at ASC").
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
