package repo

import (
	"context"

	"github.com/Skotchmaster/shoplist/internal/models"
)

func (r *GormRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var acc models.Account
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *GormRepo) CreateAccount(ctx context.Context, acc *models.Account) error {
	return r.DB.WithContext(ctx).Create(acc).Error
}

func (r *GormRepo) SaveAccount(ctx context.Context, acc *models.Account) error {
	return r.DB.WithContext(ctx).Save(acc).Error
}
