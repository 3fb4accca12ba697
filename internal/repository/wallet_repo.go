package repository

import (
	"context"
	"errors"

	"safepay/internal/domain"
	"safepay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Create(ctx context.Context, w *models.Wallet) error {
	err := translate(r.db.WithContext(ctx).Create(w).Error)
	if errors.Is(err, domain.ErrConflict) {
		return domain.ErrWalletExists
	}
	return err
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	var w models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, translate(err)
	}
	history := []string{}
	err := r.db.WithContext(ctx).Model(&models.WalletEntry{}).
		Where("wallet_id = ?", w.ID).
		Order("seq").
		Pluck("transaction_id", &history).Error
	if err != nil {
		return nil, err
	}
	w.History = history
	return &w, nil
}

func (r *WalletRepository) AppendHistory(ctx context.Context, walletID, transactionID string) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Wallet{}).Where("id = ?", walletID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	entry := &models.WalletEntry{WalletID: walletID, TransactionID: transactionID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error
}
