package repository

import (
	"context"
	"time"

	"safepay/internal/domain"
	"safepay/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// UpdateStatus only matches a pending row, so of two concurrent updates the
// second finds nothing to change and gets ErrInvalidTransition.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{"status": status, "updated_at": at})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := db.Model(&models.Transaction{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidTransition
}

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, a *models.Analysis) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *MessageRepository) ListByUserID(ctx context.Context, userID string) ([]models.Analysis, error) {
	var list []models.Analysis
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&list).Error
	return list, err
}
