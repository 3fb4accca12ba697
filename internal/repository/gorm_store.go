package repository

import (
	"context"
	"errors"

	"safepay/internal/domain"
	"safepay/internal/models"

	"gorm.io/gorm"
)

// GormStore implements Store on top of a SQL database through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserStore { return NewUserRepository(s.db) }
func (s *GormStore) Credentials() CredentialStore { return NewCredentialRepository(s.db) }
func (s *GormStore) Wallets() WalletStore { return NewWalletRepository(s.db) }
func (s *GormStore) Transactions() TransactionStore { return NewTransactionRepository(s.db) }
func (s *GormStore) Messages() MessageStore { return NewMessageRepository(s.db) }

func (s *GormStore) RunInTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &GormStore{db: tx})
	})
}

// AutoMigrate creates or updates every table the store uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Credential{},
		&models.Wallet{},
		&models.WalletEntry{},
		&models.Transaction{},
		&models.Analysis{},
	)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrConflict
	}
	return err
}
