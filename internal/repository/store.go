// Package repository defines the persistence contract used by the services
// and its gorm-backed implementation.
package repository

import (
	"context"
	"time"

	"safepay/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type CredentialStore interface {
	Create(ctx context.Context, c *models.Credential) error
	GetByUserID(ctx context.Context, userID string) (*models.Credential, error)
	SetToken(ctx context.Context, userID, token string) error
}

type WalletStore interface {
	Create(ctx context.Context, w *models.Wallet) error
	GetByUserID(ctx context.Context, userID string) (*models.Wallet, error)
	// AppendHistory adds transactionID to the wallet history unless it is
	// already there.
	AppendHistory(ctx context.Context, walletID, transactionID string) error
}

type TransactionStore interface {
	Create(ctx context.Context, t *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	// UpdateStatus moves a pending transaction to status. It returns
	// domain.ErrInvalidTransition when the transaction is no longer pending.
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
}

type MessageStore interface {
	Create(ctx context.Context, a *models.Analysis) error
	ListByUserID(ctx context.Context, userID string) ([]models.Analysis, error)
}

// Store groups the collections. Lookups that miss return domain.ErrNotFound.
type Store interface {
	Users() UserStore
	Credentials() CredentialStore
	Wallets() WalletStore
	Transactions() TransactionStore
	Messages() MessageStore

	// RunInTx runs fn against a transactional view of the store. All reads
	// inside fn must happen before the first write. Calling RunInTx on a
	// transactional view runs fn in the enclosing transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
