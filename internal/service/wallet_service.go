package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"safepay/internal/domain"
	"safepay/internal/models"
	"safepay/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// historyFanOut bounds concurrent transaction lookups per wallet view.
const historyFanOut = 8

type CreateWalletInput struct {
	Provider     string
	Type         string
	WalletNumber string
}

type WalletService struct {
	store repository.Store
	log   *slog.Logger
	now   func() time.Time
}

func NewWalletService(store repository.Store, log *slog.Logger) *WalletService {
	return &WalletService{store: store, log: log, now: time.Now}
}

// Create opens the owner's wallet with an empty history. An owner holds at
// most one wallet.
func (s *WalletService) Create(ctx context.Context, ownerID string, in CreateWalletInput) (*models.Wallet, error) {
	w := &models.Wallet{
		ID:           uuid.NewString(),
		UserID:       ownerID,
		Provider:     in.Provider,
		Type:         in.Type,
		WalletNumber: in.WalletNumber,
		History:      []string{},
		CreatedAt:    s.now().UTC(),
	}
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
		_, err := tx.Wallets().GetByUserID(ctx, ownerID)
		if err == nil {
			return domain.ErrWalletExists
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return tx.Wallets().Create(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("wallet created", "wallet_id", w.ID, "user_id", ownerID)
	return w, nil
}

// View resolves the owner's wallet history into transaction records, in
// history order. History entries whose record no longer exists are skipped.
func (s *WalletService) View(ctx context.Context, ownerID string) (*models.WalletView, error) {
	w, err := s.store.Wallets().GetByUserID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	resolved := make([]*models.Transaction, len(w.History))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(historyFanOut)
	for i, id := range w.History {
		g.Go(func() error {
			t, err := s.store.Transactions().GetByID(gctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				s.log.Warn("wallet history references missing transaction", "wallet_id", w.ID, "transaction_id", id)
				return nil
			}
			if err != nil {
				return err
			}
			resolved[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &models.WalletView{
		Provider:     w.Provider,
		WalletNumber: w.WalletNumber,
		Transactions: make([]models.Transaction, 0, len(resolved)),
	}
	for _, t := range resolved {
		if t != nil {
			view.Transactions = append(view.Transactions, *t)
		}
	}
	return view, nil
}

// AppendHistory links a transaction into a wallet. Appending the same id
// twice is a no-op.
func (s *WalletService) AppendHistory(ctx context.Context, walletID, transactionID string) error {
	return s.store.Wallets().AppendHistory(ctx, walletID, transactionID)
}
