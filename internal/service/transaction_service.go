package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"safepay/internal/domain"
	"safepay/internal/metrics"
	"safepay/internal/models"
	"safepay/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateTransactionInput struct {
	RecipientUsername string
	Amount            decimal.Decimal
	Reference         string
}

type TransactionService struct {
	store    repository.Store
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewTransactionService(store repository.Store, notifier Notifier, log *slog.Logger) *TransactionService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &TransactionService{store: store, notifier: notifier, log: log, now: time.Now}
}

// Create records a pending transfer from senderID to the named recipient
// and links it into both wallets. The record and both history entries are
// written in one store transaction.
func (s *TransactionService) Create(ctx context.Context, senderID string, in CreateTransactionInput) (*models.Transaction, error) {
	if !in.Amount.IsPositive() || !in.Amount.Equal(in.Amount.Truncate(domain.AmountScale)) {
		return nil, domain.ErrInvalidAmount
	}

	var created *models.Transaction
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
		recipient, err := tx.Users().GetByUsername(ctx, in.RecipientUsername)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidRecipient
		}
		if err != nil {
			return err
		}
		if recipient.ID == senderID {
			return domain.ErrInvalidRecipient
		}

		senderWallet, err := tx.Wallets().GetByUserID(ctx, senderID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrSenderNoWallet
		}
		if err != nil {
			return err
		}
		recipientWallet, err := tx.Wallets().GetByUserID(ctx, recipient.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrRecipientNoWallet
		}
		if err != nil {
			return err
		}

		t := &models.Transaction{
			ID:           uuid.NewString(),
			SenderID:     senderID,
			ReceiverID:   recipient.ID,
			Amount:       in.Amount,
			Reference:    in.Reference,
			Type:         senderWallet.Type,
			WalletNumber: senderWallet.WalletNumber,
			Status:       domain.StatusPending,
			CreatedAt:    s.now().UTC(),
		}
		if err := tx.Transactions().Create(ctx, t); err != nil {
			return err
		}
		if err := tx.Wallets().AppendHistory(ctx, senderWallet.ID, t.ID); err != nil {
			return err
		}
		if err := tx.Wallets().AppendHistory(ctx, recipientWallet.ID, t.ID); err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TransactionsCreated.Inc()
	s.log.Info("transaction created",
		"transaction_id", created.ID,
		"sender_id", created.SenderID,
		"receiver_id", created.ReceiverID,
		"amount", created.Amount.String(),
	)
	s.notifier.BroadcastToUser(created.ReceiverID, TransactionEvent{Type: domain.EventTransactionCreated, Transaction: created})
	return created, nil
}

func (s *TransactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return s.store.Transactions().GetByID(ctx, id)
}

// UpdateStatus moves a pending transaction to completed or declined. Only
// the receiver may do so, and only once.
func (s *TransactionService) UpdateStatus(ctx context.Context, id, status, requesterID string) (*models.Transaction, error) {
	if !domain.IsTerminalStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	var updated *models.Transaction
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
		t, err := tx.Transactions().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if t.ReceiverID != requesterID {
			return domain.ErrForbidden
		}
		if t.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		at := s.now().UTC()
		if err := tx.Transactions().UpdateStatus(ctx, id, status, at); err != nil {
			return err
		}
		t.Status = status
		t.UpdatedAt = &at
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TransactionStatusUpdates.WithLabelValues(status).Inc()
	s.log.Info("transaction status updated", "transaction_id", id, "status", status, "receiver_id", requesterID)
	s.notifier.BroadcastToUser(updated.SenderID, TransactionEvent{Type: domain.EventTransactionStatus, Transaction: updated})
	return updated, nil
}
