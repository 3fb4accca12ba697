// Package storetest holds the behaviour every repository.Store backend must
// share. Backends call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"safepay/internal/domain"
	"safepay/internal/models"
	"safepay/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run executes the contract suite. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("credentials", func(t *testing.T) { testCredentials(t, newStore(t)) })
	t.Run("wallets", func(t *testing.T) { testWallets(t, newStore(t)) })
	t.Run("transactions", func(t *testing.T) { testTransactions(t, newStore(t)) })
	t.Run("messages", func(t *testing.T) { testMessages(t, newStore(t)) })
	t.Run("tx rollback", func(t *testing.T) { testRollback(t, newStore(t)) })
	t.Run("tx commit", func(t *testing.T) { testCommit(t, newStore(t)) })
}

func NewUser(username string) *models.User {
	return &models.User{
		ID:          uuid.NewString(),
		Name:        "Name " + username,
		Surname:     "Surname",
		Username:    username,
		PhoneNumber: "0820000000",
		Email:       username + "@x.com",
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func testUsers(t *testing.T, s repository.Store) {
	ctx := context.Background()
	alice := NewUser("alice")
	require.NoError(t, s.Users().Create(ctx, alice))

	got, err := s.Users().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	got, err = s.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = s.Users().GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	dup := NewUser("alice")
	assert.ErrorIs(t, s.Users().Create(ctx, dup), domain.ErrConflict)

	_, err = s.Users().GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Users().GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testCredentials(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := NewUser("carol")
	require.NoError(t, s.Users().Create(ctx, u))
	require.NoError(t, s.Credentials().Create(ctx, &models.Credential{UserID: u.ID, PasswordHash: "hash", AuthToken: "t1"}))

	c, err := s.Credentials().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", c.PasswordHash)
	assert.Equal(t, "t1", c.AuthToken)

	require.NoError(t, s.Credentials().SetToken(ctx, u.ID, "t2"))
	c, err = s.Credentials().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "t2", c.AuthToken)

	assert.ErrorIs(t, s.Credentials().SetToken(ctx, uuid.NewString(), "t3"), domain.ErrNotFound)
	_, err = s.Credentials().GetByUserID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testWallets(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := NewUser("dave")
	require.NoError(t, s.Users().Create(ctx, u))

	w := &models.Wallet{ID: uuid.NewString(), UserID: u.ID, Provider: "FNB", Type: "bank", WalletNumber: "123", History: []string{}, CreatedAt: time.Now().UTC()}
	require.NoError(t, s.Wallets().Create(ctx, w))

	second := &models.Wallet{ID: uuid.NewString(), UserID: u.ID, Provider: "Capitec"}
	assert.ErrorIs(t, s.Wallets().Create(ctx, second), domain.ErrWalletExists)

	got, err := s.Wallets().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.ID)
	assert.Equal(t, "FNB", got.Provider)
	assert.Empty(t, got.History)

	require.NoError(t, s.Wallets().AppendHistory(ctx, w.ID, "tx-1"))
	require.NoError(t, s.Wallets().AppendHistory(ctx, w.ID, "tx-2"))
	require.NoError(t, s.Wallets().AppendHistory(ctx, w.ID, "tx-1"))

	got, err = s.Wallets().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tx-1", "tx-2"}, got.History)

	assert.ErrorIs(t, s.Wallets().AppendHistory(ctx, uuid.NewString(), "tx-3"), domain.ErrNotFound)
	_, err = s.Wallets().GetByUserID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testTransactions(t *testing.T, s repository.Store) {
	ctx := context.Background()
	tx := &models.Transaction{
		ID:           uuid.NewString(),
		SenderID:     "sender",
		ReceiverID:   "receiver",
		Amount:       decimal.RequireFromString("12.50"),
		Reference:    "lunch",
		Type:         "bank",
		WalletNumber: "123",
		Status:       domain.StatusPending,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.Transactions().Create(ctx, tx))

	got, err := s.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(got.Amount), "amount %s", got.Amount)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, "lunch", got.Reference)
	assert.Nil(t, got.UpdatedAt)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Transactions().UpdateStatus(ctx, tx.ID, domain.StatusCompleted, at))
	got, err = s.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.NotNil(t, got.UpdatedAt)
	assert.WithinDuration(t, at, *got.UpdatedAt, time.Second)

	err = s.Transactions().UpdateStatus(ctx, tx.ID, domain.StatusDeclined, at.Add(time.Minute))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	got, err = s.Transactions().GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status, "a settled transaction keeps its status")

	assert.ErrorIs(t, s.Transactions().UpdateStatus(ctx, uuid.NewString(), domain.StatusCompleted, at), domain.ErrNotFound)
	_, err = s.Transactions().GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testMessages(t *testing.T, s repository.Store) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)
	first := models.NewAnalysis(uuid.NewString(), "u1", &models.Verdict{
		IsScam: true, Confidence: 0.9, RiskLevel: domain.RiskHigh,
		DetectedPatterns: []string{"Suspicious URL detected"}, Recommendation: "block", AnalysisType: "AI",
	}, base)
	second := models.NewAnalysis(uuid.NewString(), "u1", &models.Verdict{RiskLevel: domain.RiskLow}, base.Add(time.Minute))
	other := models.NewAnalysis(uuid.NewString(), "u2", &models.Verdict{RiskLevel: domain.RiskLow}, base)

	require.NoError(t, s.Messages().Create(ctx, second))
	require.NoError(t, s.Messages().Create(ctx, first))
	require.NoError(t, s.Messages().Create(ctx, other))

	list, err := s.Messages().ListByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, []string{"Suspicious URL detected"}, list[0].DetectedPatterns)
	assert.True(t, list[0].IsScam)
	assert.Equal(t, second.ID, list[1].ID)

	list, err = s.Messages().ListByUserID(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}

var errBoom = errors.New("boom")

func testRollback(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := NewUser("erin")
	err := s.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = s.Users().GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testCommit(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := NewUser("frank")
	err := s.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Users().GetByUsername(ctx, u.Username); !errors.Is(err, domain.ErrNotFound) {
			return errors.New("expected username to be free")
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		// nested calls join the outer transaction
		return tx.RunInTx(ctx, func(ctx context.Context, inner repository.Store) error {
			return inner.Credentials().Create(ctx, &models.Credential{UserID: u.ID, PasswordHash: "h"})
		})
	})
	require.NoError(t, err)

	_, err = s.Users().GetByID(ctx, u.ID)
	assert.NoError(t, err)
	_, err = s.Credentials().GetByUserID(ctx, u.ID)
	assert.NoError(t, err)
}
