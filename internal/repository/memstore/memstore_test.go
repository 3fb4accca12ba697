package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"safepay/internal/domain"
	"safepay/internal/models"
	"safepay/internal/repository"
	"safepay/internal/repository/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repository.Store { return New() })
}

func TestRunInTx_SerializesCheckThenCreate(t *testing.T) {
	s := New()
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
				if _, err := tx.Users().GetByUsername(ctx, "alice"); err == nil {
					return domain.ErrConflict
				}
				return tx.Users().Create(ctx, storetest.NewUser("alice"))
			})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, domain.ErrConflict)
		conflicts++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := storetest.NewUser("gina")
	require.NoError(t, s.Users().Create(ctx, u))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Username = "mutated"

	again, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "gina", again.Username)
}

func TestRollbackKeepsWritesMadeOutsideTheTransaction(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := storetest.NewUser("hana")
	require.NoError(t, s.Users().Create(ctx, u))
	require.NoError(t, s.Credentials().Create(ctx, &models.Credential{UserID: u.ID, PasswordHash: "h", AuthToken: "old"}))

	errAbort := errors.New("abort")
	err := s.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
		require.NoError(t, tx.Users().Create(ctx, storetest.NewUser("ivan")))

		done := make(chan struct{})
		go func() {
			defer close(done)
			assert.NoError(t, s.Credentials().SetToken(ctx, u.ID, "new"))
			assert.NoError(t, s.Messages().Create(ctx, &models.Analysis{ID: "m1", UserID: u.ID, CreatedAt: time.Now()}))
		}()
		<-done
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	cred, err := s.Credentials().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", cred.AuthToken)

	msgs, err := s.Messages().ListByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	_, err = s.Users().GetByUsername(ctx, "ivan")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRollbackRevertsUpdatesInReverseOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	owner := storetest.NewUser("jo")
	require.NoError(t, s.Users().Create(ctx, owner))
	w := &models.Wallet{ID: "w1", UserID: owner.ID, History: []string{}}
	require.NoError(t, s.Wallets().Create(ctx, w))
	require.NoError(t, s.Wallets().AppendHistory(ctx, "w1", "t0"))
	require.NoError(t, s.Transactions().Create(ctx, &models.Transaction{ID: "t0", Status: domain.StatusPending}))

	errAbort := errors.New("abort")
	err := s.RunInTx(ctx, func(ctx context.Context, tx repository.Store) error {
		require.NoError(t, tx.Transactions().UpdateStatus(ctx, "t0", domain.StatusCompleted, time.Now()))
		require.NoError(t, tx.Transactions().Create(ctx, &models.Transaction{ID: "t1", Status: domain.StatusPending}))
		require.NoError(t, tx.Wallets().AppendHistory(ctx, "w1", "t1"))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	got, err := s.Wallets().GetByUserID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"t0"}, got.History)

	t0, err := s.Transactions().GetByID(ctx, "t0")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, t0.Status)
	assert.Nil(t, t0.UpdatedAt)

	_, err = s.Transactions().GetByID(ctx, "t1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
