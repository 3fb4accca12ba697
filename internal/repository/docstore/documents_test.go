package docstore

import (
	"errors"
	"testing"
	"time"

	"safepay/internal/domain"
	"safepay/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestTransactionDoc_RoundTrip(t *testing.T) {
	now := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	in := &models.Transaction{
		ID:           "tx-1",
		SenderID:     "a",
		ReceiverID:   "b",
		Amount:       decimal.RequireFromString("100.25"),
		Reference:    "lunch",
		Type:         "bank",
		WalletNumber: "42",
		Status:       domain.StatusPending,
		CreatedAt:    now,
	}

	doc := toTransactionDoc(in)
	assert.Equal(t, "100.25", doc.Amount)
	assert.Nil(t, doc.UpdatedAt)

	out, err := doc.model("tx-1")
	require.NoError(t, err)
	assert.True(t, in.Amount.Equal(out.Amount))
	assert.Equal(t, in.SenderID, out.SenderID)
	assert.Equal(t, in.ReceiverID, out.ReceiverID)
	assert.Equal(t, now, out.CreatedAt)
}

func TestTransactionDoc_BadAmount(t *testing.T) {
	_, err := transactionDoc{Amount: "lots"}.model("tx-2")
	assert.Error(t, err)
}

func TestWalletDoc_NilHistoryStoredAsEmpty(t *testing.T) {
	doc := toWalletDoc(&models.Wallet{ID: "w", UserID: "u"})
	require.NotNil(t, doc.History)
	assert.Empty(t, doc.History)

	w := walletDoc{UserID: "u", History: []string{"t1", "t2"}}.model("w")
	assert.Equal(t, "w", w.ID)
	assert.Equal(t, []string{"t1", "t2"}, w.History)
}

func TestUserAndKeyDocs(t *testing.T) {
	u := &models.User{ID: "u1", Name: "Alice", Username: "alice", Email: "alice@x.com"}
	assert.Equal(t, *u, *toUserDoc(u).model("u1"))

	c := &models.Credential{UserID: "u1", PasswordHash: "h", AuthToken: "t"}
	assert.Equal(t, *c, *toKeyDoc(c).model())
}

func TestTranslate(t *testing.T) {
	other := errors.New("other")
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(status.Error(codes.NotFound, "missing")), domain.ErrNotFound)
	assert.ErrorIs(t, translate(status.Error(codes.AlreadyExists, "dup")), domain.ErrConflict)
	assert.ErrorIs(t, translate(other), other)
}
