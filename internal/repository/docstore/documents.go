package docstore

import (
	"fmt"
	"time"

	"safepay/internal/models"

	"github.com/shopspring/decimal"
)

type userDoc struct {
	UserID      string    `firestore:"userId"`
	Name        string    `firestore:"name"`
	Surname     string    `firestore:"surname"`
	Username    string    `firestore:"username"`
	PhoneNumber string    `firestore:"phoneNumber"`
	Email       string    `firestore:"email"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{
		UserID:      u.ID,
		Name:        u.Name,
		Surname:     u.Surname,
		Username:    u.Username,
		PhoneNumber: u.PhoneNumber,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
	}
}

func (d userDoc) model(id string) *models.User {
	return &models.User{
		ID:          id,
		Name:        d.Name,
		Surname:     d.Surname,
		Username:    d.Username,
		PhoneNumber: d.PhoneNumber,
		Email:       d.Email,
		CreatedAt:   d.CreatedAt,
	}
}

type keyDoc struct {
	UserID    string `firestore:"userId"`
	Password  string `firestore:"password"`
	AuthToken string `firestore:"authToken"`
}

func toKeyDoc(c *models.Credential) keyDoc {
	return keyDoc{UserID: c.UserID, Password: c.PasswordHash, AuthToken: c.AuthToken}
}

func (d keyDoc) model() *models.Credential {
	return &models.Credential{UserID: d.UserID, PasswordHash: d.Password, AuthToken: d.AuthToken}
}

type walletDoc struct {
	UserID       string    `firestore:"userID"`
	Provider     string    `firestore:"provider"`
	Type         string    `firestore:"type"`
	WalletNumber string    `firestore:"walletNumber"`
	History      []string  `firestore:"history"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

func toWalletDoc(w *models.Wallet) walletDoc {
	history := w.History
	if history == nil {
		history = []string{}
	}
	return walletDoc{
		UserID:       w.UserID,
		Provider:     w.Provider,
		Type:         w.Type,
		WalletNumber: w.WalletNumber,
		History:      history,
		CreatedAt:    w.CreatedAt,
	}
}

func (d walletDoc) model(id string) *models.Wallet {
	return &models.Wallet{
		ID:           id,
		UserID:       d.UserID,
		Provider:     d.Provider,
		Type:         d.Type,
		WalletNumber: d.WalletNumber,
		History:      append([]string{}, d.History...),
		CreatedAt:    d.CreatedAt,
	}
}

// Amounts are stored as decimal strings; Firestore numbers are float64.
type transactionDoc struct {
	SenderID     string     `firestore:"senderID"`
	ReceiverID   string     `firestore:"receiverID"`
	Amount       string     `firestore:"amount"`
	Reference    string     `firestore:"reference"`
	Type         string     `firestore:"type"`
	WalletNumber string     `firestore:"walletNumber"`
	Status       string     `firestore:"status"`
	Timestamp    time.Time  `firestore:"timestamp"`
	UpdatedAt    *time.Time `firestore:"updatedAt,omitempty"`
}

func toTransactionDoc(t *models.Transaction) transactionDoc {
	return transactionDoc{
		SenderID:     t.SenderID,
		ReceiverID:   t.ReceiverID,
		Amount:       t.Amount.String(),
		Reference:    t.Reference,
		Type:         t.Type,
		WalletNumber: t.WalletNumber,
		Status:       t.Status,
		Timestamp:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func (d transactionDoc) model(id string) (*models.Transaction, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: bad amount %q: %w", id, d.Amount, err)
	}
	return &models.Transaction{
		ID:           id,
		SenderID:     d.SenderID,
		ReceiverID:   d.ReceiverID,
		Amount:       amount,
		Reference:    d.Reference,
		Type:         d.Type,
		WalletNumber: d.WalletNumber,
		Status:       d.Status,
		CreatedAt:    d.Timestamp,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type messageDoc struct {
	UserID           string    `firestore:"userID"`
	IsScam           bool      `firestore:"isScam"`
	Confidence       float64   `firestore:"confidence"`
	RiskLevel        string    `firestore:"riskLevel"`
	DetectedPatterns []string  `firestore:"detectedPatterns"`
	Recommendation   string    `firestore:"recommendation"`
	AnalysisType     string    `firestore:"analysisType"`
	CreatedAt        time.Time `firestore:"createdAt"`
}

func toMessageDoc(a *models.Analysis) messageDoc {
	return messageDoc{
		UserID:           a.UserID,
		IsScam:           a.IsScam,
		Confidence:       a.Confidence,
		RiskLevel:        a.RiskLevel,
		DetectedPatterns: a.DetectedPatterns,
		Recommendation:   a.Recommendation,
		AnalysisType:     a.AnalysisType,
		CreatedAt:        a.CreatedAt,
	}
}

func (d messageDoc) model(id string) *models.Analysis {
	return &models.Analysis{
		ID:               id,
		UserID:           d.UserID,
		IsScam:           d.IsScam,
		Confidence:       d.Confidence,
		RiskLevel:        d.RiskLevel,
		DetectedPatterns: d.DetectedPatterns,
		Recommendation:   d.Recommendation,
		AnalysisType:     d.AnalysisType,
		CreatedAt:        d.CreatedAt,
	}
}
