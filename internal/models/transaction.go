package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	SenderID     string          `gorm:"size:36;not null;index" json:"senderID"`
	ReceiverID   string          `gorm:"size:36;not null;index" json:"receiverID"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Reference    string          `gorm:"size:255" json:"reference"`
	Type         string          `gorm:"size:50" json:"type"`
	WalletNumber string          `gorm:"size:64" json:"walletNumber"`
	Status       string          `gorm:"size:20;not null;index" json:"status"`
	CreatedAt    time.Time       `json:"timestamp"`
	UpdatedAt    *time.Time      `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}
