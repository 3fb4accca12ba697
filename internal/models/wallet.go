package models

import "time"

type Wallet struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"uniqueIndex;size:36;not null" json:"userID"`
	Provider     string    `gorm:"size:100" json:"provider"`
	Type         string    `gorm:"size:50" json:"type"`
	WalletNumber string    `gorm:"size:64" json:"walletNumber"`
	History      []string  `gorm:"-" json:"history"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// WalletEntry links a transaction into a wallet's history. The sequence
// column keeps append order for SQL backends.
type WalletEntry struct {
	Seq           uint   `gorm:"primaryKey;autoIncrement"`
	WalletID      string `gorm:"size:36;not null;uniqueIndex:idx_wallet_tx"`
	TransactionID string `gorm:"size:36;not null;uniqueIndex:idx_wallet_tx"`
}

func (WalletEntry) TableName() string {
	return "wallet_history"
}

// WalletView is a wallet with its history resolved to transaction records.
type WalletView struct {
	Provider     string        `json:"provider"`
	WalletNumber string        `json:"walletNumber"`
	Transactions []Transaction `json:"transactions"`
}
