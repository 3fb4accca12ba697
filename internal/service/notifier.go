package service

import (
	"safepay/internal/models"
)

// Notifier pushes live events to a user's open connections.
type Notifier interface {
	BroadcastToUser(userID string, payload any)
}

type nopNotifier struct{}

func (nopNotifier) BroadcastToUser(string, any) {}

// TransactionEvent is the payload sent over the websocket hub.
type TransactionEvent struct {
	Type        string              `json:"type"`
	Transaction *models.Transaction `json:"transaction"`
}
