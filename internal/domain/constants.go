package domain

// Transaction statuses. A transaction starts pending and moves exactly once
// to completed or declined.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusDeclined  = "declined"
)

// IsTerminalStatus reports whether s is a status a receiver may set.
func IsTerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusDeclined
}

// AmountScale is the number of fractional digits an amount may carry. SQL
// stores amounts as decimal(20,2).
const AmountScale = 2

const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

const (
	AnalysisRuleBased = "RULE_BASED"
	AnalysisFallback  = "RULE_BASED_FALLBACK"
)

// Collection names shared by every store backend.
const (
	CollectionUsers        = "users"
	CollectionKeys         = "keys"
	CollectionWallets      = "wallet"
	CollectionTransactions = "transaction"
	CollectionMessages     = "message"
)

// Websocket event types.
const (
	EventTransactionCreated = "transaction.created"
	EventTransactionStatus  = "transaction.status"
)
