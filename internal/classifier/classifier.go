// Package classifier scores free-text messages for payment-scam signals.
package classifier

import (
	"context"

	"safepay/internal/models"
)

// Classifier returns a verdict for one message.
type Classifier interface {
	Classify(ctx context.Context, message string) (*models.Verdict, error)
}
