package classifier

import (
	"context"
	"log/slog"

	"safepay/internal/domain"
	"safepay/internal/models"
)

// Fallback tries primary and, when it fails, scores the message locally.
// Fallback verdicts carry the RULE_BASED_FALLBACK analysis type.
type Fallback struct {
	primary Classifier
	log     *slog.Logger
}

func NewFallback(primary Classifier, log *slog.Logger) *Fallback {
	return &Fallback{primary: primary, log: log}
}

func (f *Fallback) Classify(ctx context.Context, message string) (*models.Verdict, error) {
	v, err := f.primary.Classify(ctx, message)
	if err == nil {
		return v, nil
	}
	f.log.Warn("classifier unavailable, using rule-based verdict", "error", err)
	v = Score(message)
	v.AnalysisType = domain.AnalysisFallback
	return v, nil
}
