package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"safepay/internal/classifier"
	"safepay/internal/domain"
	"safepay/internal/metrics"
	"safepay/internal/models"
	"safepay/internal/repository"

	"github.com/google/uuid"
)

// AnalysisService runs messages through the classifier and keeps a log of
// the verdicts per user.
type AnalysisService struct {
	store      repository.Store
	classifier classifier.Classifier
	log        *slog.Logger
	now        func() time.Time
}

func NewAnalysisService(store repository.Store, c classifier.Classifier, log *slog.Logger) *AnalysisService {
	return &AnalysisService{store: store, classifier: c, log: log, now: time.Now}
}

// Analyze classifies message, stores the verdict for userID and returns it
// as the classifier produced it.
func (s *AnalysisService) Analyze(ctx context.Context, userID, message string) (*models.Verdict, error) {
	v, err := s.classifier.Classify(ctx, message)
	if err != nil {
		metrics.ClassifierFailures.Inc()
		if !errors.Is(err, domain.ErrUpstreamUnavailable) {
			err = errors.Join(domain.ErrUpstreamUnavailable, err)
		}
		return nil, err
	}
	metrics.ClassifierVerdicts.WithLabelValues(v.AnalysisType, v.RiskLevel).Inc()

	record := models.NewAnalysis(uuid.NewString(), userID, v, s.now().UTC())
	if err := s.store.Messages().Create(ctx, record); err != nil {
		return nil, err
	}
	if v.IsScam {
		s.log.Info("scam message flagged", "user_id", userID, "risk_level", v.RiskLevel, "analysis_id", record.ID)
	}
	return v, nil
}

// List returns the user's stored verdicts, oldest first.
func (s *AnalysisService) List(ctx context.Context, userID string) ([]models.Analysis, error) {
	list, err := s.store.Messages().ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return list, nil
}
