package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"safepay/internal/domain"
	"safepay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		isScam     bool
		risk       string
		confidence float64
		patterns   int
	}{
		{
			name:       "bank phishing with short link",
			message:    "URGENT: Your FNB account suspended. Click here http://bit.ly/x",
			isScam:     true,
			risk:       domain.RiskHigh,
			confidence: 1.0,
			patterns:   6,
		},
		{
			name:       "urgency only",
			message:    "Act now, offer expires today",
			risk:       domain.RiskMedium,
			confidence: 0.4,
			patterns:   2,
		},
		{
			name:       "sars tax",
			message:    "SARS tax refund waiting for you",
			isScam:     true,
			risk:       domain.RiskHigh,
			confidence: 0.35,
			patterns:   1,
		},
		{
			name:       "plain http link",
			message:    "menu is at http://example.com",
			risk:       domain.RiskLow,
			confidence: 0.15,
			patterns:   1,
		},
		{
			name:     "harmless",
			message:  "See you at lunch",
			risk:     domain.RiskLow,
			patterns: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Score(tt.message)
			assert.Equal(t, tt.isScam, v.IsScam)
			assert.Equal(t, tt.risk, v.RiskLevel)
			assert.InDelta(t, tt.confidence, v.Confidence, 1e-9)
			assert.Len(t, v.DetectedPatterns, tt.patterns)
			assert.Equal(t, domain.AnalysisRuleBased, v.AnalysisType)
			assert.NotEmpty(t, v.Recommendation)
		})
	}
}

func TestScore_Empty(t *testing.T) {
	v := Score("   ")
	assert.False(t, v.IsScam)
	assert.Equal(t, domain.RiskLow, v.RiskLevel)
	assert.Zero(t, v.Confidence)
	assert.Equal(t, recommendEmpty, v.Recommendation)
	assert.NotNil(t, v.DetectedPatterns)
}

func TestScore_PatternOrderIsStable(t *testing.T) {
	msg := "URGENT deadline: claim your R500 cash reward"
	first := Score(msg).DetectedPatterns
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(msg).DetectedPatterns)
	}
	assert.Equal(t, "Urgency keyword: URGENT", first[0])
}

func TestHTTPClassifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "win money", req.Message)
		assert.Equal(t, http.MethodPost, r.Method)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Verdict{
			IsScam:       true,
			Confidence:   0.9,
			RiskLevel:    domain.RiskHigh,
			AnalysisType: "AI",
		})
	}))
	defer srv.Close()

	v, err := NewHTTPClassifier(srv.URL, time.Second).Classify(context.Background(), "win money")
	require.NoError(t, err)
	assert.True(t, v.IsScam)
	assert.Equal(t, "AI", v.AnalysisType)
	assert.NotNil(t, v.DetectedPatterns)
}

func TestHTTPClassifier_Failures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewHTTPClassifier(srv.URL, time.Second).Classify(context.Background(), "hi")
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	})

	t.Run("html body with 200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		}))
		defer srv.Close()

		v, err := NewHTTPClassifier(srv.URL, time.Second).Classify(context.Background(), "hi")
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
		assert.Nil(t, v)
	})

	t.Run("unknown risk level", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"isScam":false}`))
		}))
		defer srv.Close()

		_, err := NewHTTPClassifier(srv.URL, time.Second).Classify(context.Background(), "hi")
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		_, err := NewHTTPClassifier(srv.URL, 20*time.Millisecond).Classify(context.Background(), "hi")
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	})
}

type stubClassifier struct {
	verdict *models.Verdict
	err     error
}

func (s stubClassifier) Classify(context.Context, string) (*models.Verdict, error) {
	return s.verdict, s.err
}

func TestFallback_EngagesOnNonJSONReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewFallback(NewHTTPClassifier(srv.URL, time.Second), log)
	v, err := c.Classify(context.Background(), "URGENT act now")
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisFallback, v.AnalysisType)
	assert.Equal(t, domain.RiskMedium, v.RiskLevel)
}

func TestFallback(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	remote := &models.Verdict{RiskLevel: domain.RiskLow, AnalysisType: "AI"}
	v, err := NewFallback(stubClassifier{verdict: remote}, log).Classify(context.Background(), "hello")
	require.NoError(t, err)
	assert.Same(t, remote, v)

	down := stubClassifier{err: errors.New("connection refused")}
	v, err = NewFallback(down, log).Classify(context.Background(), "FREE MONEY click here")
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisFallback, v.AnalysisType)
	assert.True(t, v.IsScam)
}
