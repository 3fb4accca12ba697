package classifier

import (
	"context"
	"fmt"
	"time"

	"safepay/internal/domain"
	"safepay/internal/models"

	"github.com/go-resty/resty/v2"
)

// HTTPClassifier posts the message to a remote scoring service and decodes
// its verdict.
type HTTPClassifier struct {
	client *resty.Client
	url    string
}

type classifyRequest struct {
	Message string `json:"message"`
}

func NewHTTPClassifier(url string, timeout time.Duration) *HTTPClassifier {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &HTTPClassifier{client: client, url: url}
}

func (c *HTTPClassifier) Classify(ctx context.Context, message string) (*models.Verdict, error) {
	var verdict models.Verdict
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(classifyRequest{Message: message}).
		SetResult(&verdict).
		ForceContentType("application/json").
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: classifier returned %d", domain.ErrUpstreamUnavailable, resp.StatusCode())
	}
	switch verdict.RiskLevel {
	case domain.RiskLow, domain.RiskMedium, domain.RiskHigh:
	default:
		return nil, fmt.Errorf("%w: classifier returned risk level %q", domain.ErrUpstreamUnavailable, verdict.RiskLevel)
	}
	if verdict.DetectedPatterns == nil {
		verdict.DetectedPatterns = []string{}
	}
	return &verdict, nil
}
