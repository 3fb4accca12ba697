package classifier

import (
	"context"
	"math"
	"regexp"
	"strings"

	"safepay/internal/domain"
	"safepay/internal/models"
)

var urgencyKeywords = []string{
	"URGENT", "IMMEDIATELY", "EXPIRES", "EXPIRING", "LIMITED TIME",
	"ACT NOW", "DON'T WAIT", "TIME SENSITIVE", "DEADLINE",
}

var fakeBankingPhrases = []string{
	"FNB ACCOUNT SUSPENDED", "CAPITEC BLOCKED", "ABSA ACCOUNT LOCKED",
	"STANDARD BANK SECURITY ALERT", "NEDBANK VERIFICATION REQUIRED",
	"BANK ACCOUNT DEACTIVATED", "CARD BLOCKED", "ACCOUNT SUSPENDED",
}

var moneyScamPhrases = []string{
	"YOU'VE WON R", "CLAIM YOUR R", "FREE MONEY", "WINNINGS OF R",
	"LUCKY DRAW", "PRIZE MONEY", "CASH REWARD", "BONUS PAYMENT",
}

var informalMarkers = []string{
	"PLS", "PLZ", "THX", "U R", "YOUR ACCOUNT HAS BEEN", "WE HAVE DETECTED",
	"CLICK HERE", "VERIFY NOW", "UPDATE DETAILS", "CONFIRM IDENTITY",
}

var (
	suspiciousURL = regexp.MustCompile(`(?i)(bit\.ly|tinyurl\.com|goo\.gl|t\.co|shorturl|fakebank|scamlink)`)
	plainHTTP     = regexp.MustCompile(`(?i)http://[^s]`)
)

const (
	recommendHigh = "HIGH RISK: This message shows strong indicators of being a scam. " +
		"Do not click any links, share personal information, or make payments. " +
		"Report to your bank and authorities if you've already engaged."
	recommendMedium = "MEDIUM RISK: This message contains some suspicious elements. " +
		"Verify the sender's identity through official channels before taking action. " +
		"Avoid clicking links from unknown sources."
	recommendLow = "LOW RISK: This message appears relatively safe, but always verify " +
		"important information through official channels."
	recommendEmpty = "Message appears to be empty or invalid."
)

// RuleClassifier is a keyword and pattern scorer tuned for South African
// SMS and WhatsApp payment scams. It never fails.
type RuleClassifier struct{}

func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

func (RuleClassifier) Classify(_ context.Context, message string) (*models.Verdict, error) {
	return Score(message), nil
}

// Score runs every rule against message and sums the weights of the ones
// that fire. Confidence is capped at 1.
func Score(message string) *models.Verdict {
	if strings.TrimSpace(message) == "" {
		return &models.Verdict{
			RiskLevel:        domain.RiskLow,
			DetectedPatterns: []string{},
			Recommendation:   recommendEmpty,
			AnalysisType:     domain.AnalysisRuleBased,
		}
	}

	var (
		upper      = strings.ToUpper(message)
		patterns   = []string{}
		confidence float64
		isScam     bool
	)
	match := func(list []string, label string, weight float64, scam bool) {
		for _, p := range list {
			if strings.Contains(upper, p) {
				patterns = append(patterns, label+": "+p)
				confidence += weight
				isScam = isScam || scam
			}
		}
	}

	match(urgencyKeywords, "Urgency keyword", 0.2, false)
	match(fakeBankingPhrases, "Fake banking phrase", 0.3, true)
	match(moneyScamPhrases, "Money scam pattern", 0.25, true)

	if suspiciousURL.MatchString(message) {
		patterns = append(patterns, "Suspicious URL detected")
		confidence += 0.4
		isScam = true
	}
	if plainHTTP.MatchString(message) {
		patterns = append(patterns, "Non-HTTPS link detected")
		confidence += 0.15
	}

	match(informalMarkers, "Poor grammar/formality indicator", 0.1, false)

	if strings.Contains(upper, "SARS") && strings.Contains(upper, "TAX") {
		patterns = append(patterns, "SARS tax scam pattern")
		confidence += 0.35
		isScam = true
	}
	if strings.Contains(upper, "COVID") && strings.Contains(upper, "RELIEF") {
		patterns = append(patterns, "COVID relief scam pattern")
		confidence += 0.3
		isScam = true
	}

	confidence = math.Min(confidence, 1.0)
	risk := riskLevel(confidence, isScam)

	return &models.Verdict{
		IsScam:           isScam,
		Confidence:       confidence,
		RiskLevel:        risk,
		DetectedPatterns: patterns,
		Recommendation:   recommendation(risk),
		AnalysisType:     domain.AnalysisRuleBased,
	}
}

func riskLevel(confidence float64, isScam bool) string {
	switch {
	case confidence >= 0.7 || isScam:
		return domain.RiskHigh
	case confidence >= 0.4:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func recommendation(risk string) string {
	switch risk {
	case domain.RiskHigh:
		return recommendHigh
	case domain.RiskMedium:
		return recommendMedium
	default:
		return recommendLow
	}
}
