package models

import "time"

// Verdict is the classifier's answer for one message.
type Verdict struct {
	IsScam           bool     `json:"isScam"`
	Confidence       float64  `json:"confidence"`
	RiskLevel        string   `json:"riskLevel"`
	DetectedPatterns []string `json:"detectedPatterns"`
	Recommendation   string   `json:"recommendation"`
	AnalysisType     string   `json:"analysisType"`
}

// Analysis is a stored verdict tagged with the user who asked for it.
type Analysis struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	UserID           string    `gorm:"size:36;not null;index" json:"userID"`
	IsScam           bool      `json:"isScam"`
	Confidence       float64   `json:"confidence"`
	RiskLevel        string    `gorm:"size:10" json:"riskLevel"`
	DetectedPatterns []string  `gorm:"serializer:json;type:text" json:"detectedPatterns"`
	Recommendation   string    `gorm:"type:text" json:"recommendation"`
	AnalysisType     string    `gorm:"size:32" json:"analysisType"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (Analysis) TableName() string {
	return "messages"
}

func NewAnalysis(id, userID string, v *Verdict, at time.Time) *Analysis {
	return &Analysis{
		ID:               id,
		UserID:           userID,
		IsScam:           v.IsScam,
		Confidence:       v.Confidence,
		RiskLevel:        v.RiskLevel,
		DetectedPatterns: append([]string(nil), v.DetectedPatterns...),
		Recommendation:   v.Recommendation,
		AnalysisType:     v.AnalysisType,
		CreatedAt:        at,
	}
}
