package models

import "strconv"

// RiskBand buckets a fraud score for display. Pure and total: every
// submission maps to exactly one band, including those the scoring engine has
// not touched yet.
type RiskBand string

const (
	RiskLow     RiskBand = "low"
	RiskMedium  RiskBand = "medium"
	RiskHigh    RiskBand = "high"
	RiskUnknown RiskBand = "unknown"
)

// RiskBandOf maps a fraud score to its band: <30 low, 30-69 medium, >=70
// high. ok=false means the score is absent, which is RiskUnknown — a score of
// exactly 0 is a valid low, not an absence.
func RiskBandOf(score float64, ok bool) RiskBand {
	if !ok {
		return RiskUnknown
	}
	switch {
	case score < 30:
		return RiskLow
	case score < 70:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// RiskBand buckets the submission's fraud score.
func (m Metrics) RiskBand() RiskBand {
	score, ok := m.FraudScore()
	return RiskBandOf(score, ok)
}

// FraudScoreDisplay renders the fraud score for humans: "N/A" when absent,
// otherwise the percentage.
func (m Metrics) FraudScoreDisplay() string {
	score, ok := m.FraudScore()
	if !ok {
		return "N/A"
	}
	return strconv.FormatFloat(score, 'f', -1, 64) + "%"
}
