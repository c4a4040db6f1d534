package services

import (
	"math"

	"github.com/bharatwheels/partner-backend/internal/models"
)

// Score bounds and categories.
const (
	ScoreBase = 300
	ScoreMax  = 900

	minRatingsForScore = 5
)

// ScoreResult is the outcome of a partner-score calculation. When Scored is
// false the distribution had too few ratings and Score is absent.
type ScoreResult struct {
	Scored   bool   `json:"scored"`
	Score    *int   `json:"score,omitempty"`
	Category string `json:"category,omitempty"`
	Warning  string `json:"warning,omitempty"`
	Total    int    `json:"total"`
}

// CalculatePartnerScore derives a 300-900 trust score from a rating
// distribution. Deterministic: it depends only on the bucket counts.
func CalculatePartnerScore(summary *models.RatingSummary) *ScoreResult {
	total := summary.Total
	if total < minRatingsForScore {
		return &ScoreResult{
			Scored:  false,
			Warning: "insufficient ratings",
			Total:   total,
		}
	}

	pct := func(star int) float64 {
		return float64(summary.Counts[star]) / float64(total) * 100
	}
	pct1, pct2 := pct(1), pct(2)

	score := float64(ScoreBase) +
		pct(5)*6 +
		pct(4)*3 +
		pct(3)*1 +
		pct2*0.5

	if pct1 > 20 {
		score -= (pct1 - 20) * 2
	}
	if combined := pct1 + pct2; combined > 30 {
		score -= (combined - 30) * 1
	}

	score = math.Max(ScoreBase, math.Min(ScoreMax, score))
	rounded := int(math.Round(score))

	return &ScoreResult{
		Scored:   true,
		Score:    &rounded,
		Category: scoreCategory(rounded),
		Total:    total,
	}
}

func scoreCategory(score int) string {
	switch {
	case score >= 750:
		return "Excellent"
	case score >= 650:
		return "Good"
	case score >= 550:
		return "Fair"
	case score >= 450:
		return "Poor"
	default:
		return "Very Poor"
	}
}
