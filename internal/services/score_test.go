package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatwheels/partner-backend/internal/models"
)

func summaryOf(counts map[int]int) *models.RatingSummary {
	total := 0
	full := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for star, n := range counts {
		full[star] = n
		total += n
	}
	return &models.RatingSummary{UserID: "P000001", Counts: full, Total: total}
}

func TestPartnerScoreInsufficientRatings(t *testing.T) {
	result := CalculatePartnerScore(summaryOf(map[int]int{5: 4}))

	assert.False(t, result.Scored)
	assert.Nil(t, result.Score)
	assert.Equal(t, "insufficient ratings", result.Warning)
}

func TestPartnerScoreAllFiveStars(t *testing.T) {
	result := CalculatePartnerScore(summaryOf(map[int]int{5: 10}))

	require.True(t, result.Scored)
	assert.Equal(t, 900, *result.Score)
	assert.Equal(t, "Excellent", result.Category)
}

func TestPartnerScoreAllOneStarsClampsToBase(t *testing.T) {
	result := CalculatePartnerScore(summaryOf(map[int]int{1: 10}))

	require.True(t, result.Scored)
	assert.Equal(t, 300, *result.Score)
	assert.Equal(t, "Very Poor", result.Category)
}

func TestPartnerScoreMixedDistribution(t *testing.T) {
	// 10 ratings: 5x5, 3x4, 2x3 -> 300 + 50*6 + 30*3 + 20*1 = 710
	result := CalculatePartnerScore(summaryOf(map[int]int{5: 5, 4: 3, 3: 2}))

	require.True(t, result.Scored)
	assert.Equal(t, 710, *result.Score)
	assert.Equal(t, "Good", result.Category)
}

func TestPartnerScoreOneStarPenalty(t *testing.T) {
	// 10 ratings: 5x5, 5x1.
	// base 300 + 50*6 = 600; pct1=50 -> -(50-20)*2 = -60; pct1+pct2=50 -> -(50-30) = -20
	result := CalculatePartnerScore(summaryOf(map[int]int{5: 5, 1: 5}))

	require.True(t, result.Scored)
	assert.Equal(t, 520, *result.Score)
	assert.Equal(t, "Poor", result.Category)
}

func TestPartnerScoreDeterminism(t *testing.T) {
	dist := map[int]int{5: 7, 4: 2, 2: 1, 1: 2}
	first := CalculatePartnerScore(summaryOf(dist))
	for i := 0; i < 10; i++ {
		again := CalculatePartnerScore(summaryOf(dist))
		assert.Equal(t, *first.Score, *again.Score)
		assert.Equal(t, first.Category, again.Category)
	}
}

func TestScoreCategoryBoundaries(t *testing.T) {
	cases := []struct {
		score    int
		category string
	}{
		{900, "Excellent"},
		{750, "Excellent"},
		{749, "Good"},
		{650, "Good"},
		{649, "Fair"},
		{550, "Fair"},
		{549, "Poor"},
		{450, "Poor"},
		{449, "Very Poor"},
		{300, "Very Poor"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.category, scoreCategory(tc.score), "score %d", tc.score)
	}
}
