package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewSelfReviewRejected(t *testing.T) {
	app, store, cfg := newTestApp(t)
	user, token := newActiveUser(t, store, cfg, "Ravi", "9876543210")

	status, body := doJSON(t, app, http.MethodPost, "/api/reviews/"+user.UserID+"/review", token,
		map[string]interface{}{"rating": 5, "text": "I am great"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "yourself")
}

func TestReviewDuplicatePairRejected(t *testing.T) {
	app, store, cfg := newTestApp(t)
	_, reviewerToken := newActiveUser(t, store, cfg, "Reviewer", "9876543210")
	reviewed, reviewedToken := newActiveUser(t, store, cfg, "Reviewed", "9876543211")

	status, _ := doJSON(t, app, http.MethodPost, "/api/reviews/"+reviewed.UserID+"/review", reviewerToken,
		map[string]interface{}{"rating": 4, "text": "good trips", "tags": []string{"punctual"}})
	require.Equal(t, http.StatusCreated, status)

	// Same (reviewer, reviewed) pair again: conflict.
	status, _ = doJSON(t, app, http.MethodPost, "/api/reviews/"+reviewed.UserID+"/review", reviewerToken,
		map[string]interface{}{"rating": 1, "text": "changed my mind"})
	assert.Equal(t, http.StatusConflict, status)

	// The reverse direction is a different pair and is allowed.
	reviewer, err := store.GetUserByMobile("9876543210")
	require.NoError(t, err)
	status, _ = doJSON(t, app, http.MethodPost, "/api/reviews/"+reviewer.UserID+"/review", reviewedToken,
		map[string]interface{}{"rating": 5})
	assert.Equal(t, http.StatusCreated, status)
}

func TestReviewRatingBounds(t *testing.T) {
	app, store, cfg := newTestApp(t)
	_, token := newActiveUser(t, store, cfg, "Reviewer", "9876543210")
	reviewed, _ := newActiveUser(t, store, cfg, "Reviewed", "9876543211")

	for _, rating := range []int{0, 6, -1} {
		status, _ := doJSON(t, app, http.MethodPost, "/api/reviews/"+reviewed.UserID+"/review", token,
			map[string]interface{}{"rating": rating})
		assert.Equal(t, http.StatusBadRequest, status, "rating %d", rating)
	}
}

func TestReviewUnknownUser(t *testing.T) {
	app, store, cfg := newTestApp(t)
	_, token := newActiveUser(t, store, cfg, "Reviewer", "9876543210")

	status, _ := doJSON(t, app, http.MethodPost, "/api/reviews/P999999/review", token,
		map[string]interface{}{"rating": 3})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRatingSummaryAndPartnerScore(t *testing.T) {
	app, store, cfg := newTestApp(t)
	reviewed, _ := newActiveUser(t, store, cfg, "Reviewed", "9000000000")

	// Five distinct reviewers, all 5 stars.
	mobiles := []string{"9000000001", "9000000002", "9000000003", "9000000004", "9000000005"}
	for i, mobile := range mobiles {
		_, token := newActiveUser(t, store, cfg, "Reviewer", mobile)
		status, _ := doJSON(t, app, http.MethodPost, "/api/reviews/"+reviewed.UserID+"/review", token,
			map[string]interface{}{"rating": 5})
		require.Equal(t, http.StatusCreated, status, "reviewer %d", i)
	}

	status, body := get(t, app, "/api/reviews/"+reviewed.UserID+"/rating-summary", "")
	require.Equal(t, http.StatusOK, status)
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, 5.0, summary["total"])
	assert.Equal(t, 5.0, summary["average"])

	status, body = get(t, app, "/api/reviews/"+reviewed.UserID+"/partner-score", "")
	require.Equal(t, http.StatusOK, status)
	result := body["result"].(map[string]interface{})
	assert.Equal(t, true, result["scored"])
	assert.Equal(t, 900.0, result["score"])
	assert.Equal(t, "Excellent", result["category"])
}

func TestPartnerScoreInsufficientRatingsOverAPI(t *testing.T) {
	app, store, cfg := newTestApp(t)
	reviewed, _ := newActiveUser(t, store, cfg, "Reviewed", "9000000000")
	_, token := newActiveUser(t, store, cfg, "Reviewer", "9000000001")

	status, _ := doJSON(t, app, http.MethodPost, "/api/reviews/"+reviewed.UserID+"/review", token,
		map[string]interface{}{"rating": 5})
	require.Equal(t, http.StatusCreated, status)

	status, body := get(t, app, "/api/reviews/"+reviewed.UserID+"/partner-score", "")
	require.Equal(t, http.StatusOK, status)
	result := body["result"].(map[string]interface{})
	assert.Equal(t, false, result["scored"])
	assert.Nil(t, result["score"])
	assert.Equal(t, "insufficient ratings", result["warning"])
}
