package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatwheels/partner-backend/internal/models"
)

func TestProfileUpdate(t *testing.T) {
	app, store, cfg := newTestApp(t)
	_, token := newActiveUser(t, store, cfg, "Ravi", "9876543210")

	status, body := doJSON(t, app, http.MethodPut, "/api/profile", token, map[string]interface{}{
		"business_name": "Ravi Travels",
		"city":          "Pune",
	})
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "Ravi Travels", user["business_name"])
	assert.Equal(t, "Pune", user["city"])
	assert.Equal(t, "Ravi", user["name"]) // untouched fields survive
}

func TestWalletCreditDebitLedger(t *testing.T) {
	app, store, cfg := newTestApp(t)
	_, token := newActiveUser(t, store, cfg, "Ravi", "9876543210")

	status, body := doJSON(t, app, http.MethodPost, "/api/profile/wallet/add-money", token,
		map[string]interface{}{"amount": 1000})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 1000.0, body["balance"])

	status, body = doJSON(t, app, http.MethodPost, "/api/profile/wallet/withdraw", token,
		map[string]interface{}{"amount": 400})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 600.0, body["balance"])

	// Overdraw fails and leaves the balance untouched.
	status, body = doJSON(t, app, http.MethodPost, "/api/profile/wallet/withdraw", token,
		map[string]interface{}{"amount": 5000})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "Insufficient")

	status, body = get(t, app, "/api/profile/wallet", token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 600.0, body["balance"])

	status, body = get(t, app, "/api/profile/wallet/transactions", token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, body["count"])
}

func TestVerificationFlow(t *testing.T) {
	app, store, cfg := newTestApp(t)
	user, token := newActiveUser(t, store, cfg, "Ravi", "9876543210")
	_, adminToken := newAdmin(t, store, cfg)

	// Submit an aadhaar check.
	status, body := doJSON(t, app, http.MethodPost, "/api/profile/verification", token,
		map[string]interface{}{"document_type": "aadhaar", "document_ref": "XXXX-XXXX-1234"})
	require.Equal(t, http.StatusCreated, status)
	v := body["verification"].(map[string]interface{})
	assert.Equal(t, "pending", v["status"])
	verificationID := v["verification_id"].(string)

	// Non-admins cannot see the review queue.
	status, _ = get(t, app, "/api/admin/verifications/pending", token)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = get(t, app, "/api/admin/verifications/pending", adminToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["count"])

	// Approval flips the live flag on the user.
	status, _ = doJSON(t, app, http.MethodPut, "/api/admin/verifications/"+verificationID, adminToken,
		map[string]interface{}{"status": "approved", "admin_notes": "document legible"})
	require.Equal(t, http.StatusOK, status)

	updated, err := store.GetUserByID(user.UserID)
	require.NoError(t, err)
	assert.True(t, updated.AadhaarVerified)

	// A second review of the same record conflicts.
	status, _ = doJSON(t, app, http.MethodPut, "/api/admin/verifications/"+verificationID, adminToken,
		map[string]interface{}{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, status)

	// The audit record stays in the user's history.
	status, body = get(t, app, "/api/profile/verifications", token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["count"])
}

func TestAdminSuspendBlocksAccess(t *testing.T) {
	app, store, cfg := newTestApp(t)
	user, token := newActiveUser(t, store, cfg, "Ravi", "9876543210")
	_, adminToken := newAdmin(t, store, cfg)

	status, _ := doJSON(t, app, http.MethodPost, "/api/admin/users/"+user.UserID+"/suspend", adminToken,
		map[string]interface{}{"reason": "fraud reports"})
	require.Equal(t, http.StatusOK, status)

	// Suspended users are rejected at the middleware.
	status, _ = get(t, app, "/api/profile", token)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/admin/users/"+user.UserID+"/reactivate", adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = get(t, app, "/api/profile", token)
	assert.Equal(t, http.StatusOK, status)
}

func TestAdminDeleteUser(t *testing.T) {
	app, store, cfg := newTestApp(t)
	user, token := newActiveUser(t, store, cfg, "Ravi", "9876543210")
	_, adminToken := newAdmin(t, store, cfg)

	status, _ := doJSON(t, app, http.MethodDelete, "/api/admin/users/"+user.UserID, adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	// The deleted account's token no longer resolves to a user.
	status, _ = get(t, app, "/api/profile", token)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUserSearch(t *testing.T) {
	app, store, cfg := newTestApp(t)
	_, token := newActiveUser(t, store, cfg, "Ravi Kumar", "9876543210")

	_, err := store.CreateUser(&models.User{
		Name: "Meera Travels", Mobile: "9876543211", City: "Mumbai", IsActive: true,
	})
	require.NoError(t, err)

	status, body := get(t, app, "/api/users/search?q=meera", token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["count"])

	status, body = get(t, app, "/api/users/search?q=mumbai", token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["count"])

	status, _ = get(t, app, "/api/users/search", token)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestChatbotEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/chatbot/message", "",
		map[string]interface{}{"message": "how does the partner score work?"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["reply"], "300-900")

	status, _ = doJSON(t, app, http.MethodPost, "/api/chatbot/message", "",
		map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)
}
