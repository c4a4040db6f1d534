package handlers_test

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupSendVerifyOTPScenario(t *testing.T) {
	app, _, _ := newTestApp(t)

	// Signup creates an inactive account and issues an OTP.
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"name":     "Ravi Kumar",
		"mobile":   "9876543210",
		"password": "secret123",
		"city":     "Pune",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	// send-otp returns a fresh 6-digit numeric code outside production.
	status, body = doJSON(t, app, http.MethodPost, "/api/auth/send-otp", "", map[string]interface{}{
		"mobile": "9876543210",
	})
	require.Equal(t, http.StatusOK, status)
	code, ok := body["otp"].(string)
	require.True(t, ok, "development response should echo the otp")
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)

	// A wrong code is rejected.
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	status, body = doJSON(t, app, http.MethodPost, "/api/auth/verify-otp", "", map[string]interface{}{
		"mobile": "9876543210",
		"otp":    wrong,
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])

	// The correct code activates the account and returns a token.
	status, body = doJSON(t, app, http.MethodPost, "/api/auth/verify-otp", "", map[string]interface{}{
		"mobile": "9876543210",
		"otp":    code,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)

	// Replaying the consumed code fails: one-time use.
	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/verify-otp", "", map[string]interface{}{
		"mobile": "9876543210",
		"otp":    code,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// The issued token works on a protected route.
	status, body = get(t, app, "/api/profile", token)
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "Ravi Kumar", user["name"])
	assert.Equal(t, true, user["is_active"])
}

func TestSignupDuplicateMobile(t *testing.T) {
	app, _, _ := newTestApp(t)

	payload := map[string]interface{}{
		"name":     "Ravi",
		"mobile":   "9876543210",
		"password": "secret123",
	}
	status, _ := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", payload)
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", payload)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "already registered")
}

func TestSignupValidation(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"mobile":   "9876543210",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "required")

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"name":     "Ravi",
		"mobile":   "9876543210",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLoginWithPassword(t *testing.T) {
	app, store, _ := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"name":     "Ravi",
		"mobile":   "9876543210",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)

	// Login is rejected until OTP verification activates the account.
	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"mobile":   "9876543210",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, status)

	user, err := store.GetUserByMobile("9876543210")
	require.NoError(t, err)
	user.IsActive = true
	require.NoError(t, store.UpdateUser(user))

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"mobile":   "9876543210",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"mobile":   "9876543210",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSendOTPUnknownMobile(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/auth/send-otp", "", map[string]interface{}{
		"mobile": "9123456789",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, _ := get(t, app, "/api/profile", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = get(t, app, "/api/profile", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, status)
}
