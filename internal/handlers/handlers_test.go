package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/bharatwheels/partner-backend/internal/config"
	"github.com/bharatwheels/partner-backend/internal/middleware"
	"github.com/bharatwheels/partner-backend/internal/models"
	"github.com/bharatwheels/partner-backend/internal/routes"
	"github.com/bharatwheels/partner-backend/internal/services"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

func newTestApp(t *testing.T) (*fiber.App, *storage.MemoryStore, *config.Config) {
	t.Helper()

	store := storage.NewMemoryStore()
	cfg := &config.Config{
		Environment: "development",
		JWTSecret:   "test-secret",
		JWTExpiry:   time.Hour,
	}

	otpService := services.NewOTPService(store, services.LogSender{})
	walletService := services.NewWalletService(store)
	chatbot := services.NewChatbotService(store)

	app := fiber.New()
	routes.Setup(app, cfg, store, otpService, walletService, chatbot)
	return app, store, cfg
}

// newActiveUser creates a verified user directly in the store and returns it
// with a valid bearer token.
func newActiveUser(t *testing.T, store *storage.MemoryStore, cfg *config.Config, name, mobile string) (*models.User, string) {
	t.Helper()

	user, err := store.CreateUser(&models.User{Name: name, Mobile: mobile, IsActive: true})
	require.NoError(t, err)

	token, err := middleware.GenerateToken(cfg, user)
	require.NoError(t, err)
	return user, token
}

func newAdmin(t *testing.T, store *storage.MemoryStore, cfg *config.Config) (*models.User, string) {
	t.Helper()

	admin, err := store.CreateUser(&models.User{
		Name: "Admin", Mobile: "9999999999", Role: models.RoleAdmin, IsActive: true,
	})
	require.NoError(t, err)

	token, err := middleware.GenerateToken(cfg, admin)
	require.NoError(t, err)
	return admin, token
}

// doJSON performs a request against the app and decodes the JSON response.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func get(t *testing.T, app *fiber.App, path, token string) (int, map[string]interface{}) {
	return doJSON(t, app, http.MethodGet, path, token, nil)
}

func TestHealthCheck(t *testing.T) {
	app, _, _ := newTestApp(t)

	status, body := get(t, app, "/health", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "healthy", body["status"])
}
