package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatwheels/partner-backend/internal/storage"
)

// UserHandler exposes partner lookup endpoints.
type UserHandler struct {
	store storage.Store
}

// NewUserHandler creates a new user handler.
func NewUserHandler(store storage.Store) *UserHandler {
	return &UserHandler{store: store}
}

// Search finds partners by name, business name or city substring.
func (h *UserHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return fail(c, fiber.StatusBadRequest, "q is required")
	}

	users, err := h.store.SearchUsers(query, c.QueryInt("limit", 20))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Search failed")
	}

	results := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		results = append(results, fiber.Map{
			"user_id":          u.UserID,
			"name":             u.Name,
			"business_name":    u.BusinessName,
			"city":             u.City,
			"aadhaar_verified": u.AadhaarVerified,
			"dl_verified":      u.DLVerified,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   results,
		"count":   len(results),
	})
}

// Get returns a partner's public profile.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.store.GetUserByID(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"user_id":           user.UserID,
			"name":              user.Name,
			"business_name":     user.BusinessName,
			"city":              user.City,
			"about":             user.About,
			"aadhaar_verified":  user.AadhaarVerified,
			"dl_verified":       user.DLVerified,
			"digilocker_linked": user.DigilockerLinked,
		},
	})
}
