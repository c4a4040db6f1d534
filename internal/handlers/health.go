package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bharatwheels/partner-backend/internal/storage"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	store   storage.Store
	Version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store storage.Store, version string) *HealthHandler {
	return &HealthHandler{store: store, Version: version}
}

// Check reports the service status, including storage reachability.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "healthy"
	statusCode := fiber.StatusOK
	if err := h.store.Ping(); err != nil {
		status = "unhealthy"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"service": "BharatWheels Partner Backend",
		"version": h.Version,
		"services": fiber.Map{
			"database": status == "healthy",
		},
	})
}
