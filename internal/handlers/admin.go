package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/bharatwheels/partner-backend/internal/middleware"
	"github.com/bharatwheels/partner-backend/internal/models"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

// AdminHandler handles moderation: verifications, suspensions, deletion.
type AdminHandler struct {
	store storage.Store
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(store storage.Store) *AdminHandler {
	return &AdminHandler{store: store}
}

// PendingVerifications lists verifications awaiting review, oldest first.
func (h *AdminHandler) PendingVerifications(c *fiber.Ctx) error {
	vs, err := h.store.ListPendingVerifications()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch pending verifications")
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"verifications": vs,
		"count":         len(vs),
	})
}

// UpdateVerification approves or rejects a submission. Approval flips the
// matching live flag on the user.
func (h *AdminHandler) UpdateVerification(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)

	var req struct {
		Status     string `json:"status" validate:"required,oneof=approved rejected"`
		AdminNotes string `json:"admin_notes"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	v, err := h.store.GetVerification(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Verification not found")
	}
	if v.Status != models.VerificationPending {
		return fail(c, fiber.StatusConflict, "Verification already reviewed")
	}

	now := time.Now()
	v.Status = req.Status
	v.AdminNotes = req.AdminNotes
	v.ReviewedBy = admin.UserID
	v.ReviewedAt = &now

	if err := h.store.UpdateVerification(v); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to update verification")
	}

	if req.Status == models.VerificationApproved {
		if user, err := h.store.GetUserByID(v.UserID); err == nil {
			switch v.DocumentType {
			case models.DocumentAadhaar:
				user.AadhaarVerified = true
			case models.DocumentDL:
				user.DLVerified = true
			case models.DocumentDigilocker:
				user.DigilockerLinked = true
			}
			if err := h.store.UpdateUser(user); err != nil {
				logrus.WithError(err).WithField("user_id", v.UserID).
					Error("verification approved but user flag update failed")
			}
		}
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"verification": v,
	})
}

// Suspend blocks a user account.
func (h *AdminHandler) Suspend(c *fiber.Ctx) error {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.store.GetUserByID(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}

	user.IsSuspended = true
	if err := h.store.UpdateUser(user); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to suspend user")
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.UserID,
		"reason":  req.Reason,
	}).Info("account suspended")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User suspended",
	})
}

// Reactivate lifts a suspension.
func (h *AdminHandler) Reactivate(c *fiber.Ctx) error {
	user, err := h.store.GetUserByID(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}

	user.IsSuspended = false
	if err := h.store.UpdateUser(user); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to reactivate user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User reactivated",
	})
}

// DeleteUser removes an account. Admin-only; the normal flow never deletes.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.store.DeleteUser(c.Params("id")); err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted",
	})
}
