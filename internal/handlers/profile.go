package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatwheels/partner-backend/internal/middleware"
	"github.com/bharatwheels/partner-backend/internal/models"
	"github.com/bharatwheels/partner-backend/internal/services"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

// ProfileHandler handles the requester's own profile, wallet and
// verification submissions.
type ProfileHandler struct {
	store  storage.Store
	wallet *services.WalletService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(store storage.Store, wallet *services.WalletService) *ProfileHandler {
	return &ProfileHandler{store: store, wallet: wallet}
}

// Get returns the authenticated user's profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"user":    middleware.CurrentUser(c),
	})
}

// Update modifies mutable profile fields.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		Name         string  `json:"name"`
		Email        string  `json:"email" validate:"omitempty,email"`
		BusinessName *string `json:"business_name"`
		City         string  `json:"city"`
		About        *string `json:"about"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.BusinessName != nil {
		user.BusinessName = *req.BusinessName
	}
	if req.City != "" {
		user.City = req.City
	}
	if req.About != nil {
		user.About = *req.About
	}

	if err := h.store.UpdateUser(user); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to update profile")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// Wallet returns the current balance.
func (h *ProfileHandler) Wallet(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{
		"success": true,
		"balance": user.WalletBalance,
	})
}

// Transactions lists the requester's ledger entries, newest first.
func (h *ProfileHandler) Transactions(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	txns, err := h.store.ListTransactions(user.UserID,
		c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch transactions")
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"transactions": txns,
		"count":        len(txns),
	})
}

// AddMoney credits the wallet.
func (h *ProfileHandler) AddMoney(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		Amount float64 `json:"amount" validate:"gt=0"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	txn, err := h.wallet.Credit(user.UserID, req.Amount, "wallet top-up", "")
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to credit wallet")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"transaction": txn,
		"balance":     txn.BalanceAfter,
	})
}

// Withdraw debits the wallet; fails on insufficient balance.
func (h *ProfileHandler) Withdraw(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		Amount float64 `json:"amount" validate:"gt=0"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	txn, err := h.wallet.Debit(user.UserID, req.Amount, "wallet withdrawal", "")
	if err != nil {
		if errors.Is(err, storage.ErrInsufficientBalance) {
			return fail(c, fiber.StatusBadRequest, "Insufficient wallet balance")
		}
		return fail(c, fiber.StatusInternalServerError, "Failed to debit wallet")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"transaction": txn,
		"balance":     txn.BalanceAfter,
	})
}

// SubmitVerification files an identity-document check for admin review.
func (h *ProfileHandler) SubmitVerification(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		DocumentType string `json:"document_type" validate:"required,oneof=aadhaar dl digilocker"`
		DocumentRef  string `json:"document_ref" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	v := &models.Verification{
		UserID:       user.UserID,
		DocumentType: req.DocumentType,
		DocumentRef:  req.DocumentRef,
	}
	v, err := h.store.CreateVerification(v)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to submit verification")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"verification": v,
	})
}

// Verifications lists the requester's verification history.
func (h *ProfileHandler) Verifications(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	vs, err := h.store.ListVerificationsByUser(user.UserID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch verifications")
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"verifications": vs,
		"count":         len(vs),
	})
}
