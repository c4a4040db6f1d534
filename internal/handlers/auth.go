package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/bharatwheels/partner-backend/internal/config"
	"github.com/bharatwheels/partner-backend/internal/middleware"
	"github.com/bharatwheels/partner-backend/internal/models"
	"github.com/bharatwheels/partner-backend/internal/services"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

// AuthHandler handles signup, OTP login and password login.
type AuthHandler struct {
	store storage.Store
	otp   *services.OTPService
	cfg   *config.Config
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(store storage.Store, otp *services.OTPService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{store: store, otp: otp, cfg: cfg}
}

// Signup registers a new (inactive) user and sends the first OTP.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req struct {
		Name         string `json:"name" validate:"required"`
		Mobile       string `json:"mobile" validate:"required,min=10"`
		Password     string `json:"password" validate:"required,min=6"`
		Email        string `json:"email" validate:"omitempty,email"`
		BusinessName string `json:"business_name"`
		City         string `json:"city"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to process password")
	}

	user := &models.User{
		Name:         req.Name,
		Mobile:       req.Mobile,
		Email:        req.Email,
		PasswordHash: string(hash),
		BusinessName: req.BusinessName,
		City:         req.City,
	}

	user, err = h.store.CreateUser(user)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateMobile) {
			return fail(c, fiber.StatusBadRequest, "Mobile number already registered")
		}
		return fail(c, fiber.StatusInternalServerError, "Failed to create account")
	}

	code, err := h.otp.Issue(user.Mobile)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Account created but OTP could not be sent")
	}

	resp := fiber.Map{
		"success": true,
		"message": "Account created. Verify the OTP sent to your mobile.",
		"user":    user,
	}
	if !h.cfg.IsProduction() {
		resp["otp"] = code
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// SendOTP issues a fresh code to an existing user.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req struct {
		Mobile string `json:"mobile" validate:"required,min=10"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	code, err := h.otp.Issue(req.Mobile)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fail(c, fiber.StatusNotFound, "No account found for this mobile number")
		}
		return fail(c, fiber.StatusInternalServerError, "Failed to send OTP")
	}

	resp := fiber.Map{
		"success": true,
		"message": "OTP sent",
	}
	if !h.cfg.IsProduction() {
		resp["otp"] = code
	}
	return c.JSON(resp)
}

// VerifyOTP checks the submitted code, activates the account on first
// verification and returns a JWT.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Mobile string `json:"mobile" validate:"required,min=10"`
		OTP    string `json:"otp" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	result, user, err := h.otp.Verify(req.Mobile, req.OTP)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fail(c, fiber.StatusNotFound, "No account found for this mobile number")
		}
		return fail(c, fiber.StatusInternalServerError, "Failed to verify OTP")
	}
	if !result.Valid {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": otpFailureMessage(result.Reason),
			"reason":  result.Reason,
		})
	}

	if !user.IsActive {
		user.IsActive = true
		if err := h.store.UpdateUser(user); err != nil {
			return fail(c, fiber.StatusInternalServerError, "Failed to activate account")
		}
	}

	token, err := middleware.GenerateToken(h.cfg, user)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Login authenticates with mobile + password.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Mobile   string `json:"mobile" validate:"required,min=10"`
		Password string `json:"password" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.store.GetUserByMobile(req.Mobile)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid mobile number or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid mobile number or password")
	}
	if !user.IsActive {
		return fail(c, fiber.StatusForbidden, "Account not verified. Complete OTP verification first.")
	}
	if user.IsSuspended {
		return fail(c, fiber.StatusForbidden, "Account is suspended")
	}

	token, err := middleware.GenerateToken(h.cfg, user)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func otpFailureMessage(reason string) string {
	switch reason {
	case services.OTPReasonNoOTPFound:
		return "No OTP pending for this account. Request a new one."
	case services.OTPReasonExpired:
		return "OTP has expired. Request a new one."
	case services.OTPReasonMismatch:
		return "Incorrect OTP"
	default:
		return "OTP verification failed"
	}
}
