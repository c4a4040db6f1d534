package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bharatwheels/partner-backend/internal/models"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

// OTP verification failure reasons.
const (
	OTPReasonNoOTPFound = "no_otp_found"
	OTPReasonExpired    = "expired"
	OTPReasonMismatch   = "mismatch"
)

const otpTTL = 10 * time.Minute

// VerifyResult is the typed outcome of an OTP check. Failures are data, not
// errors; callers must inspect Valid before proceeding.
type VerifyResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// OTPService issues, delivers and verifies one-time codes stored on the
// user's record.
type OTPService struct {
	store  storage.Store
	sender SMSSender
}

// NewOTPService creates the OTP lifecycle manager.
func NewOTPService(store storage.Store, sender SMSSender) *OTPService {
	return &OTPService{store: store, sender: sender}
}

// GenerateCode returns a 6-digit code uniform in [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue generates a fresh code for the user, persists it with a 10-minute
// expiry and a reset attempt counter, and delivers it. Returns the code so
// non-production callers can echo it.
func (s *OTPService) Issue(mobile string) (string, error) {
	user, err := s.store.GetUserByMobile(mobile)
	if err != nil {
		return "", err
	}

	code, err := GenerateCode()
	if err != nil {
		return "", err
	}

	now := time.Now()
	expiry := now.Add(otpTTL)
	user.OTPCode = code
	user.OTPExpiresAt = &expiry
	user.OTPAttempts = 0
	user.OTPLastSentAt = &now

	if err := s.store.UpdateUser(user); err != nil {
		return "", err
	}

	body := fmt.Sprintf("Your BharatWheels verification code is %s. Valid for 10 minutes.", code)
	if err := s.sender.SendSMS(user.Mobile, body); err != nil {
		// The code is already persisted; delivery failure is not fatal.
		return code, nil
	}
	return code, nil
}

// Verify checks a submitted code against the user's stored one. On success
// all OTP state is cleared (one-time use).
func (s *OTPService) Verify(mobile, submitted string) (*VerifyResult, *models.User, error) {
	user, err := s.store.GetUserByMobile(mobile)
	if err != nil {
		return nil, nil, err
	}

	if !user.HasPendingOTP() {
		return &VerifyResult{Valid: false, Reason: OTPReasonNoOTPFound}, user, nil
	}
	if time.Now().After(*user.OTPExpiresAt) {
		return &VerifyResult{Valid: false, Reason: OTPReasonExpired}, user, nil
	}
	if strings.TrimSpace(submitted) != user.OTPCode {
		return &VerifyResult{Valid: false, Reason: OTPReasonMismatch}, user, nil
	}

	user.ClearOTP()
	if err := s.store.UpdateUser(user); err != nil {
		return nil, nil, err
	}
	return &VerifyResult{Valid: true}, user, nil
}

// CanResend reports whether a new code may be issued. There is deliberately
// no cooldown; callers may always resend.
func (s *OTPService) CanResend(user *models.User) bool {
	return true
}
