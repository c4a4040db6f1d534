package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a taxi partner (or admin) in the marketplace.
type User struct {
	gorm.Model

	UserID string `json:"user_id" gorm:"uniqueIndex"`
	Name   string `json:"name"`
	Mobile string `json:"mobile" gorm:"uniqueIndex"`
	Email  string `json:"email"`
	Role   string `json:"role" gorm:"default:user"`

	PasswordHash string `json:"-"`

	// Profile / business info
	BusinessName string `json:"business_name"`
	City         string `json:"city" gorm:"index"`
	About        string `json:"about"`

	// Live verification flags; the audit trail lives in Verification rows.
	AadhaarVerified   bool `json:"aadhaar_verified" gorm:"default:false"`
	DLVerified        bool `json:"dl_verified" gorm:"default:false"`
	DigilockerLinked  bool `json:"digilocker_linked" gorm:"default:false"`

	// Wallet balance, updated at transaction write time.
	WalletBalance float64 `json:"wallet_balance" gorm:"default:0"`

	// Account state: created inactive, activated on first OTP verification.
	IsActive    bool `json:"is_active" gorm:"default:false"`
	IsSuspended bool `json:"is_suspended" gorm:"default:false"`

	// OTP lifecycle fields (one pending code per user).
	OTPCode       string     `json:"-"`
	OTPExpiresAt  *time.Time `json:"-"`
	OTPAttempts   int        `json:"-" gorm:"default:0"`
	OTPLastSentAt *time.Time `json:"-"`
}

// BeforeCreate assigns the sequential UserID and normalizes the mobile number.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = NextSequenceID(tx, "users", "user_id", UserIDPrefix)
	}
	u.Mobile = NormalizeMobile(u.Mobile)
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPendingOTP reports whether an OTP is currently stored on the user.
func (u *User) HasPendingOTP() bool {
	return u.OTPCode != "" && u.OTPExpiresAt != nil
}

// ClearOTP wipes all OTP state after a successful (one-time) verification.
func (u *User) ClearOTP() {
	u.OTPCode = ""
	u.OTPExpiresAt = nil
	u.OTPAttempts = 0
	u.OTPLastSentAt = nil
}

// NormalizeMobile strips spaces and prefixes +91 for bare 10-digit numbers.
func NormalizeMobile(mobile string) string {
	mobile = strings.ReplaceAll(strings.TrimSpace(mobile), " ", "")
	if mobile == "" || strings.HasPrefix(mobile, "+") {
		return mobile
	}
	return "+91" + strings.TrimPrefix(mobile, "91")
}
