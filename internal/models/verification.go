package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Verification document types and statuses
const (
	DocumentAadhaar    = "aadhaar"
	DocumentDL         = "dl"
	DocumentDigilocker = "digilocker"

	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// Verification is an append-only audit record of an identity-document check.
// The live flags on User reflect the latest approved outcome.
type Verification struct {
	gorm.Model

	VerificationID string     `json:"verification_id" gorm:"uniqueIndex"`
	UserID         string     `json:"user_id" gorm:"index"`
	DocumentType   string     `json:"document_type"` // aadhaar, dl, digilocker
	DocumentRef    string     `json:"document_ref"`  // masked number or locker URI
	Status         string     `json:"status" gorm:"default:pending;index"`
	AdminNotes     string     `json:"admin_notes"`
	ReviewedBy     string     `json:"reviewed_by"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
}

func (v *Verification) BeforeCreate(tx *gorm.DB) error {
	if v.VerificationID == "" {
		v.VerificationID = fmt.Sprintf("VER%d", time.Now().UnixNano())
	}
	if v.Status == "" {
		v.Status = VerificationPending
	}
	return nil
}
