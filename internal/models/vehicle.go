package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Vehicle status machine: active -> assigned -> booked/inactive, with
// cancelled as a terminal alternate from active.
const (
	VehicleStatusActive    = "active"
	VehicleStatusAssigned  = "assigned"
	VehicleStatusBooked    = "booked"
	VehicleStatusInactive  = "inactive"
	VehicleStatusCancelled = "cancelled"
)

// Vehicle is a posted available car, owned by one user and optionally
// assigned to a partner.
type Vehicle struct {
	gorm.Model

	VehicleID  string `json:"vehicle_id" gorm:"uniqueIndex"`
	PostedBy   string `json:"posted_by" gorm:"index"`
	AssignedTo string `json:"assigned_to" gorm:"index"`

	// Car details
	RegistrationNo string     `json:"registration_no"`
	VehicleType    string     `json:"vehicle_type" gorm:"index"` // "sedan", "suv", "hatchback"
	ModelName      string     `json:"model_name"`
	SeatingCap     int        `json:"seating_capacity"`
	City           string     `json:"city" gorm:"index"`
	RatePerKm      float64    `json:"rate_per_km"`
	AvailableFrom  *time.Time `json:"available_from"`
	Notes          string     `json:"notes"`

	Status      string     `json:"status" gorm:"index;default:active"`
	AssignedAt  *time.Time `json:"assigned_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	CloseReason string     `json:"close_reason"`

	Comments []VehicleComment `json:"comments,omitempty" gorm:"foreignKey:VehicleID;references:VehicleID"`
}

// VehicleComment is an append-only comment on a vehicle posting.
type VehicleComment struct {
	gorm.Model
	VehicleID string `json:"vehicle_id" gorm:"index"`
	AuthorID  string `json:"author_id"`
	Text      string `json:"text"`
}

// BeforeCreate assigns the sequential VehicleID and normalizes fields.
func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.VehicleID == "" {
		v.VehicleID = NextSequenceID(tx, "vehicles", "vehicle_id", VehicleIDPrefix)
	}
	v.RegistrationNo = strings.ToUpper(strings.ReplaceAll(v.RegistrationNo, " ", ""))
	if v.Status == "" {
		v.Status = VehicleStatusActive
	}
	return nil
}
