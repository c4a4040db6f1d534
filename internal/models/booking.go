package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking status machine: active -> assigned -> closed, with cancelled as a
// terminal alternate from active.
const (
	BookingStatusActive    = "active"
	BookingStatusAssigned  = "assigned"
	BookingStatusClosed    = "closed"
	BookingStatusCancelled = "cancelled"
)

// BookingAmount is the nested amount object on a booking.
type BookingAmount struct {
	BookingAmount    float64 `json:"bookingAmount"`
	CommissionAmount float64 `json:"commissionAmount"`
	AdvanceAmount    float64 `json:"advanceAmount"`
}

// Booking is a posted ride request, owned by one user and optionally
// assigned to a partner who will fulfil it.
type Booking struct {
	gorm.Model

	BookingID  string `json:"booking_id" gorm:"uniqueIndex"`
	PostedBy   string `json:"posted_by" gorm:"index"`
	AssignedTo string `json:"assigned_to" gorm:"index"`

	// Trip details
	FromCity    string     `json:"from_city" gorm:"index"`
	ToCity      string     `json:"to_city" gorm:"index"`
	TripType    string     `json:"trip_type"` // "one-way", "round-trip"
	VehicleType string     `json:"vehicle_type" gorm:"index"`
	TripDate    *time.Time `json:"trip_date"`
	Notes       string     `json:"notes"`

	Amount BookingAmount `json:"amount" gorm:"embedded;embeddedPrefix:amount_"`

	Status      string     `json:"status" gorm:"index;default:active"`
	AssignedAt  *time.Time `json:"assigned_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	CloseReason string     `json:"close_reason"`

	Comments []BookingComment `json:"comments,omitempty" gorm:"foreignKey:BookingID;references:BookingID"`
}

// BookingComment is an append-only comment on a booking.
type BookingComment struct {
	gorm.Model
	BookingID string `json:"booking_id" gorm:"index"`
	AuthorID  string `json:"author_id"`
	Text      string `json:"text"`
}

// BeforeCreate assigns the sequential BookingID and the initial status.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.BookingID == "" {
		b.BookingID = NextSequenceID(tx, "bookings", "booking_id", BookingIDPrefix)
	}
	if b.Status == "" {
		b.Status = BookingStatusActive
	}
	return nil
}
