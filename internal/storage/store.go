package storage

import (
	"errors"

	"github.com/bharatwheels/partner-backend/internal/models"
)

// Sentinel errors translated to HTTP statuses by the handlers.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrVerificationNotFound = errors.New("verification not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrDuplicateMobile      = errors.New("mobile number already registered")
	ErrDuplicateID          = errors.New("duplicate id")
	ErrInsufficientBalance  = errors.New("insufficient wallet balance")
)

// ListFilter narrows booking/vehicle listings. City/type filters are
// case-insensitive substring matches; Status defaults to "active" when empty
// unless All is set.
type ListFilter struct {
	City        string
	FromCity    string
	ToCity      string
	VehicleType string
	Status      string
	PostedBy    string
	All         bool
	Page        int
	Limit       int
}

// Normalize applies listing defaults.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Status == "" && !f.All {
		f.Status = "active"
	}
}

// Offset returns the row offset for the current page.
func (f *ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Store defines the persistence operations used by handlers and services.
type Store interface {
	// User operations
	CreateUser(user *models.User) (*models.User, error)
	GetUserByID(userID string) (*models.User, error)
	GetUserByMobile(mobile string) (*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(userID string) error
	SearchUsers(query string, limit int) ([]*models.User, error)

	// Booking operations
	CreateBooking(booking *models.Booking) (*models.Booking, error)
	GetBooking(bookingID string) (*models.Booking, error)
	ListBookings(filter *ListFilter) ([]*models.Booking, error)
	UpdateBooking(booking *models.Booking) error
	DeleteBooking(bookingID string) error
	AddBookingComment(comment *models.BookingComment) error

	// Vehicle operations
	CreateVehicle(vehicle *models.Vehicle) (*models.Vehicle, error)
	GetVehicle(vehicleID string) (*models.Vehicle, error)
	ListVehicles(filter *ListFilter) ([]*models.Vehicle, error)
	UpdateVehicle(vehicle *models.Vehicle) error
	DeleteVehicle(vehicleID string) error
	AddVehicleComment(comment *models.VehicleComment) error

	// Review operations
	CreateReview(review *models.Review) (*models.Review, error)
	GetReviewByPair(reviewerID, reviewedID string) (*models.Review, error)
	ListReviewsFor(userID string, page, limit int) ([]*models.Review, error)
	GetRatingSummary(userID string) (*models.RatingSummary, error)

	// Wallet operations
	ApplyTransaction(txn *models.Transaction) error
	ListTransactions(userID string, page, limit int) ([]*models.Transaction, error)

	// Verification operations
	CreateVerification(v *models.Verification) (*models.Verification, error)
	GetVerification(verificationID string) (*models.Verification, error)
	ListVerificationsByUser(userID string) ([]*models.Verification, error)
	ListPendingVerifications() ([]*models.Verification, error)
	UpdateVerification(v *models.Verification) error

	// Housekeeping
	ClearExpiredOTPs() (int64, error)

	// Ping reports whether the backing store is reachable.
	Ping() error
}
