package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatwheels/partner-backend/internal/middleware"
	"github.com/bharatwheels/partner-backend/internal/models"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

// BookingHandler handles booking posting, browsing and transitions.
type BookingHandler struct {
	store storage.Store
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(store storage.Store) *BookingHandler {
	return &BookingHandler{store: store}
}

// Create posts a new booking owned by the requester.
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		FromCity    string `json:"from_city" validate:"required"`
		ToCity      string `json:"to_city" validate:"required"`
		TripType    string `json:"trip_type" validate:"omitempty,oneof=one-way round-trip"`
		VehicleType string `json:"vehicle_type" validate:"required"`
		TripDate    string `json:"trip_date"`
		Notes       string `json:"notes"`
		Amount      struct {
			BookingAmount    float64 `json:"bookingAmount" validate:"gt=0"`
			CommissionAmount float64 `json:"commissionAmount" validate:"gte=0"`
			AdvanceAmount    float64 `json:"advanceAmount" validate:"gte=0"`
		} `json:"amount"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	booking := &models.Booking{
		PostedBy:    user.UserID,
		FromCity:    req.FromCity,
		ToCity:      req.ToCity,
		TripType:    req.TripType,
		VehicleType: req.VehicleType,
		Notes:       req.Notes,
		Amount: models.BookingAmount{
			BookingAmount:    req.Amount.BookingAmount,
			CommissionAmount: req.Amount.CommissionAmount,
			AdvanceAmount:    req.Amount.AdvanceAmount,
		},
	}
	if req.TripDate != "" {
		d, err := time.Parse("2006-01-02", req.TripDate)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "trip_date must be YYYY-MM-DD")
		}
		booking.TripDate = &d
	}

	booking, err := h.store.CreateBooking(booking)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to create booking")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"booking": booking,
	})
}

// List returns active bookings matching the query filters.
func (h *BookingHandler) List(c *fiber.Ctx) error {
	filter := &storage.ListFilter{
		FromCity:    c.Query("from_city"),
		ToCity:      c.Query("to_city"),
		VehicleType: c.Query("vehicle_type"),
		Status:      c.Query("status"),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", 20),
	}

	bookings, err := h.store.ListBookings(filter)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch bookings")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"bookings": bookings,
		"count":    len(bookings),
		"page":     filter.Page,
	})
}

// MyBookings returns all of the requester's postings, any status.
func (h *BookingHandler) MyBookings(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	filter := &storage.ListFilter{
		PostedBy: user.UserID,
		Status:   c.Query("status"),
		All:      c.Query("status") == "",
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 50),
	}

	bookings, err := h.store.ListBookings(filter)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch bookings")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// Get fetches one booking by ID.
func (h *BookingHandler) Get(c *fiber.Ctx) error {
	booking, err := h.store.GetBooking(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Booking not found")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"booking": booking,
	})
}

// Update modifies an active booking's details. Owner or admin only.
func (h *BookingHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	booking, err := h.store.GetBooking(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Booking not found")
	}
	if !canMutate(booking.PostedBy, user) {
		return fail(c, fiber.StatusForbidden, "Not allowed to modify this booking")
	}

	var req struct {
		FromCity    string   `json:"from_city"`
		ToCity      string   `json:"to_city"`
		TripType    string   `json:"trip_type" validate:"omitempty,oneof=one-way round-trip"`
		VehicleType string   `json:"vehicle_type"`
		TripDate    string   `json:"trip_date"`
		Notes       *string  `json:"notes"`
		Amount      *struct {
			BookingAmount    float64 `json:"bookingAmount" validate:"gt=0"`
			CommissionAmount float64 `json:"commissionAmount" validate:"gte=0"`
			AdvanceAmount    float64 `json:"advanceAmount" validate:"gte=0"`
		} `json:"amount"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if req.FromCity != "" {
		booking.FromCity = req.FromCity
	}
	if req.ToCity != "" {
		booking.ToCity = req.ToCity
	}
	if req.TripType != "" {
		booking.TripType = req.TripType
	}
	if req.VehicleType != "" {
		booking.VehicleType = req.VehicleType
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}
	if req.TripDate != "" {
		d, err := time.Parse("2006-01-02", req.TripDate)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "trip_date must be YYYY-MM-DD")
		}
		booking.TripDate = &d
	}
	if req.Amount != nil {
		booking.Amount = models.BookingAmount{
			BookingAmount:    req.Amount.BookingAmount,
			CommissionAmount: req.Amount.CommissionAmount,
			AdvanceAmount:    req.Amount.AdvanceAmount,
		}
	}

	if err := h.store.UpdateBooking(booking); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to update booking")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"booking": booking,
	})
}

// Delete removes a booking. Owner or admin only.
func (h *BookingHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	booking, err := h.store.GetBooking(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Booking not found")
	}
	if !canMutate(booking.PostedBy, user) {
		return fail(c, fiber.StatusForbidden, "Not allowed to delete this booking")
	}

	if err := h.store.DeleteBooking(booking.BookingID); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to delete booking")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Booking deleted",
	})
}

// Assign links a partner to an active booking and moves it to assigned.
func (h *BookingHandler) Assign(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		PartnerID string `json:"partner_id" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	booking, err := h.store.GetBooking(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Booking not found")
	}
	if !canMutate(booking.PostedBy, user) {
		return fail(c, fiber.StatusForbidden, "Not allowed to assign this booking")
	}
	if booking.Status != models.BookingStatusActive {
		return fail(c, fiber.StatusConflict, "Only active bookings can be assigned")
	}
	if req.PartnerID == booking.PostedBy {
		return fail(c, fiber.StatusBadRequest, "Cannot assign a booking to its owner")
	}
	partner, err := h.store.GetUserByID(req.PartnerID)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Partner not found")
	}

	now := time.Now()
	booking.AssignedTo = partner.UserID
	booking.Status = models.BookingStatusAssigned
	booking.AssignedAt = &now

	if err := h.store.UpdateBooking(booking); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to assign booking")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"booking": booking,
	})
}

// Close moves an active or assigned booking to the terminal closed state.
func (h *BookingHandler) Close(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		Reason string `json:"reason"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	booking, err := h.store.GetBooking(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Booking not found")
	}
	if !canMutate(booking.PostedBy, user) {
		return fail(c, fiber.StatusForbidden, "Not allowed to close this booking")
	}
	if booking.Status != models.BookingStatusActive && booking.Status != models.BookingStatusAssigned {
		return fail(c, fiber.StatusConflict, "Booking is already closed or cancelled")
	}

	now := time.Now()
	booking.Status = models.BookingStatusClosed
	booking.ClosedAt = &now
	booking.CloseReason = req.Reason

	if err := h.store.UpdateBooking(booking); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to close booking")
	}
	if req.Reason != "" {
		_ = h.store.AddBookingComment(&models.BookingComment{
			BookingID: booking.BookingID,
			AuthorID:  user.UserID,
			Text:      "Closed: " + req.Reason,
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"booking": booking,
	})
}

// Cancel is the terminal alternate from active.
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	booking, err := h.store.GetBooking(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Booking not found")
	}
	if !canMutate(booking.PostedBy, user) {
		return fail(c, fiber.StatusForbidden, "Not allowed to cancel this booking")
	}
	if booking.Status != models.BookingStatusActive {
		return fail(c, fiber.StatusConflict, "Only active bookings can be cancelled")
	}

	now := time.Now()
	booking.Status = models.BookingStatusCancelled
	booking.ClosedAt = &now

	if err := h.store.UpdateBooking(booking); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to cancel booking")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"booking": booking,
	})
}

// Comment appends to the booking's comment list.
func (h *BookingHandler) Comment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		Text string `json:"text" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	booking, err := h.store.GetBooking(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Booking not found")
	}

	comment := &models.BookingComment{
		BookingID: booking.BookingID,
		AuthorID:  user.UserID,
		Text:      req.Text,
	}
	if err := h.store.AddBookingComment(comment); err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return fail(c, fiber.StatusNotFound, "Booking not found")
		}
		return fail(c, fiber.StatusInternalServerError, "Failed to add comment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"comment": comment,
	})
}
