package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatwheels/partner-backend/internal/middleware"
	"github.com/bharatwheels/partner-backend/internal/models"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

// VehicleHandler handles vehicle posting, browsing and transitions.
type VehicleHandler struct {
	store storage.Store
}

// NewVehicleHandler creates a new vehicle handler.
func NewVehicleHandler(store storage.Store) *VehicleHandler {
	return &VehicleHandler{store: store}
}

// Create posts a new vehicle listing owned by the requester.
func (h *VehicleHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		RegistrationNo string  `json:"registration_no" validate:"required"`
		VehicleType    string  `json:"vehicle_type" validate:"required"`
		ModelName      string  `json:"model_name"`
		SeatingCap     int     `json:"seating_capacity" validate:"omitempty,gt=0"`
		City           string  `json:"city" validate:"required"`
		RatePerKm      float64 `json:"rate_per_km" validate:"gt=0"`
		AvailableFrom  string  `json:"available_from"`
		Notes          string  `json:"notes"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	vehicle := &models.Vehicle{
		PostedBy:       user.UserID,
		RegistrationNo: req.RegistrationNo,
		VehicleType:    req.VehicleType,
		ModelName:      req.ModelName,
		SeatingCap:     req.SeatingCap,
		City:           req.City,
		RatePerKm:      req.RatePerKm,
		Notes:          req.Notes,
	}
	if req.AvailableFrom != "" {
		d, err := time.Parse("2006-01-02", req.AvailableFrom)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "available_from must be YYYY-MM-DD")
		}
		vehicle.AvailableFrom = &d
	}

	vehicle, err := h.store.CreateVehicle(vehicle)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to create vehicle listing")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"vehicle": vehicle,
	})
}

// List returns active vehicle listings matching the query filters.
func (h *VehicleHandler) List(c *fiber.Ctx) error {
	filter := &storage.ListFilter{
		City:        c.Query("city"),
		VehicleType: c.Query("vehicle_type"),
		Status:      c.Query("status"),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", 20),
	}

	vehicles, err := h.store.ListVehicles(filter)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch vehicles")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"vehicles": vehicles,
		"count":    len(vehicles),
		"page":     filter.Page,
	})
}

// MyVehicles returns all of the requester's listings, any status.
func (h *VehicleHandler) MyVehicles(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	filter := &storage.ListFilter{
		PostedBy: user.UserID,
		Status:   c.Query("status"),
		All:      c.Query("status") == "",
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 50),
	}

	vehicles, err := h.store.ListVehicles(filter)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch vehicles")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}

// Get fetches one vehicle listing by ID.
func (h *VehicleHandler) Get(c *fiber.Ctx) error {
	vehicle, err := h.store.GetVehicle(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Vehicle not found")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"vehicle": vehicle,
	})
}

// Update modifies a listing's details. Owner or admin only.
func (h *VehicleHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	vehicle, err := h.store.GetVehicle(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Vehicle not found")
	}
	if !canMutate(vehicle.PostedBy, user) {
		return fail(c, fiber.StatusForbidden, "Not allowed to modify this vehicle")
	}

	var req struct {
		VehicleType   string   `json:"vehicle_type"`
		ModelName     string   `json:"model_name"`
		SeatingCap    int      `json:"seating_capacity" validate:"omitempty,gt=0"`
		City          string   `json:"city"`
		RatePerKm     float64  `json:"rate_per_km" validate:"omitempty,gt=0"`
		AvailableFrom string   `json:"available_from"`
		Notes         *string  `json:"notes"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if req.VehicleType != "" {
		vehicle.VehicleType = req.VehicleType
	}
	if req.ModelName != "" {
		vehicle.ModelName = req.ModelName
	}
	if req.SeatingCap > 0 {
		vehicle.SeatingCap = req.SeatingCap
	}
	if req.City != "" {
		vehicle.City = req.City
	}
	if req.RatePerKm > 0 {
		vehicle.RatePerKm = req.RatePerKm
	}
	if req.Notes != nil {
		vehicle.Notes = *req.Notes
	}
	if req.AvailableFrom != "" {
		d, err := time.Parse("2006-01-02", req.AvailableFrom)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "available_from must be YYYY-MM-DD")
		}
		vehicle.AvailableFrom = &d
	}

	if err := h.store.UpdateVehicle(vehicle); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to update vehicle")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"vehicle": vehicle,
	})
}

// Delete removes a listing. Owner or admin only.
func (h *VehicleHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	vehicle, err := h.store.GetVehicle(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Vehicle not found")
	}
	if !canMutate(vehicle.PostedBy, user) {
		return fail(c, fiber.StatusForbidden, "Not allowed to delete this vehicle")
	}

	if err := h.store.DeleteVehicle(vehicle.VehicleID); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to delete vehicle")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Vehicle deleted",
	})
}

// Assign links a partner to an active listing and moves it to assigned.
func (h *VehicleHandler) Assign(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		PartnerID string `json:"partner_id" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	vehicle, err := h.store.GetVehicle(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Vehicle not found")
	}
	if !canMutate(vehicle.PostedBy, user) {
		return fail(c, fiber.StatusForbidden, "Not allowed to assign this vehicle")
	}
	if vehicle.Status != models.VehicleStatusActive {
		return fail(c, fiber.StatusConflict, "Only active vehicles can be assigned")
	}
	if req.PartnerID == vehicle.PostedBy {
		return fail(c, fiber.StatusBadRequest, "Cannot assign a vehicle to its owner")
	}
	partner, err := h.store.GetUserByID(req.PartnerID)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Partner not found")
	}

	now := time.Now()
	vehicle.AssignedTo = partner.UserID
	vehicle.Status = models.VehicleStatusAssigned
	vehicle.AssignedAt = &now

	if err := h.store.UpdateVehicle(vehicle); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to assign vehicle")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"vehicle": vehicle,
	})
}

// Close moves an active or assigned listing to booked or inactive.
func (h *VehicleHandler) Close(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		Reason      string `json:"reason"`
		FinalStatus string `json:"final_status" validate:"omitempty,oneof=booked inactive"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	vehicle, err := h.store.GetVehicle(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Vehicle not found")
	}
	if !canMutate(vehicle.PostedBy, user) {
		return fail(c, fiber.StatusForbidden, "Not allowed to close this vehicle")
	}
	if vehicle.Status != models.VehicleStatusActive && vehicle.Status != models.VehicleStatusAssigned {
		return fail(c, fiber.StatusConflict, "Vehicle is already closed or cancelled")
	}

	final := req.FinalStatus
	if final == "" {
		final = models.VehicleStatusInactive
	}

	now := time.Now()
	vehicle.Status = final
	vehicle.ClosedAt = &now
	vehicle.CloseReason = req.Reason

	if err := h.store.UpdateVehicle(vehicle); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to close vehicle")
	}
	if req.Reason != "" {
		_ = h.store.AddVehicleComment(&models.VehicleComment{
			VehicleID: vehicle.VehicleID,
			AuthorID:  user.UserID,
			Text:      "Closed: " + req.Reason,
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"vehicle": vehicle,
	})
}

// Cancel is the terminal alternate from active.
func (h *VehicleHandler) Cancel(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	vehicle, err := h.store.GetVehicle(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Vehicle not found")
	}
	if !canMutate(vehicle.PostedBy, user) {
		return fail(c, fiber.StatusForbidden, "Not allowed to cancel this vehicle")
	}
	if vehicle.Status != models.VehicleStatusActive {
		return fail(c, fiber.StatusConflict, "Only active vehicles can be cancelled")
	}

	now := time.Now()
	vehicle.Status = models.VehicleStatusCancelled
	vehicle.ClosedAt = &now

	if err := h.store.UpdateVehicle(vehicle); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to cancel vehicle")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"vehicle": vehicle,
	})
}

// Comment appends to the vehicle's comment list.
func (h *VehicleHandler) Comment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req struct {
		Text string `json:"text" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	vehicle, err := h.store.GetVehicle(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Vehicle not found")
	}

	comment := &models.VehicleComment{
		VehicleID: vehicle.VehicleID,
		AuthorID:  user.UserID,
		Text:      req.Text,
	}
	if err := h.store.AddVehicleComment(comment); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to add comment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"comment": comment,
	})
}
