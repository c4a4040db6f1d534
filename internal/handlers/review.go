package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bharatwheels/partner-backend/internal/middleware"
	"github.com/bharatwheels/partner-backend/internal/models"
	"github.com/bharatwheels/partner-backend/internal/services"
	"github.com/bharatwheels/partner-backend/internal/storage"
)

// ReviewHandler handles reviews, rating summaries and partner scores.
type ReviewHandler struct {
	store storage.Store
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(store storage.Store) *ReviewHandler {
	return &ReviewHandler{store: store}
}

// Create posts a review about :userId by the requester. One review per
// (reviewer, reviewed) pair; self-review is rejected.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	reviewedID := c.Params("userId")

	var req struct {
		Rating int      `json:"rating" validate:"required,min=1,max=5"`
		Text   string   `json:"text"`
		Tags   []string `json:"tags"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if reviewedID == user.UserID {
		return fail(c, fiber.StatusBadRequest, "You cannot review yourself")
	}
	if _, err := h.store.GetUserByID(reviewedID); err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}

	// Pre-write existence check; no database constraint backs this.
	if _, err := h.store.GetReviewByPair(user.UserID, reviewedID); err == nil {
		return fail(c, fiber.StatusConflict, "You have already reviewed this user")
	} else if !errors.Is(err, storage.ErrReviewNotFound) {
		return fail(c, fiber.StatusInternalServerError, "Failed to check existing reviews")
	}

	review := &models.Review{
		ReviewerID: user.UserID,
		ReviewedID: reviewedID,
		Rating:     req.Rating,
		Text:       req.Text,
		Tags:       strings.Join(req.Tags, ","),
	}
	review, err := h.store.CreateReview(review)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to save review")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"review":  review,
	})
}

// List returns reviews about :userId.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	reviews, err := h.store.ListReviewsFor(c.Params("userId"),
		c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to fetch reviews")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// RatingSummary returns the star-bucket counts and average for :userId.
func (h *ReviewHandler) RatingSummary(c *fiber.Ctx) error {
	summary, err := h.store.GetRatingSummary(c.Params("userId"))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to compute rating summary")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"summary": summary,
	})
}

// PartnerScore returns the 300-900 trust score for :userId.
func (h *ReviewHandler) PartnerScore(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if _, err := h.store.GetUserByID(userID); err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}

	summary, err := h.store.GetRatingSummary(userID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to compute partner score")
	}

	result := services.CalculatePartnerScore(summary)
	return c.JSON(fiber.Map{
		"success": true,
		"user_id": userID,
		"result":  result,
	})
}
