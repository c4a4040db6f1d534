package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bharatwheels/partner-backend/internal/services"
)

// ChatbotHandler fronts the rule-based support chatbot.
type ChatbotHandler struct {
	bot *services.ChatbotService
}

// NewChatbotHandler creates a new chatbot handler.
func NewChatbotHandler(bot *services.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{bot: bot}
}

// Message answers one chat message.
func (h *ChatbotHandler) Message(c *fiber.Ctx) error {
	var req struct {
		Message string `json:"message" validate:"required"`
	}
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"reply":   h.bot.Reply(req.Message),
	})
}
