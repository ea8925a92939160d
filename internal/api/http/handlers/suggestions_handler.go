package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aarushkx/speak-free/internal/service"
)

// SuggestionsHandler serves generated message suggestions.
type SuggestionsHandler struct {
	suggestions *service.SuggestionService
}

// NewSuggestionsHandler constructs handler.
func NewSuggestionsHandler(suggestions *service.SuggestionService) *SuggestionsHandler {
	return &SuggestionsHandler{suggestions: suggestions}
}

// Suggest handles POST /api/suggest-messages. Failures answer 200 with success false.
func (h *SuggestionsHandler) Suggest(c *fiber.Ctx) error {
	suggestions, err := h.suggestions.Suggest(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "suggestions": suggestions})
}
