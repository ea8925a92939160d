package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/aarushkx/speak-free/internal/api/dto"
	"github.com/aarushkx/speak-free/internal/service"
)

// MessagesHandler exposes the acceptance toggle and inbox endpoints.
type MessagesHandler struct {
	messages *service.MessageService
	cookie   SessionCookie
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messages *service.MessageService, cookie SessionCookie) *MessagesHandler {
	return &MessagesHandler{messages: messages, cookie: cookie}
}

// GetAcceptance handles GET /api/accept-messages.
func (h *MessagesHandler) GetAcceptance(c *fiber.Ctx) error {
	session, err := principal(c)
	if err != nil {
		return err
	}

	accepting, err := h.messages.GetAcceptance(c.UserContext(), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "isAcceptingMessages": accepting})
}

// SetAcceptance handles POST /api/accept-messages and refreshes the session token.
func (h *MessagesHandler) SetAcceptance(c *fiber.Ctx) error {
	session, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.AcceptMessagesRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := h.messages.SetAcceptance(c.UserContext(), *session, *req.AcceptMessages)
	if err != nil {
		return err
	}

	h.cookie.set(c, res.Token, res.ExpiresAt)
	return c.JSON(fiber.Map{
		"success":             true,
		"message":             "Message acceptance status updated successfully",
		"isAcceptingMessages": res.IsAcceptingMessages,
		"auth":                dto.AuthResponse{Token: res.Token, ExpiresAt: res.ExpiresAt},
	})
}

// Send handles POST /api/send-message.
func (h *MessagesHandler) Send(c *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if _, err := h.messages.Send(c.UserContext(), req.Username, req.Content); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "message": "Message sent successfully"})
}

// List handles GET /api/get-messages.
func (h *MessagesHandler) List(c *fiber.Ctx) error {
	session, err := principal(c)
	if err != nil {
		return err
	}

	messages, err := h.messages.List(c.UserContext(), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "messages": dto.NewMessageResponses(messages)})
}

// Delete handles DELETE /api/delete-message/:messageId.
func (h *MessagesHandler) Delete(c *fiber.Ctx) error {
	session, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.messages.Delete(c.UserContext(), session.UserID, c.Params("messageId")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Message deleted"})
}

// DeleteAll handles DELETE /api/delete-all-messages.
func (h *MessagesHandler) DeleteAll(c *fiber.Ctx) error {
	session, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.messages.DeleteAll(c.UserContext(), session.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "All messages deleted successfully"})
}
