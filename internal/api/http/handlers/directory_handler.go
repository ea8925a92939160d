package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aarushkx/speak-free/internal/api/dto"
	"github.com/aarushkx/speak-free/internal/service"
)

// DirectoryHandler serves the public user directory.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// List handles GET /api/users.
func (h *DirectoryHandler) List(c *fiber.Ctx) error {
	entries, err := h.directory.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "users": dto.NewUserSummaries(entries)})
}

// Profile handles GET /api/users/:username.
func (h *DirectoryHandler) Profile(c *fiber.Ctx) error {
	entry, err := h.directory.GetProfile(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "user": dto.NewUserSummary(*entry)})
}
