package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/aarushkx/speak-free/internal/api/dto"
	"github.com/aarushkx/speak-free/internal/domain"
	"github.com/aarushkx/speak-free/internal/service"
)

// UsersHandler exposes registration, verification and session endpoints.
type UsersHandler struct {
	auth     *service.AuthService
	accounts *service.AccountService
	cookie   SessionCookie
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, accounts *service.AccountService, cookie SessionCookie) *UsersHandler {
	return &UsersHandler{auth: authService, accounts: accounts, cookie: cookie}
}

// Register handles POST /api/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.auth.Register(c.UserContext(), req.Username, req.Email, req.Password); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully. We have sent you an email to verify your account.",
	})
}

// CheckUsernameUnique handles GET /api/check-username-unique?username=.
func (h *UsersHandler) CheckUsernameUnique(c *fiber.Ctx) error {
	var query dto.UsernameQuery
	query.Username = c.Query("username")
	if err := dto.Validate(query); err != nil {
		return err
	}

	unique, err := h.auth.CheckUsernameUnique(c.UserContext(), query.Username)
	if err != nil {
		return err
	}
	if !unique {
		return c.JSON(fiber.Map{"success": false, "message": "Username is already taken"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Username is unique"})
}

// VerifyCode handles POST /api/verify-code.
func (h *UsersHandler) VerifyCode(c *fiber.Ctx) error {
	var req dto.VerifyCodeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.auth.VerifyCode(c.UserContext(), req.Username, req.Code)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account verified successfully",
		"data":    dto.VerifiedUser{Username: user.Username, Email: user.Email},
	})
}

// Login handles POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		return err
	}
	session := domain.SessionFromUser(user)
	session.ExpiresAt = exp

	h.cookie.set(c, token, exp)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged in successfully",
		"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		"user":    dto.NewSessionResponse(session),
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless; only the cookie is dropped.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	h.cookie.clear(c)
	return c.JSON(fiber.Map{"success": true, "message": "Logged out successfully"})
}

// Session handles GET /api/auth/session.
func (h *UsersHandler) Session(c *fiber.Ctx) error {
	session, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "user": dto.NewSessionResponse(*session)})
}

// DeleteAccount handles DELETE /api/delete-account.
func (h *UsersHandler) DeleteAccount(c *fiber.Ctx) error {
	session, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.accounts.DeleteAccount(c.UserContext(), session.UserID, session.Username); err != nil {
		return err
	}

	h.cookie.clear(c)
	return c.JSON(fiber.Map{"success": true, "message": "Account deleted successfully"})
}
