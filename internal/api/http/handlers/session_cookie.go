package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aarushkx/speak-free/internal/api/dto"
	"github.com/aarushkx/speak-free/internal/auth"
	"github.com/aarushkx/speak-free/internal/domain"
	apperrors "github.com/aarushkx/speak-free/pkg/util/errorutil"
)

// SessionCookie describes the HttpOnly cookie carrying the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (s SessionCookie) set(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s SessionCookie) clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// parseBody decodes and validates a JSON body into req.
func parseBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("Invalid request payload", nil)
	}
	return dto.Validate(req)
}

func principal(c *fiber.Ctx) (*domain.Session, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("Not authenticated")
	}
	return p, nil
}
