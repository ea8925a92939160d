package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aarushkx/speak-free/internal/domain"
	apperrors "github.com/aarushkx/speak-free/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// AuthMiddleware validates session tokens. It checks the signature only and
// never reads the store, so the principal is the snapshot taken at login.
type AuthMiddleware struct {
	tokens     *TokenManager
	cookieName string
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := m.extractToken(c)
	if err != nil {
		return err
	}

	session, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("Not authenticated")
	}

	c.Locals(principalKey, session)
	return c.Next()
}

// extractToken prefers the Authorization header and falls back to the session cookie.
func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", apperrors.NewUnauthorized("invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie := c.Cookies(m.cookieName); cookie != "" {
		return cookie, nil
	}
	return "", apperrors.NewUnauthorized("Not authenticated")
}

// PrincipalFromContext retrieves the authenticated session.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Session)
	return principal, ok
}
