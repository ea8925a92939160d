package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarushkx/speak-free/internal/domain"
	apperrors "github.com/aarushkx/speak-free/pkg/util/errorutil"
)

func TestGenerateVerificationCode_SixDigitsInRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestCodesEqual(t *testing.T) {
	assert.True(t, CodesEqual("123456", "123456"))
	assert.False(t, CodesEqual("123456", "654321"))
	assert.False(t, CodesEqual("123456", "12345"))
	assert.False(t, CodesEqual("", ""))
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.NoError(t, ComparePassword(hash, "secret1"))
	assert.Error(t, ComparePassword(hash, "secret2"))
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("super-secret", time.Hour)
	token, exp, err := tm.GenerateToken(domain.Session{
		UserID:              "u1",
		Username:            "alice",
		IsVerified:          true,
		IsAcceptingMessages: false,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	session, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, "alice", session.Username)
	assert.True(t, session.IsVerified)
	assert.False(t, session.IsAcceptingMessages)
}

func TestTokenManager_RejectsExpiredAndForeignTokens(t *testing.T) {
	tm := NewTokenManager("super-secret", time.Minute)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := tm.GenerateToken(domain.Session{UserID: "u1"})
	require.NoError(t, err)
	tm.now = time.Now

	_, err = tm.ParseToken(expired)
	assert.Error(t, err)

	other := NewTokenManager("other-secret", time.Hour)
	foreign, _, err := other.GenerateToken(domain.Session{UserID: "u1"})
	require.NoError(t, err)
	_, err = tm.ParseToken(foreign)
	assert.Error(t, err)
}

func newProtectedApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Message)
		},
	})
	mw := NewAuthMiddleware(tm, "speakfree_session")
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		return c.SendString(p.Username)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("super-secret", time.Hour)
	token, _, err := tm.GenerateToken(domain.Session{UserID: "u1", Username: "alice", IsVerified: true})
	require.NoError(t, err)
	app := newProtectedApp(tm)

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		body   string
	}{
		{name: "bearer", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, status: http.StatusOK, body: "alice"},
		{name: "cookie", setup: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "speakfree_session", Value: token}) }, status: http.StatusOK, body: "alice"},
		{name: "missing", setup: func(r *http.Request) {}, status: http.StatusUnauthorized},
		{name: "malformed header", setup: func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }, status: http.StatusUnauthorized},
		{name: "bad signature", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token+"x") }, status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.setup(req)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.body != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tc.body, string(body))
			}
		})
	}
}
