package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aarushkx/speak-free/internal/api/http/handlers"
	"github.com/aarushkx/speak-free/internal/auth"
	"github.com/aarushkx/speak-free/internal/config"
	"github.com/aarushkx/speak-free/internal/events"
	"github.com/aarushkx/speak-free/internal/mail"
	"github.com/aarushkx/speak-free/internal/observability"
	"github.com/aarushkx/speak-free/internal/repository"
	"github.com/aarushkx/speak-free/internal/service"
)

type nopMailer struct{}

func (nopMailer) Send(context.Context, mail.Envelope) error { return nil }

type stubGenerator struct {
	text string
	err  error
}

func (g stubGenerator) Generate(context.Context, string) (string, error) { return g.text, g.err }

type testServer struct {
	app  *fiber.App
	repo repository.UserRepository
}

func newTestServer(t *testing.T, gen stubGenerator) *testServer {
	t.Helper()

	logger := zap.NewNop()
	repo := repository.NewMemoryUserRepository()
	tokens := auth.NewTokenManager("router-secret", time.Hour)
	dispatcher := events.NewInMemoryDispatcher(logger)
	cookie := handlers.SessionCookie{Name: "speakfree_session"}

	authService := service.NewAuthService(config.AuthConfig{BcryptCost: 4, VerificationCodeTTLMinutes: 60}, service.AuthDependencies{
		UserRepo:   repo,
		Mailer:     nopMailer{},
		Dispatcher: dispatcher,
		Tokens:     tokens,
		Logger:     logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("speak-free", "test", "memory", repo, nil),
		Users:          handlers.NewUsersHandler(authService, service.NewAccountService(repo, dispatcher, logger), cookie),
		Messages:       handlers.NewMessagesHandler(service.NewMessageService(repo, tokens, dispatcher, logger), cookie),
		Directory:      handlers.NewDirectoryHandler(service.NewDirectoryService(repo)),
		Suggestions:    handlers.NewSuggestionsHandler(service.NewSuggestionService(gen, logger)),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, cookie.Name),
	})
	return &testServer{app: app, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) registerAndLogin(t *testing.T, username, email, password string) string {
	t.Helper()

	status, _ := s.do(t, fiber.MethodPost, "/api/register",
		fiber.Map{"username": username, "email": email, "password": password}, "")
	require.Equal(t, fiber.StatusCreated, status)

	user, err := s.repo.GetByEmail(context.Background(), email)
	require.NoError(t, err)

	status, _ = s.do(t, fiber.MethodPost, "/api/verify-code",
		fiber.Map{"username": username, "code": user.VerificationCode}, "")
	require.Equal(t, fiber.StatusOK, status)

	status, body := s.do(t, fiber.MethodPost, "/api/auth/login",
		fiber.Map{"identifier": username, "password": password}, "")
	require.Equal(t, fiber.StatusOK, status)
	return body["auth"].(map[string]any)["token"].(string)
}

func TestRouter_EndToEndScenario(t *testing.T) {
	s := newTestServer(t, stubGenerator{})

	status, body := s.do(t, fiber.MethodPost, "/api/register",
		fiber.Map{"username": "alice", "email": "a@x.com", "password": "secret1"}, "")
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	status, body = s.do(t, fiber.MethodPost, "/api/verify-code", fiber.Map{"username": "alice", "code": "000000"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid verification code", body["message"])

	user, err := s.repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	status, body = s.do(t, fiber.MethodPost, "/api/verify-code", fiber.Map{"username": "alice", "code": user.VerificationCode}, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alice", body["data"].(map[string]any)["username"])

	status, body = s.do(t, fiber.MethodPost, "/api/auth/login", fiber.Map{"identifier": "alice", "password": "secret1"}, "")
	require.Equal(t, fiber.StatusOK, status)
	token := body["auth"].(map[string]any)["token"].(string)

	status, body = s.do(t, fiber.MethodPost, "/api/accept-messages", fiber.Map{"acceptMessages": false}, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["isAcceptingMessages"])
	token = body["auth"].(map[string]any)["token"].(string)

	status, body = s.do(t, fiber.MethodGet, "/api/auth/session", nil, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["user"].(map[string]any)["isAcceptingMessages"])

	status, body = s.do(t, fiber.MethodPost, "/api/send-message", fiber.Map{"username": "alice", "content": "hello there!!"}, "")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "User is not accepting messages", body["message"])

	status, _ = s.do(t, fiber.MethodPost, "/api/accept-messages", fiber.Map{"acceptMessages": true}, token)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = s.do(t, fiber.MethodPost, "/api/send-message",
		fiber.Map{"username": "alice", "content": "this message is long enough"}, "")
	require.Equal(t, fiber.StatusCreated, status)

	status, body = s.do(t, fiber.MethodGet, "/api/get-messages", nil, token)
	require.Equal(t, fiber.StatusOK, status)
	messages := body["messages"].([]any)
	require.Len(t, messages, 1)
	id := messages[0].(map[string]any)["_id"].(string)

	status, _ = s.do(t, fiber.MethodDelete, "/api/delete-message/"+id, nil, token)
	require.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, fiber.MethodGet, "/api/get-messages", nil, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["messages"])

	status, body = s.do(t, fiber.MethodDelete, "/api/delete-all-messages", nil, token)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "No messages found or already empty", body["message"])

	status, body = s.do(t, fiber.MethodDelete, "/api/delete-message/"+id, nil, token)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Message not found", body["message"])
}

func TestRouter_ProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t, stubGenerator{})

	for _, route := range []struct{ method, path string }{
		{fiber.MethodGet, "/api/accept-messages"},
		{fiber.MethodPost, "/api/accept-messages"},
		{fiber.MethodGet, "/api/get-messages"},
		{fiber.MethodDelete, "/api/delete-message/abc"},
		{fiber.MethodDelete, "/api/delete-all-messages"},
		{fiber.MethodDelete, "/api/delete-account"},
		{fiber.MethodGet, "/api/auth/session"},
	} {
		status, body := s.do(t, route.method, route.path, nil, "")
		assert.Equal(t, fiber.StatusUnauthorized, status, route.path)
		assert.Equal(t, "Not authenticated", body["message"], route.path)
	}

	status, _ := s.do(t, fiber.MethodGet, "/api/get-messages", nil, "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRouter_ValidationAndUniqueness(t *testing.T) {
	s := newTestServer(t, stubGenerator{})
	s.registerAndLogin(t, "bob", "b@x.com", "secret1")

	status, body := s.do(t, fiber.MethodPost, "/api/register",
		fiber.Map{"username": "b", "email": "bad", "password": "1"}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["details"])

	status, body = s.do(t, fiber.MethodPost, "/api/register",
		fiber.Map{"username": "bob", "email": "new@x.com", "password": "secret1"}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Username is already taken", body["message"])

	status, body = s.do(t, fiber.MethodGet, "/api/check-username-unique?username=bob", nil, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["success"])

	status, body = s.do(t, fiber.MethodGet, "/api/check-username-unique?username=carol", nil, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, body = s.do(t, fiber.MethodGet, "/api/check-username-unique?username=no!", nil, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Username can not contain special characters", body["message"])

	status, body = s.do(t, fiber.MethodPost, "/api/send-message", fiber.Map{"username": "bob"}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Username and content are required", body["message"])

	status, body = s.do(t, fiber.MethodPost, "/api/send-message", fiber.Map{"username": "ghost", "content": "hello there"}, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "User not found", body["message"])

	status, body = s.do(t, fiber.MethodPost, "/api/verify-code", fiber.Map{"username": "bob"}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Username and verification code are required", body["message"])
}

func TestRouter_DirectoryAndAccountDeletion(t *testing.T) {
	s := newTestServer(t, stubGenerator{})
	token := s.registerAndLogin(t, "dana", "d@x.com", "secret1")

	status, body := s.do(t, fiber.MethodGet, "/api/users", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	users := body["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "dana", users[0].(map[string]any)["username"])

	status, body = s.do(t, fiber.MethodGet, "/api/users/dana", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["user"].(map[string]any)["isAcceptingMessages"])

	status, _ = s.do(t, fiber.MethodDelete, "/api/delete-account", nil, token)
	require.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, fiber.MethodDelete, "/api/delete-account", nil, token)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "User not found", body["message"])

	status, _ = s.do(t, fiber.MethodGet, "/api/users/dana", nil, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestRouter_Suggestions(t *testing.T) {
	s := newTestServer(t, stubGenerator{text: "One||Two||Three"})
	status, body := s.do(t, fiber.MethodPost, "/api/suggest-messages", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []any{"One", "Two", "Three"}, body["suggestions"])

	failing := newTestServer(t, stubGenerator{err: errors.New("upstream down")})
	status, body = failing.do(t, fiber.MethodPost, "/api/suggest-messages", nil, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to generate suggestions", body["message"])
}

func TestRouter_HealthAndUnknownRoute(t *testing.T) {
	s := newTestServer(t, stubGenerator{})

	status, body := s.do(t, fiber.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, fiber.StatusOK, status)
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "ok", deps["memory"])
	assert.Equal(t, "disabled", deps["redis"])

	status, body = s.do(t, fiber.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, false, body["success"])

	resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
