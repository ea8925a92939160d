package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aarushkx/speak-free/internal/api/http/handlers"
	"github.com/aarushkx/speak-free/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Messages       *handlers.MessagesHandler
	Directory      *handlers.DirectoryHandler
	Suggestions    *handlers.SuggestionsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	requireSession := cfg.AuthMiddleware.Handle
	api := app.Group("/api")

	api.Post("/register", cfg.Users.Register)
	api.Get("/check-username-unique", cfg.Users.CheckUsernameUnique)
	api.Post("/verify-code", cfg.Users.VerifyCode)
	api.Post("/auth/login", cfg.Users.Login)
	api.Post("/auth/logout", cfg.Users.Logout)
	api.Get("/auth/session", requireSession, cfg.Users.Session)
	api.Delete("/delete-account", requireSession, cfg.Users.DeleteAccount)

	api.Get("/accept-messages", requireSession, cfg.Messages.GetAcceptance)
	api.Post("/accept-messages", requireSession, cfg.Messages.SetAcceptance)
	api.Post("/send-message", cfg.Messages.Send)
	api.Get("/get-messages", requireSession, cfg.Messages.List)
	api.Delete("/delete-message/:messageId", requireSession, cfg.Messages.Delete)
	api.Delete("/delete-all-messages", requireSession, cfg.Messages.DeleteAll)

	api.Get("/users", cfg.Directory.List)
	api.Get("/users/:username", cfg.Directory.Profile)

	api.Post("/suggest-messages", cfg.Suggestions.Suggest)
}
