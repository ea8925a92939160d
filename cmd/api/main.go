package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/aarushkx/speak-free/internal/api/http"
	"github.com/aarushkx/speak-free/internal/api/http/handlers"
	"github.com/aarushkx/speak-free/internal/auth"
	"github.com/aarushkx/speak-free/internal/config"
	"github.com/aarushkx/speak-free/internal/events"
	"github.com/aarushkx/speak-free/internal/mail"
	"github.com/aarushkx/speak-free/internal/observability"
	"github.com/aarushkx/speak-free/internal/persistence"
	"github.com/aarushkx/speak-free/internal/repository"
	"github.com/aarushkx/speak-free/internal/service"
	"github.com/aarushkx/speak-free/internal/suggest"
	"github.com/aarushkx/speak-free/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	userRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open user store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher(logger)
	if redis != nil {
		dispatcher = events.WithBroker(dispatcher, redis, cfg.Redis.EventsChannel, logger)
	}
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger))

	tokens := auth.NewTokenManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL())
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Mailer:     mail.New(cfg.Mail, logger),
		Dispatcher: dispatcher,
		Tokens:     tokens,
		Logger:     logger,
	})
	messageService := service.NewMessageService(userRepo, tokens, dispatcher, logger)
	accountService := service.NewAccountService(userRepo, dispatcher, logger)
	directoryService := service.NewDirectoryService(userRepo)
	generator, err := suggest.NewGeminiClient(ctx, cfg.Suggestions)
	if err != nil {
		logger.Fatal("failed to init suggestions client", zap.Error(err))
	}
	suggestionService := service.NewSuggestionService(generator, logger)

	cookie := handlers.SessionCookie{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure}
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Store.Driver, userRepo, redis),
		Users:          handlers.NewUsersHandler(authService, accountService, cookie),
		Messages:       handlers.NewMessagesHandler(messageService, cookie),
		Directory:      handlers.NewDirectoryHandler(directoryService),
		Suggestions:    handlers.NewSuggestionsHandler(suggestionService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, cfg.Auth.CookieName),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	snap := metrics.Snapshot()
	logger.Info("stopped", zap.Any("requests", snap.Requests), zap.Any("errors", snap.Errors))
}

// openStore builds the user repository for the configured driver and returns its closer.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.UserRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		gateway := persistence.NewMongo(cfg.Mongo, logger)
		if err := gateway.EnsureIndexes(ctx); err != nil {
			// the gateway reconnects lazily; indexes are retried on the next start
			logger.Warn("mongo indexes not ensured", zap.Error(err))
		}
		closeFn := func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = gateway.Disconnect(shutdownCtx)
		}
		return repository.NewMongoUserRepository(gateway.Users), closeFn, nil

	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, nil, err
			}
		}
		return repository.NewPostgresUserRepository(pg), pg.Close, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory user store; data is lost on restart")
		return repository.NewMemoryUserRepository(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
