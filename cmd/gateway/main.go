package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/health-gateway/internal/api/http"
	"github.com/spec-kit/health-gateway/internal/api/http/handlers"
	"github.com/spec-kit/health-gateway/internal/backend"
	"github.com/spec-kit/health-gateway/internal/config"
	"github.com/spec-kit/health-gateway/internal/events"
	"github.com/spec-kit/health-gateway/internal/guard"
	"github.com/spec-kit/health-gateway/internal/observability"
	"github.com/spec-kit/health-gateway/internal/persistence"
	"github.com/spec-kit/health-gateway/internal/repository"
	"github.com/spec-kit/health-gateway/internal/session"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	creds := selectCredentialStore(cfg, pg, redis, logger)

	dispatcher := events.NewInMemoryDispatcher()
	subscribeSessionLogging(dispatcher, logger)

	sessions := session.NewManager(
		creds,
		session.NewDecoder(),
		session.NewResolver(cfg.Auth),
		dispatcher,
		logger,
	)

	backendClient := backend.NewClient(cfg.Backend, logger)
	backendClient.SetUnauthorizedHandler(func(ctx context.Context) {
		sessionID, ok := session.IDFromContext(ctx)
		if !ok {
			return
		}
		if err := sessions.Invalidate(ctx, sessionID); err != nil {
			logger.Error("failed to invalidate session", zap.Error(err))
		}
	})

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Pages:          handlers.NewPagesHandler(guard.New()),
		Auth:           handlers.NewAuthHandler(backendClient, sessions),
		Questionnaires: handlers.NewQuestionnaireHandler(backendClient, sessions),
		Session:        session.NewMiddleware(sessions, cfg.Session),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// selectCredentialStore picks the configured driver, falling back to the
// in-process store when the durable backends are unavailable.
func selectCredentialStore(cfg *config.Config, pg *persistence.Postgres, redis *persistence.Redis, logger *zap.Logger) repository.CredentialRepository {
	switch cfg.Session.Store {
	case "postgres":
		if pg.PoolHandle() != nil {
			logger.Info("using postgres credential store")
			return repository.NewPostgresCredentialRepository(pg.PoolHandle())
		}
		logger.Warn("postgres credential store requested but no pool available")
	case "redis":
		if redis.Client != nil {
			logger.Info("using redis credential store")
			return repository.NewRedisCredentialRepository(redis.Client, cfg.Session.TTL())
		}
	}
	logger.Warn("using in-memory credential store; sessions will not survive restarts")
	return repository.NewMemoryCredentialRepository()
}

func subscribeSessionLogging(dispatcher events.Dispatcher, logger *zap.Logger) {
	for _, eventType := range []events.EventType{
		events.EventSessionLogin,
		events.EventSessionLogout,
		events.EventSessionInvalidated,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			logger.Info("session event",
				zap.String("type", string(event.Type)),
				zap.String("session_id", event.SessionID),
				zap.Any("payload", event.Payload),
			)
			return nil
		})
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
