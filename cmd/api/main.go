package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/baroform/lead-service/internal/api/http"
	"github.com/baroform/lead-service/internal/api/http/handlers"
	"github.com/baroform/lead-service/internal/auth"
	"github.com/baroform/lead-service/internal/config"
	"github.com/baroform/lead-service/internal/events"
	"github.com/baroform/lead-service/internal/observability"
	"github.com/baroform/lead-service/internal/persistence"
	"github.com/baroform/lead-service/internal/repository"
	"github.com/baroform/lead-service/internal/service"
	"github.com/baroform/lead-service/internal/worker"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	leadRepo := repository.NewLeadRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	facetCache := persistence.NewFacetCache(redis, cfg.Funnel.FacetCacheTTL())
	location := cfg.App.Location()

	leadService := service.NewLeadService(service.LeadDependencies{
		LeadRepo:   leadRepo,
		Dispatcher: dispatcher,
		FacetCache: facetCache,
		Logger:     logger,
		Location:   location,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AdminRepo:         adminRepo,
		PasswordResetRepo: resetRepo,
		Dispatcher:        dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	seedAdmin(ctx, authService, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), adminRepo)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Consultations:  handlers.NewConsultationsHandler(leadService),
		AdminLeads:     handlers.NewAdminLeadsHandler(leadService, location),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// seedAdmin provisions the bootstrap operator account when ADMIN_SEED_EMAIL
// and ADMIN_SEED_PASSWORD are set and the email is not registered yet.
func seedAdmin(ctx context.Context, authService *service.AuthService, logger *zap.Logger) {
	email := os.Getenv("ADMIN_SEED_EMAIL")
	password := os.Getenv("ADMIN_SEED_PASSWORD")
	if email == "" || password == "" {
		return
	}
	name := os.Getenv("ADMIN_SEED_NAME")
	if name == "" {
		name = "관리자"
	}
	if _, err := authService.CreateAdmin(ctx, name, email, password); err != nil {
		logger.Info("admin seed skipped", zap.String("email", email), zap.Error(err))
		return
	}
	logger.Info("admin account seeded", zap.String("email", email))
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
