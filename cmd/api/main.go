package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/clinic-identity/internal/api/http"
	"github.com/spec-kit/clinic-identity/internal/api/http/handlers"
	"github.com/spec-kit/clinic-identity/internal/auth"
	"github.com/spec-kit/clinic-identity/internal/config"
	"github.com/spec-kit/clinic-identity/internal/events"
	"github.com/spec-kit/clinic-identity/internal/observability"
	"github.com/spec-kit/clinic-identity/internal/persistence"
	"github.com/spec-kit/clinic-identity/internal/repository"
	"github.com/spec-kit/clinic-identity/internal/service"
	"github.com/spec-kit/clinic-identity/internal/worker"
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
	userRepo := repository.NewCachedUserRepository(repository.NewUserRepository(pool), redis.ClientHandle())
	adminRepo := repository.NewAdminRepository(pool)
	doctorRepo := repository.NewDoctorRepository(pool)
	patientRepo := repository.NewPatientRepository(pool)
	registrationStore := repository.NewRegistrationStore(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	registrationService := service.NewRegistrationService(*cfg, service.RegistrationDependencies{
		UserRepo:   userRepo,
		AdminRepo:  adminRepo,
		DoctorRepo: doctorRepo,
		Store:      registrationStore,
		Dispatcher: dispatcher,
		Metrics:    metrics,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		AdminRepo:  adminRepo,
		DoctorRepo: doctorRepo,
		Metrics:    metrics,
	})
	identityService := service.NewIdentityService(service.IdentityDependencies{
		UserRepo:    userRepo,
		AdminRepo:   adminRepo,
		DoctorRepo:  doctorRepo,
		PatientRepo: patientRepo,
		Dispatcher:  dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Identity:       handlers.NewIdentityHandler(registrationService, identityService),
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

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
