package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/resolvedesk/itsm-service/internal/api/http"
	"github.com/resolvedesk/itsm-service/internal/api/http/handlers"
	"github.com/resolvedesk/itsm-service/internal/auth"
	"github.com/resolvedesk/itsm-service/internal/config"
	"github.com/resolvedesk/itsm-service/internal/events"
	"github.com/resolvedesk/itsm-service/internal/observability"
	"github.com/resolvedesk/itsm-service/internal/persistence"
	"github.com/resolvedesk/itsm-service/internal/repository"
	"github.com/resolvedesk/itsm-service/internal/service"
	"github.com/resolvedesk/itsm-service/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	technicianRepo := repository.NewTechnicianRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	skillRepo := repository.NewSkillRepository(pool)
	workLogRepo := repository.NewWorkLogRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	uow := repository.NewUnitOfWork(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	userService := service.NewUserService(userRepo)
	technicianService := service.NewTechnicianService(service.TechnicianDependencies{
		Technicians: technicianRepo,
		Users:       userRepo,
		Skills:      skillRepo,
		Dispatcher:  dispatcher,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		Tickets:     ticketRepo,
		Technicians: technicianRepo,
		Users:       userRepo,
		Skills:      skillRepo,
		WorkLogs:    workLogRepo,
		Audit:       auditRepo,
		UnitOfWork:  uow,
		Dispatcher:  dispatcher,
	})
	skillService := service.NewSkillService(skillRepo)
	analyticsService := service.NewAnalyticsService(ticketRepo, redis.Client, cfg.Analytics.CacheTTL(), logger)
	analyticsService.RegisterInvalidationHooks(dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, technicianRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Technicians:    handlers.NewTechniciansHandler(technicianService, analyticsService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Skills:         handlers.NewSkillsHandler(skillService),
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
