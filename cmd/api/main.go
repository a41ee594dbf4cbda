package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/servicedesk/internal/api/http"
	"github.com/spec-kit/servicedesk/internal/api/http/handlers"
	"github.com/spec-kit/servicedesk/internal/auth"
	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/email"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/observability"
	"github.com/spec-kit/servicedesk/internal/persistence"
	"github.com/spec-kit/servicedesk/internal/repository"
	"github.com/spec-kit/servicedesk/internal/service"
	"github.com/spec-kit/servicedesk/internal/sla"
	"github.com/spec-kit/servicedesk/internal/worker"
)

const version = "1.0.0"

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

	rdb := persistence.NewRedis(cfg.Redis, logger)
	defer rdb.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	participantRepo := repository.NewParticipantRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	planRepo := repository.NewCachedSLAPlanRepository(repository.NewSLAPlanRepository(pool), rdb.Client, logger)

	txManager := repository.NewTxManager(pool)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	clock := sla.SystemClock{}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(userRepo, companyRepo, tokens, cfg.Auth.BcryptCost, logger)
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:      ticketRepo,
		CommentRepo:     commentRepo,
		ParticipantRepo: participantRepo,
		PlanRepo:        planRepo,
		AuditRepo:       auditRepo,
		UserRepo:        userRepo,
		CompanyRepo:     companyRepo,
		Tx:              txManager,
		Dispatcher:      dispatcher,
		Clock:           clock,
		Logger:          logger,
	})
	planService := service.NewSLAPlanService(planRepo, auditRepo, txManager)
	escalationService := service.NewEscalationService(ticketRepo, auditRepo, txManager, dispatcher, metrics, logger)
	notificationService := service.NewNotificationService(dispatcher, ticketRepo, notificationRepo, logger)

	mailer := email.NewMailer(cfg.SMTP, cfg.App.BaseURL, logger)
	mailListener := email.NewListener(mailer, ticketRepo, userRepo, commentRepo, logger)

	worker.StartNotificationWorker(dispatcher, notificationService, mailListener)
	go worker.RunEscalationLoop(ctx, cfg.Escalation, escalationService, clock, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, version, pg, rdb),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Admin:          handlers.NewAdminHandler(planService, escalationService, clock),
		Notifications:  handlers.NewNotificationsHandler(notificationRepo),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
