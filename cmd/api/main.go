package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/employee-service/internal/api/http"
	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/audit"
	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/bootstrap"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/observability"
	"github.com/spec-kit/employee-service/internal/service"
	"github.com/spec-kit/employee-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := bootstrap.OpenEmployeeStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open employee store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.Close()

	dispatcher := events.NewInMemoryDispatcher()

	var recorder service.AuditRecorder
	if cfg.Audit.LogPath != "" {
		auditLog, err := audit.Open(cfg.Audit.LogPath)
		if err != nil {
			logger.Fatal("failed to open audit log", zap.String("path", cfg.Audit.LogPath), zap.Error(err))
		}
		defer auditLog.Close()
		recorder = auditLog
	}
	worker.StartAuditWorker(service.NewAuditService(dispatcher, recorder, logger, cfg.Audit))

	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo: store.Repo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	routes := httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store.Pingers),
		Metrics:   handlers.NewMetricsHandler(metrics),
		Employees: handlers.NewEmployeesHandler(employeeService),
	}
	if cfg.Auth.Enabled {
		tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.App.Name, cfg.Auth.AccessTokenTTL())
		routes.Auth = handlers.NewAuthHandler(auth.NewAdminAuthenticator(cfg.Auth.AdminEmail, cfg.Auth.AdminPasswordHash), tokens)
		routes.AuthMiddleware = auth.NewAuthMiddleware(tokens)
	} else {
		logger.Warn("authentication disabled; employee writes are unauthenticated")
	}
	httptransport.RegisterRoutes(app, routes)

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
