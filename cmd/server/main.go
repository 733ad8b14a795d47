package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/loan-ledger/internal/cache"
	"github.com/segyhp/loan-ledger/internal/config"
	"github.com/segyhp/loan-ledger/internal/handler"
	"github.com/segyhp/loan-ledger/internal/logger"
	"github.com/segyhp/loan-ledger/internal/repository"
	"github.com/segyhp/loan-ledger/internal/scheduler"
	"github.com/segyhp/loan-ledger/internal/service"
	"github.com/segyhp/loan-ledger/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)
	appLog := log.With("component", logger.ComponentApp)

	// Initialize Redis when a URL is configured
	redisClient, err := initRedis(cfg)
	if err != nil {
		appLog.Error("failed to initialize redis", "error", err)
		os.Exit(1)
	}

	opts := []service.Option{service.WithLogger(log)}
	var pinger handler.Pinger
	if redisClient != nil {
		defer redisClient.Close()
		pinger = redisClient
		opts = append(opts, service.WithMetricsCache(cache.NewRedisMetricsCache(redisClient, cfg.GetMetricsCacheTTL())))
	}

	// Initialize repositories
	borrowerRepo := repository.NewBorrowerRepository()
	loanRepo := repository.NewLoanRepository()
	paymentRepo := repository.NewPaymentRepository()

	// Initialize service
	ledger := service.NewLoanService(borrowerRepo, loanRepo, paymentRepo, cfg, opts...)

	if cfg.Business.SeedDemoData {
		if _, err := ledger.SeedDemo(context.Background()); err != nil {
			appLog.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	var reminder *scheduler.Reminder
	if cfg.Scheduler.Enabled {
		reminder = scheduler.NewReminder(ledger, cfg.Scheduler, cfg.GetSchedulerLocation(), log)
		if err := reminder.Start(); err != nil {
			appLog.Error("failed to start reminder", "error", err)
			os.Exit(1)
		}
	}

	ledgerHandler := handler.NewLedgerHandler(ledger, log)
	healthHandler := handler.NewHealthHandler(pinger, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(ledgerHandler, healthHandler, log)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      response.CORSMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLog.Info("server starting",
			"addr", server.Addr,
			"env", cfg.Server.Env,
			"cache", cfg.CacheEnabled(),
			"scheduler", cfg.Scheduler.Enabled,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if reminder != nil {
		reminder.Stop(ctx)
	}
	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
		return
	}

	appLog.Info("server exited")
}

func initRedis(cfg *config.Config) (*redis.Client, error) {
	if !cfg.CacheEnabled() {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

func setupRoutes(ledgerHandler *handler.LedgerHandler, healthHandler *handler.HealthHandler, log *slog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(log.With("component", logger.ComponentHTTP)))

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods(http.MethodGet)

	ledgerHandler.RegisterRoutes(router)
	return router
}
