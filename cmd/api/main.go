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

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-checkout/internal/application/service"
	"github.com/sangkips/salon-checkout/internal/config"
	"github.com/sangkips/salon-checkout/internal/infrastructure/cache"
	"github.com/sangkips/salon-checkout/internal/infrastructure/database"
	"github.com/sangkips/salon-checkout/internal/infrastructure/metrics"
	"github.com/sangkips/salon-checkout/internal/infrastructure/repository"
	"github.com/sangkips/salon-checkout/internal/infrastructure/salonapi"
	"github.com/sangkips/salon-checkout/internal/infrastructure/tasks"
	"github.com/sangkips/salon-checkout/internal/presentation/http/handler"
	"github.com/sangkips/salon-checkout/internal/presentation/http/middleware"
	"github.com/sangkips/salon-checkout/internal/presentation/http/routes"
	"github.com/sangkips/salon-checkout/pkg/logging"
	"github.com/sangkips/salon-checkout/pkg/printer"
	"github.com/sangkips/salon-checkout/pkg/utils"
)

const maintenanceInterval = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.App.LogLevel)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	sessionRepo := repository.NewCheckoutSessionRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	backend, err := salonapi.NewClient(&cfg.Salon)
	if err != nil {
		slog.Error("failed to configure salon backend client", "error", err)
		os.Exit(1)
	}

	// Redis is optional: without it the catalog is read through on every request and
	// receipts are printed on demand only
	catalogCache := cache.NewNoopCache()
	var receipts service.ReceiptEnqueuer = tasks.DisabledReceiptQueue{}
	if cfg.Redis.Enabled() {
		rdb, err := cache.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Warn("redis unavailable, catalog cache disabled", "error", err)
		} else {
			defer func() { _ = cache.DisconnectRedis(rdb) }()
			catalogCache = cache.NewRedisCache(rdb)
		}

		queue := tasks.NewReceiptQueue(tasks.RedisOpt(&cfg.Redis))
		defer func() { _ = queue.Close() }()
		receipts = queue
	}

	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		slog.Warn("failed to initialize printer", "error", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	m := metrics.New()

	catalogService := service.NewCatalogService(backend, catalogCache, cfg.Redis.CatalogTTL)
	clientService := service.NewClientService(backend)
	checkoutService := service.NewCheckoutService(sessionRepo, backend, catalogService, receipts, m, &cfg.Checkout)
	printerService := service.NewPrinterService(thermalPrinter, backend, &cfg.Receipt, &cfg.Printer, cfg.Checkout.Locale)
	maintenanceService := service.NewMaintenanceService(sessionRepo, idempotencyRepo, cfg.Checkout.SessionTTL)

	if cfg.Redis.Enabled() {
		worker, mux := tasks.NewServer(tasks.RedisOpt(&cfg.Redis), tasks.NewProcessor(printerService))
		if err := worker.Start(mux); err != nil {
			slog.Error("failed to start receipt worker", "error", err)
		} else {
			defer worker.Shutdown()
		}
	}

	go maintenanceService.Run(ctx, maintenanceInterval)

	rateLimiter := middleware.NewCashierRateLimiter(
		middleware.RateLimiterConfigFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	router := routes.Setup(&routes.Handlers{
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Catalog:  handler.NewCatalogHandler(catalogService),
		Client:   handler.NewClientHandler(clientService),
		Printer:  handler.NewPrinterHandler(printerService),
	}, &routes.Deps{
		JWTManager:      utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer),
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Metrics:         m,
		Logger:          slog.Default(),
		RateLimiter:     rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "port", port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
