package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/saep/inventory-console/internal/apiclient"
	"github.com/saep/inventory-console/internal/app"
	"github.com/saep/inventory-console/internal/console"
	"github.com/saep/inventory-console/internal/observability"
	"github.com/saep/inventory-console/internal/platform/cache"
	"github.com/saep/inventory-console/internal/shared"
	"github.com/saep/inventory-console/internal/store"
	"github.com/saep/inventory-console/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "console_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	api := apiclient.NewClient(cfg.InventoryAPIURL, nil, metrics)
	inventory := store.New(api, logger, metrics)

	// The console starts even when the API is down; sections render empty
	// until a reload succeeds.
	if snap := inventory.Reload(ctx); snap.Degraded() {
		logger.Warn("initial load degraded", slog.String("api", api.BaseURL()), slog.Any("failed", snap.Failed))
	}

	consoleHandler := console.NewHandler(logger, api, inventory, templates, csrfManager)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		ConsoleHandler: consoleHandler,
		Redis:          redisClient,
		Metrics:        metrics,
	})

	if err := app.Serve(ctx, app.NewServer(cfg, router), logger); err != nil {
		logger.Error("serve", slog.Any("error", err))
		os.Exit(1)
	}
}
