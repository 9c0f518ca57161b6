package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minimart-pos/minimart-pos/internal/app"
	"github.com/minimart-pos/minimart-pos/internal/catalog"
	"github.com/minimart-pos/minimart-pos/internal/expenses"
	"github.com/minimart-pos/minimart-pos/internal/ledger"
	"github.com/minimart-pos/minimart-pos/internal/orders"
	"github.com/minimart-pos/minimart-pos/internal/platform/cache"
	"github.com/minimart-pos/minimart-pos/internal/platform/db"
	"github.com/minimart-pos/minimart-pos/internal/purchasing"
	"github.com/minimart-pos/minimart-pos/internal/reports"
	"github.com/minimart-pos/minimart-pos/internal/shared"
	"github.com/minimart-pos/minimart-pos/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, report caching disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := reportCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	catalogService := catalog.NewService(catalog.NewRepository(pool))
	userService := users.NewService(users.NewRepository(pool))
	ledgerService := ledger.NewService(ledger.NewRepository(pool), catalogService, auditLogger, reportCache, nil)
	orderService := orders.NewService(orders.NewRepository(pool), catalogService, userService, auditLogger, reportCache, nil)
	purchaseService := purchasing.NewService(purchasing.NewRepository(pool), catalogService, auditLogger, reportCache, nil)
	expenseService := expenses.NewService(expenses.NewRepository(pool), catalogService, auditLogger, reportCache, nil)
	reportService := reports.NewService(reports.NewRepository(pool), reportCache, nil)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		CatalogHandler:    catalog.NewHandler(logger, catalogService),
		UsersHandler:      users.NewHandler(logger, userService),
		LedgerHandler:     ledger.NewHandler(logger, ledgerService),
		OrdersHandler:     orders.NewHandler(logger, orderService),
		PurchasingHandler: purchasing.NewHandler(logger, purchaseService),
		ExpensesHandler:   expenses.NewHandler(logger, expenseService),
		ReportsHandler:    reports.NewHandler(logger, reportService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
