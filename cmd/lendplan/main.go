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

	"github.com/lendplan/lendplan/internal/app"
	"github.com/lendplan/lendplan/internal/ledger"
	ledgerhttp "github.com/lendplan/lendplan/internal/ledger/http"
	"github.com/lendplan/lendplan/internal/plan"
	planhttp "github.com/lendplan/lendplan/internal/plan/http"
	"github.com/lendplan/lendplan/internal/platform/cache"
	"github.com/lendplan/lendplan/internal/platform/db"
	"github.com/lendplan/lendplan/internal/report"
	reporthttp "github.com/lendplan/lendplan/internal/report/http"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, report cache disabled", slog.Any("error", err))
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

	reportCache := report.NewCache(redisClient, cfg.ReportCacheTTL)
	reportService := report.NewService(report.NewRepository(pool), reportCache)
	planService := plan.NewService(plan.NewRepository(pool), reportCache, logger)
	ledgerService := ledger.NewService(ledger.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		PlanHandler:   planhttp.NewHandler(logger, planService, cfg.UploadMaxBytes),
		ReportHandler: reporthttp.NewHandler(logger, reportService),
		LedgerHandler: ledgerhttp.NewHandler(logger, ledgerService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
