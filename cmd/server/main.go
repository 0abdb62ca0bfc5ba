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

	"pair_dashboard/internal/app/config"
	"pair_dashboard/internal/app/di"
	"pair_dashboard/internal/app/router"
	candleshandler "pair_dashboard/internal/feature/candles/transport/handler"
	pairshandler "pair_dashboard/internal/feature/pairs/transport/handler"
	"pair_dashboard/internal/platform/http/handler"
	"pair_dashboard/internal/platform/logging"
)

func main() {
	// .envを読み込む
	config.LoadDotEnv(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Usecase（キャッシュ込み）
	services := di.NewServices(ctx, cfg, nil)
	defer func() {
		if err := services.Close(); err != nil {
			slog.Error("failed to close Redis client", "error", err)
		}
	}()

	// Handler
	healthH := handler.NewHealthHandler(services.CacheHealth)
	cacheH := handler.NewCacheHandler(services.PairCache, services.HistoryCache)
	pairsH := pairshandler.NewPairsHandler(services.Pairs)
	historyH := candleshandler.NewHistoryHandler(services.History)

	// ルータ生成
	r := router.NewRouter(cfg.CORSOrigins, healthH, cacheH, pairsH, historyH)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server exited")
}
