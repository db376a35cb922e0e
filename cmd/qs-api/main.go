package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/qualityslop/backend/internal/api"
	"github.com/qualityslop/backend/internal/config"
	"github.com/qualityslop/backend/internal/events"
	"github.com/qualityslop/backend/internal/game"
	"github.com/qualityslop/backend/internal/llm"
	"github.com/qualityslop/backend/internal/market"
	"github.com/qualityslop/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	catalog, err := events.Load()
	if err != nil {
		logger.Error("load event catalog", "err", err)
		os.Exit(1)
	}

	fetcher := market.NewClient(cfg.MarketBaseURL)
	tutor := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if !tutor.Enabled() {
		logger.Info("explanations disabled, no api key configured")
	}

	sessions := store.New(func(id string) *game.Session {
		return game.NewSession(game.Config{
			ID:        id,
			Start:     cfg.SimStart,
			End:       cfg.SimEnd,
			Interval:  cfg.TickInterval,
			Symbols:   cfg.StockSymbols,
			StressCap: cfg.StressCap,
			Fetcher:   fetcher,
			Events:    catalog,
			Logger:    logger,
		})
	}, cfg.SessionTTL, cfg.SessionCapacity, time.Now)

	server := api.New(cfg, logger, sessions, catalog, tutor)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("qs api listening", "addr", cfg.Addr, "debug", cfg.Debug)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
