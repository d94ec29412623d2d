package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifesim/internal/api"
	"lifesim/internal/catalog"
	"lifesim/internal/config"
	"lifesim/internal/db"
	"lifesim/internal/market"
	"lifesim/internal/save"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	catalogs := catalog.Builtin()
	if cfg.CatalogDir != "" {
		catalogs, err = catalog.Load(cfg.CatalogDir)
		if err != nil {
			logger.Error("catalog load failed", "dir", cfg.CatalogDir, "err", err)
			os.Exit(1)
		}
	}

	var store save.Store
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		store, err = save.NewPGStore(ctx, pool)
		if err != nil {
			logger.Error("save store init failed", "err", err)
			os.Exit(1)
		}
		logger.Info("using postgres save store")
	} else {
		store, err = save.NewFileStore(cfg.SaveDir)
		if err != nil {
			logger.Error("save store init failed", "dir", cfg.SaveDir, "err", err)
			os.Exit(1)
		}
		logger.Info("using file save store", "dir", cfg.SaveDir)
	}

	var series *market.Series
	if cfg.FeedPath != "" {
		series, err = market.LoadFeedFile(cfg.FeedPath)
		if err != nil {
			logger.Error("market feed load failed", "path", cfg.FeedPath, "err", err)
			os.Exit(1)
		}
		logger.Info("market feed loaded", "path", cfg.FeedPath, "days", series.Days())
	}

	server := api.New(cfg, logger, catalogs, store, series)
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

	logger.Info("lifesim api listening", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
