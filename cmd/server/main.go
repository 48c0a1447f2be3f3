package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/sheetcheck/internal/columns"
	"github.com/JonMunkholm/sheetcheck/internal/config"
	"github.com/JonMunkholm/sheetcheck/internal/core"
	"github.com/JonMunkholm/sheetcheck/internal/logging"
	"github.com/JonMunkholm/sheetcheck/internal/pgsource"
	"github.com/JonMunkholm/sheetcheck/internal/web"
)

func main() {
	// Overload so a local .env wins over stale shell exports.
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	resolver, err := columns.Build(cfg.Resolver.Mode,
		columns.Names{Location: cfg.Resolver.LocationColumn, Region: cfg.Resolver.RegionColumn},
		columns.ChatConfig{
			BaseURL:     cfg.Resolver.LLMBaseURL,
			APIKey:      cfg.Resolver.LLMAPIKey,
			Model:       cfg.Resolver.LLMModel,
			Timeout:     cfg.Resolver.LLMTimeout,
			MaxAttempts: cfg.Resolver.LLMMaxAttempts,
		})
	if err != nil {
		slog.Error("failed to build column resolver", "error", err)
		os.Exit(1)
	}

	var source core.TableSource
	if cfg.Database.Enabled() {
		pool, err := connect(context.Background(), cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		source = pgsource.NewLoader(pool, cfg.Database.SourceRowLimit)
		slog.Info("database table source enabled", "row_limit", cfg.Database.SourceRowLimit)
	}

	service := core.NewService(core.Settings{
		MaxFileSize:       cfg.Upload.MaxFileSize,
		MaxRows:           cfg.Upload.MaxRows,
		MaxConcurrent:     cfg.Upload.MaxConcurrent,
		MaxWaitTime:       cfg.Upload.MaxWaitTime,
		Timeout:           cfg.Upload.Timeout,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
	}, resolver, source)

	server := web.NewServer(cfg, service)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		slog.Info("shutting down", "active_analyses", service.Limiter().Active())
		if err := server.Shutdown(ctx); err != nil {
			slog.Warn("shutdown incomplete", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}

// connect opens and pings the pool.
func connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to database", "database", poolConfig.ConnConfig.Database)
	return pool, nil
}
