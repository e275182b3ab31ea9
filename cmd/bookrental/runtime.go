package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nathanaelowenk/bookrental/internal/api"
	"github.com/nathanaelowenk/bookrental/internal/app"
	"github.com/nathanaelowenk/bookrental/internal/config"
	"github.com/nathanaelowenk/bookrental/internal/session"
	"github.com/nathanaelowenk/bookrental/internal/storage/sqlite"
)

// runtime holds everything a command needs, torn down via Close.
type runtime struct {
	cfg *config.Config
	app *app.App

	closers []func() error
}

func (r *runtime) Close() {
	for _, c := range r.closers {
		if err := c(); err != nil {
			slog.Warn("close resource", "error", err)
		}
	}
}

// buildRuntime assembles the client stack from configuration and restores any
// persisted session.
func buildRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	setupLogging(cfg.Logging.Level)

	dir, err := config.EnsureAppDir()
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg}

	store, err := rt.buildSessionStore(cfg, dir)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(api.Config{BaseURL: cfg.Server.BaseURL})
	svc := rt.buildService(client, cfg)

	rt.app = app.New(app.Config{
		Client:       client,
		Service:      svc,
		SessionStore: store,
		PollInterval: cfg.PollInterval(),
	})
	rt.app.Restore()
	return rt, nil
}

func (rt *runtime) buildSessionStore(cfg *config.Config, dir string) (session.RecordStore, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		db, err := sqlite.Open(filepath.Join(dir, "data", "bookrental.db"))
		if err != nil {
			return nil, fmt.Errorf("open session db: %w", err)
		}
		rt.closers = append(rt.closers, db.Close)
		if err := db.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate session db: %w", err)
		}
		return sqlite.NewSessionStore(db), nil
	default:
		return session.NewFileStore(filepath.Join(dir, "data"))
	}
}

func (rt *runtime) buildService(client *api.Client, cfg *config.Config) api.Service {
	r := cfg.Resilience
	if !r.CircuitBreaker && !r.Bulkhead && !r.RateLimit {
		return client
	}
	res := api.NewResilient(client, api.ResilientConfig{
		EnableCircuitBreaker: r.CircuitBreaker,
		EnableBulkhead:       r.Bulkhead,
		EnableRateLimit:      r.RateLimit,
		MaxConcurrent:        r.MaxConcurrent,
		RatePerSecond:        r.RatePerSecond,
		Logger:               slog.Default(),
	})
	rt.closers = append(rt.closers, res.Close)
	return res
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
