package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timely-lab/timely-admin/internal/cache"
	corecfg "github.com/timely-lab/timely-admin/internal/core/config"
	"github.com/timely-lab/timely-admin/internal/core/storage"
	"github.com/timely-lab/timely-admin/internal/core/storage/memory"
	"github.com/timely-lab/timely-admin/internal/core/storage/mongodb"
	"github.com/timely-lab/timely-admin/internal/core/storage/postgres"
	"github.com/timely-lab/timely-admin/internal/dashboard"
	"github.com/timely-lab/timely-admin/internal/fetch"
	"github.com/timely-lab/timely-admin/internal/migrations"
	"github.com/timely-lab/timely-admin/internal/moderation"
	"github.com/timely-lab/timely-admin/internal/server"
)

const connectTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "timely-admin.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// 1. Load Configuration
	cfg, err := corecfg.Load(optionalPath(*configPath))
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log))
	slog.Info("Loaded config",
		"store", cfg.Store.Type,
		"collections", len(cfg.Fetch.Collections),
		"kpis", len(cfg.KPIs),
		"cache_ttl", cfg.Cache.TTL,
	)

	loc, err := cfg.Aggregation.Location()
	if err != nil {
		slog.Error("Invalid aggregation timezone", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Storage
	store, closeStore, err := openStore(cfg.Store)
	if err != nil {
		slog.Error("Failed to initialize store", "type", cfg.Store.Type, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// 3. Initialize read path (bounded fetcher behind the result cache)
	fetcher := fetch.NewFetcher(store, cfg.Fetch.Timeout)
	resultCache := cache.New(fetcher, cfg.Cache.TTL)
	limits := fetch.Bounds{Default: cfg.Fetch.DefaultLimit, Max: cfg.Fetch.MaxLimit}

	// 4. Initialize Services
	dashboardSvc := dashboard.NewService(resultCache, dashboard.Options{
		Collections: cfg.Fetch.Collections,
		KPIs:        cfg.KPIs,
		Limits:      limits,
		Window:      fetch.Bounds{Default: cfg.Aggregation.DefaultWindowDays, Max: cfg.Aggregation.MaxWindowDays},
		Location:    loc,
	})
	moderationSvc := moderation.NewService(store, resultCache, moderation.Options{
		Timeout:         cfg.Fetch.Timeout,
		Location:        loc,
		DefaultStatuses: cfg.Moderation.Statuses(),
		Limits:          limits,
	})

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), store, cfg.Server.Mode)
	srv.Register(dashboardSvc, moderationSvc)

	// 6. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// openStore connects the configured backend and returns it with its cleanup.
func openStore(cfg corecfg.StoreConfig) (storage.DocumentStore, func(), error) {
	switch cfg.Type {
	case corecfg.StoreMongo:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		adapter, err := mongodb.Connect(ctx, cfg.URI, cfg.Database, cfg.MaxPoolSize)
		if err != nil {
			return nil, nil, err
		}
		return adapter, func() {
			ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()
			if err := adapter.Close(ctx); err != nil {
				slog.Warn("[Mongo] Disconnect failed", "error", err)
			}
		}, nil

	case corecfg.StorePostgres:
		db, err := postgres.Open(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunMigrations(db, cfg.AutoMigrate); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		adapter, err := postgres.NewAdapter(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return adapter, func() { adapter.Close() }, nil

	case corecfg.StoreMemory:
		store := memory.NewStore()
		if cfg.FixturePath != "" {
			err := store.LoadFile(cfg.FixturePath)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				slog.Warn("[Memory] Fixture file not found, starting empty", "path", cfg.FixturePath)
			case err != nil:
				return nil, nil, err
			}
		}
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store type %q", cfg.Type)
	}
}

func newLogger(cfg corecfg.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// optionalPath drops the config path when the file does not exist, so the service
// can start from defaults and env alone.
func optionalPath(path string) string {
	if _, err := os.Stat(path); err != nil {
		slog.Warn("Config file not found, using defaults and environment", "path", path)
		return ""
	}
	return path
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
