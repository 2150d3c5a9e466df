package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aevon-lab/adpulse/internal/analytics"
	"github.com/aevon-lab/adpulse/internal/cache"
	corecfg "github.com/aevon-lab/adpulse/internal/core/config"
	"github.com/aevon-lab/adpulse/internal/core/storage/postgres"
	"github.com/aevon-lab/adpulse/internal/dispatch"
	"github.com/aevon-lab/adpulse/internal/index"
	"github.com/aevon-lab/adpulse/internal/index/clickhouse"
	"github.com/aevon-lab/adpulse/internal/index/memory"
	"github.com/aevon-lab/adpulse/internal/ingestion"
	"github.com/aevon-lab/adpulse/internal/migrations"
	"github.com/aevon-lab/adpulse/internal/mirror"
	"github.com/aevon-lab/adpulse/internal/realtime"
	"github.com/aevon-lab/adpulse/internal/seed"
	"github.com/aevon-lab/adpulse/internal/server"
)

func main() {
	configPath := flag.String("config", "adpulse.yaml", "Path to configuration file")
	seedPath := flag.String("seed", "", "Optional campaign fixture file to upsert on startup")
	flag.Parse()

	if err := run(*configPath, *seedPath); err != nil {
		slog.Error("Fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("Shutdown complete")
}

func run(configPath, seedPath string) error {
	// 1. Configuration and logging
	cfg, err := corecfg.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg.Log)
	slog.Info("Loaded config",
		"addr", cfg.Server.Addr(),
		"index", cfg.Index.Type,
		"cache_enabled", cfg.Cache.Enabled,
		"reconcile_enabled", cfg.Reconcile.Enabled)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 2. Primary ledger
	ledger, err := postgres.NewAdapter(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("failed to initialize ledger: %w", err)
	}
	defer ledger.Close()

	if err := migrations.RunMigrations(ledger.DB(), cfg.Database.AutoMigrate); err != nil {
		return fmt.Errorf("failed to run ledger migrations: %w", err)
	}

	if seedPath != "" {
		campaigns, err := seed.Load(seedPath)
		if err != nil {
			return err
		}
		if err := seed.Apply(ctx, ledger, campaigns); err != nil {
			return fmt.Errorf("failed to seed campaigns: %w", err)
		}
	}

	checks := []server.Check{{Name: "ledger", Target: ledger, Required: true}}

	// 3. Cache layer
	c := cache.New(nil, cfg.Cache.OpTimeout)
	if cfg.Cache.Enabled {
		if c, err = cache.NewFromURL(ctx, cfg.Cache.URL, cfg.Cache.OpTimeout); err != nil {
			return fmt.Errorf("failed to initialize cache: %w", err)
		}
		checks = append(checks, server.Check{Name: "cache", Target: c})
	}
	defer c.Close()
	ring := cache.NewRing(c, cfg.Cache.RecentCapacity, cfg.Cache.RecentTTL)

	// 4. Secondary index
	idx, err := openIndex(ctx, cfg.Index)
	if err != nil {
		return err
	}
	var mirrorSvc *mirror.Mirror
	if idx != nil {
		defer idx.Close()
		if err := idx.EnsureIndex(ctx); err != nil {
			slog.Warn("[Index] EnsureIndex failed, continuing with ledger fallback", "error", err)
		}
		mirrorSvc = mirror.New(idx, ledger)
		checks = append(checks, server.Check{Name: "index", Target: idx})
	}

	// 5. Side-effect dispatcher and broadcast hub
	dispatcher := dispatch.New(dispatch.Options{
		Workers:     cfg.Dispatch.Workers,
		QueueSize:   cfg.Dispatch.QueueSize,
		TaskTimeout: cfg.Dispatch.TaskTimeout,
	})
	hub := realtime.NewHub(cfg.Realtime.ClientBuffer)

	// 6. Services
	ingestionSvc := ingestion.NewService(ledger, ledger, dispatcher, ingestion.Sinks{
		Mirror: mirrorSvc,
		Hub:    hub,
		Ring:   ring,
	}, ingestion.Options{
		MaxBatch:        cfg.Ingestion.MaxBatch,
		MaxMetadataKeys: cfg.Ingestion.MaxMetadataKeys,
		MaxBodySizeMB:   cfg.Server.MaxBodySizeMB,
	})

	var engineIdx index.Index
	if idx != nil {
		engineIdx = idx
	}
	engine := analytics.NewEngine(ledger, ledger, engineIdx, c, ring, cfg.Cache.AnalyticsTTL)

	// 7. HTTP
	srv := server.New(cfg.Server.Addr(), cfg.Server.Mode, checks...)
	srv.ShutdownTimeout = cfg.Server.ShutdownTimeout
	api := srv.Engine.Group("/api/v1")
	ingestionSvc.RegisterRoutes(api)
	engine.RegisterRoutes(api)
	realtime.NewTransport(hub, cfg.Realtime.Origins()).RegisterRoutes(srv.Engine)
	srv.RegisterOnShutdown(hub.Shutdown)

	// 8. Background reconciliation
	if mirrorSvc != nil && cfg.Reconcile.Enabled {
		reconciler := mirror.NewReconciler(cfg.Reconcile.Interval, cfg.Reconcile.BatchSize, cfg.Reconcile.StaleAfter, ledger, mirrorSvc)
		go func() {
			if err := reconciler.Start(ctx); err != nil {
				slog.Error("[Reconciler] Stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("[Reconciler] Disabled", "index", cfg.Index.Type)
	}

	// Blocks until a signal cancels ctx.
	runErr := srv.Run(ctx)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stopCancel()
	if err := dispatcher.Stop(stopCtx); err != nil {
		slog.Warn("[Dispatch] Pending side effects abandoned", "error", err)
	}
	return runErr
}

// openIndex returns the guarded secondary index, or nil when none is configured.
func openIndex(ctx context.Context, cfg corecfg.IndexConfig) (*index.Guarded, error) {
	var inner index.Index
	switch cfg.Type {
	case corecfg.IndexNone:
		slog.Info("[Index] Secondary index disabled, analytics read the ledger")
		return nil, nil
	case corecfg.IndexMemory:
		inner = memory.New()
	case corecfg.IndexClickHouse:
		adapter, err := clickhouse.NewAdapter(ctx, clickhouse.Options{
			Addr:            cfg.Addr,
			Database:        cfg.Database,
			Username:        cfg.Username,
			Password:        cfg.Password,
			Table:           cfg.Table,
			DialTimeout:     cfg.DialTimeout,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize clickhouse index: %w", err)
		}
		inner = adapter
	default:
		return nil, fmt.Errorf("unsupported index type %q", cfg.Type)
	}
	return index.NewGuarded(inner, index.GuardOptions{
		CallTimeout: cfg.CallTimeout,
		Retries:     cfg.Retries,
		Backoff:     cfg.Backoff,
	}), nil
}

func setupLogger(cfg corecfg.LogConfig) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
