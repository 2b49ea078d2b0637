// Command creased is the Crease scoring service. It serves the match and
// scoring REST API, Prometheus metrics and a health check.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/crease/crease/internal/api"
	"github.com/crease/crease/internal/archive"
	"github.com/crease/crease/internal/ledger"
	"github.com/crease/crease/internal/platform"
	"github.com/crease/crease/internal/registry"
	"github.com/crease/crease/internal/telemetry"
	"github.com/crease/crease/internal/tracker"
	"github.com/crease/crease/pkg/config"
	"github.com/crease/crease/pkg/scoring"
)

type serverConfig struct {
	Port            string         `env:"PORT"             envDefault:"8080"`
	DatabaseDriver  string         `env:"DATABASE_DRIVER"  envDefault:"sqlite"`
	DatabaseURL     string         `env:"DATABASE_URL"     envDefault:"./data/crease.db"`
	ConfigFile      string         `env:"CONFIG"`
	CacheSize       int            `env:"CACHE_SIZE"       envDefault:"64"`
	LogLevel        string         `env:"LOG_LEVEL"        envDefault:"info"`
	LogFormat       string         `env:"LOG_FORMAT"       envDefault:"json"`
	OTelEndpoint    string         `env:"OTEL_ENDPOINT"`
	ShutdownTimeout time.Duration  `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	Archive         archive.Config `envPrefix:"ARCHIVE_"`
}

func loadServerConfig() (serverConfig, error) {
	var cfg serverConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "CREASE_"}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// loadFileConfig reads the scoring and ledger settings. An unset path
// searches the working directory and its parents.
func loadFileConfig(path string) (*config.Config, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if path = config.FindConfigFile(cwd); path == "" {
			return config.DefaultConfig(), nil
		}
	}
	return config.Load(path)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadServerConfig()
	if err != nil {
		return err
	}
	logger, err := telemetry.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	fileCfg, err := loadFileConfig(cfg.ConfigFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	policy, err := ledger.ParsePolicy(fileCfg.Ledger.RemovalPolicy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.OTelEndpoint, "creased")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("flush traces", "error", err)
		}
	}()

	db, err := platform.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := platform.AutoMigrate(db); err != nil {
		return err
	}

	storage, err := archive.NewStorage(ctx, cfg.Archive)
	if err != nil {
		return err
	}
	if c, ok := storage.(io.Closer); ok {
		defer c.Close()
	}

	// Initialize services
	metrics := telemetry.NewMetrics()
	engine := scoring.NewEngineFromWeights(fileCfg.Scoring.Weights)
	matches := registry.NewService(db)
	ledgerSvc := ledger.NewService(ledger.NewSQLStore(db), matches,
		ledger.WithPolicy(policy),
		ledger.WithObserver(metrics),
		ledger.WithLogger(logger),
	)
	trackerSvc := tracker.NewService(tracker.NewSQLStore(db))
	archiver := archive.NewArchiver(storage, ledgerSvc, engine, logger)

	handler := api.NewHandler(matches, ledgerSvc, trackerSvc, api.Options{
		Archiver: archiver,
		Engine:   engine,
		Cache:    api.NewScorecardCache(cfg.CacheSize),
		Views:    fileCfg.Views,
		Logger:   logger,
	})

	// Set up HTTP routes
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           telemetry.Middleware(nil, metrics, logger, api.CORS(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting creased",
			"port", cfg.Port, "database", string(db.Dialect),
			"archive", cfg.Archive.Backend, "removal_policy", string(policy))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
