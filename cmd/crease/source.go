package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/crease/crease/internal/ledger"
	"github.com/crease/crease/internal/platform"
	"github.com/crease/crease/internal/registry"
	"github.com/crease/crease/internal/telemetry"
	"github.com/crease/crease/pkg/config"
	"github.com/crease/crease/pkg/cricket"
	"github.com/crease/crease/pkg/surface"
)

// sourceOpts says where a command reads its deliveries from: a ledger file,
// or a match in a database.
type sourceOpts struct {
	ledgerPath string
	driver     string
	url        string
	matchID    string
}

func addSourceFlags(cmd *cobra.Command, opts *sourceOpts) {
	cmd.Flags().StringVar(&opts.ledgerPath, "ledger", "", "Path to a ledger JSON file")
	cmd.Flags().StringVar(&opts.driver, "database-driver", "sqlite", "Database driver: postgres or sqlite")
	cmd.Flags().StringVar(&opts.url, "database-url", "", "Database URL, or file path for sqlite")
	cmd.Flags().StringVar(&opts.matchID, "match", "", "Match ID to read from the database")
	cmd.MarkFlagsMutuallyExclusive("ledger", "database-url")
}

// ledgerFile answers status queries for the single match held in a file.
type ledgerFile struct {
	matchID string
}

func (f ledgerFile) Status(_ context.Context, matchID string) (cricket.MatchStatus, error) {
	if matchID != f.matchID {
		return "", cricket.NotFound("match", matchID)
	}
	return cricket.StatusCompleted, nil
}

// openLedger returns a read-side ledger over the selected source and the
// match to read. The close function releases any database handle.
func openLedger(ctx context.Context, opts sourceOpts, cfg *config.Config, logger *slog.Logger) (*ledger.Service, string, func(), error) {
	policy, err := ledger.ParsePolicy(cfg.Ledger.RemovalPolicy)
	if err != nil {
		return nil, "", nil, err
	}

	switch {
	case opts.ledgerPath != "":
		l, err := cricket.LoadLedger(opts.ledgerPath)
		if err != nil {
			return nil, "", nil, err
		}
		store := ledger.NewMemoryStore()
		store.Load(l.Deliveries)
		svc := ledger.NewService(store, ledgerFile{matchID: l.MatchID},
			ledger.WithPolicy(policy), ledger.WithLogger(logger))
		return svc, l.MatchID, func() {}, nil

	case opts.url != "":
		if opts.matchID == "" {
			return nil, "", nil, fmt.Errorf("--match is required with --database-url")
		}
		db, err := platform.Open(ctx, opts.driver, opts.url)
		if err != nil {
			return nil, "", nil, err
		}
		svc := ledger.NewService(ledger.NewSQLStore(db), registry.NewService(db),
			ledger.WithPolicy(policy), ledger.WithLogger(logger))
		return svc, opts.matchID, func() { db.Close() }, nil
	}
	return nil, "", nil, fmt.Errorf("one of --ledger or --database-url is required")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		path = config.FindConfigFile(cwd)
		if path == "" {
			return config.DefaultConfig(), nil
		}
	}
	return config.Load(path)
}

func newLogger(w io.Writer) *slog.Logger {
	logger, err := telemetry.NewLogger(w, "warn", "text")
	if err != nil {
		return slog.Default()
	}
	return logger
}

func newRenderer(format string, cfg *config.Config) (surface.Renderer, error) {
	switch format {
	case "text":
		return terminalRenderer(cfg), nil
	case "json":
		return &surface.JSONRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want text or json)", format)
}

func terminalRenderer(cfg *config.Config) *surface.TerminalRenderer {
	return &surface.TerminalRenderer{
		NoColor:          cfg.Render.Color == config.ColorNever,
		ForceColor:       cfg.Render.Color == config.ColorAlways,
		ShowBreakdown:    cfg.Render.ShowBreakdown,
		ShowPartnerships: cfg.Render.ShowPartnerships,
	}
}
