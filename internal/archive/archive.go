package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/crease/crease/pkg/cricket"
	"github.com/crease/crease/pkg/scoring"
	"github.com/crease/crease/pkg/surface"
)

// FinalCard is the id of the scorecard written when a match completes.
const FinalCard = "final"

// Backends accepted by NewStorage.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendGCS   = "gcs"
)

// Config selects and configures a storage backend.
type Config struct {
	Backend   string   `env:"BACKEND" envDefault:"local"`
	Dir       string   `env:"DIR" envDefault:"./data/scorecards"`
	GCSBucket string   `env:"GCS_BUCKET"`
	S3        S3Config `envPrefix:"S3_"`
}

// NewStorage builds the backend named by cfg.Backend.
func NewStorage(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Backend {
	case "", BackendLocal:
		return NewLocalStorage(cfg.Dir), nil
	case BackendS3:
		return NewS3Storage(ctx, cfg.S3)
	case BackendGCS:
		return NewGCSStorage(ctx, cfg.GCSBucket)
	}
	return nil, fmt.Errorf("unknown archive backend %q (want local, s3 or gcs)", cfg.Backend)
}

// Source lists the deliveries of a match in append order.
type Source interface {
	List(ctx context.Context, matchID string, innings int) ([]cricket.Delivery, error)
}

// Archiver writes and reads final scorecards.
type Archiver struct {
	storage Storage
	source  Source
	engine  *scoring.Engine
	logger  *slog.Logger
}

// NewArchiver creates an Archiver. A nil engine uses the default weights.
func NewArchiver(storage Storage, source Source, engine *scoring.Engine, logger *slog.Logger) *Archiver {
	if engine == nil {
		engine = scoring.DefaultEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{storage: storage, source: source, engine: engine, logger: logger}
}

// Archive builds the scorecard of a match from its ledger and stores it as
// the final card, replacing any earlier one.
func (a *Archiver) Archive(ctx context.Context, matchID string) (*surface.Scorecard, error) {
	deliveries, err := a.source.List(ctx, matchID, 0)
	if err != nil {
		return nil, err
	}
	card := surface.BuildScorecard(matchID, deliveries, a.engine)

	data, err := json.Marshal(card)
	if err != nil {
		return nil, fmt.Errorf("marshal scorecard: %w", err)
	}
	if err := a.storage.PutScorecard(ctx, matchID, FinalCard, data); err != nil {
		return nil, fmt.Errorf("store scorecard: %w", err)
	}
	a.logger.Info("scorecard archived", "match_id", matchID, "deliveries", len(deliveries), "bytes", len(data))
	return card, nil
}

// Scorecard reads back the final card of a match.
func (a *Archiver) Scorecard(ctx context.Context, matchID string) (*surface.Scorecard, error) {
	data, err := a.storage.GetScorecard(ctx, matchID, FinalCard)
	if err != nil {
		return nil, err
	}
	var card surface.Scorecard
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, fmt.Errorf("decode scorecard %s: %w", matchID, err)
	}
	return &card, nil
}
