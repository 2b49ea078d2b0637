// Package api implements the Crease REST API: match lifecycle, ball-by-ball
// scoring and the derived scorecard views.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crease/crease/internal/archive"
	"github.com/crease/crease/internal/ledger"
	"github.com/crease/crease/internal/registry"
	"github.com/crease/crease/internal/tracker"
	"github.com/crease/crease/pkg/config"
	"github.com/crease/crease/pkg/cricket"
	"github.com/crease/crease/pkg/scoring"
)

const maxBodyBytes = 1 << 20

// Handler is the top-level API handler for the Crease service.
type Handler struct {
	matches *registry.Service
	ledger  *ledger.Service
	tracker *tracker.Service
	archive *archive.Archiver
	engine  *scoring.Engine
	cache   *ScorecardCache
	views   config.ViewsConfig
	logger  *slog.Logger
}

// Options carries the optional collaborators of a Handler. Zero values fall
// back to defaults; a nil Archiver disables scorecard archiving.
type Options struct {
	Archiver *archive.Archiver
	Engine   *scoring.Engine
	Cache    *ScorecardCache
	Views    config.ViewsConfig
	Logger   *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(matches *registry.Service, ledgerSvc *ledger.Service, trackerSvc *tracker.Service, opts Options) *Handler {
	h := &Handler{
		matches: matches,
		ledger:  ledgerSvc,
		tracker: trackerSvc,
		archive: opts.Archiver,
		engine:  opts.Engine,
		cache:   opts.Cache,
		views:   opts.Views,
		logger:  opts.Logger,
	}
	if h.engine == nil {
		h.engine = scoring.DefaultEngine()
	}
	if h.cache == nil {
		h.cache = NewScorecardCache(0)
	}
	if h.views == (config.ViewsConfig{}) {
		h.views = config.DefaultConfig().Views
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Match lifecycle
	mux.HandleFunc("POST /api/matches", h.handleCreateMatch)
	mux.HandleFunc("GET /api/matches", h.handleListMatches)
	mux.HandleFunc("GET /api/matches/{matchID}", h.handleGetMatch)
	mux.HandleFunc("PATCH /api/matches/{matchID}/start", h.handleStartMatch)
	mux.HandleFunc("PATCH /api/matches/{matchID}/status", h.handleSetStatus)
	mux.HandleFunc("DELETE /api/matches/{matchID}", h.handleDeleteMatch)

	// Scoring
	mux.HandleFunc("GET /api/matches/{matchID}/state", h.handleGetState)
	mux.HandleFunc("POST /api/matches/{matchID}/state", h.handleSetState)
	mux.HandleFunc("POST /api/matches/{matchID}/score", h.handleScoreBall)
	mux.HandleFunc("GET /api/matches/{matchID}/score", h.handleGetScore)
	mux.HandleFunc("GET /api/matches/{matchID}/balls", h.handleListBalls)
	mux.HandleFunc("DELETE /api/matches/{matchID}/balls/{ballID}", h.handleDeleteBall)

	// Derived views
	mux.HandleFunc("GET /api/matches/{matchID}/statistics", h.handleStatistics)
	mux.HandleFunc("GET /api/matches/{matchID}/analysis", h.handleAnalysis)
	mux.HandleFunc("GET /api/matches/{matchID}/visualization", h.handleVisualization)
	mux.HandleFunc("GET /api/matches/{matchID}/partnerships", h.handlePartnerships)
	mux.HandleFunc("GET /api/matches/{matchID}/verify", h.handleVerify)
	mux.HandleFunc("GET /api/matches/{matchID}/scorecard", h.handleArchivedScorecard)

	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.matches.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

type errorResponse struct {
	Error    string            `json:"error"`
	Code     cricket.Code      `json:"code,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors to HTTP statuses. Anything else is
// logged and reported as an internal error.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *cricket.Error
	if !errors.As(err, &de) {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	status := http.StatusInternalServerError
	switch de.Code {
	case cricket.CodeNotFound:
		status = http.StatusNotFound
	case cricket.CodeInvalidState, cricket.CodeInconsistentLedger:
		status = http.StatusConflict
	case cricket.CodeInvalidArgument:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{Error: de.Error(), Code: de.Code, Metadata: de.Metadata})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return cricket.Invalid("invalid JSON body: " + err.Error())
	}
	return nil
}

// inningsParam reads the optional ?innings= filter. Zero means all innings.
func inningsParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("innings")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, cricket.Invalid("innings must be a positive integer")
	}
	return n, nil
}
