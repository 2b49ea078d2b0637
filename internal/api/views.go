package api

import (
	"net/http"

	"github.com/crease/crease/pkg/cricket"
	"github.com/crease/crease/pkg/scoreboard"
	"github.com/crease/crease/pkg/stats"
	"github.com/crease/crease/pkg/surface"
)

// scorecard returns the ledger of a match and its derived scorecard, reusing
// the cached card when the ledger has not changed since it was built.
func (h *Handler) scorecard(r *http.Request, matchID string) ([]cricket.Delivery, *surface.Scorecard, error) {
	ds, version, err := h.ledger.Snapshot(r.Context(), matchID)
	if err != nil {
		return nil, nil, err
	}
	if card, ok := h.cache.Get(matchID, version); ok {
		return ds, card, nil
	}
	card := surface.BuildScorecard(matchID, ds, h.engine)
	h.cache.Put(matchID, version, card)
	return ds, card, nil
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	_, card, err := h.scorecard(r, r.PathValue("matchID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card.Statistics)
}

func (h *Handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	_, card, err := h.scorecard(r, r.PathValue("matchID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card.Analysis)
}

type visualizationResponse struct {
	RunProgression []scoreboard.OverRuns   `json:"run_progression"`
	WicketTimeline []stats.FallOfWicket    `json:"wicket_timeline"`
	RecentBalls    []scoreboard.RecentBall `json:"recent_balls"`
	TotalBalls     int                     `json:"total_balls"`
}

func (h *Handler) handleVisualization(w http.ResponseWriter, r *http.Request) {
	ds, card, err := h.scorecard(r, r.PathValue("matchID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp := visualizationResponse{
		RunProgression: card.Progression,
		WicketTimeline: card.Statistics.FallOfWickets(),
		RecentBalls:    scoreboard.Recent(ds, h.views.VisualizationBalls),
		TotalBalls:     len(ds),
	}
	if resp.RunProgression == nil {
		resp.RunProgression = []scoreboard.OverRuns{}
	}
	if resp.WicketTimeline == nil {
		resp.WicketTimeline = []stats.FallOfWicket{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePartnerships(w http.ResponseWriter, r *http.Request) {
	innings, err := inningsParam(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	_, card, err := h.scorecard(r, r.PathValue("matchID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	out := []stats.Partnership{}
	for _, in := range card.Statistics.Innings {
		if innings == 0 || in.Innings == innings {
			out = append(out, in.Partnerships...)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type verifyResponse struct {
	MatchID         string                  `json:"match_id"`
	Consistent      bool                    `json:"consistent"`
	Inconsistencies []cricket.Inconsistency `json:"inconsistencies"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("matchID")
	issues, err := h.ledger.Verify(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if issues == nil {
		issues = []cricket.Inconsistency{}
	}
	writeJSON(w, http.StatusOK, verifyResponse{MatchID: id, Consistent: len(issues) == 0, Inconsistencies: issues})
}

func (h *Handler) handleArchivedScorecard(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		writeError(w, http.StatusNotFound, "scorecard archive is not configured")
		return
	}
	card, err := h.archive.Scorecard(r.Context(), r.PathValue("matchID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}
