package api

import (
	"net/http"

	"github.com/crease/crease/internal/registry"
	"github.com/crease/crease/pkg/cricket"
)

func (h *Handler) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var in registry.NewMatch
	if err := decodeBody(w, r, &in); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	m, err := h.matches.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.logger.Info("match created", "match_id", m.ID, "name", m.Name)
	writeJSON(w, http.StatusCreated, m)
}

func (h *Handler) handleListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matches.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if matches == nil {
		matches = []registry.Match{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (h *Handler) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.matches.Get(r.Context(), r.PathValue("matchID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) handleStartMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.matches.Start(r.Context(), r.PathValue("matchID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.logger.Info("match started", "match_id", m.ID)
	writeJSON(w, http.StatusOK, m)
}

type statusRequest struct {
	Status cricket.MatchStatus `json:"status"`
}

// handleSetStatus moves a match through its lifecycle. Completing a match
// archives its final scorecard; an archive failure is logged but does not
// undo the status change.
func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	m, err := h.matches.SetStatus(r.Context(), r.PathValue("matchID"), req.Status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.logger.Info("match status changed", "match_id", m.ID, "status", string(m.Status))

	if m.Status == cricket.StatusCompleted && h.archive != nil {
		if _, err := h.archive.Archive(r.Context(), m.ID); err != nil {
			h.logger.Error("archive scorecard", "match_id", m.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("matchID")
	if err := h.matches.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.ledger.Invalidate(id)
	h.cache.Remove(id)
	h.logger.Info("match deleted", "match_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "match deleted"})
}
