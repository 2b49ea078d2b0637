package api

import (
	"net/http"

	"github.com/crease/crease/internal/registry"
	"github.com/crease/crease/internal/tracker"
	"github.com/crease/crease/pkg/cricket"
	"github.com/crease/crease/pkg/scoreboard"
)

func (h *Handler) handleGetState(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("matchID")
	if _, err := h.matches.Status(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	st, err := h.tracker.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) handleSetState(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("matchID")
	var in tracker.State
	if err := decodeBody(w, r, &in); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if _, err := h.matches.Status(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	st, err := h.tracker.Set(r.Context(), id, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) handleScoreBall(w http.ResponseWriter, r *http.Request) {
	var d cricket.Delivery
	if err := decodeBody(w, r, &d); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	d.MatchID = r.PathValue("matchID")

	stored, err := h.ledger.Append(r.Context(), d)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

type scoreResponse struct {
	Match    *registry.Match                 `json:"match"`
	Innings  map[int]scoreboard.InningsScore `json:"innings_scores"`
	Position scoreboard.Position             `json:"current_over"`
	State    tracker.State                   `json:"match_state"`
	Balls    []scoreboard.RecentBall         `json:"balls"`
}

func (h *Handler) handleGetScore(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("matchID")
	m, err := h.matches.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	ds, card, err := h.scorecard(r, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	st, err := h.tracker.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{
		Match:    m,
		Innings:  card.Summary.Innings,
		Position: card.Summary.Position,
		State:    st,
		Balls:    scoreboard.Recent(ds, h.views.RecentBalls),
	})
}

func (h *Handler) handleListBalls(w http.ResponseWriter, r *http.Request) {
	innings, err := inningsParam(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	ds, err := h.ledger.List(r.Context(), r.PathValue("matchID"), innings)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cricket.SortByPosition(ds))
}

func (h *Handler) handleDeleteBall(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Remove(r.Context(), r.PathValue("matchID"), r.PathValue("ballID")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "delivery removed"})
}
