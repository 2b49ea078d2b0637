package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crease/crease/internal/api"
	"github.com/crease/crease/internal/archive"
	"github.com/crease/crease/internal/ledger"
	"github.com/crease/crease/internal/platform/platformtest"
	"github.com/crease/crease/internal/registry"
	"github.com/crease/crease/internal/tracker"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := platformtest.NewSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	matches := registry.NewService(db)
	ledgerSvc := ledger.NewService(ledger.NewSQLStore(db), matches, ledger.WithLogger(logger))
	trackerSvc := tracker.NewService(tracker.NewSQLStore(db))
	archiver := archive.NewArchiver(archive.NewLocalStorage(t.TempDir()), ledgerSvc, nil, logger)

	h := api.NewHandler(matches, ledgerSvc, trackerSvc, api.Options{Archiver: archiver, Logger: logger})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return &testServer{t: t, handler: api.CORS(mux)}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) createLiveMatch() string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/matches", map[string]string{
		"name": "Lord's Test", "team1": "England", "team2": "India",
		"toss_winner": "England", "toss_decision": "bat", "batting_first": "England",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[map[string]any](s.t, rec)["id"].(string)

	rec = s.do(http.MethodPatch, "/api/matches/"+id+"/start", nil)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return id
}

func (s *testServer) score(matchID string, ball map[string]any) map[string]any {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/matches/"+matchID+"/score", ball)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]any](s.t, rec)
}

func ball(over, n int, batter string, runs int) map[string]any {
	return map[string]any{
		"innings": 1, "over_number": over, "ball_number": n,
		"batsman": batter, "bowler": "Bumrah", "runs": runs,
	}
}

func TestMatchLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/matches", map[string]string{"name": "Friendly", "team1": "A", "team2": "B"})
	require.Equal(t, http.StatusCreated, rec.Code)
	m := decode[map[string]any](t, rec)
	id := m["id"].(string)
	assert.Equal(t, "setup", m["status"])

	rec = s.do(http.MethodGet, "/api/matches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = s.do(http.MethodPost, "/api/matches/"+id+"/score", ball(0, 1, "Root", 1))
	assert.Equal(t, http.StatusConflict, rec.Code, "scoring requires a live match")
	assert.Equal(t, "INVALID_STATE", decode[map[string]any](t, rec)["code"])

	rec = s.do(http.MethodPatch, "/api/matches/"+id+"/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "live", decode[map[string]any](t, rec)["status"])

	rec = s.do(http.MethodPatch, "/api/matches/"+id+"/status", map[string]string{"status": "paused"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPatch, "/api/matches/"+id+"/status", map[string]string{"status": "setup"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPatch, "/api/matches/"+id+"/status", map[string]string{"status": "abandoned"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/matches/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/matches/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodDelete, "/api/matches/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateMatchValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/matches", map[string]string{"name": "x", "team1": "A", "team2": "A"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/matches", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoringAndViews(t *testing.T) {
	s := newTestServer(t)
	id := s.createLiveMatch()

	first := s.score(id, ball(0, 1, "Crawley", 4))
	wide := ball(0, 2, "Crawley", 0)
	wide["extras"], wide["extras_type"] = 1, "wide"
	second := s.score(id, wide)
	out := ball(0, 3, "Crawley", 0)
	out["wicket"], out["wicket_type"] = true, "bowled"
	third := s.score(id, out)
	last := s.score(id, ball(0, 4, "Pope", 2))

	assert.EqualValues(t, 1, first["legal_ball_number"])
	assert.EqualValues(t, 1, second["legal_ball_number"])
	assert.EqualValues(t, 2, third["legal_ball_number"])
	assert.EqualValues(t, 3, last["legal_ball_number"])

	bad := ball(0, 5, "Pope", -1)
	rec := s.do(http.MethodPost, "/api/matches/"+id+"/score", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	t.Run("score view", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/matches/"+id+"/score", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var v struct {
			Innings map[string]struct {
				Runs, Wickets, Extras, Balls, Overs int
				BallsInCurrentOver                  int `json:"balls_in_current_over"`
			} `json:"innings_scores"`
			Position struct{ Innings, Over, Ball int } `json:"current_over"`
			State    struct {
				OnStrike string `json:"on_strike"`
			} `json:"match_state"`
			Balls []map[string]any `json:"balls"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
		first := v.Innings["1"]
		assert.Equal(t, 7, first.Runs)
		assert.Equal(t, 1, first.Wickets)
		assert.Equal(t, 1, first.Extras)
		assert.Equal(t, 3, first.Balls)
		assert.Equal(t, 3, first.BallsInCurrentOver)
		assert.Equal(t, 4, v.Position.Ball)
		assert.Equal(t, "striker", v.State.OnStrike)
		assert.Len(t, v.Balls, 4)
	})

	t.Run("balls", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/matches/"+id+"/balls?innings=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]map[string]any](t, rec), 4)

		rec = s.do(http.MethodGet, "/api/matches/"+id+"/balls?innings=2", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]map[string]any](t, rec))

		rec = s.do(http.MethodGet, "/api/matches/"+id+"/balls?innings=first", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("statistics", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/matches/"+id+"/statistics", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var st struct {
			Summary struct {
				TotalRuns  int `json:"total_runs"`
				Wickets    int `json:"total_wickets"`
				Boundaries int `json:"boundaries"`
			} `json:"match_summary"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
		assert.Equal(t, 6, st.Summary.TotalRuns)
		assert.Equal(t, 1, st.Summary.Boundaries)
	})

	t.Run("analysis", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/matches/"+id+"/analysis", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		a := decode[map[string]any](t, rec)
		require.NotNil(t, a["man_of_match"])
		assert.NotEmpty(t, a["player_scores"])
	})

	t.Run("visualization", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/matches/"+id+"/visualization", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		v := decode[map[string]any](t, rec)
		assert.EqualValues(t, 4, v["total_balls"])
		assert.Len(t, v["wicket_timeline"], 1)
		assert.Len(t, v["run_progression"], 1)
		assert.Len(t, v["recent_balls"], 4)
	})

	t.Run("partnerships", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/matches/"+id+"/partnerships?innings=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		ps := decode[[]map[string]any](t, rec)
		require.Len(t, ps, 2)
		assert.EqualValues(t, 5, ps[0]["runs"])
		assert.Equal(t, false, ps[0]["unbroken"])
		assert.Equal(t, true, ps[1]["unbroken"])
	})

	t.Run("remove", func(t *testing.T) {
		rec := s.do(http.MethodDelete, "/api/matches/"+id+"/balls/"+first["id"].(string), nil)
		assert.Equal(t, http.StatusConflict, rec.Code, "only the latest delivery of the over is removable")

		rec = s.do(http.MethodDelete, "/api/matches/"+id+"/balls/"+last["id"].(string), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(http.MethodDelete, "/api/matches/"+id+"/balls/"+last["id"].(string), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = s.do(http.MethodGet, "/api/matches/"+id+"/visualization", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 3, decode[map[string]any](t, rec)["total_balls"], "views reflect the removal")
	})

	t.Run("verify", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/matches/"+id+"/verify", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		v := decode[map[string]any](t, rec)
		assert.Equal(t, true, v["consistent"])
		assert.Empty(t, v["inconsistencies"])
	})
}

func TestMatchState(t *testing.T) {
	s := newTestServer(t)
	id := s.createLiveMatch()

	rec := s.do(http.MethodGet, "/api/matches/"+id+"/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, st["current_innings"])
	assert.Nil(t, st["current_striker"])

	rec = s.do(http.MethodPost, "/api/matches/"+id+"/state", map[string]any{
		"current_striker": "Root", "current_non_striker": "Brook", "current_bowler": "Siraj",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/matches/"+id+"/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st = decode[map[string]any](t, rec)
	assert.Equal(t, "Root", st["current_striker"])
	assert.Equal(t, "Siraj", st["current_bowler"])

	rec = s.do(http.MethodPost, "/api/matches/"+id+"/state", map[string]any{"on_strike": "nonStriker"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "non-striker", decode[map[string]any](t, rec)["on_strike"])

	rec = s.do(http.MethodPost, "/api/matches/"+id+"/state", map[string]any{"on_strike": "umpire"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/matches/nope/state", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompletionArchivesScorecard(t *testing.T) {
	s := newTestServer(t)
	id := s.createLiveMatch()
	s.score(id, ball(0, 1, "Root", 6))

	rec := s.do(http.MethodGet, "/api/matches/"+id+"/scorecard", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPatch, "/api/matches/"+id+"/status", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/matches/"+id+"/scorecard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	card := decode[map[string]any](t, rec)
	assert.Equal(t, id, card["match_id"])

	rec = s.do(http.MethodPost, "/api/matches/"+id+"/score", ball(0, 2, "Root", 1))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUnknownMatch(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/score", "/balls", "/statistics", "/analysis", "/visualization", "/partnerships", "/verify"} {
		rec := s.do(http.MethodGet, "/api/matches/missing"+path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestCORSAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodOptions, "/api/matches", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	rec = s.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
