package scoring_test

import (
	"strings"
	"testing"

	"github.com/crease/crease/pkg/scoring"
	"github.com/crease/crease/pkg/stats"
)

func findBreakdown(ps scoring.PlayerScore, key string) *scoring.MetricResult {
	for i := range ps.Breakdown {
		if ps.Breakdown[i].Key == key {
			return &ps.Breakdown[i]
		}
	}
	return nil
}

func TestRankCenturyBatter(t *testing.T) {
	batting := []stats.BattingFigures{
		{Name: "Root", Innings: 1, Runs: 120, Balls: 60, Fours: 10, Sixes: 5, StrikeRate: 200},
	}

	a := scoring.DefaultEngine().Rank(batting, nil)
	if a.ManOfTheMatch == nil {
		t.Fatal("expected a man of the match")
	}
	mom := a.ManOfTheMatch
	if mom.Score != 220 {
		t.Errorf("expected score 220, got %f", mom.Score)
	}
	if mom.Role != scoring.RoleBatting {
		t.Errorf("expected batting role, got %s", mom.Role)
	}

	want := map[string]float64{
		"runs":               120,
		"boundaries":         40,
		"strike_rate_band":   20,
		"batting_milestones": 40,
	}
	for key, c := range want {
		mr := findBreakdown(*mom, key)
		if mr == nil {
			t.Errorf("missing breakdown entry %s", key)
			continue
		}
		if mr.Contribution != c {
			t.Errorf("%s: expected contribution %f, got %f", key, c, mr.Contribution)
		}
	}

	wantDetails := "120 runs from 60 balls (SR: 200.0)"
	if mom.Details != wantDetails {
		t.Errorf("expected details %q, got %q", wantDetails, mom.Details)
	}
	if mom.Rationale != "Outstanding batting performance with "+wantDetails {
		t.Errorf("unexpected rationale %q", mom.Rationale)
	}
}

func TestRankFiveWicketBowler(t *testing.T) {
	bowling := []stats.BowlingFigures{
		{Name: "Anderson", Innings: 1, RunsConceded: 16, Balls: 24, Wickets: 5, EconomyRate: 4.0},
	}

	a := scoring.DefaultEngine().Rank(nil, bowling)
	if a.ManOfTheMatch == nil {
		t.Fatal("expected a man of the match")
	}
	if a.ManOfTheMatch.Score != 148 {
		t.Errorf("expected score 148, got %f", a.ManOfTheMatch.Score)
	}
	econ := findBreakdown(*a.ManOfTheMatch, "economy_band")
	if econ == nil || econ.Contribution != 8 {
		t.Errorf("economy of exactly 4.0 should fall in the <6 band, got %+v", econ)
	}
	if want := "5 wickets in 4.0 overs (ER: 4.0)"; a.ManOfTheMatch.Details != want {
		t.Errorf("expected details %q, got %q", want, a.ManOfTheMatch.Details)
	}
}

func TestEconomyBands(t *testing.T) {
	tests := []struct {
		economy float64
		want    float64
	}{
		{3.99, 15},
		{4.0, 8},
		{5.99, 8},
		{6.0, 0},
		{8.0, 0},
		{8.5, -5},
		{10.0, -5},
		{10.5, -10},
	}
	m := &scoring.EconomyMetric{Bands: scoring.Defaults().EconomyBands}
	for _, tt := range tests {
		got := m.EvaluateBowling(stats.BowlingFigures{Balls: 12, EconomyRate: tt.economy})
		if got.Contribution != tt.want {
			t.Errorf("economy %.2f: expected %f, got %f", tt.economy, tt.want, got.Contribution)
		}
	}
}

func TestStrikeRateBands(t *testing.T) {
	tests := []struct {
		sr   float64
		want float64
	}{
		{150.01, 20},
		{150, 10},
		{120.5, 10},
		{120, 0},
		{80, 0},
		{79.99, -10},
	}
	m := &scoring.StrikeRateMetric{Bands: scoring.Defaults().StrikeRateBands}
	for _, tt := range tests {
		got := m.EvaluateBatting(stats.BattingFigures{Balls: 10, StrikeRate: tt.sr})
		if got.Contribution != tt.want {
			t.Errorf("strike rate %.2f: expected %f, got %f", tt.sr, tt.want, got.Contribution)
		}
	}
}

func TestRankSkipsZeroBallRecords(t *testing.T) {
	batting := []stats.BattingFigures{{Name: "Extras", Runs: 0, Balls: 0}}
	bowling := []stats.BowlingFigures{{Name: "Wides", RunsConceded: 5, Balls: 0}}

	a := scoring.DefaultEngine().Rank(batting, bowling)
	if a.ManOfTheMatch != nil {
		t.Errorf("expected no man of the match, got %+v", a.ManOfTheMatch)
	}
	if len(a.Players) != 0 {
		t.Errorf("expected no scored players, got %d", len(a.Players))
	}
}

func TestRankTieKeepsFirstRecord(t *testing.T) {
	// 40 runs at SR 100: 40 points. 2 wickets at ER 7: 40 points.
	batting := []stats.BattingFigures{{Name: "Bat", Innings: 2, Runs: 40, Balls: 40, StrikeRate: 100}}
	bowling := []stats.BowlingFigures{{Name: "Ball", Innings: 1, RunsConceded: 28, Balls: 24, Wickets: 2, EconomyRate: 7}}

	a := scoring.DefaultEngine().Rank(batting, bowling)
	if len(a.Players) != 2 || a.Players[0].Score != a.Players[1].Score {
		t.Fatalf("expected two equal scores, got %+v", a.Players)
	}
	if a.ManOfTheMatch.Player != "Bat" {
		t.Errorf("expected the batting record to win the tie, got %s", a.ManOfTheMatch.Player)
	}
}

func TestInsights(t *testing.T) {
	batting := []stats.BattingFigures{
		{Name: "Slow", Runs: 30, Balls: 40, StrikeRate: 75},
		{Name: "Cameo", Runs: 20, Balls: 5, StrikeRate: 400},
		{Name: "Quick", Runs: 30, Balls: 12, StrikeRate: 250},
	}
	bowling := []stats.BowlingFigures{
		{Name: "Tight", RunsConceded: 12, Balls: 24, Wickets: 1, EconomyRate: 3},
		{Name: "OneOver", RunsConceded: 0, Balls: 3, Wickets: 2, EconomyRate: 0},
	}

	a := scoring.DefaultEngine().Rank(batting, bowling)

	got := make(map[scoring.InsightKind]scoring.Insight)
	for _, in := range a.Insights {
		got[in.Kind] = in
	}
	if got[scoring.InsightTopScorer].Player != "Slow" {
		t.Errorf("top scorer tie should keep first record, got %s", got[scoring.InsightTopScorer].Player)
	}
	if got[scoring.InsightBestBowler].Player != "OneOver" {
		t.Errorf("expected OneOver as best bowler, got %s", got[scoring.InsightBestBowler].Player)
	}
	if got[scoring.InsightFastestScorer].Player != "Quick" {
		t.Errorf("players with 5 balls or fewer must not qualify, got %s", got[scoring.InsightFastestScorer].Player)
	}
	if got[scoring.InsightMostEconomical].Player != "Tight" {
		t.Errorf("expected Tight as most economical, got %s", got[scoring.InsightMostEconomical].Player)
	}
	if msg := got[scoring.InsightFastestScorer].Message; !strings.Contains(msg, "SR: 250.0") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestInsightsOmittedWithoutQualifiers(t *testing.T) {
	batting := []stats.BattingFigures{{Name: "Duck", Runs: 0, Balls: 3}}
	bowling := []stats.BowlingFigures{{Name: "Part", Balls: 4, Wickets: 0}}

	a := scoring.DefaultEngine().Rank(batting, bowling)
	if len(a.Insights) != 0 {
		t.Errorf("expected no insights, got %+v", a.Insights)
	}
}

func TestWeightsValidate(t *testing.T) {
	if err := scoring.Defaults().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	w := scoring.Defaults()
	w.EconomyBands = append(w.EconomyBands, scoring.Band{Op: "ge", Threshold: 12})
	if err := w.Validate(); err == nil {
		t.Error("expected error for unknown comparison")
	}
}

func TestCustomWeights(t *testing.T) {
	w := scoring.Defaults()
	w.WicketWeight = 25
	w.BowlingMilestones = nil

	a := scoring.NewEngineFromWeights(w).Rank(nil, []stats.BowlingFigures{
		{Name: "X", Balls: 24, Wickets: 3, RunsConceded: 30, EconomyRate: 7.5},
	})
	if a.ManOfTheMatch.Score != 75 {
		t.Errorf("expected 75, got %f", a.ManOfTheMatch.Score)
	}
}
