// Package stats derives batting and bowling figures, the fall of wickets and
// partnerships from a match ledger.
package stats

import (
	"math"
	"strconv"

	"github.com/crease/crease/pkg/scoreboard"
)

// BattingFigures are a batter's numbers for one innings.
type BattingFigures struct {
	Name       string  `json:"name"`
	Innings    int     `json:"innings"`
	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
}

// BowlingFigures are a bowler's numbers for one innings.
type BowlingFigures struct {
	Name         string  `json:"name"`
	Innings      int     `json:"innings"`
	RunsConceded int     `json:"runs_conceded"`
	Balls        int     `json:"balls_bowled"`
	Wickets      int     `json:"wickets"`
	EconomyRate  float64 `json:"economy_rate"`
}

// OversLabel renders the balls bowled as "overs.balls".
func (b BowlingFigures) OversLabel() string {
	o, r := scoreboard.OversAndBalls(b.Balls)
	return strconv.Itoa(o) + "." + strconv.Itoa(r)
}

// FallOfWicket records the team score when a wicket fell.
type FallOfWicket struct {
	Innings      int    `json:"innings"`
	WicketNumber int    `json:"wicket_number"`
	Player       string `json:"player"`
	Score        int    `json:"score"`
	Over         string `json:"over"`
	WicketKind   string `json:"wicket_type,omitempty"`
}

// Partnership is the stand between two consecutive wickets.
type Partnership struct {
	Innings  int      `json:"innings"`
	Wicket   int      `json:"wicket"` // 1 for the opening stand
	Batters  []string `json:"batters"`
	Runs     int      `json:"runs"`
	Balls    int      `json:"balls"`
	Unbroken bool     `json:"unbroken"`
}

// InningsStatistics groups the figures of a single innings. Batters and
// bowlers appear in the order they first featured.
type InningsStatistics struct {
	Innings       int              `json:"innings"`
	Batting       []BattingFigures `json:"batting"`
	Bowling       []BowlingFigures `json:"bowling"`
	FallOfWickets []FallOfWicket   `json:"fall_of_wickets"`
	Partnerships  []Partnership    `json:"partnerships"`
}

// Totals summarizes the whole match.
type Totals struct {
	RunsOffBat int `json:"total_runs"`
	Wickets    int `json:"total_wickets"`
	Deliveries int `json:"total_balls"`
	Boundaries int `json:"boundaries"`
}

// Statistics is the full statistical view of a match.
type Statistics struct {
	Innings []InningsStatistics `json:"innings"`
	Totals  Totals              `json:"match_summary"`
}

// Batting returns every innings' batting figures, innings by innings.
func (s *Statistics) Batting() []BattingFigures {
	var out []BattingFigures
	for _, in := range s.Innings {
		out = append(out, in.Batting...)
	}
	return out
}

// Bowling returns every innings' bowling figures, innings by innings.
func (s *Statistics) Bowling() []BowlingFigures {
	var out []BowlingFigures
	for _, in := range s.Innings {
		out = append(out, in.Bowling...)
	}
	return out
}

// FallOfWickets returns the dismissals of every innings in order.
func (s *Statistics) FallOfWickets() []FallOfWicket {
	var out []FallOfWicket
	for _, in := range s.Innings {
		out = append(out, in.FallOfWickets...)
	}
	return out
}

// ForInnings returns the statistics of one innings, or nil.
func (s *Statistics) ForInnings(n int) *InningsStatistics {
	for i := range s.Innings {
		if s.Innings[i].Innings == n {
			return &s.Innings[i]
		}
	}
	return nil
}

// StrikeRate is runs per hundred balls, rounded to two decimals. Zero balls
// gives zero.
func StrikeRate(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return round2(float64(runs) / float64(balls) * 100)
}

// EconomyRate is runs conceded per six-ball over, rounded to two decimals.
// Zero balls gives zero.
func EconomyRate(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	overs := float64(balls) / scoreboard.BallsPerOver
	return round2(float64(runs) / overs)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
