// Package scoreboard folds a match ledger into per-innings running totals.
// Every value is recomputed from the deliveries on each call.
package scoreboard

import (
	"sort"
	"strconv"

	"github.com/crease/crease/pkg/cricket"
)

// BallsPerOver is the number of legal deliveries in an over.
const BallsPerOver = 6

// InningsScore is the derived team total for one innings.
type InningsScore struct {
	Runs               int `json:"runs"`
	Wickets            int `json:"wickets"`
	Extras             int `json:"extras"`
	LegalBalls         int `json:"balls"`
	Overs              int `json:"overs"`
	BallsInCurrentOver int `json:"balls_in_current_over"`
}

// OversLabel renders the overs bowled in the usual "overs.balls" form.
func (s InningsScore) OversLabel() string {
	return strconv.Itoa(s.Overs) + "." + strconv.Itoa(s.BallsInCurrentOver)
}

// Position is the (innings, over, ball) of the most recent delivery.
type Position struct {
	Innings int `json:"innings"`
	Over    int `json:"over"`
	Ball    int `json:"ball"`
}

// Summary holds every innings total and the current position.
type Summary struct {
	Innings  map[int]InningsScore `json:"innings_scores"`
	Position Position             `json:"current_over"`
}

// InningsNumbers returns the innings present in the summary in ascending order.
func (s *Summary) InningsNumbers() []int {
	nums := make([]int, 0, len(s.Innings))
	for n := range s.Innings {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Summarize aggregates deliveries into innings scores. Deliveries may be in
// any order; they are sorted by (innings, over, ball) first.
func Summarize(deliveries []cricket.Delivery) *Summary {
	sum := &Summary{
		Innings:  make(map[int]InningsScore),
		Position: Position{Innings: 1},
	}

	for _, d := range cricket.SortByPosition(deliveries) {
		s := sum.Innings[d.Innings]
		s.Runs += d.TotalRuns()
		s.Extras += d.Extras
		if d.Wicket {
			s.Wickets++
		}
		if d.Legal() {
			s.LegalBalls++
		}
		sum.Innings[d.Innings] = s

		sum.Position = Position{Innings: d.Innings, Over: d.Over, Ball: d.Ball}
	}

	for n, s := range sum.Innings {
		s.Overs, s.BallsInCurrentOver = OversAndBalls(s.LegalBalls)
		sum.Innings[n] = s
	}

	return sum
}

// OversAndBalls splits a legal ball count into completed overs and the balls
// bowled in the current over.
func OversAndBalls(legalBalls int) (overs, balls int) {
	return legalBalls / BallsPerOver, legalBalls % BallsPerOver
}
