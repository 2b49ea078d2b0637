package scoreboard

import "github.com/crease/crease/pkg/cricket"

// OverRuns is one point of the run progression chart.
type OverRuns struct {
	Innings        int `json:"innings"`
	Over           int `json:"over"` // 1-based for display
	RunsInOver     int `json:"runs_in_over"`
	CumulativeRuns int `json:"cumulative_runs"`
}

// RecentBall is the condensed view of a delivery used by live tickers.
type RecentBall struct {
	Over       string             `json:"over"`
	Batter     string             `json:"batsman"`
	Bowler     string             `json:"bowler"`
	Runs       int                `json:"runs"`
	Extras     int                `json:"extras"`
	ExtrasKind cricket.ExtrasKind `json:"extras_type"`
	Wicket     bool               `json:"wicket"`
	Annotation string             `json:"commentary,omitempty"`
}

// Progression returns runs per over with the innings' cumulative total. The
// cumulative total restarts at each innings.
func Progression(deliveries []cricket.Delivery) []OverRuns {
	var (
		out     []OverRuns
		current *OverRuns
	)
	for _, d := range cricket.SortByPosition(deliveries) {
		if current == nil || current.Innings != d.Innings || current.Over != d.Over+1 {
			cumulative := 0
			if current != nil && current.Innings == d.Innings {
				cumulative = current.CumulativeRuns
			}
			out = append(out, OverRuns{Innings: d.Innings, Over: d.Over + 1, CumulativeRuns: cumulative})
			current = &out[len(out)-1]
		}
		current.RunsInOver += d.TotalRuns()
		current.CumulativeRuns += d.TotalRuns()
	}
	return out
}

// Recent returns the last n deliveries in (innings, over, ball) order.
func Recent(deliveries []cricket.Delivery, n int) []RecentBall {
	sorted := cricket.SortByPosition(deliveries)
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	out := make([]RecentBall, 0, len(sorted))
	for _, d := range sorted {
		out = append(out, RecentBall{
			Over:       d.OverLabel(),
			Batter:     d.Batter,
			Bowler:     d.Bowler,
			Runs:       d.Runs,
			Extras:     d.Extras,
			ExtrasKind: d.ExtrasKind,
			Wicket:     d.Wicket,
			Annotation: d.Annotation,
		})
	}
	return out
}
