package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/crease/crease/pkg/stats"
)

// Engine runs the configured components over every batting and bowling
// record and picks the best performer.
type Engine struct {
	batting         []BattingMetric
	bowling         []BowlingMetric
	insightMinBalls int
}

// NewEngine creates a scoring engine with the given components.
func NewEngine(batting []BattingMetric, bowling []BowlingMetric) *Engine {
	return &Engine{batting: batting, bowling: bowling, insightMinBalls: Defaults().InsightMinBalls}
}

// Rank scores every record with at least one legal ball and returns the
// analysis. Players lists batting records before bowling records, each in
// the order given. The man of the match is the record with the strictly
// highest score; on a tie the earliest record in Players wins.
func (e *Engine) Rank(batting []stats.BattingFigures, bowling []stats.BowlingFigures) *Analysis {
	a := &Analysis{}

	for _, f := range batting {
		if f.Balls == 0 {
			continue
		}
		a.Players = append(a.Players, e.scoreBatting(f))
	}
	for _, f := range bowling {
		if f.Balls == 0 {
			continue
		}
		a.Players = append(a.Players, e.scoreBowling(f))
	}

	for i := range a.Players {
		if a.ManOfTheMatch == nil || a.Players[i].Score > a.ManOfTheMatch.Score {
			a.ManOfTheMatch = &a.Players[i]
		}
	}

	a.Insights = e.insights(batting, bowling)
	return a
}

func (e *Engine) scoreBatting(f stats.BattingFigures) PlayerScore {
	ps := PlayerScore{
		Player:  f.Name,
		Innings: f.Innings,
		Role:    RoleBatting,
		Details: fmt.Sprintf("%d runs from %d balls (SR: %s)", f.Runs, f.Balls, formatRate(f.StrikeRate)),
	}
	for _, m := range e.batting {
		mr := m.EvaluateBatting(f)
		ps.Breakdown = append(ps.Breakdown, mr)
		ps.Score += mr.Contribution
	}
	ps.Rationale = rationale(ps)
	return ps
}

func (e *Engine) scoreBowling(f stats.BowlingFigures) PlayerScore {
	overs := float64(f.Balls) / 6
	ps := PlayerScore{
		Player:  f.Name,
		Innings: f.Innings,
		Role:    RoleBowling,
		Details: fmt.Sprintf("%d wickets in %.1f overs (ER: %s)", f.Wickets, overs, formatRate(f.EconomyRate)),
	}
	for _, m := range e.bowling {
		mr := m.EvaluateBowling(f)
		ps.Breakdown = append(ps.Breakdown, mr)
		ps.Score += mr.Contribution
	}
	ps.Rationale = rationale(ps)
	return ps
}

func rationale(ps PlayerScore) string {
	return fmt.Sprintf("Outstanding %s performance with %s", ps.Role, ps.Details)
}

// insights reports the top scorer, best bowler, fastest scorer and most
// economical bowler. Each is omitted when nobody qualifies; ties keep the
// earliest record.
func (e *Engine) insights(batting []stats.BattingFigures, bowling []stats.BowlingFigures) []Insight {
	var out []Insight

	if top, ok := best(batting, func(a, b stats.BattingFigures) bool { return a.Runs > b.Runs }); ok && top.Runs > 0 {
		out = append(out, Insight{
			Kind: InsightTopScorer, Player: top.Name, Value: float64(top.Runs),
			Message: fmt.Sprintf("Highest scorer: %s with %d runs", top.Name, top.Runs),
		})
	}

	if top, ok := best(bowling, func(a, b stats.BowlingFigures) bool { return a.Wickets > b.Wickets }); ok && top.Wickets > 0 {
		out = append(out, Insight{
			Kind: InsightBestBowler, Player: top.Name, Value: float64(top.Wickets),
			Message: fmt.Sprintf("Best bowler: %s with %d wickets", top.Name, top.Wickets),
		})
	}

	var regular []stats.BattingFigures
	for _, f := range batting {
		if f.Balls > e.insightMinBalls {
			regular = append(regular, f)
		}
	}
	if top, ok := best(regular, func(a, b stats.BattingFigures) bool { return a.StrikeRate > b.StrikeRate }); ok {
		out = append(out, Insight{
			Kind: InsightFastestScorer, Player: top.Name, Value: top.StrikeRate,
			Message: fmt.Sprintf("Fastest scorer: %s (SR: %s)", top.Name, formatRate(top.StrikeRate)),
		})
	}

	var spells []stats.BowlingFigures
	for _, f := range bowling {
		if f.Balls > e.insightMinBalls {
			spells = append(spells, f)
		}
	}
	if top, ok := best(spells, func(a, b stats.BowlingFigures) bool { return a.EconomyRate < b.EconomyRate }); ok {
		out = append(out, Insight{
			Kind: InsightMostEconomical, Player: top.Name, Value: top.EconomyRate,
			Message: fmt.Sprintf("Most economical: %s (ER: %s)", top.Name, formatRate(top.EconomyRate)),
		})
	}

	return out
}

// best returns the first element that no later element beats.
func best[T any](items []T, better func(a, b T) bool) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	top := items[0]
	for _, it := range items[1:] {
		if better(it, top) {
			top = it
		}
	}
	return top, true
}

// formatRate prints a rate with at least one decimal place: 200.0, 133.33.
func formatRate(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
