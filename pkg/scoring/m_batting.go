package scoring

import (
	"fmt"

	"github.com/crease/crease/pkg/stats"
)

// RunsMetric awards points per run scored.
type RunsMetric struct {
	Weight float64
}

func (m *RunsMetric) Key() string  { return "runs" }
func (m *RunsMetric) Name() string { return "Runs" }

func (m *RunsMetric) EvaluateBatting(f stats.BattingFigures) MetricResult {
	return MetricResult{
		Key:          m.Key(),
		Name:         m.Name(),
		Contribution: m.Weight * float64(f.Runs),
		Evidence:     fmt.Sprintf("%d runs", f.Runs),
	}
}

// BoundaryMetric awards a bonus per four and per six.
type BoundaryMetric struct {
	FourBonus float64
	SixBonus  float64
}

func (m *BoundaryMetric) Key() string  { return "boundaries" }
func (m *BoundaryMetric) Name() string { return "Boundaries" }

func (m *BoundaryMetric) EvaluateBatting(f stats.BattingFigures) MetricResult {
	return MetricResult{
		Key:          m.Key(),
		Name:         m.Name(),
		Contribution: m.FourBonus*float64(f.Fours) + m.SixBonus*float64(f.Sixes),
		Evidence:     fmt.Sprintf("%d fours, %d sixes", f.Fours, f.Sixes),
	}
}

// StrikeRateMetric applies the first matching strike-rate band.
type StrikeRateMetric struct {
	Bands []Band
}

func (m *StrikeRateMetric) Key() string  { return "strike_rate_band" }
func (m *StrikeRateMetric) Name() string { return "Strike rate" }

func (m *StrikeRateMetric) EvaluateBatting(f stats.BattingFigures) MetricResult {
	c, ev := bandEvidence("SR", f.StrikeRate, m.Bands)
	return MetricResult{Key: m.Key(), Name: m.Name(), Contribution: c, Evidence: ev}
}

// BattingMilestoneMetric awards half-century and century bonuses.
type BattingMilestoneMetric struct {
	Milestones []Milestone
}

func (m *BattingMilestoneMetric) Key() string  { return "batting_milestones" }
func (m *BattingMilestoneMetric) Name() string { return "Batting milestones" }

func (m *BattingMilestoneMetric) EvaluateBatting(f stats.BattingFigures) MetricResult {
	bonus, reached := milestoneBonus(f.Runs, m.Milestones)
	result := MetricResult{Key: m.Key(), Name: m.Name(), Contribution: bonus}
	if len(reached) > 0 {
		result.Evidence = fmt.Sprintf("reached %v runs", reached)
	}
	return result
}
