package scoring

import (
	"fmt"

	"github.com/crease/crease/pkg/stats"
)

// WicketsMetric awards points per wicket taken.
type WicketsMetric struct {
	Weight float64
}

func (m *WicketsMetric) Key() string  { return "wickets" }
func (m *WicketsMetric) Name() string { return "Wickets" }

func (m *WicketsMetric) EvaluateBowling(f stats.BowlingFigures) MetricResult {
	return MetricResult{
		Key:          m.Key(),
		Name:         m.Name(),
		Contribution: m.Weight * float64(f.Wickets),
		Evidence:     fmt.Sprintf("%d wickets", f.Wickets),
	}
}

// EconomyMetric applies the first matching economy band.
type EconomyMetric struct {
	Bands []Band
}

func (m *EconomyMetric) Key() string  { return "economy_band" }
func (m *EconomyMetric) Name() string { return "Economy" }

func (m *EconomyMetric) EvaluateBowling(f stats.BowlingFigures) MetricResult {
	c, ev := bandEvidence("ER", f.EconomyRate, m.Bands)
	return MetricResult{Key: m.Key(), Name: m.Name(), Contribution: c, Evidence: ev}
}

// BowlingMilestoneMetric awards three- and five-wicket haul bonuses.
type BowlingMilestoneMetric struct {
	Milestones []Milestone
}

func (m *BowlingMilestoneMetric) Key() string  { return "bowling_milestones" }
func (m *BowlingMilestoneMetric) Name() string { return "Bowling milestones" }

func (m *BowlingMilestoneMetric) EvaluateBowling(f stats.BowlingFigures) MetricResult {
	bonus, reached := milestoneBonus(f.Wickets, m.Milestones)
	result := MetricResult{Key: m.Key(), Name: m.Name(), Contribution: bonus}
	if len(reached) > 0 {
		result.Evidence = fmt.Sprintf("reached %v wickets", reached)
	}
	return result
}
